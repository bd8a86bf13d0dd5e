package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/session"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *StorefrontHandler) GetCart(c *gin.Context) {
	h.respondCart(c)
}

// AddToCart adds a catalog product. The price always comes from the catalog, never from the client.
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if p.OutOfStock() {
		c.JSON(http.StatusConflict, gin.H{"error": MsgOutOfStock})
		return
	}

	var addErr error
	h.do(c, func(st *session.State) {
		addErr = st.Cart.AddItem(*p, req.Quantity)
	})
	if addErr != nil {
		h.fail(c, addErr)
		return
	}
	h.respondCart(c)
}

func (h *StorefrontHandler) UpdateQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity == nil {
		badRequest(c, errors.New("quantity is required"))
		return
	}

	id := c.Param("id")
	h.do(c, func(st *session.State) {
		st.Cart.UpdateQuantity(id, *req.Quantity)
	})
	h.respondCart(c)
}

func (h *StorefrontHandler) RemoveFromCart(c *gin.Context) {
	id := c.Param("id")
	h.do(c, func(st *session.State) {
		st.Cart.RemoveItem(id)
	})
	h.respondCart(c)
}

func (h *StorefrontHandler) ClearCart(c *gin.Context) {
	h.do(c, func(st *session.State) {
		st.Cart.Clear()
	})
	h.respondCart(c)
}

func (h *StorefrontHandler) respondCart(c *gin.Context) {
	var resp gin.H
	h.do(c, func(st *session.State) {
		resp = gin.H{"cart": st.Cart.View()}
	})
	c.JSON(http.StatusOK, resp)
}
