package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/session"
	"github.com/gin-gonic/gin"
)

const MsgOutOfStock = "Rupture de stock"

type productView struct {
	model.Product
	Image      string `json:"image"`
	OutOfStock bool   `json:"out_of_stock"`
}

func newProductView(p model.Product) productView {
	return productView{Product: p, Image: p.ImageOrPlaceholder(), OutOfStock: p.OutOfStock()}
}

func newProductViews(products []model.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}
	return out
}

func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), &dto.ProductFilters{
		Channel:     c.Query("channel"),
		SearchQuery: c.Query("q"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": newProductViews(products)})
}

func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	related, err := h.catalog.RelatedProducts(ctx, p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": newProductView(*p),
		"related": newProductViews(related),
	})
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// AddProduct is the product page's "add to cart": add, then show the cart.
func (h *StorefrontHandler) AddProduct(c *gin.Context) {
	h.addFromProductPage(c, func(st *session.State) { st.UI.OpenCart() })
}

// BuyNow adds the product and jumps straight to checkout.
func (h *StorefrontHandler) BuyNow(c *gin.Context) {
	h.addFromProductPage(c, func(st *session.State) { st.UI.OpenCheckout() })
}

func (h *StorefrontHandler) addFromProductPage(c *gin.Context, then func(*session.State)) {
	var req quantityRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if p.OutOfStock() {
		c.JSON(http.StatusConflict, gin.H{"error": MsgOutOfStock})
		return
	}

	var (
		addErr error
		resp   gin.H
	)
	h.do(c, func(st *session.State) {
		if addErr = st.Cart.AddItem(*p, qty); addErr != nil {
			return
		}
		then(st)
		resp = gin.H{"cart": st.Cart.View(), "ui": st.UI.State()}
	})
	if addErr != nil {
		h.fail(c, addErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}
