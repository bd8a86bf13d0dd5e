package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-storefront-service/internal/orderlog"
	"github.com/gin-gonic/gin"
)

func (h *StorefrontHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	orders, err := h.orders.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *StorefrontHandler) ExportOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), 0)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := orderlog.WriteXLSX(&buf, orders, h.loc); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=commandes.xlsx")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, orderlog.ExportContentType, buf.Bytes())
}

// OrdersFeed streams newly confirmed orders to the admin page over a websocket.
func (h *StorefrontHandler) OrdersFeed(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
