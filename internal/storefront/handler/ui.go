package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/overlay"
	"github.com/fekuna/omnipos-storefront-service/internal/session"
	"github.com/gin-gonic/gin"
)

type searchRequest struct {
	Term string `json:"term"`
}

type navigateRequest struct {
	Path string `json:"path" binding:"required"`
}

var overlayActions = map[string]map[string]func(*overlay.Coordinator){
	"cart": {
		"open":   (*overlay.Coordinator).OpenCart,
		"close":  (*overlay.Coordinator).CloseCart,
		"toggle": (*overlay.Coordinator).ToggleCart,
	},
	"checkout": {
		"open":  (*overlay.Coordinator).OpenCheckout,
		"close": (*overlay.Coordinator).CloseCheckout,
	},
	"search": {
		"open":  (*overlay.Coordinator).OpenSearch,
		"close": (*overlay.Coordinator).CloseSearch,
	},
}

func (h *StorefrontHandler) GetUI(c *gin.Context) {
	h.respondUI(c)
}

// UIAction serves one overlay transition, e.g. POST /api/ui/cart/toggle.
func (h *StorefrontHandler) UIAction(action func(*overlay.Coordinator)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.do(c, func(st *session.State) {
			action(st.UI)
		})
		h.respondUI(c)
	}
}

func (h *StorefrontHandler) SetSearchTerm(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.do(c, func(st *session.State) {
		st.UI.SetSearchTerm(req.Term)
	})
	h.respondUI(c)
}

func (h *StorefrontHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.do(c, func(st *session.State) {
		st.UI.Navigate(req.Path)
	})
	h.respondUI(c)
}

func (h *StorefrontHandler) respondUI(c *gin.Context) {
	var state overlay.State
	h.do(c, func(st *session.State) {
		state = st.UI.State()
	})
	c.JSON(http.StatusOK, gin.H{"ui": state})
}
