package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/session"
	"github.com/gin-gonic/gin"
)

func (h *StorefrontHandler) ListCities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cities": h.fees.Cities()})
}

// QuoteDelivery previews the totals for the session's cart and the given city.
func (h *StorefrontHandler) QuoteDelivery(c *gin.Context) {
	city := c.Query("city")
	var resp gin.H
	h.do(c, func(st *session.State) {
		resp = gin.H{"quote": h.fees.Quote(st.Cart.Total(), city)}
	})
	c.JSON(http.StatusOK, resp)
}

func (h *StorefrontHandler) GetCheckout(c *gin.Context) {
	h.respondCheckout(c, http.StatusOK)
}

func (h *StorefrontHandler) UpdateCheckoutForm(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}
	var err error
	h.do(c, func(st *session.State) {
		err = st.Checkout.SetForm(form)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondCheckout(c, http.StatusOK)
}

// SubmitOrder submits the posted form, or the form saved in the session when the body is empty.
func (h *StorefrontHandler) SubmitOrder(c *gin.Context) {
	var (
		form    checkout.Form
		hasForm bool
	)
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err)
			return
		}
		hasForm = true
	}

	var out checkout.Outcome
	h.do(c, func(st *session.State) {
		if !hasForm {
			form = st.Checkout.Form()
		}
		out = st.Checkout.Submit(c.Request.Context(), form)
	})

	if out.Err != nil {
		h.fail(c, out.Err)
		return
	}
	h.respondCheckout(c, http.StatusCreated)
}

// DismissCheckout closes the checkout overlay and schedules the form reset.
func (h *StorefrontHandler) DismissCheckout(c *gin.Context) {
	h.do(c, func(st *session.State) {
		st.UI.CloseCheckout()
		st.Checkout.Dismiss()
	})
	h.respondCheckout(c, http.StatusOK)
}

func (h *StorefrontHandler) respondCheckout(c *gin.Context, status int) {
	resp := gin.H{}
	h.do(c, func(st *session.State) {
		m := st.Checkout
		resp["state"] = m.State()
		resp["form"] = m.Form()
		resp["quote"] = m.Quote()
		resp["cart"] = st.Cart.View()
		if verr := m.Err(); verr != nil {
			resp["error"] = verr.Message
			resp["field"] = verr.Field
		}
		if order := m.LastOrder(); order != nil {
			resp["order"] = order
		}
	})
	c.JSON(status, resp)
}
