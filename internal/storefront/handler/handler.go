// Package handler exposes the storefront actions over HTTP with gin.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/delivery"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/notify"
	"github.com/fekuna/omnipos-storefront-service/internal/orderlog"
	"github.com/fekuna/omnipos-storefront-service/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "sid"
	APIKeyHeader  = "X-API-KEY"

	ctxSession = "session"
)

type Options struct {
	Catalog  catalog.UseCase
	Sessions *session.Manager
	Fees     *delivery.Table
	Orders   orderlog.Repository
	Hub      *notify.Hub
	Location *time.Location
	// AdminAPIKey guards /admin when set.
	AdminAPIKey  string
	CookieSecure bool
	SessionTTL   time.Duration
	Logger       logger.ZapLogger
}

type StorefrontHandler struct {
	catalog      catalog.UseCase
	sessions     *session.Manager
	fees         *delivery.Table
	orders       orderlog.Repository
	hub          *notify.Hub
	loc          *time.Location
	adminKey     string
	cookieSecure bool
	cookieMaxAge int
	logger       logger.ZapLogger
}

func NewStorefrontHandler(opts Options) *StorefrontHandler {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &StorefrontHandler{
		catalog:      opts.Catalog,
		sessions:     opts.Sessions,
		fees:         opts.Fees,
		orders:       opts.Orders,
		hub:          opts.Hub,
		loc:          loc,
		adminKey:     opts.AdminAPIKey,
		cookieSecure: opts.CookieSecure,
		cookieMaxAge: int(ttl.Seconds()),
		logger:       opts.Logger,
	}
}

func (h *StorefrontHandler) Register(r *gin.Engine) {
	api := r.Group("/api", h.sessionMiddleware)
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products/:id/add", h.AddProduct)
		api.POST("/products/:id/buy", h.BuyNow)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddToCart)
		api.PUT("/cart/items/:id", h.UpdateQuantity)
		api.DELETE("/cart/items/:id", h.RemoveFromCart)
		api.DELETE("/cart", h.ClearCart)

		api.GET("/ui", h.GetUI)
		for name, actions := range overlayActions {
			for verb, action := range actions {
				api.POST("/ui/"+name+"/"+verb, h.UIAction(action))
			}
		}
		api.PUT("/ui/search", h.SetSearchTerm)
		api.POST("/ui/navigate", h.Navigate)

		api.GET("/delivery/cities", h.ListCities)
		api.GET("/delivery/quote", h.QuoteDelivery)

		api.GET("/checkout", h.GetCheckout)
		api.PUT("/checkout/form", h.UpdateCheckoutForm)
		api.POST("/checkout", h.SubmitOrder)
		api.POST("/checkout/dismiss", h.DismissCheckout)
	}

	admin := r.Group("/admin", h.requireAPIKey)
	{
		admin.GET("/orders", h.ListOrders)
		admin.GET("/orders/export", h.ExportOrders)
		admin.GET("/orders/ws", h.OrdersFeed)
	}
}

// sessionMiddleware resolves the shopper's session from the header or cookie, minting one when needed.
func (h *StorefrontHandler) sessionMiddleware(c *gin.Context) {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id, _ = c.Cookie(SessionCookie)
	}

	s, created := h.sessions.Get(id)
	if created {
		h.logger.Debug("session started", zap.String("session_id", s.ID))
	}

	c.Header(SessionHeader, s.ID)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, s.ID, h.cookieMaxAge, "/", "", h.cookieSecure, true)
	c.Set(ctxSession, s)
	c.Request = c.Request.WithContext(session.WithID(c.Request.Context(), s.ID))
	c.Next()
}

func (h *StorefrontHandler) requireAPIKey(c *gin.Context) {
	if h.adminKey != "" && c.GetHeader(APIKeyHeader) != h.adminKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
		return
	}
	c.Next()
}

func (h *StorefrontHandler) do(c *gin.Context, fn func(*session.State)) {
	c.MustGet(ctxSession).(*session.Session).Do(fn)
}

// fail maps domain errors to HTTP responses.
func (h *StorefrontHandler) fail(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable."})
	case errors.Is(err, catalog.ErrUnknownChannel), errors.Is(err, checkout.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case catalog.IsFetch(err):
		h.logger.Error("catalog fetch failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Impossible de charger les produits. Veuillez réessayer."})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
