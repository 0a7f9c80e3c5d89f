package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"checkout-service/internal/cart"
	"checkout-service/internal/catalog"
	"checkout-service/internal/checkout"
	"checkout-service/internal/models"
	"checkout-service/internal/orderapi"
	"checkout-service/internal/pricing"
	"checkout-service/internal/session"
	"checkout-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	cart      *cart.Store
	catalog   *catalog.Catalog
	engine    *pricing.Engine
	promos    *pricing.PromoCatalog
	session   *checkout.Session
	builder   *checkout.Builder
	submitter *checkout.Submitter
	identity  *session.Resolver
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cartStore *cart.Store,
	cat *catalog.Catalog,
	engine *pricing.Engine,
	promos *pricing.PromoCatalog,
	checkoutSession *checkout.Session,
	builder *checkout.Builder,
	submitter *checkout.Submitter,
	identity *session.Resolver,
) *Handler {
	return &Handler{
		cart:      cartStore,
		catalog:   cat,
		engine:    engine,
		promos:    promos,
		session:   checkoutSession,
		builder:   builder,
		submitter: submitter,
		identity:  identity,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/cart", h.getCart)
		v1.PUT("/cart/items", h.setQuantity)
		v1.POST("/cart/items/:id/increase", h.increase)
		v1.POST("/cart/items/:id/decrease", h.decrease)
		v1.DELETE("/cart/items/:id", h.removeItem)
		v1.GET("/cart/totals", h.getTotals)

		v1.GET("/promos", h.listPromos)
		v1.POST("/promo", h.applyPromo)
		v1.DELETE("/promo", h.removePromo)

		v1.POST("/checkout", h.submitCheckout)
		v1.GET("/guest-orders", h.listGuestOrders)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the catalog has loaded
func (h *Handler) readinessCheck(c *gin.Context) {
	if !h.catalog.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "catalog loading",
			"time":   time.Now().Unix(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.cart.Snapshot()})
}

type setQuantityRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) setQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	h.cart.SetQuantity(req.ProductID, req.Quantity)
	c.JSON(http.StatusOK, gin.H{"items": h.cart.Snapshot()})
}

func (h *Handler) increase(c *gin.Context) {
	h.cart.Increase(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"items": h.cart.Snapshot()})
}

func (h *Handler) decrease(c *gin.Context) {
	h.cart.Decrease(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"items": h.cart.Snapshot()})
}

func (h *Handler) removeItem(c *gin.Context) {
	h.cart.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"items": h.cart.Snapshot()})
}

func (h *Handler) getTotals(c *gin.Context) {
	quote := h.engine.Quote(h.cart.Snapshot(), h.catalog, h.session.AppliedPromo())
	c.JSON(http.StatusOK, gin.H{
		"quote":        quote,
		"appliedPromo": h.session.AppliedPromo(),
	})
}

func (h *Handler) listPromos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"promos": h.promos.List()})
}

type applyPromoRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyPromo(c *gin.Context) {
	var req applyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	promo, err := h.session.ApplyPromo(req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": promo})
}

func (h *Handler) removePromo(c *gin.Context) {
	h.session.ClearPromo()
	c.Status(http.StatusNoContent)
}

type checkoutRequest struct {
	Shipping      models.ShippingInfo `json:"shipping"`
	PaymentMethod string              `json:"paymentMethod"`
}

func (h *Handler) submitCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if !h.catalog.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog still loading, retry shortly"})
		return
	}

	userID := h.identity.CurrentUserID()
	payload, err := h.builder.Build(h.cart.Snapshot(), req.Shipping, userID, req.PaymentMethod)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	conf, err := h.submitter.Submit(c.Request.Context(), payload)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conf)
}

func (h *Handler) listGuestOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.submitter.GuestOrders()})
}

// renderCheckoutError maps the checkout error taxonomy onto HTTP statuses.
// Every branch leaves the cart editable; nothing here is fatal to the
// session.
func (h *Handler) renderCheckoutError(c *gin.Context, err error) {
	var unknownProduct *checkout.UnknownProductError
	var rejected *checkout.ServerRejectedError
	var transport *orderapi.TransportError
	var persistence *checkout.LocalPersistenceError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrIncompleteShipping),
		errors.Is(err, checkout.ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.As(err, &unknownProduct):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     err.Error(),
			"productId": unknownProduct.ProductID,
		})

	case errors.Is(err, checkout.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &rejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rejected.Message})

	case errors.As(err, &transport):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "Order service unreachable",
			"status": transport.Status,
			"body":   transport.Body,
		})

	case errors.As(err, &persistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
