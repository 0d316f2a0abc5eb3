package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avelars/eventmerch-service/internal/auth"
	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/order"
	"github.com/avelars/eventmerch-service/internal/order/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.Create)
	rg.GET("/orders", h.List)
	rg.GET("/orders/:id", h.Get)
	rg.PUT("/orders/:id/items", h.EditItems)
	rg.POST("/orders/:id/cancel", h.Cancel)
	rg.POST("/orders/:id/return", h.Return)
	rg.POST("/orders/:id/validate-payment", h.ValidatePayment)
	rg.POST("/orders/scan", h.Scan)
}

type orderItemRequest struct {
	VariantID string          `json:"variant_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createOrderRequest struct {
	CustomerEmail string             `json:"customer_email" binding:"required,email"`
	UserID        string             `json:"user_id"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
	SaleType      string             `json:"sale_type" binding:"required,oneof=pos online"`
	StandID       string             `json:"stand_id"`
	QRCode        string             `json:"qr_code"`
	Items         []orderItemRequest `json:"items" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &dto.CreateOrderInput{
		CustomerEmail: req.CustomerEmail,
		UserID:        req.UserID,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		SaleType:      model.SaleType(req.SaleType),
		StandID:       req.StandID,
		QRCode:        req.QRCode,
		Items:         mapItems(req.Items),
	}

	o, err := h.uc.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "failed to create order")
		return
	}

	c.JSON(http.StatusCreated, h.orderResponse(o))
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get order")
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(o))
}

func (h *OrderHandler) List(c *gin.Context) {
	filters := &dto.OrderFilters{
		Status:        model.OrderStatus(c.Query("status")),
		SaleType:      model.SaleType(c.Query("sale_type")),
		StandID:       c.Query("stand_id"),
		CustomerEmail: c.Query("customer_email"),
		Page:          intQuery(c, "page", 1),
		PageSize:      intQuery(c, "page_size", 50),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.StartDate = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.EndDate = &t
		}
	}

	orders, total, err := h.uc.ListOrders(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list orders")
		return
	}

	responses := make([]gin.H, len(orders))
	for i := range orders {
		responses[i] = h.orderResponse(&orders[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    responses,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

type editItemsRequest struct {
	Items []orderItemRequest `json:"items" binding:"required"`
}

func (h *OrderHandler) EditItems(c *gin.Context) {
	var req editItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.uc.EditItems(c.Request.Context(), &dto.EditOrderItemsInput{
		OrderID: c.Param("id"),
		Items:   mapItems(req.Items),
		UserID:  auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		h.respondError(c, err, "failed to edit order items")
		return
	}

	c.JSON(http.StatusOK, h.orderResponse(o))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.uc.CancelOrder(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context()))
	if err != nil {
		h.respondError(c, err, "failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(o))
}

type returnOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *OrderHandler) Return(c *gin.Context) {
	var req returnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.uc.ReturnOrder(c.Request.Context(), &dto.ReturnOrderInput{
		OrderID: c.Param("id"),
		Reason:  req.Reason,
		UserID:  auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		h.respondError(c, err, "failed to return order")
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(o))
}

type validatePaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *OrderHandler) ValidatePayment(c *gin.Context) {
	var req validatePaymentRequest
	_ = c.ShouldBindJSON(&req) // body is optional, method correction only

	o, err := h.uc.ValidatePayment(c.Request.Context(), &dto.ValidatePaymentInput{
		OrderID:       c.Param("id"),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.respondError(c, err, "failed to validate payment")
		return
	}
	c.JSON(http.StatusOK, h.orderResponse(o))
}

type scanRequest struct {
	QRCode  string `json:"qr_code" binding:"required"`
	StandID string `json:"stand_id"`
}

func (h *OrderHandler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.uc.ConfirmDelivery(c.Request.Context(), &dto.ConfirmDeliveryInput{
		QRCode:  req.QRCode,
		StandID: req.StandID,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidQR):
			// distinct invalid state, not a server error
			c.JSON(http.StatusOK, gin.H{"result": "invalid"})
		case errors.Is(err, order.ErrAlreadyDelivered):
			c.JSON(http.StatusConflict, gin.H{"result": "already_delivered"})
		case errors.Is(err, order.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"result": "not_deliverable"})
		default:
			h.logger.Error("failed to confirm delivery", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm delivery"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "delivered", "order": h.orderResponse(o)})
}

// orderResponse decorates cash orders with their derived state; the
// projection is recomputed on every read and never persisted.
func (h *OrderHandler) orderResponse(o *model.Order) gin.H {
	resp := gin.H{"order": o}
	if o.PaymentMethod == model.PaymentMethodCash {
		state, remaining := order.DeriveCashState(o.CreatedAt, time.Now(), o.PaymentValidated, o.Status)
		resp["cash_state"] = state
		resp["cash_remaining_seconds"] = int(remaining.Seconds())
	}
	return resp
}

func (h *OrderHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func mapItems(reqs []orderItemRequest) []dto.OrderItemInput {
	items := make([]dto.OrderItemInput, len(reqs))
	for i, r := range reqs {
		items[i] = dto.OrderItemInput{
			VariantID: r.VariantID,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		}
	}
	return items
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}
