package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avelars/eventmerch-service/internal/auth"
	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stock"
	"github.com/avelars/eventmerch-service/internal/stock/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{uc: uc, logger: log}
}

func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/stock/adjustments", h.Adjust)
	rg.GET("/stock/movements", h.ListMovements)
}

type adjustRequest struct {
	VariantID string `json:"variant_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

func (h *StockHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.uc.Adjust(c.Request.Context(), &dto.AdjustStockInput{
		VariantID:     req.VariantID,
		Delta:         req.Delta,
		MovementType:  model.MovementAdjustment,
		Reason:        req.Reason,
		ReferenceType: "manual",
		UserID:        auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, stock.ErrVariantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, stock.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to adjust stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to adjust stock"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant": v})
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	filters := &dto.MovementFilters{
		VariantID:    c.Query("variant_id"),
		MovementType: model.MovementType(c.Query("movement_type")),
		Page:         intQuery(c, "page", 1),
		PageSize:     intQuery(c, "page_size", 50),
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

	movements, total, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list movements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movements": movements,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}
