package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avelars/eventmerch-service/internal/stand"
	"github.com/avelars/eventmerch-service/internal/stand/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StandHandler struct {
	uc     stand.UseCase
	logger logger.ZapLogger
}

func NewStandHandler(uc stand.UseCase, log logger.ZapLogger) *StandHandler {
	return &StandHandler{uc: uc, logger: log}
}

func (h *StandHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/stands", h.Create)
	rg.GET("/stands", h.List)
	rg.GET("/stands/:id", h.Get)
	rg.PUT("/stands/:id", h.Update)
	rg.DELETE("/stands/:id", h.Delete)
	rg.GET("/stands/:id/stock", h.GetStock)
	rg.PUT("/stands/:id/stock", h.AssignStock)
}

type standRequest struct {
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	QRCode       string `json:"qr_code"`
	ImageURL     string `json:"image_url"`
}

func (h *StandHandler) Create(c *gin.Context) {
	var req standRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.uc.CreateStand(c.Request.Context(), &dto.CreateStandInput{
		Name:         req.Name,
		Location:     req.Location,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		QRCode:       req.QRCode,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.respondError(c, err, "failed to create stand")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stand": s})
}

func (h *StandHandler) Get(c *gin.Context) {
	s, err := h.uc.GetStand(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get stand")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stand": s})
}

func (h *StandHandler) List(c *gin.Context) {
	filters := &dto.StandFilters{
		SearchQuery: c.Query("q"),
		Page:        intQuery(c, "page", 1),
		PageSize:    intQuery(c, "page_size", 50),
	}

	stands, total, err := h.uc.ListStands(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list stands")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stands":    stands,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *StandHandler) Update(c *gin.Context) {
	var req standRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.uc.UpdateStand(c.Request.Context(), &dto.UpdateStandInput{
		ID:           c.Param("id"),
		Name:         req.Name,
		Location:     req.Location,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.respondError(c, err, "failed to update stand")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stand": s})
}

func (h *StandHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteStand(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete stand")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StandHandler) GetStock(c *gin.Context) {
	rows, err := h.uc.GetStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get stand stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": rows})
}

type assignStockRequest struct {
	Assignments []struct {
		VariantID string `json:"variant_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	} `json:"assignments" binding:"required"`
}

func (h *StandHandler) AssignStock(c *gin.Context) {
	var req assignStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := &dto.AssignStockInput{StandID: c.Param("id")}
	for _, a := range req.Assignments {
		input.Assignments = append(input.Assignments, dto.StockAssignmentInput{
			VariantID: a.VariantID,
			Quantity:  a.Quantity,
		})
	}

	rows, err := h.uc.AssignStock(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "failed to assign stand stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": rows})
}

func (h *StandHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, stand.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, stand.ErrDuplicateVariant):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}
