package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avelars/eventmerch-service/internal/category"
	"github.com/avelars/eventmerch-service/internal/category/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{uc: uc, logger: log}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/categories", h.Create)
	rg.GET("/categories", h.List)
	rg.GET("/categories/:id", h.Get)
	rg.PUT("/categories/:id", h.Update)
	rg.DELETE("/categories/:id", h.Delete)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.respondError(c, err, "failed to create category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *CategoryHandler) List(c *gin.Context) {
	filters := &dto.CategoryFilters{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 100),
	}
	if active := c.Query("is_active"); active != "" {
		b := active == "true"
		filters.IsActive = &b
	}

	categories, total, err := h.uc.ListCategories(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      total,
		"page":       filters.Page,
		"page_size":  filters.PageSize,
	})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    isActive,
	})
	if err != nil {
		h.respondError(c, err, "failed to update category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, category.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, category.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
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
