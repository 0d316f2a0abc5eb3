package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/avelars/eventmerch-service/internal/product"
	"github.com/avelars/eventmerch-service/internal/product/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxImageSize = 5 << 20 // 5 MiB

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products", h.Create)
	rg.GET("/products", h.List)
	rg.GET("/products/low-stock", h.ListLowStock)
	rg.GET("/products/:id", h.Get)
	rg.PUT("/products/:id", h.Update)
	rg.DELETE("/products/:id", h.Delete)

	rg.POST("/products/:id/variants", h.AddVariant)
	rg.GET("/products/:id/variants", h.ListVariants)
	rg.PUT("/variants/:id", h.UpdateVariant)
	rg.DELETE("/variants/:id", h.DeleteVariant)

	rg.POST("/products/:id/images", h.UploadImage)
	rg.DELETE("/images/:id", h.DeleteImage)
}

type productRequest struct {
	CategoryID        string `json:"category_id"`
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	IsActive          *bool  `json:"is_active"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		h.respondError(c, err, "failed to create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *ProductHandler) List(c *gin.Context) {
	filters := &dto.ProductFilters{
		CategoryID:  c.Query("category_id"),
		SearchQuery: c.Query("q"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Page:        intQuery(c, "page", 1),
		PageSize:    intQuery(c, "page_size", 50),
	}
	if active := c.Query("is_active"); active != "" {
		b := active == "true"
		filters.IsActive = &b
	}

	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:                c.Param("id"),
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          isActive,
	})
	if err != nil {
		h.respondError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

type variantRequest struct {
	SizeLabel string          `json:"size_label" binding:"required"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	IsActive  *bool           `json:"is_active"`
}

func (h *ProductHandler) AddVariant(c *gin.Context) {
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
		return
	}

	v, err := h.uc.AddVariant(c.Request.Context(), &dto.CreateVariantInput{
		ProductID: c.Param("id"),
		SizeLabel: req.SizeLabel,
		Quantity:  req.Quantity,
		Price:     req.Price,
	})
	if err != nil {
		h.respondError(c, err, "failed to add variant")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"variant": v})
}

func (h *ProductHandler) ListVariants(c *gin.Context) {
	variants, err := h.uc.ListVariants(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to list variants")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	v, err := h.uc.UpdateVariant(c.Request.Context(), &dto.UpdateVariantInput{
		ID:        c.Param("id"),
		SizeLabel: req.SizeLabel,
		Price:     req.Price,
		IsActive:  isActive,
	})
	if err != nil {
		h.respondError(c, err, "failed to update variant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variant": v})
}

func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	if err := h.uc.DeleteVariant(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete variant")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 5 MiB"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	img, err := h.uc.UploadImage(c.Request.Context(), &dto.UploadImageInput{
		ProductID:   c.Param("id"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		SortOrder:   intQuery(c, "sort_order", 0),
	})
	if err != nil {
		h.respondError(c, err, "failed to upload image")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": img})
}

func (h *ProductHandler) DeleteImage(c *gin.Context) {
	if err := h.uc.DeleteImage(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete image")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ListLowStock(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 50)

	rows, total, err := h.uc.ListLowStock(c.Request.Context(), page, pageSize)
	if err != nil {
		h.respondError(c, err, "failed to list low stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"variants":  rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *ProductHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, product.ErrVariantNotFound),
		errors.Is(err, product.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, product.ErrSizeTaken):
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
