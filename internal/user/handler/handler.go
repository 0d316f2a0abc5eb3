package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avelars/eventmerch-service/internal/user"
	"github.com/avelars/eventmerch-service/internal/user/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{uc: uc, logger: log}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.List)
	rg.GET("/users/:id", h.Get)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.uc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) List(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		u, err := h.uc.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			h.respondError(c, err, "failed to get user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": []interface{}{u}, "total": 1})
		return
	}

	filters := &dto.UserFilters{
		SearchQuery: c.Query("q"),
		Role:        c.Query("role"),
		Page:        intQuery(c, "page", 1),
		PageSize:    intQuery(c, "page_size", 50),
	}
	if active := c.Query("is_active"); active != "" {
		b := active == "true"
		filters.IsActive = &b
	}

	users, total, err := h.uc.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":     users,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *UserHandler) respondError(c *gin.Context, err error, msg string) {
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}
