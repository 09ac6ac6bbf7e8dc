package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/middleware"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/service"
)

type OrderHandler struct {
	executor *service.Executor
	orders   service.OrderRepo
}

func NewOrderHandler(executor *service.Executor, orders service.OrderRepo) *OrderHandler {
	return &OrderHandler{executor: executor, orders: orders}
}

func (h *OrderHandler) Place(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	resp, err := h.executor.PlaceOrder(c.Request.Context(), user.ID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(apperrors.NewInvalidRequest("limit must be an integer"))
			return
		}
		limit = parsed
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), user.ID, limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
