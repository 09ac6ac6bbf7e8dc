package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/service"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List serves the request audit trail, filterable by user and time range.
// Mounted behind the operator API key.
func (h *AuditHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(apperrors.NewInvalidRequest("limit must be an integer"))
			return
		}
		limit = parsed
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.Error(apperrors.NewInvalidRequest("from must be RFC3339"))
			return
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.Error(apperrors.NewInvalidRequest("to must be RFC3339"))
			return
		}
		to = &parsed
	}

	entries, err := h.svc.List(c.Request.Context(), c.Query("user_id"), limit, from, to)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
