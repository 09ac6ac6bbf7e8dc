// Package handler exposes the provisioning and trading flows over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/middleware"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/service"
)

type AccountHandler struct {
	provisioner *service.Provisioner
	accounts    service.AccountRepo
}

func NewAccountHandler(provisioner *service.Provisioner, accounts service.AccountRepo) *AccountHandler {
	return &AccountHandler{provisioner: provisioner, accounts: accounts}
}

// Provision creates (or returns) the user's trading account on one chain.
// The wallet password travels in the body, never in the URL.
func (h *AccountHandler) Provision(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		model.ProvisionRequest
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	resp, err := h.provisioner.Provision(c.Request.Context(), user.ID, req.ChainID, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *AccountHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	accounts, err := h.accounts.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}
