package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/server/http/dto"
	"github.com/camivel/cuentastrack/internal/usecase"
)

// AccountHandler processes invoice submission, transitions and views.
type AccountHandler struct {
	facade AccountFacade
}

// NewAccountHandler creates AccountHandler instance.
func NewAccountHandler(facade AccountFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// Submit handles POST /api/accounts.
func (h *AccountHandler) Submit(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req dto.SubmitAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.Submit(c.Request.Context(), identity, usecase.SubmitInput{
		ContractNumber: req.ContractNumber,
		ActNumber:      req.ActNumber,
		Amount:         req.Amount,
		Description:    req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAccountResponse(account))
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	accounts, err := h.facade.Accounts(c.Request.Context(), identity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponses(accounts))
}

// Get handles GET /api/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.Account(c.Request.Context(), identity, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponse(account))
}

// Approve handles POST /api/accounts/:id/approve.
func (h *AccountHandler) Approve(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.Approve(c.Request.Context(), identity, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponse(account))
}

// Return handles POST /api/accounts/:id/return.
func (h *AccountHandler) Return(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.Return(c.Request.Context(), identity, id, req.Comment, model.CorrectionType(req.CorrectionType))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponse(account))
}

// Pending handles GET /api/accounts/pending.
func (h *AccountHandler) Pending(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	accounts, err := h.facade.Pending(c.Request.Context(), identity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAccountResponses(accounts))
}

// Dashboard handles GET /api/dashboard.
func (h *AccountHandler) Dashboard(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	stats, err := h.facade.Dashboard(c.Request.Context(), identity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDashboardResponse(stats.Total, stats.ByState))
}
