package handler

import (
	"net/http"

	"github.com/zevliandragovets/EcoBankWebsite/internal/middleware"
	"github.com/zevliandragovets/EcoBankWebsite/internal/service"
	"github.com/zevliandragovets/EcoBankWebsite/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	txService service.TransactionService
}

func NewTransactionHandler(txService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	txns := router.Group("/api/transactions")
	txns.Use(middleware.RequireAuth())
	{
		txns.POST("", h.CreateTransaction)
		txns.GET("", h.ListTransactions)
		txns.GET("/:id", h.GetTransaction)
		txns.PATCH("/:id/status", middleware.RequireAdmin(), h.UpdateStatus)
	}
}

// CreateTransaction submits a waste sale priced against the catalog
// @Summary      Create transaction
// @Description  Validates the submitted lines against the active catalog and records the sale with status PENDING.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateTransactionRequest  true  "Transaction Lines"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	callerID, _ := middleware.Caller(c)
	txn, err := h.txService.Create(c.Request.Context(), callerID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, txn))
}

// ListTransactions returns the caller's transactions, or all of them for admins
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)
	txns, err := h.txService.List(c.Request.Context(), callerID, callerRole)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"count":        len(txns),
	}))
}

// GetTransaction returns one transaction by id
// @Summary      Get transaction
// @Description  Non-admin callers can only resolve their own transactions; anything else is reported as not found.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)
	txn, err := h.txService.Get(c.Request.Context(), c.Param("id"), callerID, callerRole)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, txn))
}

// UpdateStatus moves a transaction along its lifecycle
// @Summary      Update transaction status
// @Description  PENDING may move to APPROVED or REJECTED; APPROVED to COMPLETED or REJECTED. REJECTED and COMPLETED are terminal.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Transaction ID"
// @Param        payload  body      service.TransitionStatusRequest  true  "Target Status"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	var req service.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	callerID, callerRole := middleware.Caller(c)
	txn, err := h.txService.Transition(c.Request.Context(), c.Param("id"), callerID, callerRole, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, txn))
}
