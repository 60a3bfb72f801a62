package handler

import (
	"strconv"
	"time"

	appfinance "github.com/feedlot/backend/internal/application/finance"
	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionHandler exposes the financial transaction ledger API
type TransactionHandler struct {
	BaseHandler
	service *appfinance.AnalysisService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *appfinance.AnalysisService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers transaction routes on the given router group
func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/financial-transactions")
	{
		transactions.GET("", h.List)
		transactions.POST("/:id/confirm-cash", h.ConfirmCash)
	}
}

// List returns a filtered, paged transaction listing
func (h *TransactionHandler) List(c *gin.Context) {
	filter, ok := h.buildFilter(c)
	if !ok {
		return
	}

	result, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Limit, result.Offset)
}

// ConfirmCash records the actual payment or receipt date of a transaction
func (h *TransactionHandler) ConfirmCash(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req appfinance.ConfirmCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.service.ConfirmTransactionCash(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

func (h *TransactionHandler) buildFilter(c *gin.Context) (finance.TransactionFilter, bool) {
	var filter finance.TransactionFilter

	if raw := c.Query("type"); raw != "" {
		txType := finance.TransactionType(raw)
		if !txType.IsValid() {
			h.BadRequest(c, "Invalid transaction type")
			return filter, false
		}
		filter.Type = &txType
	}

	if raw := c.Query("impacts_cash"); raw != "" {
		impactsCash, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid impacts_cash value")
			return filter, false
		}
		filter.ImpactsCash = &impactsCash
	}

	filter.RawCategory = c.Query("category")

	if raw := c.Query("lot_id"); raw != "" {
		lotID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid lot_id")
			return filter, false
		}
		filter.LotID = &lotID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return filter, false
		}
		filter.From = &from
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return filter, false
		}
		filter.To = &to
	}

	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	return filter, true
}
