package handler

import (
	"context"
	"strconv"

	appfinance "github.com/feedlot/backend/internal/application/finance"
	"github.com/feedlot/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// AnalysisHandler exposes the integrated analysis API
type AnalysisHandler struct {
	BaseHandler
	service *appfinance.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(service *appfinance.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers analysis routes on the given router group
func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup) {
	analysis := router.Group("/integrated-analysis")
	{
		analysis.POST("", h.Generate)
		analysis.GET("/compare", h.Compare)
		analysis.GET("/dashboard/:year", h.GetDashboard)
		analysis.GET("/periods/:year", h.GetByYear)
		analysis.GET("/periods/:year/:month", h.GetByPeriod)
		analysis.POST("/periods/:year/:month/submit-review", h.SubmitForReview)
		analysis.POST("/periods/:year/:month/approve", h.Approve)
		analysis.POST("/periods/:year/:month/close", h.Close)
		analysis.POST("/periods/:year/:month/reopen", h.Reopen)
	}
}

// Generate generates or regenerates the analysis for one month
func (h *AnalysisHandler) Generate(c *gin.Context) {
	var req appfinance.GenerateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByPeriod returns the analysis for one month
func (h *AnalysisHandler) GetByPeriod(c *gin.Context) {
	year, month, ok := h.periodParams(c)
	if !ok {
		return
	}

	period, err := h.service.GetByPeriod(c.Request.Context(), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// GetByYear returns every generated period of a year
func (h *AnalysisHandler) GetByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.BadRequest(c, "Invalid year")
		return
	}

	periods, err := h.service.GetByYear(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periods)
}

// Compare aggregates periods over an inclusive month range
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req struct {
		FromYear  int `form:"from_year" binding:"required"`
		FromMonth int `form:"from_month" binding:"required,min=1,max=12"`
		ToYear    int `form:"to_year" binding:"required"`
		ToMonth   int `form:"to_month" binding:"required,min=1,max=12"`
	}
	if err := c.ShouldBindWith(&req, binding.Query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Compare(c.Request.Context(), req.FromYear, req.FromMonth, req.ToYear, req.ToMonth)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetDashboard returns the yearly dashboard with monthly trends
func (h *AnalysisHandler) GetDashboard(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.BadRequest(c, "Invalid year")
		return
	}

	dashboard, err := h.service.GetDashboard(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// SubmitForReview moves the period from draft to reviewing
func (h *AnalysisHandler) SubmitForReview(c *gin.Context) {
	h.transition(c, h.service.SubmitForReview)
}

// Approve approves a reviewed period
func (h *AnalysisHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

// Close closes an approved period permanently
func (h *AnalysisHandler) Close(c *gin.Context) {
	h.transition(c, h.service.Close)
}

// Reopen sends a reviewing or approved period back to draft
func (h *AnalysisHandler) Reopen(c *gin.Context) {
	h.transition(c, h.service.Reopen)
}

func (h *AnalysisHandler) transition(c *gin.Context, op func(ctx context.Context, year, month int) (*appfinance.AnalysisPeriodResponse, error)) {
	year, month, ok := h.periodParams(c)
	if !ok {
		return
	}

	period, err := op(c.Request.Context(), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

func (h *AnalysisHandler) periodParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.BadRequest(c, "Invalid year")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		h.BadRequest(c, "Invalid month")
		return 0, 0, false
	}
	return year, month, true
}
