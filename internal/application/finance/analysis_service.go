package finance

import (
	"context"
	"time"

	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardCache caches rendered dashboards between generations. A nil
// implementation is valid and disables caching.
type DashboardCache interface {
	Get(ctx context.Context, year int) (*DashboardResponse, bool)
	Set(ctx context.Context, year int, dashboard *DashboardResponse)
	Invalidate(ctx context.Context, year int)
}

// GenerateAnalysisRequest asks for one period to be (re)generated
type GenerateAnalysisRequest struct {
	Year                int        `json:"year" binding:"required"`
	Month               int        `json:"month" binding:"required,min=1,max=12"`
	CycleID             *uuid.UUID `json:"cycle_id"`
	IncludeNonCashItems *bool      `json:"include_non_cash_items"`
	Notes               string     `json:"notes"`
}

// AnalysisPeriodResponse represents an analysis period in API responses
type AnalysisPeriodResponse struct {
	ID             uuid.UUID `json:"id"`
	ReferenceYear  int       `json:"reference_year"`
	ReferenceMonth int       `json:"reference_month"`
	PeriodLabel    string    `json:"period_label"`

	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetIncome          decimal.Decimal `json:"net_income"`
	NetCashFlow        decimal.Decimal `json:"net_cash_flow"`
	NonCashAdjustments decimal.Decimal `json:"non_cash_adjustments"`
	Difference         decimal.Decimal `json:"difference"`

	CashFlow        finance.CashFlowBreakdown `json:"cash_flow_breakdown"`
	NonCash         finance.NonCashBreakdown  `json:"non_cash_breakdown"`
	IncomeStatement finance.IncomeStatement   `json:"income_statement"`
	Quality         finance.QualityMetrics    `json:"quality_metrics"`

	IncludeNonCashItems bool       `json:"include_non_cash_items"`
	Status              string     `json:"status"`
	GeneratedAt         time.Time  `json:"generated_at"`
	Notes               string     `json:"notes,omitempty"`
	CycleID             *uuid.UUID `json:"cycle_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int        `json:"version"`
}

// GenerateAnalysisResponse is the result of a generation run
type GenerateAnalysisResponse struct {
	Period AnalysisPeriodResponse `json:"period"`
	Sync   SyncResult             `json:"sync"`
}

// ComparePeriodsResponse compares a range of periods
type ComparePeriodsResponse struct {
	Periods []AnalysisPeriodResponse `json:"periods"`
	Summary CompareSummary           `json:"summary"`
}

// CompareSummary aggregates a compared range. Averages are normalized by
// the number of periods actually found, not the number requested.
type CompareSummary struct {
	PeriodCount        int             `json:"period_count"`
	TotalNetIncome     decimal.Decimal `json:"total_net_income"`
	TotalNetCashFlow   decimal.Decimal `json:"total_net_cash_flow"`
	TotalDifference    decimal.Decimal `json:"total_difference"`
	AverageNetIncome   decimal.Decimal `json:"average_net_income"`
	AverageNetCashFlow decimal.Decimal `json:"average_net_cash_flow"`
	BestMonth          string          `json:"best_month,omitempty"`
	WorstMonth         string          `json:"worst_month,omitempty"`
}

// DashboardResponse is the consolidated yearly dashboard
type DashboardResponse struct {
	Year    int                    `json:"year"`
	Summary DashboardSummary       `json:"summary"`
	Quality finance.QualityMetrics `json:"quality_metrics"`
	Trends  []TrendPoint           `json:"trends"`
}

// DashboardSummary is the headline block of the dashboard. Margins are
// percentages of total gross revenue, zero when no revenue was booked.
type DashboardSummary struct {
	PeriodCount             int             `json:"period_count"`
	TotalRevenue            decimal.Decimal `json:"total_revenue"`
	TotalExpenses           decimal.Decimal `json:"total_expenses"`
	TotalNetIncome          decimal.Decimal `json:"total_net_income"`
	TotalNetCashFlow        decimal.Decimal `json:"total_net_cash_flow"`
	TotalNonCashAdjustments decimal.Decimal `json:"total_non_cash_adjustments"`
	NetMargin               decimal.Decimal `json:"net_margin"`
	CashFlowMargin          decimal.Decimal `json:"cash_flow_margin"`
}

// TrendPoint is one month in the dashboard trend series
type TrendPoint struct {
	Period      string          `json:"period"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetIncome   decimal.Decimal `json:"net_income"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
	Difference  decimal.Decimal `json:"difference"`
	Status      string          `json:"status"`
}

// TransactionResponse represents a financial transaction in API responses
type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReferenceDate time.Time       `json:"reference_date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	SignedAmount  decimal.Decimal `json:"signed_amount"`
	Type          string          `json:"type"`
	RawCategory   string          `json:"raw_category"`
	GroupID       string          `json:"group_id"`
	GroupName     string          `json:"group_name"`
	ImpactsCash   bool            `json:"impacts_cash"`
	CashFlowDate  *time.Time      `json:"cash_flow_date,omitempty"`
	IsReconciled  bool            `json:"is_reconciled"`
	LotID         *uuid.UUID      `json:"lot_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionListResponse is a paged transaction listing
type TransactionListResponse struct {
	Items  []TransactionResponse `json:"items"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// ConfirmCashRequest confirms payment or receipt of a transaction
type ConfirmCashRequest struct {
	CashFlowDate time.Time `json:"cash_flow_date" binding:"required"`
}

// AnalysisService orchestrates period generation, reconciliation and
// reporting over the financial transaction ledger
type AnalysisService struct {
	periodRepo  finance.AnalysisPeriodRepository
	txRepo      finance.TransactionRepository
	syncService *TransactionSyncService
	engine      *finance.ReconciliationEngine
	dreBuilder  *finance.IncomeStatementBuilder
	classifier  *finance.Classifier
	cache       DashboardCache
	logger      *zap.Logger
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	periodRepo finance.AnalysisPeriodRepository,
	txRepo finance.TransactionRepository,
	syncService *TransactionSyncService,
	classifier *finance.Classifier,
	cache DashboardCache,
	logger *zap.Logger,
	engineOpts ...finance.ReconciliationEngineOption,
) *AnalysisService {
	if classifier == nil {
		classifier = finance.NewDefaultClassifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		periodRepo:  periodRepo,
		txRepo:      txRepo,
		syncService: syncService,
		engine:      finance.NewReconciliationEngine(classifier, engineOpts...),
		dreBuilder:  finance.NewIncomeStatementBuilder(classifier),
		classifier:  classifier,
		cache:       cache,
		logger:      logger,
	}
}

// Generate builds or rebuilds the integrated analysis for one month:
// sync upstream records, reconcile accrual against cash, compute the
// income statement and persist the snapshot.
func (s *AnalysisService) Generate(ctx context.Context, req GenerateAnalysisRequest) (*GenerateAnalysisResponse, error) {
	period, err := s.periodRepo.FindByPeriod(ctx, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	if period == nil {
		period, err = finance.NewIntegratedAnalysisPeriod(req.Year, req.Month)
		if err != nil {
			return nil, err
		}
	} else if !period.Status.CanRegenerate() {
		return nil, shared.ErrPeriodLocked
	}

	var syncResult SyncResult
	if s.syncService != nil {
		result, err := s.syncService.SyncPeriod(ctx, req.Year, time.Month(req.Month))
		if err != nil {
			return nil, err
		}
		syncResult = *result
	}

	transactions, err := s.txRepo.FindByPeriod(ctx, req.Year, time.Month(req.Month))
	if err != nil {
		return nil, err
	}

	rec, err := s.engine.Reconcile(req.Year, time.Month(req.Month), transactions)
	if err != nil {
		return nil, err
	}

	accrual := make([]finance.FinancialTransaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.AccruedIn(req.Year, time.Month(req.Month)) {
			accrual = append(accrual, tx)
		}
	}
	dre := s.dreBuilder.Build(accrual)

	if req.IncludeNonCashItems != nil {
		period.IncludeNonCashItems = *req.IncludeNonCashItems
	}
	if req.CycleID != nil {
		period.SetCycle(*req.CycleID)
	}
	if req.Notes != "" {
		period.SetNotes(req.Notes)
	}
	if err := period.ApplyReconciliation(rec, dre); err != nil {
		return nil, err
	}

	if err := s.periodRepo.Upsert(ctx, period); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, req.Year)
	}

	s.logger.Info("analysis period generated",
		zap.String("period", period.PeriodLabel()),
		zap.String("net_income", period.NetIncome.String()),
		zap.String("difference", period.Difference.String()))

	return &GenerateAnalysisResponse{
		Period: toAnalysisPeriodResponse(period),
		Sync:   syncResult,
	}, nil
}

// GetByPeriod returns the analysis for one month
func (s *AnalysisService) GetByPeriod(ctx context.Context, year, month int) (*AnalysisPeriodResponse, error) {
	period, err := s.findPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	resp := toAnalysisPeriodResponse(period)
	return &resp, nil
}

// GetByYear returns every generated period of a year in month order
func (s *AnalysisService) GetByYear(ctx context.Context, year int) ([]AnalysisPeriodResponse, error) {
	periods, err := s.periodRepo.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	out := make([]AnalysisPeriodResponse, 0, len(periods))
	for i := range periods {
		out = append(out, toAnalysisPeriodResponse(&periods[i]))
	}
	return out, nil
}

// Compare aggregates the generated periods between two months, inclusive
func (s *AnalysisService) Compare(ctx context.Context, fromYear, fromMonth, toYear, toMonth int) (*ComparePeriodsResponse, error) {
	if fromYear > toYear || (fromYear == toYear && fromMonth > toMonth) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Range start must not be after range end")
	}

	periods, err := s.periodRepo.FindByRange(ctx, fromYear, fromMonth, toYear, toMonth)
	if err != nil {
		return nil, err
	}

	resp := &ComparePeriodsResponse{
		Periods: make([]AnalysisPeriodResponse, 0, len(periods)),
	}
	summary := CompareSummary{PeriodCount: len(periods)}

	var best, worst *finance.IntegratedAnalysisPeriod
	for i := range periods {
		p := &periods[i]
		resp.Periods = append(resp.Periods, toAnalysisPeriodResponse(p))
		summary.TotalNetIncome = summary.TotalNetIncome.Add(p.NetIncome)
		summary.TotalNetCashFlow = summary.TotalNetCashFlow.Add(p.NetCashFlow)
		summary.TotalDifference = summary.TotalDifference.Add(p.Difference)
		if best == nil || p.NetIncome.GreaterThan(best.NetIncome) {
			best = p
		}
		if worst == nil || p.NetIncome.LessThan(worst.NetIncome) {
			worst = p
		}
	}

	count := decimal.NewFromInt(int64(len(periods)))
	summary.AverageNetIncome = valueobject.SafeDiv(summary.TotalNetIncome, count)
	summary.AverageNetCashFlow = valueobject.SafeDiv(summary.TotalNetCashFlow, count)
	if best != nil {
		summary.BestMonth = best.PeriodLabel()
		summary.WorstMonth = worst.PeriodLabel()
	}
	resp.Summary = summary

	return resp, nil
}

// GetDashboard returns the consolidated dashboard for a year: summed
// totals, margins over gross revenue and a month-by-month trend series.
// A year with no generated periods yields an empty dashboard, not an
// error.
func (s *AnalysisService) GetDashboard(ctx context.Context, year int) (*DashboardResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, year); ok {
			return cached, nil
		}
	}

	periods, err := s.periodRepo.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	summary := DashboardSummary{PeriodCount: len(periods)}
	withinTolerance := true
	trends := make([]TrendPoint, 0, len(periods))
	for i := range periods {
		p := &periods[i]
		summary.TotalRevenue = summary.TotalRevenue.Add(p.TotalRevenue)
		summary.TotalExpenses = summary.TotalExpenses.Add(p.TotalExpenses)
		summary.TotalNetIncome = summary.TotalNetIncome.Add(p.NetIncome)
		summary.TotalNetCashFlow = summary.TotalNetCashFlow.Add(p.NetCashFlow)
		summary.TotalNonCashAdjustments = summary.TotalNonCashAdjustments.Add(p.NonCashAdjustments)
		withinTolerance = withinTolerance && p.Quality.WithinTolerance
		trends = append(trends, TrendPoint{
			Period:      p.PeriodLabel(),
			Revenue:     p.TotalRevenue,
			Expenses:    p.TotalExpenses,
			NetIncome:   p.NetIncome,
			NetCashFlow: p.NetCashFlow,
			Difference:  p.Difference,
			Status:      p.Status.String(),
		})
	}
	summary.NetMargin = valueobject.SafePercent(summary.TotalNetIncome, summary.TotalRevenue)
	summary.CashFlowMargin = valueobject.SafePercent(summary.TotalNetCashFlow, summary.TotalRevenue)

	totalDifference := summary.TotalNetIncome.
		Sub(summary.TotalNonCashAdjustments).
		Sub(summary.TotalNetCashFlow)
	accuracy := decimal.NewFromInt(1).Sub(
		valueobject.SafeDivWithFallback(
			totalDifference.Abs(),
			summary.TotalNetIncome.Abs(),
			decimal.NewFromInt(1),
		),
	)
	if accuracy.IsNegative() {
		accuracy = decimal.Zero
	}
	if summary.TotalNetIncome.IsZero() && totalDifference.IsZero() {
		accuracy = decimal.NewFromInt(1)
	}

	dashboard := &DashboardResponse{
		Year:    year,
		Summary: summary,
		Quality: finance.QualityMetrics{
			CashConversionRate:     valueobject.SafeDiv(summary.TotalNetCashFlow, summary.TotalNetIncome),
			NonCashPortion:         valueobject.SafeDiv(summary.TotalNonCashAdjustments, summary.TotalRevenue),
			ReconciliationAccuracy: accuracy,
			WithinTolerance:        withinTolerance,
		},
		Trends: trends,
	}

	if s.cache != nil {
		s.cache.Set(ctx, year, dashboard)
	}

	return dashboard, nil
}

// SubmitForReview moves a period from draft into review
func (s *AnalysisService) SubmitForReview(ctx context.Context, year, month int) (*AnalysisPeriodResponse, error) {
	return s.transitionPeriod(ctx, year, month, (*finance.IntegratedAnalysisPeriod).SubmitForReview)
}

// Approve approves a reviewed period
func (s *AnalysisService) Approve(ctx context.Context, year, month int) (*AnalysisPeriodResponse, error) {
	return s.transitionPeriod(ctx, year, month, (*finance.IntegratedAnalysisPeriod).Approve)
}

// Close permanently closes an approved period
func (s *AnalysisService) Close(ctx context.Context, year, month int) (*AnalysisPeriodResponse, error) {
	return s.transitionPeriod(ctx, year, month, (*finance.IntegratedAnalysisPeriod).Close)
}

// Reopen moves a reviewing or approved period back to draft
func (s *AnalysisService) Reopen(ctx context.Context, year, month int) (*AnalysisPeriodResponse, error) {
	return s.transitionPeriod(ctx, year, month, (*finance.IntegratedAnalysisPeriod).Reopen)
}

func (s *AnalysisService) transitionPeriod(ctx context.Context, year, month int, op func(*finance.IntegratedAnalysisPeriod) error) (*AnalysisPeriodResponse, error) {
	period, err := s.findPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if err := op(period); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, year)
	}
	resp := toAnalysisPeriodResponse(period)
	return &resp, nil
}

// ConfirmTransactionCash records the actual payment or receipt date of
// one transaction
func (s *AnalysisService) ConfirmTransactionCash(ctx context.Context, id uuid.UUID, req ConfirmCashRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Financial transaction not found")
	}
	if err := tx.ConfirmCashMovement(req.CashFlowDate); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, req.CashFlowDate.Year())
		if tx.ReferenceDate.Year() != req.CashFlowDate.Year() {
			s.cache.Invalidate(ctx, tx.ReferenceDate.Year())
		}
	}
	resp := s.toTransactionResponse(tx)
	return &resp, nil
}

// ListTransactions returns a filtered, paged transaction listing
func (s *AnalysisService) ListTransactions(ctx context.Context, filter finance.TransactionFilter) (*TransactionListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	transactions, total, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &TransactionListResponse{
		Items:  make([]TransactionResponse, 0, len(transactions)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i := range transactions {
		resp.Items = append(resp.Items, s.toTransactionResponse(&transactions[i]))
	}
	return resp, nil
}

func (s *AnalysisService) findPeriod(ctx context.Context, year, month int) (*finance.IntegratedAnalysisPeriod, error) {
	period, err := s.periodRepo.FindByPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Analysis period not found")
	}
	return period, nil
}

func (s *AnalysisService) toTransactionResponse(tx *finance.FinancialTransaction) TransactionResponse {
	group := s.classifier.ClassifyTransaction(tx)
	return TransactionResponse{
		ID:            tx.ID,
		ReferenceDate: tx.ReferenceDate,
		Description:   tx.Description,
		Amount:        tx.Amount,
		SignedAmount:  tx.SignedAmount(),
		Type:          tx.Type.String(),
		RawCategory:   tx.RawCategory,
		GroupID:       string(group.ID),
		GroupName:     group.Name,
		ImpactsCash:   tx.ImpactsCash,
		CashFlowDate:  tx.CashFlowDate,
		IsReconciled:  tx.IsReconciled,
		LotID:         tx.LotID,
		Notes:         tx.Notes,
		CreatedAt:     tx.CreatedAt,
	}
}

func toAnalysisPeriodResponse(p *finance.IntegratedAnalysisPeriod) AnalysisPeriodResponse {
	return AnalysisPeriodResponse{
		ID:                  p.ID,
		ReferenceYear:       p.ReferenceYear,
		ReferenceMonth:      p.ReferenceMonth,
		PeriodLabel:         p.PeriodLabel(),
		TotalRevenue:        p.TotalRevenue,
		TotalExpenses:       p.TotalExpenses,
		NetIncome:           p.NetIncome,
		NetCashFlow:         p.NetCashFlow,
		NonCashAdjustments:  p.NonCashAdjustments,
		Difference:          p.Difference,
		CashFlow:            p.CashFlow,
		NonCash:             p.NonCash,
		IncomeStatement:     p.IncomeStatement,
		Quality:             p.Quality,
		IncludeNonCashItems: p.IncludeNonCashItems,
		Status:              p.Status.String(),
		GeneratedAt:         p.GeneratedAt,
		Notes:               p.Notes,
		CycleID:             p.CycleID,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Version:             p.Version,
	}
}
