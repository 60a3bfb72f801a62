package finance

import (
	"time"

	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnalysisStatus tracks the review lifecycle of an analysis period
type AnalysisStatus string

const (
	AnalysisStatusDraft     AnalysisStatus = "DRAFT"
	AnalysisStatusReviewing AnalysisStatus = "REVIEWING"
	AnalysisStatusApproved  AnalysisStatus = "APPROVED"
	AnalysisStatusClosed    AnalysisStatus = "CLOSED"
)

// IsValid checks if the status is a valid AnalysisStatus
func (s AnalysisStatus) IsValid() bool {
	switch s {
	case AnalysisStatusDraft, AnalysisStatusReviewing, AnalysisStatusApproved, AnalysisStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of AnalysisStatus
func (s AnalysisStatus) String() string {
	return string(s)
}

// CanTransition checks if the status can move to the target status.
// Closing is terminal; reopening is allowed until the period is closed.
func (s AnalysisStatus) CanTransition(target AnalysisStatus) bool {
	switch s {
	case AnalysisStatusDraft:
		return target == AnalysisStatusReviewing
	case AnalysisStatusReviewing:
		return target == AnalysisStatusApproved || target == AnalysisStatusDraft
	case AnalysisStatusApproved:
		return target == AnalysisStatusClosed || target == AnalysisStatusDraft
	case AnalysisStatusClosed:
		return false
	}
	return false
}

// CanRegenerate returns true while the period's figures may still be
// overwritten by a new generation run
func (s AnalysisStatus) CanRegenerate() bool {
	return s == AnalysisStatusDraft || s == AnalysisStatusReviewing
}

// IntegratedAnalysisPeriod is the monthly snapshot aggregate that joins
// accrual results, cash flow and the reconciliation bridge for one
// reference month. There is at most one per (year, month); regenerating
// overwrites the figures in place while the status allows it.
type IntegratedAnalysisPeriod struct {
	shared.BaseAggregateRoot
	ReferenceYear  int        `json:"reference_year"`
	ReferenceMonth int        `json:"reference_month"`
	CycleID        *uuid.UUID `json:"cycle_id"` // Optional fattening cycle scope

	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetIncome          decimal.Decimal `json:"net_income"`
	NetCashFlow        decimal.Decimal `json:"net_cash_flow"`
	NonCashAdjustments decimal.Decimal `json:"non_cash_adjustments"`
	Difference         decimal.Decimal `json:"difference"`

	CashFlow        CashFlowBreakdown `json:"cash_flow_breakdown"`
	NonCash         NonCashBreakdown  `json:"non_cash_breakdown"`
	IncomeStatement IncomeStatement   `json:"income_statement"`
	Quality         QualityMetrics    `json:"quality_metrics"`

	IncludeNonCashItems bool           `json:"include_non_cash_items"`
	Status              AnalysisStatus `json:"status"`
	GeneratedAt         time.Time      `json:"generated_at"`
	Notes               string         `json:"notes"`
}

// NewIntegratedAnalysisPeriod creates an empty draft period for the given month
func NewIntegratedAnalysisPeriod(year, month int) (*IntegratedAnalysisPeriod, error) {
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if year < 1900 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Year is out of range")
	}

	p := &IntegratedAnalysisPeriod{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		ReferenceYear:       year,
		ReferenceMonth:      month,
		IncludeNonCashItems: true,
		Status:              AnalysisStatusDraft,
	}

	p.AddDomainEvent(NewAnalysisPeriodCreatedEvent(p))

	return p, nil
}

// ApplyReconciliation overwrites the period's figures with a freshly
// computed reconciliation and income statement. Approved and closed
// periods are locked and must be reopened first.
func (p *IntegratedAnalysisPeriod) ApplyReconciliation(rec *PeriodReconciliation, dre IncomeStatement) error {
	if !p.Status.CanRegenerate() {
		return shared.ErrPeriodLocked
	}
	if rec.ReferenceYear != p.ReferenceYear || rec.ReferenceMonth != p.ReferenceMonth {
		return shared.NewDomainError("INVALID_PERIOD", "Reconciliation does not match the period's reference month")
	}

	now := time.Now()
	p.TotalRevenue = rec.TotalRevenue
	p.TotalExpenses = rec.TotalExpenses
	p.NetIncome = rec.Result.NetIncome
	p.NetCashFlow = rec.Result.NetCashFlow
	p.NonCashAdjustments = rec.Result.NonCashAdjustments
	p.Difference = rec.Result.Difference
	p.CashFlow = rec.CashFlow
	p.NonCash = rec.NonCash
	p.IncomeStatement = dre
	p.Quality = rec.Quality
	p.GeneratedAt = now
	p.UpdatedAt = now

	p.AddDomainEvent(NewAnalysisPeriodGeneratedEvent(p))

	return nil
}

// SetCycle scopes the period to one fattening cycle
func (p *IntegratedAnalysisPeriod) SetCycle(cycleID uuid.UUID) {
	p.CycleID = &cycleID
	p.UpdatedAt = time.Now()
}

// SetNotes sets free-form reviewer notes
func (p *IntegratedAnalysisPeriod) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
}

// SubmitForReview moves a draft period into review
func (p *IntegratedAnalysisPeriod) SubmitForReview() error {
	return p.transition(AnalysisStatusReviewing)
}

// Approve marks a reviewed period as approved, locking its figures
func (p *IntegratedAnalysisPeriod) Approve() error {
	return p.transition(AnalysisStatusApproved)
}

// Close permanently closes an approved period. Closed periods can never
// be regenerated or reopened.
func (p *IntegratedAnalysisPeriod) Close() error {
	return p.transition(AnalysisStatusClosed)
}

// Reopen moves a reviewing or approved period back to draft so its
// figures can be regenerated
func (p *IntegratedAnalysisPeriod) Reopen() error {
	return p.transition(AnalysisStatusDraft)
}

func (p *IntegratedAnalysisPeriod) transition(target AnalysisStatus) error {
	if !p.Status.CanTransition(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot move analysis period from "+p.Status.String()+" to "+target.String())
	}
	from := p.Status
	p.Status = target
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewAnalysisPeriodStatusChangedEvent(p, from))

	return nil
}

// PeriodLabel returns the period as "YYYY-MM"
func (p *IntegratedAnalysisPeriod) PeriodLabel() string {
	return time.Date(p.ReferenceYear, time.Month(p.ReferenceMonth), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
