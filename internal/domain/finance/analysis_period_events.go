package finance

import (
	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnalysisPeriodCreatedEvent is raised when a new analysis period is created
type AnalysisPeriodCreatedEvent struct {
	shared.BaseDomainEvent
	PeriodID       uuid.UUID `json:"period_id"`
	ReferenceYear  int       `json:"reference_year"`
	ReferenceMonth int       `json:"reference_month"`
}

// EventType returns the event type name
func (e *AnalysisPeriodCreatedEvent) EventType() string {
	return "IntegratedAnalysisPeriodCreated"
}

// NewAnalysisPeriodCreatedEvent creates a new AnalysisPeriodCreatedEvent
func NewAnalysisPeriodCreatedEvent(p *IntegratedAnalysisPeriod) *AnalysisPeriodCreatedEvent {
	return &AnalysisPeriodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("IntegratedAnalysisPeriodCreated", "IntegratedAnalysisPeriod", p.ID),
		PeriodID:        p.ID,
		ReferenceYear:   p.ReferenceYear,
		ReferenceMonth:  p.ReferenceMonth,
	}
}

// AnalysisPeriodGeneratedEvent is raised when a period's figures are
// computed or regenerated
type AnalysisPeriodGeneratedEvent struct {
	shared.BaseDomainEvent
	PeriodID       uuid.UUID       `json:"period_id"`
	ReferenceYear  int             `json:"reference_year"`
	ReferenceMonth int             `json:"reference_month"`
	NetIncome      decimal.Decimal `json:"net_income"`
	NetCashFlow    decimal.Decimal `json:"net_cash_flow"`
	Difference     decimal.Decimal `json:"difference"`
}

// EventType returns the event type name
func (e *AnalysisPeriodGeneratedEvent) EventType() string {
	return "IntegratedAnalysisPeriodGenerated"
}

// NewAnalysisPeriodGeneratedEvent creates a new AnalysisPeriodGeneratedEvent
func NewAnalysisPeriodGeneratedEvent(p *IntegratedAnalysisPeriod) *AnalysisPeriodGeneratedEvent {
	return &AnalysisPeriodGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("IntegratedAnalysisPeriodGenerated", "IntegratedAnalysisPeriod", p.ID),
		PeriodID:        p.ID,
		ReferenceYear:   p.ReferenceYear,
		ReferenceMonth:  p.ReferenceMonth,
		NetIncome:       p.NetIncome,
		NetCashFlow:     p.NetCashFlow,
		Difference:      p.Difference,
	}
}

// AnalysisPeriodStatusChangedEvent is raised on every lifecycle transition
type AnalysisPeriodStatusChangedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID      `json:"period_id"`
	FromStatus AnalysisStatus `json:"from_status"`
	ToStatus   AnalysisStatus `json:"to_status"`
}

// EventType returns the event type name
func (e *AnalysisPeriodStatusChangedEvent) EventType() string {
	return "IntegratedAnalysisPeriodStatusChanged"
}

// NewAnalysisPeriodStatusChangedEvent creates a new AnalysisPeriodStatusChangedEvent
func NewAnalysisPeriodStatusChangedEvent(p *IntegratedAnalysisPeriod, from AnalysisStatus) *AnalysisPeriodStatusChangedEvent {
	return &AnalysisPeriodStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("IntegratedAnalysisPeriodStatusChanged", "IntegratedAnalysisPeriod", p.ID),
		PeriodID:        p.ID,
		FromStatus:      from,
		ToStatus:        p.Status,
	}
}
