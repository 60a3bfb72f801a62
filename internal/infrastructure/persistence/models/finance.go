package models

import (
	"time"

	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialTransactionModel is the persistence model for the
// FinancialTransaction aggregate root.
type FinancialTransactionModel struct {
	AggregateModel
	ReferenceDate time.Time               `gorm:"not null;index"`
	Description   string                  `gorm:"type:varchar(500);not null"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Type          finance.TransactionType `gorm:"type:varchar(10);not null;index"`
	RawCategory   string                  `gorm:"type:varchar(200);not null;index"`
	ImpactsCash   bool                    `gorm:"not null;default:false"`
	CashFlowDate  *time.Time              `gorm:"index"`
	IsReconciled  bool                    `gorm:"not null;default:false"`
	LotID         *uuid.UUID              `gorm:"type:uuid;index"`
	Notes         string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FinancialTransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the persistence model to a domain FinancialTransaction
func (m *FinancialTransactionModel) ToDomain() *finance.FinancialTransaction {
	tx := &finance.FinancialTransaction{
		ReferenceDate: m.ReferenceDate,
		Description:   m.Description,
		Amount:        m.Amount,
		Type:          m.Type,
		RawCategory:   m.RawCategory,
		ImpactsCash:   m.ImpactsCash,
		CashFlowDate:  m.CashFlowDate,
		IsReconciled:  m.IsReconciled,
		LotID:         m.LotID,
		Notes:         m.Notes,
	}
	m.PopulateAggregateRoot(&tx.BaseAggregateRoot)
	return tx
}

// FromDomain populates the persistence model from a domain FinancialTransaction
func (m *FinancialTransactionModel) FromDomain(tx *finance.FinancialTransaction) {
	m.FromDomainAggregateRoot(tx.BaseAggregateRoot)
	m.ReferenceDate = tx.ReferenceDate
	m.Description = tx.Description
	m.Amount = tx.Amount
	m.Type = tx.Type
	m.RawCategory = tx.RawCategory
	m.ImpactsCash = tx.ImpactsCash
	m.CashFlowDate = tx.CashFlowDate
	m.IsReconciled = tx.IsReconciled
	m.LotID = tx.LotID
	m.Notes = tx.Notes
}

// FinancialTransactionModelFromDomain creates a new persistence model from domain
func FinancialTransactionModelFromDomain(tx *finance.FinancialTransaction) *FinancialTransactionModel {
	m := &FinancialTransactionModel{}
	m.FromDomain(tx)
	return m
}

// IntegratedAnalysisPeriodModel is the persistence model for the
// IntegratedAnalysisPeriod aggregate root. The breakdown structs are
// stored as JSONB documents; the headline figures get their own columns
// so trends and comparisons stay queryable.
type IntegratedAnalysisPeriodModel struct {
	AggregateModel
	ReferenceYear  int        `gorm:"not null;uniqueIndex:idx_analysis_period_ref,priority:1"`
	ReferenceMonth int        `gorm:"not null;uniqueIndex:idx_analysis_period_ref,priority:2"`
	CycleID        *uuid.UUID `gorm:"type:uuid;index"`

	TotalRevenue       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalExpenses      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetIncome          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetCashFlow        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NonCashAdjustments decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Difference         decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	CashFlow        finance.CashFlowBreakdown `gorm:"type:jsonb;serializer:json"`
	NonCash         finance.NonCashBreakdown  `gorm:"type:jsonb;serializer:json"`
	IncomeStatement finance.IncomeStatement   `gorm:"type:jsonb;serializer:json"`
	Quality         finance.QualityMetrics    `gorm:"type:jsonb;serializer:json"`

	IncludeNonCashItems bool                   `gorm:"not null;default:true"`
	Status              finance.AnalysisStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	GeneratedAt         time.Time
	Notes               string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (IntegratedAnalysisPeriodModel) TableName() string {
	return "integrated_analysis_periods"
}

// ToDomain converts the persistence model to a domain IntegratedAnalysisPeriod
func (m *IntegratedAnalysisPeriodModel) ToDomain() *finance.IntegratedAnalysisPeriod {
	p := &finance.IntegratedAnalysisPeriod{
		ReferenceYear:       m.ReferenceYear,
		ReferenceMonth:      m.ReferenceMonth,
		CycleID:             m.CycleID,
		TotalRevenue:        m.TotalRevenue,
		TotalExpenses:       m.TotalExpenses,
		NetIncome:           m.NetIncome,
		NetCashFlow:         m.NetCashFlow,
		NonCashAdjustments:  m.NonCashAdjustments,
		Difference:          m.Difference,
		CashFlow:            m.CashFlow,
		NonCash:             m.NonCash,
		IncomeStatement:     m.IncomeStatement,
		Quality:             m.Quality,
		IncludeNonCashItems: m.IncludeNonCashItems,
		Status:              m.Status,
		GeneratedAt:         m.GeneratedAt,
		Notes:               m.Notes,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain IntegratedAnalysisPeriod
func (m *IntegratedAnalysisPeriodModel) FromDomain(p *finance.IntegratedAnalysisPeriod) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ReferenceYear = p.ReferenceYear
	m.ReferenceMonth = p.ReferenceMonth
	m.CycleID = p.CycleID
	m.TotalRevenue = p.TotalRevenue
	m.TotalExpenses = p.TotalExpenses
	m.NetIncome = p.NetIncome
	m.NetCashFlow = p.NetCashFlow
	m.NonCashAdjustments = p.NonCashAdjustments
	m.Difference = p.Difference
	m.CashFlow = p.CashFlow
	m.NonCash = p.NonCash
	m.IncomeStatement = p.IncomeStatement
	m.Quality = p.Quality
	m.IncludeNonCashItems = p.IncludeNonCashItems
	m.Status = p.Status
	m.GeneratedAt = p.GeneratedAt
	m.Notes = p.Notes
}

// IntegratedAnalysisPeriodModelFromDomain creates a new persistence model from domain
func IntegratedAnalysisPeriodModelFromDomain(p *finance.IntegratedAnalysisPeriod) *IntegratedAnalysisPeriodModel {
	m := &IntegratedAnalysisPeriodModel{}
	m.FromDomain(p)
	return m
}
