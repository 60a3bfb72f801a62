package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The upstream models below map the operational tables the sync reads
// from. They are owned by the herd and commercial modules; this side
// only ever reads them.

// RevenueEntryModel is a sale or other income recorded by the commercial module
type RevenueEntryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleDate    time.Time       `gorm:"not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	TotalValue  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Category    string          `gorm:"type:varchar(200)"`
	LotID       *uuid.UUID      `gorm:"type:uuid"`
	ReceivedAt  *time.Time
}

// TableName returns the table name for GORM
func (RevenueEntryModel) TableName() string {
	return "revenues"
}

// CattlePurchaseModel is a lot acquisition recorded by the purchasing module
type CattlePurchaseModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseDate time.Time       `gorm:"not null;index"`
	SupplierName string          `gorm:"type:varchar(200)"`
	LotID        uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     int             `gorm:"not null"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Freight      decimal.Decimal `gorm:"type:decimal(18,4)"`
	Commission   decimal.Decimal `gorm:"type:decimal(18,4)"`
	PaidAt       *time.Time
}

// TableName returns the table name for GORM
func (CattlePurchaseModel) TableName() string {
	return "cattle_purchases"
}

// ExpenseEntryModel is an operating expense recorded by the expense module
type ExpenseEntryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Category    string          `gorm:"type:varchar(200)"`
	LotID       *uuid.UUID      `gorm:"type:uuid"`
	PaidAt      *time.Time
}

// TableName returns the table name for GORM
func (ExpenseEntryModel) TableName() string {
	return "expenses"
}

// DeathRecordModel is a mortality event recorded by the herd module
type DeathRecordModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	DeathDate time.Time `gorm:"not null;index"`
	Quantity  int       `gorm:"not null"`
	LotID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Cause     string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (DeathRecordModel) TableName() string {
	return "death_records"
}

// CattleLotModel is the herd module's lot registry, read for mortality valuation
type CattleLotModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	LotNumber       string          `gorm:"type:varchar(50);not null"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InitialQuantity int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CattleLotModel) TableName() string {
	return "cattle_lots"
}
