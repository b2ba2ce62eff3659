package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlowType is the direction of a manual drawer movement.
type CashFlowType string

const (
	CashIn  CashFlowType = "in"
	CashOut CashFlowType = "out"
)

// CashFlowEntry is a manual cash in or out of the drawer.
type CashFlowEntry struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Type      CashFlowType    `json:"type" db:"type"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Reason    string          `json:"reason" db:"reason"`
	CashierID string          `json:"cashierId" db:"cashier_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty" db:"updated_at"`
}

// Validate checks the entry can be recorded.
func (e *CashFlowEntry) Validate() error {
	if e.Type != CashIn && e.Type != CashOut {
		return ErrInvalidCashFlow
	}
	if !e.Amount.IsPositive() || !withinPlaces(e.Amount, moneyPlaces) {
		return ErrInvalidCashFlow
	}
	if strings.TrimSpace(e.Reason) == "" {
		return ErrInvalidCashFlow
	}
	return nil
}

// CashFlowFilter narrows ledger listings.
type CashFlowFilter struct {
	Type   CashFlowType
	From   *time.Time
	To     *time.Time // exclusive
	Search string
	Limit  int
	Offset int
}

// CashFlowSummary totals a set of ledger entries.
type CashFlowSummary struct {
	TotalIn  decimal.Decimal `json:"totalIn"`
	TotalOut decimal.Decimal `json:"totalOut"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}
