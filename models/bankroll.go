package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a bankroll is created without a currency code
const DefaultCurrency = "BRL"

// Bankroll is a named pool of funds a user places bets against
type Bankroll struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"userId"`
	Name           string          `db:"name" json:"name"`
	InitialBalance decimal.Decimal `db:"initial_balance" json:"initialBalance"`
	CurrentBalance decimal.Decimal `db:"current_balance" json:"currentBalance"`
	Currency       string          `db:"currency" json:"currency"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`

	BetCount   int    `db:"-" json:"betCount"`
	RecentBets []*Bet `db:"-" json:"recentBets,omitempty"`
}

// ProfitLoss returns the change of the bankroll since it was opened
func (b *Bankroll) ProfitLoss() decimal.Decimal {
	return b.CurrentBalance.Sub(b.InitialBalance)
}

// BankrollUpdate carries the editable bankroll fields; nil means unchanged
type BankrollUpdate struct {
	Name     *string
	IsActive *bool
}

// BalanceOperation is a manual bankroll balance adjustment
type BalanceOperation string

const (
	BalanceOperationAdd      BalanceOperation = "add"
	BalanceOperationSubtract BalanceOperation = "subtract"
	BalanceOperationSet      BalanceOperation = "set"
)

// IsValid reports whether op is a known operation
func (op BalanceOperation) IsValid() bool {
	switch op {
	case BalanceOperationAdd, BalanceOperationSubtract, BalanceOperationSet:
		return true
	}
	return false
}
