package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBankrollInput carries the fields needed to open a bankroll
type CreateBankrollInput struct {
	Name           string
	InitialBalance decimal.Decimal
	Currency       string
}

// CreateBetInput carries the fields needed to record a bet
type CreateBetInput struct {
	BankrollID  uuid.UUID
	Sport       Sport
	Event       string
	Competition *string
	Market      string
	Selection   string
	Odds        decimal.Decimal
	Stake       decimal.Decimal
	EventDate   time.Time
	Bookmaker   *string
	Notes       *string
	Tags        []string
}

// UpdateBetInput carries the editable fields of a pending bet; nil means unchanged
type UpdateBetInput struct {
	Sport       *Sport
	Event       *string
	Competition *string
	Market      *string
	Selection   *string
	Odds        *decimal.Decimal
	Stake       *decimal.Decimal
	EventDate   *time.Time
	Bookmaker   *string
	Notes       *string
	Tags        []string
}

// StatsQuery selects the bets a statistic is computed over.
// The settled window is inclusive at both ends; the event window excludes EventTo.
type StatsQuery struct {
	BankrollID     *uuid.UUID
	SettledFrom    *time.Time
	SettledTo      *time.Time
	EventFrom      *time.Time
	EventTo        *time.Time
	ExcludePending bool
}
