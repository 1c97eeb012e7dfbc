package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial          TransactionType = "initial"
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdrawal       TransactionType = "withdrawal"
	TransactionTypeBalanceSet       TransactionType = "balance_set"
	TransactionTypeStakeDebit       TransactionType = "stake_debit"
	TransactionTypeSettlementCredit TransactionType = "settlement_credit"
	TransactionTypeStakeRefund      TransactionType = "stake_refund"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeBet RelatedType = "bet"
)

// BalanceHistory is one applied change to a bankroll's current balance
type BalanceHistory struct {
	ID                  int64           `db:"id" json:"id"`
	BankrollID          uuid.UUID       `db:"bankroll_id" json:"bankrollId"`
	UserID              string          `db:"user_id" json:"userId"`
	BalanceBefore       decimal.Decimal `db:"balance_before" json:"balanceBefore"`
	BalanceAfter        decimal.Decimal `db:"balance_after" json:"balanceAfter"`
	ChangeAmount        decimal.Decimal `db:"change_amount" json:"changeAmount"`
	TransactionType     TransactionType `db:"transaction_type" json:"transactionType"`
	TransactionMetadata map[string]any  `db:"transaction_metadata" json:"metadata,omitempty"`
	RelatedID           *uuid.UUID      `db:"related_id" json:"relatedId,omitempty"`
	RelatedType         *RelatedType    `db:"related_type" json:"relatedType,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
}
