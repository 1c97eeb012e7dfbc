package testutil

import (
	"time"

	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestBankroll creates an unsaved active bankroll with equal initial and current balance
func CreateTestBankroll(userID, name, balance string) *models.Bankroll {
	amount := decimal.RequireFromString(balance)
	return &models.Bankroll{
		UserID:         userID,
		Name:           name,
		InitialBalance: amount,
		CurrentBalance: amount,
		Currency:       models.DefaultCurrency,
		IsActive:       true,
	}
}

// CreateTestBet creates an unsaved pending bet against a bankroll
func CreateTestBet(userID string, bankrollID uuid.UUID, stake, odds string) *models.Bet {
	return &models.Bet{
		ID:         uuid.New(),
		UserID:     userID,
		BankrollID: bankrollID,
		Sport:      models.SportFootball,
		Event:      "Corinthians vs Santos",
		Market:     "Match Result",
		Selection:  "Corinthians",
		Odds:       decimal.RequireFromString(odds),
		Stake:      decimal.RequireFromString(stake),
		Status:     models.BetStatusPending,
		EventDate:  time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second),
		Tags:       []string{"test"},
	}
}

// CreateTestBalanceHistory creates a balance history entry for a bankroll
func CreateTestBalanceHistory(bankroll *models.Bankroll, before, after string, transactionType models.TransactionType) *models.BalanceHistory {
	b := decimal.RequireFromString(before)
	a := decimal.RequireFromString(after)
	return &models.BalanceHistory{
		BankrollID:      bankroll.ID,
		UserID:          bankroll.UserID,
		BalanceBefore:   b,
		BalanceAfter:    a,
		ChangeAmount:    a.Sub(b),
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
