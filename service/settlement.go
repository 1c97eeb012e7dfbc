package service

import (
	"betledger/models"

	"github.com/shopspring/decimal"
)

// SettlementOutcome is the effect of settling a bet
type SettlementOutcome struct {
	Profit decimal.Decimal // recorded on the bet
	Credit decimal.Decimal // added to the bankroll; zero means no balance change
}

// ComputeSettlement returns profit and bankroll credit for a terminal status.
//
//	WON      profit = stake*odds - stake   credit = stake*odds
//	LOST     profit = -stake               credit = 0
//	VOID     profit = 0                    credit = stake
//	CASHOUT  profit = 0                    credit = 0
//
// The payout is rounded to cents so the credit and the stored profit agree exactly.
func ComputeSettlement(status models.BetStatus, stake, odds decimal.Decimal) (SettlementOutcome, error) {
	switch status {
	case models.BetStatusWon:
		payout := stake.Mul(odds).Round(2)
		return SettlementOutcome{Profit: payout.Sub(stake), Credit: payout}, nil
	case models.BetStatusLost:
		return SettlementOutcome{Profit: stake.Neg(), Credit: decimal.Zero}, nil
	case models.BetStatusVoid:
		return SettlementOutcome{Profit: decimal.Zero, Credit: stake}, nil
	case models.BetStatusCashout:
		return SettlementOutcome{Profit: decimal.Zero, Credit: decimal.Zero}, nil
	default:
		return SettlementOutcome{}, validationError("bets can only be settled as WON, LOST, VOID or CASHOUT")
	}
}

// settlementTransactionType names the ledger entry a settlement credit produces
func settlementTransactionType(status models.BetStatus) models.TransactionType {
	if status == models.BetStatusVoid {
		return models.TransactionTypeStakeRefund
	}
	return models.TransactionTypeSettlementCredit
}
