package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserStats aggregates every bet a user owns
type UserStats struct {
	TotalBets      int             `json:"totalBets"`
	WonBets        int             `json:"wonBets"`
	LostBets       int             `json:"lostBets"`
	VoidBets       int             `json:"voidBets"`
	CashoutBets    int             `json:"cashoutBets"`
	PendingBets    int             `json:"pendingBets"`
	SettledBets    int             `json:"settledBets"`
	TotalBankrolls int             `json:"totalBankrolls"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	TotalStaked    decimal.Decimal `json:"totalStaked"`
	ROI            float64         `json:"roi"`
	WinRate        float64         `json:"winRate"`
	AvgOdds        decimal.Decimal `json:"avgOdds"`
}

// DailyProfit is the net profit of bets settled on one UTC calendar day
type DailyProfit struct {
	Date   string          `json:"date"`
	Profit decimal.Decimal `json:"profit"`
}

// DateRangeStats aggregates bets settled inside a time window
type DateRangeStats struct {
	TotalBets    int             `json:"totalBets"`
	WonBets      int             `json:"wonBets"`
	LostBets     int             `json:"lostBets"`
	VoidBets     int             `json:"voidBets"`
	SettledBets  int             `json:"settledBets"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	TotalStaked  decimal.Decimal `json:"totalStaked"`
	WinRate      float64         `json:"winRate"`
	ROI          float64         `json:"roi"`
	DailyProfits []DailyProfit   `json:"dailyProfits"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
}

// SportStats aggregates one sport's bets
type SportStats struct {
	Sport       Sport           `json:"sport"`
	TotalBets   int             `json:"totalBets"`
	Won         int             `json:"won"`
	Lost        int             `json:"lost"`
	Pending     int             `json:"pending"`
	SettledBets int             `json:"settledBets"`
	WinRate     float64         `json:"winRate"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
	TotalStaked decimal.Decimal `json:"totalStaked"`
	ROI         float64         `json:"roi"`
}

// MonthlyStats aggregates the bets whose event date falls in one month
type MonthlyStats struct {
	Month       int             `json:"month"`
	TotalBets   int             `json:"totalBets"`
	Won         int             `json:"won"`
	Lost        int             `json:"lost"`
	Pending     int             `json:"pending"`
	SettledBets int             `json:"settledBets"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
	TotalStaked decimal.Decimal `json:"totalStaked"`
	WinRate     float64         `json:"winRate"`
	ROI         float64         `json:"roi"`
}

// BankrollStats aggregates one bankroll's bets and balance movement
type BankrollStats struct {
	BankrollID           uuid.UUID       `json:"bankrollId"`
	BankrollName         string          `json:"bankrollName"`
	Currency             string          `json:"currency"`
	InitialBalance       decimal.Decimal `json:"initialBalance"`
	CurrentBalance       decimal.Decimal `json:"currentBalance"`
	ProfitLoss           decimal.Decimal `json:"profitLoss"`
	ProfitLossPercentage float64         `json:"profitLossPercentage"`
	TotalBets            int             `json:"totalBets"`
	WonBets              int             `json:"wonBets"`
	LostBets             int             `json:"lostBets"`
	PendingBets          int             `json:"pendingBets"`
	SettledBets          int             `json:"settledBets"`
	WinRate              float64         `json:"winRate"`
	TotalProfit          decimal.Decimal `json:"totalProfit"`
	TotalStaked          decimal.Decimal `json:"totalStaked"`
	ROI                  float64         `json:"roi"`
}
