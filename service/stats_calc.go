package service

import (
	"time"

	"betledger/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns part/whole*100 rounded to two places, or 0 when whole is zero
func Percentage(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Round(2).InexactFloat64()
}

// Rate returns count/total*100 rounded to two places, or 0 when total is zero
func Rate(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Percentage(decimal.NewFromInt(int64(count)), decimal.NewFromInt(int64(total)))
}

// betTally counts bets by status and sums their money columns
type betTally struct {
	total, won, lost, void, cashout, pending int

	profit        decimal.Decimal // over non-null profits
	staked        decimal.Decimal // over every bet added
	settledStaked decimal.Decimal
	wonOdds       decimal.Decimal
}

func (t *betTally) add(bet *models.Bet) {
	t.total++
	t.staked = t.staked.Add(bet.Stake)

	switch bet.Status {
	case models.BetStatusWon:
		t.won++
		t.wonOdds = t.wonOdds.Add(bet.Odds)
	case models.BetStatusLost:
		t.lost++
	case models.BetStatusVoid:
		t.void++
	case models.BetStatusCashout:
		t.cashout++
	case models.BetStatusPending:
		t.pending++
	}

	if bet.Profit.Valid {
		t.profit = t.profit.Add(bet.Profit.Decimal)
		t.settledStaked = t.settledStaked.Add(bet.Stake)
	}
}

func tally(bets []*models.Bet) betTally {
	var t betTally
	for _, bet := range bets {
		t.add(bet)
	}
	return t
}

// ComputeUserStats aggregates every bet of a user.
// Staked money counts only settled bets so ROI compares like with like.
func ComputeUserStats(bets []*models.Bet, bankrollCount int) *models.UserStats {
	t := tally(bets)
	settled := t.total - t.pending - t.void

	avgOdds := decimal.Zero
	if t.won > 0 {
		avgOdds = t.wonOdds.Div(decimal.NewFromInt(int64(t.won))).Round(3)
	}

	return &models.UserStats{
		TotalBets:      t.total,
		WonBets:        t.won,
		LostBets:       t.lost,
		VoidBets:       t.void,
		CashoutBets:    t.cashout,
		PendingBets:    t.pending,
		SettledBets:    settled,
		TotalBankrolls: bankrollCount,
		TotalProfit:    t.profit,
		TotalStaked:    t.settledStaked,
		ROI:            Percentage(t.profit, t.settledStaked),
		WinRate:        Rate(t.won, settled),
		AvgOdds:        avgOdds,
	}
}

// ComputeDateRangeStats aggregates bets settled inside [start, end] and buckets
// their profit per UTC day. Days without settlements report zero.
func ComputeDateRangeStats(bets []*models.Bet, start, end time.Time) *models.DateRangeStats {
	days := DaysBetween(start, end)
	daily := make(map[string]decimal.Decimal, len(days))

	var t betTally
	for _, bet := range bets {
		if bet.IsPending() || bet.SettledAt == nil {
			continue
		}
		t.add(bet)
		key := DayKey(*bet.SettledAt)
		daily[key] = daily[key].Add(bet.Profit.Decimal)
	}
	settled := t.total - t.void

	dailyProfits := make([]models.DailyProfit, 0, len(days))
	for _, day := range days {
		dailyProfits = append(dailyProfits, models.DailyProfit{Date: day, Profit: daily[day]})
	}

	return &models.DateRangeStats{
		TotalBets:    t.total,
		WonBets:      t.won,
		LostBets:     t.lost,
		VoidBets:     t.void,
		SettledBets:  settled,
		TotalProfit:  t.profit,
		TotalStaked:  t.staked,
		WinRate:      Rate(t.won, settled),
		ROI:          Percentage(t.profit, t.staked),
		DailyProfits: dailyProfits,
		StartDate:    start.UTC(),
		EndDate:      end.UTC(),
	}
}

// ComputeSportStats groups bets by sport, in the fixed sport order, omitting
// sports without bets
func ComputeSportStats(bets []*models.Bet) []*models.SportStats {
	bySport := make(map[models.Sport]*betTally)
	for _, bet := range bets {
		t, ok := bySport[bet.Sport]
		if !ok {
			t = &betTally{}
			bySport[bet.Sport] = t
		}
		t.add(bet)
	}

	stats := make([]*models.SportStats, 0, len(bySport))
	for _, sport := range models.AllSports {
		t, ok := bySport[sport]
		if !ok {
			continue
		}
		settled := t.total - t.pending
		stats = append(stats, &models.SportStats{
			Sport:       sport,
			TotalBets:   t.total,
			Won:         t.won,
			Lost:        t.lost,
			Pending:     t.pending,
			SettledBets: settled,
			WinRate:     Rate(t.won, settled),
			TotalProfit: t.profit,
			TotalStaked: t.staked,
			ROI:         Percentage(t.profit, t.staked),
		})
	}
	return stats
}

// ComputeMonthlyStats returns twelve entries bucketed by event month.
// Profit counts only WON and LOST bets.
func ComputeMonthlyStats(bets []*models.Bet, year int) []*models.MonthlyStats {
	var months [12]betTally
	var profits [12]decimal.Decimal

	for _, bet := range bets {
		eventDate := bet.EventDate.UTC()
		if eventDate.Year() != year {
			continue
		}
		idx := int(eventDate.Month()) - 1
		months[idx].add(bet)
		if bet.Status == models.BetStatusWon || bet.Status == models.BetStatusLost {
			profits[idx] = profits[idx].Add(bet.Profit.Decimal)
		}
	}

	stats := make([]*models.MonthlyStats, 0, len(months))
	for i, t := range months {
		settled := t.total - t.pending
		stats = append(stats, &models.MonthlyStats{
			Month:       i + 1,
			TotalBets:   t.total,
			Won:         t.won,
			Lost:        t.lost,
			Pending:     t.pending,
			SettledBets: settled,
			TotalProfit: profits[i],
			TotalStaked: t.staked,
			WinRate:     Rate(t.won, settled),
			ROI:         Percentage(profits[i], t.staked),
		})
	}
	return stats
}

// ComputeBankrollStats aggregates one bankroll's bets and its balance movement
func ComputeBankrollStats(bankroll *models.Bankroll, bets []*models.Bet) *models.BankrollStats {
	t := tally(bets)
	settled := t.total - t.pending
	profitLoss := bankroll.ProfitLoss()

	return &models.BankrollStats{
		BankrollID:           bankroll.ID,
		BankrollName:         bankroll.Name,
		Currency:             bankroll.Currency,
		InitialBalance:       bankroll.InitialBalance,
		CurrentBalance:       bankroll.CurrentBalance,
		ProfitLoss:           profitLoss,
		ProfitLossPercentage: Percentage(profitLoss, bankroll.InitialBalance),
		TotalBets:            t.total,
		WonBets:              t.won,
		LostBets:             t.lost,
		PendingBets:          t.pending,
		SettledBets:          settled,
		WinRate:              Rate(t.won, settled),
		TotalProfit:          t.profit,
		TotalStaked:          t.staked,
		ROI:                  Percentage(t.profit, t.staked),
	}
}
