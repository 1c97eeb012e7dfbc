package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sport is the sport a bet was placed on
type Sport string

const (
	SportFootball         Sport = "FOOTBALL"
	SportBasketball       Sport = "BASKETBALL"
	SportTennis           Sport = "TENNIS"
	SportVolleyball       Sport = "VOLLEYBALL"
	SportFutsal           Sport = "FUTSAL"
	SportHandball         Sport = "HANDBALL"
	SportBaseball         Sport = "BASEBALL"
	SportAmericanFootball Sport = "AMERICAN_FOOTBALL"
	SportHockey           Sport = "HOCKEY"
	SportMMA              Sport = "MMA"
	SportBoxing           Sport = "BOXING"
	SportEsports          Sport = "ESPORTS"
	SportOther            Sport = "OTHER"
)

// AllSports lists every sport in display order
var AllSports = []Sport{
	SportFootball,
	SportBasketball,
	SportTennis,
	SportVolleyball,
	SportFutsal,
	SportHandball,
	SportBaseball,
	SportAmericanFootball,
	SportHockey,
	SportMMA,
	SportBoxing,
	SportEsports,
	SportOther,
}

// IsValid reports whether s is a known sport
func (s Sport) IsValid() bool {
	for _, known := range AllSports {
		if s == known {
			return true
		}
	}
	return false
}

// BetStatus is the lifecycle state of a bet
type BetStatus string

const (
	BetStatusPending BetStatus = "PENDING"
	BetStatusWon     BetStatus = "WON"
	BetStatusLost    BetStatus = "LOST"
	BetStatusVoid    BetStatus = "VOID"
	BetStatusCashout BetStatus = "CASHOUT"
)

// IsValid reports whether s is a known status
func (s BetStatus) IsValid() bool {
	switch s {
	case BetStatusPending, BetStatusWon, BetStatusLost, BetStatusVoid, BetStatusCashout:
		return true
	}
	return false
}

// IsTerminal reports whether a bet in this status can no longer change
func (s BetStatus) IsTerminal() bool {
	return s.IsValid() && s != BetStatusPending
}

// BetResult is the optional fine-grained result code recorded at settlement
type BetResult string

const (
	BetResultWin      BetResult = "WIN"
	BetResultLoss     BetResult = "LOSS"
	BetResultVoid     BetResult = "VOID"
	BetResultHalfWin  BetResult = "HALF_WIN"
	BetResultHalfLoss BetResult = "HALF_LOSS"
)

// IsValid reports whether r is a known result code
func (r BetResult) IsValid() bool {
	switch r {
	case BetResultWin, BetResultLoss, BetResultVoid, BetResultHalfWin, BetResultHalfLoss:
		return true
	}
	return false
}

// Bet is a single wager recorded against a bankroll
type Bet struct {
	ID          uuid.UUID           `db:"id" json:"id"`
	UserID      string              `db:"user_id" json:"userId"`
	BankrollID  uuid.UUID           `db:"bankroll_id" json:"bankrollId"`
	Sport       Sport               `db:"sport" json:"sport"`
	Event       string              `db:"event" json:"event"`
	Competition *string             `db:"competition" json:"competition,omitempty"`
	Market      string              `db:"market" json:"market"`
	Selection   string              `db:"selection" json:"selection"`
	Odds        decimal.Decimal     `db:"odds" json:"odds"`
	Stake       decimal.Decimal     `db:"stake" json:"stake"`
	Status      BetStatus           `db:"status" json:"status"`
	Result      *BetResult          `db:"result" json:"result,omitempty"`
	Profit      decimal.NullDecimal `db:"profit" json:"profit"`
	EventDate   time.Time           `db:"event_date" json:"eventDate"`
	PlacedAt    time.Time           `db:"placed_at" json:"placedAt"`
	SettledAt   *time.Time          `db:"settled_at" json:"settledAt,omitempty"`
	Bookmaker   *string             `db:"bookmaker" json:"bookmaker,omitempty"`
	Notes       *string             `db:"notes" json:"notes,omitempty"`
	Tags        []string            `db:"tags" json:"tags"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`

	// Populated on reads joined with the owning bankroll
	BankrollName     string `db:"-" json:"bankrollName,omitempty"`
	BankrollCurrency string `db:"-" json:"bankrollCurrency,omitempty"`
}

// IsPending reports whether the bet is still open
func (b *Bet) IsPending() bool {
	return b.Status == BetStatusPending
}

// BetFilter narrows a bet listing
type BetFilter struct {
	BankrollID *uuid.UUID
	Sport      *Sport
	Status     *BetStatus
	From       *time.Time // event date lower bound, inclusive
	To         *time.Time // event date upper bound, inclusive
	Limit      int
	Offset     int
}

// Pagination describes one page of a listing
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// BetPage is a page of bets plus its pagination info
type BetPage struct {
	Bets       []*Bet     `json:"bets"`
	Pagination Pagination `json:"pagination"`
}
