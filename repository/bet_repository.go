package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"betledger/database"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

const betSelect = `
	SELECT b.id, b.user_id, b.bankroll_id, b.sport, b.event, b.competition, b.market,
	       b.selection, b.odds, b.stake, b.status, b.result, b.profit, b.event_date,
	       b.placed_at, b.settled_at, b.bookmaker, b.notes, b.tags, b.updated_at,
	       br.name, br.currency
	FROM bets b
	JOIN bankrolls br ON br.id = b.bankroll_id
`

func scanBet(row rowScanner) (*models.Bet, error) {
	var bet models.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.BankrollID,
		&bet.Sport,
		&bet.Event,
		&bet.Competition,
		&bet.Market,
		&bet.Selection,
		&bet.Odds,
		&bet.Stake,
		&bet.Status,
		&bet.Result,
		&bet.Profit,
		&bet.EventDate,
		&bet.PlacedAt,
		&bet.SettledAt,
		&bet.Bookmaker,
		&bet.Notes,
		&bet.Tags,
		&bet.UpdatedAt,
		&bet.BankrollName,
		&bet.BankrollCurrency,
	)
	if err != nil {
		return nil, err
	}
	if bet.Tags == nil {
		bet.Tags = []string{}
	}
	return &bet, nil
}

func (r *BetRepository) queryBets(ctx context.Context, query string, args ...any) ([]*models.Bet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}

// Create inserts a pending bet; a preassigned ID is kept
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}
	if bet.Tags == nil {
		bet.Tags = []string{}
	}

	query := `
		INSERT INTO bets (
			id, user_id, bankroll_id, sport, event, competition, market, selection,
			odds, stake, status, event_date, bookmaker, notes, tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING placed_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		bet.UserID,
		bet.BankrollID,
		bet.Sport,
		bet.Event,
		bet.Competition,
		bet.Market,
		bet.Selection,
		bet.Odds,
		bet.Stake,
		bet.Status,
		bet.EventDate,
		bet.Bookmaker,
		bet.Notes,
		bet.Tags,
	).Scan(&bet.PlacedAt, &bet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet for user %s: %w", bet.UserID, err)
	}

	return nil
}

// GetByID retrieves a caller-owned bet
func (r *BetRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bet, error) {
	bet, err := scanBet(r.q.QueryRow(ctx, betSelect+`WHERE b.id = $1 AND b.user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %s: %w", id, err)
	}
	return bet, nil
}

// GetForUpdate retrieves a caller-owned bet and locks its row; the bankroll row is not locked
func (r *BetRepository) GetForUpdate(ctx context.Context, userID string, id uuid.UUID) (*models.Bet, error) {
	query := betSelect + `WHERE b.id = $1 AND b.user_id = $2 FOR UPDATE OF b`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock bet %s: %w", id, err)
	}
	return bet, nil
}

// Update persists the editable fields of a pending bet
func (r *BetRepository) Update(ctx context.Context, bet *models.Bet) (bool, error) {
	query := `
		UPDATE bets
		SET sport = $2, event = $3, competition = $4, market = $5, selection = $6,
		    odds = $7, stake = $8, event_date = $9, bookmaker = $10, notes = $11,
		    tags = $12, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		bet.Sport,
		bet.Event,
		bet.Competition,
		bet.Market,
		bet.Selection,
		bet.Odds,
		bet.Stake,
		bet.EventDate,
		bet.Bookmaker,
		bet.Notes,
		bet.Tags,
	).Scan(&bet.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update bet %s: %w", bet.ID, err)
	}
	return true, nil
}

// Settle moves a pending bet to its terminal status. The status guard makes a
// concurrent second settlement affect no rows.
func (r *BetRepository) Settle(ctx context.Context, bet *models.Bet) (bool, error) {
	query := `
		UPDATE bets
		SET status = $2, result = $3, profit = $4, settled_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		bet.Status,
		bet.Result,
		bet.Profit,
		bet.SettledAt,
	).Scan(&bet.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to settle bet %s: %w", bet.ID, err)
	}
	return true, nil
}

// Delete removes a bet
func (r *BetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM bets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bet %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bet %s not found", id)
	}
	return nil
}

// whereBuilder accumulates AND-ed conditions with positional arguments
type whereBuilder struct {
	conditions []string
	args       []any
}

func (w *whereBuilder) add(condition string, arg any) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, fmt.Sprintf(condition, len(w.args)))
}

func (w *whereBuilder) sql() string {
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

// List returns one page of a user's bets, newest placed first, plus the total match count
func (r *BetRepository) List(ctx context.Context, userID string, filter models.BetFilter) ([]*models.Bet, int, error) {
	where := &whereBuilder{}
	where.add("b.user_id = $%d", userID)
	if filter.BankrollID != nil {
		where.add("b.bankroll_id = $%d", *filter.BankrollID)
	}
	if filter.Sport != nil {
		where.add("b.sport = $%d", *filter.Sport)
	}
	if filter.Status != nil {
		where.add("b.status = $%d", *filter.Status)
	}
	if filter.From != nil {
		where.add("b.event_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		where.add("b.event_date <= $%d", *filter.To)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bets b ` + where.sql()
	if err := r.q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bets for user %s: %w", userID, err)
	}

	args := append([]any{}, where.args...)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s%s ORDER BY b.placed_at DESC, b.id LIMIT $%d OFFSET $%d",
		betSelect, where.sql(), len(args)-1, len(args))

	bets, err := r.queryBets(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bets for user %s: %w", userID, err)
	}
	return bets, total, nil
}

// CountByBankroll returns how many bets a bankroll owns
func (r *BetRepository) CountByBankroll(ctx context.Context, bankrollID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM bets WHERE bankroll_id = $1`, bankrollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bets of bankroll %s: %w", bankrollID, err)
	}
	return count, nil
}

// ListRecentByBankroll returns a bankroll's latest bets
func (r *BetRepository) ListRecentByBankroll(ctx context.Context, bankrollID uuid.UUID, limit int) ([]*models.Bet, error) {
	query := betSelect + `WHERE b.bankroll_id = $1 ORDER BY b.placed_at DESC LIMIT $2`

	bets, err := r.queryBets(ctx, query, bankrollID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bets of bankroll %s: %w", bankrollID, err)
	}
	return bets, nil
}

// ListForStats returns every bet matching the query
func (r *BetRepository) ListForStats(ctx context.Context, userID string, query models.StatsQuery) ([]*models.Bet, error) {
	where := &whereBuilder{}
	where.add("b.user_id = $%d", userID)
	if query.BankrollID != nil {
		where.add("b.bankroll_id = $%d", *query.BankrollID)
	}
	if query.SettledFrom != nil {
		where.add("b.settled_at >= $%d", *query.SettledFrom)
	}
	if query.SettledTo != nil {
		where.add("b.settled_at <= $%d", *query.SettledTo)
	}
	if query.EventFrom != nil {
		where.add("b.event_date >= $%d", *query.EventFrom)
	}
	if query.EventTo != nil {
		where.add("b.event_date < $%d", *query.EventTo)
	}
	if query.ExcludePending {
		where.conditions = append(where.conditions, "b.status <> 'PENDING'")
	}

	bets, err := r.queryBets(ctx, betSelect+where.sql()+` ORDER BY b.placed_at`, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets for stats of user %s: %w", userID, err)
	}
	return bets, nil
}

// TopProfitable returns settled bets ordered by profit, highest first
func (r *BetRepository) TopProfitable(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	query := betSelect + `
		WHERE b.user_id = $1 AND b.profit IS NOT NULL
		ORDER BY b.profit DESC, b.settled_at DESC
		LIMIT $2
	`

	bets, err := r.queryBets(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top bets of user %s: %w", userID, err)
	}
	return bets, nil
}

// Recent returns bets ordered by placement time, newest first
func (r *BetRepository) Recent(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	query := betSelect + `WHERE b.user_id = $1 ORDER BY b.placed_at DESC LIMIT $2`

	bets, err := r.queryBets(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bets of user %s: %w", userID, err)
	}
	return bets, nil
}
