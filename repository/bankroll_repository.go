package repository

import (
	"context"
	"errors"
	"fmt"

	"betledger/database"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BankrollRepository implements the BankrollRepository interface
type BankrollRepository struct {
	q queryable
}

// NewBankrollRepository creates a new bankroll repository
func NewBankrollRepository(db *database.DB) *BankrollRepository {
	return &BankrollRepository{q: db.Pool}
}

// newBankrollRepositoryWithTx creates a new bankroll repository with a transaction
func newBankrollRepositoryWithTx(tx queryable) *BankrollRepository {
	return &BankrollRepository{q: tx}
}

const bankrollColumns = `
	br.id, br.user_id, br.name, br.initial_balance, br.current_balance,
	br.currency, br.is_active, br.created_at, br.updated_at`

const bankrollWithCountSelect = `
	SELECT ` + bankrollColumns + `,
	       (SELECT COUNT(*) FROM bets b WHERE b.bankroll_id = br.id) AS bet_count
	FROM bankrolls br
`

func scanBankroll(row rowScanner, withCount bool) (*models.Bankroll, error) {
	var bankroll models.Bankroll
	dest := []any{
		&bankroll.ID,
		&bankroll.UserID,
		&bankroll.Name,
		&bankroll.InitialBalance,
		&bankroll.CurrentBalance,
		&bankroll.Currency,
		&bankroll.IsActive,
		&bankroll.CreatedAt,
		&bankroll.UpdatedAt,
	}
	if withCount {
		dest = append(dest, &bankroll.BetCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &bankroll, nil
}

// Create inserts a bankroll and fills its ID and timestamps
func (r *BankrollRepository) Create(ctx context.Context, bankroll *models.Bankroll) error {
	query := `
		INSERT INTO bankrolls (user_id, name, initial_balance, current_balance, currency, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bankroll.UserID,
		bankroll.Name,
		bankroll.InitialBalance,
		bankroll.CurrentBalance,
		bankroll.Currency,
		bankroll.IsActive,
	).Scan(&bankroll.ID, &bankroll.CreatedAt, &bankroll.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bankroll for user %s: %w", bankroll.UserID, err)
	}

	return nil
}

// GetByID retrieves a caller-owned bankroll with its bet count
func (r *BankrollRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error) {
	query := bankrollWithCountSelect + `WHERE br.id = $1 AND br.user_id = $2`

	bankroll, err := scanBankroll(r.q.QueryRow(ctx, query, id, userID), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bankroll %s: %w", id, err)
	}
	return bankroll, nil
}

// GetForUpdate retrieves a caller-owned bankroll and locks its row
func (r *BankrollRepository) GetForUpdate(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error) {
	query := `SELECT ` + bankrollColumns + `
		FROM bankrolls br
		WHERE br.id = $1 AND br.user_id = $2
		FOR UPDATE
	`

	bankroll, err := scanBankroll(r.q.QueryRow(ctx, query, id, userID), false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock bankroll %s: %w", id, err)
	}
	return bankroll, nil
}

// ListByUser returns a user's bankrolls, newest first
func (r *BankrollRepository) ListByUser(ctx context.Context, userID string) ([]*models.Bankroll, error) {
	query := bankrollWithCountSelect + `
		WHERE br.user_id = $1
		ORDER BY br.created_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bankrolls for user %s: %w", userID, err)
	}
	defer rows.Close()

	var bankrolls []*models.Bankroll
	for rows.Next() {
		bankroll, err := scanBankroll(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bankroll: %w", err)
		}
		bankrolls = append(bankrolls, bankroll)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bankrolls: %w", err)
	}

	return bankrolls, nil
}

// GetOldestActive returns the earliest created active bankroll
func (r *BankrollRepository) GetOldestActive(ctx context.Context, userID string) (*models.Bankroll, error) {
	query := bankrollWithCountSelect + `
		WHERE br.user_id = $1 AND br.is_active
		ORDER BY br.created_at ASC
		LIMIT 1
	`

	bankroll, err := scanBankroll(r.q.QueryRow(ctx, query, userID), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active bankroll for user %s: %w", userID, err)
	}
	return bankroll, nil
}

// CountByUser returns how many bankrolls a user owns
func (r *BankrollRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM bankrolls WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bankrolls for user %s: %w", userID, err)
	}
	return count, nil
}

// Update persists name and active flag
func (r *BankrollRepository) Update(ctx context.Context, bankroll *models.Bankroll) error {
	query := `
		UPDATE bankrolls
		SET name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, bankroll.ID, bankroll.Name, bankroll.IsActive).Scan(&bankroll.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("bankroll %s not found", bankroll.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update bankroll %s: %w", bankroll.ID, err)
	}
	return nil
}

// UpdateBalance writes a new current balance
func (r *BankrollRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	query := `
		UPDATE bankrolls
		SET current_balance = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance of bankroll %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bankroll %s not found", id)
	}
	return nil
}

// Delete removes a bankroll; its balance history is removed by cascade
func (r *BankrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM bankrolls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bankroll %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("bankroll %s not found", id)
	}
	return nil
}
