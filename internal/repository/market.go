package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cardlink/internal/models"
)

// PostgresMarketRepository implements the marketplace writes against a
// PostgreSQL database.
type PostgresMarketRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresMarketRepository creates a new PostgresMarketRepository using
// the provided *sql.DB.
func NewPostgresMarketRepository(db *sql.DB) *PostgresMarketRepository {
	return &PostgresMarketRepository{DB: db}
}

// PurchaseTemplate debits price from the user's balance and appends
// templateID to the owned set of the user's cards document, as one
// transaction. Either both writes land or neither does; the balance is
// re-checked under a row lock so two racing purchases cannot overdraw.
//
// Returns the new balance, models.ErrInsufficientBalance when the locked
// balance is short, or an I/O error.
func (r *PostgresMarketRepository) PurchaseTemplate(ctx context.Context, userID, templateID string, price float64) (float64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRowContext(ctx, `
		SELECT balance FROM users WHERE id = $1 FOR UPDATE
	`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock balance: %w", err)
	}
	if balance < price {
		return 0, models.ErrInsufficientBalance
	}

	newBalance := models.Round2(balance - price)
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = $1 WHERE id = $2
	`, newBalance, userID); err != nil {
		return 0, fmt.Errorf("debit balance: %w", err)
	}

	var body []byte
	err = tx.QueryRowContext(ctx, `
		SELECT body FROM documents WHERE collection = $1 AND doc_id = $2 FOR UPDATE
	`, CardsCollection, userID).Scan(&body)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lock document: %w", err)
	}

	var doc models.CardsDocument
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil {
			return 0, fmt.Errorf("decode document: %w", err)
		}
	}

	owned := false
	for _, id := range doc.Owned {
		if id == templateID {
			owned = true
			break
		}
	}
	if !owned {
		doc.Owned = append(doc.Owned, templateID)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (collection, doc_id, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, doc_id) DO UPDATE SET body = EXCLUDED.body
	`, CardsCollection, userID, out); err != nil {
		return 0, fmt.Errorf("grant template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return newBalance, nil
}
