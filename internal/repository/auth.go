package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cardlink/internal/models"
)

// PostgresAuthRepository implements account and session persistence using
// a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateUser inserts a new account row. The email column is unique; a
// duplicate insert fails with a database error the service maps to
// models.ErrEmailTaken via EmailExists.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, acc models.Account, passwordHash []byte) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, balance, plan)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, acc.ID, acc.Email, acc.Username, passwordHash, acc.Balance, string(acc.Plan))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// EmailExists reports whether an account with the given email exists.
func (r *PostgresAuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// UserByEmail fetches the account and password hash for an email.
// A missing account returns (nil, nil, nil).
func (r *PostgresAuthRepository) UserByEmail(ctx context.Context, email string) (*models.Account, []byte, error) {
	var acc models.Account
	var hash []byte
	var plan string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, balance, plan FROM users WHERE email = $1
	`, email).Scan(&acc.ID, &acc.Email, &acc.Username, &hash, &acc.Balance, &plan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("user by email: %w", err)
	}
	acc.Plan = models.Plan(plan)
	return &acc, hash, nil
}

// AccountByID fetches the account for a user id.
// A missing account returns (nil, nil).
func (r *PostgresAuthRepository) AccountByID(ctx context.Context, userID string) (*models.Account, error) {
	var acc models.Account
	var plan string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, username, balance, plan FROM users WHERE id = $1
	`, userID).Scan(&acc.ID, &acc.Email, &acc.Username, &acc.Balance, &plan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account by id: %w", err)
	}
	acc.Plan = models.Plan(plan)
	return &acc, nil
}

// CreateSession stores a bearer token for a user with an expiry.
func (r *PostgresAuthRepository) CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UserIDByToken resolves a bearer token to a user id. Expired or unknown
// tokens resolve to an empty string without error.
func (r *PostgresAuthRepository) UserIDByToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id FROM sessions WHERE token = $1 AND expires_at > now()
	`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("user by token: %w", err)
	}
	return userID, nil
}

// DeleteSession removes a bearer token. Deleting an unknown token is a no-op.
func (r *PostgresAuthRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// SetPlan updates the account's plan tier.
func (r *PostgresAuthRepository) SetPlan(ctx context.Context, userID string, plan models.Plan) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET plan = $1 WHERE id = $2`, string(plan), userID)
	return err
}
