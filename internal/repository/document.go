// Package repository provides PostgreSQL-backed persistence for accounts,
// sessions and per-user documents.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// CardsCollection is the collection name of the per-user cards document.
const CardsCollection = "cards"

// PostgresDocumentRepository stores whole JSON documents keyed by
// (collection, document id). There are deliberately no partial updates:
// callers read a document, mutate it in memory, and write the whole thing
// back. Two concurrent writers to the same document race with
// last-writer-wins semantics.
type PostgresDocumentRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDocumentRepository creates a new PostgresDocumentRepository
// with the given database connection.
func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{DB: db}
}

// Get fetches the document body for (collection, docID).
// A missing document is a normal state: it returns found=false and no error.
func (r *PostgresDocumentRepository) Get(ctx context.Context, collection, docID string) (json.RawMessage, bool, error) {
	var body []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT body FROM documents WHERE collection = $1 AND doc_id = $2
	`, collection, docID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document: %w", err)
	}
	return body, true, nil
}

// Set writes the whole document body for (collection, docID), creating the
// row if it does not exist yet.
func (r *PostgresDocumentRepository) Set(ctx context.Context, collection, docID string, body json.RawMessage) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO documents (collection, doc_id, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, doc_id) DO UPDATE SET body = EXCLUDED.body
	`, collection, docID, []byte(body))
	if err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}
