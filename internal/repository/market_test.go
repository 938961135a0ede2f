package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"cardlink/internal/models"
)

func setupMarketRepo(t *testing.T) (*PostgresMarketRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresMarketRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestPurchaseTemplate_DebitsAndGrantsInOneTx(t *testing.T) {
	repo, mock, cleanup := setupMarketRepo(t)
	defer cleanup()

	seeded := []byte(`{"cards":null,"savedCards":null,"owned":["tpl-exec-navy"]}`)
	granted := []byte(`{"cards":null,"savedCards":null,"owned":["tpl-exec-navy","tpl-mono-slate"]}`)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(100.00))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance = $1 WHERE id = $2`)).
		WithArgs(66.67, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE collection = $1 AND doc_id = $2 FOR UPDATE`)).
		WithArgs(CardsCollection, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(seeded))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, doc_id, body)`)).
		WithArgs(CardsCollection, "u1", granted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	balance, err := repo.PurchaseTemplate(context.Background(), "u1", "tpl-mono-slate", 33.33)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 66.67 {
		t.Errorf("balance = %v; want 66.67", balance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPurchaseTemplate_FirstPurchaseCreatesDocument(t *testing.T) {
	repo, mock, cleanup := setupMarketRepo(t)
	defer cleanup()

	created := []byte(`{"cards":null,"savedCards":null,"owned":["tpl-mono-slate"]}`)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(10.00))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance = $1 WHERE id = $2`)).
		WithArgs(5.01, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE collection = $1 AND doc_id = $2 FOR UPDATE`)).
		WithArgs(CardsCollection, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, doc_id, body)`)).
		WithArgs(CardsCollection, "u1", created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	balance, err := repo.PurchaseTemplate(context.Background(), "u1", "tpl-mono-slate", 4.99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 5.01 {
		t.Errorf("balance = %v; want 5.01", balance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPurchaseTemplate_InsufficientBalanceRollsBack(t *testing.T) {
	repo, mock, cleanup := setupMarketRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(4.50))
	mock.ExpectRollback()

	_, err := repo.PurchaseTemplate(context.Background(), "u1", "tpl-mono-slate", 4.99)
	if !errors.Is(err, models.ErrInsufficientBalance) {
		t.Fatalf("error = %v; want ErrInsufficientBalance", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expected rollback without writes: %v", err)
	}
}

func TestPurchaseTemplate_UnknownUserRollsBack(t *testing.T) {
	repo, mock, cleanup := setupMarketRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	_, err := repo.PurchaseTemplate(context.Background(), "ghost", "tpl-mono-slate", 4.99)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}

func TestPurchaseTemplate_DebitFailureRollsBack(t *testing.T) {
	repo, mock, cleanup := setupMarketRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT balance FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(100.00))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance = $1 WHERE id = $2`)).
		WithArgs(95.01, "u1").
		WillReturnError(errors.New("write fail"))
	mock.ExpectRollback()

	_, err := repo.PurchaseTemplate(context.Background(), "u1", "tpl-mono-slate", 4.99)
	if err == nil {
		t.Fatal("expected an error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expected rollback: %v", err)
	}
}
