package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cardlink/internal/models"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// CreateUser creates a new account with the given password hash.
	CreateUser(ctx context.Context, acc models.Account, passwordHash []byte) error
	// EmailExists returns true if an account with the email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
	// UserByEmail fetches an account and its password hash, or (nil, nil, nil).
	UserByEmail(ctx context.Context, email string) (*models.Account, []byte, error)
	// AccountByID fetches an account by user id, or (nil, nil).
	AccountByID(ctx context.Context, userID string) (*models.Account, error)
	// CreateSession stores a bearer token with an expiry.
	CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error
	// UserIDByToken resolves a live token to a user id, or "".
	UserIDByToken(ctx context.Context, token string) (string, error)
	// DeleteSession removes a bearer token.
	DeleteSession(ctx context.Context, token string) error
}

const (
	// startingBalance is credited to every new account.
	startingBalance = 100.00
	// sessionTTL is how long a bearer token stays valid.
	sessionTTL = 30 * 24 * time.Hour
)

// AuthService implements sign-up, sign-in and session resolution.
type AuthService struct {
	// repo performs the data-layer operations.
	repo AuthRepository
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// SignUp registers a new account and opens a session for it.
// New accounts start on the Free plan with the starting balance.
// Returns models.ErrEmailTaken when the email is already registered.
func (s *AuthService) SignUp(ctx context.Context, email, password, username string) (*models.Account, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required")
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", models.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	acc := models.Account{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		Balance:  startingBalance,
		Plan:     models.PlanFree,
	}
	if err := s.repo.CreateUser(ctx, acc, hash); err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, acc.ID)
	if err != nil {
		return nil, "", err
	}
	return &acc, token, nil
}

// SignIn verifies credentials and opens a session.
// Unknown emails and wrong passwords both fail with
// models.ErrInvalidCredentials, indistinguishably.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Account, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	acc, hash, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if acc == nil {
		return nil, "", models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, acc.ID)
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

// SignOut ends the session for token. Unknown tokens are a no-op.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

// Resolve maps a bearer token to a user id; "" means not authenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	return s.repo.UserIDByToken(ctx, token)
}

// Account fetches the account for a user id, or (nil, nil) when absent.
func (s *AuthService) Account(ctx context.Context, userID string) (*models.Account, error) {
	return s.repo.AccountByID(ctx, userID)
}

func (s *AuthService) openSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.repo.CreateSession(ctx, token, userID, time.Now().Add(sessionTTL)); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}
