package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/events"
	pkg_hash "github.com/Skotchmaster/marketplace/pkg/hash"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/metrics"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
	"github.com/Skotchmaster/marketplace/pkg/validate"
)

const minPasswordLen = 6

type AccountStore interface {
	CreateAccountIfNotExists(ctx context.Context, a *models.Account) error
	GetAccountByEmail(ctx context.Context, kind models.Kind, email string) (*models.Account, error)
}

type TokenIssuer interface {
	Issue(p tokens.Principal) (string, time.Time, error)
}

// AccountService implements register and login for every principal kind.
type AccountService struct {
	Repo     AccountStore
	Tokens   TokenIssuer
	Events   events.Publisher
	Metrics  *metrics.Metrics
	HashCost int
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *models.Account
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var fields = validate.New()

func validEmail(email string) bool {
	return fields.Var(email, "required,email") == nil
}

func (s *AccountService) hash(password string) (string, error) {
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return pkg_hash.HashPasswordCost(password, cost)
}

func (s *AccountService) Register(ctx context.Context, kind models.Kind, name, email, password string) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "account.register", "kind", kind)

	if !kind.Valid() {
		return nil, invalid("unknown kind %q", kind)
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, invalid("name is required")
	}
	if !validEmail(email) {
		return nil, invalid("email is invalid")
	}
	if len(password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}

	pwHash, err := s.hash(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	acc := &models.Account{Kind: kind, Name: name, Email: email, PasswordHash: pwHash}
	if err := s.Repo.CreateAccountIfNotExists(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s %w", kind, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.Metrics.Registered(string(kind))
	publish(ctx, s.Events, events.TopicAccounts, acc.ID.String(), events.New(events.AccountRegistered, map[string]any{
		"accountId": acc.ID,
		"kind":      acc.Kind,
		"email":     acc.Email,
	}))
	l.Info("account registered", "account_id", acc.ID)
	return acc, nil
}

func (s *AccountService) Login(ctx context.Context, kind models.Kind, email, password string) (*LoginResult, error) {
	if !kind.Valid() {
		return nil, invalid("unknown kind %q", kind)
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	acc, err := s.Repo.GetAccountByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Metrics.Login(string(kind), false)
			return nil, fmt.Errorf("%s %w", kind, ErrNotFound)
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if !pkg_hash.CheckPassword(acc.PasswordHash, password) {
		s.Metrics.Login(string(kind), false)
		return nil, ErrWrongCredentials
	}

	tok, exp, err := s.Tokens.Issue(tokens.Principal{ID: acc.ID.String(), Name: acc.Name, Kind: string(acc.Kind)})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.Metrics.Login(string(kind), true)
	return &LoginResult{Token: tok, ExpiresAt: exp, Account: acc}, nil
}
