package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rpsgame-go/internal/dependencies/clock"
	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username or email already registered")
	ErrMissingFields      = errors.New("username, email and password are required")
)

// Identity is the resolved caller behind a token
type Identity struct {
	PlayerID    model.PlayerID
	Username    string
	DisplayName string
}

// Name returns the display name, falling back to the username
func (i *Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Username
}

// IdentityResolver turns a bearer token into an Identity
type IdentityResolver interface {
	ResolveToken(token string) (*Identity, error)
}

// Token is an issued access token
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Config holds configuration for the auth service
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Secret:   "dev-secret-key-change",
		Issuer:   "rpsgame",
		Audience: "rpsgame-clients",
		TokenTTL: 60 * time.Minute,
	}
}

// claims is the JWT body
type claims struct {
	Username    string `json:"unique_name"`
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// Service handles account registration, password login and token issuance
type Service struct {
	accounts storage.AccountStore
	clock    clock.Clock
	random   random.Random
	cfg      Config
	logger   *slog.Logger
}

var _ IdentityResolver = (*Service)(nil)

// New creates a new auth Service
func New(accounts storage.AccountStore, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.Secret == "" {
		cfg.Secret = defaults.Secret
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaults.Issuer
	}
	if cfg.Audience == "" {
		cfg.Audience = defaults.Audience
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	return &Service{
		accounts: accounts,
		clock:    clock,
		random:   random,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "auth")),
	}
}

// Register creates a new account. Usernames and emails are unique,
// compared case-insensitively.
func (s *Service) Register(ctx context.Context, username, email, password, displayName string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:           model.PlayerID(s.generateID("p_")),
		Username:     username,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, model.ErrAccountExists) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	s.logger.Info("account registered",
		slog.String("player_id", string(account.ID)),
		slog.String("username", account.Username))
	return account, nil
}

// Login checks a password against the account found by username or email
// and issues a token
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*Token, error) {
	account, err := s.accounts.GetAccountByLogin(ctx, strings.TrimSpace(usernameOrEmail))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed", slog.String("player_id", string(account.ID)))
		return nil, ErrInvalidCredentials
	}

	return s.IssueToken(account)
}

// Me returns the account behind an identity
func (s *Service) Me(ctx context.Context, identity *Identity) (*model.Account, error) {
	account, err := s.accounts.GetAccount(ctx, identity.PlayerID)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return account, nil
}

// IssueToken signs an HS256 token for the account
func (s *Service) IssueToken(account *model.Account) (*Token, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username:    account.Username,
		DisplayName: account.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(account.ID),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// ResolveToken verifies signature, issuer, audience and expiry
func (s *Service) ResolveToken(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(token *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if parsed.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		PlayerID:    model.PlayerID(parsed.Subject),
		Username:    parsed.Username,
		DisplayName: parsed.DisplayName,
	}, nil
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	return prefix + s.random.String(16, random.IDAlphabet)
}
