package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrAuthDisabled = errors.New("this sign-in method is disabled")

const (
	providerLocal   = "local"
	minPasswordSize = 8
)

// IDTokenVerifier checks an identity-provider ID token.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*OIDCClaims, error)
}

type AuthConfig struct {
	JWTSecret    string
	TokenExpiry  time.Duration
	ProviderName string
	LocalEnabled bool
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users    *UserService
	identity *IdentityService
	verifier IDTokenVerifier
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService wires session issuing. verifier may be nil when no identity
// provider is configured.
func NewAuthService(users *UserService, identity *IdentityService, verifier IDTokenVerifier, cfg AuthConfig) *AuthService {
	if cfg.TokenExpiry <= 0 {
		cfg.TokenExpiry = 24 * time.Hour
	}
	if cfg.ProviderName == "" {
		cfg.ProviderName = "oidc"
	}
	return &AuthService{users: users, identity: identity, verifier: verifier, cfg: cfg, now: time.Now}
}

// Callback exchanges a provider ID token for a session.
func (s *AuthService) Callback(ctx context.Context, idToken string) (*Session, error) {
	if s.verifier == nil {
		return nil, ErrAuthDisabled
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, invalid("id_token is required")
	}
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		slog.WarnContext(ctx, "id token verification failed", "error", err)
		return nil, ErrInvalidToken
	}
	user, err := s.identity.Sync(ctx, claims.Profile(s.cfg.ProviderName))
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*Session, error) {
	if !s.cfg.LocalEnabled {
		return nil, ErrAuthDisabled
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}
	if len(password) < minPasswordSize {
		return nil, invalid(fmt.Sprintf("password must be at least %d characters", minPasswordSize))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = DisplayName(Profile{Email: email})
	}
	role := s.identity.Policy().SelfServiceRole(email)
	user, err := s.users.Create(ctx, CreateUserInput{
		Email:        email,
		Name:         name,
		Role:         &role,
		AuthProvider: providerLocal,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if !s.cfg.LocalEnabled {
		return nil, ErrAuthDisabled
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err = s.users.Upsert(ctx, UpsertUserInput{Email: user.Email})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenExpiry)
	claims := SessionClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// ParseSession validates a session token issued by this service.
func (s *AuthService) ParseSession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
