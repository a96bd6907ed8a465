package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords, so
// login responses never reveal which of the two failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Claims is the JWT payload issued at login and verified on every request.
type Claims struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login, and token verification.
// Tokens are HMAC-SHA256 signed with a shared secret from config.
type AuthService struct {
	users  repo.UserRepo
	secret []byte
	ttl    time.Duration
}

// NewAuthService constructs an AuthService. secret signs and verifies
// tokens; ttl bounds how long an issued token stays valid.
func NewAuthService(users repo.UserRepo, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl}
}

// RegisterCommand carries the caller-supplied fields for a new account.
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a new user account and returns it with a fresh token.
// Returns domain.ErrConflict if the email is already registered.
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (domain.User, string, error) {
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return domain.User{}, "", fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return domain.User{}, "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(cmd.Password) < 8 {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if cmd.Role == "" {
		cmd.Role = domain.RoleDispatcher
	}
	if !cmd.Role.Valid() {
		return domain.User{}, "", fmt.Errorf("%w: unknown role %q", domain.ErrValidation, cmd.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Register: hash: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Role:         cmd.Role,
	})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Register: %w", err)
	}

	token, err := s.sign(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Returns ErrInvalidCredentials on any mismatch.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.sign(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, token, nil
}

// GetByID returns the user for an authenticated subject.
func (s *AuthService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.GetByID: %w", err)
	}
	return user, nil
}

// Verify parses and validates a token string, returning its claims.
// Only HMAC-signed tokens are accepted.
func (s *AuthService) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("service.AuthService.Verify: %w", err)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("service.AuthService.Verify: token invalid")
	}
	return claims, nil
}

func (s *AuthService) sign(user domain.User) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
