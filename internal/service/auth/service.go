package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sapphirus/internal/domain"
	profilerepo "sapphirus/internal/repository/profile"
	tokenrepo "sapphirus/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles signup/login and session resolution.
type Service struct {
	profiles    profilerepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(profiles profilerepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		profiles:    profiles,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		passwordMin: 8,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Signup registers a new account with the client role.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.profiles.Create(ctx, domain.Profile{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         domain.RoleClient,
	})
}

// Login validates credentials and returns the profile plus an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	password = strings.TrimSpace(password)
	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, p.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return p, access, nil
}

// Logout revokes an access token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.tokens.Revoke(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// LookupByToken resolves the session's user id from a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// ProfileByID returns the full profile for an authenticated user.
func (s *Service) ProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// RoleByID fetches the user's role. The authorization gate calls this behind
// its TTL cache.
func (s *Service) RoleByID(ctx context.Context, id string) (domain.Role, error) {
	return s.profiles.GetRole(ctx, id)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
