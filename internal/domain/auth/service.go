package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// absentUserHash is compared against when the email is unknown so the
// response takes as long as a wrong password would.
var absentUserHash = sync.OnceValue(func() string {
	hash, err := HashPassword("hrdash-absent-user")
	if err != nil {
		panic(err)
	}
	return hash
})

type Service struct {
	Store     StoreAPI
	Secret    string
	TokenTTL  time.Duration
	Threshold int
	Window    time.Duration
	Now       func() time.Time

	ComparePassword func(hash, password string) error
}

func NewService(store StoreAPI, secret string, threshold int, window time.Duration) *Service {
	return &Service{
		Store:     store,
		Secret:    secret,
		TokenTTL:  12 * time.Hour,
		Threshold: threshold,
		Window:    window,
		Now:       time.Now,

		ComparePassword: CheckPassword,
	}
}

// Login verifies credentials and issues a bearer token. Every failure is
// recorded; the attempt that reaches Threshold inside Window raises a
// BRUTE_FORCE security alert.
func (s *Service) Login(ctx context.Context, email, password, ip string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	user, err := s.Store.FindActiveUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, err
	}
	if err != nil {
		_ = s.ComparePassword(absentUserHash(), password)
		s.recordFailure(ctx, email, ip)
		return LoginResult{}, ErrInvalidCredentials
	}
	if s.ComparePassword(user.PasswordHash, password) != nil {
		s.recordFailure(ctx, email, ip)
		return LoginResult{}, ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, EmployeeID: user.EmployeeID, Role: user.Role}, ttl)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("last login update failed", "userId", user.ID, "err", err)
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: s.Now().Add(ttl),
		Profile: Profile{
			UserID:     user.ID,
			Email:      user.Email,
			Role:       user.Role,
			EmployeeID: user.EmployeeID,
		},
	}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (Profile, error) {
	return s.Store.Profile(ctx, userID)
}

func (s *Service) recordFailure(ctx context.Context, email, ip string) {
	if email == "" {
		return
	}
	if err := s.Store.RecordFailedLogin(ctx, email, ip); err != nil {
		slog.Warn("failed login insert failed", "err", err)
		return
	}
	if s.Threshold <= 0 {
		return
	}
	count, err := s.Store.CountFailedLogins(ctx, email, s.Now().Add(-s.Window))
	if err != nil {
		slog.Warn("failed login count failed", "err", err)
		return
	}
	if count != s.Threshold {
		return
	}
	if err := s.Store.RaiseBruteForceAlert(ctx, email, count); err != nil {
		slog.Warn("brute force alert failed", "email", email, "err", err)
	}
}
