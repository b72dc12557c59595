package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	Profile(ctx context.Context, userID string) (Profile, error)
	RecordFailedLogin(ctx context.Context, email, ip string) error
	CountFailedLogins(ctx context.Context, email string, since time.Time) (int, error)
	RaiseBruteForceAlert(ctx context.Context, email string, attempts int) error
}

var _ StoreAPI = (*Store)(nil)
