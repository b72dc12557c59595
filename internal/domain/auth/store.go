package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	var employeeID *string
	err := s.DB.QueryRow(ctx, `
    SELECT u.id, u.email, u.password_hash, u.role, e.id::text
    FROM users u
    LEFT JOIN employees e ON e.user_id = u.id
    WHERE lower(u.email) = lower($1) AND u.status = 'active'
    LIMIT 1
  `, email).Scan(&out.ID, &out.Email, &out.PasswordHash, &out.Role, &employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, ErrUserNotFound
	}
	if employeeID != nil {
		out.EmployeeID = *employeeID
	}
	return out, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) Profile(ctx context.Context, userID string) (Profile, error) {
	var out Profile
	var employeeID, firstName, lastName, jobTitle *string
	err := s.DB.QueryRow(ctx, `
    SELECT u.id, u.email, u.role, u.last_login, e.id::text, e.first_name, e.last_name, e.job_title
    FROM users u
    LEFT JOIN employees e ON e.user_id = u.id
    WHERE u.id = $1
    LIMIT 1
  `, userID).Scan(&out.UserID, &out.Email, &out.Role, &out.LastLogin, &employeeID, &firstName, &lastName, &jobTitle)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrUserNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	out.EmployeeID = deref(employeeID)
	out.FirstName = deref(firstName)
	out.LastName = deref(lastName)
	out.JobTitle = deref(jobTitle)
	return out, nil
}

func (s *Store) RecordFailedLogin(ctx context.Context, email, ip string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO failed_logins (email, ip)
    VALUES ($1,$2)
  `, strings.ToLower(email), ip)
	return err
}

func (s *Store) CountFailedLogins(ctx context.Context, email string, since time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM failed_logins
    WHERE email = $1 AND attempted_at >= $2
  `, strings.ToLower(email), since).Scan(&count)
	return count, err
}

// RaiseBruteForceAlert links the alert to the employee owning the email when one exists.
func (s *Store) RaiseBruteForceAlert(ctx context.Context, email string, attempts int) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO security_alerts (employee_id, employee_name, alert_type, severity, message)
    SELECT e.id, COALESCE(e.first_name || ' ' || e.last_name, $1), 'BRUTE_FORCE', 'HIGH', $2
    FROM (SELECT 1) seed
    LEFT JOIN employees e ON lower(e.email) = lower($1)
    LIMIT 1
  `, email, fmt.Sprintf("%d failed login attempts for %s", attempts, email))
	return err
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
