package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrdash/internal/domain/auth"
	"hrdash/internal/platform/config"
)

// Seed creates the bootstrap admin account and the default shift.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureDefaultShift(ctx, pool); err != nil {
		return err
	}
	return ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureDefaultShift(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO shifts (name, start_time, end_time)
    VALUES ($1,$2,$3)
    ON CONFLICT (name) DO NOTHING
  `, "Default", "09:00", "17:00")
	return err
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if err := pool.QueryRow(ctx, "INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3) RETURNING id", email, hash, auth.RoleAdmin).Scan(&id); err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO employees (user_id, first_name, last_name, email, status)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (email) DO UPDATE SET user_id = EXCLUDED.user_id
  `, id, "System", "Admin", email, "Active")
	return err
}
