package announcements

import (
	"context"
	"time"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, a Announcement) (Announcement, error) {
	var createdBy any
	if a.CreatedBy != "" {
		createdBy = a.CreatedBy
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (title, body, priority, is_active, expires_at, created_by)
    VALUES ($1, $2, $3, true, $4, $5)
    RETURNING id, is_active, created_at
  `, a.Title, a.Body, a.Priority, a.ExpiresAt, createdBy).Scan(&a.ID, &a.IsActive, &a.CreatedAt)
	return a, err
}

func (s *Store) ListActive(ctx context.Context, now time.Time) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, body, priority, is_active, expires_at, COALESCE(created_by::text, ''), created_at
    FROM announcements
    WHERE is_active AND (expires_at IS NULL OR expires_at > $1)
    ORDER BY created_at DESC
  `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Priority, &a.IsActive, &a.ExpiresAt, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Deactivate(ctx context.Context, id string) error {
	cmd, err := s.DB.Exec(ctx, `UPDATE announcements SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}
