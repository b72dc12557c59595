package notifications

import (
	"context"
	"log/slog"
	"strings"

	"hrdash/internal/platform/email"
)

type Service struct {
	store  StoreAPI
	Mailer email.Mailer
}

func New(store StoreAPI, mailer email.Mailer) *Service {
	return &Service{store: store, Mailer: mailer}
}

// Notify stores the notification and, when a mailer is set, mails it to the
// user. Mail failures are logged and never fail the call.
func (s *Service) Notify(ctx context.Context, userID, ntype, title, body string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	if ntype == "" {
		ntype = TypeGeneral
	}
	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	address, err := s.store.UserEmail(ctx, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "userId", userID, "err", err)
		return nil
	}
	if address == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, address, title, body); err != nil {
		slog.Warn("notification email send failed", "userId", userID, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
