package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Service struct {
	Store      StoreAPI
	Builder    *Builder
	Reconciler *Reconciler
	Notifier   Notifier
}

func NewService(store StoreAPI, builder *Builder, reconciler *Reconciler, notifier Notifier) *Service {
	return &Service{Store: store, Builder: builder, Reconciler: reconciler, Notifier: notifier}
}

func (s *Service) CreateBatch(ctx context.Context, name string) (BuildResult, error) {
	return s.Builder.CreateBatch(ctx, name)
}

func (s *Service) ListBatches(ctx context.Context, limit, offset int) ([]Batch, error) {
	return s.Store.ListBatches(ctx, limit, offset)
}

func (s *Service) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	return s.Store.GetBatch(ctx, batchID)
}

func (s *Service) ListRecords(ctx context.Context, batchID string) ([]Record, error) {
	if _, err := s.Store.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	return s.Store.ListRecords(ctx, batchID)
}

func (s *Service) DeleteBatch(ctx context.Context, batchID string) error {
	return s.Store.DeleteBatch(ctx, batchID)
}

// Recompute runs the database deduction procedure and returns the batch as
// it stands afterwards.
func (s *Service) Recompute(ctx context.Context, batchID string) (Batch, error) {
	if _, err := s.Store.GetBatch(ctx, batchID); err != nil {
		return Batch{}, err
	}
	if err := s.Store.Recalculate(ctx, batchID); err != nil {
		return Batch{}, err
	}
	return s.Store.GetBatch(ctx, batchID)
}

// Notify moves the batch to PROCESSING and sends one notification per
// employee user linked to the batch. Individual send failures are counted,
// not returned.
func (s *Service) Notify(ctx context.Context, batchID string) (int, error) {
	batch, err := s.Store.GetBatch(ctx, batchID)
	if err != nil {
		return 0, err
	}
	if batch.Status == BatchStatusPaid {
		return 0, ErrBatchAlreadyPaid
	}
	if err := s.Store.SetBatchStatus(ctx, batchID, BatchStatusProcessing); err != nil {
		return 0, err
	}
	userIDs, err := s.Store.BatchUserIDs(ctx, batchID)
	if err != nil {
		return 0, err
	}
	if s.Notifier == nil {
		return 0, nil
	}
	title := "Payroll processing"
	body := fmt.Sprintf("Payroll batch %q is being processed.", batch.Name)
	sent := 0
	for _, userID := range userIDs {
		if err := s.Notifier.Notify(ctx, userID, NotificationTypePayroll, title, body); err != nil {
			slog.Warn("payroll notification failed", "batchId", batchID, "userId", userID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// Pay marks every line and then the batch as PAID.
func (s *Service) Pay(ctx context.Context, batchID string) (Batch, int64, error) {
	batch, err := s.Store.GetBatch(ctx, batchID)
	if err != nil {
		return Batch{}, 0, err
	}
	if batch.Status == BatchStatusPaid {
		return batch, 0, ErrBatchAlreadyPaid
	}
	updated, err := s.Store.MarkBatchPaid(ctx, batchID)
	if err != nil {
		return Batch{}, updated, err
	}
	batch.Status = BatchStatusPaid
	return batch, updated, nil
}

func (s *Service) ListTransfers(ctx context.Context, activeIDs map[string]bool) ([]Transfer, error) {
	return s.Reconciler.ListTransfers(ctx, activeIDs)
}

// PurgeAll deletes every payroll record and then every batch. The two
// deletes are separate statements; if the second fails the first stays
// applied and the partial counts are returned with the error.
func (s *Service) PurgeAll(ctx context.Context, confirm, confirmAgain bool) (PurgeResult, error) {
	if !confirm || !confirmAgain {
		return PurgeResult{}, ErrConfirmationRequired
	}
	var res PurgeResult
	records, err := s.Store.DeleteAllRecords(ctx)
	if err != nil {
		return res, fmt.Errorf("delete payroll records: %w", err)
	}
	res.RecordsDeleted = records
	batches, err := s.Store.DeleteAllBatches(ctx)
	if err != nil {
		return res, fmt.Errorf("delete payroll batches after %d records removed: %w", records, err)
	}
	res.BatchesDeleted = batches
	return res, nil
}

// IsNotFound reports whether err means the batch does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBatchNotFound)
}
