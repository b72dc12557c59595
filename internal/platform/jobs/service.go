package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"hrdash/internal/platform/querier"
)

const (
	JobSnapshotRefresh = "snapshot_refresh"
	JobIntegritySweep  = "integrity_sweep"
	JobEmployeeImport  = "employee_import"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type RunFunc func(context.Context) (any, error)

// Service runs queued jobs on a single worker and fires interval schedules.
// Every run is recorded in job_runs when a database is attached.
type Service struct {
	DB        querier.Querier
	queue     chan job
	mu        sync.Mutex
	schedules []schedule
	started   bool
}

type job struct {
	Type string
	Run  RunFunc
}

type schedule struct {
	Type     string
	Interval time.Duration
	Run      RunFunc
}

func New(db querier.Querier) *Service {
	return &Service{
		DB:    db,
		queue: make(chan job, 128),
	}
}

// Every registers a recurring job. Non-positive intervals disable it.
// Must be called before Start.
func (s *Service) Every(jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, schedule{Type: jobType, Interval: interval, Run: run})
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	schedules := append([]schedule(nil), s.schedules...)
	s.mu.Unlock()

	go s.worker(ctx)
	for _, sc := range schedules {
		go s.tick(ctx, sc)
	}
}

// Enqueue hands a job to the worker. It reports false when the queue is full.
func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

// Spawn runs a job on its own goroutine. Jobs that can block for a long
// time, such as imports waiting on an operator, use it so the shared worker
// keeps draining scheduled work. done, when non-nil, is closed afterwards.
func (s *Service) Spawn(ctx context.Context, jobType string, run RunFunc, done chan<- struct{}) {
	go func() {
		if done != nil {
			defer close(done)
		}
		if _, err := s.runJob(ctx, job{Type: jobType, Run: run}); err != nil {
			slog.Warn("job run failed", "jobType", jobType, "err", err)
		}
	}()
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) tick(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.Type, sc.Run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := s.startRun(ctx, j.Type)

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		if details == nil {
			details = map[string]any{"error": err.Error()}
		}
	}
	// A job may cancel its own context on the way out; the run row is
	// still closed.
	s.finishRun(context.WithoutCancel(ctx), runID, status, details)
	return details, err
}

func (s *Service) startRun(ctx context.Context, jobType string) string {
	if s.DB == nil {
		return ""
	}
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, jobType, StatusRunning).Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "jobType", jobType, "err", err)
	}
	return runID
}

func (s *Service) finishRun(ctx context.Context, runID, status string, details any) {
	if s.DB == nil || runID == "" {
		return
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		slog.Warn("job details marshal failed", "err", err)
		detailsJSON = []byte("{}")
	}
	if _, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, runID); err != nil {
		slog.Warn("job run update failed", "err", err)
	}
}
