package importer

import (
	"context"
	"errors"
	"sync"
	"time"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusAwaiting  Status = "awaiting_decision"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrSessionNotFound  = errors.New("import session not found")
	ErrDecisionNotFound = errors.New("no pending decision with that id")
)

// Progress is the externally visible state of a session.
type Progress struct {
	ID         string        `json:"id"`
	Filename   string        `json:"filename"`
	Status     Status        `json:"status"`
	Total      int           `json:"total"`
	Processed  int           `json:"processed"`
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Errors     []RowError    `json:"errors"`
	Pending    []*Checkpoint `json:"pendingDecisions"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
	Error      string        `json:"error,omitempty"`
}

type Session struct {
	mu       sync.Mutex
	progress Progress
	pending  map[string]*Checkpoint
	cancel   context.CancelFunc
	done     chan struct{}
}

func newSession(id, filename string, total int, started time.Time) *Session {
	return &Session{
		progress: Progress{ID: id, Filename: filename, Status: StatusRunning, Total: total, StartedAt: started},
		pending:  map[string]*Checkpoint{},
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.progress.ID
}

// Done is closed once the import job returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress
	p.Errors = append([]RowError(nil), s.progress.Errors...)
	p.Pending = make([]*Checkpoint, 0, len(s.pending))
	for _, cp := range s.pending {
		p.Pending = append(p.Pending, cp)
	}
	return p
}

func (s *Session) update(fn func(p *Progress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.progress)
}

func (s *Session) addPending(cp *Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[cp.ID] = cp
	s.progress.Status = StatusAwaiting
}

func (s *Session) clearPending(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	if len(s.pending) == 0 && s.progress.Status == StatusAwaiting {
		s.progress.Status = StatusRunning
	}
}

func (s *Session) checkpoint(id string) (*Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.pending[id]
	return cp, ok
}

func (s *Session) finish(status Status, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Status = status
	s.progress.FinishedAt = &at
	if err != nil {
		s.progress.Error = err.Error()
	}
	s.pending = map[string]*Checkpoint{}
}

// Registry holds import sessions in memory for the life of the process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func (r *Registry) put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
