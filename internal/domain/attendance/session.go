package attendance

import "sync"

// Session holds one employee's local punch history for the process lifetime.
type Session struct {
	EmployeeID string

	mu      sync.Mutex
	records []Record
}

func (s *Session) nextType() LogType {
	if len(s.records)%2 == 0 {
		return LogCheckIn
	}
	return LogCheckOut
}

func (s *Session) setSynced(referenceID string, synced bool, flag string) {
	for i := range s.records {
		if s.records[i].ReferenceID == referenceID {
			s.records[i].Synced = synced
			s.records[i].Flag = flag
			return
		}
	}
}

// Records returns a copy of the session history, oldest first.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: map[string]*Session{}}
}

func (r *SessionRegistry) Get(employeeID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[employeeID]
	if !ok {
		sess = &Session{EmployeeID: employeeID}
		r.sessions[employeeID] = sess
	}
	return sess
}
