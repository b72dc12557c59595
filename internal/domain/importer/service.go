package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrdash/internal/domain/core"
	"hrdash/internal/platform/jobs"
)

// Directory is satisfied by core.Service.
type Directory interface {
	GetEmployeeByEmail(ctx context.Context, email string) (*core.Employee, error)
	CreateEmployee(ctx context.Context, emp core.Employee) (string, error)
	UpdateEmployee(ctx context.Context, employeeID string, emp core.Employee) error
	ListDepartments(ctx context.Context) ([]core.Department, error)
	CreateDepartment(ctx context.Context, name string) (string, error)
	ListBranches(ctx context.Context) ([]core.Branch, error)
	ListShifts(ctx context.Context) ([]core.Shift, error)
}

// Runner is satisfied by jobs.Service.
type Runner interface {
	Spawn(ctx context.Context, jobType string, run jobs.RunFunc, done chan<- struct{})
}

type Service struct {
	Directory Directory
	Runner    Runner
	Sessions  *Registry
	// Base outlives individual requests; import jobs derive their context from it.
	Base  context.Context
	Now   func() time.Time
	NewID func() string
}

func NewService(dir Directory, runner Runner, base context.Context) *Service {
	if base == nil {
		base = context.Background()
	}
	return &Service{
		Directory: dir,
		Runner:    runner,
		Sessions:  NewRegistry(),
		Base:      base,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Start parses the upload synchronously so header problems surface to the
// caller, then processes the rows in a background job.
func (s *Service) Start(filename string, data []byte) (*Session, error) {
	rows, err := ReadRows(data, filename)
	if err != nil {
		return nil, err
	}
	cols, err := MapHeaders(rows[0])
	if err != nil {
		return nil, err
	}
	parsed, rowErrs := ParseRows(cols, rows[1:])

	session := newSession(s.NewID(), filename, len(rows)-1, s.Now())
	session.update(func(p *Progress) {
		p.Errors = rowErrs
		p.Failed = len(rowErrs)
		p.Processed = len(rowErrs)
	})
	ctx, cancel := context.WithCancel(s.Base)
	session.cancel = cancel
	s.Sessions.put(session)

	s.Runner.Spawn(ctx, jobs.JobEmployeeImport, func(ctx context.Context) (any, error) {
		defer cancel()
		err := s.run(ctx, session, parsed)
		status := StatusCompleted
		switch {
		case errors.Is(err, context.Canceled):
			status = StatusCancelled
		case err != nil:
			status = StatusFailed
		}
		session.finish(status, err, s.Now())
		p := session.Progress()
		return map[string]any{
			"sessionId": p.ID, "status": p.Status, "created": p.Created,
			"updated": p.Updated, "skipped": p.Skipped, "failed": p.Failed,
		}, err
	}, session.done)
	return session, nil
}

func (s *Service) Progress(id string) (Progress, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return Progress{}, err
	}
	return session.Progress(), nil
}

// Decide answers a pending duplicate-email question.
func (s *Service) Decide(sessionID, decisionID string, d Decision) error {
	session, err := s.Sessions.Get(sessionID)
	if err != nil {
		return err
	}
	cp, ok := session.checkpoint(decisionID)
	if !ok {
		return ErrDecisionNotFound
	}
	return cp.Resolve(d)
}

// Cancel stops the job; a pending question is abandoned.
func (s *Service) Cancel(sessionID string) error {
	session, err := s.Sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if session.cancel != nil {
		session.cancel()
	}
	return nil
}

type lookups struct {
	departments map[string]string
	branches    map[string]string
	shifts      map[string]string
}

func (s *Service) loadLookups(ctx context.Context) (lookups, error) {
	l := lookups{departments: map[string]string{}, branches: map[string]string{}, shifts: map[string]string{}}
	departments, err := s.Directory.ListDepartments(ctx)
	if err != nil {
		return l, err
	}
	for _, d := range departments {
		l.departments[NormalizeHeader(d.Name)] = d.ID
	}
	branches, err := s.Directory.ListBranches(ctx)
	if err != nil {
		return l, err
	}
	for _, b := range branches {
		l.branches[NormalizeHeader(b.Name)] = b.ID
	}
	shifts, err := s.Directory.ListShifts(ctx)
	if err != nil {
		return l, err
	}
	for _, sh := range shifts {
		l.shifts[NormalizeHeader(sh.Name)] = sh.ID
	}
	return l, nil
}

func (s *Service) run(ctx context.Context, session *Session, rows []Row) error {
	refs, err := s.loadLookups(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, err := s.importRow(ctx, session, refs, row)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		session.update(func(p *Progress) {
			p.Processed++
			switch {
			case err != nil:
				p.Failed++
				p.Errors = append(p.Errors, RowError{Line: row.Line, Email: row.Employee.Email, Message: err.Error()})
			case outcome == outcomeCreated:
				p.Created++
			case outcome == outcomeUpdated:
				p.Updated++
			default:
				p.Skipped++
			}
		})
	}
	return nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeCreated
	outcomeUpdated
)

func (s *Service) importRow(ctx context.Context, session *Session, refs lookups, row Row) (outcome, error) {
	emp := row.Employee
	if err := s.resolveRefs(ctx, refs, row, &emp); err != nil {
		return outcomeSkipped, err
	}

	existing, err := s.Directory.GetEmployeeByEmail(ctx, emp.Email)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		if _, err := s.Directory.CreateEmployee(ctx, emp); err != nil {
			return outcomeSkipped, err
		}
		return outcomeCreated, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}

	cp := NewCheckpoint(s.NewID(), row.Line, emp.Email, existing.FullName(), emp.FullName())
	session.addPending(cp)
	decision, err := cp.Await(ctx)
	session.clearPending(cp.ID)
	if err != nil {
		return outcomeSkipped, err
	}
	slog.Info("import duplicate decided", "sessionId", session.ID(), "line", row.Line, "decision", decision)
	if decision == DecisionKeep {
		return outcomeSkipped, nil
	}
	if err := s.Directory.UpdateEmployee(ctx, existing.ID, mergeEmployee(*existing, emp)); err != nil {
		return outcomeSkipped, err
	}
	return outcomeUpdated, nil
}

// resolveRefs maps department, branch and shift names to ids. Unknown
// departments are created; unknown branches and shifts fail the row.
func (s *Service) resolveRefs(ctx context.Context, refs lookups, row Row, emp *core.Employee) error {
	if name := strings.TrimSpace(row.Department); name != "" {
		key := NormalizeHeader(name)
		id, ok := refs.departments[key]
		if !ok {
			created, err := s.Directory.CreateDepartment(ctx, name)
			if err != nil {
				return fmt.Errorf("department %q: %w", name, err)
			}
			refs.departments[key] = created
			id = created
		}
		emp.DepartmentID = id
	}
	if name := strings.TrimSpace(row.Branch); name != "" {
		id, ok := refs.branches[NormalizeHeader(name)]
		if !ok {
			return fmt.Errorf("unknown branch %q", name)
		}
		emp.BranchID = id
	}
	if name := strings.TrimSpace(row.Shift); name != "" {
		id, ok := refs.shifts[NormalizeHeader(name)]
		if !ok {
			return fmt.Errorf("unknown shift %q", name)
		}
		emp.ShiftID = id
	}
	return nil
}

// mergeEmployee overlays the non-empty imported fields on the stored row.
func mergeEmployee(existing, incoming core.Employee) core.Employee {
	out := existing
	if incoming.FirstName != "" {
		out.FirstName = incoming.FirstName
	}
	if incoming.LastName != "" {
		out.LastName = incoming.LastName
	}
	if incoming.Phone != "" {
		out.Phone = incoming.Phone
	}
	if incoming.JobTitle != "" {
		out.JobTitle = incoming.JobTitle
	}
	if incoming.DepartmentID != "" {
		out.DepartmentID = incoming.DepartmentID
	}
	if incoming.BranchID != "" {
		out.BranchID = incoming.BranchID
	}
	if incoming.ShiftID != "" {
		out.ShiftID = incoming.ShiftID
	}
	if incoming.BasicSalary != 0 {
		out.BasicSalary = incoming.BasicSalary
	}
	if incoming.HireDate != nil {
		out.HireDate = incoming.HireDate
	}
	return out
}
