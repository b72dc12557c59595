package importer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/core"
	"hrdash/internal/platform/jobs"
)

type memDirectory struct {
	mu          sync.Mutex
	byEmail     map[string]core.Employee
	created     []core.Employee
	updated     map[string]core.Employee
	departments []core.Department
	newDepts    []string
}

func newMemDirectory() *memDirectory {
	return &memDirectory{byEmail: map[string]core.Employee{}, updated: map[string]core.Employee{}}
}

func (m *memDirectory) GetEmployeeByEmail(_ context.Context, email string) (*core.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	emp, ok := m.byEmail[email]
	if !ok {
		return nil, core.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (m *memDirectory) CreateEmployee(_ context.Context, emp core.Employee) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, emp)
	return "new", nil
}

func (m *memDirectory) UpdateEmployee(_ context.Context, id string, emp core.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated[id] = emp
	return nil
}

func (m *memDirectory) ListDepartments(context.Context) ([]core.Department, error) {
	return m.departments, nil
}

func (m *memDirectory) CreateDepartment(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newDepts = append(m.newDepts, name)
	return "dept-new", nil
}

func (m *memDirectory) ListBranches(context.Context) ([]core.Branch, error) {
	return []core.Branch{{ID: "br1", Name: "Cairo HQ"}}, nil
}

func (m *memDirectory) ListShifts(context.Context) ([]core.Shift, error) { return nil, nil }

func newTestService(dir Directory) *Service {
	svc := NewService(dir, jobs.New(nil), context.Background())
	n := 0
	var mu sync.Mutex
	svc.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "id" + string(rune('0'+n))
	}
	return svc
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("import did not finish")
	}
}

const sampleCSV = "email,first name,last name,department,branch,salary\n" +
	"new@example.com,Nour,Ali,Sales,cairo  hq,1000\n" +
	"dup@example.com,Mona,Updated,,,2500\n" +
	"bad,Bad,Row,,,\n" +
	"lost@example.com,Lost,Branch,,Alex,\n"

func TestImportCreatesAndOverwritesOnDecision(t *testing.T) {
	dir := newMemDirectory()
	dir.byEmail["dup@example.com"] = core.Employee{ID: "e9", FirstName: "Mona", LastName: "Old", Email: "dup@example.com", Phone: "0100", BasicSalary: 2000, Status: "Active"}
	svc := newTestService(dir)

	session, err := svc.Start("staff.csv", []byte(sampleCSV))
	require.NoError(t, err)

	var pending *Checkpoint
	require.Eventually(t, func() bool {
		p := session.Progress()
		if len(p.Pending) == 1 {
			pending = p.Pending[0]
			return p.Status == StatusAwaiting
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "dup@example.com", pending.Email)
	assert.Equal(t, "Mona Old", pending.Existing)

	assert.ErrorIs(t, svc.Decide(session.ID(), "nope", DecisionKeep), ErrDecisionNotFound)
	require.NoError(t, svc.Decide(session.ID(), pending.ID, DecisionOverwrite))
	waitDone(t, session)

	p, err := svc.Progress(session.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 4, p.Processed)
	assert.Equal(t, 1, p.Created)
	assert.Equal(t, 1, p.Updated)
	assert.Equal(t, 2, p.Failed)
	assert.Empty(t, p.Pending)

	require.Len(t, dir.created, 1)
	assert.Equal(t, "dept-new", dir.created[0].DepartmentID)
	assert.Equal(t, "br1", dir.created[0].BranchID)
	assert.Equal(t, []string{"Sales"}, dir.newDepts)

	merged := dir.updated["e9"]
	assert.Equal(t, "Updated", merged.LastName)
	assert.Equal(t, "0100", merged.Phone)
	assert.Equal(t, 2500.0, merged.BasicSalary)
	assert.Equal(t, "Active", merged.Status)
}

func TestImportKeepSkipsRow(t *testing.T) {
	dir := newMemDirectory()
	dir.byEmail["dup@example.com"] = core.Employee{ID: "e9", Email: "dup@example.com"}
	svc := newTestService(dir)

	session, err := svc.Start("staff.csv", []byte("email,name\ndup@example.com,Mona\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(session.Progress().Pending) == 1 }, 2*time.Second, 5*time.Millisecond)
	cp := session.Progress().Pending[0]
	require.NoError(t, svc.Decide(session.ID(), cp.ID, DecisionKeep))
	waitDone(t, session)

	p := session.Progress()
	assert.Equal(t, 1, p.Skipped)
	assert.Empty(t, dir.updated)
}

func TestImportCancelWhileAwaiting(t *testing.T) {
	dir := newMemDirectory()
	dir.byEmail["dup@example.com"] = core.Employee{ID: "e9", Email: "dup@example.com"}
	svc := newTestService(dir)

	session, err := svc.Start("staff.csv", []byte("email,name\ndup@example.com,Mona\nnext@example.com,Next\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(session.Progress().Pending) == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, svc.Cancel(session.ID()))
	waitDone(t, session)

	p := session.Progress()
	assert.Equal(t, StatusCancelled, p.Status)
	assert.Empty(t, dir.created)
	assert.NotNil(t, p.FinishedAt)
}

func TestStartRejectsBadHeader(t *testing.T) {
	svc := newTestService(newMemDirectory())
	_, err := svc.Start("staff.csv", []byte("phone\n0100\n"))
	assert.Error(t, err)

	_, err = svc.Progress("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
