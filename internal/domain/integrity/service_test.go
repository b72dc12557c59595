package integrity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	subjects []Subject
	refs     []AlertRef
	rows     map[string]Entry
	upserts  int
}

func (m *memStore) Subjects(context.Context) ([]Subject, error) { return m.subjects, nil }

func (m *memStore) AlertRefs(context.Context) ([]AlertRef, error) { return m.refs, nil }

func (m *memStore) Upsert(_ context.Context, e Entry) error {
	m.upserts++
	m.rows[e.EmployeeID] = e
	return nil
}

func (m *memStore) List(context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e)
	}
	return out, nil
}

func TestRecalculateAttributesByIDAndLegacyName(t *testing.T) {
	store := &memStore{
		subjects: []Subject{{ID: "e1", Name: "Mona Adel"}, {ID: "e2", Name: "Omar Samy"}, {ID: "e3", Name: "Clean"}},
		refs: []AlertRef{
			{EmployeeID: "e1", EmployeeName: "whatever"},
			{EmployeeID: "e1"},
			{EmployeeName: "  mona   ADEL "},
			{EmployeeName: "Omar Samy"},
			{EmployeeID: "ghost"},
			{EmployeeName: "Nobody"},
		},
		rows: map[string]Entry{},
	}
	svc := NewService(store)

	res, err := svc.Recalculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)

	assert.Equal(t, Entry{EmployeeID: "e1", EmployeeName: "Mona Adel", Score: 70, ViolationCount: 3, Tier: TierGood}, store.rows["e1"])
	assert.Equal(t, 90, store.rows["e2"].Score)
	assert.Equal(t, TierExcellent, store.rows["e2"].Tier)
	assert.Equal(t, 100, store.rows["e3"].Score)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	store := &memStore{
		subjects: []Subject{{ID: "e1", Name: "A"}},
		refs:     []AlertRef{{EmployeeID: "e1"}, {EmployeeID: "e1"}, {EmployeeID: "e1"}, {EmployeeID: "e1"}},
		rows:     map[string]Entry{},
	}
	svc := NewService(store)
	_, err := svc.Recalculate(context.Background())
	require.NoError(t, err)
	first := store.rows["e1"]

	_, err = svc.Recalculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, store.rows["e1"])
	assert.Len(t, store.rows, 1)
	assert.Equal(t, TierRisk, first.Tier)
	assert.Equal(t, 60, first.Score)
}
