package integrity

import (
	"context"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Recalculate overwrites every employee's score from the current alert set.
// Alerts carrying an employee id are attributed by id; alerts without one
// fall back to a case-insensitive display name match. Running it twice
// without new alerts yields the same rows.
func (s *Service) Recalculate(ctx context.Context) (Result, error) {
	subjects, err := s.Store.Subjects(ctx)
	if err != nil {
		return Result{}, err
	}
	refs, err := s.Store.AlertRefs(ctx)
	if err != nil {
		return Result{}, err
	}
	counts := CountViolations(subjects, refs)

	res := Result{Entries: make([]Entry, 0, len(subjects))}
	for _, sub := range subjects {
		v := counts[sub.ID]
		score := Score(v)
		entry := Entry{
			EmployeeID:     sub.ID,
			EmployeeName:   sub.Name,
			Score:          score,
			ViolationCount: v,
			Tier:           Tier(score),
		}
		if err := s.Store.Upsert(ctx, entry); err != nil {
			return res, err
		}
		res.Updated++
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.Store.List(ctx)
}

// CountViolations maps employee id to the number of alerts attributed to it.
// A legacy name shared by several employees counts against each of them.
func CountViolations(subjects []Subject, refs []AlertRef) map[string]int {
	byName := map[string][]string{}
	known := map[string]bool{}
	for _, sub := range subjects {
		known[sub.ID] = true
		key := nameKey(sub.Name)
		if key != "" {
			byName[key] = append(byName[key], sub.ID)
		}
	}
	counts := map[string]int{}
	for _, ref := range refs {
		if ref.EmployeeID != "" {
			if known[ref.EmployeeID] {
				counts[ref.EmployeeID]++
			}
			continue
		}
		for _, id := range byName[nameKey(ref.EmployeeName)] {
			counts[id]++
		}
	}
	return counts
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
