package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hrdash/internal/platform/querier"
	"hrdash/internal/requestctx"
)

const (
	ActionPayrollBatchCreate = "payroll.batch.create"
	ActionPayrollBatchDelete = "payroll.batch.delete"
	ActionPayrollBatchPay    = "payroll.batch.pay"
	ActionPayrollPurgeAll    = "payroll.purge_all"
	ActionBankAccountUpsert  = "bank.account.upsert"
	ActionEmployeeDeactivate = "employee.deactivate"
	ActionImportDecision     = "import.decision"
	ActionLeaveDecide        = "leave.decide"
	ActionMissionDecide      = "mission.decide"
	ActionLoanCreate         = "loan.create"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

// Filter narrows event queries. To is exclusive.
type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorUser  string
	From       *time.Time
	To         *time.Time
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

// Record writes one event. Request id and client IP come from ctx.
// A nil service records nothing.
func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error {
	if s == nil || s.DB == nil {
		return nil
	}
	beforeJSON, err := snapshot(before)
	if err != nil {
		return fmt.Errorf("audit before: %w", err)
	}
	afterJSON, err := snapshot(after)
	if err != nil {
		return fmt.Errorf("audit after: %w", err)
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_user_id, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, actorID, action, entityType, entityID, beforeJSON, afterJSON, requestctx.GetRequestID(ctx), requestctx.GetClientIP(ctx))
	return err
}

// snapshot leaves absent states as SQL NULL.
func snapshot(state any) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := filterQuery("SELECT COUNT(1)", filter)
	var total int
	err := s.DB.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

// List returns newest events first. The before and after payloads are only
// loaded when includeDetails is set.
func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	cols := "id, actor_user_id, action, entity_type, entity_id, request_id, ip, created_at"
	if includeDetails {
		cols += ", before_json, after_json"
	}
	query, args := filterQuery("SELECT "+cols, filter)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0, limit)
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

type conditions struct {
	clauses []string
	args    []any
}

// add appends a clause whose single %d verb becomes the next placeholder.
func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func filterQuery(prefix string, f Filter) (string, []any) {
	var c conditions
	for _, eq := range []struct{ col, value string }{
		{"action", f.Action},
		{"entity_type", f.EntityType},
		{"entity_id", f.EntityID},
		{"actor_user_id", f.ActorUser},
	} {
		if v := strings.TrimSpace(eq.value); v != "" {
			c.add(eq.col+" = $%d", v)
		}
	}
	if f.From != nil {
		c.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		c.add("created_at < $%d", *f.To)
	}

	query := prefix + " FROM audit_events"
	if len(c.clauses) > 0 {
		query += " WHERE " + strings.Join(c.clauses, " AND ")
	}
	return query, c.args
}
