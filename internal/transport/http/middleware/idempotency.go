package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"hrdash/internal/platform/querier"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	// DefaultIdempotencyTTL bounds how long a stored response is replayed.
	DefaultIdempotencyTTL = 24 * time.Hour
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

// IdempotencyStore replays stored responses for repeated (user, key, endpoint)
// triples. A nil store or an empty key disables replay.
type IdempotencyStore struct {
	db  querier.Querier
	TTL time.Duration
	Now func() time.Time
}

func NewIdempotencyStore(db querier.Querier) *IdempotencyStore {
	return &IdempotencyStore{db: db, TTL: DefaultIdempotencyTTL, Now: time.Now}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) disabled(key string) bool {
	return s == nil || s.db == nil || strings.TrimSpace(key) == ""
}

func (s *IdempotencyStore) cutoff() time.Time {
	return s.Now().Add(-s.TTL)
}

// Check returns the stored response for a live key. A live key recorded
// with a different request body yields ErrIdempotencyConflict.
func (s *IdempotencyStore) Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error) {
	if s.disabled(key) {
		return nil, false, nil
	}
	var storedHash string
	var stored json.RawMessage
	err := s.db.QueryRow(ctx, `
    SELECT request_hash, response_json
    FROM idempotency_keys
    WHERE user_id = $1 AND key = $2 AND endpoint = $3 AND created_at > $4
  `, userID, key, endpoint, s.cutoff()).Scan(&storedHash, &stored)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	case storedHash != requestHash:
		return nil, false, ErrIdempotencyConflict
	}
	return stored, true, nil
}

// Save stores response under the key. An expired entry for the same key is
// replaced whatever its request hash was.
func (s *IdempotencyStore) Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error {
	if s.disabled(key) {
		return nil
	}
	tag, err := s.db.Exec(ctx, `
    INSERT INTO idempotency_keys (user_id, key, endpoint, request_hash, response_json)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (user_id, key, endpoint)
    DO UPDATE SET request_hash = EXCLUDED.request_hash, response_json = EXCLUDED.response_json, created_at = now()
    WHERE idempotency_keys.request_hash = EXCLUDED.request_hash OR idempotency_keys.created_at <= $6
  `, userID, key, endpoint, requestHash, response, s.cutoff())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}
