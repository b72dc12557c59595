package importer

import (
	"context"
	"errors"
	"sync"
)

type Decision string

const (
	DecisionKeep      Decision = "keep"
	DecisionOverwrite Decision = "overwrite"
)

func (d Decision) Valid() bool {
	return d == DecisionKeep || d == DecisionOverwrite
}

var (
	ErrAlreadyResolved = errors.New("decision already recorded")
	ErrInvalidDecision = errors.New("decision must be keep or overwrite")
)

// Checkpoint is a one-shot question put to an operator. The import job
// blocks in Await until Resolve delivers an answer or its context ends.
type Checkpoint struct {
	ID       string `json:"id"`
	Line     int    `json:"line"`
	Email    string `json:"email"`
	Existing string `json:"existingEmployee"`
	Incoming string `json:"incomingEmployee"`

	once sync.Once
	ch   chan Decision
}

func NewCheckpoint(id string, line int, email, existing, incoming string) *Checkpoint {
	return &Checkpoint{ID: id, Line: line, Email: email, Existing: existing, Incoming: incoming, ch: make(chan Decision, 1)}
}

// Resolve records the answer. Only the first valid call wins.
func (c *Checkpoint) Resolve(d Decision) error {
	if !d.Valid() {
		return ErrInvalidDecision
	}
	delivered := false
	c.once.Do(func() {
		c.ch <- d
		delivered = true
	})
	if !delivered {
		return ErrAlreadyResolved
	}
	return nil
}

func (c *Checkpoint) Await(ctx context.Context) (Decision, error) {
	select {
	case d := <-c.ch:
		return d, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
