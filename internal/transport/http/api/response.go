package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	FailWithDetails(w, status, code, message, nil, requestID)
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FailRemote reports a storage failure. Postgres errors keep their SQLSTATE,
// detail and hint and map to 502. A timed out call maps to 504 and anything
// else to 500.
func FailRemote(w http.ResponseWriter, code string, err error, requestID string) {
	slog.Error("remote call failed", "code", code, "requestId", requestID, "err", err)

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		FailWithDetails(w, http.StatusBadGateway, code, pgErr.Message, map[string]string{
			"sqlState": pgErr.Code,
			"detail":   pgErr.Detail,
			"hint":     pgErr.Hint,
		}, requestID)
	case errors.Is(err, context.DeadlineExceeded):
		Fail(w, http.StatusGatewayTimeout, code, "upstream timed out", requestID)
	default:
		Fail(w, http.StatusInternalServerError, code, err.Error(), requestID)
	}
}
