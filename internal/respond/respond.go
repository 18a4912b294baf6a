// Package respond writes the JSON envelope shared by handlers and middleware.
package respond

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"catalog-api/internal/model"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func JSON(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, model.APIResponse{Success: true, Data: data})
}

func SuccessMessage(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, model.APIResponse{Success: true, Message: message, Data: data})
}

// Error classifies err, logs the original error and writes only the safe message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	c := Classify(err)

	attrs := []any{
		"request_id", RequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status", c.Status,
		"class", c.Class,
		"error", err,
	}
	if c.Status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Warn("request rejected", attrs...)
	}

	JSON(w, c.Status, model.APIResponse{Success: false, Message: c.Message})
}

// Fail writes a failure envelope with a caller-chosen status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, model.APIResponse{Success: false, Message: message})
}
