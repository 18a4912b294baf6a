package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"catalog-api/internal/model"
)

const (
	defaultRequestTimeout = 30 * time.Second
	msgRequestTimedOut    = "Request timed out. Please try again."
)

// Timeout bounds API handlers with http.TimeoutHandler, which answers 503 with the failure envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, err := json.Marshal(model.APIResponse{Success: false, Message: msgRequestTimedOut})
	if err != nil {
		body = []byte(`{"success":false}`)
	}

	return func(next http.Handler) http.Handler {
		timed := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			timed.ServeHTTP(w, r)
		})
	}
}
