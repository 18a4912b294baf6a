package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"catalog-api/internal/respond"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				slog.Error("panic recovered",
					"request_id", respond.RequestID(r.Context()),
					"error", fmt.Sprintf("%v", recovered),
					"stack", string(debug.Stack()),
				)
				respond.Fail(w, http.StatusInternalServerError, respond.MsgGeneric)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
