package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/preiskampf/preiskampf/internal/logging"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			logging.AddToEvent(r.Context(), slog.Bool("panic", true))
			logging.Get().ErrorContext(r.Context(), "panic recovered",
				slog.Any("error", err),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			// htmx mantém a tela atual em vez de trocar pelo texto do erro
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Reswap", "none")
			}
			http.Error(w, "Interner Serverfehler", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
