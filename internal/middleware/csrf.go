package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/justinas/nosurf"
	"github.com/preiskampf/preiskampf/internal/contextkeys"
	"github.com/preiskampf/preiskampf/internal/logging"
)

func InjectCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := nosurf.Token(r)
		ctx := context.WithValue(r.Context(), contextkeys.CSRFTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CSRF envolve h com nosurf. O cookie segue o mesmo Secure do cookie de sessão
// e o token também é aceito no header X-CSRF-Token, que o htmx envia.
func CSRF(h http.Handler, secure bool) http.Handler {
	handler := nosurf.New(InjectCSRF(h))
	handler.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	handler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := nosurf.Reason(r); reason != nil {
			logging.AddToEvent(r.Context(), slog.String("csrf", reason.Error()))
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	if !secure {
		handler.SetIsTLSFunc(func(*http.Request) bool { return false })
	}
	return handler
}
