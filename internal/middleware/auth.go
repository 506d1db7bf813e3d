package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/authz"
	"github.com/preiskampf/preiskampf/internal/contextkeys"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/routes"
)

// Authenticate lê o cookie de sessão e aplica a política de rotas.
// Visitantes anônimos fora das rotas públicas voltam para a home; usuários
// logados não veem login e cadastro de novo.
func Authenticate(keys *auth.Keys, enforcer *authz.Enforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := keys.FromRequest(r)

			role := authz.RoleAnonymous
			if ok {
				role = authz.RoleUser
				if r.URL.Path == routes.Login || r.URL.Path == routes.Register {
					redirect(w, r, routes.Home)
					return
				}
			}

			if !enforcer.Allowed(role, r.URL.Path, r.Method) {
				logging.AddToEvent(r.Context(), slog.String("auth", "denied"))
				redirect(w, r, routes.Home)
				return
			}

			if ok {
				logging.AddToEvent(r.Context(), slog.Int64("user_id", user.ID))
				r = r.WithContext(context.WithValue(r.Context(), contextkeys.UserContextKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GetUser recupera o usuário do contexto de forma segura
func GetUser(ctx context.Context) (auth.SessionUser, bool) {
	user, ok := ctx.Value(contextkeys.UserContextKey).(auth.SessionUser)
	return user, ok
}
