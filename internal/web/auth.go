package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/routes"
	"github.com/preiskampf/preiskampf/internal/services"
	"github.com/preiskampf/preiskampf/internal/view/pages"
)

const flashKey = "flash"

func emailDomain(email string) string {
	if idx := strings.LastIndex(email, "@"); idx > 0 {
		return email[idx+1:]
	}
	return ""
}

func handleLogin(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := r.FormValue("email")
	password := r.FormValue("password")

	logging.AddToEvent(r.Context(),
		slog.String("operation", "login"),
		slog.String("email_domain", emailDomain(email)),
	)

	out := deps.Auth.Login(r.Context(), services.LoginInput{Email: email, Password: password})
	if !out.Success {
		logging.AddToEvent(r.Context(),
			slog.String("outcome", "error"),
			slog.String("error_reason", out.Error),
		)
		templ.Handler(pages.Login(pages.AuthForm{Email: email, Error: out.Error})).ServeHTTP(w, r)
		return nil
	}

	if err := deps.Keys.SetCookie(w, out.User, deps.Config.IsProd()); err != nil {
		return fmt.Errorf("failed to set auth cookie: %w", err)
	}
	if err := deps.SessionManager.RenewToken(r.Context()); err != nil {
		return fmt.Errorf("failed to renew session: %w", err)
	}

	logging.AddToEvent(r.Context(),
		slog.String("outcome", "success"),
		slog.Int64("user_id", out.User.ID),
	)
	redirect(w, r, routes.Home)
	return nil
}

func handleRegister(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := r.FormValue("email")
	password := r.FormValue("password")

	logging.AddToEvent(r.Context(),
		slog.String("operation", "register"),
		slog.String("email_domain", emailDomain(email)),
	)

	out := deps.Auth.Register(r.Context(), services.RegisterInput{Email: email, Password: password})
	if !out.Success {
		logging.AddToEvent(r.Context(),
			slog.String("outcome", "error"),
			slog.String("error_reason", out.Error),
		)
		templ.Handler(pages.Register(pages.AuthForm{Email: email, Error: out.Error})).ServeHTTP(w, r)
		return nil
	}

	if err := deps.Keys.SetCookie(w, out.User, deps.Config.IsProd()); err != nil {
		return fmt.Errorf("failed to set auth cookie: %w", err)
	}
	deps.SessionManager.Put(r.Context(), flashKey, "Registrierung erfolgreich. Bitte bestätige deine E-Mail-Adresse.")

	logging.AddToEvent(r.Context(),
		slog.String("outcome", "success"),
		slog.Int64("created_user_id", out.User.ID),
	)
	redirect(w, r, routes.Home)
	return nil
}

func handleLogout(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	auth.ClearCookie(w, deps.Config.IsProd())
	if err := deps.SessionManager.Destroy(r.Context()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	redirect(w, r, routes.Home)
	return nil
}

func handleActivate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	token := r.URL.Query().Get("token")
	logging.AddToEvent(r.Context(), slog.String("operation", "activate"))

	user, err := deps.Auth.Activate(r.Context(), token)
	if errors.Is(err, services.ErrInvalidActivationToken) {
		logging.AddToEvent(r.Context(), slog.String("outcome", "error"), slog.String("error_reason", "invalid_token"))
		templ.Handler(pages.Activated("Der Aktivierungslink ist ungültig oder wurde bereits verwendet."),
			templ.WithStatus(http.StatusBadRequest)).ServeHTTP(w, r)
		return nil
	}
	if err != nil {
		return err
	}

	logging.AddToEvent(r.Context(), slog.String("outcome", "success"), slog.Int64("activated_user_id", user.ID))
	templ.Handler(pages.Activated("")).ServeHTTP(w, r)
	return nil
}
