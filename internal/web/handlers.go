package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/catalog"
	"github.com/preiskampf/preiskampf/internal/config"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/middleware"
	"github.com/preiskampf/preiskampf/internal/routes"
	"github.com/preiskampf/preiskampf/internal/services"
	"github.com/preiskampf/preiskampf/internal/view"
	"github.com/preiskampf/preiskampf/internal/view/pages"
	"github.com/preiskampf/preiskampf/internal/worker"
	"github.com/preiskampf/preiskampf/web/static/assets"
)

type HandlerDeps struct {
	Pool           *db.DualPool
	SessionManager *scs.SessionManager
	Config         *config.Config
	Keys           *auth.Keys
	Auth           *services.AuthService
	Catalog        *catalog.Catalog
	Broker         *Broker
	DeadLetters    *worker.DeadLetterQueue
}

// AppHandler é um tipo customizado que permite retornar erros dos handlers
type AppHandler func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error

// Handle envolve nosso AppHandler para conformidade com http.HandlerFunc.
// Chamadas htmx recebem a notificação de erro fora de banda e nenhum swap.
func Handle(deps HandlerDeps, h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(deps, w, r); err != nil {
			logging.Get().ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			logging.AddToEvent(r.Context(), slog.String("outcome", "error"))

			if isHTMX(r) {
				w.Header().Set("HX-Reswap", "none")
				notify(w, r, view.ErrorNotification(""), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

func RegisterRoutes(mux *http.ServeMux, deps HandlerDeps) {
	// Static pages
	mux.HandleFunc("GET "+routes.Home+"{$}", Handle(deps, handleHome))
	mux.Handle("GET "+routes.Imprint, templ.Handler(pages.Imprint()))
	mux.Handle("GET "+routes.About, templ.Handler(pages.About()))
	mux.HandleFunc("GET "+routes.NotFound+"/", handleNotFound)
	mux.HandleFunc("GET "+routes.Health, Handle(deps, handleHealth))
	mux.HandleFunc("GET "+routes.Events, Handle(deps, handleEvents))
	mux.Handle("GET "+routes.Metrics, promhttp.Handler())
	mux.Handle("GET "+routes.Assets, http.StripPrefix(routes.Assets, http.FileServerFS(assets.FS)))

	// Auth Handlers
	mux.Handle("GET "+routes.Login, templ.Handler(pages.Login(pages.AuthForm{})))
	mux.Handle("GET "+routes.Register, templ.Handler(pages.Register(pages.AuthForm{})))
	mux.HandleFunc("POST "+routes.Authorize, Handle(deps, handleLogin))
	mux.HandleFunc("POST "+routes.SignUp, Handle(deps, handleRegister))
	mux.HandleFunc("POST "+routes.Logout, Handle(deps, handleLogout))
	mux.HandleFunc("GET "+routes.Activate, Handle(deps, handleActivate))

	// Products
	mux.HandleFunc("GET "+routes.Products, Handle(deps, handleProducts))
	mux.HandleFunc("GET "+routes.Product+"/{id}", Handle(deps, handleProductDetail))

	// Shopping lists
	mux.HandleFunc("GET "+routes.ShoppingLists, Handle(deps, handleShoppingLists))
	mux.HandleFunc("GET "+routes.ShoppingLists+"/{id}", Handle(deps, handleShoppingListDetail))
	mux.HandleFunc("PUT "+routes.ShoppingListSave, Handle(deps, handleSaveShoppingList))
	mux.HandleFunc("DELETE "+routes.ShoppingListDelete+"/{id}", Handle(deps, handleDeleteShoppingList))
	mux.HandleFunc("POST "+routes.ShoppingListToggleLike, Handle(deps, handleToggleLike))

	// Profile
	mux.HandleFunc("GET "+routes.Profile, Handle(deps, handleProfile))
	mux.HandleFunc("POST "+routes.UserSave, Handle(deps, handleSaveProfile))
	mux.HandleFunc("PUT "+routes.UserSelectShoppingList+"/{id}", Handle(deps, handleSelectShoppingList))

	// Contacts
	mux.HandleFunc("GET "+routes.Contacts, Handle(deps, handleContacts))
	mux.HandleFunc("PUT "+routes.ContactRequest, Handle(deps, handleContactRequest))
	mux.HandleFunc("POST "+routes.Contacts+"/{id}/bestaetigen", Handle(deps, handleConfirmContact))
	mux.HandleFunc("DELETE "+routes.Contacts+"/{id}", Handle(deps, handleDeleteContact))

	// Timeline
	mux.HandleFunc("GET "+routes.Posts, Handle(deps, handlePosts))
	mux.HandleFunc("POST "+routes.Posts, Handle(deps, handleCreatePost))
	mux.HandleFunc("GET "+routes.Posts+"/{id}", Handle(deps, handlePostDetail))

	mux.HandleFunc("/", handleNotFound)
}

// --- helpers ---

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// currentUser só é chamado em rotas privadas, onde o middleware de auth já
// garantiu o usuário no contexto.
func currentUser(r *http.Request) auth.SessionUser {
	user, _ := middleware.GetUser(r.Context())
	return user
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// redirect usa HX-Redirect para htmx e 303 para o resto.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// notify responde com a notificação fora de banda.
func notify(w http.ResponseWriter, r *http.Request, n *view.Notification, status int) {
	templ.Handler(pages.Notification(n), templ.WithStatus(status)).ServeHTTP(w, r)
}

// withFlag acrescenta is=success|error ao destino de um redirect.
func withFlag(target string, flag view.RedirectFlag) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + view.ParamRedirect + "=" + flag.String()
}
