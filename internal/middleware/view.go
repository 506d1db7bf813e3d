package middleware

import (
	"net/http"

	"github.com/preiskampf/preiskampf/internal/navigation"
	"github.com/preiskampf/preiskampf/internal/view"
)

// RequestState guarda o view.RequestContext da requisição. As respostas
// variam com os headers do htmx (fragmento ou página inteira).
func RequestState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Hx-Request, Hx-Boosted")

		ctx := view.WithRequestContext(r.Context(), view.FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Navigation coloca o menu atual no contexto; o store pode ser recarregado a
// qualquer momento e cada requisição vê uma versão consistente.
func Navigation(store *navigation.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(navigation.WithMenu(r.Context(), store.Menu())))
		})
	}
}
