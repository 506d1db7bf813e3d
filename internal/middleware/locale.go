package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/preiskampf/preiskampf/internal/contextkeys"
	"github.com/preiskampf/preiskampf/internal/i18n"
)

const localeCookie = "lang"

// Locale escolhe o idioma da requisição: cookie "lang", depois o primeiro
// idioma suportado do Accept-Language, depois alemão.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.DefaultLocale
		if cookie, err := r.Cookie(localeCookie); err == nil && i18n.Supported(cookie.Value) {
			locale = cookie.Value
		} else if accepted, ok := acceptedLocale(r.Header.Get("Accept-Language")); ok {
			locale = accepted
		}

		ctx := context.WithValue(r.Context(), contextkeys.LocaleKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// acceptedLocale percorre as tags na ordem enviada; pesos q= são ignorados,
// navegadores já mandam a lista ordenada.
func acceptedLocale(header string) (string, bool) {
	for tag := range strings.SplitSeq(header, ",") {
		tag, _, _ = strings.Cut(strings.TrimSpace(tag), ";")
		primary, _, _ := strings.Cut(tag, "-")
		primary = strings.ToLower(primary)
		if i18n.Supported(primary) {
			return primary, true
		}
	}
	return "", false
}
