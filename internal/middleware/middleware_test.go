package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/authz"
	"github.com/preiskampf/preiskampf/internal/contextkeys"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/navigation"
	"github.com/preiskampf/preiskampf/internal/view"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newAuthChain(t *testing.T, next http.Handler) (http.Handler, *auth.Keys) {
	t.Helper()
	keys, err := auth.NewKeys("middleware-test-secret-middleware-test")
	if err != nil {
		t.Fatal(err)
	}
	enforcer, err := authz.New()
	if err != nil {
		t.Fatal(err)
	}
	return Authenticate(keys, enforcer)(next), keys
}

func withSession(t *testing.T, keys *auth.Keys, req *http.Request, user auth.SessionUser) {
	t.Helper()
	token, err := keys.Encode(user)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
}

func TestAuthenticate(t *testing.T) {
	user := auth.SessionUser{ID: 7, Email: "anna@example.de", Username: "anna"}

	tests := []struct {
		name         string
		path         string
		loggedIn     bool
		htmx         bool
		wantStatus   int
		wantLocation string
		wantHXTarget string
	}{
		{"anônimo na home", "/", false, false, http.StatusOK, "", ""},
		{"anônimo no login", "/login", false, false, http.StatusOK, "", ""},
		{"anônimo em assets", "/assets/css/app.css", false, false, http.StatusOK, "", ""},
		{"anônimo em rota protegida", "/einkaufszettel", false, false, http.StatusSeeOther, "/", ""},
		{"anônimo em rota protegida via htmx", "/einkaufszettel", false, true, http.StatusOK, "", "/"},
		{"logado em rota protegida", "/einkaufszettel", true, false, http.StatusOK, "", ""},
		{"logado no login", "/login", true, false, http.StatusSeeOther, "/", ""},
		{"logado no cadastro", "/registrieren", true, false, http.StatusSeeOther, "/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen auth.SessionUser
			var seenOK bool
			h, keys := newAuthChain(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, seenOK = GetUser(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.loggedIn {
				withSession(t, keys, req, user)
			}
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, esperado %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q, esperado %q", got, tt.wantLocation)
			}
			if got := rr.Header().Get("HX-Redirect"); got != tt.wantHXTarget {
				t.Errorf("HX-Redirect = %q, esperado %q", got, tt.wantHXTarget)
			}
			if tt.loggedIn && tt.wantStatus == http.StatusOK {
				if !seenOK || seen.ID != user.ID {
					t.Errorf("usuário no contexto = %+v, %v", seen, seenOK)
				}
			}
		})
	}
}

func TestAuthenticateRejectsTamperedCookie(t *testing.T) {
	h, _ := newAuthChain(t, okHandler)

	other, _ := auth.NewKeys("another-secret-another-secret-another")
	req := httptest.NewRequest(http.MethodGet, "/mein-profil", nil)
	withSession(t, other, req, auth.SessionUser{ID: 1, Email: "x@example.de"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, esperado redirect", rr.Code)
	}
}

func TestRequestState(t *testing.T) {
	var rc *view.RequestContext
	h := RequestState(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc = view.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/einkaufszettel/anlegen?page=3&q=milch&is=success", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Vary"); !strings.Contains(got, "Hx-Request") || !strings.Contains(got, "Hx-Boosted") {
		t.Errorf("Vary = %q", got)
	}
	if rc == nil {
		t.Fatal("RequestContext ausente")
	}
	if rc.CurrentPage() != 3 || rc.State.Search() != "milch" {
		t.Errorf("estado inesperado: %+v", rc.State)
	}
	if !rc.IsHXRequest() || !rc.IsCreateOperation() {
		t.Error("esperava requisição htmx de criação")
	}
	if n := rc.Notification(); n == nil || !n.IsSuccess {
		t.Errorf("notificação = %+v", n)
	}
}

func TestNavigationInjectsMenu(t *testing.T) {
	store, err := navigation.Load(t.TempDir() + "/missing.yaml")
	if err != nil {
		t.Fatal(err)
	}

	var menu navigation.Menu
	h := Navigation(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		menu = navigation.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(menu.Items) == 0 {
		t.Fatal("menu vazio")
	}
}

func TestLocale(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"padrão", "", "", "de"},
		{"accept-language inglês", "", "en-US,en;q=0.9", "en"},
		{"cookie vence header", "de", "en-US", "de"},
		{"cookie inválido cai no header", "fr", "en", "en"},
		{"cookie inválido sem header", "xx", "", "de"},
		{"primeiro suportado na lista", "", "fr-FR,fr;q=0.9,en;q=0.8", "en"},
		{"alemão antes do inglês", "", "de-AT, en", "de"},
		{"maiúsculas", "", "EN-GB", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Locale(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = r.Context().Value(contextkeys.LocaleKey).(string)
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("locale = %q, esperado %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	h := limiter.Middleware(okHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("códigos = %v", codes)
	}

	// outro IP tem seu próprio bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("segundo IP: status %d", rr.Code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	limiter.allow("10.0.0.2")
	limiter.evict()

	if _, ok := limiter.clients["10.0.0.1"]; ok {
		t.Error("cliente inativo não foi removido")
	}
	if _, ok := limiter.clients["10.0.0.2"]; !ok {
		t.Error("cliente ativo foi removido")
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	if rr.Header().Get("HX-Reswap") != "none" {
		t.Error("HX-Reswap ausente")
	}
}

func TestLoggerWritesWideEvent(t *testing.T) {
	var buf bytes.Buffer
	logging.InitWithWriter(&buf, "info")
	t.Cleanup(func() { logging.Init("info") })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.AddToEvent(r.Context(), slog.String("list", "products"))
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/einkaufstour", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") != "req-123" {
		t.Errorf("X-Request-ID = %q", rr.Header().Get("X-Request-ID"))
	}
	out := buf.String()
	for _, want := range []string{`"msg":"request completed"`, `"request_id":"req-123"`, `"status":418`, `"list":"products"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log sem %s: %s", want, out)
		}
	}
}

func TestLoggerGeneratesRequestID(t *testing.T) {
	h := Logger(okHandler)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if len(rr.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("X-Request-ID = %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestCSRF(t *testing.T) {
	var token string
	h := CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = view.CSRFToken(r.Context())
		w.WriteHeader(http.StatusOK)
	}), false)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || token == "" {
		t.Fatalf("GET: status %d, token %q", rr.Code, token)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader("body=oi")))
	if rr.Code != http.StatusForbidden {
		t.Errorf("POST sem token: status %d", rr.Code)
	}
}
