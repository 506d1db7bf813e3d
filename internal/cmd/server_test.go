package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/authz"
	"github.com/preiskampf/preiskampf/internal/catalog"
	"github.com/preiskampf/preiskampf/internal/config"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/db/dbtest"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/middleware"
	"github.com/preiskampf/preiskampf/internal/navigation"
	"github.com/preiskampf/preiskampf/internal/services"
	"github.com/preiskampf/preiskampf/internal/web"
	"github.com/preiskampf/preiskampf/internal/worker"
)

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func setupTestServer(t *testing.T) (*httptest.Server, *db.DualPool) {
	t.Helper()

	pool := dbtest.New(t)
	if err := db.Seed(context.Background(), pool.Write); err != nil {
		t.Fatal(err)
	}

	keys, err := auth.NewKeys("integration-secret-integration-secret")
	if err != nil {
		t.Fatal(err)
	}
	enforcer, err := authz.New()
	if err != nil {
		t.Fatal(err)
	}
	cat := catalog.New(pool.Queries(), 16, time.Minute)
	nav, err := navigation.Load(filepath.Join(t.TempDir(), "navigation.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(pool.Write)

	broker := web.NewBroker()
	t.Cleanup(broker.Shutdown)

	deps := web.HandlerDeps{
		Pool:           pool,
		SessionManager: sm,
		Config:         &config.Config{Env: "test", BaseURL: "http://localhost"},
		Keys:           keys,
		Auth:           services.NewAuthService(pool),
		Catalog:        cat,
		Broker:         broker,
		DeadLetters:    worker.NewDeadLetterQueue(pool, logging.Get()),
	}

	srv := httptest.NewServer(newHandler(deps, enforcer, nav, middleware.NewRateLimiter(1000, 1000)))
	t.Cleanup(srv.Close)
	return srv, pool
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// postForm envia o form como um navegador faria, com o header Origin que o
// nosurf exige em métodos não seguros.
func postForm(t *testing.T, client *http.Client, target string, form url.Values, origin string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/imprint")
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
	} {
		if got := resp.Header.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if resp.Header.Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy")
	}
}

func TestAssetsServed(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/assets/js/app.js")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "xui:clientAction") {
		t.Error("expected client action listener in app.js")
	}
}

func TestLoginFlowWithCSRF(t *testing.T) {
	srv, _ := setupTestServer(t)
	client := newClient(t)

	form := url.Values{"email": {db.DemoEmail}, "password": {db.DemoPassword}}

	t.Run("WithoutToken", func(t *testing.T) {
		resp := postForm(t, client, srv.URL+"/authorize", form, srv.URL)
		readBody(t, resp)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	resp, err := client.Get(srv.URL + "/login")
	if err != nil {
		t.Fatal(err)
	}
	m := csrfInput.FindStringSubmatch(readBody(t, resp))
	if m == nil {
		t.Fatal("csrf token not rendered on login page")
	}
	form.Set("csrf_token", m[1])

	rejected := []struct {
		name   string
		origin string
	}{
		{"CrossOrigin", "http://evil.example"},
		{"WithoutOrigin", ""},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForm(t, client, srv.URL+"/authorize", form, tt.origin)
			readBody(t, resp)
			if resp.StatusCode != http.StatusForbidden {
				t.Errorf("expected 403, got %d", resp.StatusCode)
			}
		})
	}

	resp = postForm(t, client, srv.URL+"/authorize", form, srv.URL)
	readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/einkaufstour?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Demo") {
		t.Error("expected user name in header")
	}
	if !strings.Contains(body, `class="active"`) {
		t.Error("expected active navigation entry")
	}
}

func TestPrivatePagesRequireLogin(t *testing.T) {
	srv, _ := setupTestServer(t)
	client := newClient(t)

	for _, path := range []string{"/einkaufstour", "/einkaufszettel", "/mein-profil", "/contacts", "/posts"} {
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		readBody(t, resp)
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	srv, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"database":"ok"`) {
		t.Errorf("unexpected health response %d %s", resp.StatusCode, body)
	}
}
