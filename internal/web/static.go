package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/view/pages"
)

func handleHome(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("business_unit", "marketing"))
	flash := deps.SessionManager.PopString(r.Context(), flashKey)
	templ.Handler(pages.Home(flash)).ServeHTTP(w, r)
	return nil
}

// handleNotFound responde 404; requisições htmx recebem corpo vazio para não
// trocar o conteúdo da página.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	logging.AddToEvent(r.Context(), slog.String("outcome", "not_found"))
	if isHTMX(r) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	templ.Handler(pages.NotFound(), templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
}

type healthResponse struct {
	Status      string           `json:"status"`
	Database    string           `json:"database"`
	PendingJobs int64            `json:"pending_jobs"`
	DeadLetters map[string]int64 `json:"dead_letters,omitempty"`
	Time        time.Time        `json:"time"`
}

func handleHealth(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	resp := healthResponse{Status: "ok", Database: "ok", Time: time.Now().UTC()}
	status := http.StatusOK

	if err := deps.Pool.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		pending, err := deps.Pool.Queries().CountJobsByStatus(r.Context(), "pending")
		if err != nil {
			return fmt.Errorf("failed to count jobs: %w", err)
		}
		resp.PendingJobs = pending

		if deps.DeadLetters != nil {
			stats, err := deps.DeadLetters.Stats(r.Context())
			if err != nil {
				return fmt.Errorf("failed to read dead letter stats: %w", err)
			}
			resp.DeadLetters = stats
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(resp)
}
