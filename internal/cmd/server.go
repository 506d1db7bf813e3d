package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/klauspost/compress/gzhttp"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/authz"
	"github.com/preiskampf/preiskampf/internal/catalog"
	"github.com/preiskampf/preiskampf/internal/config"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/mailer"
	"github.com/preiskampf/preiskampf/internal/middleware"
	"github.com/preiskampf/preiskampf/internal/navigation"
	"github.com/preiskampf/preiskampf/internal/services"
	"github.com/preiskampf/preiskampf/internal/tracing"
	"github.com/preiskampf/preiskampf/internal/web"
	"github.com/preiskampf/preiskampf/internal/worker"
)

// catalogCacheSize é o número de detalhes de produto mantidos em memória.
const (
	catalogCacheSize = 256
	catalogCacheTTL  = 2 * time.Minute
)

func RunServer() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logging.Init(cfg.LogLevel)
	logger := logging.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg)
	if err != nil {
		logger.Error("failed to setup tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 1. DB
	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(pool.Write)
	sessionManager.Cookie.Secure = cfg.IsProd()
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	keys, err := auth.NewKeys(cfg.JWTSecret)
	if err != nil {
		logger.Error("invalid jwt secret", slog.String("error", err.Error()))
		os.Exit(1)
	}
	enforcer, err := authz.New()
	if err != nil {
		logger.Error("failed to load authorization model", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cat := catalog.New(pool.Queries(), catalogCacheSize, catalogCacheTTL)

	// 2. Worker + SSE
	broker := web.NewBroker()

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	processor := worker.New(cfg, pool, mailer.New(cfg), broker, logger)
	if n, err := processor.RescueZombies(workerCtx); err != nil {
		logger.Error("zombie hunter failed", slog.String("error", err.Error()))
	} else if n > 0 {
		logger.Warn("rescued zombie jobs", slog.Int64("count", n))
	}
	go processor.Start(workerCtx)

	// 3. Navegação recarregável
	navStore, err := navigation.Load(cfg.NavigationFile)
	if err != nil {
		logger.Error("failed to load navigation", slog.String("error", err.Error()))
		os.Exit(1)
	}
	go func() {
		if err := navStore.Watch(workerCtx); err != nil {
			logger.Warn("navigation watcher stopped", slog.String("error", err.Error()))
		}
	}()

	limiter := middleware.DefaultRateLimiter()
	go limiter.Cleanup(workerCtx)

	deps := web.HandlerDeps{
		Pool:           pool,
		SessionManager: sessionManager,
		Config:         cfg,
		Keys:           keys,
		Auth:           services.NewAuthService(pool),
		Catalog:        cat,
		Broker:         broker,
		DeadLetters:    processor.DeadLetters(),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHandler(deps, enforcer, navStore, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("server stopping")

	// fecha os streams SSE antes do Shutdown, senão ele espera por eles
	broker.Shutdown()
	cancelWorker()
	processor.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("server exited properly")
}

// newHandler monta o mux e a cadeia de middlewares. A ordem importa: a sessão
// precisa existir antes da autenticação e o CSRF roda por último, já com o
// usuário e o menu no contexto.
func newHandler(deps web.HandlerDeps, enforcer *authz.Enforcer, nav *navigation.Store, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	web.RegisterRoutes(mux, deps)

	secure := deps.Config.IsProd()
	handler := middleware.Recovery(
		limiter.Middleware(
			middleware.SecurityHeaders(secure)(
				middleware.Logger(
					middleware.Locale(
						deps.SessionManager.LoadAndSave(
							middleware.Authenticate(deps.Keys, enforcer)(
								middleware.RequestState(
									middleware.Navigation(nav)(
										middleware.CSRF(mux, secure),
									),
								),
							),
						),
					),
				),
			),
		),
	)

	return gzhttp.GzipHandler(handler)
}
