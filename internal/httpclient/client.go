// Package httpclient cria clientes HTTP de saída que registram cada chamada
// como um evento estruturado.
package httpclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/preiskampf/preiskampf/internal/logging"
)

type Client struct {
	*http.Client
	name string
}

type Config struct {
	Name    string
	Timeout time.Duration
	// Transport base; nil usa http.DefaultTransport.
	Transport http.RoundTripper
}

func New(cfg Config, opts ...func(*Client)) *Client {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	c := &Client{
		Client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &loggingTransport{
				RoundTripper: base,
				name:         cfg.Name,
			},
		},
		name: cfg.Name,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func Default() *Client {
	return New(Config{
		Name:    "default",
		Timeout: 30 * time.Second,
	})
}

func (c *Client) Name() string {
	return c.name
}

type loggingTransport struct {
	http.RoundTripper
	name string
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	ctx, event := logging.NewEventContext(r.Context())
	event.Add(
		slog.String("http_client", t.name),
		slog.String("method", r.Method),
		slog.String("url", r.URL.Redacted()),
	)

	resp, err := t.RoundTripper.RoundTrip(r.WithContext(ctx))

	duration := time.Since(start)

	if err != nil {
		event.Add(
			slog.String("outcome", "error"),
			slog.String("error", err.Error()),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
		)
		logging.Get().Log(ctx, slog.LevelError, "http request failed", event.Attrs()...)
		return nil, err
	}

	event.Add(
		slog.Int("status", resp.StatusCode),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	level := slog.LevelInfo
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}

	logging.Get().Log(ctx, level, "http request completed", event.Attrs()...)
	return resp, nil
}

// WithAuth aplica authFunc em toda requisição antes do envio.
func WithAuth(authFunc func(*http.Request)) func(*Client) {
	return func(c *Client) {
		c.Transport = &authTransport{
			RoundTripper: c.Transport,
			authFunc:     authFunc,
		}
	}
}

type authTransport struct {
	http.RoundTripper
	authFunc func(*http.Request)
}

func (t *authTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	t.authFunc(r)
	return t.RoundTripper.RoundTrip(r)
}
