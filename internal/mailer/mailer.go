// Package mailer envia os e-mails transacionais (ativação de conta e pedidos
// de contato) por SendGrid ou SMTP, com failover entre os dois.
package mailer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/preiskampf/preiskampf/internal/config"
	"github.com/preiskampf/preiskampf/internal/metrics"
)

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrProviderNotActive = errors.New("provider not active")
	ErrSimulatedFailure  = errors.New("simulated failure")
)

type ProviderType string

const (
	ProviderSMTP     ProviderType = "smtp"
	ProviderSendGrid ProviderType = "sendgrid"
	ProviderMock     ProviderType = "mock"
)

type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender é o que o worker usa para entregar um e-mail.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

type Provider interface {
	Sender
	Type() ProviderType
	IsAvailable() bool
}

// MultiProvider tenta os provedores em ordem. Depois de um envio bem-sucedido
// o provedor vencedor passa a ser o primeiro tentado.
type MultiProvider struct {
	providers []Provider
	current   int
	mu        sync.Mutex
}

func NewMultiProvider(providers ...Provider) *MultiProvider {
	return &MultiProvider{providers: providers}
}

// New monta o failover a partir da config: SendGrid primeiro, quando houver
// chave, e SMTP como reserva.
func New(cfg *config.Config) *MultiProvider {
	var providers []Provider
	if cfg.SendGridAPIKey != "" {
		providers = append(providers, NewSendGridProvider(cfg.SendGridAPIKey, cfg.MailFrom, "Preiskampf"))
	}
	providers = append(providers, NewSMTPProvider(cfg))
	return NewMultiProvider(providers...)
}

func (mp *MultiProvider) Send(ctx context.Context, email Email) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var lastErr error
	for i := 0; i < len(mp.providers); i++ {
		idx := (mp.current + i) % len(mp.providers)
		provider := mp.providers[idx]

		if !provider.IsAvailable() {
			continue
		}

		if err := provider.Send(ctx, email); err != nil {
			metrics.MailsSent.WithLabelValues(string(provider.Type()), "error").Inc()
			lastErr = err
			continue
		}

		metrics.MailsSent.WithLabelValues(string(provider.Type()), "sent").Inc()
		mp.current = idx
		return nil
	}

	if lastErr != nil {
		return lastErr
	}
	return ErrProviderNotActive
}

// IsRateLimitError reconhece erros de cota dos provedores; o worker adia o
// job em vez de contar a tentativa como falha definitiva.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "too many requests")
}
