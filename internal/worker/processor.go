package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preiskampf/preiskampf/internal/config"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/mailer"
	"github.com/preiskampf/preiskampf/internal/metrics"
)

type Processor struct {
	pool     *db.DualPool
	logger   *slog.Logger
	mailer   mailer.Sender
	notifier Notifier
	limiter  *JobRateLimiter
	dlq      *DeadLetterQueue
	backoff  BackoffConfig
	baseURL  string
	interval time.Duration
	wg       sync.WaitGroup
}

func New(cfg *config.Config, pool *db.DualPool, sender mailer.Sender, notifier Notifier, l *slog.Logger) *Processor {
	return &Processor{
		pool:     pool,
		logger:   l,
		mailer:   sender,
		notifier: notifier,
		limiter:  NewJobRateLimiter(DefaultJobRateConfigs),
		dlq:      NewDeadLetterQueue(pool, l),
		backoff:  DefaultBackoffConfig,
		baseURL:  cfg.BaseURL,
		interval: time.Second,
	}
}

func (p *Processor) DeadLetters() *DeadLetterQueue {
	return p.dlq
}

func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("worker started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker signal received: waiting for active jobs to finish")
			return
		case <-ticker.C:
			// esvazia a fila antes de esperar o próximo tick
			for p.processNext(ctx) {
				if ctx.Err() != nil {
					break
				}
			}
		case <-cleanup.C:
			if n, err := p.dlq.Cleanup(ctx); err != nil {
				p.logger.ErrorContext(ctx, "dlq cleanup failed", slog.String("error", err.Error()))
			} else if n > 0 {
				p.logger.InfoContext(ctx, "dlq cleanup", slog.Int64("removed", n))
			}
		}
	}
}

// Wait blocks until all active jobs are finished
func (p *Processor) Wait() {
	p.wg.Wait()
}

// processNext executa no máximo um job e informa se havia algo na fila.
func (p *Processor) processNext(ctx context.Context) bool {
	p.wg.Add(1)
	defer p.wg.Done()

	start := time.Now()
	queries := p.pool.QueriesWrite()

	job, err := queries.PickNextJob(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			p.logger.ErrorContext(ctx, "failed to pick next job", slog.String("error", err.Error()))
		}
		return false
	}

	ctx, event := logging.NewEventContext(ctx)
	event.Add(
		slog.Int64("job_id", job.ID),
		slog.String("job_type", job.Type),
		slog.Int64("attempt", job.AttemptCount),
	)

	// Idempotency Check: Verifica se o job já foi processado com sucesso anteriormente
	processed, err := queries.IsJobProcessed(ctx, job.ID)
	if err == nil && processed {
		p.logger.InfoContext(ctx, "job already processed, skipping", event.Attrs()...)
		_ = queries.CompleteJob(ctx, job.ID) // Garante que o status está sincronizado
		return true
	}

	errProcessing := p.run(ctx, job)
	if errProcessing != nil {
		p.handleFailure(ctx, job, errProcessing, event)
		metrics.JobDuration.WithLabelValues(job.Type, "failed").Observe(time.Since(start).Seconds())
		return true
	}

	// Sucesso: Registrar que foi processado e completar o job em uma transação
	if err := p.pool.WithTx(ctx, func(q *db.Queries) error {
		if err := q.RecordJobProcessed(ctx, job.ID); err != nil {
			return fmt.Errorf("record job processed: %w", err)
		}
		return q.CompleteJob(ctx, job.ID)
	}); err != nil {
		p.logger.ErrorContext(ctx, "failed to complete job", slog.String("error", err.Error()))
		return true
	}

	duration := time.Since(start)
	metrics.JobDuration.WithLabelValues(job.Type, "success").Observe(duration.Seconds())
	metrics.JobsProcessed.WithLabelValues(job.Type, "success").Inc()
	event.Add(slog.Float64("duration_ms", float64(duration.Nanoseconds())/1e6))

	p.logger.InfoContext(ctx, "job completed", event.Attrs()...)

	// Notificação em tempo real via SSE
	if job.UserID.Valid && p.notifier != nil {
		p.notifier.Notify(job.UserID.Int64, "job_completed", job.Type)
	}
	return true
}

func (p *Processor) run(ctx context.Context, job db.Job) error {
	if err := p.limiter.Acquire(ctx, job.Type); err != nil {
		return err
	}
	defer p.limiter.Release(job.Type)

	switch job.Type {
	case TypeSendRegistrationEmail:
		return p.handleSendRegistrationEmail(ctx, job.Payload)
	case TypeSendContactRequestEmail:
		return p.handleSendContactRequestEmail(ctx, job.Payload)
	default:
		return permanent(fmt.Errorf("unknown job type %q", job.Type))
	}
}

// handleFailure reagenda com backoff ou move o job para a DLQ.
func (p *Processor) handleFailure(ctx context.Context, job db.Job, jobErr error, event *logging.Event) {
	event.Add(slog.String("error", jobErr.Error()))
	metrics.JobsProcessed.WithLabelValues(job.Type, "failed").Inc()

	if isPermanent(jobErr) || p.dlq.ShouldMoveToDLQ(job) {
		if err := p.dlq.Move(ctx, job, jobErr); err != nil {
			p.logger.ErrorContext(ctx, "failed to move job to dlq", slog.String("error", err.Error()))
		}
		return
	}

	delay := GetRetryAfterDuration(jobErr)
	if delay == 0 {
		delay = FullJitter(int(job.AttemptCount), p.backoff)
	}
	retryAfter := retrySeconds(delay)
	event.Add(slog.Int64("retry_after_s", retryAfter))

	if err := p.pool.QueriesWrite().FailJob(ctx, db.FailJobParams{
		LastError:  sql.NullString{String: jobErr.Error(), Valid: true},
		RetryAfter: retryAfter,
		ID:         job.ID,
	}); err != nil {
		p.logger.ErrorContext(ctx, "failed to record job failure in db", slog.String("error", err.Error()))
	}
	metrics.JobRetries.WithLabelValues(job.Type).Inc()

	p.logger.WarnContext(ctx, "job processing failed, retry scheduled", event.Attrs()...)
}

func (p *Processor) handleSendRegistrationEmail(ctx context.Context, payload json.RawMessage) error {
	var data RegistrationEmailPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return permanent(err)
	}
	if data.Email == "" || data.Token == "" {
		return permanent(errors.New("registration payload without email or token"))
	}

	email, err := mailer.RegistrationEmail(p.baseURL, data.Email, data.Token)
	if err != nil {
		return permanent(err)
	}
	return p.mailer.Send(ctx, email)
}

func (p *Processor) handleSendContactRequestEmail(ctx context.Context, payload json.RawMessage) error {
	var data ContactRequestEmailPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return permanent(err)
	}
	if data.ToEmail == "" {
		return permanent(errors.New("contact request payload without recipient"))
	}

	email, err := mailer.ContactRequestEmail(p.baseURL, data.ToEmail, data.FromName)
	if err != nil {
		return permanent(err)
	}
	return p.mailer.Send(ctx, email)
}
