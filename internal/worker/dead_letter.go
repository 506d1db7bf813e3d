package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/metrics"
)

const (
	MaxJobAttempts   = 5
	DLQRetentionDays = 14
	maxJobAge        = 24 * time.Hour
)

type DeadLetterQueue struct {
	pool   *db.DualPool
	logger *slog.Logger
	now    func() time.Time
}

func NewDeadLetterQueue(pool *db.DualPool, logger *slog.Logger) *DeadLetterQueue {
	return &DeadLetterQueue{pool: pool, logger: logger, now: time.Now}
}

// ShouldMoveToDLQ: tentativas esgotadas ou job parado há mais de um dia.
func (dlq *DeadLetterQueue) ShouldMoveToDLQ(job db.Job) bool {
	limit := job.MaxAttempts
	if limit <= 0 {
		limit = MaxJobAttempts
	}
	if job.AttemptCount >= limit {
		return true
	}
	return dlq.now().Sub(job.CreatedAt) > maxJobAge
}

func (dlq *DeadLetterQueue) Move(ctx context.Context, job db.Job, lastErr error) error {
	err := dlq.pool.WithTx(ctx, func(q *db.Queries) error {
		if err := q.MoveToDeadLetter(ctx, db.MoveToDeadLetterParams{
			LastError: sql.NullString{String: lastErr.Error(), Valid: true},
			ID:        job.ID,
		}); err != nil {
			return err
		}
		return q.DeleteJob(ctx, job.ID)
	})
	if err != nil {
		return fmt.Errorf("move job %d to dlq: %w", job.ID, err)
	}

	metrics.JobsDeadLetter.WithLabelValues(job.Type).Inc()

	dlq.logger.ErrorContext(ctx, "job moved to dead letter queue",
		slog.Int64("job_id", job.ID),
		slog.String("type", job.Type),
		slog.Int64("attempts", job.AttemptCount),
		slog.String("error", lastErr.Error()),
	)

	return nil
}

// Reprocess devolve um job da DLQ para a fila com contador zerado.
func (dlq *DeadLetterQueue) Reprocess(ctx context.Context, dlqJobID int64) (db.Job, error) {
	var job db.Job
	err := dlq.pool.WithTx(ctx, func(q *db.Queries) error {
		var err error
		if job, err = q.ReprocessDeadLetterJob(ctx, dlqJobID); err != nil {
			return err
		}
		return q.DeleteDeadLetterJob(ctx, dlqJobID)
	})
	if err != nil {
		return db.Job{}, fmt.Errorf("reprocess dlq job %d: %w", dlqJobID, err)
	}

	dlq.logger.InfoContext(ctx, "job reprocessed from DLQ",
		slog.Int64("dlq_id", dlqJobID),
		slog.Int64("new_job_id", job.ID),
	)

	return job, nil
}

func (dlq *DeadLetterQueue) Cleanup(ctx context.Context) (int64, error) {
	return dlq.pool.QueriesWrite().CleanupDeadLetterJobs(ctx, DLQRetentionDays)
}

func (dlq *DeadLetterQueue) Stats(ctx context.Context) (map[string]int64, error) {
	stats, err := dlq.pool.Queries().CountDeadLetterJobsByType(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range stats {
		total += n
	}
	stats["total"] = total
	return stats, nil
}
