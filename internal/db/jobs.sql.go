package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const jobColumns = `id, user_id, type, payload, status, attempt_count, max_attempts, last_error, run_at, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (Job, error) {
	var i Job
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Type,
		&i.Payload,
		&i.Status,
		&i.AttemptCount,
		&i.MaxAttempts,
		&i.LastError,
		scanTime(&i.RunAt),
		scanTime(&i.CreatedAt),
		scanTime(&i.UpdatedAt),
	)
	return i, err
}

const createJob = `
INSERT INTO jobs (user_id, type, payload) VALUES (?, ?, ?)
RETURNING ` + jobColumns

type CreateJobParams struct {
	UserID  sql.NullInt64
	Type    string
	Payload json.RawMessage
}

func (q *Queries) CreateJob(ctx context.Context, arg CreateJobParams) (Job, error) {
	return scanJob(q.db.QueryRowContext(ctx, createJob, arg.UserID, arg.Type, []byte(arg.Payload)))
}

const pickNextJob = `
UPDATE jobs
SET status = 'processing', attempt_count = attempt_count + 1, updated_at = CURRENT_TIMESTAMP
WHERE id = (
    SELECT id FROM jobs
    WHERE status = 'pending' AND run_at <= CURRENT_TIMESTAMP
    ORDER BY run_at ASC, id ASC
    LIMIT 1
)
RETURNING ` + jobColumns

// PickNextJob retorna sql.ErrNoRows quando a fila está vazia.
func (q *Queries) PickNextJob(ctx context.Context) (Job, error) {
	return scanJob(q.db.QueryRowContext(ctx, pickNextJob))
}

const completeJob = `UPDATE jobs SET status = 'completed', updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) CompleteJob(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, completeJob, id)
	return err
}

const failJob = `
UPDATE jobs
SET status = 'pending',
    last_error = ?,
    run_at = datetime('now', ?),
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type FailJobParams struct {
	LastError  sql.NullString
	RetryAfter int64 // segundos
	ID         int64
}

func (q *Queries) FailJob(ctx context.Context, arg FailJobParams) error {
	_, err := q.db.ExecContext(ctx, failJob, arg.LastError, fmt.Sprintf("+%d seconds", arg.RetryAfter), arg.ID)
	return err
}

const deleteJob = `DELETE FROM jobs WHERE id = ?`

func (q *Queries) DeleteJob(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteJob, id)
	return err
}

const rescueZombies = `
UPDATE jobs SET status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE status = 'processing'
`

func (q *Queries) RescueZombies(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, rescueZombies)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const recordJobProcessed = `INSERT OR IGNORE INTO processed_jobs (job_id) VALUES (?)`

func (q *Queries) RecordJobProcessed(ctx context.Context, jobID int64) error {
	_, err := q.db.ExecContext(ctx, recordJobProcessed, jobID)
	return err
}

const isJobProcessed = `SELECT EXISTS(SELECT 1 FROM processed_jobs WHERE job_id = ?)`

func (q *Queries) IsJobProcessed(ctx context.Context, jobID int64) (bool, error) {
	var processed bool
	err := q.db.QueryRowContext(ctx, isJobProcessed, jobID).Scan(&processed)
	return processed, err
}

const countJobsByStatus = `SELECT COUNT(*) FROM jobs WHERE status = ?`

func (q *Queries) CountJobsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countJobsByStatus, status).Scan(&count)
	return count, err
}

const moveToDeadLetter = `
INSERT INTO dead_letter_jobs (original_job_id, user_id, type, payload, attempt_count, last_error)
SELECT id, user_id, type, payload, attempt_count, ?
FROM jobs WHERE id = ?
`

type MoveToDeadLetterParams struct {
	LastError sql.NullString
	ID        int64
}

func (q *Queries) MoveToDeadLetter(ctx context.Context, arg MoveToDeadLetterParams) error {
	_, err := q.db.ExecContext(ctx, moveToDeadLetter, arg.LastError, arg.ID)
	return err
}

const reprocessDeadLetterJob = `
INSERT INTO jobs (user_id, type, payload)
SELECT user_id, type, payload FROM dead_letter_jobs WHERE id = ?
RETURNING ` + jobColumns

func (q *Queries) ReprocessDeadLetterJob(ctx context.Context, id int64) (Job, error) {
	return scanJob(q.db.QueryRowContext(ctx, reprocessDeadLetterJob, id))
}

const listDeadLetterJobs = `
SELECT id, original_job_id, user_id, type, payload, attempt_count, last_error, failed_at
FROM dead_letter_jobs
ORDER BY failed_at DESC, id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListDeadLetterJobs(ctx context.Context, arg Window) ([]DeadLetterJob, error) {
	rows, err := q.db.QueryContext(ctx, listDeadLetterJobs, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeadLetterJob
	for rows.Next() {
		var i DeadLetterJob
		if err := rows.Scan(
			&i.ID,
			&i.OriginalJobID,
			&i.UserID,
			&i.Type,
			&i.Payload,
			&i.AttemptCount,
			&i.LastError,
			scanTime(&i.FailedAt),
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteDeadLetterJob = `DELETE FROM dead_letter_jobs WHERE id = ?`

func (q *Queries) DeleteDeadLetterJob(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteDeadLetterJob, id)
	return err
}

const cleanupDeadLetterJobs = `DELETE FROM dead_letter_jobs WHERE failed_at < datetime('now', ?)`

func (q *Queries) CleanupDeadLetterJobs(ctx context.Context, retentionDays int) (int64, error) {
	result, err := q.db.ExecContext(ctx, cleanupDeadLetterJobs, fmt.Sprintf("-%d days", retentionDays))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countDeadLetterJobsByType = `SELECT type, COUNT(*) FROM dead_letter_jobs GROUP BY type`

func (q *Queries) CountDeadLetterJobsByType(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countDeadLetterJobsByType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int64)
	for rows.Next() {
		var jobType string
		var count int64
		if err := rows.Scan(&jobType, &count); err != nil {
			return nil, err
		}
		counts[jobType] = count
	}
	return counts, rows.Err()
}
