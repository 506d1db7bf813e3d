package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/preiskampf/preiskampf/internal/db"
)

const (
	TypeSendRegistrationEmail   = "send_registration_email"
	TypeSendContactRequestEmail = "send_contact_request_email"
)

type RegistrationEmailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type ContactRequestEmailPayload struct {
	ToEmail  string `json:"to_email"`
	FromName string `json:"from_name"`
}

// Notifier entrega eventos em tempo real a um usuário conectado.
type Notifier interface {
	Notify(userID int64, event, data string)
}

// errPermanent marca falhas que não melhoram com retry (payload inválido,
// tipo desconhecido). O job vai direto para a dead letter queue.
type errPermanent struct{ err error }

func (e errPermanent) Error() string { return e.err.Error() }
func (e errPermanent) Unwrap() error { return e.err }

func permanent(err error) error {
	return errPermanent{err: err}
}

func isPermanent(err error) bool {
	var p errPermanent
	return errors.As(err, &p)
}

func enqueue(ctx context.Context, q *db.Queries, userID int64, jobType string, payload any) (db.Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return db.Job{}, fmt.Errorf("marshal %s payload: %w", jobType, err)
	}
	job, err := q.CreateJob(ctx, db.CreateJobParams{
		UserID:  sql.NullInt64{Int64: userID, Valid: userID > 0},
		Type:    jobType,
		Payload: data,
	})
	if err != nil {
		return db.Job{}, fmt.Errorf("create %s job: %w", jobType, err)
	}
	return job, nil
}

// EnqueueRegistrationEmail agenda o e-mail de ativação. q pode estar dentro
// da transação que cria o usuário.
func EnqueueRegistrationEmail(ctx context.Context, q *db.Queries, userID int64, p RegistrationEmailPayload) (db.Job, error) {
	return enqueue(ctx, q, userID, TypeSendRegistrationEmail, p)
}

// EnqueueContactRequestEmail avisa o destinatário de um pedido de contato;
// userID é o destinatário, que também recebe o evento SSE ao final.
func EnqueueContactRequestEmail(ctx context.Context, q *db.Queries, userID int64, p ContactRequestEmailPayload) (db.Job, error) {
	return enqueue(ctx, q, userID, TypeSendContactRequestEmail, p)
}
