package web

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/policies"
	"github.com/preiskampf/preiskampf/internal/routes"
	"github.com/preiskampf/preiskampf/internal/validator"
	"github.com/preiskampf/preiskampf/internal/view"
	"github.com/preiskampf/preiskampf/internal/view/pages"
	"github.com/preiskampf/preiskampf/internal/worker"
)

func handleContacts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r)

	rows, err := deps.Pool.Queries().ListContacts(r.Context(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	data := pages.Contacts{UserID: user.ID}
	for _, c := range rows {
		switch {
		case c.Confirmed:
			data.Confirmed = append(data.Confirmed, c)
		case c.Incoming(user.ID):
			data.Incoming = append(data.Incoming, c)
		default:
			data.Outgoing = append(data.Outgoing, c)
		}
	}

	logging.AddToEvent(r.Context(),
		slog.Int("contacts_confirmed", len(data.Confirmed)),
		slog.Int("contacts_pending", len(data.Incoming)+len(data.Outgoing)),
	)
	templ.Handler(pages.ContactsPage(data)).ServeHTTP(w, r)
	return nil
}

// handleContactRequest cria o pedido, avisa o destinatário pelo SSE e agenda
// o e-mail na mesma transação do pedido.
func handleContactRequest(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user := currentUser(r)

	form := validator.ContactRequestForm{Email: validator.NormalizeEmail(r.FormValue("email"))}
	if result := validator.Validate(form); !result.Valid {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification(result.Message()), http.StatusUnprocessableEntity)
		return nil
	}

	target, err := deps.Pool.Queries().GetUserByEmail(ctx, form.Email)
	if errors.Is(err, sql.ErrNoRows) {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification("Der Benutzer konnte nicht gefunden werden."), http.StatusUnprocessableEntity)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	linked, err := deps.Pool.Queries().ContactExists(ctx, db.ContactPairParams{UserA: user.ID, UserB: target.ID})
	if err != nil {
		return fmt.Errorf("failed to check contact: %w", err)
	}
	if !policies.CanRequestContact(user, target, linked) {
		logging.AddToEvent(ctx, slog.String("outcome", "rejected"), slog.Bool("already_linked", linked))
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification("Diese Kontaktanfrage ist nicht möglich."), http.StatusUnprocessableEntity)
		return nil
	}

	var contact db.Contact
	err = deps.Pool.WithTx(ctx, func(q *db.Queries) error {
		var err error
		contact, err = q.CreateContactRequest(ctx, db.CreateContactRequestParams{FromUserID: user.ID, ToUserID: target.ID})
		if err != nil {
			return fmt.Errorf("create contact request: %w", err)
		}
		_, err = worker.EnqueueContactRequestEmail(ctx, q, target.ID, worker.ContactRequestEmailPayload{
			ToEmail:  target.Email,
			FromName: user.DisplayName(),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save contact request: %w", err)
	}

	deps.Broker.Notify(target.ID, EventContactRequest, user.DisplayName())

	logging.AddToEvent(ctx, slog.Int64("contact_id", contact.ID), slog.Int64("to_user_id", target.ID))
	redirect(w, r, withFlag(routes.Contacts, view.RedirectSuccess))
	return nil
}

func loadContact(deps HandlerDeps, r *http.Request) (db.Contact, bool, error) {
	id, ok := pathID(r)
	if !ok {
		return db.Contact{}, false, nil
	}
	contact, err := deps.Pool.Queries().GetContact(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Contact{}, false, nil
	}
	if err != nil {
		return db.Contact{}, false, fmt.Errorf("failed to load contact: %w", err)
	}
	return contact, true, nil
}

func handleConfirmContact(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r)
	contact, found, err := loadContact(deps, r)
	if err != nil {
		return err
	}
	if !found || !policies.CanConfirmContact(user, contact) {
		redirect(w, r, withFlag(routes.Contacts, view.RedirectError))
		return nil
	}

	if _, err := deps.Pool.QueriesWrite().ConfirmContact(r.Context(), db.ConfirmContactParams{
		ID:       contact.ID,
		ToUserID: user.ID,
	}); err != nil {
		return fmt.Errorf("failed to confirm contact: %w", err)
	}

	logging.AddToEvent(r.Context(), slog.Int64("contact_id", contact.ID))
	redirect(w, r, withFlag(routes.Contacts, view.RedirectSuccess))
	return nil
}

func handleDeleteContact(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r)
	contact, found, err := loadContact(deps, r)
	if err != nil {
		return err
	}
	if !found || !policies.CanDeleteContact(user, contact) {
		redirect(w, r, withFlag(routes.Contacts, view.RedirectError))
		return nil
	}

	if _, err := deps.Pool.QueriesWrite().DeleteContact(r.Context(), db.DeleteContactParams{
		ID:     contact.ID,
		UserID: user.ID,
	}); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	logging.AddToEvent(r.Context(), slog.Int64("contact_id", contact.ID))
	redirect(w, r, withFlag(routes.Contacts, view.RedirectSuccess))
	return nil
}
