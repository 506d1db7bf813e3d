package db

import (
	"context"
)

const createContactRequest = `
INSERT INTO contacts (from_user_id, to_user_id) VALUES (?, ?)
RETURNING id, from_user_id, to_user_id, confirmed, created_at
`

type CreateContactRequestParams struct {
	FromUserID int64
	ToUserID   int64
}

func (q *Queries) CreateContactRequest(ctx context.Context, arg CreateContactRequestParams) (Contact, error) {
	var i Contact
	err := q.db.QueryRowContext(ctx, createContactRequest, arg.FromUserID, arg.ToUserID).Scan(
		&i.ID,
		&i.FromUserID,
		&i.ToUserID,
		&i.Confirmed,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

const getContact = `SELECT id, from_user_id, to_user_id, confirmed, created_at FROM contacts WHERE id = ? LIMIT 1`

func (q *Queries) GetContact(ctx context.Context, id int64) (Contact, error) {
	var i Contact
	err := q.db.QueryRowContext(ctx, getContact, id).Scan(
		&i.ID,
		&i.FromUserID,
		&i.ToUserID,
		&i.Confirmed,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

const contactExists = `
SELECT EXISTS(
    SELECT 1 FROM contacts
    WHERE (from_user_id = ?1 AND to_user_id = ?2) OR (from_user_id = ?2 AND to_user_id = ?1)
)
`

type ContactPairParams struct {
	UserA int64
	UserB int64
}

// ContactExists vale para pedidos pendentes e confirmados, em qualquer direção.
func (q *Queries) ContactExists(ctx context.Context, arg ContactPairParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, contactExists, arg.UserA, arg.UserB).Scan(&exists)
	return exists, err
}

const areContacts = `
SELECT EXISTS(
    SELECT 1 FROM contacts
    WHERE confirmed = 1
      AND ((from_user_id = ?1 AND to_user_id = ?2) OR (from_user_id = ?2 AND to_user_id = ?1))
)
`

func (q *Queries) AreContacts(ctx context.Context, arg ContactPairParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, areContacts, arg.UserA, arg.UserB).Scan(&exists)
	return exists, err
}

const confirmContact = `UPDATE contacts SET confirmed = 1 WHERE id = ? AND to_user_id = ? AND confirmed = 0`

type ConfirmContactParams struct {
	ID       int64
	ToUserID int64
}

func (q *Queries) ConfirmContact(ctx context.Context, arg ConfirmContactParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, confirmContact, arg.ID, arg.ToUserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteContact = `DELETE FROM contacts WHERE id = ?1 AND (from_user_id = ?2 OR to_user_id = ?2)`

type DeleteContactParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteContact(ctx context.Context, arg DeleteContactParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteContact, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listContacts = `
SELECT c.id, c.from_user_id, c.to_user_id, c.confirmed, c.created_at,
    u.id, u.email, u.username
FROM contacts c
JOIN users u ON u.id = CASE WHEN c.from_user_id = ?1 THEN c.to_user_id ELSE c.from_user_id END
WHERE c.from_user_id = ?1 OR c.to_user_id = ?1
ORDER BY c.created_at DESC, c.id DESC
`

type ContactRow struct {
	Contact
	OtherUserID   int64
	OtherEmail    string
	OtherUsername string
}

// Incoming indica um pedido recebido por userID.
func (c ContactRow) Incoming(userID int64) bool {
	return c.ToUserID == userID
}

func (c ContactRow) OtherName() string {
	if c.OtherUsername != "" {
		return c.OtherUsername
	}
	return c.OtherEmail
}

func (q *Queries) ListContacts(ctx context.Context, userID int64) ([]ContactRow, error) {
	rows, err := q.db.QueryContext(ctx, listContacts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ContactRow
	for rows.Next() {
		var i ContactRow
		if err := rows.Scan(
			&i.ID,
			&i.FromUserID,
			&i.ToUserID,
			&i.Confirmed,
			scanTime(&i.CreatedAt),
			&i.OtherUserID,
			&i.OtherEmail,
			&i.OtherUsername,
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
