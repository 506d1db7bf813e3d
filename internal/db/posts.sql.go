package db

import (
	"context"
)

const createPost = `
INSERT INTO posts (user_id, body) VALUES (?, ?)
RETURNING id, user_id, body, created_at
`

type CreatePostParams struct {
	UserID int64
	Body   string
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	var i Post
	err := q.db.QueryRowContext(ctx, createPost, arg.UserID, arg.Body).Scan(
		&i.ID,
		&i.UserID,
		&i.Body,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

type PostRow struct {
	Post
	AuthorEmail    string
	AuthorUsername string
}

func (p PostRow) AuthorName() string {
	if p.AuthorUsername != "" {
		return p.AuthorUsername
	}
	return p.AuthorEmail
}

func scanPostRow(row interface{ Scan(...any) error }) (PostRow, error) {
	var i PostRow
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Body,
		scanTime(&i.CreatedAt),
		&i.AuthorEmail,
		&i.AuthorUsername,
	)
	return i, err
}

// A timeline mostra posts do próprio usuário e dos contatos confirmados.
const listTimeline = `
SELECT p.id, p.user_id, p.body, p.created_at, u.email, u.username
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.user_id = ?1
   OR p.user_id IN (
        SELECT CASE WHEN c.from_user_id = ?1 THEN c.to_user_id ELSE c.from_user_id END
        FROM contacts c
        WHERE c.confirmed = 1 AND (c.from_user_id = ?1 OR c.to_user_id = ?1)
   )
ORDER BY p.created_at DESC, p.id DESC
LIMIT ?2 OFFSET ?3
`

type ListTimelineParams struct {
	UserID int64
	Window
}

func (q *Queries) ListTimeline(ctx context.Context, arg ListTimelineParams) ([]PostRow, error) {
	rows, err := q.db.QueryContext(ctx, listTimeline, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PostRow
	for rows.Next() {
		i, err := scanPostRow(rows)
		if err != nil {
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

const getPost = `
SELECT p.id, p.user_id, p.body, p.created_at, u.email, u.username
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.id = ?
LIMIT 1
`

func (q *Queries) GetPost(ctx context.Context, id int64) (PostRow, error) {
	return scanPostRow(q.db.QueryRowContext(ctx, getPost, id))
}
