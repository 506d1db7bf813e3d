package db

import (
	"context"
	"database/sql"
)

const userColumns = `id, email, password_hash, username, address, latitude, longitude, is_active, confirmation_token, selected_shopping_list_id, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Username,
		&i.Address,
		&i.Latitude,
		&i.Longitude,
		&i.IsActive,
		&i.ConfirmationToken,
		&i.SelectedShoppingListID,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

const createUser = `
INSERT INTO users (email, password_hash, username, is_active, confirmation_token)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	Email             string
	PasswordHash      string
	Username          string
	IsActive          bool
	ConfirmationToken sql.NullString
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Email,
		arg.PasswordHash,
		arg.Username,
		arg.IsActive,
		arg.ConfirmationToken,
	)
	return scanUser(row)
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const activateUser = `
UPDATE users SET is_active = 1, confirmation_token = NULL
WHERE confirmation_token = ?
RETURNING ` + userColumns

func (q *Queries) ActivateUser(ctx context.Context, token string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, activateUser, token))
}

const updateUserProfile = `
UPDATE users SET username = ?, address = ?, latitude = ?, longitude = ?
WHERE id = ?
`

type UpdateUserProfileParams struct {
	Username  string
	Address   string
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
	ID        int64
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) error {
	_, err := q.db.ExecContext(ctx, updateUserProfile,
		arg.Username,
		arg.Address,
		arg.Latitude,
		arg.Longitude,
		arg.ID,
	)
	return err
}

const setSelectedShoppingList = `UPDATE users SET selected_shopping_list_id = ? WHERE id = ?`

type SetSelectedShoppingListParams struct {
	SelectedShoppingListID sql.NullInt64
	ID                     int64
}

func (q *Queries) SetSelectedShoppingList(ctx context.Context, arg SetSelectedShoppingListParams) error {
	_, err := q.db.ExecContext(ctx, setSelectedShoppingList, arg.SelectedShoppingListID, arg.ID)
	return err
}
