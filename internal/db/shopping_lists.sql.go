package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var ShoppingListSortColumns = map[string]string{
	"name":       "l.name",
	"created_at": "l.created_at",
}

const countShoppingLists = `SELECT COUNT(*) FROM shopping_lists WHERE user_id = ?`

func (q *Queries) CountShoppingLists(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countShoppingLists, userID).Scan(&count)
	return count, err
}

const listShoppingLists = `
SELECT l.id, l.user_id, l.name, l.emoji, l.created_at,
    (SELECT COUNT(*) FROM shopping_list_items i WHERE i.shopping_list_id = l.id) AS item_count
FROM shopping_lists l
WHERE l.user_id = ?
ORDER BY %s, l.id
LIMIT ? OFFSET ?
`

type ListShoppingListsParams struct {
	UserID int64
	Sort   SortSpec
	Window
}

type ShoppingListSummary struct {
	ShoppingList
	ItemCount int64
}

func (q *Queries) ListShoppingLists(ctx context.Context, arg ListShoppingListsParams) ([]ShoppingListSummary, error) {
	query := fmt.Sprintf(listShoppingLists, arg.Sort.OrderBy(ShoppingListSortColumns, "created_at"))
	rows, err := q.db.QueryContext(ctx, query, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ShoppingListSummary
	for rows.Next() {
		var i ShoppingListSummary
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Name,
			&i.Emoji,
			scanTime(&i.CreatedAt),
			&i.ItemCount,
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

const getShoppingList = `SELECT id, user_id, name, emoji, created_at FROM shopping_lists WHERE id = ? LIMIT 1`

func (q *Queries) GetShoppingList(ctx context.Context, id int64) (ShoppingList, error) {
	var i ShoppingList
	err := q.db.QueryRowContext(ctx, getShoppingList, id).Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Emoji,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

const createShoppingList = `
INSERT INTO shopping_lists (user_id, name, emoji) VALUES (?, ?, ?)
RETURNING id, user_id, name, emoji, created_at
`

type CreateShoppingListParams struct {
	UserID int64
	Name   string
	Emoji  string
}

func (q *Queries) CreateShoppingList(ctx context.Context, arg CreateShoppingListParams) (ShoppingList, error) {
	var i ShoppingList
	err := q.db.QueryRowContext(ctx, createShoppingList, arg.UserID, arg.Name, arg.Emoji).Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Emoji,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

const updateShoppingList = `UPDATE shopping_lists SET name = ?, emoji = ? WHERE id = ? AND user_id = ?`

type UpdateShoppingListParams struct {
	Name   string
	Emoji  string
	ID     int64
	UserID int64
}

// UpdateShoppingList retorna o número de linhas afetadas; 0 significa que a
// lista não existe ou pertence a outro usuário.
func (q *Queries) UpdateShoppingList(ctx context.Context, arg UpdateShoppingListParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateShoppingList, arg.Name, arg.Emoji, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteShoppingList = `DELETE FROM shopping_lists WHERE id = ? AND user_id = ?`

type DeleteShoppingListParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteShoppingList(ctx context.Context, arg DeleteShoppingListParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteShoppingList, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const clearSelectedShoppingList = `
UPDATE users SET selected_shopping_list_id = NULL
WHERE selected_shopping_list_id = ?
`

func (q *Queries) ClearSelectedShoppingList(ctx context.Context, shoppingListID int64) error {
	_, err := q.db.ExecContext(ctx, clearSelectedShoppingList, shoppingListID)
	return err
}

const listShoppingListItems = `
SELECT p.id, p.name, p.description, p.image_url, p.created_at,
    (SELECT pr.amount_cents FROM prices pr WHERE pr.product_id = p.id ORDER BY pr.created_at DESC, pr.id DESC LIMIT 1) AS current_price_cents,
    (SELECT pr.currency FROM prices pr WHERE pr.product_id = p.id ORDER BY pr.created_at DESC, pr.id DESC LIMIT 1) AS currency,
    i.created_at
FROM shopping_list_items i
JOIN products p ON p.id = i.product_id
WHERE i.shopping_list_id = ?
ORDER BY i.created_at DESC, p.id DESC
LIMIT ? OFFSET ?
`

type ListShoppingListItemsParams struct {
	ShoppingListID int64
	Window
}

type ShoppingListItemRow struct {
	Product
	CurrentPriceCents sql.NullInt64
	Currency          sql.NullString
	AddedAt           time.Time
}

func (q *Queries) ListShoppingListItems(ctx context.Context, arg ListShoppingListItemsParams) ([]ShoppingListItemRow, error) {
	rows, err := q.db.QueryContext(ctx, listShoppingListItems, arg.ShoppingListID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ShoppingListItemRow
	for rows.Next() {
		var i ShoppingListItemRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.ImageUrl,
			scanTime(&i.CreatedAt),
			&i.CurrentPriceCents,
			&i.Currency,
			scanTime(&i.AddedAt),
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

const shoppingListHasProduct = `
SELECT EXISTS(SELECT 1 FROM shopping_list_items WHERE shopping_list_id = ? AND product_id = ?)
`

type ShoppingListItemParams struct {
	ShoppingListID int64
	ProductID      int64
}

func (q *Queries) ShoppingListHasProduct(ctx context.Context, arg ShoppingListItemParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, shoppingListHasProduct, arg.ShoppingListID, arg.ProductID).Scan(&exists)
	return exists, err
}

const addShoppingListItem = `
INSERT INTO shopping_list_items (shopping_list_id, product_id) VALUES (?, ?)
ON CONFLICT DO NOTHING
`

func (q *Queries) AddShoppingListItem(ctx context.Context, arg ShoppingListItemParams) error {
	_, err := q.db.ExecContext(ctx, addShoppingListItem, arg.ShoppingListID, arg.ProductID)
	return err
}

const removeShoppingListItem = `DELETE FROM shopping_list_items WHERE shopping_list_id = ? AND product_id = ?`

func (q *Queries) RemoveShoppingListItem(ctx context.Context, arg ShoppingListItemParams) error {
	_, err := q.db.ExecContext(ctx, removeShoppingListItem, arg.ShoppingListID, arg.ProductID)
	return err
}
