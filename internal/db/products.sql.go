package db

import (
	"context"
	"database/sql"
	"fmt"
)

// ProductSortColumns são os valores aceitos em sort_by na listagem de produtos.
var ProductSortColumns = map[string]string{
	"name":       "p.name",
	"created_at": "p.created_at",
	"price":      "current_price_cents",
}

const ProductDefaultSort = "created_at"

const countProducts = `
SELECT COUNT(*) FROM products p
WHERE ? = '' OR instr(lower(p.name), lower(?)) > 0
`

func (q *Queries) CountProducts(ctx context.Context, search string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countProducts, search, search).Scan(&count)
	return count, err
}

const listProducts = `
SELECT
    p.id, p.name, p.description, p.image_url, p.created_at,
    (SELECT pr.amount_cents FROM prices pr WHERE pr.product_id = p.id ORDER BY pr.created_at DESC, pr.id DESC LIMIT 1) AS current_price_cents,
    (SELECT pr.currency FROM prices pr WHERE pr.product_id = p.id ORDER BY pr.created_at DESC, pr.id DESC LIMIT 1) AS currency,
    EXISTS(SELECT 1 FROM shopping_list_items i WHERE i.product_id = p.id AND i.shopping_list_id = ?) AS on_list
FROM products p
WHERE ? = '' OR instr(lower(p.name), lower(?)) > 0
ORDER BY %s, p.id
LIMIT ? OFFSET ?
`

type ListProductsParams struct {
	Search         string
	Sort           SortSpec
	ShoppingListID sql.NullInt64
	Window
}

type ProductListRow struct {
	Product
	CurrentPriceCents sql.NullInt64
	Currency          sql.NullString
	OnList            bool
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]ProductListRow, error) {
	query := fmt.Sprintf(listProducts, arg.Sort.OrderBy(ProductSortColumns, ProductDefaultSort))
	rows, err := q.db.QueryContext(ctx, query,
		arg.ShoppingListID,
		arg.Search,
		arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProductListRow
	for rows.Next() {
		var i ProductListRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.ImageUrl,
			scanTime(&i.CreatedAt),
			&i.CurrentPriceCents,
			&i.Currency,
			&i.OnList,
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

const getProduct = `SELECT id, name, description, image_url, created_at FROM products WHERE id = ? LIMIT 1`

func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	var i Product
	err := q.db.QueryRowContext(ctx, getProduct, id).Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.ImageUrl,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

const listProductPrices = `
SELECT pr.id, pr.product_id, pr.market_id, pr.amount_cents, pr.currency, pr.created_at, m.name
FROM prices pr
JOIN markets m ON m.id = pr.market_id
WHERE pr.product_id = ?
ORDER BY pr.created_at ASC, pr.id ASC
`

type PriceWithMarket struct {
	Price
	MarketName string
}

func (q *Queries) ListProductPrices(ctx context.Context, productID int64) ([]PriceWithMarket, error) {
	rows, err := q.db.QueryContext(ctx, listProductPrices, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PriceWithMarket
	for rows.Next() {
		var i PriceWithMarket
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.MarketID,
			&i.AmountCents,
			&i.Currency,
			scanTime(&i.CreatedAt),
			&i.MarketName,
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

const createMarket = `
INSERT INTO markets (name) VALUES (?)
ON CONFLICT(name) DO UPDATE SET name = excluded.name
RETURNING id, name, created_at
`

func (q *Queries) CreateMarket(ctx context.Context, name string) (Market, error) {
	var i Market
	err := q.db.QueryRowContext(ctx, createMarket, name).Scan(&i.ID, &i.Name, scanTime(&i.CreatedAt))
	return i, err
}

const createProduct = `
INSERT INTO products (name, description, image_url) VALUES (?, ?, ?)
RETURNING id, name, description, image_url, created_at
`

type CreateProductParams struct {
	Name        string
	Description string
	ImageUrl    string
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	var i Product
	err := q.db.QueryRowContext(ctx, createProduct, arg.Name, arg.Description, arg.ImageUrl).Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.ImageUrl,
		scanTime(&i.CreatedAt),
	)
	return i, err
}

const createPrice = `
INSERT INTO prices (product_id, market_id, amount_cents, currency, created_at)
VALUES (?, ?, ?, ?, datetime('now', ?))
`

type CreatePriceParams struct {
	ProductID   int64
	MarketID    int64
	AmountCents int64
	Currency    string
	// DaysAgo desloca created_at para montar histórico.
	DaysAgo int
}

func (q *Queries) CreatePrice(ctx context.Context, arg CreatePriceParams) error {
	_, err := q.db.ExecContext(ctx, createPrice,
		arg.ProductID,
		arg.MarketID,
		arg.AmountCents,
		arg.Currency,
		fmt.Sprintf("-%d days", arg.DaysAgo),
	)
	return err
}
