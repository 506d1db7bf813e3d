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
	"github.com/preiskampf/preiskampf/internal/metrics"
	"github.com/preiskampf/preiskampf/internal/routes"
	"github.com/preiskampf/preiskampf/internal/view"
	"github.com/preiskampf/preiskampf/internal/view/pages"
)

func handleProducts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	rc := view.FromContext(ctx)
	state := rc.State
	paging := rc.Pagination()

	user, err := deps.Pool.Queries().GetUserByID(ctx, currentUser(r).ID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	total, err := deps.Pool.Queries().CountProducts(ctx, state.Search())
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	sortBy := state.SortBy(db.ProductDefaultSort)
	items, err := deps.Pool.Queries().ListProducts(ctx, db.ListProductsParams{
		Search:         state.Search(),
		Sort:           db.SortSpec{Field: sortBy, Ascending: state.IsAscending()},
		ShoppingListID: user.SelectedShoppingListID,
		Window:         db.NewWindow(paging.Limit(), paging.Offset()),
	})
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	logging.AddToEvent(ctx,
		slog.String("search", state.Search()),
		slog.Int64("total_products", total),
		slog.Int("page", int(paging.Page)),
	)
	metrics.ListPagesRendered.WithLabelValues("products", "count").Inc()

	templ.Handler(pages.Products(pages.ProductList{
		Items:          items,
		Pagination:     paging.WithTotal(uint(total)),
		Search:         state.Search(),
		SortBy:         sortBy,
		Ascending:      state.IsAscending(),
		ShoppingListID: user.SelectedShoppingListID.Int64,
	})).ServeHTTP(w, r)
	return nil
}

func handleProductDetail(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil
	}
	logging.AddToEvent(r.Context(), slog.Int64("product_id", id))

	detail, err := deps.Catalog.Product(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		redirect(w, r, routes.ProductNotFound(id))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}

	templ.Handler(pages.ProductDetail(detail)).ServeHTTP(w, r)
	return nil
}
