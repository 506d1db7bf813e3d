package web

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/catalog"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/metrics"
	"github.com/preiskampf/preiskampf/internal/policies"
	"github.com/preiskampf/preiskampf/internal/routes"
	"github.com/preiskampf/preiskampf/internal/validator"
	"github.com/preiskampf/preiskampf/internal/view"
	"github.com/preiskampf/preiskampf/internal/view/pages"
)

const msgNoSelectedList = "Bitte wähle zuerst einen Einkaufszettel in deinem Profil aus."

func handleShoppingLists(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	rc := view.FromContext(ctx)
	paging := rc.Pagination()
	user := currentUser(r)

	total, err := deps.Pool.Queries().CountShoppingLists(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to count shopping lists: %w", err)
	}

	lists, err := deps.Pool.Queries().ListShoppingLists(ctx, db.ListShoppingListsParams{
		UserID: user.ID,
		Sort:   db.SortSpec{Field: rc.State.SortBy("created_at"), Ascending: rc.State.IsAscending()},
		Window: db.NewWindow(paging.Limit(), paging.Offset()),
	})
	if err != nil {
		return fmt.Errorf("failed to list shopping lists: %w", err)
	}

	// página além do fim volta para a primeira, mantendo busca e ordenação
	if len(lists) == 0 && paging.Page > 0 {
		logging.AddToEvent(ctx, slog.String("outcome", "page_out_of_range"))
		redirect(w, r, rc.PreserveQueryState(0, true))
		return nil
	}

	dbUser, err := deps.Pool.Queries().GetUserByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	metrics.ListPagesRendered.WithLabelValues("shopping_lists", "count").Inc()
	templ.Handler(pages.ShoppingListOverview(pages.ShoppingLists{
		Lists:      lists,
		Pagination: paging.WithTotal(uint(total)),
		SelectedID: dbUser.SelectedShoppingListID.Int64,
	})).ServeHTTP(w, r)
	return nil
}

func handleShoppingListDetail(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	rc := view.FromContext(ctx)

	if rc.IsCreateOperation() {
		logging.AddToEvent(ctx, slog.String("operation", view.OperationCreate.String()))
		templ.Handler(pages.ShoppingList(pages.ShoppingListDetail{IsCreate: true})).ServeHTTP(w, r)
		return nil
	}

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil
	}
	logging.AddToEvent(ctx, slog.Int64("shopping_list_id", id))

	list, err := deps.Pool.Queries().GetShoppingList(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}
	if err != nil || !policies.CanViewShoppingList(currentUser(r), list) {
		redirect(w, r, routes.ShoppingLists)
		return nil
	}

	paging := rc.Pagination()
	items, err := deps.Pool.Queries().ListShoppingListItems(ctx, db.ListShoppingListItemsParams{
		ShoppingListID: id,
		Window:         db.NewWindow(paging.FetchLimit(), paging.Offset()),
	})
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	paging = paging.WithFetchedCount(uint(len(items)))
	items = view.Truncate(items, paging.PageSize)

	prices := make([]catalog.Money, 0, len(items))
	for _, it := range items {
		prices = append(prices, catalog.NewMoney(it.CurrentPriceCents, it.Currency))
	}

	total, skipped := catalog.Sum(prices)
	if skipped > 0 {
		logging.AddToEvent(ctx, slog.Int("total_skipped_currency", skipped))
	}

	metrics.ListPagesRendered.WithLabelValues("shopping_list_items", "overfetch").Inc()
	templ.Handler(pages.ShoppingList(pages.ShoppingListDetail{
		List:       list,
		Items:      items,
		Pagination: paging,
		Total:      total,
	})).ServeHTTP(w, r)
	return nil
}

// handleSaveShoppingList cria (sem id) ou atualiza a lista do usuário.
func handleSaveShoppingList(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user := currentUser(r)

	form := validator.ShoppingListForm{
		Name:  validator.Sanitize(r.FormValue("name")),
		Emoji: validator.Sanitize(r.FormValue("emoji")),
	}
	if result := validator.Validate(form); !result.Valid {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification(result.Message()), http.StatusUnprocessableEntity)
		return nil
	}

	rawID := r.FormValue("id")
	if rawID == "" {
		list, err := deps.Pool.QueriesWrite().CreateShoppingList(ctx, db.CreateShoppingListParams{
			UserID: user.ID,
			Name:   form.Name,
			Emoji:  form.Emoji,
		})
		if err != nil {
			return fmt.Errorf("failed to create shopping list: %w", err)
		}
		logging.AddToEvent(ctx, slog.String("operation", "create"), slog.Int64("shopping_list_id", list.ID))
		redirect(w, r, withFlag(routes.ShoppingListDetail(list.ID), view.RedirectSuccess))
		return nil
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil
	}
	logging.AddToEvent(ctx, slog.String("operation", "update"), slog.Int64("shopping_list_id", id))

	list, err := deps.Pool.Queries().GetShoppingList(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}
	if err != nil || !policies.CanEditShoppingList(user, list) {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification("Dieser Einkaufszettel gehört dir nicht."), http.StatusForbidden)
		return nil
	}

	if _, err := deps.Pool.QueriesWrite().UpdateShoppingList(ctx, db.UpdateShoppingListParams{
		Name:   form.Name,
		Emoji:  form.Emoji,
		ID:     id,
		UserID: user.ID,
	}); err != nil {
		return fmt.Errorf("failed to update shopping list: %w", err)
	}

	notify(w, r, view.SuccessNotification(""), http.StatusOK)
	return nil
}

func handleDeleteShoppingList(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	rc := view.FromContext(ctx)
	user := currentUser(r)
	back := view.PreserveQueryStateWithPath(routes.ShoppingLists, rc.RawQuery, rc.CurrentPage())

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil
	}
	logging.AddToEvent(ctx, slog.Int64("shopping_list_id", id))

	list, err := deps.Pool.Queries().GetShoppingList(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}
	if err != nil || !policies.CanEditShoppingList(user, list) {
		redirect(w, r, withFlag(back, view.RedirectError))
		return nil
	}

	err = deps.Pool.WithTx(ctx, func(q *db.Queries) error {
		if err := q.ClearSelectedShoppingList(ctx, id); err != nil {
			return fmt.Errorf("clear selection: %w", err)
		}
		_, err := q.DeleteShoppingList(ctx, db.DeleteShoppingListParams{ID: id, UserID: user.ID})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}

	redirect(w, r, withFlag(back, view.RedirectSuccess))
	return nil
}

// handleToggleLike põe ou tira um produto da lista informada ou, sem ela, da
// lista selecionada no perfil.
func handleToggleLike(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user := currentUser(r)

	productID, err := strconv.ParseInt(r.FormValue("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil
	}

	listID, _ := strconv.ParseInt(r.FormValue("shopping_list_id"), 10, 64)
	if listID <= 0 {
		dbUser, err := deps.Pool.Queries().GetUserByID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if !dbUser.SelectedShoppingListID.Valid {
			w.Header().Set("HX-Reswap", "none")
			notify(w, r, view.ErrorNotification(msgNoSelectedList), http.StatusUnprocessableEntity)
			return nil
		}
		listID = dbUser.SelectedShoppingListID.Int64
	}

	list, err := deps.Pool.Queries().GetShoppingList(ctx, listID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}
	if err != nil || !policies.CanEditShoppingList(user, list) {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification("Dieser Einkaufszettel gehört dir nicht."), http.StatusForbidden)
		return nil
	}

	if _, err := deps.Pool.Queries().GetProduct(ctx, productID); errors.Is(err, sql.ErrNoRows) {
		handleNotFound(w, r)
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}

	params := db.ShoppingListItemParams{ShoppingListID: listID, ProductID: productID}
	var onList bool
	err = deps.Pool.WithTx(ctx, func(q *db.Queries) error {
		has, err := q.ShoppingListHasProduct(ctx, params)
		if err != nil {
			return err
		}
		if has {
			return q.RemoveShoppingListItem(ctx, params)
		}
		onList = true
		return q.AddShoppingListItem(ctx, params)
	})
	if err != nil {
		return fmt.Errorf("failed to toggle item: %w", err)
	}

	logging.AddToEvent(ctx,
		slog.Int64("product_id", productID),
		slog.Int64("shopping_list_id", listID),
		slog.Bool("on_list", onList),
	)
	templ.Handler(pages.ToggleLikeButton(pages.ToggleLike{
		ProductID:      productID,
		ShoppingListID: listID,
		OnList:         onList,
	})).ServeHTTP(w, r)
	return nil
}
