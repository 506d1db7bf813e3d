package web

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/policies"
	"github.com/preiskampf/preiskampf/internal/validator"
	"github.com/preiskampf/preiskampf/internal/view"
	"github.com/preiskampf/preiskampf/internal/view/pages"
)

// profileListLimit limita os einkaufszettel exibidos para seleção no perfil.
const profileListLimit = 100

func handleProfile(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := deps.Pool.Queries().GetUserByID(ctx, currentUser(r).ID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	lists, err := deps.Pool.Queries().ListShoppingLists(ctx, db.ListShoppingListsParams{
		UserID: user.ID,
		Sort:   db.SortSpec{Field: "name", Ascending: true},
		Window: db.NewWindow(profileListLimit, 0),
	})
	if err != nil {
		return fmt.Errorf("failed to list shopping lists: %w", err)
	}

	templ.Handler(pages.ProfilePage(pages.Profile{User: user, Lists: lists})).ServeHTTP(w, r)
	return nil
}

// parseCoordinate aceita vírgula decimal; vazio significa ausente.
func parseCoordinate(raw string) (*float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func handleSaveProfile(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user := currentUser(r)

	targetID, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil || !policies.CanUpdateUser(user, targetID) {
		logging.AddToEvent(ctx, slog.String("outcome", "forbidden"))
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification("Du kannst nur dein eigenes Profil bearbeiten."), http.StatusForbidden)
		return nil
	}

	lat, latErr := parseCoordinate(r.FormValue("latitude"))
	lng, lngErr := parseCoordinate(r.FormValue("longitude"))
	if latErr != nil || lngErr != nil {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification("Koordinaten sind ungültig."), http.StatusUnprocessableEntity)
		return nil
	}

	form := validator.ProfileForm{
		Username:  validator.Sanitize(r.FormValue("username")),
		Address:   validator.Sanitize(r.FormValue("address")),
		Latitude:  lat,
		Longitude: lng,
	}
	if result := validator.Validate(form); !result.Valid {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification(result.Message()), http.StatusUnprocessableEntity)
		return nil
	}

	if err := deps.Pool.QueriesWrite().UpdateUserProfile(ctx, db.UpdateUserProfileParams{
		Username:  form.Username,
		Address:   form.Address,
		Latitude:  nullFloat(form.Latitude),
		Longitude: nullFloat(form.Longitude),
		ID:        user.ID,
	}); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	// o cookie carrega o username exibido no cabeçalho
	updated := user
	updated.Username = form.Username
	if err := deps.Keys.SetCookie(w, updated, deps.Config.IsProd()); err != nil {
		return fmt.Errorf("failed to refresh auth cookie: %w", err)
	}

	logging.AddToEvent(ctx, slog.String("outcome", "success"))
	notify(w, r, view.SuccessNotification(""), http.StatusOK)
	return nil
}

// handleSelectShoppingList troca a lista selecionada e devolve as client
// actions que movem a classe "selected" no perfil.
func handleSelectShoppingList(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user := currentUser(r)

	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil
	}

	list, err := deps.Pool.Queries().GetShoppingList(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load shopping list: %w", err)
	}
	if err != nil || !policies.CanEditShoppingList(user, list) {
		w.Header().Set("HX-Reswap", "none")
		notify(w, r, view.ErrorNotification("Dieser Einkaufszettel gehört dir nicht."), http.StatusForbidden)
		return nil
	}

	dbUser, err := deps.Pool.Queries().GetUserByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := deps.Pool.QueriesWrite().SetSelectedShoppingList(ctx, db.SetSelectedShoppingListParams{
		SelectedShoppingListID: sql.NullInt64{Int64: id, Valid: true},
		ID:                     user.ID,
	}); err != nil {
		return fmt.Errorf("failed to select shopping list: %w", err)
	}

	actions := &ClientActions{}
	if prev := dbUser.SelectedShoppingListID; prev.Valid && prev.Int64 != id {
		selector := "#shopping-list-" + strconv.FormatInt(prev.Int64, 10)
		actions.Add(selector, "setAttribute", "xui-hx-disabled", "0")
		actions.Add(selector, "removeClass", "selected")
		actions.Add(selector, "addClass", "pulsing", "cursor-pointer")
	}
	selector := "#shopping-list-" + strconv.FormatInt(id, 10)
	actions.Add(selector, "setAttribute", "xui-hx-disabled", "1")
	actions.Add(selector, "removeClass", "pulsing", "cursor-pointer")
	actions.Add(selector, "addClass", "selected")
	if err := actions.Write(w); err != nil {
		return fmt.Errorf("failed to encode client actions: %w", err)
	}

	logging.AddToEvent(ctx, slog.Int64("selected_shopping_list_id", id))
	notify(w, r, view.SuccessNotification("Auswahl gespeichert"), http.StatusOK)
	return nil
}
