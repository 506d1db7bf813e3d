package policies

import (
	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/db"
)

// Listas de compras são privadas: só o dono vê, edita ou apaga.
func CanViewShoppingList(user auth.SessionUser, list db.ShoppingList) bool {
	return user.ID != 0 && user.ID == list.UserID
}

func CanEditShoppingList(user auth.SessionUser, list db.ShoppingList) bool {
	return CanViewShoppingList(user, list)
}
