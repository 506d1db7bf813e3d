package routes

import "strconv"

const (
	Home     = "/"
	Imprint  = "/imprint"
	About    = "/about"
	Health   = "/health"
	Metrics  = "/metrics"
	Events   = "/events"
	Assets   = "/assets/"
	NotFound = "/nicht-gefunden"

	Login     = "/login"
	Authorize = "/authorize"
	Register  = "/registrieren"
	SignUp    = "/register"
	Logout    = "/logout"
	Activate  = "/activate"

	Products = "/einkaufstour"
	Product  = "/produkt"

	ShoppingLists          = "/einkaufszettel"
	ShoppingListCreate     = "/einkaufszettel/anlegen"
	ShoppingListSave       = "/shopping_list/save"
	ShoppingListDelete     = "/shopping_list/delete"
	ShoppingListToggleLike = "/shopping_list/toggle-like"

	Profile                = "/mein-profil"
	UserSave               = "/user/save"
	UserSelectShoppingList = "/user/save_selected_shopping_list"
	Contacts               = "/contacts"
	ContactRequest         = "/contacts/save_contact_request"
	Posts                  = "/posts"
)

func ProductDetail(id int64) string {
	return Product + "/" + strconv.FormatInt(id, 10)
}

func ProductNotFound(id int64) string {
	return NotFound + "/produkt/" + strconv.FormatInt(id, 10)
}

func ShoppingListDetail(id int64) string {
	return ShoppingLists + "/" + strconv.FormatInt(id, 10)
}

func ShoppingListDeleteURL(id int64) string {
	return ShoppingListDelete + "/" + strconv.FormatInt(id, 10)
}

func SelectShoppingListURL(id int64) string {
	return UserSelectShoppingList + "/" + strconv.FormatInt(id, 10)
}

func ContactConfirm(id int64) string {
	return Contacts + "/" + strconv.FormatInt(id, 10) + "/bestaetigen"
}

func ContactDelete(id int64) string {
	return Contacts + "/" + strconv.FormatInt(id, 10)
}

func PostDetail(id int64) string {
	return Posts + "/" + strconv.FormatInt(id, 10)
}
