package i18n

import (
	"context"

	"github.com/preiskampf/preiskampf/internal/contextkeys"
)

const DefaultLocale = "de"

type Translation struct {
	Login           string
	Logout          string
	Register        string
	Email           string
	Password        string
	Username        string
	Address         string
	Search          string
	Save            string
	Delete          string
	Confirm         string
	Previous        string
	Next            string
	Price           string
	NoPrice         string
	ShoppingLists   string
	NewShoppingList string
	Name            string
	Emoji           string
	Items           string
	Contacts        string
	AddContact      string
	Incoming        string
	Outgoing        string
	Posts           string
	NewPost         string
	NotFound        string
	Empty           string
}

var deDE = Translation{
	Login:           "Anmelden",
	Logout:          "Abmelden",
	Register:        "Registrieren",
	Email:           "E-Mail",
	Password:        "Passwort",
	Username:        "Benutzername",
	Address:         "Adresse",
	Search:          "Suchen",
	Save:            "Speichern",
	Delete:          "Löschen",
	Confirm:         "Bestätigen",
	Previous:        "Zurück",
	Next:            "Weiter",
	Price:           "Preis",
	NoPrice:         "Kein Preis bekannt",
	ShoppingLists:   "Einkaufszettel",
	NewShoppingList: "Neuer Einkaufszettel",
	Name:            "Name",
	Emoji:           "Emoji",
	Items:           "Produkte",
	Contacts:        "Kontakte",
	AddContact:      "Kontakt hinzufügen",
	Incoming:        "Erhaltene Anfragen",
	Outgoing:        "Gesendete Anfragen",
	Posts:           "Beiträge",
	NewPost:         "Neuer Beitrag",
	NotFound:        "Seite nicht gefunden",
	Empty:           "Keine Einträge",
}

var enUS = Translation{
	Login:           "Login",
	Logout:          "Logout",
	Register:        "Register",
	Email:           "Email",
	Password:        "Password",
	Username:        "Username",
	Address:         "Address",
	Search:          "Search",
	Save:            "Save",
	Delete:          "Delete",
	Confirm:         "Confirm",
	Previous:        "Previous",
	Next:            "Next",
	Price:           "Price",
	NoPrice:         "No price known",
	ShoppingLists:   "Shopping lists",
	NewShoppingList: "New shopping list",
	Name:            "Name",
	Emoji:           "Emoji",
	Items:           "Products",
	Contacts:        "Contacts",
	AddContact:      "Add contact",
	Incoming:        "Incoming requests",
	Outgoing:        "Sent requests",
	Posts:           "Posts",
	NewPost:         "New post",
	NotFound:        "Page not found",
	Empty:           "Nothing here yet",
}

func Supported(locale string) bool {
	return locale == "de" || locale == "en"
}

// Locale retorna o idioma guardado pelo middleware ou o padrão.
func Locale(ctx context.Context) string {
	if locale, ok := ctx.Value(contextkeys.LocaleKey).(string); ok && Supported(locale) {
		return locale
	}
	return DefaultLocale
}

// Get retorna as traduções baseadas no idioma do contexto
func Get(ctx context.Context) Translation {
	if Locale(ctx) == "en" {
		return enUS
	}
	return deDE
}
