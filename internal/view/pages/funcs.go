package pages

import (
	"database/sql"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/preiskampf/preiskampf/internal/catalog"
	"github.com/preiskampf/preiskampf/internal/routes"
)

var funcs = template.FuncMap{
	"money": func(cents sql.NullInt64, currency sql.NullString) string {
		return catalog.NewMoney(cents, currency).String()
	},
	"cents": func(cents int64, currency string) string {
		return catalog.Money{Cents: cents, Currency: currency, Valid: true}.String()
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02.01.2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("02.01.2006 15:04")
	},
	"inc": func(n uint) uint { return n + 1 },
	"points": func(d catalog.PriceDiagram) string {
		parts := make([]string, 0, len(d.Points))
		for _, p := range d.Points {
			parts = append(parts, fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
		}
		return strings.Join(parts, " ")
	},
	"diagramWidth":  func() int { return catalog.DiagramWidth },
	"diagramHeight": func() int { return catalog.DiagramHeight },

	"productURL":            routes.ProductDetail,
	"shoppingListURL":       routes.ShoppingListDetail,
	"shoppingListDeleteURL": routes.ShoppingListDeleteURL,
	"selectListURL":         routes.SelectShoppingListURL,
	"contactConfirmURL":     routes.ContactConfirm,
	"contactDeleteURL":      routes.ContactDelete,
	"postURL":               routes.PostDetail,
	"like": func(productID, shoppingListID int64, onList bool) pageData {
		return pageData{Data: ToggleLike{ProductID: productID, ShoppingListID: shoppingListID, OnList: onList}}
	},
	"withQuery": func(path, rawQuery string) string {
		if rawQuery == "" {
			return path
		}
		return path + "?" + rawQuery
	},
	"route": func(name string) string {
		return routeNames[name]
	},
}

// routeNames expõe as rotas fixas aos templates.
var routeNames = map[string]string{
	"home":               routes.Home,
	"imprint":            routes.Imprint,
	"about":              routes.About,
	"events":             routes.Events,
	"login":              routes.Login,
	"authorize":          routes.Authorize,
	"register":           routes.Register,
	"signup":             routes.SignUp,
	"logout":             routes.Logout,
	"products":           routes.Products,
	"shoppingLists":      routes.ShoppingLists,
	"shoppingListCreate": routes.ShoppingListCreate,
	"shoppingListSave":   routes.ShoppingListSave,
	"toggleLike":         routes.ShoppingListToggleLike,
	"profile":            routes.Profile,
	"userSave":           routes.UserSave,
	"contacts":           routes.Contacts,
	"contactRequest":     routes.ContactRequest,
	"posts":              routes.Posts,
}
