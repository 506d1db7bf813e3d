package pages

import (
	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/catalog"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/view"
)

// Home recebe a mensagem flash da sessão, vazia na maioria das visitas.
func Home(flash string) templ.Component { return render("home", flash) }

func Imprint() templ.Component  { return render("imprint", nil) }
func About() templ.Component    { return render("about", nil) }
func NotFound() templ.Component { return render("not_found", nil) }

// AuthForm é o estado dos formulários de login e cadastro.
type AuthForm struct {
	Email string
	Error string
}

func Login(form AuthForm) templ.Component    { return render("login", form) }
func Register(form AuthForm) templ.Component { return render("register", form) }

// Activated confirma a ativação da conta; Error vem preenchido quando o token
// não serve.
func Activated(errMsg string) templ.Component { return render("activated", errMsg) }

type ProductList struct {
	Items          []db.ProductListRow
	Pagination     view.Pagination
	Search         string
	SortBy         string
	Ascending      bool
	ShoppingListID int64
}

func Products(data ProductList) templ.Component { return render("products", data) }

func ProductDetail(detail catalog.ProductDetail) templ.Component {
	return render("product_detail", detail)
}

// ToggleLike é o estado do botão de um produto na lista selecionada.
type ToggleLike struct {
	ProductID      int64
	ShoppingListID int64
	OnList         bool
}

func ToggleLikeButton(data ToggleLike) templ.Component { return fragment("toggle_like", data) }

type ShoppingLists struct {
	Lists      []db.ShoppingListSummary
	Pagination view.Pagination
	SelectedID int64
}

func ShoppingListOverview(data ShoppingLists) templ.Component {
	return render("shopping_lists", data)
}

type ShoppingListDetail struct {
	IsCreate   bool
	List       db.ShoppingList
	Items      []db.ShoppingListItemRow
	Pagination view.Pagination
	Total      catalog.Money
}

func ShoppingList(data ShoppingListDetail) templ.Component {
	return render("shopping_list_detail", data)
}

type Profile struct {
	User  db.User
	Lists []db.ShoppingListSummary
}

func ProfilePage(data Profile) templ.Component { return render("profile", data) }

type Contacts struct {
	UserID    int64
	Confirmed []db.ContactRow
	Incoming  []db.ContactRow
	Outgoing  []db.ContactRow
}

func ContactsPage(data Contacts) templ.Component { return render("contacts", data) }

type Timeline struct {
	Posts      []db.PostRow
	Pagination view.Pagination
}

func Posts(data Timeline) templ.Component { return render("posts", data) }

func PostDetail(post db.PostRow) templ.Component { return render("post_detail", post) }

// Notification é o banner fora de banda usado em respostas htmx.
func Notification(n *view.Notification) templ.Component { return fragment("notification", n) }
