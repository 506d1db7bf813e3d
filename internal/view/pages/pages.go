// Package pages renderiza as páginas HTML. Cada página é um template em
// templates/ que define "title" e "content" sobre o layout comum.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/a-h/templ"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/i18n"
	"github.com/preiskampf/preiskampf/internal/middleware"
	"github.com/preiskampf/preiskampf/internal/navigation"
	"github.com/preiskampf/preiskampf/internal/view"
)

//go:embed templates
var templateFS embed.FS

var (
	base     *template.Template
	pageTmpl = map[string]*template.Template{}
)

func init() {
	base = template.Must(template.New("base").Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html",
		"templates/partials/*.html",
	))

	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}
	for _, path := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		pageTmpl[name] = template.Must(template.Must(base.Clone()).ParseFS(templateFS, path))
	}
}

// Layout é o que toda página recebe além dos próprios dados.
type Layout struct {
	Locale       string
	T            i18n.Translation
	User         *auth.SessionUser
	Path         string
	RawQuery     string
	Menu         []navigation.Item
	Footer       []navigation.Item
	CSRFToken    string
	Notification *view.Notification
}

type pageData struct {
	Layout Layout
	Data   any
}

func newLayout(ctx context.Context) Layout {
	rc := view.FromContext(ctx)
	menu := navigation.FromContext(ctx)

	l := Layout{
		Locale:       i18n.Locale(ctx),
		T:            i18n.Get(ctx),
		Path:         rc.Path,
		RawQuery:     rc.RawQuery,
		CSRFToken:    view.CSRFToken(ctx),
		Notification: rc.Notification(),
		Footer:       menu.Footer,
	}
	if user, ok := middleware.GetUser(ctx); ok {
		l.User = &user
	}
	l.Menu = menu.Visible(l.User != nil)
	return l
}

// render monta o componente da página name. Requisições htmx que não são
// boosted recebem só o bloco "content".
func render(name string, data any) templ.Component {
	t, ok := pageTmpl[name]
	if !ok {
		panic(fmt.Sprintf("pages: template %q não existe", name))
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rc := view.FromContext(ctx)
		target := "layout"
		if rc.IsHXRequest() && !rc.IsBoostedRequest() {
			target = "content"
		}
		return templ.FromGoHTML(t.Lookup(target), pageData{Layout: newLayout(ctx), Data: data}).Render(ctx, w)
	})
}

// fragment renderiza um partial isolado, sem layout.
func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templ.FromGoHTML(base.Lookup(name), pageData{Layout: newLayout(ctx), Data: data}).Render(ctx, w)
	})
}
