package view

import (
	"context"
	"net/http"
	"net/url"

	"github.com/preiskampf/preiskampf/internal/contextkeys"
)

// RequestContext reúne o que as páginas precisam saber da requisição atual.
// É criado uma vez por requisição pelo middleware e nunca compartilhado.
type RequestContext struct {
	Path     string
	RawQuery string
	State    QueryState

	uri     url.URL
	headers http.Header
}

func NewRequestContext(uri *url.URL, headers http.Header) *RequestContext {
	rc := &RequestContext{headers: headers}
	if uri != nil {
		rc.uri = *uri
		rc.Path = uri.Path
		rc.RawQuery = uri.RawQuery
	}
	rc.State = ParseQueryState(rc.RawQuery)
	return rc
}

func FromRequest(r *http.Request) *RequestContext {
	return NewRequestContext(r.URL, r.Header)
}

// WithRequestContext guarda o contexto da requisição em ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextkeys.RequestContextKey, rc)
}

// FromContext retorna o RequestContext do middleware ou um vazio.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(contextkeys.RequestContextKey).(*RequestContext); ok {
		return rc
	}
	return NewRequestContext(nil, nil)
}

func (c *RequestContext) URI() *url.URL {
	u := c.uri
	return &u
}

func (c *RequestContext) IsHXRequest() bool {
	return c.headers.Get("HX-Request") != ""
}

func (c *RequestContext) IsBoostedRequest() bool {
	return c.headers.Get("HX-Boosted") != ""
}

func (c *RequestContext) IsCreateOperation() bool {
	return IsCreateOperation(c.Path)
}

func (c *RequestContext) CurrentPage() uint {
	return c.State.Page
}

func (c *RequestContext) PreserveQueryState(page uint, withPath bool) string {
	if withPath {
		return PreserveQueryStateWithPath(c.Path, c.RawQuery, page)
	}
	return PreserveQueryState(c.RawQuery, page)
}

// Pagination inicia a paginação da listagem a partir do estado e da URI atuais.
func (c *RequestContext) Pagination() Pagination {
	return NewPagination(c.State).WithURI(&c.uri)
}

// Notification converte a flag de redirect (is=success|error) no banner one-shot.
func (c *RequestContext) Notification() *Notification {
	if c.State.RedirectFlag == nil {
		return nil
	}
	switch *c.State.RedirectFlag {
	case RedirectSuccess:
		return SuccessNotification("")
	default:
		return ErrorNotification("")
	}
}
