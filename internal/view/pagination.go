package view

import (
	"math"
	"net/url"
)

// Pagination descreve a página atual de uma listagem. É um valor imutável:
// os métodos With* retornam uma cópia e podem ser chamados em qualquer ordem.
//
// Duas estratégias convivem: WithTotal (COUNT separado, last page exato) e
// WithFetchedCount (busca PageSize+1 linhas e só sabe se existe próxima página).
type Pagination struct {
	Page     uint
	PageSize uint

	total   *uint
	fetched *uint
	uri     *url.URL
}

func NewPagination(state QueryState) Pagination {
	size := state.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	return Pagination{
		Page:     state.Page,
		PageSize: size,
	}
}

func (p Pagination) WithTotal(total uint) Pagination {
	p.total = &total
	return p
}

// WithFetchedCount registra quantas linhas a query trouxe com limite PageSize+1.
// Quem chama continua responsável por truncar a lista para PageSize.
func (p Pagination) WithFetchedCount(count uint) Pagination {
	p.fetched = &count
	return p
}

// WithURI guarda a URI de origem, sem validação, para montar os links.
func (p Pagination) WithURI(uri *url.URL) Pagination {
	if uri != nil {
		cp := *uri
		p.uri = &cp
	}
	return p
}

func (p Pagination) HasTotal() bool {
	return p.total != nil
}

func (p Pagination) TotalItems() uint {
	if p.total == nil {
		return 0
	}
	return *p.total
}

// LastPage é o índice (base zero) da última página; 0 sem itens ou sem total.
func (p Pagination) LastPage() uint {
	if p.total == nil || *p.total == 0 {
		return 0
	}
	return (*p.total - 1) / p.PageSize
}

func (p Pagination) HasPreviousPage() bool {
	return p.Page != 0
}

func (p Pagination) HasNextPage() bool {
	if p.fetched != nil && *p.fetched > p.PageSize {
		return true
	}
	if p.total != nil && p.Page < p.LastPage() {
		return true
	}
	return false
}

func (p Pagination) PreviousPage() uint {
	if p.Page == 0 {
		return 0
	}
	return p.Page - 1
}

func (p Pagination) NextPage() uint {
	return p.Page + 1
}

// PageWindow é quantas páginas aparecem de cada lado da atual.
const PageWindow uint = 2

// Pages lista os índices das páginas vizinhas da atual quando o total é
// conhecido, no máximo 2*PageWindow+1 entradas dentro de [0, LastPage].
func (p Pagination) Pages() []uint {
	if p.total == nil {
		return nil
	}
	last := p.LastPage()
	current := min(p.Page, last)
	first := current - min(current, PageWindow)
	end := last
	if last-current > PageWindow {
		end = current + PageWindow
	}
	pages := make([]uint, 0, end-first+1)
	for i := first; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// FirstPageHidden indica que a página 0 ficou fora da janela de Pages.
func (p Pagination) FirstPageHidden() bool {
	pages := p.Pages()
	return len(pages) > 0 && pages[0] > 0
}

// LastPageHidden indica que LastPage ficou fora da janela de Pages.
func (p Pagination) LastPageHidden() bool {
	pages := p.Pages()
	return len(pages) > 0 && pages[len(pages)-1] < p.LastPage()
}

// PageURL monta o href para a página informada preservando o resto da query.
func (p Pagination) PageURL(page uint) string {
	if p.uri == nil {
		return PreserveQueryState("", page)
	}
	return PreserveQueryStateWithPath(p.uri.Path, p.uri.RawQuery, page)
}

func (p Pagination) Offset() uint {
	return offset(p.Page, p.PageSize)
}

func (p Pagination) Limit() uint {
	return p.PageSize
}

// FetchLimit é o limite usado pela estratégia de over-fetch.
func (p Pagination) FetchLimit() uint {
	if p.PageSize == math.MaxUint {
		return p.PageSize
	}
	return p.PageSize + 1
}

// Truncate corta uma lista buscada com FetchLimit de volta para size itens.
func Truncate[T any](items []T, size uint) []T {
	if uint(len(items)) > size {
		return items[:size]
	}
	return items
}
