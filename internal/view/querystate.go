package view

import (
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/preiskampf/preiskampf/internal/logging"
)

const (
	DefaultPage     uint = 0
	DefaultPageSize uint = 10
	// MaxPageSize limita o limit pedido na query; valores acima são cortados.
	MaxPageSize uint = 100
)

// Chaves reconhecidas na query string. Qualquer outra é ignorada.
const (
	ParamSearch    = "q"
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamSortBy    = "sort_by"
	ParamSortOrder = "sort_order"
	ParamRedirect  = "is"
)

// SortDirection é a direção de ordenação de uma listagem.
type SortDirection int

const (
	SortDescending SortDirection = iota
	SortAscending
)

// ParseSortDirection aceita "asc"/"ASC" e "desc"/"DESC".
// Qualquer outro valor retorna ok=false.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch s {
	case "asc", "ASC":
		return SortAscending, true
	case "desc", "DESC":
		return SortDescending, true
	default:
		return SortDescending, false
	}
}

// SQL retorna a palavra-chave usada no ORDER BY.
func (d SortDirection) SQL() string {
	if d == SortAscending {
		return "ASC"
	}
	return "DESC"
}

// String retorna o valor como aparece na query string.
func (d SortDirection) String() string {
	if d == SortAscending {
		return "asc"
	}
	return "desc"
}

// RedirectFlag sinaliza o resultado de uma ação após um redirect (is=success|error).
type RedirectFlag int

const (
	RedirectSuccess RedirectFlag = iota + 1
	RedirectError
)

func ParseRedirectFlag(s string) (RedirectFlag, bool) {
	switch s {
	case "success":
		return RedirectSuccess, true
	case "error":
		return RedirectError, true
	default:
		return 0, false
	}
}

func (f RedirectFlag) String() string {
	switch f {
	case RedirectSuccess:
		return "success"
	case RedirectError:
		return "error"
	default:
		return ""
	}
}

// QueryState é o estado de filtro, ordenação e paginação de uma requisição.
// Campos opcionais são ponteiros; nil significa ausente.
type QueryState struct {
	SearchText    *string
	Page          uint
	PageSize      uint
	SortField     *string
	SortDirection SortDirection
	RedirectFlag  *RedirectFlag
}

// DefaultQueryState retorna o estado usado quando não há query string.
func DefaultQueryState() QueryState {
	return QueryState{
		Page:          DefaultPage,
		PageSize:      DefaultPageSize,
		SortDirection: SortDescending,
	}
}

// ParseQueryState interpreta a query string crua (sem decodificar, sem '?').
// Nunca falha: valores inválidos mantêm o default do campo.
func ParseQueryState(rawQuery string) QueryState {
	state := DefaultQueryState()
	if rawQuery == "" {
		return state
	}

	for _, segment := range strings.Split(rawQuery, "&") {
		name, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}

		switch name {
		case ParamSearch:
			if v, ok := decodeValue(value); ok {
				state.SearchText = &v
			}
		case ParamPage:
			if n, err := strconv.ParseUint(value, 10, 0); err == nil {
				state.Page = uint(n)
			}
		case ParamLimit:
			if n, err := strconv.ParseUint(value, 10, 0); err == nil && n > 0 {
				state.PageSize = min(uint(n), MaxPageSize)
			}
		case ParamSortBy:
			if v, ok := decodeValue(value); ok {
				state.SortField = &v
			}
		case ParamSortOrder:
			if d, ok := ParseSortDirection(value); ok {
				state.SortDirection = d
			}
		case ParamRedirect:
			if f, ok := ParseRedirectFlag(value); ok {
				state.RedirectFlag = &f
			}
		default:
			logging.Get().Debug("query parameter ignored", slog.String("key", name))
		}
	}

	return state
}

func decodeValue(raw string) (string, bool) {
	v, err := url.QueryUnescape(raw)
	if err != nil {
		return "", false
	}
	return v, true
}

// Search retorna o texto de busca ou "" quando ausente.
func (s QueryState) Search() string {
	if s.SearchText == nil {
		return ""
	}
	return *s.SearchText
}

// SortBy retorna o campo de ordenação ou fallback quando ausente.
func (s QueryState) SortBy(fallback string) string {
	if s.SortField == nil || *s.SortField == "" {
		return fallback
	}
	return *s.SortField
}

func (s QueryState) IsAscending() bool {
	return s.SortDirection == SortAscending
}

func (s QueryState) Offset() uint {
	return offset(s.Page, s.PageSize)
}

// offset satura em math.MaxUint em vez de dar a volta, para que uma página
// fora de alcance continue fora de alcance.
func offset(page, size uint) uint {
	if size != 0 && page > math.MaxUint/size {
		return math.MaxUint
	}
	return page * size
}
