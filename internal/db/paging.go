package db

import (
	"fmt"
	"math"
)

// Window é o recorte LIMIT/OFFSET de uma listagem.
type Window struct {
	Limit  int64
	Offset int64
}

// NewWindow converte para int64 saturando em math.MaxInt64: um limit negativo
// seria lido pelo SQLite como "sem limite".
func NewWindow(limit, offset uint) Window {
	return Window{Limit: clampInt64(limit), Offset: clampInt64(offset)}
}

func clampInt64(v uint) int64 {
	if uint64(v) > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// SortSpec é a ordenação pedida pelo usuário. Field é livre (vem da query
// string) e só é usado depois de passar pela whitelist de OrderBy.
type SortSpec struct {
	Field     string
	Ascending bool
}

// OrderBy resolve Field para uma coluna conhecida, caindo em fallback quando
// o campo não está em columns. O resultado pode ser interpolado no SQL.
func (s SortSpec) OrderBy(columns map[string]string, fallback string) string {
	column, ok := columns[s.Field]
	if !ok {
		column = columns[fallback]
	}
	direction := "DESC"
	if s.Ascending {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}
