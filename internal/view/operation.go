package view

import "strings"

// DetailOperation classifica o último segmento de uma rota de detalhe.
// "/einkaufszettel/anlegen" é criação, "/einkaufszettel/42" é leitura por id.
type DetailOperation int

const (
	OperationNone DetailOperation = iota
	OperationCreate
	OperationRead
	OperationUpdate
	OperationDelete
)

var detailOperationKeywords = map[string]DetailOperation{
	"anlegen":   OperationCreate,
	"detail":    OperationRead,
	"update":    OperationUpdate,
	"entfernen": OperationDelete,
}

// ParseDetailOperation ignora maiúsculas. Segmentos fora do vocabulário
// (tipicamente ids numéricos) retornam OperationNone.
func ParseDetailOperation(segment string) DetailOperation {
	if op, ok := detailOperationKeywords[strings.ToLower(segment)]; ok {
		return op
	}
	return OperationNone
}

func (o DetailOperation) String() string {
	switch o {
	case OperationCreate:
		return "anlegen"
	case OperationRead:
		return "detail"
	case OperationUpdate:
		return "update"
	case OperationDelete:
		return "entfernen"
	default:
		return ""
	}
}

// ClassifyPath olha apenas o último segmento do path.
func ClassifyPath(path string) DetailOperation {
	last := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		last = path[i+1:]
	}
	return ParseDetailOperation(last)
}

func IsCreateOperation(path string) bool {
	return ClassifyPath(path) == OperationCreate
}
