package view

import "testing"

func TestPreserveQueryState(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  uint
		want  string
	}{
		{"Substitui page", "q=milk&sort_by=price&page=2", 5, "q=milk&sort_by=price&page=5"},
		{"Acrescenta page", "q=milk", 3, "q=milk&page=3"},
		{"Query vazia", "", 0, "page=0"},
		{"Page no início", "page=1&q=milk", 0, "page=0&q=milk"},
		{"Mantém encoding", "q=bio%20milch&sort_order=ASC&is=success", 2, "q=bio%20milch&sort_order=ASC&is=success&page=2"},
		{"Page repetido", "page=1&q=a&page=4", 2, "page=2&q=a&page=2"},
		{"Chave parecida", "pages=3", 1, "pages=3&page=1"},
		{"Page sem valor", "page", 1, "page&page=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreserveQueryState(tt.query, tt.page); got != tt.want {
				t.Errorf("PreserveQueryState(%q, %d) = %q, want %q", tt.query, tt.page, got, tt.want)
			}
		})
	}
}

func TestPreserveQueryStateWithPath(t *testing.T) {
	got := PreserveQueryStateWithPath("/einkaufszettel", "limit=5", 0)
	if want := "/einkaufszettel?limit=5&page=0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = PreserveQueryStateWithPath("/einkaufszettel", "", 3)
	if want := "/einkaufszettel?page=3"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
