package view

import (
	"strconv"
	"testing"
)

func TestParseQueryState_Defaults(t *testing.T) {
	state := ParseQueryState("")

	if state.Page != 0 || state.PageSize != 10 {
		t.Errorf("defaults = page %d size %d, want 0 and 10", state.Page, state.PageSize)
	}
	if state.SearchText != nil || state.SortField != nil || state.RedirectFlag != nil {
		t.Errorf("campos opcionais deveriam estar ausentes: %+v", state)
	}
	if state.SortDirection != SortDescending {
		t.Errorf("SortDirection = %v, want desc", state.SortDirection)
	}
}

func TestParseQueryState_Page(t *testing.T) {
	for _, p := range []uint{0, 1, 7, 123456} {
		state := ParseQueryState("page=" + strconv.FormatUint(uint64(p), 10))
		if state.Page != p {
			t.Errorf("page=%d: got %d", p, state.Page)
		}
	}

	tests := []struct {
		name  string
		query string
	}{
		{"letras", "page=abc"},
		{"negativo", "page=-1"},
		{"vazio", "page="},
		{"overflow", "page=99999999999999999999999"},
		{"decimal", "page=1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQueryState(tt.query).Page; got != 0 {
				t.Errorf("ParseQueryState(%q).Page = %d, want 0", tt.query, got)
			}
		})
	}
}

func TestParseQueryState_Limit(t *testing.T) {
	tests := []struct {
		query string
		want  uint
	}{
		{"limit=25", 25},
		{"limit=abc", 10},
		{"limit=0", 10},
		{"limit=-5", 10},
		{"limit=100", 100},
		{"limit=101", 100},
		{"limit=18446744073709551615", 100},
		{"limit=99999999999999999999999", 10},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := ParseQueryState(tt.query).PageSize; got != tt.want {
				t.Errorf("PageSize = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseQueryState_DuplicateKeysLastWins(t *testing.T) {
	state := ParseQueryState("page=1&page=2")
	if state.Page != 2 {
		t.Errorf("Page = %d, want 2", state.Page)
	}

	state = ParseQueryState("q=apfel&q=birne")
	if state.Search() != "birne" {
		t.Errorf("Search() = %q, want birne", state.Search())
	}
}

func TestParseQueryState_AllKeys(t *testing.T) {
	state := ParseQueryState("q=milch&page=3&limit=20&sort_by=price&sort_order=asc&is=success")

	if state.Search() != "milch" {
		t.Errorf("Search() = %q", state.Search())
	}
	if state.Page != 3 || state.PageSize != 20 {
		t.Errorf("page/size = %d/%d", state.Page, state.PageSize)
	}
	if state.SortBy("created_at") != "price" {
		t.Errorf("SortBy() = %q", state.SortBy("created_at"))
	}
	if !state.IsAscending() {
		t.Error("esperado ascending")
	}
	if state.RedirectFlag == nil || *state.RedirectFlag != RedirectSuccess {
		t.Errorf("RedirectFlag = %v", state.RedirectFlag)
	}
	if state.Offset() != 60 {
		t.Errorf("Offset() = %d, want 60", state.Offset())
	}
}

func TestParseQueryState_SkipsMalformedSegments(t *testing.T) {
	state := ParseQueryState("page&limit=5&&foo=bar&q")

	if state.Page != 0 {
		t.Errorf("Page = %d, want 0", state.Page)
	}
	if state.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", state.PageSize)
	}
	if state.SearchText != nil {
		t.Errorf("q sem '=' deveria ser ignorado, got %q", *state.SearchText)
	}
}

func TestParseQueryState_SplitsOnFirstEquals(t *testing.T) {
	state := ParseQueryState("q=dG9rZW4=&sort_by=a=b")
	if state.Search() != "dG9rZW4=" {
		t.Errorf("Search() = %q, want dG9rZW4=", state.Search())
	}
	if state.SortBy("") != "a=b" {
		t.Errorf("SortBy() = %q, want a=b", state.SortBy(""))
	}
}

func TestParseQueryState_DecodesStrings(t *testing.T) {
	state := ParseQueryState("q=bio+milch%21")
	if state.Search() != "bio milch!" {
		t.Errorf("Search() = %q", state.Search())
	}

	state = ParseQueryState("q=%zz")
	if state.SearchText != nil {
		t.Error("escape inválido deveria manter q ausente")
	}
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		in     string
		want   SortDirection
		wantOk bool
	}{
		{"asc", SortAscending, true},
		{"ASC", SortAscending, true},
		{"desc", SortDescending, true},
		{"DESC", SortDescending, true},
		{"Asc", SortDescending, false},
		{"", SortDescending, false},
	}

	for _, tt := range tests {
		got, ok := ParseSortDirection(tt.in)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("ParseSortDirection(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.wantOk)
		}
	}

	if ParseQueryState("sort_order=sideways").SortDirection != SortDescending {
		t.Error("valor desconhecido deveria manter desc")
	}
	if SortAscending.SQL() != "ASC" || SortDescending.SQL() != "DESC" {
		t.Error("SQL() incorreto")
	}
}

func TestParseRedirectFlag(t *testing.T) {
	if f, ok := ParseRedirectFlag("success"); !ok || f != RedirectSuccess {
		t.Error("success")
	}
	if f, ok := ParseRedirectFlag("error"); !ok || f != RedirectError {
		t.Error("error")
	}
	if _, ok := ParseRedirectFlag("sucess"); ok {
		t.Error("typo não deveria ser aceito")
	}
	if ParseQueryState("is=whatever").RedirectFlag != nil {
		t.Error("flag desconhecida deveria ficar ausente")
	}
}
