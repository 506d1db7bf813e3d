package view

import (
	"net/http"
	"net/url"
	"testing"
)

const benchQuery = "q=milch%20frisch&sort_by=price&sort_order=asc&limit=25&page=7&is=success&utm_source=newsletter"

func BenchmarkParseQueryState(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = ParseQueryState(benchQuery)
	}
}

func BenchmarkPreserveQueryState(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = PreserveQueryStateWithPath("/einkaufstour", benchQuery, 8)
	}
}

func BenchmarkPaginationLinks(b *testing.B) {
	uri := &url.URL{Path: "/einkaufstour", RawQuery: benchQuery}
	rc := NewRequestContext(uri, http.Header{})

	b.ReportAllocs()
	for b.Loop() {
		p := rc.Pagination().WithTotal(1000)
		for _, page := range p.Pages() {
			_ = p.PageURL(page)
		}
	}
}
