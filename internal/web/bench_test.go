package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preiskampf/preiskampf/internal/db"
)

func BenchmarkProductListRendering(b *testing.B) {
	app := setupTestApp(b)
	ctx := context.Background()
	if err := db.Seed(ctx, app.deps.Pool.Write); err != nil {
		b.Fatal(err)
	}
	demo, err := app.deps.Pool.Queries().GetUserByEmail(ctx, db.DemoEmail)
	if err != nil {
		b.Fatal(err)
	}
	c := app.cookie(b, demo)

	b.ReportAllocs()
	for b.Loop() {
		req := httptest.NewRequest(http.MethodGet, "/einkaufstour?limit=5&page=1&sort_by=price", nil)
		req.AddCookie(c)
		rr := httptest.NewRecorder()
		app.handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			b.Fatalf("status %d", rr.Code)
		}
	}
}

func BenchmarkProductDetailCached(b *testing.B) {
	app := setupTestApp(b)
	ctx := context.Background()
	if err := db.Seed(ctx, app.deps.Pool.Write); err != nil {
		b.Fatal(err)
	}
	demo, err := app.deps.Pool.Queries().GetUserByEmail(ctx, db.DemoEmail)
	if err != nil {
		b.Fatal(err)
	}
	c := app.cookie(b, demo)

	b.ReportAllocs()
	for b.Loop() {
		req := httptest.NewRequest(http.MethodGet, "/produkt/1", nil)
		req.AddCookie(c)
		rr := httptest.NewRecorder()
		app.handler.ServeHTTP(rr, req)
	}
}
