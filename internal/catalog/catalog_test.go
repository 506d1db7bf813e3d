package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/preiskampf/preiskampf/internal/db"
)

type fakeStore struct {
	calls  int
	prices map[int64][]db.PriceWithMarket
}

func (f *fakeStore) GetProduct(ctx context.Context, id int64) (db.Product, error) {
	f.calls++
	if _, ok := f.prices[id]; !ok {
		return db.Product{}, sql.ErrNoRows
	}
	return db.Product{ID: id, Name: "Milch"}, nil
}

func (f *fakeStore) ListProductPrices(ctx context.Context, id int64) ([]db.PriceWithMarket, error) {
	return f.prices[id], nil
}

func price(cents int64, daysAgo int) db.PriceWithMarket {
	return db.PriceWithMarket{
		Price: db.Price{
			AmountCents: cents,
			Currency:    "EUR",
			CreatedAt:   time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
		},
		MarketName: "Rewe",
	}
}

func TestCatalog_Product(t *testing.T) {
	store := &fakeStore{prices: map[int64][]db.PriceWithMarket{
		1: {price(150, 14), price(100, 7), price(129, 0)},
		2: nil,
	}}
	c := New(store, 2, time.Minute)
	ctx := context.Background()

	detail, err := c.Product(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Current.String() != "1.29 EUR" {
		t.Errorf("Current = %s", detail.Current)
	}
	if detail.Diagram.Min.Cents != 100 || detail.Diagram.Max.Cents != 150 {
		t.Errorf("Diagram min/max = %d/%d", detail.Diagram.Min.Cents, detail.Diagram.Max.Cents)
	}

	if _, err := c.Product(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if store.calls != 1 {
		t.Errorf("segunda leitura deveria vir do cache, calls = %d", store.calls)
	}

	empty, err := c.Product(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Current.Valid || empty.Current.String() != MissingPrice || !empty.Diagram.Empty() {
		t.Errorf("produto sem preço = %+v", empty)
	}

	if _, err := c.Product(ctx, 99); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("esperado ErrNoRows, got %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCatalog_ProductExpires(t *testing.T) {
	store := &fakeStore{prices: map[int64][]db.PriceWithMarket{
		1: {price(100, 1)},
	}}
	c := New(store, 4, 20*time.Millisecond)
	ctx := context.Background()

	if _, err := c.Product(ctx, 1); err != nil {
		t.Fatal(err)
	}
	store.prices[1] = append(store.prices[1], price(80, 0))
	cached, _ := c.Product(ctx, 1)
	if cached.Current.Cents != 100 {
		t.Errorf("antes do TTL esperado o detalhe em cache, got %d", cached.Current.Cents)
	}

	time.Sleep(60 * time.Millisecond)

	fresh, err := c.Product(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Current.Cents != 80 {
		t.Errorf("após o TTL esperado o preço novo, got %d", fresh.Current.Cents)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(&fakeStore{}, 0, 0)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		money Money
		want  string
	}{
		{Money{Cents: 1234, Currency: "EUR", Valid: true}, "12.34 EUR"},
		{Money{Cents: 5, Currency: "EUR", Valid: true}, "0.05 EUR"},
		{Money{Cents: 100, Currency: "GBP", Valid: true}, "1.00 GBP"},
		{Money{Cents: 0, Currency: "EUR", Valid: true}, "0.00 EUR"},
		{Money{}, "--.--"},
	}
	for _, tt := range tests {
		if got := tt.money.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	m := NewMoney(sql.NullInt64{Int64: 99, Valid: true}, sql.NullString{})
	if m.String() != "0.99 EUR" {
		t.Errorf("NewMoney sem moeda = %q", m.String())
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name        string
		values      []Money
		want        string
		wantSkipped int
	}{
		{
			name: "mesma moeda",
			values: []Money{
				{Cents: 119, Currency: "EUR", Valid: true},
				{},
				{Cents: 281, Currency: "EUR", Valid: true},
			},
			want: "4.00 EUR",
		},
		{
			name: "moeda diferente fica de fora",
			values: []Money{
				{Cents: 100, Currency: "EUR", Valid: true},
				{Cents: 5000, Currency: "GBP", Valid: true},
				{Cents: 250, Currency: "EUR", Valid: true},
			},
			want:        "3.50 EUR",
			wantSkipped: 1,
		},
		{
			name: "primeira moeda válida decide",
			values: []Money{
				{},
				{Cents: 300, Currency: "CHF", Valid: true},
				{Cents: 100, Currency: "EUR", Valid: true},
			},
			want:        "3.00 CHF",
			wantSkipped: 1,
		},
		{name: "vazia", values: nil, want: MissingPrice},
		{name: "só inválidos", values: []Money{{}, {}}, want: MissingPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, skipped := Sum(tt.values)
			if total.String() != tt.want {
				t.Errorf("Sum() = %s, want %s", total, tt.want)
			}
			if skipped != tt.wantSkipped {
				t.Errorf("skipped = %d, want %d", skipped, tt.wantSkipped)
			}
		})
	}
}

func TestPriceDiagram(t *testing.T) {
	d := NewPriceDiagram([]db.PriceWithMarket{price(200, 2), price(100, 1), price(50, 0)})

	if len(d.Points) != 3 {
		t.Fatalf("Points = %d", len(d.Points))
	}
	if d.Points[0].Y != 0 {
		t.Errorf("preço máximo deveria ficar no topo, Y = %v", d.Points[0].Y)
	}
	if d.Points[1].Y != DiagramHeight/2 {
		t.Errorf("metade do máximo deveria ficar no meio, Y = %v", d.Points[1].Y)
	}
	if d.Points[2].X != DiagramWidth {
		t.Errorf("último ponto deveria ficar na borda direita, X = %v", d.Points[2].X)
	}
	if d.Points[0].Date != "18.01.2026" {
		t.Errorf("Date = %s", d.Points[0].Date)
	}

	if (PriceDiagram{}).PositionY(10, 100) != 0 {
		t.Error("diagrama vazio deveria retornar 0")
	}
}
