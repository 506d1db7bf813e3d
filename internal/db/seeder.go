package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/preiskampf/preiskampf/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@preiskampf.de"
	DemoPassword = "demo12345"
)

type seedProduct struct {
	name        string
	description string
	// preços em centavos por mercado, do mais antigo para o mais novo
	history map[string][]int64
}

var seedProducts = []seedProduct{
	{"Vollmilch 3,5%", "1 Liter, frisch", map[string][]int64{"Rewe": {119, 125, 129}, "Aldi": {99, 105}}},
	{"Butter", "250 g, mildgesäuert", map[string][]int64{"Rewe": {229, 239, 199}, "Lidl": {189, 209}}},
	{"Bio Eier", "10 Stück, Freiland", map[string][]int64{"Edeka": {399, 419}, "Aldi": {329}}},
	{"Roggenbrot", "750 g", map[string][]int64{"Edeka": {249, 259}}},
	{"Bananen", "1 kg", map[string][]int64{"Lidl": {129, 119, 139}, "Rewe": {149}}},
	{"Kaffee Crema", "1 kg Bohnen", map[string][]int64{"Aldi": {1299, 1199, 1249}, "Edeka": {1499}}},
	{"Spaghetti", "500 g", map[string][]int64{"Lidl": {89, 99}, "Rewe": {129}}},
	{"Tomaten passiert", "500 g", map[string][]int64{"Aldi": {59, 65}}},
	{"Gouda jung", "400 g am Stück", map[string][]int64{"Edeka": {349, 379, 329}}},
	{"Äpfel Elstar", "1 kg", map[string][]int64{"Rewe": {249, 229}, "Lidl": {199}}},
	{"Haferflocken", "500 g, zart", map[string][]int64{"Aldi": {69, 75}}},
	{"Mineralwasser", "6 x 1,5 L", map[string][]int64{"Lidl": {174, 159}, "Edeka": {199}}},
	{"Olivenöl", "750 ml, nativ extra", map[string][]int64{"Rewe": {699, 799, 899}}},
}

// Seed cria mercados, produtos com histórico de preços e um usuário demo.
// Não faz nada quando o usuário demo já existe.
func Seed(ctx context.Context, dbConn *sql.DB) error {
	queries := New(dbConn)
	logger := logging.Get()

	if _, err := queries.GetUserByEmail(ctx, DemoEmail); err == nil {
		logger.InfoContext(ctx, "database already seeded", slog.String("demo_email", DemoEmail))
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check demo user: %w", err)
	}

	markets := make(map[string]int64)
	for _, p := range seedProducts {
		for name := range p.history {
			if _, ok := markets[name]; ok {
				continue
			}
			m, err := queries.CreateMarket(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to seed market %s: %w", name, err)
			}
			markets[name] = m.ID
		}
	}

	var productIDs []int64
	for _, p := range seedProducts {
		product, err := queries.CreateProduct(ctx, CreateProductParams{Name: p.name, Description: p.description})
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}
		productIDs = append(productIDs, product.ID)

		for market, prices := range p.history {
			for i, cents := range prices {
				if err := queries.CreatePrice(ctx, CreatePriceParams{
					ProductID:   product.ID,
					MarketID:    markets[market],
					AmountCents: cents,
					Currency:    "EUR",
					DaysAgo:     (len(prices) - i - 1) * 7,
				}); err != nil {
					return fmt.Errorf("failed to seed price: %w", err)
				}
			}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DemoEmail,
		PasswordHash: string(hash),
		Username:     "Demo",
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	list, err := queries.CreateShoppingList(ctx, CreateShoppingListParams{UserID: user.ID, Name: "Wocheneinkauf", Emoji: "🛒"})
	if err != nil {
		return fmt.Errorf("failed to seed shopping list: %w", err)
	}
	for _, id := range productIDs[:4] {
		if err := queries.AddShoppingListItem(ctx, ShoppingListItemParams{ShoppingListID: list.ID, ProductID: id}); err != nil {
			return fmt.Errorf("failed to seed shopping list item: %w", err)
		}
	}
	if err := queries.SetSelectedShoppingList(ctx, SetSelectedShoppingListParams{
		SelectedShoppingListID: sql.NullInt64{Int64: list.ID, Valid: true},
		ID:                     user.ID,
	}); err != nil {
		return fmt.Errorf("failed to select seeded shopping list: %w", err)
	}

	logger.InfoContext(ctx, "database seeded successfully",
		slog.String("demo_email", DemoEmail),
		slog.String("demo_password", DemoPassword),
		slog.Int("products", len(productIDs)),
	)
	return nil
}
