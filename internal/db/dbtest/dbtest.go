// Package dbtest abre bancos sqlite temporários já migrados para testes de
// outros pacotes.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/preiskampf/preiskampf/internal/db"
)

func New(t testing.TB) *db.DualPool {
	t.Helper()

	pool, err := db.Open(filepath.Join(t.TempDir(), "preiskampf_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := db.RunMigrations(t.Context(), pool.Write); err != nil {
		t.Fatalf("migração falhou: %v", err)
	}
	return pool
}

// User cria um usuário ativo com o e-mail dado.
func User(t testing.TB, pool *db.DualPool, email string) db.User {
	t.Helper()
	u, err := pool.QueriesWrite().CreateUser(t.Context(), db.CreateUserParams{
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}
