package navigation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	m := Default()
	if len(m.Items) == 0 || len(m.Footer) == 0 {
		t.Fatalf("menu padrão vazio: %+v", m)
	}

	public := m.Visible(false)
	for _, it := range public {
		if it.RequiresAuth {
			t.Errorf("item %s não deveria aparecer sem login", it.Path)
		}
	}
	if len(m.Visible(true)) <= len(public) {
		t.Error("usuário logado deveria ver mais itens")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"items: [",
		"items:\n  - label: ''\n    path: /x\n",
		"items:\n  - label: X\n    path: relativo\n",
	}
	for _, in := range tests {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) deveria falhar", in)
		}
	}
}

func TestItem_IsActive(t *testing.T) {
	tests := []struct {
		item Item
		path string
		want bool
	}{
		{Item{Path: "/"}, "/", true},
		{Item{Path: "/"}, "/einkaufstour", false},
		{Item{Path: "/einkaufszettel"}, "/einkaufszettel/3", true},
		{Item{Path: "/einkaufszettel"}, "/einkaufszettelx", false},
	}
	for _, tt := range tests {
		if got := tt.item.IsActive(tt.path); got != tt.want {
			t.Errorf("%s.IsActive(%s) = %v", tt.item.Path, tt.path, got)
		}
	}
}

func TestLoad_MissingFileUsesDefault(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Menu().Items) != len(Default().Items) {
		t.Error("esperado menu padrão")
	}
}

func TestStore_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navigation.yaml")
	if err := os.WriteFile(path, []byte("items:\n  - label: Eins\n    path: /\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Watch(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// dá tempo do watcher registrar o diretório
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("items:\n  - label: Eins\n    path: /\n  - label: Zwei\n    path: /about\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Menu().Items) == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("menu não recarregou: %+v", s.Menu())
}
