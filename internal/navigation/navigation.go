// Package navigation carrega o menu principal de um YAML e recarrega o
// arquivo quando ele muda em disco.
package navigation

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/preiskampf/preiskampf/internal/contextkeys"
	"github.com/preiskampf/preiskampf/internal/logging"
)

//go:embed default.yaml
var defaultYAML []byte

type Item struct {
	Label        string `yaml:"label"`
	Path         string `yaml:"path"`
	RequiresAuth bool   `yaml:"requires_auth"`
}

type Menu struct {
	Items  []Item `yaml:"items"`
	Footer []Item `yaml:"footer"`
}

// Visible filtra os itens para o estado de login atual.
func (m Menu) Visible(authenticated bool) []Item {
	out := make([]Item, 0, len(m.Items))
	for _, it := range m.Items {
		if it.RequiresAuth && !authenticated {
			continue
		}
		out = append(out, it)
	}
	return out
}

// IsActive compara o item com o path atual; "/" só casa exatamente.
func (it Item) IsActive(currentPath string) bool {
	if it.Path == "/" {
		return currentPath == "/"
	}
	return currentPath == it.Path || strings.HasPrefix(currentPath, it.Path+"/")
}

func Parse(data []byte) (Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Menu{}, fmt.Errorf("navigation: %w", err)
	}
	for i, it := range m.Items {
		if it.Label == "" || !strings.HasPrefix(it.Path, "/") {
			return Menu{}, fmt.Errorf("navigation: item %d inválido: %+v", i, it)
		}
	}
	return m, nil
}

func Default() Menu {
	m, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return m
}

func WithMenu(ctx context.Context, m Menu) context.Context {
	return context.WithValue(ctx, contextkeys.NavigationKey, m)
}

// FromContext devolve o menu da requisição ou o padrão embutido.
func FromContext(ctx context.Context) Menu {
	if m, ok := ctx.Value(contextkeys.NavigationKey).(Menu); ok {
		return m
	}
	return Default()
}

// Store guarda o menu atual e troca atomicamente a cada reload.
type Store struct {
	path string
	menu atomic.Pointer[Menu]
}

// Load lê path; arquivo inexistente usa o menu embutido.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Menu() Menu {
	return *s.menu.Load()
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		m := Default()
		s.menu.Store(&m)
		return nil
	}
	if err != nil {
		return fmt.Errorf("navigation: read %s: %w", s.path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return err
	}
	s.menu.Store(&m)
	return nil
}

// Watch recarrega o menu quando o arquivo é escrito ou recriado. Bloqueia
// até ctx terminar. Um YAML inválido mantém o menu anterior.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("navigation: watcher: %w", err)
	}
	defer watcher.Close()

	// observa o diretório para sobreviver a editores que recriam o arquivo
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("navigation: watch %s: %w", s.path, err)
	}

	logger := logging.Get()
	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if err := s.reload(); err != nil {
				logger.WarnContext(ctx, "navigation reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.InfoContext(ctx, "navigation reloaded", slog.String("path", s.path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "navigation watcher error", slog.String("error", err.Error()))
		}
	}
}
