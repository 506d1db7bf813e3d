package config

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

type SQLiteConfig struct {
	CacheSizeKB   int    // negativo = KB, positivo = páginas
	TempStore     string // "MEMORY" ou "FILE"
	WALMode       bool
	SyncLevel     string // "OFF", "NORMAL", "FULL", "EXTRA"
	BusyTimeoutMS int
}

func GetSQLiteConfig() SQLiteConfig {
	cfg := SQLiteConfig{
		CacheSizeKB:   -16000,
		TempStore:     "MEMORY",
		WALMode:       true,
		SyncLevel:     "NORMAL",
		BusyTimeoutMS: 5000,
	}

	if v, ok := os.LookupEnv("SQLITE_CACHE_SIZE"); ok {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.CacheSizeKB = i
		}
	} else if ramMB := detectRAM(); ramMB > 0 {
		cfg.CacheSizeKB = calculateCacheSize(ramMB)
	}

	if v, ok := os.LookupEnv("SQLITE_TEMP_STORE"); ok {
		v = strings.ToUpper(v)
		if v == "MEMORY" || v == "FILE" {
			cfg.TempStore = v
		}
	}

	if v, ok := os.LookupEnv("SQLITE_WAL_MODE"); ok {
		cfg.WALMode = strings.EqualFold(v, "true") || v == "1"
	}

	if v, ok := os.LookupEnv("SQLITE_SYNC_LEVEL"); ok {
		switch v = strings.ToUpper(v); v {
		case "OFF", "NORMAL", "FULL", "EXTRA":
			cfg.SyncLevel = v
		}
	}

	if v, ok := os.LookupEnv("SQLITE_BUSY_TIMEOUT_MS"); ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.BusyTimeoutMS = i
		}
	}

	return cfg
}

// DSN acrescenta os parâmetros do driver go-sqlite3 que precisam valer
// para toda conexão do pool (PRAGMAs via Exec só atingem uma conexão).
func (c SQLiteConfig) DSN(base string) string {
	params := []string{
		"_foreign_keys=on",
		fmt.Sprintf("_busy_timeout=%d", c.BusyTimeoutMS),
		"_synchronous=" + c.SyncLevel,
	}
	if c.WALMode {
		params = append(params, "_journal_mode=WAL")
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strings.Join(params, "&")
}

func calculateCacheSize(ramMB int) int {
	cacheMB := int(math.Floor(float64(ramMB) * 0.02))
	cacheMB = max(cacheMB, 8)
	cacheMB = min(cacheMB, 256)
	return -cacheMB * 1024
}

func detectRAM() int {
	if v, ok := os.LookupEnv("SYSTEM_RAM_MB"); ok {
		if mb, err := strconv.Atoi(v); err == nil && mb > 0 {
			return mb
		}
	}

	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0
	}
	for line := range strings.SplitSeq(string(data), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			if kb, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				return int(kb / 1024)
			}
		}
	}
	return 0
}

func (c SQLiteConfig) ApplyPragmas(db *sql.DB) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"temp_store", c.TempStore},
		{"cache_size", strconv.Itoa(c.CacheSizeKB)},
		{"wal_autocheckpoint", "1000"},
		{"mmap_size", "268435456"},
	}

	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", p.name, err)
		}
	}

	return nil
}
