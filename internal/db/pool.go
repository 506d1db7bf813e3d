package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/preiskampf/preiskampf/internal/config"
)

// DualPool separa leituras (várias conexões) de escritas (uma conexão),
// evitando SQLITE_BUSY entre escritores concorrentes.
type DualPool struct {
	Read  *sql.DB
	Write *sql.DB
}

type PoolConfig struct {
	ReadMaxOpen  int
	ReadMaxIdle  int
	WriteMaxOpen int
	WriteMaxIdle int
}

var defaultPoolConfig = PoolConfig{
	ReadMaxOpen:  runtime.NumCPU() * 2,
	ReadMaxIdle:  runtime.NumCPU(),
	WriteMaxOpen: 1,
	WriteMaxIdle: 1,
}

// Open abre os dois pools do arquivo sqlite em databaseURL com os parâmetros
// de SQLiteConfig.
func Open(databaseURL string, opts ...func(*PoolConfig)) (*DualPool, error) {
	sqliteCfg := config.GetSQLiteConfig()
	return NewDualPool("sqlite3", sqliteCfg.DSN(databaseURL), sqliteCfg, opts...)
}

func NewDualPool(driver, dsn string, sqliteCfg config.SQLiteConfig, opts ...func(*PoolConfig)) (*DualPool, error) {
	cfg := defaultPoolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	readDB, err := openPool(driver, dsn, cfg.ReadMaxOpen, cfg.ReadMaxIdle)
	if err != nil {
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}

	writeDB, err := openPool(driver, dsn, cfg.WriteMaxOpen, cfg.WriteMaxIdle)
	if err != nil {
		readDB.Close()
		return nil, fmt.Errorf("failed to open write pool: %w", err)
	}

	pool := &DualPool{Read: readDB, Write: writeDB}

	if err := sqliteCfg.ApplyPragmas(writeDB); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply write pragmas: %w", err)
	}
	if err := sqliteCfg.ApplyPragmas(readDB); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply read pragmas: %w", err)
	}

	return pool, nil
}

func openPool(driver, dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	conn.SetConnMaxIdleTime(5 * time.Minute)
	conn.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

func WithReadPoolSize(maxOpen, maxIdle int) func(*PoolConfig) {
	return func(cfg *PoolConfig) {
		cfg.ReadMaxOpen = maxOpen
		cfg.ReadMaxIdle = maxIdle
	}
}

func WithWritePoolSize(maxOpen, maxIdle int) func(*PoolConfig) {
	return func(cfg *PoolConfig) {
		cfg.WriteMaxOpen = maxOpen
		cfg.WriteMaxIdle = maxIdle
	}
}

func (p *DualPool) Close() error {
	var errs []error
	if p.Read != nil {
		if err := p.Read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("read pool close: %w", err))
		}
	}
	if p.Write != nil {
		if err := p.Write.Close(); err != nil {
			errs = append(errs, fmt.Errorf("write pool close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (p *DualPool) Ping(ctx context.Context) error {
	if err := p.Read.PingContext(ctx); err != nil {
		return err
	}
	return p.Write.PingContext(ctx)
}

// Queries lê do pool de leitura.
func (p *DualPool) Queries() *Queries {
	return New(p.Read)
}

// QueriesWrite usa a conexão única de escrita.
func (p *DualPool) QueriesWrite() *Queries {
	return New(p.Write)
}

// WithTx roda fn em uma transação no pool de escrita.
func (p *DualPool) WithTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := p.Write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(New(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
