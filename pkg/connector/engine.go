package connector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/ferrysql/pkg/dialect"
)

// Stmt describes a statement about to be executed. Hooks may inspect it and
// flip FastBulk; the SQL itself is not rewritable from a hook.
type Stmt struct {
	// SQL is the statement text.
	SQL string

	// Batch is true for executemany-style statements, i.e. the same insert
	// applied to more than one row.
	Batch bool

	// FastBulk enables multi-row VALUES batching for this statement.
	// Hooks set it; drivers that gain nothing from batching simply see
	// fewer round-trips.
	FastBulk bool
}

// ExecHook runs before every statement execution issued by a transfer.
type ExecHook func(s *Stmt)

// FastBulkInsertHook enables fast bulk-insert mode on every batched
// statement. It is the hook InitEngine registers by default and a no-op for
// single-row statements.
func FastBulkInsertHook(s *Stmt) {
	if s.Batch {
		s.FastBulk = true
	}
}

// Engine is a process-lifetime handle over a backend connection pool and its
// dialect. It is created lazily on first use and replaced only by an
// explicit re-initialization. Engine is not safe for concurrent use by
// multiple goroutines; callers serialize or use separate Connectors.
type Engine struct {
	db      *sql.DB
	dialect *dialect.Dialect
	hooks   []ExecHook
}

// NewEngine wraps an open pool and dialect into an Engine. Used directly in
// tests; production code goes through Connector.InitEngine.
func NewEngine(db *sql.DB, d *dialect.Dialect) *Engine {
	if d == nil {
		d = dialect.Default()
	}
	return &Engine{db: db, dialect: d}
}

// openEngine resolves the config's driver, opens the pool and verifies the
// connection.
func openEngine(ctx context.Context, cfg Config, logger *slog.Logger) (*Engine, error) {
	drv, ok := LookupDriver(cfg.DBType)
	if !ok {
		return nil, &UnknownDriverError{Type: cfg.DBType, Available: ListDrivers()}
	}

	dsn := drv.DSN(cfg)
	logger.Debug("opening engine",
		slog.String("db_type", cfg.DBType),
		slog.String("driver", drv.SQLDriver))

	db, err := sql.Open(drv.SQLDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", drv.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", drv.Name, err)
	}

	return NewEngine(db, dialectFor(drv)), nil
}

// DB exposes the underlying pool.
func (e *Engine) DB() *sql.DB {
	return e.db
}

// Dialect returns the engine's dialect.
func (e *Engine) Dialect() *dialect.Dialect {
	return e.dialect
}

// OnBeforeExec registers a hook invoked before every statement execution.
func (e *Engine) OnBeforeExec(h ExecHook) {
	e.hooks = append(e.hooks, h)
}

func (e *Engine) applyHooks(s *Stmt) {
	for _, h := range e.hooks {
		h(s)
	}
}

// Close closes the underlying pool.
func (e *Engine) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}
