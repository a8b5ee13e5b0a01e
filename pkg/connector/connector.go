// Package connector moves tabular frames between process memory and a named
// table in a relational backend in bounded-size chunks, so large datasets
// never cross the driver boundary in one piece.
//
// A Connector owns one lazily-created Engine bound to one connection
// descriptor. All methods are synchronous and blocking; backend failures
// propagate to the caller unchanged and are never retried. A Connector is
// not safe for concurrent use.
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/ferrysql/pkg/frame"
)

// catalogQuery lists base tables from the backend's catalog.
const catalogQuery = "SELECT * FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE='BASE TABLE'"

// Connector transfers frames to and from one backend.
type Connector struct {
	cfg        Config
	connString string
	logger     *slog.Logger
	engine     *Engine
}

// New builds a Connector and its connection descriptor. The descriptor is
// assembled eagerly so config errors surface at construction; no connection
// is opened until a method needs one. A nil logger disables logging.
func New(cfg Config, logger *slog.Logger) (*Connector, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	connString, err := cfg.ConnString()
	if err != nil {
		return nil, err
	}

	return &Connector{
		cfg:        cfg,
		connString: connString,
		logger:     logger,
	}, nil
}

// ConnString returns the assembled connection descriptor.
func (c *Connector) ConnString() string {
	return c.connString
}

// InitEngine creates the Engine from the connection descriptor, replacing
// any existing one. When fastBulkInsert is true, a hook is registered that
// enables fast bulk-insert mode for every batched statement; drivers that
// ignore the mode are unaffected.
//
// Calling InitEngine is optional: any method that needs the Engine and finds
// it absent initializes it with fastBulkInsert=true first.
func (c *Connector) InitEngine(ctx context.Context, fastBulkInsert bool) error {
	e, err := openEngine(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	if fastBulkInsert {
		e.OnBeforeExec(FastBulkInsertHook)
	}

	if c.engine != nil {
		_ = c.engine.Close()
	}
	c.engine = e

	c.logger.Info("initiated engine",
		slog.String("address", c.cfg.Address),
		slog.String("database", c.cfg.DBName),
		slog.String("user", c.cfg.User))
	return nil
}

// ensureEngine lazily initializes the Engine with defaults.
func (c *Connector) ensureEngine(ctx context.Context) error {
	if c.engine != nil {
		return nil
	}
	return c.InitEngine(ctx, true)
}

// Engine returns the current engine, or nil before initialization.
func (c *Connector) Engine() *Engine {
	return c.engine
}

// Close releases the engine and its pool. The Connector can be reused after
// Close; the next call lazily re-initializes the engine.
func (c *Connector) Close() error {
	if c.engine == nil {
		return nil
	}
	err := c.engine.Close()
	c.engine = nil
	return err
}

// SetFrame writes f to the named table.
//
// When the frame's cell count exceeds the chunk threshold it is split into
// near-equal row chunks written sequentially: the first chunk honors
// opts.IfExists, every later chunk appends, and row order is preserved.
// A frame at or under the threshold is written in one piece with IfExists
// forced to replace, regardless of the caller's choice; existing callers
// depend on that behavior, so it is kept (see TestSetFrame_WholeForcesReplace).
//
// No transaction spans the chunk sequence. A failure on chunk k leaves
// chunks 0..k-1 committed; callers needing atomicity wrap the call in a
// backend transaction at a higher level.
func (c *Connector) SetFrame(ctx context.Context, name string, f *frame.Frame, opts WriteOptions) (bool, error) {
	if err := c.ensureEngine(ctx); err != nil {
		return false, err
	}
	opts = opts.withDefaults()
	start := time.Now()

	chunks := []*frame.Frame{f}
	if opts.ChunkSize > 0 {
		chunks = f.SplitCells(opts.ChunkSize)
	}

	if len(chunks) == 1 {
		// Unsplit path: IfExists is pinned to replace.
		if err := c.writeFrame(ctx, name, f, IfExistsReplace, opts.BatchRows); err != nil {
			return false, err
		}
	} else {
		if err := c.writeSplit(ctx, name, chunks, opts); err != nil {
			return false, err
		}
	}

	c.logger.Info("wrote table",
		slog.String("name", name),
		slog.String("shape", f.ShapeString()),
		slog.Float64("seconds", round(time.Since(start))))
	return true, nil
}

func (c *Connector) writeSplit(ctx context.Context, name string, chunks []*frame.Frame, opts WriteOptions) error {
	if err := c.writeFrame(ctx, name, chunks[0], opts.IfExists, opts.BatchRows); err != nil {
		return err
	}
	for _, chunk := range chunks[1:] {
		if err := c.writeFrame(ctx, name, chunk, IfExistsAppend, opts.BatchRows); err != nil {
			return err
		}
	}
	return nil
}

// GetFrame reads the named table back as one frame.
//
// Rows are fetched through a chunked cursor (opts.ChunkSize rows per chunk),
// at most opts.ChunkCount chunks are taken (zero takes all), and the chunks
// are concatenated in arrival order. A table that yields no rows is "no
// data", not a failure: GetFrame returns (nil, nil) and logs a warning.
func (c *Connector) GetFrame(ctx context.Context, name string, opts ReadOptions) (*frame.Frame, error) {
	if err := c.ensureEngine(ctx); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	start := time.Now()

	chunks, err := c.readChunks(ctx, name, opts)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		c.logger.Warn("no data to concatenate", slog.String("name", name))
		return nil, nil
	}

	f, err := frame.Concat(chunks)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched table",
		slog.String("name", name),
		slog.String("shape", f.ShapeString()),
		slog.Float64("seconds", round(time.Since(start))))
	return f, nil
}

// ListTables queries the backend's table catalog for base tables.
func (c *Connector) ListTables(ctx context.Context) (*frame.Frame, error) {
	if err := c.ensureEngine(ctx); err != nil {
		return nil, err
	}
	return c.queryFrame(ctx, catalogQuery)
}

// Execute runs a statement over a scoped connection and returns the driver
// result. The connection is acquired from the pool for this call only and
// released on every exit path, including backend errors. The query text is
// logged only when logQuery is set, so callers can keep sensitive statements
// out of the logs.
func (c *Connector) Execute(ctx context.Context, query string, logQuery bool) (sql.Result, error) {
	if err := c.ensureEngine(ctx); err != nil {
		return nil, err
	}

	conn, err := c.engine.DB().Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	res, err := conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	if logQuery {
		c.logger.Info("ran query", slog.String("query", query))
	}
	return res, nil
}

// QueryFrame runs a read query against the engine's pooled connection and
// returns the result as a frame.
func (c *Connector) QueryFrame(ctx context.Context, query string) (*frame.Frame, error) {
	if err := c.ensureEngine(ctx); err != nil {
		return nil, err
	}
	return c.queryFrame(ctx, query)
}

func (c *Connector) queryFrame(ctx context.Context, query string) (*frame.Frame, error) {
	rows, err := c.engine.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return frame.Scan(rows)
}

// round reports elapsed time as seconds with the precision used in transfer
// logs.
func round(d time.Duration) float64 {
	return float64(d.Round(100*time.Microsecond)) / float64(time.Second)
}
