package connector

import (
	"context"

	"github.com/leapstack-labs/ferrysql/pkg/frame"
)

// readChunks opens a cursor over the named table and drains it chunk by
// chunk, stopping early once opts.ChunkCount chunks have been taken. Empty
// chunks are dropped, so a table with no rows yields zero chunks.
func (c *Connector) readChunks(ctx context.Context, name string, opts ReadOptions) ([]*frame.Frame, error) {
	query := "SELECT * FROM " + quoteTable(c.engine.Dialect(), name)

	rows, err := c.engine.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chunks []*frame.Frame
	for {
		chunk, done, err := frame.ScanChunk(rows, opts.ChunkSize)
		if err != nil {
			return nil, err
		}
		if chunk.RowCount() > 0 {
			chunks = append(chunks, chunk)
		}
		if done {
			break
		}
		if opts.ChunkCount > 0 && len(chunks) >= opts.ChunkCount {
			break
		}
	}
	return chunks, nil
}
