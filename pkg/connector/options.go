package connector

// DefaultChunkSize bounds one transfer chunk: total cells (rows times
// columns) for writes, rows per fetch for reads.
const DefaultChunkSize = 1_000_000

// DefaultBatchRows is the number of rows folded into one multi-row INSERT
// when fast bulk-insert mode is active.
const DefaultBatchRows = 1000

// IfExists is the policy for a write that targets an existing table.
type IfExists string

const (
	// IfExistsReplace drops and recreates the destination.
	IfExistsReplace IfExists = "replace"
	// IfExistsAppend adds rows to the destination, creating it if absent.
	IfExistsAppend IfExists = "append"
	// IfExistsFail errors when the destination already exists.
	IfExistsFail IfExists = "fail"
)

// WriteOptions configure SetFrame.
type WriteOptions struct {
	// IfExists resolves a pre-existing destination table.
	// Defaults to IfExistsReplace.
	IfExists IfExists

	// ChunkSize is the cell-count threshold above which the frame is split
	// into chunks. Zero means DefaultChunkSize; negative disables
	// chunking entirely.
	ChunkSize int

	// BatchRows caps rows per INSERT statement in fast bulk mode.
	// Zero means DefaultBatchRows. Backends with parameter limits may
	// need a lower value for wide frames.
	BatchRows int
}

func (o WriteOptions) withDefaults() WriteOptions {
	if o.IfExists == "" {
		o.IfExists = IfExistsReplace
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.BatchRows <= 0 {
		o.BatchRows = DefaultBatchRows
	}
	return o
}

// ReadOptions configure GetFrame.
type ReadOptions struct {
	// ChunkCount caps how many chunks are taken from the cursor.
	// Zero takes all chunks.
	ChunkCount int

	// ChunkSize is the row count fetched per chunk.
	// Zero means DefaultChunkSize.
	ChunkSize int
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}
