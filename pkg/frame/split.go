package frame

// SplitCells partitions the frame into ceil(Size()/chunkSize) contiguous
// row chunks of near-equal row counts. The first Size()%n chunks carry one
// extra row, so chunk sizes differ by at most one and concatenating the
// result in order reproduces the frame exactly.
//
// chunkSize is a cell-count threshold, not a row count. A frame whose total
// cell count does not exceed chunkSize comes back as a single chunk.
func (f *Frame) SplitCells(chunkSize int) []*Frame {
	if chunkSize <= 0 || f.Size() <= chunkSize {
		return []*Frame{f}
	}

	n := (f.Size() + chunkSize - 1) / chunkSize
	return f.splitRows(n)
}

// splitRows splits the frame into n contiguous row chunks with row counts
// differing by at most one. n chunks are always returned, so when n exceeds
// the row count some chunks are empty.
func (f *Frame) splitRows(n int) []*Frame {
	chunks := make([]*Frame, 0, n)
	base := len(f.rows) / n
	extra := len(f.rows) % n

	lo := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		chunks = append(chunks, f.slice(lo, lo+size))
		lo += size
	}
	return chunks
}
