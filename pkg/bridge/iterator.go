package bridge

// ColumnIterator walks a column stream batch by batch with one batch of
// lookahead, so HasNext can be asked before Next.
type ColumnIterator struct {
	b       *Bridge
	h       Handle
	current any
	done    bool
	err     error
}

// NewColumnIterator wraps an open column handle. The iterator takes over
// the handle; Close releases it.
func NewColumnIterator(b *Bridge, h Handle) *ColumnIterator {
	return &ColumnIterator{b: b, h: h}
}

// IterateColumn opens column name of reader and wraps it in an iterator.
func (b *Bridge) IterateColumn(reader Handle, name string) (*ColumnIterator, error) {
	h, err := b.OpenColumn(reader, name)
	if err != nil {
		return nil, err
	}
	return NewColumnIterator(b, h), nil
}

func (it *ColumnIterator) fetch() any {
	if it.done {
		return nil
	}
	out, err := it.b.ColumnNext(it.h)
	if err != nil {
		it.err = err
		it.done = true
		return nil
	}
	if out == nil {
		it.done = true
	}
	return out
}

// Current returns the batch Next would return, fetching it if needed.
func (it *ColumnIterator) Current() any {
	if it.current == nil {
		it.current = it.fetch()
	}
	return it.current
}

// HasNext reports whether another batch is available.
func (it *ColumnIterator) HasNext() bool {
	return it.Current() != nil
}

// Next returns the next batch, or nil when the stream is exhausted or
// failed; Err tells the two apart.
func (it *ColumnIterator) Next() any {
	if it.current == nil {
		return it.fetch()
	}
	out := it.current
	it.current = nil
	return out
}

// Err returns the error that stopped the iterator, if any.
func (it *ColumnIterator) Err() error {
	return it.err
}

// Close releases the underlying column handle. Calling it again is a no-op.
func (it *ColumnIterator) Close() error {
	h := it.h
	it.h = 0
	it.current = nil
	it.done = true
	return it.b.CloseColumn(h)
}
