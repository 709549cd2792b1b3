// Package table holds the Face's three record containers: pending
// Interests, Interest filters, and registered prefixes.
package table

// RecordContainer holds records keyed by a monotonically increasing
// id, unique for the container's lifetime (ids are never reused after
// Erase). OnEmpty registers a callback that fires exactly once per size
// transition from >=1 to 0, mirroring ndn-cxx's
// ContainerWithOnEmptySignal; the Face uses this to pause its transport
// once both the PIT and the RPT are empty.
type RecordContainer[T any] struct {
	records map[uint64]T
	nextID  uint64
	onEmpty map[int]func()
	hndl    int
}

// NewRecordContainer returns an empty container. ids start at 1, so 0
// can be used by callers as a sentinel "no record" value (as the RPT
// entry's filter_id field does).
func NewRecordContainer[T any]() *RecordContainer[T] {
	return &RecordContainer[T]{
		records: make(map[uint64]T),
		nextID:  1,
		onEmpty: make(map[int]func()),
	}
}

// Insert allocates a fresh id for v and stores it.
func (c *RecordContainer[T]) Insert(v T) uint64 {
	id := c.ReserveID()
	c.records[id] = v
	return id
}

// ReserveID allocates an id without storing a record under it yet, for
// callers that must hand out an id before an asynchronous operation
// (e.g. a pending prefix registration) resolves, and may never call
// InsertAt at all if it fails.
func (c *RecordContainer[T]) ReserveID() uint64 {
	id := c.nextID
	c.nextID++
	return id
}

// InsertAt stores v under an id previously returned by ReserveID.
func (c *RecordContainer[T]) InsertAt(id uint64, v T) {
	c.records[id] = v
}

// Get returns the record for id, if present.
func (c *RecordContainer[T]) Get(id uint64) (T, bool) {
	v, ok := c.records[id]
	return v, ok
}

// Erase removes id, firing onEmpty if this was the container's last
// record. Erasing an absent id is a no-op.
func (c *RecordContainer[T]) Erase(id uint64) {
	if _, ok := c.records[id]; !ok {
		return
	}
	delete(c.records, id)
	if len(c.records) == 0 {
		for _, cb := range c.onEmpty {
			cb()
		}
	}
}

// Len returns the number of live records.
func (c *RecordContainer[T]) Len() int {
	return len(c.records)
}

// OnEmpty registers cb to run every time the container transitions
// from non-empty to empty. The returned cancel function deregisters it.
func (c *RecordContainer[T]) OnEmpty(cb func()) (cancel func()) {
	hndl := c.hndl
	c.onEmpty[hndl] = cb
	c.hndl++
	return func() { delete(c.onEmpty, hndl) }
}

// RemoveIf erases every record for which pred returns true. It
// snapshots ids before iterating, so pred is free to insert new
// records into the container without corrupting this pass. A callback
// invoked while walking the container must see this erase-safety
// guarantee, since it may itself add or remove records.
func (c *RecordContainer[T]) RemoveIf(pred func(id uint64, v T) bool) {
	ids := make([]uint64, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	for _, id := range ids {
		v, ok := c.records[id]
		if !ok {
			continue
		}
		if pred(id, v) {
			c.Erase(id)
		}
	}
}

// ForEach walks every live record at the time of the call, under the
// same snapshot discipline as RemoveIf.
func (c *RecordContainer[T]) ForEach(f func(id uint64, v T)) {
	ids := make([]uint64, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	for _, id := range ids {
		if v, ok := c.records[id]; ok {
			f(id, v)
		}
	}
}
