package plugin

// Index is a set of records keyed by (name, owner).
// No two records in an Index share that identity.
type Index struct {
	records map[Reference]Record
	order   []Reference
}

// NewIndex builds an index from records. When several records share an
// identity, the first one wins.
func NewIndex(records ...Record) *Index {
	idx := &Index{records: make(map[Reference]Record, len(records))}
	for _, r := range records {
		idx.Add(r)
	}
	return idx
}

// Add inserts rec unless a record with the same identity is already present.
// It reports whether rec was added.
func (idx *Index) Add(rec Record) bool {
	key := rec.Reference()
	if _, ok := idx.records[key]; ok {
		return false
	}
	idx.records[key] = rec
	idx.order = append(idx.order, key)
	return true
}

// Contains reports whether a record identified by ref is present.
func (idx *Index) Contains(ref Reference) bool {
	_, ok := idx.records[ref]
	return ok
}

// Get returns the record identified by ref.
func (idx *Index) Get(ref Reference) (Record, bool) {
	r, ok := idx.records[ref]
	return r, ok
}

// Len returns the number of records.
func (idx *Index) Len() int { return len(idx.order) }

// Records returns the records sorted by owner, then name.
func (idx *Index) Records() []Record {
	out := make([]Record, 0, len(idx.order))
	for _, k := range idx.order {
		out = append(out, idx.records[k])
	}
	SortRecords(out)
	return out
}

// References returns the identities of all records in insertion order.
func (idx *Index) References() *ReferenceSet {
	return NewReferenceSet(idx.order...)
}
