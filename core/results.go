package core

import "fmt"

// ResultSet maps every declared label to its mined entry.
// Labels preserve catalog order.
type ResultSet struct {
	labels  []string
	entries map[string]*Entry
}

// NewResultSet creates an empty result set sized for n labels.
func NewResultSet(n int) *ResultSet {
	return &ResultSet{
		labels:  make([]string, 0, n),
		entries: make(map[string]*Entry, n),
	}
}

// Put adds an entry. Each label may be written exactly once.
func (rs *ResultSet) Put(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}
	if _, ok := rs.entries[entry.Label]; ok {
		return fmt.Errorf("%w: duplicate label %q", ErrInvalidEntry, entry.Label)
	}
	rs.labels = append(rs.labels, entry.Label)
	rs.entries[entry.Label] = entry
	return nil
}

// Get returns the entry for label.
func (rs *ResultSet) Get(label string) (*Entry, bool) {
	e, ok := rs.entries[label]
	return e, ok
}

// Labels returns the labels in insertion order.
func (rs *ResultSet) Labels() []string {
	out := make([]string, len(rs.labels))
	copy(out, rs.labels)
	return out
}

// Len returns the number of entries.
func (rs *ResultSet) Len() int {
	return len(rs.labels)
}

// Count returns the item count for label, zero for structured or unknown labels.
func (rs *ResultSet) Count(label string) int {
	if e, ok := rs.entries[label]; ok {
		return e.Count()
	}
	return 0
}

// Entries returns the entries in label order.
func (rs *ResultSet) Entries() []*Entry {
	out := make([]*Entry, 0, len(rs.labels))
	for _, l := range rs.labels {
		out = append(out, rs.entries[l])
	}
	return out
}

// Export renders the result surface: label to vectors, or label to totals.
func (rs *ResultSet) Export() map[string]any {
	out := make(map[string]any, len(rs.labels))
	for _, l := range rs.labels {
		e := rs.entries[l]
		if e.Kind == KindStructured {
			totals := Totals{}
			if e.Totals != nil {
				totals = *e.Totals
			}
			out[l] = totals
			continue
		}
		vectors := e.Vectors
		if vectors == nil {
			vectors = []Vector{}
		}
		out[l] = vectors
	}
	return out
}
