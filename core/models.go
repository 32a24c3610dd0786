package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Provider identifies the platform a category was exported from.
type Provider string

const (
	// ProviderGoogle is the search/social provider export.
	ProviderGoogle Provider = "google"
	// ProviderInstagram is the photo-sharing half of the social-network export.
	ProviderInstagram Provider = "instagram"
	// ProviderFacebook is the social-network export.
	ProviderFacebook Provider = "facebook"
)

// Kind selects how a category is mined.
type Kind int

const (
	// KindText categories are embedded item by item.
	KindText Kind = iota + 1
	// KindStructured categories bypass embedding and feed the aggregate summarizer.
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Category describes one kind of exported personal data.
// Categories are static and never mutated after the catalog is built.
type Category struct {
	Key      string   // Stable identifier; the cache location is derived from it alone
	Label    string   // Human-readable name used in the result set
	Provider Provider // Originating platform
	Kind     Kind
	Source   string // Parser to invoke; defaults to Key when empty
	Measure  string // Numeric field summarized for structured categories
}

// SourceName returns the parser name for the category.
func (c Category) SourceName() string {
	if c.Source == "" {
		return c.Key
	}
	return c.Source
}

// State is the three-way outcome of asking a parser for a category.
type State int

const (
	// Unavailable means the category could not be read at all this run.
	Unavailable State = iota
	// Empty means the category was read and legitimately has no entries.
	Empty
	// Present means the category produced at least one item.
	Present
)

func (s State) String() string {
	switch s {
	case Present:
		return "present"
	case Empty:
		return "empty"
	default:
		return "unavailable"
	}
}

// RecordSet is the result of parsing one text category.
// Items is only meaningful when State is Present.
type RecordSet struct {
	State State
	Items []string
}

// PresentItems builds a RecordSet from parsed items.
// An empty item list is reported as Empty, never as Unavailable.
func PresentItems(items ...string) RecordSet {
	if len(items) == 0 {
		return RecordSet{State: Empty}
	}
	return RecordSet{State: Present, Items: items}
}

// EmptySet returns a RecordSet for a category with zero qualifying entries.
func EmptySet() RecordSet {
	return RecordSet{State: Empty}
}

// UnavailableSet returns the absence sentinel.
func UnavailableSet() RecordSet {
	return RecordSet{State: Unavailable}
}

// AggregateRecord is one structured (non-text) record, e.g. a fitness session.
type AggregateRecord struct {
	Measures      map[string]float64
	ObservedDates []time.Time
}

// Measure returns the named measure, or zero if the record does not carry it.
func (r AggregateRecord) Measure(name string) float64 {
	return r.Measures[name]
}

// LatestDate returns the most recent observed date.
// The boolean is false when the record has no dates.
func (r AggregateRecord) LatestDate() (time.Time, bool) {
	if len(r.ObservedDates) == 0 {
		return time.Time{}, false
	}
	latest := r.ObservedDates[0]
	for _, d := range r.ObservedDates[1:] {
		if d.After(latest) {
			latest = d
		}
	}
	return latest, true
}

// AggregateSet is the result of parsing one structured category.
type AggregateSet struct {
	State   State
	Records []AggregateRecord
}

// PresentRecords builds an AggregateSet; no records means Empty.
func PresentRecords(records ...AggregateRecord) AggregateSet {
	if len(records) == 0 {
		return AggregateSet{State: Empty}
	}
	return AggregateSet{State: Present, Records: records}
}

// Totals holds the two named scalars produced for a structured category.
type Totals struct {
	Total                 float64 `json:"total"`
	TotalOlderThanOneYear float64 `json:"total_older_than_one_year"`
}

// Vector is a fixed-length embedding.
type Vector []float32

// Provenance records where a category's vectors came from.
type Provenance int

const (
	// ProvenanceNone marks results that carry no vectors from either source.
	ProvenanceNone Provenance = iota
	// ProvenanceFresh vectors were computed during this run.
	ProvenanceFresh
	// ProvenanceCached vectors were loaded from the embedding cache.
	ProvenanceCached
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceFresh:
		return "fresh"
	case ProvenanceCached:
		return "cached"
	default:
		return "none"
	}
}

// Resolution describes which branch of the decision table produced an entry.
type Resolution int

const (
	ResolutionEmbedded Resolution = iota + 1
	ResolutionEmpty
	ResolutionCached
	ResolutionDegraded
	ResolutionAggregated
	ResolutionMerged
	ResolutionSkipped
)

func (r Resolution) String() string {
	switch r {
	case ResolutionEmbedded:
		return "embedded"
	case ResolutionEmpty:
		return "empty"
	case ResolutionCached:
		return "cached"
	case ResolutionDegraded:
		return "degraded"
	case ResolutionAggregated:
		return "aggregated"
	case ResolutionMerged:
		return "merged"
	case ResolutionSkipped:
		return "skipped"
	default:
		return "unresolved"
	}
}

// Entry is the mined value for one label.
// Exactly one of Vectors or Totals is meaningful, chosen by the category kind.
type Entry struct {
	Key        string
	Label      string
	Kind       Kind
	Vectors    []Vector
	Totals     *Totals
	Provenance Provenance
	Resolution Resolution
	Dropped    int   // Items that could not be embedded
	Err        error // Category-scoped failure, if the entry was degraded
}

// Count returns the number of vectors held by the entry.
func (e *Entry) Count() int {
	return len(e.Vectors)
}

// Fingerprint returns a deterministic 64-bit BLAKE2b digest of data.
func Fingerprint(data []byte) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	return binary.LittleEndian.Uint64(h.Sum(nil))
}
