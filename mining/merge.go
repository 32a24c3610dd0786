package mining

import (
	"fmt"

	"github.com/poiesic/udmine/catalog"
	"github.com/poiesic/udmine/core"
)

// MergeVectors concatenates left and right, left first. Both sides must
// share one dimensionality; an empty side is compatible with anything.
func MergeVectors(left, right []core.Vector) ([]core.Vector, error) {
	dl, err := core.Dimension(left)
	if err != nil {
		return nil, err
	}
	dr, err := core.Dimension(right)
	if err != nil {
		return nil, err
	}
	if len(left) > 0 && len(right) > 0 && dl != dr {
		return nil, fmt.Errorf("%w: left has %d components, right has %d", core.ErrDimensionMismatch, dl, dr)
	}

	out := make([]core.Vector, 0, len(left)+len(right))
	out = append(out, left...)
	return append(out, right...), nil
}

// mergeEntry builds the derived entry for mg. A dimension mismatch
// degrades only this entry; the operand entries are left untouched.
func mergeEntry(mg catalog.Merge, left, right *core.Entry) *core.Entry {
	entry := &core.Entry{Key: mg.Key, Label: mg.Label, Kind: core.KindText}

	if left.Resolution == core.ResolutionSkipped && right.Resolution == core.ResolutionSkipped {
		entry.Vectors = []core.Vector{}
		entry.Resolution = core.ResolutionSkipped
		return entry
	}

	vectors, err := MergeVectors(left.Vectors, right.Vectors)
	if err != nil {
		entry.Vectors = []core.Vector{}
		entry.Resolution = core.ResolutionDegraded
		entry.Err = fmt.Errorf("%s: %w", mg.Label, err)
		return entry
	}

	entry.Vectors = vectors
	entry.Resolution = core.ResolutionMerged
	switch {
	case left.Provenance == core.ProvenanceFresh || right.Provenance == core.ProvenanceFresh:
		entry.Provenance = core.ProvenanceFresh
	case left.Provenance == core.ProvenanceCached || right.Provenance == core.ProvenanceCached:
		entry.Provenance = core.ProvenanceCached
	}
	return entry
}
