package mining

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/udmine/core"
)

// CategoryCount is the per-label line of a run summary.
type CategoryCount struct {
	Key        string
	Label      string
	Kind       core.Kind
	Count      int
	Dropped    int
	Totals     *core.Totals
	Resolution core.Resolution
	Provenance core.Provenance
	Err        error
}

// Summary describes one run.
type Summary struct {
	RunID      string
	User       string
	StartedAt  time.Time
	Elapsed    time.Duration
	Categories []CategoryCount
}

func newSummary(runID, user string, started time.Time, results *core.ResultSet) *Summary {
	s := &Summary{
		RunID:      runID,
		User:       user,
		StartedAt:  started,
		Elapsed:    time.Since(started),
		Categories: make([]CategoryCount, 0, results.Len()),
	}
	for _, e := range results.Entries() {
		s.Categories = append(s.Categories, CategoryCount{
			Key:        e.Key,
			Label:      e.Label,
			Kind:       e.Kind,
			Count:      e.Count(),
			Dropped:    e.Dropped,
			Totals:     e.Totals,
			Resolution: e.Resolution,
			Provenance: e.Provenance,
			Err:        e.Err,
		})
	}
	return s
}

// Degraded returns how many labels fell back to an empty result.
func (s *Summary) Degraded() int {
	n := 0
	for _, c := range s.Categories {
		if c.Resolution == core.ResolutionDegraded {
			n++
		}
	}
	return n
}

// String renders one line per label.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mining complete (run %s). Data details:\n", s.RunID)
	for _, c := range s.Categories {
		if c.Kind == core.KindStructured {
			var t core.Totals
			if c.Totals != nil {
				t = *c.Totals
			}
			fmt.Fprintf(&b, "%s: %g total, %g older than one year.\n", c.Label, t.Total, t.TotalOlderThanOneYear)
			continue
		}
		fmt.Fprintf(&b, "%s: %d item(s).\n", c.Label, c.Count)
	}
	return b.String()
}
