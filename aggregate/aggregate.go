// Package aggregate reduces structured records to the two scalars reported
// for structured categories.
package aggregate

import (
	"time"

	"github.com/poiesic/udmine/core"
)

// Summarize sums measure over all records, and separately over records
// whose latest observed date is strictly earlier than one year before now.
// Records without dates contribute to the overall total only.
func Summarize(records []core.AggregateRecord, measure string, now time.Time) core.Totals {
	var totals core.Totals
	cutoff := Cutoff(now)

	for _, r := range records {
		v := r.Measure(measure)
		totals.Total += v

		if latest, ok := r.LatestDate(); ok && latest.Before(cutoff) {
			totals.TotalOlderThanOneYear += v
		}
	}
	return totals
}

// SummarizeSet summarizes a parsed set. Anything but Present yields zero totals.
func SummarizeSet(set core.AggregateSet, measure string, now time.Time) core.Totals {
	if set.State != core.Present {
		return core.Totals{}
	}
	return Summarize(set.Records, measure, now)
}

// Cutoff returns the instant exactly one calendar year before now.
func Cutoff(now time.Time) time.Time {
	return now.AddDate(-1, 0, 0)
}
