// Package snapshot reads normalized export snapshots.
//
// A snapshot for source S of provider P lives at <dataRoot>/P/S.json.
// Text sources are JSON arrays of strings. Structured sources are JSON
// arrays of records:
//
//	[{"measures": {"distance": 12.5}, "dates": ["2020-01-01", "2021-03-04T10:00:00Z"]}]
//
// A missing file is Unavailable, an empty array is Empty.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/parser"
)

// DateLayouts lists the accepted date formats, tried in order.
var DateLayouts = []string{time.DateOnly, time.RFC3339}

// ErrMalformed indicates a snapshot file that could not be decoded.
var ErrMalformed = errors.New("malformed snapshot")

// Path returns the snapshot file for provider and source under dataRoot.
func Path(dataRoot string, provider core.Provider, source string) string {
	return filepath.Join(dataRoot, string(provider), source+".json")
}

// TextParser reads a text snapshot.
type TextParser struct {
	Provider core.Provider
	Source   string
}

var _ parser.TextParser = TextParser{}

func (p TextParser) Parse(ctx context.Context, user, dataRoot string) (core.RecordSet, error) {
	data, ok, err := read(ctx, Path(dataRoot, p.Provider, p.Source))
	if err != nil || !ok {
		return core.UnavailableSet(), err
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return core.UnavailableSet(), fmt.Errorf("%w: %s/%s: %w", ErrMalformed, p.Provider, p.Source, err)
	}
	return core.PresentItems(items...), nil
}

// StructuredParser reads a structured snapshot.
type StructuredParser struct {
	Provider core.Provider
	Source   string
}

var _ parser.StructuredParser = StructuredParser{}

type recordJSON struct {
	Measures map[string]float64 `json:"measures"`
	Dates    []string           `json:"dates"`
}

func (p StructuredParser) Parse(ctx context.Context, user, dataRoot string) (core.AggregateSet, error) {
	data, ok, err := read(ctx, Path(dataRoot, p.Provider, p.Source))
	if err != nil || !ok {
		return core.AggregateSet{State: core.Unavailable}, err
	}

	var raw []recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.AggregateSet{State: core.Unavailable}, fmt.Errorf("%w: %s/%s: %w", ErrMalformed, p.Provider, p.Source, err)
	}

	records := make([]core.AggregateRecord, 0, len(raw))
	for i, r := range raw {
		dates := make([]time.Time, 0, len(r.Dates))
		for _, s := range r.Dates {
			d, err := ParseDate(s)
			if err != nil {
				return core.AggregateSet{State: core.Unavailable}, fmt.Errorf("%w: %s/%s record %d: %w", ErrMalformed, p.Provider, p.Source, i, err)
			}
			dates = append(dates, d)
		}
		records = append(records, core.AggregateRecord{Measures: r.Measures, ObservedDates: dates})
	}
	return core.PresentRecords(records...), nil
}

// ParseDate parses s using the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Register installs a snapshot parser for the source of every category.
// Categories sharing a source share one parser.
func Register(reg *parser.Registry, categories []core.Category) error {
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		source := c.SourceName()
		id := c.Kind.String() + "/" + source
		if seen[id] {
			continue
		}
		seen[id] = true

		var err error
		switch c.Kind {
		case core.KindText:
			err = reg.RegisterText(source, TextParser{Provider: c.Provider, Source: source})
		case core.KindStructured:
			err = reg.RegisterStructured(source, StructuredParser{Provider: c.Provider, Source: source})
		default:
			err = fmt.Errorf("%w: %s", core.ErrInvalidKind, c.Key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// read returns the file contents; ok is false when the file does not exist.
func read(ctx context.Context, path string) (data []byte, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err = os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
