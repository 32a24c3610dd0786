package mining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/udmine/aggregate"
	"github.com/poiesic/udmine/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/poiesic/udmine/mining")

// resolve produces the entry for one category. The returned error is
// non-nil only when ctx ended; every other failure degrades the entry.
func (m *Miner) resolve(ctx context.Context, logger *slog.Logger, cat core.Category, now time.Time) (*core.Entry, error) {
	ctx, span := tracer.Start(ctx, "mining.category", trace.WithAttributes(
		attribute.String("category.key", cat.Key),
		attribute.String("category.label", cat.Label),
		attribute.String("category.provider", string(cat.Provider)),
		attribute.String("category.kind", cat.Kind.String()),
	))
	defer span.End()

	logger = logger.With("category", cat.Key)

	var entry *core.Entry
	switch cat.Kind {
	case core.KindStructured:
		entry = m.resolveStructured(ctx, logger, cat, now)
	default:
		entry = m.resolveText(ctx, logger, cat)
	}

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("category.resolution", entry.Resolution.String()),
		attribute.Int("category.items", entry.Count()),
		attribute.Int("category.dropped", entry.Dropped),
	)
	if entry.Err != nil {
		span.RecordError(entry.Err)
		span.SetStatus(codes.Error, entry.Err.Error())
	}
	return entry, nil
}

func (m *Miner) resolveText(ctx context.Context, logger *slog.Logger, cat core.Category) *core.Entry {
	entry := &core.Entry{Key: cat.Key, Label: cat.Label, Kind: cat.Kind}

	set, err := m.parseText(ctx, cat)
	if err != nil {
		logger.Warn("parser unavailable, using cache", "err", err)
		set = core.UnavailableSet()
	}

	switch set.State {
	case core.Present:
		vectors, dropped, err := m.embedAll(ctx, logger, set.Items)
		if err != nil {
			entry.Vectors = []core.Vector{}
			entry.Resolution = core.ResolutionDegraded
			entry.Err = err
			return entry
		}
		entry.Vectors = vectors
		entry.Dropped = dropped
		entry.Provenance = core.ProvenanceFresh
		entry.Resolution = core.ResolutionEmbedded

		if err := m.cache.Save(ctx, cat.Key, vectors); err != nil {
			logger.Error("failed to cache embeddings", "err", err)
		}

	case core.Empty:
		entry.Vectors = []core.Vector{}
		entry.Resolution = core.ResolutionEmpty

	default:
		vectors, err := m.cache.Load(ctx, cat.Key)
		if err != nil {
			if errors.Is(err, core.ErrCacheMiss) {
				logger.Info("no fresh data and no cached embeddings")
			} else {
				logger.Warn("cached embeddings unusable", "err", err)
			}
			entry.Vectors = []core.Vector{}
			entry.Resolution = core.ResolutionDegraded
			entry.Err = err
			return entry
		}
		entry.Vectors = vectors
		entry.Provenance = core.ProvenanceCached
		entry.Resolution = core.ResolutionCached
	}

	return entry
}

func (m *Miner) resolveStructured(ctx context.Context, logger *slog.Logger, cat core.Category, now time.Time) *core.Entry {
	entry := &core.Entry{Key: cat.Key, Label: cat.Label, Kind: cat.Kind, Totals: &core.Totals{}}

	set, err := m.parseStructured(ctx, cat)
	if err != nil {
		logger.Warn("parser unavailable", "err", err)
		entry.Resolution = core.ResolutionDegraded
		entry.Err = err
		return entry
	}

	switch set.State {
	case core.Present:
		totals := aggregate.SummarizeSet(set, cat.Measure, now)
		entry.Totals = &totals
		entry.Provenance = core.ProvenanceFresh
		entry.Resolution = core.ResolutionAggregated
	case core.Empty:
		entry.Resolution = core.ResolutionEmpty
	default:
		entry.Resolution = core.ResolutionDegraded
		entry.Err = fmt.Errorf("%w: %s", core.ErrParserUnavailable, cat.SourceName())
	}
	return entry
}

// parseText invokes the category's parser, converting a panic into an error.
func (m *Miner) parseText(ctx context.Context, cat core.Category) (set core.RecordSet, err error) {
	p, err := m.registry.Text(cat.SourceName())
	if err != nil {
		return core.UnavailableSet(), err
	}
	defer func() {
		if r := recover(); r != nil {
			set, err = core.UnavailableSet(), fmt.Errorf("%w: parser %s panicked: %v", core.ErrParserUnavailable, cat.SourceName(), r)
		}
	}()

	set, err = p.Parse(ctx, m.identity.User, m.identity.DataRoot)
	if err != nil {
		return core.UnavailableSet(), fmt.Errorf("%w: %w", core.ErrParserUnavailable, err)
	}
	return set, nil
}

func (m *Miner) parseStructured(ctx context.Context, cat core.Category) (set core.AggregateSet, err error) {
	p, err := m.registry.Structured(cat.SourceName())
	if err != nil {
		return core.AggregateSet{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			set, err = core.AggregateSet{}, fmt.Errorf("%w: parser %s panicked: %v", core.ErrParserUnavailable, cat.SourceName(), r)
		}
	}()

	set, err = p.Parse(ctx, m.identity.User, m.identity.DataRoot)
	if err != nil {
		return core.AggregateSet{}, fmt.Errorf("%w: %w", core.ErrParserUnavailable, err)
	}
	return set, nil
}

// skippedEntry records a category excluded by the filters.
func skippedEntry(cat core.Category) *core.Entry {
	entry := &core.Entry{Key: cat.Key, Label: cat.Label, Kind: cat.Kind, Resolution: core.ResolutionSkipped}
	if cat.Kind == core.KindStructured {
		entry.Totals = &core.Totals{}
	} else {
		entry.Vectors = []core.Vector{}
	}
	return entry
}
