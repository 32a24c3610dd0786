package mining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/udmine/ai"
	"github.com/poiesic/udmine/core"
)

// embedAll embeds items concurrently on the worker pool. The result keeps
// the relative order of items; items that could not be embedded are
// dropped and counted. The error is non-nil only when ctx ended.
func (m *Miner) embedAll(ctx context.Context, logger *slog.Logger, items []string) ([]core.Vector, int, error) {
	slots := make([]core.Vector, len(items))

	var wg sync.WaitGroup
	for i, text := range items {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := m.pool.Submit(func() {
			defer wg.Done()
			v, err := m.embedOne(ctx, text)
			if err != nil {
				logger.Debug("item not embedded", "index", i, "err", err)
				return
			}
			slots[i] = v
		})
		if err != nil {
			wg.Done()
			logger.Warn("failed to submit embedding task", "index", i, "err", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	vectors := make([]core.Vector, 0, len(items))
	for _, v := range slots {
		if len(v) > 0 {
			vectors = append(vectors, v)
		}
	}
	dropped := len(items) - len(vectors)
	if dropped > 0 {
		logger.Info("dropped unembeddable items", "dropped", dropped, "items", len(items))
	}
	return vectors, dropped, nil
}

// embedOne embeds a single item under the rate limit, the per-call
// deadline and the retry policy.
func (m *Miner) embedOne(ctx context.Context, text string) (core.Vector, error) {
	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		if m.limiter != nil {
			if err := m.limiter.Wait(ctx); err != nil {
				return Permanent(err)
			}
		}

		callCtx := ctx
		if m.embedTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, m.embedTimeout)
			defer cancel()
		}

		v, err := m.embedder.EmbedText(callCtx, text)
		if err != nil {
			if errors.Is(err, ai.ErrUnembeddable) {
				return Permanent(err)
			}
			return err
		}
		if len(v) == 0 {
			return Permanent(ai.ErrUnembeddable)
		}
		vector = v
		return nil
	}, m.maxAttempts, m.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingFailure, err)
	}
	return vector, nil
}
