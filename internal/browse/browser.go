package browse

import (
	"context"
	"sync"

	"market-stall/internal/model"
	"market-stall/internal/service"

	"github.com/rs/zerolog"
)

// Update is the outcome of a browse request. A repository outage is
// delivered as an empty product list plus the error so callers can render
// "no results" instead of crashing.
type Update struct {
	Filter   model.ProductFilter
	Products []model.ProductWithSeller
	Err      error
}

// Browser is the async read path for UI-style callers. Re-issuing a filter
// supersedes the in-flight request for the same filter key: the newest
// request wins and results for older requests are discarded, never queued.
type Browser struct {
	catalog service.CatalogService
	logger  zerolog.Logger
	updates chan Update

	mu     sync.Mutex
	seq    map[string]uint64
	cancel map[string]context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewBrowser creates a browser delivering outcomes on Updates.
// The buffer bounds how many undelivered updates may be pending.
func NewBrowser(catalog service.CatalogService, buffer int, logger zerolog.Logger) *Browser {
	if buffer < 1 {
		buffer = 1
	}
	return &Browser{
		catalog: catalog,
		logger:  logger.With().Str("component", "browser").Logger(),
		updates: make(chan Update, buffer),
		seq:     make(map[string]uint64),
		cancel:  make(map[string]context.CancelFunc),
	}
}

// Updates returns the delivery channel. It is closed by Close.
func (b *Browser) Updates() <-chan Update {
	return b.updates
}

// Browse issues an asynchronous product listing for the filter. Any
// in-flight request for the same filter key is cancelled; only the result
// of the latest request per key is ever delivered.
func (b *Browser) Browse(ctx context.Context, filter model.ProductFilter) {
	filter = filter.Normalize()
	key := filter.Key()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.seq[key]++
	seq := b.seq[key]
	if cancelPrev, ok := b.cancel[key]; ok {
		cancelPrev()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	b.cancel[key] = cancel
	b.wg.Add(1)
	b.mu.Unlock()

	b.logger.Debug().
		Str("filter_key", key).
		Uint64("seq", seq).
		Msg("browse request issued")

	go func() {
		defer b.wg.Done()

		products, err := b.catalog.ListProducts(reqCtx, filter)

		if reqCtx.Err() != nil {
			// Superseded or caller gone; the outcome is stale either way.
			b.logger.Debug().
				Str("filter_key", key).
				Uint64("seq", seq).
				Msg("browse request superseded in flight")
			return
		}

		b.mu.Lock()
		latest := b.seq[key] == seq && !b.closed
		b.mu.Unlock()
		if !latest {
			b.logger.Debug().
				Str("filter_key", key).
				Uint64("seq", seq).
				Msg("discarding stale browse result")
			return
		}

		if err != nil {
			// Render-as-empty contract for repository outages.
			products = []model.ProductWithSeller{}
		}

		select {
		case b.updates <- Update{Filter: filter, Products: products, Err: err}:
		case <-reqCtx.Done():
		}
	}()
}

// Close cancels all in-flight requests, waits for them to finish and
// closes the updates channel. Browse calls after Close are no-ops.
func (b *Browser) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, cancel := range b.cancel {
		cancel()
	}
	b.mu.Unlock()

	b.wg.Wait()
	close(b.updates)

	b.logger.Debug().Msg("browser closed")
}
