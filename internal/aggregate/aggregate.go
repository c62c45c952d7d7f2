package aggregate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
)

// Aggregator fans one query out to every registered provider and merges
// the results with affiliate listings first. It fails closed: whatever
// goes wrong inside, callers get a slice (possibly empty), never an error.
type Aggregator struct {
	log             *logger.Logger
	reg             listing.Registry
	providerTimeout time.Duration
}

func New(log *logger.Logger, reg listing.Registry, providerTimeout time.Duration) *Aggregator {
	if providerTimeout <= 0 {
		providerTimeout = 8 * time.Second
	}
	return &Aggregator{log: log.With("component", "aggregator"), reg: reg, providerTimeout: providerTimeout}
}

// FindProductsByQuery returns the merged listings for a query.
//
// Both provider groups run concurrently and are awaited in full; there is
// no partial-results path. Merge order is affiliate group then fallback
// group, each in registry order, regardless of completion order. A failing
// or timed-out provider contributes nothing and is logged.
func (a *Aggregator) FindProductsByQuery(ctx context.Context, query string) []listing.Listing {
	var affiliate, fallback []listing.Listing
	var g errgroup.Group
	g.Go(func() error {
		affiliate = a.collect(ctx, a.reg.Affiliate, query)
		return nil
	})
	g.Go(func() error {
		fallback = a.collect(ctx, a.reg.Fallback, query)
		return nil
	})
	_ = g.Wait()

	out := make([]listing.Listing, 0, len(affiliate)+len(fallback))
	out = append(out, affiliate...)
	out = append(out, fallback...)
	return out
}

// collect runs one provider group concurrently and flattens the results
// in registry order. Per-provider errors and panics are swallowed here;
// a provider must never abort the rest of the aggregation.
func (a *Aggregator) collect(ctx context.Context, providers []listing.Provider, query string) []listing.Listing {
	results := make([][]listing.Listing, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					a.log.Error("provider panicked", "provider", p.Name(), "panic", fmt.Sprint(rec))
				}
			}()

			pctx, cancel := context.WithTimeout(ctx, a.providerTimeout)
			defer cancel()

			ls, serr := p.Search(pctx, query)
			if serr != nil {
				a.log.Warn("provider search failed", "provider", p.Name(), "query", query, "error", serr.Error())
				return nil
			}
			results[i] = ls
			return nil
		})
	}
	_ = g.Wait()

	var out []listing.Listing
	for _, ls := range results {
		out = append(out, ls...)
	}
	return out
}
