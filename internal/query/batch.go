package query

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Queries observes every query concurrently and returns their states in
// input order. A failing query never cancels the others.
func (c *Client) Queries(ctx context.Context, qs []Query) []State {
	return c.each(ctx, qs, c.Observe)
}

// RefetchQueries is Queries with every query refetched, replacing runs
// already in flight.
func (c *Client) RefetchQueries(ctx context.Context, qs []Query) []State {
	return c.each(ctx, qs, func(ctx context.Context, q Query) State {
		return c.Refetch(ctx, q.Key, q.Fn)
	})
}

func (c *Client) each(ctx context.Context, qs []Query, fn func(context.Context, Query) State) []State {
	results := make([]State, len(qs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for i, q := range qs {
		g.Go(func() error {
			results[i] = fn(gCtx, q)
			// failures live in the state; returning them would cancel siblings
			return nil
		})
	}
	_ = g.Wait()

	return results
}
