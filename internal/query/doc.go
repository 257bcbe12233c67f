// Package query is a small cache-aware request orchestrator.
//
// A Client maps composite keys to cached request state (status, data,
// error, timestamps), collapses concurrent fetches of the same key into one
// call, and notifies subscribers whenever a key's state changes. Callers
// describe a request as a Query whose Mode is either Gated (runs only while
// enabled) or Suspend (blocks until the data has settled).
//
//	c := query.NewClient(query.WithStaleTime(time.Minute))
//	st := c.Observe(ctx, query.Query{
//	    Key:  query.Key{"todos", 1},
//	    Fn:   query.FetcherOf(api.GetTodos),
//	    Mode: query.Gated{Enabled: true},
//	})
//	todos, ok := query.DataAs[[]model.Todo](st)
package query
