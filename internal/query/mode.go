package query

// Mode selects how Observe treats a Query. It is a closed set: Gated or Suspend.
type Mode interface {
	mode()
}

// Gated runs the query only while Enabled is true. A disabled gated query
// reports whatever is cached and never calls its Fetcher.
type Gated struct {
	Enabled bool
}

// Suspend blocks until the query has settled. On success Data is always set.
// A suspending query cannot be disabled.
type Suspend struct{}

func (Gated) mode()   {}
func (Suspend) mode() {}

// Query binds a key to its fetcher and mode.
type Query struct {
	Key  Key
	Fn   Fetcher
	Mode Mode
}
