package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	defaultGCTime      = 5 * time.Minute
	defaultParallelism = 4
)

// Client owns the query cache. It is safe for concurrent use.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextID  uint64
	runs    uint64

	group singleflight.Group

	staleTime   time.Duration
	gcTime      time.Duration
	retry       int
	retryDelay  time.Duration
	parallelism int
	now         func() time.Time
	logger      zerolog.Logger
}

type entry struct {
	key        Key
	state      State
	lastAccess time.Time
	listeners  map[uint64]Listener
	flight     *flight
}

// flight is one run of a fetcher. Every caller waiting on it shares its
// result; the run is cancelled once the last of them gives up.
type flight struct {
	id      string // singleflight key, unique per run
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Option configures a Client.
type Option func(*Client)

// WithStaleTime sets how long successful data counts as fresh. Zero means
// data is stale as soon as it lands.
func WithStaleTime(d time.Duration) Option { return func(c *Client) { c.staleTime = d } }

// WithGCTime sets how long an unobserved entry survives before Prune drops it.
func WithGCTime(d time.Duration) Option { return func(c *Client) { c.gcTime = d } }

// WithRetry retries a failing fetch n extra times, doubling delay each attempt.
func WithRetry(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.retry = n
		c.retryDelay = delay
	}
}

// WithParallelism bounds how many queries Queries runs at once.
func WithParallelism(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.logger = l } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// NewClient returns an empty cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		entries:     make(map[string]*entry),
		gcTime:      defaultGCTime,
		parallelism: defaultParallelism,
		now:         time.Now,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot for key. Unknown keys are pending.
func (c *Client) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.Hash()]; ok {
		return e.state
	}
	return State{}
}

// Observe evaluates q according to its mode and returns the resulting state.
// A nil Mode behaves as an enabled Gated query.
func (c *Client) Observe(ctx context.Context, q Query) State {
	switch m := q.Mode.(type) {
	case Suspend:
		if st, fresh := c.cached(q.Key); fresh {
			return st
		}
		return c.Fetch(ctx, q.Key, q.Fn)
	case Gated:
		if !m.Enabled {
			c.touch(q.Key)
			return c.State(q.Key)
		}
	}
	if st, fresh := c.cached(q.Key); fresh {
		return st
	}
	return c.Fetch(ctx, q.Key, q.Fn)
}

// Refetch fetches key unconditionally, whatever the query's mode is. A fetch
// already in flight for key is cancelled and its result discarded.
func (c *Client) Refetch(ctx context.Context, key Key, fn Fetcher) State {
	return c.fetch(ctx, key, fn, true)
}

// Fetch runs fn for key, joining a fetch already in flight for the same key.
func (c *Client) Fetch(ctx context.Context, key Key, fn Fetcher) State {
	return c.fetch(ctx, key, fn, false)
}

// fetch waits on the current run for key, starting one if needed. The run is
// detached from ctx: a caller that gives up only stops waiting, and the run
// is cancelled when no caller is left or when replace starts a new one.
func (c *Client) fetch(ctx context.Context, key Key, fn Fetcher, replace bool) State {
	hash := key.Hash()

	c.mu.Lock()
	e := c.entryLocked(hash, key)
	if replace && e.flight != nil {
		e.flight.cancel()
		c.group.Forget(e.flight.id)
		e.flight = nil
	}
	f := e.flight
	if f == nil {
		c.runs++
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{id: hash + "#" + strconv.FormatUint(c.runs, 10), ctx: runCtx, cancel: cancel}
		e.flight = f
	}
	f.waiters++
	// Joining under mu: a run clears e.flight under mu before it returns, so
	// a flight seen here has not finished yet.
	ch := c.group.DoChan(f.id, func() (any, error) {
		c.begin(hash, key, f)
		data, err := c.run(f.ctx, key, fn)
		return c.settle(hash, key, f, data, err), nil
	})
	c.mu.Unlock()

	select {
	case res := <-ch:
		c.leave(f, false)
		return res.Val.(State)
	case <-ctx.Done():
		c.leave(f, true)
		return c.State(key)
	}
}

// leave drops one waiter from f. The last waiter to give up cancels the run.
func (c *Client) leave(f *flight, abandoned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if abandoned && f.waiters == 0 {
		f.cancel()
	}
}

// Invalidate marks key stale so the next Observe fetches it again.
func (c *Client) Invalidate(key Key) {
	c.update(key.Hash(), key, func(e *entry) bool {
		e.state.Invalidated = true
		return true
	})
}

// Remove drops key from the cache. Its subscribers stop being notified.
func (c *Client) Remove(key Key) {
	c.mu.Lock()
	delete(c.entries, key.Hash())
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Subscribe registers l for changes to key and returns a function that
// removes it again.
func (c *Client) Subscribe(key Key, l Listener) func() {
	hash := key.Hash()

	c.mu.Lock()
	e := c.entryLocked(hash, key)
	c.nextID++
	id := c.nextID
	e.listeners[id] = l
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e, ok := c.entries[hash]; ok {
				delete(e.listeners, id)
				e.lastAccess = c.now()
			}
		})
	}
}

// cached returns the entry's state and whether it can be served without fetching.
func (c *Client) cached(key Key) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.Hash()]
	if !ok {
		return State{}, false
	}
	e.lastAccess = c.now()
	return e.state, !c.staleLocked(e)
}

func (c *Client) staleLocked(e *entry) bool {
	s := e.state
	if s.Status != StatusSuccess || s.Invalidated {
		return true
	}
	return c.now().Sub(s.DataUpdatedAt) >= c.staleTime
}

func (c *Client) touch(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.Hash()]; ok {
		e.lastAccess = c.now()
	}
}

func (c *Client) begin(hash string, key Key, f *flight) {
	c.logger.Debug().Str("key", key.String()).Str("run", f.id).Msg("fetch started")
	c.update(hash, key, func(e *entry) bool {
		if e.flight != f {
			return false
		}
		e.state.FetchStatus = FetchFetching
		return true
	})
}

// settle records the outcome of f. Results of a replaced run are dropped,
// and a cancelled run leaves the previous outcome in place.
func (c *Client) settle(hash string, key Key, f *flight, data any, err error) State {
	defer f.cancel()
	now := c.now()
	outcome := ""
	st := c.update(hash, key, func(e *entry) bool {
		if e.flight != f {
			outcome = "superseded"
			return false
		}
		e.flight = nil
		s := &e.state
		s.FetchStatus = FetchIdle
		if err != nil && f.ctx.Err() != nil {
			outcome = "cancelled"
			return true
		}
		s.FetchCount++
		if err != nil {
			s.Status = StatusError
			s.Err = err
			s.ErrorUpdatedAt = now
			s.FailureCount++
			return true
		}
		s.Status = StatusSuccess
		s.Data = data
		s.Err = nil
		s.DataUpdatedAt = now
		s.FailureCount = 0
		s.Invalidated = false
		return true
	})

	if outcome != "" {
		c.logger.Debug().Str("key", key.String()).Str("run", f.id).Msgf("fetch %s", outcome)
		return st
	}

	lvl := zerolog.DebugLevel
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	c.logger.WithLevel(lvl).
		Err(err).
		Str("key", key.String()).
		Int("fetch_count", st.FetchCount).
		Str("status", st.Status.String()).
		Msg("fetch settled")
	return st
}

// run calls fn, retrying per the client's policy.
func (c *Client) run(ctx context.Context, key Key, fn Fetcher) (any, error) {
	delay := c.retryDelay
	for attempt := 0; ; attempt++ {
		data, err := fn(ctx)
		if err == nil || attempt >= c.retry || ctx.Err() != nil {
			return data, err
		}
		c.logger.Debug().Str("key", key.String()).Int("attempt", attempt+1).Err(err).Msg("retrying fetch")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

// update mutates the entry for hash and, when fn reports a change, notifies
// its listeners outside the lock.
func (c *Client) update(hash string, key Key, fn func(*entry) bool) State {
	c.mu.Lock()
	e := c.entryLocked(hash, key)
	changed := fn(e)
	e.lastAccess = c.now()
	st := e.state
	if !changed {
		c.mu.Unlock()
		return st
	}
	listeners := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(st)
	}
	return st
}

func (c *Client) entryLocked(hash string, key Key) *entry {
	e, ok := c.entries[hash]
	if !ok {
		e = &entry{key: key, lastAccess: c.now(), listeners: make(map[uint64]Listener)}
		c.entries[hash] = e
	}
	return e
}
