package query

import (
	"context"
	"time"
)

// Status is the data status of a query.
type Status int

const (
	// StatusPending means no data and no error yet.
	StatusPending Status = iota
	// StatusError means the last fetch failed. Earlier data is kept.
	StatusError
	// StatusSuccess means the last fetch succeeded.
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// FetchStatus reports whether a request is in flight.
type FetchStatus int

const (
	FetchIdle FetchStatus = iota
	FetchFetching
)

func (s FetchStatus) String() string {
	if s == FetchFetching {
		return "fetching"
	}
	return "idle"
}

// State is a snapshot of one cache entry.
type State struct {
	Status         Status
	FetchStatus    FetchStatus
	Data           any
	Err            error
	DataUpdatedAt  time.Time
	ErrorUpdatedAt time.Time
	FetchCount     int
	FailureCount   int
	Invalidated    bool
}

func (s State) IsPending() bool  { return s.Status == StatusPending }
func (s State) IsError() bool    { return s.Status == StatusError }
func (s State) IsSuccess() bool  { return s.Status == StatusSuccess }
func (s State) IsFetching() bool { return s.FetchStatus == FetchFetching }

// HasData reports whether a fetch has ever succeeded for this entry.
func (s State) HasData() bool { return !s.DataUpdatedAt.IsZero() }

// Settled reports whether the entry has a result, successful or not.
func (s State) Settled() bool { return s.Status != StatusPending }

// DataAs returns the state's data as T.
func DataAs[T any](s State) (T, bool) {
	v, ok := s.Data.(T)
	return v, ok
}

// Fetcher produces the data for a key.
type Fetcher func(ctx context.Context) (any, error)

// FetcherOf adapts a typed fetch function.
func FetcherOf[T any](fn func(context.Context) (T, error)) Fetcher {
	return func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Listener receives the new state of a key after every change.
type Listener func(State)
