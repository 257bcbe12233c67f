// Package tui holds the Bubble Tea models of the three demo pages: the main
// page (gated + suspending queries), the suspense demo and the parallel
// queries demo. Every page reads its data from a shared *query.Client and is
// re-rendered whenever one of its keys changes.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoquery/internal/model"
	"github.com/idilsaglam/todoquery/internal/query"
)

// Source is the data access layer the pages fetch through.
type Source interface {
	GetTodos(ctx context.Context) ([]model.Todo, error)
	GetTodosByID(ctx context.Context, id string) (model.Comments, error)
}

// Page is a demo screen that can run interactively or be resolved and
// printed once.
type Page interface {
	tea.Model
	// Keys lists the query keys the page renders from.
	Keys() []query.Key
	// Client returns the cache the page reads.
	Client() *query.Client
	// Resolve runs the page's queries to completion without a program.
	Resolve(ctx context.Context)
	// Static renders the current frame without interactive chrome.
	Static() string
	// Failed reports whether the current frame is an error view.
	Failed() bool
}

// stateMsg tells a page that the cache entry for key changed.
type stateMsg struct {
	key string
}

// sender is the part of *tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// Bridge subscribes to keys and forwards every change to s as a message.
// The returned function removes the subscriptions.
func Bridge(s sender, c *query.Client, keys ...query.Key) func() {
	unsubs := make([]func(), 0, len(keys))
	for _, k := range keys {
		hash := k.Hash()
		unsubs = append(unsubs, c.Subscribe(k, func(query.State) {
			s.Send(stateMsg{key: hash})
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// observeCmd evaluates q off the update loop.
func observeCmd(ctx context.Context, c *query.Client, q query.Query) tea.Cmd {
	return func() tea.Msg {
		c.Observe(ctx, q)
		return stateMsg{key: q.Key.Hash()}
	}
}

// refetchCmd forces a fetch of q off the update loop.
func refetchCmd(ctx context.Context, c *query.Client, q query.Query) tea.Cmd {
	return func() tea.Msg {
		c.Refetch(ctx, q.Key, q.Fn)
		return stateMsg{key: q.Key.Hash()}
	}
}
