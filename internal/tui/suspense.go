package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoquery/internal/model"
	"github.com/idilsaglam/todoquery/internal/query"
	"github.com/idilsaglam/todoquery/internal/ui"
)

// Card shows a summary of the todo collection from a suspending query.
type Card struct {
	client *query.Client
	src    Source
	state  query.State
}

// NewCard returns a card reading through c.
func NewCard(c *query.Client, src Source) *Card {
	card := &Card{client: c, src: src}
	card.sync()
	return card
}

func (c *Card) query() query.Query {
	return query.Query{
		Key:  query.Key{"todos"},
		Fn:   query.FetcherOf(c.src.GetTodos),
		Mode: query.Suspend{},
	}
}

func (c *Card) sync() { c.state = c.client.State(c.query().Key) }

// Suspended reports whether the card is still waiting for its data.
func (c *Card) Suspended() bool { return !c.state.Settled() }

// Failed reports whether the card's query failed.
func (c *Card) Failed() bool { return c.state.IsError() }

// View renders the card. Callers show a fallback while it is suspended.
func (c *Card) View() string {
	if c.state.IsError() {
		return "Error: " + c.state.Err.Error()
	}
	t := ui.Current()
	todos, _ := query.DataAs[[]model.Todo](c.state)
	if len(todos) == 0 {
		return ui.Panel([]string{t.Title.Render("Todos"), t.Muted.Render(noDataText)})
	}

	done := 0
	for _, td := range todos {
		if td.Completed {
			done++
		}
	}
	first := todos[0]
	box := t.SymPending
	if first.Completed {
		box = t.SymDone
	}
	return ui.Panel([]string{
		t.Title.Render("Todos") + "  " + t.Muted.Render(fmt.Sprintf("%d total", len(todos))),
		fmt.Sprintf("%s %s", box, first.Title),
		t.Muted.Render(ui.ProgressBar(done, len(todos), 28)),
	})
}

// SuspenseModel renders SuspenseFallback until its card has data.
type SuspenseModel struct {
	ctx  context.Context
	card *Card
	help help.Model
	keys keyMap
}

// NewSuspenseModel wraps a Card in a suspense boundary.
func NewSuspenseModel(ctx context.Context, c *query.Client, src Source) *SuspenseModel {
	return &SuspenseModel{
		ctx:  ctx,
		card: NewCard(c, src),
		help: help.New(),
		keys: newKeyMap(false),
	}
}

func (m *SuspenseModel) Keys() []query.Key    { return []query.Key{m.card.query().Key} }
func (m *SuspenseModel) Client() *query.Client { return m.card.client }

func (m *SuspenseModel) Init() tea.Cmd {
	return observeCmd(m.ctx, m.card.client, m.card.query())
}

func (m *SuspenseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case stateMsg:
		m.card.sync()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refetch):
			return m, refetchCmd(m.ctx, m.card.client, m.card.query())
		}
	}
	return m, nil
}

func (m *SuspenseModel) View() string {
	return m.Static() + "\n\n" + m.help.View(m.keys)
}

func (m *SuspenseModel) Resolve(ctx context.Context) {
	m.card.client.Observe(ctx, m.card.query())
	m.card.sync()
}

func (m *SuspenseModel) Static() string {
	if m.card.Suspended() {
		return SuspenseFallback
	}
	return m.card.View()
}

func (m *SuspenseModel) Failed() bool { return m.card.Failed() }
