package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todoquery/internal/model"
	"github.com/idilsaglam/todoquery/internal/query"
	"github.com/idilsaglam/todoquery/internal/ui"
)

const (
	// SuspenseFallback is shown while a suspending query has not settled.
	SuspenseFallback = "Loading Spinner Component Here..."

	todosErrorPrefix    = "Error fetching todos: "
	commentsErrorPrefix = "Error fetching todo by ID: "
	noDataText          = "No Data Available"
	placeholderAlt      = "React logo"
	dumpLimit           = 10
)

// AppModel is the main page. It runs a gated todos query that the user can
// switch off and refetch, plus a suspending comments query for post id.
type AppModel struct {
	ctx    context.Context
	client *query.Client
	src    Source

	on bool
	id int // part of both keys; nothing changes it

	todos    query.State
	comments query.State

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
}

// NewAppModel builds the main page with the todos query enabled and id 1.
func NewAppModel(ctx context.Context, c *query.Client, src Source) *AppModel {
	m := &AppModel{
		ctx:     ctx,
		client:  c,
		src:     src,
		on:      true,
		id:      1,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(true),
	}
	m.sync()
	return m
}

func (m *AppModel) todosQuery() query.Query {
	return query.Query{
		Key:  query.Key{"todos", m.id},
		Fn:   query.FetcherOf(m.src.GetTodos),
		Mode: query.Gated{Enabled: m.on},
	}
}

func (m *AppModel) commentsQuery() query.Query {
	id := strconv.Itoa(m.id)
	return query.Query{
		Key: query.Key{"todoById", m.id},
		Fn: query.FetcherOf(func(ctx context.Context) (model.Comments, error) {
			return m.src.GetTodosByID(ctx, id)
		}),
		Mode: query.Suspend{},
	}
}

// Enabled reports whether the todos query is switched on.
func (m *AppModel) Enabled() bool { return m.on }

func (m *AppModel) Keys() []query.Key {
	return []query.Key{m.todosQuery().Key, m.commentsQuery().Key}
}

func (m *AppModel) Client() *query.Client { return m.client }

// sync re-reads both entries from the cache.
func (m *AppModel) sync() {
	m.todos = m.client.State(m.todosQuery().Key)
	m.comments = m.client.State(m.commentsQuery().Key)
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		observeCmd(m.ctx, m.client, m.todosQuery()),
		observeCmd(m.ctx, m.client, m.commentsQuery()),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.on = !m.on
			if !m.on {
				return m, nil
			}
			return m, observeCmd(m.ctx, m.client, m.todosQuery())
		case key.Matches(msg, m.keys.Refetch):
			return m, refetchCmd(m.ctx, m.client, m.todosQuery())
		}
	}
	return m, nil
}

func (m *AppModel) View() string {
	if frame, failed := m.errorFrame(); failed {
		return frame
	}
	if !m.comments.Settled() {
		return SuspenseFallback
	}

	t := ui.Current()
	placeholder := m.spinner.View() + " " + t.Muted.Render(placeholderAlt)
	lines := m.body(placeholder)
	lines = append(lines,
		"",
		t.Accent.Render("[ Refetch ]")+"  "+m.statusLine(),
		m.help.View(m.keys),
	)
	return strings.Join(lines, "\n")
}

func (m *AppModel) Resolve(ctx context.Context) {
	m.client.Queries(ctx, []query.Query{m.todosQuery(), m.commentsQuery()})
	m.sync()
}

func (m *AppModel) Static() string {
	if frame, failed := m.errorFrame(); failed {
		return frame
	}
	if !m.comments.Settled() {
		return SuspenseFallback
	}
	return strings.Join(m.body(placeholderAlt), "\n")
}

func (m *AppModel) Failed() bool {
	_, failed := m.errorFrame()
	return failed
}

// errorFrame returns the whole-view replacement when a query failed. The
// suspending query has to settle first, as its fallback covers the page.
func (m *AppModel) errorFrame() (string, bool) {
	if !m.comments.Settled() {
		return "", false
	}
	if m.todos.IsError() {
		return todosErrorPrefix + m.todos.Err.Error(), true
	}
	if m.comments.IsError() {
		return commentsErrorPrefix + m.comments.Err.Error(), true
	}
	return "", false
}

func (m *AppModel) body(placeholder string) []string {
	t := ui.Current()
	comments, _ := query.DataAs[model.Comments](m.comments)

	lines := []string{
		ui.Rule(m.width),
		t.Title.Render(fmt.Sprintf("POST ID: %d", m.id)),
		m.wrap(dumpRaw(comments.At(1))),
		ui.Rule(m.width),
	}

	switch todos, _ := query.DataAs[[]model.Todo](m.todos); {
	case m.todos.IsPending():
		lines = append(lines, placeholder)
	case len(todos) > 0:
		lines = append(lines, "Title: "+todos[0].Title, m.wrap(dumpJSON(todos[:min(dumpLimit, len(todos))])))
	default:
		lines = append(lines, noDataText)
	}
	return lines
}

func (m *AppModel) statusLine() string {
	t := ui.Current()
	state := "off"
	if m.on {
		state = "on"
	}
	return t.Muted.Render(fmt.Sprintf("query %s · %s", state, m.todos.FetchStatus))
}

func (m *AppModel) wrap(s string) string {
	if m.width <= 0 || s == "" {
		return s
	}
	return lipgloss.NewStyle().Width(m.width).Render(s)
}

// dumpRaw compacts one upstream element; a missing element renders as nothing.
func dumpRaw(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	return dumpJSON(raw)
}

// dumpJSON encodes v compactly, the way JSON.stringify would.
func dumpJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
