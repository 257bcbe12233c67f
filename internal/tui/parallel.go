package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoquery/internal/model"
	"github.com/idilsaglam/todoquery/internal/query"
	"github.com/idilsaglam/todoquery/internal/ui"
)

const (
	parallelPostID = "1"

	listDefaultWidth  = 80
	listDefaultHeight = 20
)

// titleItem adapts one entry's title to bubbles/list.Item
type titleItem struct {
	Text string
}

func (i titleItem) Title() string       { return i.Text }
func (i titleItem) Description() string { return "" }
func (i titleItem) FilterValue() string { return i.Text }

// titleDelegate renders one bullet per line.
type titleDelegate struct{}

func (d titleDelegate) Height() int                             { return 1 }
func (d titleDelegate) Spacing() int                            { return 0 }
func (d titleDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d titleDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(titleItem)
	t := ui.Current()
	text := it.Text
	if text == "" {
		text = t.Muted.Render("(untitled)")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	_, _ = fmt.Fprintln(w, prefix+"• "+text)
}

// ParallelModel runs the todos and comments queries side by side and lists
// the titles of the second result.
type ParallelModel struct {
	ctx    context.Context
	client *query.Client
	src    Source

	results []query.State
	list    list.Model
	help    help.Model
	keys    keyMap
}

// NewParallelModel builds the parallel queries page.
func NewParallelModel(ctx context.Context, c *query.Client, src Source) *ParallelModel {
	l := list.New(nil, titleDelegate{}, listDefaultWidth, listDefaultHeight)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.SetStatusBarItemName("title", "titles")

	m := &ParallelModel{
		ctx:    ctx,
		client: c,
		src:    src,
		list:   l,
		help:   help.New(),
		keys:   newKeyMap(false),
	}
	m.sync()
	return m
}

func (m *ParallelModel) queries() []query.Query {
	return []query.Query{
		{
			Key: query.Key{"todos"},
			Fn:  query.FetcherOf(m.src.GetTodos),
		},
		{
			Key: query.Key{"todoById", parallelPostID},
			Fn: query.FetcherOf(func(ctx context.Context) (model.Comments, error) {
				return m.src.GetTodosByID(ctx, parallelPostID)
			}),
		},
	}
}

func (m *ParallelModel) Keys() []query.Key {
	qs := m.queries()
	keys := make([]query.Key, len(qs))
	for i, q := range qs {
		keys[i] = q.Key
	}
	return keys
}

func (m *ParallelModel) Client() *query.Client { return m.client }

// Results returns the latest state of both queries, in order.
func (m *ParallelModel) Results() []query.State { return m.results }

func (m *ParallelModel) sync() {
	keys := m.Keys()
	m.results = make([]query.State, len(keys))
	for i, k := range keys {
		m.results[i] = m.client.State(k)
	}

	comments, _ := query.DataAs[model.Comments](m.results[1])
	items := make([]list.Item, len(comments))
	for i := range comments {
		items[i] = titleItem{Text: comments.Title(i)}
	}
	m.list.SetItems(items)
}

func (m *ParallelModel) batchCmd(force bool) tea.Cmd {
	ctx, c, qs := m.ctx, m.client, m.queries()
	return func() tea.Msg {
		if force {
			c.RefetchQueries(ctx, qs)
		} else {
			c.Queries(ctx, qs)
		}
		return stateMsg{key: qs[0].Key.Hash()}
	}
}

func (m *ParallelModel) Init() tea.Cmd { return m.batchCmd(false) }

func (m *ParallelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, max(msg.Height-6, 1))
		m.help.Width = msg.Width
		return m, nil
	case stateMsg:
		m.sync()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refetch):
			return m, m.batchCmd(true)
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *ParallelModel) View() string {
	return m.Static() + "\n" + m.help.View(m.keys)
}

func (m *ParallelModel) Resolve(ctx context.Context) {
	m.client.Queries(ctx, m.queries())
	m.sync()
}

func (m *ParallelModel) Static() string {
	first := m.results[0]
	if first.IsError() {
		return "Error: " + first.Err.Error()
	}
	t := ui.Current()
	lines := []string{t.Title.Render("Todos")}
	if !m.results[1].Settled() {
		lines = append(lines, t.Muted.Render("loading..."))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, m.list.View())
	return strings.Join(lines, "\n")
}

func (m *ParallelModel) Failed() bool { return m.results[0].IsError() }
