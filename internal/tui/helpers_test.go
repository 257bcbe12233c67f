package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoquery/internal/model"
	"github.com/idilsaglam/todoquery/internal/ui"
)

// fakeSource serves canned data and counts calls.
type fakeSource struct {
	todos       []model.Todo
	comments    model.Comments
	todosErr    error
	commentsErr error

	todoCalls    atomic.Int32
	commentCalls atomic.Int32

	mu      sync.Mutex
	postIDs []string
}

func (f *fakeSource) GetTodos(context.Context) ([]model.Todo, error) {
	f.todoCalls.Add(1)
	if f.todosErr != nil {
		return nil, f.todosErr
	}
	return f.todos, nil
}

func (f *fakeSource) GetTodosByID(_ context.Context, id string) (model.Comments, error) {
	f.commentCalls.Add(1)
	f.mu.Lock()
	f.postIDs = append(f.postIDs, id)
	f.mu.Unlock()
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments, nil
}

func makeTodos(n int) []model.Todo {
	out := make([]model.Todo, n)
	for i := range out {
		out[i] = model.Todo{UserID: 1, ID: i + 1, Title: fmt.Sprintf("%c", 'a'+i), Completed: i%2 == 1}
	}
	return out
}

func makeComments(n int) model.Comments {
	out := make(model.Comments, n)
	for i := range out {
		// upstream bodies are pretty-printed
		out[i] = json.RawMessage(fmt.Sprintf("{\n  \"postId\": 1,\n  \"id\": %d,\n  \"name\": \"c%d\"\n}", i+1, i+1))
	}
	return out
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive runs cmd and feeds its messages back into m, expanding batches.
// Spinner ticks are dropped so the loop terminates.
func drive(t *testing.T, m tea.Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drive(t, m, c)
		}
	case spinner.TickMsg, tea.QuitMsg, nil:
	default:
		_, next := m.Update(msg)
		drive(t, m, next)
	}
}

func useMonoTheme(t *testing.T) {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })
}
