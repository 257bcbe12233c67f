package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoquery/internal/logging"
	"github.com/idilsaglam/todoquery/internal/query"
)

func TestRun_QuitsOnKeyAndLogsThroughContext(t *testing.T) {
	var logs, out bytes.Buffer
	ctx := logging.WithContext(context.Background(), logging.New("debug", "json", &logs))

	page := NewSuspenseModel(ctx, query.NewClient(), &fakeSource{todos: makeTodos(1)})
	err := Run(ctx, page, RunOptions{In: strings.NewReader("q"), Out: &out})

	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"message":"program started"`)
	assert.Contains(t, logs.String(), `"message":"program exited"`)
}
