package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoquery/internal/store/jsonstore"
)

const (
	todosBody    = `[{"userId":1,"id":1,"title":"a","completed":false},{"userId":1,"id":2,"title":"b","completed":true}]`
	commentsBody = `[{"postId":1,"id":1,"name":"first"},{"postId":1,"id":2,"name":"second"}]`
)

type fakeAPI struct {
	*httptest.Server
	status atomic.Int32
	hits   atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.status.Store(http.StatusOK)
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if code := int(f.status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/todos":
			_, _ = w.Write([]byte(todosBody))
		case "/comments":
			_, _ = w.Write([]byte(commentsBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run(context.Background(), args, strings.NewReader(""), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRender_App(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, stderr := run(t, "--base-url", srv.URL, "--delay", "0", "render", "app")

	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "POST ID: 1")
	assert.Contains(t, out, `{"postId":1,"id":2,"name":"second"}`)
	assert.Contains(t, out, "Title: a")
	assert.Contains(t, out, todosBody)
}

func TestRender_DefaultsToApp(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, _ := run(t, "--base-url", srv.URL, "--delay", "0", "render")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Title: a")
}

func TestRender_ErrorFrameExitsOne(t *testing.T) {
	srv := newFakeAPI(t)
	srv.status.Store(http.StatusInternalServerError)

	code, out, _ := run(t, "--base-url", srv.URL, "--delay", "0", "render", "app")

	assert.Equal(t, exitFailure, code)
	assert.Equal(t, "Error fetching todos: Network response was not ok\n", out)
}

func TestRender_Suspense(t *testing.T) {
	srv := newFakeAPI(t)

	code, out, _ := run(t, "--base-url", srv.URL, "--delay", "0", "render", "suspense")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "2 total")
	assert.Contains(t, out, "1/2")
}

func TestRender_ParallelError(t *testing.T) {
	srv := newFakeAPI(t)
	srv.status.Store(http.StatusNotFound)

	code, out, _ := run(t, "--base-url", srv.URL, "--delay", "0", "render", "parallel")

	assert.Equal(t, exitFailure, code)
	assert.Equal(t, "Error: Network response was not ok\n", out)
	assert.Equal(t, int32(2), srv.hits.Load(), "both queries ran")
}

func TestRender_FromEnvironment(t *testing.T) {
	srv := newFakeAPI(t)
	t.Setenv("TODOQUERY_API_BASE_URL", srv.URL)
	t.Setenv("TODOQUERY_API_DELAY", "0s")

	code, out, _ := run(t, "render", "parallel")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Todos")
	assert.Contains(t, out, "(untitled)")
}

func TestRender_FromConfigFile(t *testing.T) {
	srv := newFakeAPI(t)
	path := filepath.Join(t.TempDir(), "todoquery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: "+srv.URL+"\n  delay: 0s\nui:\n  theme: mono\n"), 0o600))

	code, out, _ := run(t, "--config", path, "render", "app")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Title: a")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown page", args: []string{"render", "nope"}, want: "invalid argument"},
		{name: "too many pages", args: []string{"render", "app", "parallel"}, want: "accepts at most 1 arg"},
		{name: "unknown command", args: []string{"frobnicate"}, want: "unknown command"},
		{name: "unknown flag", args: []string{"render", "--frob"}, want: "unknown flag"},
		{name: "bad delay", args: []string{"--delay", "soon", "render"}, want: "invalid argument"},
		{name: "invalid base url", args: []string{"--base-url", "ftp://x", "render"}, want: "api.base_url must be http or https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestInvalidConfigIsUsageWhateverTheSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoquery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: ftp://file\n"), 0o600))

	code, _, stderr := run(t, "--config", path, "render")
	assert.Equal(t, exitUsage, code, "from the config file")
	assert.Contains(t, stderr, "api.base_url must be http or https")

	t.Setenv("TODOQUERY_API_BASE_URL", "ftp://env")
	code, _, stderr = run(t, "render")
	assert.Equal(t, exitUsage, code, "from the environment")
	assert.Contains(t, stderr, "api.base_url must be http or https")
}

func TestConfigFileMissing(t *testing.T) {
	code, _, stderr := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "render")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "loading config")
}

func TestExport(t *testing.T) {
	srv := newFakeAPI(t)
	path := filepath.Join(t.TempDir(), "out.json")

	code, out, stderr := run(t, "--base-url", srv.URL, "--delay", "0", "export", "--out", path)

	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "exported 2 todos to "+path)

	todos, err := jsonstore.Load(path)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "a", todos[0].Title)
	assert.True(t, todos[1].Completed)
}

func TestExport_IntoDirectory(t *testing.T) {
	srv := newFakeAPI(t)
	dir := t.TempDir()

	code, _, _ := run(t, "--base-url", srv.URL, "--delay", "0", "export", "-o", dir)

	require.Equal(t, exitOK, code)
	assert.FileExists(t, filepath.Join(dir, jsonstore.DefaultFileName))
}

func TestExport_FetchFailure(t *testing.T) {
	srv := newFakeAPI(t)
	srv.status.Store(http.StatusServiceUnavailable)
	path := filepath.Join(t.TempDir(), "out.json")

	code, _, stderr := run(t, "--base-url", srv.URL, "--delay", "0", "export", "--out", path)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "fetching todos: Network response was not ok")
	assert.NoFileExists(t, path)
}

func TestLogFile(t *testing.T) {
	srv := newFakeAPI(t)
	logPath := filepath.Join(t.TempDir(), "logs", "todoquery.log")
	t.Setenv("TODOQUERY_LOG_FILE", logPath)
	t.Setenv("TODOQUERY_LOG_FORMAT", "json")

	code, _, stderr := run(t, "--base-url", srv.URL, "--delay", "0", "--debug", "render", "suspense")

	require.Equal(t, exitOK, code)
	assert.NotContains(t, stderr, "command started")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"command started"`)
}
