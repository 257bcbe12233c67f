package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[█████░░░░░] 5/10", ProgressBar(5, 10, 10))
	assert.Equal(t, "[░░░░░] 0/1", ProgressBar(0, 0, 1), "total and width are clamped")
	assert.Equal(t, "[█████] 7/5", ProgressBar(7, 5, 5), "overflow is capped")
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })

	SetTheme("neon")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("MONO")
	assert.Equal(t, "mono", Current().Name)
	assert.Equal(t, "-", Current().Rule)
	SetTheme("whatever")
	assert.Equal(t, "classic", Current().Name)
}

func TestRule(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })
	SetTheme("mono")
	assert.Equal(t, strings.Repeat("-", 5), Rule(5))
	assert.Equal(t, strings.Repeat("-", defaultRuleWidth), Rule(0))
}

func TestPanelContainsLines(t *testing.T) {
	out := Panel([]string{"Todos", "a"})
	assert.Contains(t, out, "Todos")
	assert.Contains(t, out, "a")
	assert.Len(t, strings.Split(out, "\n"), 4, "top border, two lines, bottom border")
}

func TestOKAndFail(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })
	SetTheme("mono")

	var buf bytes.Buffer
	OK(&buf, "exported")
	Fail(&buf, "boom")
	assert.Equal(t, "ok exported\nerror: boom\n", buf.String())
}
