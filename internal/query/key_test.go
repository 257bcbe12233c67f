package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyHash(t *testing.T) {
	assert.Equal(t, Key{"todos", 1}.Hash(), Key{"todos", 1}.Hash(), "stable")
	assert.NotEqual(t, Key{"todos", 1}.Hash(), Key{"todos", 2}.Hash())
	assert.NotEqual(t, Key{"todoById", 1}.Hash(), Key{"todoById", "1"}.Hash(), "number and string differ")
	assert.NotEqual(t, Key{"todos"}.Hash(), Key{"todos", 1}.Hash())

	a := Key{"filter", map[string]any{"b": 2, "a": 1}}
	b := Key{"filter", map[string]any{"a": 1, "b": 2}}
	assert.Equal(t, a.Hash(), b.Hash(), "object keys are order independent")

	assert.Len(t, Key{"todos"}.Hash(), 64)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, `["todos",1]`, Key{"todos", 1}.String())
	assert.Equal(t, `["todoById","1"]`, Key{"todoById", "1"}.String())
}
