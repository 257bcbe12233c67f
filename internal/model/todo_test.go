package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoEncodingKeepsUpstreamFieldOrder(t *testing.T) {
	b, err := json.Marshal(Todo{UserID: 1, ID: 2, Title: "a", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, `{"userId":1,"id":2,"title":"a","completed":true}`, string(b))
}

func TestComments(t *testing.T) {
	var c Comments
	require.NoError(t, json.Unmarshal([]byte(`[{"postId":1,"id":1,"name":"x"},{"title":"t"}]`), &c))

	assert.Len(t, c, 2)
	assert.JSONEq(t, `{"postId":1,"id":1,"name":"x"}`, string(c.At(0)))
	assert.Nil(t, c.At(2))
	assert.Nil(t, c.At(-1))
	assert.Equal(t, "", c.Title(0))
	assert.Equal(t, "t", c.Title(1))
	assert.Equal(t, "", c.Title(5))
}
