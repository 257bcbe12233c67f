package model

import "encoding/json"

// Todo is a single entry of the /todos collection.
// Field order follows the upstream payload so re-encoding keeps it.
type Todo struct {
	UserID    int    `json:"userId"`
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Comments is the untyped /comments?postId= payload. Elements are kept as
// received; nothing downstream relies on their shape.
type Comments []json.RawMessage

// At returns the raw element at i, or nil when out of range.
func (c Comments) At(i int) json.RawMessage {
	if i < 0 || i >= len(c) {
		return nil
	}
	return c[i]
}

// Title returns the "title" field of element i if it has one.
func (c Comments) Title(i int) string {
	raw := c.At(i)
	if raw == nil {
		return ""
	}
	var fields struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	return fields.Title
}
