package api

import (
	"context"
	"net/url"

	"github.com/idilsaglam/todoquery/internal/model"
)

// GetTodos fetches the full /todos collection.
func (c *Client) GetTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.getJSON(ctx, "GetTodos", "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodosByID fetches the comments of post id. The upstream shape is not
// relied on, so elements are returned raw.
func (c *Client) GetTodosByID(ctx context.Context, id string) (model.Comments, error) {
	var comments model.Comments
	q := url.Values{"postId": []string{id}}
	if err := c.getJSON(ctx, "GetTodosByID", "/comments", q, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
