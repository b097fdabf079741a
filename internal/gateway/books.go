package gateway

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/jonathan/talentmatrix/internal/types"
)

// SearchBooks runs a book search. Any envelope other than status "ok" with a
// books array yields an empty list.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]types.Book, error) {
	const op = "search books"
	q := url.Values{}
	q.Set("query", query)
	resp, err := c.get(ctx, op, "/api/books", q, "Book search failed")
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := decode(op, resp, &raw); err != nil {
		return nil, err
	}
	var env struct {
		Status string          `json:"status"`
		Books  json.RawMessage `json:"books"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || env.Status != "ok" {
		return []types.Book{}, nil
	}
	var books []types.Book
	if err := json.Unmarshal(env.Books, &books); err != nil || books == nil {
		return []types.Book{}, nil
	}
	return books, nil
}
