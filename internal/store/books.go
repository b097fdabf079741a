package store

import (
	"context"
	"slices"
	"strings"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/types"
)

// BooksState is the book search slice.
type BooksState struct {
	Query  string       `json:"query"`
	Books  []types.Book `json:"books"`
	Search OpState      `json:"search"`
}

func emptyBooksState() BooksState {
	return BooksState{Books: []types.Book{}}
}

func (s BooksState) clone() BooksState {
	out := s
	out.Books = slices.Clone(nonNil(s.Books))
	return out
}

// Books owns the reading recommendations screen.
type Books struct {
	slice *Slice[BooksState]
	gw    Gateway
}

func newBooks(deps Deps) *Books {
	return &Books{
		slice: NewSlice("books", emptyBooksState(), BooksState.clone, deps.Logger),
		gw:    deps.Gateway,
	}
}

// State returns a copy of the book search slice.
func (b *Books) State() BooksState {
	return b.slice.Get()
}

// Subscribe forwards to the underlying slice.
func (b *Books) Subscribe(buffer int) (<-chan Change, func()) {
	return b.slice.Subscribe(buffer)
}

func (b *Books) reset() {
	b.slice.Reset(emptyBooksState())
}

// Search looks up books. A blank query does nothing.
func (b *Books) Search(ctx context.Context, query string) ([]types.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return b.slice.Get().Books, nil
	}
	t := b.slice.Begin("search", func(st *BooksState) {
		st.Query = query
		st.Search = loading()
	})
	books, err := b.gw.SearchBooks(ctx, query)
	if err != nil {
		b.slice.Commit(t, func(st *BooksState) { st.Search = failed(gateway.Message(err)) })
		return nil, err
	}
	books = nonNil(books)
	b.slice.Commit(t, func(st *BooksState) {
		st.Books = slices.Clone(books)
		st.Search = succeeded()
	})
	return books, nil
}

// ResetSearch searches for the general reset query.
func (b *Books) ResetSearch(ctx context.Context) ([]types.Book, error) {
	return b.Search(ctx, types.ResetBookQuery)
}

// DefaultBookQuery is the profile's first skill, or a general default.
func DefaultBookQuery(profile types.UserProfile) string {
	for _, s := range profile.Skills {
		if name := strings.TrimSpace(s.Name); name != "" {
			return name
		}
	}
	return types.DefaultBookQuery
}
