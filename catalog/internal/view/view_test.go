package view_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/view"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func render(fn func(r *view.Renderer)) string {
	var buf bytes.Buffer
	fn(view.New(&buf))
	return buf.String()
}

func TestRenderer_Search(t *testing.T) {
	t.Parallel()

	out := render(func(r *view.Renderer) {
		r.Search(model.SearchView{Header: model.NoResultsHeader})
	})
	require.Equal(t, "No Results Found!\nNo books found matching your search.\n", out)

	out = render(func(r *view.Renderer) {
		r.Search(model.SearchView{Header: "Found 2 Books:", Cards: []model.BookCard{
			{ID: 1, Title: "Dune", Author: "Frank Herbert", Status: model.StatusBorrowed},
			{ID: 12, Status: model.StatusAvailable},
		}})
	})
	require.Contains(t, out, "Found 2 Books:\n")
	require.Contains(t, out, "Dune")
	require.Contains(t, out, "Borrowed")
	require.Contains(t, out, "Unknown Title")
	require.Contains(t, out, "Unknown Author")
}

func TestRenderer_Detail(t *testing.T) {
	t.Parallel()
	b := model.Book{
		ID:              4,
		Title:           "Emma",
		Author:          "Jane Austen",
		PublishedDate:   model.NewDate(time.Date(1815, 12, 23, 0, 0, 0, 0, time.UTC)),
		AvailableCopies: 2,
		Categories:      model.Categories{{ID: 1, Name: "Classics"}},
	}

	out := render(func(r *view.Renderer) {
		r.Detail(model.DetailView{Book: b})
	})
	require.Contains(t, out, "By Jane Austen")
	require.Contains(t, out, "Category: Classics")
	require.Contains(t, out, "Published: 1815-12-23")
	require.Contains(t, out, "Copies: 2")
	require.NotContains(t, out, "Borrow")

	out = render(func(r *view.Renderer) {
		r.Detail(model.DetailView{Book: b, ShowControls: true, Borrowed: true})
	})
	require.Contains(t, out, "[Borrowed]")
	require.Contains(t, out, "Add to Favorites")
}

func TestRenderer_Borrowed(t *testing.T) {
	t.Parallel()

	require.Equal(t, "No borrowed books yet.\n", render(func(r *view.Renderer) {
		r.Borrowed(model.BorrowedView{})
	}))

	out := render(func(r *view.Renderer) {
		r.Borrowed(model.BorrowedView{Current: []model.BorrowedBook{{BookID: 3, Title: "Emma"}}})
	})
	require.Contains(t, out, "Emma")
	require.Contains(t, out, "No previously borrowed books.")

	out = render(func(r *view.Renderer) {
		r.Borrowed(model.BorrowedView{Previous: []model.BorrowedBook{{BookID: 3, Returned: true}}})
	})
	require.Contains(t, out, "No currently borrowed books.")
	require.Contains(t, out, "RETURNED ON")
}

func TestRenderer_Misc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(r *view.Renderer)
		want string
	}{
		{
			name: "no favorites",
			fn:   func(r *view.Renderer) { r.Favorites(model.FavoritesView{}) },
			want: "No favorite books yet.\n",
		},
		{
			name: "id hint",
			fn:   func(r *view.Renderer) { r.IDHint(model.IDHintView{IDs: []string{"BK001", "BK012"}}) },
			want: "Available IDs: BK001, BK012\n",
		},
		{
			name: "empty id hint",
			fn:   func(r *view.Renderer) { r.IDHint(model.IDHintView{}) },
			want: "No books available\n",
		},
		{
			name: "error",
			fn:   func(r *view.Renderer) { r.Error(errors.New("Failed to load books")) },
			want: "Error: Failed to load books\n",
		},
		{
			name: "sentinel is capitalized",
			fn:   func(r *view.Renderer) { r.Error(errors.New("authentication required, please log in")) },
			want: "Error: Authentication required, please log in\n",
		},
		{
			name: "empty banner",
			fn:   func(r *view.Renderer) { r.Banner(model.Banner{}) },
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, render(tt.fn))
		})
	}
}

func TestConfirmDelete(t *testing.T) {
	t.Parallel()
	require.Equal(t, `Delete "Emma" by Jane Austen (ID: BK007)? [y/N] `,
		view.ConfirmDelete(model.Book{ID: 7, Title: "Emma", Author: "Jane Austen"}))
}
