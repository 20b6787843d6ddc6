package app

import (
	"testing"

	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "  books  ", want: []string{"books"}},
		{line: `admin add --title "Pride and Prejudice" --author 'Jane Austen'`,
			want: []string{"admin", "add", "--title", "Pride and Prejudice", "--author", "Jane Austen"}},
		{line: `search ""`, want: []string{"search", ""}},
		{line: `search "dune`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	var edit *cobra.Command
	a := newApp()
	for _, c := range a.adminCommand().Commands() {
		if c.Name() == "edit" {
			edit = c
		}
	}
	require.NotNil(t, edit)
	require.NoError(t, edit.ParseFlags([]string{"--author", "J. Austen", "--category", "Classics"}))

	stored := model.Book{
		Title:       "Emma",
		Author:      "Jane Austen",
		Description: "Matchmaking",
		Categories:  model.Categories{{ID: 4, Name: "Romance"}},
	}
	got := merge(edit.Flags(), stored, form.Book{Author: "J. Austen", Category: "Classics", Title: "ignored"})
	require.Equal(t, "Emma", got.Title)
	require.Equal(t, "J. Austen", got.Author)
	require.Equal(t, "Classics", got.Category)
	require.Equal(t, "Matchmaking", got.Description)
	require.Empty(t, got.PublishedDate)
}

func TestRootCommand(t *testing.T) {
	t.Parallel()
	a := newApp()
	root := a.rootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"books", "search", "book", "borrow", "return", "borrowed",
		"favorite", "unfavorite", "favorites", "register", "login", "logout",
		"forgot-password", "reset-password", "admin", "config", "shell"} {
		require.True(t, names[n], n)
	}

	a.interactive = true
	for _, c := range a.rootCommand().Commands() {
		require.NotEqual(t, "shell", c.Name())
	}
}
