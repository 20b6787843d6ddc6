// Package view writes page views to a terminal.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

const (
	unknownTitle  = "Unknown Title"
	unknownAuthor = "Unknown Author"
)

type Renderer struct {
	w io.Writer
}

func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) println(s string) {
	_, _ = io.WriteString(r.w, s+"\n")
}

// table runs fn against a tabwriter and flushes it.
func (r *Renderer) table(header string, fn func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, header)
	fn(tw)
	_ = tw.Flush()
}

func (r *Renderer) Banner(b model.Banner) {
	if b.Text == "" {
		return
	}
	switch b.Kind {
	case model.BannerError:
		r.printf("Error: %s\n", b.Text)
	default:
		r.println(b.Text)
	}
}

// Error prints err as an error banner, capitalized.
func (r *Renderer) Error(err error) {
	msg := []rune(err.Error())
	if len(msg) > 0 {
		msg[0] = unicode.ToUpper(msg[0])
	}
	r.Banner(model.Banner{Kind: model.BannerError, Text: string(msg)})
}

func (r *Renderer) cards(cards []model.BookCard) {
	r.table("ID\tTITLE\tAUTHOR\tSTATUS", func(tw *tabwriter.Writer) {
		for _, c := range cards {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, or(c.Title, unknownTitle), or(c.Author, unknownAuthor), c.Status)
		}
	})
}

func (r *Renderer) Library(v model.LibraryView) {
	if len(v.Cards) == 0 {
		r.println("No books available.")
		return
	}
	r.cards(v.Cards)
}

func (r *Renderer) Search(v model.SearchView) {
	r.println(v.Header)
	if len(v.Cards) == 0 {
		r.println("No books found matching your search.")
		return
	}
	r.cards(v.Cards)
}

func (r *Renderer) Detail(v model.DetailView) {
	b := v.Book
	r.printf("ID: %d\n", b.ID)
	r.println(or(b.Title, unknownTitle))
	r.printf("By %s\n", or(b.Author, unknownAuthor))
	r.printf("Category: %s\n", b.Categories)
	if d := b.PublishedDate.String(); d != "" {
		r.printf("Published: %s\n", d)
	}
	r.printf("Copies: %d\n", b.Copies())
	if b.Cover != "" {
		r.printf("Cover: %s\n", shorten(b.Cover, 64))
	}
	if b.Description != "" {
		r.println("\nDescription")
		r.println(b.Description)
	}
	if !v.ShowControls {
		return
	}
	r.println("")
	if v.Borrowed {
		r.println("[Borrowed]")
	} else {
		r.printf("[Borrow]  catalog borrow %d\n", b.ID)
	}
	if v.Favorited {
		r.println("[★ Favorited]")
	} else {
		r.printf("[☆ Add to Favorites]  catalog favorite %d\n", b.ID)
	}
}

func (r *Renderer) Borrow(v model.BorrowView) {
	r.Banner(v.Banner)
}

func (r *Renderer) Favorite(v model.FavoriteView) {
	r.Banner(v.Banner)
	if v.Favorited {
		r.println("★ Favorited")
	} else {
		r.println("☆ Add to Favorites")
	}
}

func (r *Renderer) Borrowed(v model.BorrowedView) {
	if v.Empty() {
		r.println("No borrowed books yet.")
		return
	}
	r.println("Currently borrowed")
	if len(v.Current) == 0 {
		r.println("No currently borrowed books.")
	} else {
		r.table("ID\tTITLE\tAUTHOR\tBORROWED ON", func(tw *tabwriter.Writer) {
			for _, b := range v.Current {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.BookID, or(b.Title, unknownTitle), or(b.Author, unknownAuthor), b.BorrowDate)
			}
		})
	}

	r.println("\nPreviously borrowed")
	if len(v.Previous) == 0 {
		r.println("No previously borrowed books.")
		return
	}
	r.table("ID\tTITLE\tAUTHOR\tBORROWED ON\tRETURNED ON", func(tw *tabwriter.Writer) {
		for _, b := range v.Previous {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.BookID, or(b.Title, unknownTitle), or(b.Author, unknownAuthor), b.BorrowDate, b.ReturnDate)
		}
	})
}

func (r *Renderer) Favorites(v model.FavoritesView) {
	if len(v.Books) == 0 {
		r.println("No favorite books yet.")
		return
	}
	r.table("ID\tTITLE\tAUTHOR", func(tw *tabwriter.Writer) {
		for _, b := range v.Books {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", b.BookID, or(b.BookTitle, unknownTitle), or(b.BookAuthor, unknownAuthor))
		}
	})
}

func (r *Renderer) Login(v model.LoginView) {
	r.Banner(v.Banner)
	r.printf("Logged in as %s (%s page)\n", v.Email, v.Redirect)
}

// ResetTicket prints the uid and token the reset-password command needs.
func (r *Renderer) ResetTicket(v model.ResetTicketView) {
	r.Banner(v.Banner)
	if v.UID == "" && v.Token == "" {
		return
	}
	r.printf("uid:   %s\ntoken: %s\n", v.UID, v.Token)
	r.printf("catalog reset-password --uid %s --token %s\n", v.UID, v.Token)
}

func (r *Renderer) IDHint(v model.IDHintView) {
	if len(v.IDs) == 0 {
		r.println("No books available")
		return
	}
	r.printf("Available IDs: %s\n", strings.Join(v.IDs, ", "))
}

func (r *Renderer) Edit(v model.EditView) {
	b := v.Book
	r.table("FIELD\tVALUE", func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintf(tw, "id\t%d\n", b.ID)
		_, _ = fmt.Fprintf(tw, "title\t%s\n", b.Title)
		_, _ = fmt.Fprintf(tw, "author\t%s\n", b.Author)
		_, _ = fmt.Fprintf(tw, "category\t%s\n", b.Categories)
		_, _ = fmt.Fprintf(tw, "published_date\t%s\n", b.PublishedDate)
		_, _ = fmt.Fprintf(tw, "copies\t%d\n", b.NumberOfCopies)
		_, _ = fmt.Fprintf(tw, "description\t%s\n", shorten(b.Description, 60))
	})
	r.Categories(v.Categories)
}

func (r *Renderer) Categories(categories []model.Category) {
	if len(categories) == 0 {
		r.println("No categories.")
		return
	}
	r.table("ID\tCATEGORY", func(tw *tabwriter.Writer) {
		for _, c := range categories {
			_, _ = fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
		}
	})
}

func (r *Renderer) Users(users []model.User) {
	if len(users) == 0 {
		r.println("No users.")
		return
	}
	r.table("ID\tEMAIL\tROLE\tACTIVE", func(tw *tabwriter.Writer) {
		for _, u := range users {
			role := "user"
			if u.IsAdmin {
				role = "admin"
			}
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Email, role, strconv.FormatBool(u.IsActive))
		}
	})
}

// ConfirmDelete is the question asked before a book is deleted.
func ConfirmDelete(b model.Book) string {
	return fmt.Sprintf("Delete %q by %s (ID: %s)? [y/N] ", b.Title, or(b.Author, unknownAuthor), form.FormatBookCode(b.ID))
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func shorten(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
