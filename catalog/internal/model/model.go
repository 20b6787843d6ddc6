package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type Book struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Description     string     `json:"description"`
	PublishedDate   Date       `json:"published_date"`
	NumberOfCopies  int        `json:"number_of_copies"`
	AvailableCopies int        `json:"available_copies"`
	Categories      Categories `json:"categories"`
	Cover           string     `json:"cover"`
	IsAvailable     *bool      `json:"is_available,omitempty"`
	// Borrowed is derived client-side, never sent.
	Borrowed bool `json:"-"`
}

// Copies is what the detail page shows: available copies, falling back to
// the total when the endpoint does not report availability.
func (b Book) Copies() int {
	if b.AvailableCopies > 0 {
		return b.AvailableCopies
	}
	return b.NumberOfCopies
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type BorrowedBook struct {
	BookID     int    `json:"book_id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	CoverURL   string `json:"cover_url"`
	BorrowDate Date   `json:"borrow_date"`
	ReturnDate Date   `json:"return_date"`
	Returned   bool   `json:"returned"`
}

type FavoriteBook struct {
	BookID       int    `json:"book_id"`
	BookTitle    string `json:"book_title"`
	BookAuthor   string `json:"book_author"`
	BookCoverURL string `json:"book_cover_url"`
}

type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	IsStaff  bool   `json:"is_staff"`
	IsActive bool   `json:"is_active"`
}

type SearchResult struct {
	Count   int
	Results []Book
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	IsAdmin bool   `json:"is_admin"`
	Email   string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type EmailExistsResponse struct {
	Exists bool `json:"exists"`
}

// PasswordResetTicket is what the reset request hands back: the backend
// returns the token directly instead of mailing it.
type PasswordResetTicket struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	UID     json.Number `json:"uid"`
}

type PasswordResetConfirm struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type CreateBookRequest struct {
	Title          string
	Author         string
	Description    string
	PublishedDate  string
	NumberOfCopies int
	CategoryID     int
	CoverName      string
	Cover          []byte
}

type UpdateBookRequest struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	Categories     []int  `json:"categories"`
	PublishedDate  string `json:"published_date,omitempty"`
	Description    string `json:"description"`
	NumberOfCopies int    `json:"number_of_copies"`
}

type BorrowRequest struct {
	Book int `json:"book"`
}

type ReturnRequest struct {
	BookID int `json:"book_id"`
}

type FavoriteRequest struct {
	Book int `json:"book"`
}

// Date is a calendar day; null and empty values decode to the zero Date.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return err
		}
		date = ts
	}
	d.Time = date
	return
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.Format(time.DateOnly))), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// CategoryRef is a category as embedded in a book. Depending on the
// endpoint only the id or only the name may be known.
type CategoryRef struct {
	ID   int
	Name string
}

func (c CategoryRef) String() string {
	if c.Name != "" {
		return c.Name
	}
	return strconv.Itoa(c.ID)
}

type Categories []CategoryRef

// UnmarshalJSON accepts ids, names, {id,name} objects, or a single such
// value in place of a list.
func (c *Categories) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = nil
		return nil
	}
	if b[0] != '[' {
		b = append(append([]byte("["), b...), ']')
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	refs := make(Categories, 0, len(items))
	for _, item := range items {
		ref, err := decodeCategoryRef(item)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}
	*c = refs
	return nil
}

func decodeCategoryRef(raw json.RawMessage) (CategoryRef, error) {
	var id int
	if err := json.Unmarshal(raw, &id); err == nil {
		return CategoryRef{ID: id}, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if n, convErr := strconv.Atoi(name); convErr == nil {
			return CategoryRef{ID: n}, nil
		}
		return CategoryRef{Name: name}, nil
	}
	var obj Category
	if err := json.Unmarshal(raw, &obj); err != nil {
		return CategoryRef{}, err
	}
	return CategoryRef{ID: obj.ID, Name: obj.Name}, nil
}

// MarshalJSON writes the id list the write endpoints expect.
func (c Categories) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.IDs())
}

func (c Categories) IDs() []int {
	ids := make([]int, 0, len(c))
	for _, ref := range c {
		if ref.ID != 0 {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}

func (c Categories) String() string {
	if len(c) == 0 {
		return "Uncategorized"
	}
	parts := make([]string, 0, len(c))
	for _, ref := range c {
		parts = append(parts, ref.String())
	}
	return strings.Join(parts, ", ")
}
