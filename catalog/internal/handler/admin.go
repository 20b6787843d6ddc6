package handler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/pkg/errors"
)

// BookNotFoundError is returned by the admin pages when the id is unknown.
// It lists the ids that do exist, in the form the page accepts them.
type BookNotFoundError struct {
	Label     string
	Available []string
}

func (e *BookNotFoundError) Error() string {
	list := strings.Join(e.Available, ", ")
	if list == "" {
		list = "None"
	}
	return fmt.Sprintf("Book %s not found!\n\nAvailable books:\n%s", e.Label, list)
}

func (e *BookNotFoundError) Unwrap() error {
	return errs.ErrNotFound
}

// AdminCategories fills the category dropdown of the add and edit pages.
func (h *Handler) AdminCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := h.categorySvc.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to load categories. Please refresh the page")
	}
	return categories, nil
}

// AddBook validates the add form and uploads the book with its cover.
func (h *Handler) AddBook(ctx context.Context, in form.Book) (model.Banner, error) {
	in, err := h.forms.NewBook(in)
	if err != nil {
		return model.Banner{}, err
	}
	categoryID, err := h.resolveCategory(ctx, in.Category)
	if err != nil {
		return model.Banner{}, err
	}

	b, err := h.bookSvc.Create(ctx, model.CreateBookRequest{
		Title:          in.Title,
		Author:         in.Author,
		Description:    in.Description,
		PublishedDate:  in.PublishedDate,
		NumberOfCopies: 1,
		CategoryID:     categoryID,
		CoverName:      in.CoverName,
		Cover:          in.Cover,
	})
	if err != nil {
		return model.Banner{}, errors.Wrap(err, "Failed to add book")
	}
	h.track(kafka.KindBookAdd, "", b.ID)
	return model.Success("Book added successfully!"), nil
}

// EditBookLookup loads a book into the edit form.
func (h *Handler) EditBookLookup(ctx context.Context, rawID string) (model.EditView, error) {
	if strings.TrimSpace(rawID) == "" {
		return model.EditView{}, &form.Error{Field: "book_id", Message: "Please enter a book ID"}
	}
	id, err := form.ParseBookID(rawID)
	if err != nil {
		return model.EditView{}, err
	}
	b, err := h.bookSvc.AdminGet(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return model.EditView{}, h.notFound(ctx, strconv.Itoa(id), strconv.Itoa)
	}
	if err != nil {
		return model.EditView{}, errors.Wrap(err, "Error searching for book")
	}
	categories, err := h.AdminCategories(ctx)
	if err != nil {
		return model.EditView{}, err
	}
	return model.EditView{Book: b, Categories: categories}, nil
}

func (h *Handler) notFound(ctx context.Context, label string, format func(int) string) error {
	books, err := h.bookSvc.AdminList(ctx)
	if err != nil {
		return errors.Wrap(errs.ErrNotFound, "Book not found and failed to retrieve available books")
	}
	ids := bookIDs(books)
	available := make([]string, 0, len(ids))
	for _, id := range ids {
		available = append(available, format(id))
	}
	return &BookNotFoundError{Label: label, Available: available}
}

// EditBook saves the edit form. The copy count is carried over from the
// stored book. replace sends a full PUT instead of a PATCH.
func (h *Handler) EditBook(ctx context.Context, rawID string, in form.Book, replace bool) (model.Banner, error) {
	if strings.TrimSpace(rawID) == "" {
		return model.Banner{}, &form.Error{Field: "book_id", Message: "Please enter a book ID"}
	}
	id, err := form.ParseBookID(rawID)
	if err != nil {
		return model.Banner{}, err
	}
	in, err = h.forms.EditBook(in)
	if err != nil {
		return model.Banner{}, err
	}

	current, err := h.bookSvc.AdminGet(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Banner{}, errors.New("Book not found. Please search first.")
	}
	if err != nil {
		return model.Banner{}, errors.Wrap(err, "Failed to update book")
	}
	categoryID, err := h.resolveCategory(ctx, in.Category)
	if err != nil {
		return model.Banner{}, err
	}

	req := model.UpdateBookRequest{
		Title:          in.Title,
		Author:         in.Author,
		Categories:     []int{categoryID},
		PublishedDate:  in.PublishedDate,
		Description:    in.Description,
		NumberOfCopies: current.NumberOfCopies,
	}
	update := h.bookSvc.Update
	if replace {
		update = h.bookSvc.Replace
	}
	if _, err := update(ctx, id, req); err != nil {
		return model.Banner{}, errors.Wrap(err, "Failed to update book")
	}
	h.track(kafka.KindBookEdit, "", id)
	return model.Success(fmt.Sprintf("%q (ID: %d) updated successfully!", req.Title, id)), nil
}

// DeleteBook deletes the book named by a BKnnn code once confirm agrees.
func (h *Handler) DeleteBook(ctx context.Context, code string, confirm func(model.Book) bool) (model.Banner, error) {
	id, err := form.ParseBookCode(code)
	if err != nil {
		return model.Banner{}, err
	}
	display := form.FormatBookCode(id)

	b, err := h.bookSvc.AdminGet(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Banner{}, h.notFound(ctx, display, form.FormatBookCode)
	}
	if err != nil {
		return model.Banner{}, errors.Wrap(err, "Failed to fetch book")
	}
	if confirm != nil && !confirm(b) {
		return model.Info("Deletion cancelled."), nil
	}
	if err := h.bookSvc.Delete(ctx, id); err != nil {
		return model.Banner{}, errors.Wrap(err, "Failed to delete book")
	}
	h.track(kafka.KindBookDelete, "", id)
	return model.Success(fmt.Sprintf("Deleted: %s (ID: %s)", b.Title, display)), nil
}

// DeleteHint lists the ids the delete form accepts, as BKnnn codes.
func (h *Handler) DeleteHint(ctx context.Context) (model.IDHintView, error) {
	books, err := h.bookSvc.AdminList(ctx)
	if err != nil {
		return model.IDHintView{}, errors.Wrap(err, "Error loading book IDs")
	}
	ids := bookIDs(books)
	view := model.IDHintView{IDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		view.IDs = append(view.IDs, form.FormatBookCode(id))
	}
	return view, nil
}

func (h *Handler) Users(ctx context.Context) ([]model.User, error) {
	users, err := h.userSvc.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to load users")
	}
	return users, nil
}

// resolveCategory accepts a category id or a case-insensitive name.
func (h *Handler) resolveCategory(ctx context.Context, raw string) (int, error) {
	categories, err := h.AdminCategories(ctx)
	if err != nil {
		return 0, err
	}
	id, convErr := strconv.Atoi(raw)
	for _, c := range categories {
		if convErr == nil && c.ID == id {
			return c.ID, nil
		}
		if strings.EqualFold(c.Name, raw) {
			return c.ID, nil
		}
	}
	return 0, &form.Error{Field: "category", Message: "Please select a category"}
}

func bookIDs(books []model.Book) []int {
	ids := make([]int, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	sort.Ints(ids)
	return ids
}
