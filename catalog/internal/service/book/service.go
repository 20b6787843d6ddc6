package book

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultCoverName = "cover.jpg"

type Service struct {
	log *zap.Logger
	api *api.Client
}

func NewService(log *zap.Logger, client *api.Client) *Service {
	return &Service{
		log: log.Named("book"),
		api: client,
	}
}

func (s *Service) ListAvailable(ctx context.Context) ([]model.Book, error) {
	return s.list(ctx, "books/available/")
}

func (s *Service) List(ctx context.Context) ([]model.Book, error) {
	return s.list(ctx, "books/")
}

func (s *Service) AdminList(ctx context.Context) ([]model.Book, error) {
	return s.list(ctx, "admin/books/")
}

func (s *Service) Get(ctx context.Context, id int) (model.Book, error) {
	return s.get(ctx, fmt.Sprintf("books/%d/", id))
}

// AdminGet fetches a book through the admin endpoint; a missing book is
// reported as errs.ErrNotFound.
func (s *Service) AdminGet(ctx context.Context, id int) (model.Book, error) {
	b, err := s.get(ctx, fmt.Sprintf("admin/books/%d/", id))
	if errs.StatusCode(err) == http.StatusNotFound {
		return model.Book{}, errors.Wrapf(errs.ErrNotFound, "book %d", id)
	}
	return b, err
}

// Search runs a public title/author/category search. Results come back with
// displayable covers and the Borrowed flag filled in.
func (s *Service) Search(ctx context.Context, query string) (model.SearchResult, error) {
	var books []model.Book
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "search/",
		Query:  url.Values{"q": {query}},
		Public: true,
	}, &books)
	if err != nil {
		return model.SearchResult{}, err
	}
	for i := range books {
		books[i] = s.normalize(books[i])
		books[i].Borrowed = borrowed(books[i])
	}
	return model.SearchResult{Count: len(books), Results: books}, nil
}

// Create uploads a new book with its cover as multipart form data.
func (s *Service) Create(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	copies := req.NumberOfCopies
	if copies <= 0 {
		copies = 1
	}
	form := &api.Form{}
	form.Add("title", req.Title)
	form.Add("author", req.Author)
	form.Add("description", req.Description)
	form.Add("published_date", req.PublishedDate)
	form.Add("number_of_copies", strconv.Itoa(copies))
	form.Add("categories", strconv.Itoa(req.CategoryID))
	if len(req.Cover) > 0 {
		name := req.CoverName
		if name == "" {
			name = defaultCoverName
		}
		form.Files = append(form.Files, api.File{Field: "cover", Name: name, Data: req.Cover})
	}

	var b model.Book
	if err := s.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "admin/books/", Form: form}, &b); err != nil {
		return model.Book{}, err
	}
	s.log.Info("book created", zap.Int("id", b.ID), zap.String("title", b.Title))
	return s.normalize(b), nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	return s.write(ctx, http.MethodPatch, id, req)
}

// Replace overwrites every writable field of the book.
func (s *Service) Replace(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	return s.write(ctx, http.MethodPut, id, req)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	err := s.api.Do(ctx, api.Request{Method: http.MethodDelete, Path: fmt.Sprintf("admin/books/%d/", id)}, nil)
	if errs.StatusCode(err) == http.StatusNotFound {
		return errors.Wrapf(errs.ErrNotFound, "book %d", id)
	}
	if err != nil {
		return err
	}
	s.log.Info("book deleted", zap.Int("id", id))
	return nil
}

func (s *Service) write(ctx context.Context, method string, id int, req model.UpdateBookRequest) (model.Book, error) {
	var b model.Book
	err := s.api.Do(ctx, api.Request{
		Method: method,
		Path:   fmt.Sprintf("admin/books/%d/", id),
		Body:   req,
	}, &b)
	if errs.StatusCode(err) == http.StatusNotFound {
		return model.Book{}, errors.Wrapf(errs.ErrNotFound, "book %d", id)
	}
	if err != nil {
		return model.Book{}, err
	}
	return s.normalize(b), nil
}

func (s *Service) list(ctx context.Context, path string) ([]model.Book, error) {
	var books []model.Book
	if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: path}, &books); err != nil {
		return nil, err
	}
	for i := range books {
		books[i] = s.normalize(books[i])
	}
	return books, nil
}

func (s *Service) get(ctx context.Context, path string) (model.Book, error) {
	var b model.Book
	if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: path}, &b); err != nil {
		return model.Book{}, err
	}
	return s.normalize(b), nil
}

func (s *Service) normalize(b model.Book) model.Book {
	b.Cover = s.api.CoverURL(b.Cover)
	return b
}

// borrowed inverts is_available when the backend sends it and falls back
// to the copy count otherwise.
func borrowed(b model.Book) bool {
	if b.IsAvailable != nil {
		return !*b.IsAvailable
	}
	return b.AvailableCopies <= 0
}
