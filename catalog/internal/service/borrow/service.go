package borrow

import (
	"context"
	"net/http"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger
	api *api.Client
}

func NewService(log *zap.Logger, client *api.Client) *Service {
	return &Service{
		log: log.Named("borrow"),
		api: client,
	}
}

// List returns every borrow record of the current user, returned or not.
func (s *Service) List(ctx context.Context) ([]model.BorrowedBook, error) {
	var list []model.BorrowedBook
	if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "borrowed-books/"}, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].CoverURL = s.api.CoverURL(list[i].CoverURL)
	}
	return list, nil
}

func (s *Service) Borrow(ctx context.Context, bookID int) (model.BorrowedBook, error) {
	var rec model.BorrowedBook
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "borrowed-books/",
		Body:   model.BorrowRequest{Book: bookID},
	}, &rec)
	if err != nil {
		return model.BorrowedBook{}, err
	}
	return rec, nil
}

func (s *Service) Return(ctx context.Context, bookID int) (model.BorrowedBook, error) {
	var rec model.BorrowedBook
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   "borrowed-books/",
		Body:   model.ReturnRequest{BookID: bookID},
	}, &rec)
	if err != nil {
		return model.BorrowedBook{}, err
	}
	return rec, nil
}

// IsBorrowed reports whether the current user holds bookID un-returned. A
// failed lookup reads as not borrowed.
func (s *Service) IsBorrowed(ctx context.Context, bookID int) bool {
	list, err := s.List(ctx)
	if err != nil {
		s.log.Warn("borrow status lookup failed", zap.Int("book_id", bookID), zap.Error(err))
		return false
	}
	for _, rec := range list {
		if rec.BookID == bookID && !rec.Returned {
			return true
		}
	}
	return false
}
