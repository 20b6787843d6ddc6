package favorite

import (
	"context"
	"fmt"
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
		log: log.Named("favorite"),
		api: client,
	}
}

func (s *Service) List(ctx context.Context) ([]model.FavoriteBook, error) {
	var list []model.FavoriteBook
	if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "favorite-books/"}, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].BookCoverURL = s.api.CoverURL(list[i].BookCoverURL)
	}
	return list, nil
}

func (s *Service) Add(ctx context.Context, bookID int) (model.FavoriteBook, error) {
	var fav model.FavoriteBook
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "favorite-books/",
		Body:   model.FavoriteRequest{Book: bookID},
	}, &fav)
	if err != nil {
		return model.FavoriteBook{}, err
	}
	return fav, nil
}

// Remove drops bookID from the favorites. The backend answers 204.
func (s *Service) Remove(ctx context.Context, bookID int) error {
	return s.api.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("favorite-books/%d/", bookID),
	}, nil)
}

// IsFavorited reports whether bookID is among the favorites. A failed lookup
// reads as not favorited.
func (s *Service) IsFavorited(ctx context.Context, bookID int) bool {
	list, err := s.List(ctx)
	if err != nil {
		s.log.Warn("favorite status lookup failed", zap.Int("book_id", bookID), zap.Error(err))
		return false
	}
	for _, fav := range list {
		if fav.BookID == bookID {
			return true
		}
	}
	return false
}
