package category

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
		log: log.Named("category"),
		api: client,
	}
}

func (s *Service) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "categories/"}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
