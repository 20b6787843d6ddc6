package user

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
		log: log.Named("user"),
		api: client,
	}
}

// Me returns the user the current credentials belong to.
func (s *Service) Me(ctx context.Context) (model.User, error) {
	var u model.User
	if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "user/me/"}, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "users/"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}
