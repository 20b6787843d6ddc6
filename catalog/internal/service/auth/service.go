package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errNoToken = errors.New("login succeeded but the backend returned no token")

type Service struct {
	log *zap.Logger
	api *api.Client
}

func NewService(log *zap.Logger, client *api.Client) *Service {
	return &Service{
		log: log.Named("auth"),
		api: client,
	}
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.MessageResponse, error) {
	var resp model.MessageResponse
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "signup/",
		Body:   req,
		Public: true,
	}, &resp)
	if err != nil {
		return model.MessageResponse{}, err
	}
	return resp, nil
}

// Login authenticates and writes the result into the session. The role is
// taken from the login response when the backend reports it, otherwise
// from the current-user endpoint.
func (s *Service) Login(ctx context.Context, req model.LoginRequest, remember bool) (session.User, error) {
	var resp model.LoginResponse
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "login/",
		Body:   req,
		Public: true,
	}, &resp)
	if err != nil {
		return session.User{}, err
	}
	if s.api.AuthMode() == config.AuthToken && resp.Token == "" {
		return session.User{}, errNoToken
	}

	user := session.User{Email: resp.Email, IsAdmin: resp.IsAdmin}
	if user.Email == "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	sess := s.api.Session()
	sess.Login(resp.Token, user, remember)

	if resp.Email == "" {
		var me model.User
		if err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "user/me/"}, &me); err != nil {
			s.log.Warn("login: current user lookup failed", zap.Error(err))
		} else {
			user = session.User{Email: me.Email, IsAdmin: me.IsAdmin}
			sess.Login(resp.Token, user, remember)
		}
	}
	s.log.Debug("logged in", zap.String("email", user.Email), zap.Bool("admin", user.IsAdmin))
	return user, nil
}

// Logout ends the backend session. The local session is cleared only when
// the backend accepted the request.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.api.Do(ctx, api.Request{Method: http.MethodPost, Path: "logout/"}, nil); err != nil {
		return err
	}
	s.api.Session().Clear()
	s.api.ForgetCookies()
	return nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	var resp model.EmailExistsResponse
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "email-exists/",
		Body:   map[string]string{"email": email},
		Public: true,
	}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Exists, nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) (model.PasswordResetTicket, error) {
	var ticket model.PasswordResetTicket
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "password-reset-request/",
		Body:   map[string]string{"email": email},
		Public: true,
	}, &ticket)
	if err != nil {
		return model.PasswordResetTicket{}, err
	}
	return ticket, nil
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, req model.PasswordResetConfirm) (model.MessageResponse, error) {
	var resp model.MessageResponse
	err := s.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "password-reset-confirm/",
		Body:   req,
		Public: true,
	}, &resp)
	if err != nil {
		return model.MessageResponse{}, err
	}
	return resp, nil
}
