package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/pkg/errors"
)

var (
	errInvalidCredentials = errors.New("Invalid email or password")
	errUnknownEmail       = errors.New("This email does not exist in our system")
	errResetToken         = errors.New("Invalid or expired reset token. Please request a new password reset.")
)

func (h *Handler) Register(ctx context.Context, in form.Registration) (model.Banner, error) {
	req, err := h.forms.Registration(in)
	if err != nil {
		return model.Banner{}, err
	}
	if _, err := h.authSvc.Register(ctx, req); err != nil {
		return model.Banner{}, errors.Wrap(err, "Registration failed")
	}
	return model.Success(fmt.Sprintf("Welcome %s! You can now log in with your credentials", strings.TrimSpace(in.Username))), nil
}

// Login signs in and picks the landing page by role. remember keeps the
// session across restarts.
func (h *Handler) Login(ctx context.Context, email, password string, remember bool) (model.LoginView, error) {
	req, err := h.forms.Login(email, password)
	if err != nil {
		return model.LoginView{}, err
	}
	user, err := h.authSvc.Login(ctx, req, remember)
	if err != nil {
		if errs.StatusCode(err) == http.StatusUnauthorized {
			return model.LoginView{}, errInvalidCredentials
		}
		return model.LoginView{}, errors.Wrap(err, "Login failed")
	}
	h.track(kafka.KindLogin, user.Email, 0)

	view := model.LoginView{Email: user.Email, Redirect: model.PageUser, Banner: model.Success("Login successful.")}
	if user.IsAdmin {
		view.Redirect = model.PageAdmin
	}
	return view, nil
}

func (h *Handler) Logout(ctx context.Context) (model.Banner, error) {
	user, ok := h.sess.User()
	if !ok {
		return model.Info("You are not logged in."), nil
	}
	if err := h.authSvc.Logout(ctx); err != nil {
		return model.Banner{}, errors.Wrap(err, "Logout failed")
	}
	h.track(kafka.KindLogout, user.Email, 0)
	return model.Success("You have been logged out."), nil
}

// ForgotPassword checks the email is known and asks for a reset ticket. The
// backend hands the ticket back directly instead of mailing it.
func (h *Handler) ForgotPassword(ctx context.Context, email string) (model.ResetTicketView, error) {
	email, err := h.forms.ForgotPassword(email)
	if err != nil {
		return model.ResetTicketView{}, err
	}
	exists, err := h.authSvc.EmailExists(ctx, email)
	if err != nil {
		if errs.StatusCode(err) == http.StatusNotFound {
			return model.ResetTicketView{}, errUnknownEmail
		}
		return model.ResetTicketView{}, errors.Wrap(err, "Failed to verify email")
	}
	if !exists {
		return model.ResetTicketView{}, errUnknownEmail
	}

	ticket, err := h.authSvc.RequestPasswordReset(ctx, email)
	if err != nil {
		return model.ResetTicketView{}, errors.Wrap(err, "Failed to send reset instructions")
	}
	msg := ticket.Message
	if msg == "" {
		msg = "Password reset instructions have been sent to your email."
	}
	return model.ResetTicketView{
		Email:  email,
		UID:    ticket.UID.String(),
		Token:  ticket.Token,
		Banner: model.Success(msg),
	}, nil
}

func (h *Handler) ResetPassword(ctx context.Context, in form.PasswordReset) (model.Banner, error) {
	req, err := h.forms.PasswordReset(in)
	if err != nil {
		return model.Banner{}, err
	}
	if _, err := h.authSvc.ConfirmPasswordReset(ctx, req); err != nil {
		if strings.Contains(strings.ToLower(errs.Message(err)), "token") {
			return model.Banner{}, errResetToken
		}
		return model.Banner{}, errors.Wrap(err, "Password reset failed")
	}
	return model.Success("Password has been reset successfully"), nil
}
