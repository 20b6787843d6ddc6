package handler

import (
	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"go.uber.org/zap"
)

// BorrowLimit is how many books a user may hold un-returned at once.
const BorrowLimit = 6

type Services struct {
	Auth     AuthService
	Book     BookService
	Category CategoryService
	Borrow   BorrowService
	Favorite FavoriteService
	User     UserService
}

// Handler holds the page controllers. Each controller runs one user
// interaction to completion and returns the view to render or the error to
// show; nothing is retried.
type Handler struct {
	authSvc     AuthService
	bookSvc     BookService
	categorySvc CategoryService
	borrowSvc   BorrowService
	favoriteSvc FavoriteService
	userSvc     UserService
	enqueuer    Enqueuer
	topic       string
	forms       *form.Validator
	sess        *session.Session
	log         *zap.Logger
}

func New(log *zap.Logger, sess *session.Session, svc Services, forms *form.Validator, enqueuer Enqueuer, topic string) *Handler {
	if enqueuer == nil {
		enqueuer = noopEnqueuer{}
	}
	if topic == "" {
		topic = kafka.DefaultActivityTopic
	}
	return &Handler{
		authSvc:     svc.Auth,
		bookSvc:     svc.Book,
		categorySvc: svc.Category,
		borrowSvc:   svc.Borrow,
		favoriteSvc: svc.Favorite,
		userSvc:     svc.User,
		enqueuer:    enqueuer,
		topic:       topic,
		forms:       forms,
		sess:        sess,
		log:         log.Named("handler"),
	}
}

// Session is the session the controllers act on.
func (h *Handler) Session() *session.Session {
	return h.sess
}
