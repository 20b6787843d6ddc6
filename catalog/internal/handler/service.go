package handler

import (
	"context"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/auth"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/book"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/borrow"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/category"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/favorite"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/user"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ AuthService     = (*auth.Service)(nil)
	_ BookService     = (*book.Service)(nil)
	_ CategoryService = (*category.Service)(nil)
	_ BorrowService   = (*borrow.Service)(nil)
	_ FavoriteService = (*favorite.Service)(nil)
	_ UserService     = (*user.Service)(nil)
)

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.MessageResponse, error)
	Login(ctx context.Context, req model.LoginRequest, remember bool) (session.User, error)
	Logout(ctx context.Context) error
	EmailExists(ctx context.Context, email string) (bool, error)
	RequestPasswordReset(ctx context.Context, email string) (model.PasswordResetTicket, error)
	ConfirmPasswordReset(ctx context.Context, req model.PasswordResetConfirm) (model.MessageResponse, error)
}

type BookService interface {
	ListAvailable(ctx context.Context) ([]model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Get(ctx context.Context, id int) (model.Book, error)
	Search(ctx context.Context, query string) (model.SearchResult, error)
	AdminList(ctx context.Context) ([]model.Book, error)
	AdminGet(ctx context.Context, id int) (model.Book, error)
	Create(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	Update(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	Replace(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	Delete(ctx context.Context, id int) error
}

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
}

type BorrowService interface {
	List(ctx context.Context) ([]model.BorrowedBook, error)
	Borrow(ctx context.Context, bookID int) (model.BorrowedBook, error)
	Return(ctx context.Context, bookID int) (model.BorrowedBook, error)
	IsBorrowed(ctx context.Context, bookID int) bool
}

type FavoriteService interface {
	List(ctx context.Context) ([]model.FavoriteBook, error)
	Add(ctx context.Context, bookID int) (model.FavoriteBook, error)
	Remove(ctx context.Context, bookID int) error
	IsFavorited(ctx context.Context, bookID int) bool
}

type UserService interface {
	Me(ctx context.Context) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type Enqueuer interface {
	Enqueue(topic string, v any) error
}
