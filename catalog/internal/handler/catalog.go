package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Library lists the books currently available, ordered by id.
func (h *Handler) Library(ctx context.Context) (model.LibraryView, error) {
	books, err := h.bookSvc.ListAvailable(ctx)
	if err != nil {
		return model.LibraryView{}, errors.Wrap(err, "Failed to load books")
	}
	byID := make(map[int]model.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	cards := make([]model.BookCard, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, card(byID[id], model.StatusAvailable))
	}
	return model.LibraryView{Cards: cards}, nil
}

// Search renders the results page. A blank query is answered locally.
func (h *Handler) Search(ctx context.Context, query string) (model.SearchView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.SearchView{Header: model.NoResultsHeader}, nil
	}
	res, err := h.bookSvc.Search(ctx, query)
	if err != nil {
		return model.SearchView{}, errors.Wrap(err, "Failed to load search results")
	}
	view := model.SearchView{Query: query, Header: model.NoResultsHeader}
	if res.Count == 0 {
		return view, nil
	}
	view.Header = foundHeader(res.Count)
	view.Cards = make([]model.BookCard, 0, len(res.Results))
	for _, b := range res.Results {
		status := model.StatusAvailable
		if b.Borrowed {
			status = model.StatusBorrowed
		}
		view.Cards = append(view.Cards, card(b, status))
	}
	return view, nil
}

func foundHeader(n int) string {
	if n == 1 {
		return "Found 1 Book:"
	}
	return fmt.Sprintf("Found %d Books:", n)
}

// BookDetail loads one book together with the current user's relation to it.
// Admins get no borrow/favorite controls; a failed user lookup shows them.
func (h *Handler) BookDetail(ctx context.Context, rawID string) (model.DetailView, error) {
	id, err := form.ParseBookID(rawID)
	if err != nil {
		return model.DetailView{}, err
	}
	b, err := h.bookSvc.Get(ctx, id)
	if err != nil {
		return model.DetailView{}, errors.Wrap(err, "Error Loading Book")
	}

	var (
		me       model.User
		meErr    error
		borrowed bool
	)
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		me, meErr = h.userSvc.Me(gctx)
		return nil
	})
	gg.Go(func() error {
		borrowed = h.borrowSvc.IsBorrowed(gctx, id)
		return nil
	})
	_ = gg.Wait() //nolint:errcheck

	if meErr != nil {
		h.log.Debug("detail: current user unknown", zap.Error(meErr))
	}
	view := model.DetailView{
		Book:         b,
		ShowControls: meErr != nil || !me.IsAdmin,
		Borrowed:     borrowed || b.Borrowed,
	}
	if view.ShowControls {
		view.Favorited = h.favoriteSvc.IsFavorited(ctx, id)
	}
	return view, nil
}

// Borrow checks the borrow limit against a fresh list and then borrows.
// The check and the request are not atomic; the backend has the last word.
func (h *Handler) Borrow(ctx context.Context, bookID int) (model.BorrowView, error) {
	list, err := h.borrowSvc.List(ctx)
	if err != nil {
		return model.BorrowView{}, errors.Wrap(err, "Failed to borrow book")
	}
	if outstanding(list) >= BorrowLimit {
		return model.BorrowView{BookID: bookID}, errs.ErrBorrowLimit
	}

	if _, err := h.borrowSvc.Borrow(ctx, bookID); err != nil {
		if strings.Contains(strings.ToLower(errs.Message(err)), "already borrowed") {
			return model.BorrowView{
				BookID:   bookID,
				Borrowed: true,
				Banner:   model.Info(sentence(errs.ErrAlreadyBorrowed)),
			}, nil
		}
		return model.BorrowView{BookID: bookID}, errors.Wrap(err, "Failed to borrow book")
	}
	h.track(kafka.KindBorrow, "", bookID)
	return model.BorrowView{
		BookID:   bookID,
		Borrowed: true,
		Banner:   model.Success("Book borrowed successfully."),
	}, nil
}

func outstanding(list []model.BorrowedBook) int {
	n := 0
	for _, rec := range list {
		if !rec.Returned {
			n++
		}
	}
	return n
}

// ToggleFavorite adds the book to the favorites or removes it when it is
// already there.
func (h *Handler) ToggleFavorite(ctx context.Context, bookID int) (model.FavoriteView, error) {
	if h.favoriteSvc.IsFavorited(ctx, bookID) {
		if err := h.favoriteSvc.Remove(ctx, bookID); err != nil {
			return model.FavoriteView{BookID: bookID, Favorited: true}, errors.Wrap(err, "Failed to update favorites")
		}
		h.track(kafka.KindUnfavorite, "", bookID)
		return model.FavoriteView{BookID: bookID, Banner: model.Success("Removed from favorites.")}, nil
	}
	if _, err := h.favoriteSvc.Add(ctx, bookID); err != nil {
		return model.FavoriteView{BookID: bookID}, errors.Wrap(err, "Failed to update favorites")
	}
	h.track(kafka.KindFavorite, "", bookID)
	return model.FavoriteView{BookID: bookID, Favorited: true, Banner: model.Success("Added to favorites.")}, nil
}

// Borrowed splits the user's borrow records into current and previous.
func (h *Handler) Borrowed(ctx context.Context) (model.BorrowedView, error) {
	list, err := h.borrowSvc.List(ctx)
	if err != nil {
		return model.BorrowedView{}, errors.Wrap(err, "Failed to load borrowed books")
	}
	var view model.BorrowedView
	for _, rec := range list {
		if rec.Returned {
			view.Previous = append(view.Previous, rec)
		} else {
			view.Current = append(view.Current, rec)
		}
	}
	return view, nil
}

// ReturnBook returns a book and reloads the borrowed page.
func (h *Handler) ReturnBook(ctx context.Context, bookID int) (model.BorrowedView, error) {
	if _, err := h.borrowSvc.Return(ctx, bookID); err != nil {
		return model.BorrowedView{}, errors.Wrap(err, "Failed to return book")
	}
	h.track(kafka.KindReturn, "", bookID)
	return h.Borrowed(ctx)
}

func (h *Handler) Favorites(ctx context.Context) (model.FavoritesView, error) {
	list, err := h.favoriteSvc.List(ctx)
	if err != nil {
		return model.FavoritesView{}, errors.Wrap(err, "Failed to load favorite books")
	}
	return model.FavoritesView{Books: list}, nil
}

// RemoveFavorite removes a book from the favorites page and reloads it.
func (h *Handler) RemoveFavorite(ctx context.Context, bookID int) (model.FavoritesView, error) {
	if err := h.favoriteSvc.Remove(ctx, bookID); err != nil {
		return model.FavoritesView{}, errors.Wrap(err, "Failed to remove from favorites")
	}
	h.track(kafka.KindUnfavorite, "", bookID)
	return h.Favorites(ctx)
}

func card(b model.Book, status model.BookStatus) model.BookCard {
	return model.BookCard{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Cover:  b.Cover,
		Status: status,
	}
}

// sentence turns a sentinel's lower case text into a displayable message.
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
