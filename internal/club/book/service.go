package book

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pagebound/bookclub/internal/platform/apperr"
	"github.com/pagebound/bookclub/internal/platform/validate"
	"github.com/pagebound/bookclub/pkg/pagination"
	"github.com/pagebound/bookclub/pkg/slug"
)

// Top-rated defaults and bounds.
const (
	DefaultTopRatedCount = 10
	MaxTopRatedCount     = 50
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListBooks returns one page of the catalogue, filtered, rating-aggregated,
// and sorted.
//
// The store returns every matching row in ascending id order; ratings are
// derived here, then a stable sort applies the requested key, then the page
// window is cut. Ties therefore always preserve ascending id.
func (service *Service) ListBooks(context context.Context, filter Filter, sortKey string, params pagination.Params) ([]*Book, int, error) {
	books, err := service.repo.List(context, filter)
	if err != nil {
		return nil, 0, err
	}

	aggregate(books)
	sortBooks(books, sortKey)

	total := len(books)
	return pagination.Slice(books, params), total, nil
}

// GetBook resolves a book by numeric id or by slug.
func (service *Service) GetBook(context context.Context, idOrSlug string) (*Book, error) {
	found, err := service.lookup(context, idOrSlug)
	if err != nil {
		return nil, err
	}

	found.AverageRating = AverageRating(found.Reviews)
	return found, nil
}

// lookup tries a numeric value as an id first. An all-digit title
// produces an all-digit slug, so a missed id lookup retries the value
// as a slug before reporting not found.
func (service *Service) lookup(context context.Context, idOrSlug string) (*Book, error) {
	id, convErr := strconv.Atoi(idOrSlug)
	if convErr != nil || id <= 0 {
		return service.repo.FindBySlug(context, idOrSlug)
	}

	found, err := service.repo.FindByID(context, id)
	if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
		return service.repo.FindBySlug(context, idOrSlug)
	}
	return found, err
}

// TopRated returns the highest-rated books. The count defaults to 10 and is
// clamped to [1, 50].
func (service *Service) TopRated(context context.Context, count int) ([]*Book, error) {
	if count <= 0 {
		count = DefaultTopRatedCount
	}
	if count > MaxTopRatedCount {
		count = MaxTopRatedCount
	}

	books, err := service.repo.List(context, Filter{})
	if err != nil {
		return nil, err
	}

	aggregate(books)
	sortBooks(books, SortRating)

	if len(books) > count {
		books = books[:count]
	}
	return books, nil
}

// ByGenre returns one page of the books in a single genre, rating-sorted.
func (service *Service) ByGenre(context context.Context, genreID int, params pagination.Params) ([]*Book, int, error) {
	return service.ListBooks(context, Filter{GenreID: genreID}, SortRating, params)
}

func (service *Service) CreateBook(context context.Context, book *Book) error {
	if err := service.validateBook(book); err != nil {
		return err
	}

	book.Slug = slug.Make(book.Title)

	// New books enter the catalogue available for selection.
	book.IsAvailable = true

	if err := service.repo.Create(context, book); err != nil {
		return err
	}

	service.logger.Info("book_created",
		slog.Int("book_id", book.ID),
		slog.String("title", book.Title),
	)
	return nil
}

func (service *Service) UpdateBook(context context.Context, id int, book *Book) error {
	book.ID = id
	if err := service.validateBook(book); err != nil {
		return err
	}

	// The slug tracks the title on every update.
	book.Slug = slug.Make(book.Title)

	if err := service.repo.Update(context, book); err != nil {
		return err
	}

	service.logger.Info("book_updated", slog.Int("book_id", book.ID))
	return nil
}

func (service *Service) DeleteBook(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("book_deleted", slog.Int("book_id", id))
	return nil
}

func (service *Service) validateBook(book *Book) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, 255)
	validator.Positive(FieldGenreID, book.GenreID)

	if book.PublicationYear != nil {
		validator.Range(FieldPublicationYear, *book.PublicationYear, 0, time.Now().Year()+1)
	}
	if book.PageCount != nil {
		validator.Positive(FieldPageCount, *book.PageCount)
	}
	if book.ISBN != nil {
		validator.MaxLen(FieldISBN, *book.ISBN, 20)
	}
	if book.Description != nil {
		validator.MaxLen(FieldDescription, *book.Description, 8000)
	}
	if book.CoverImageURL != nil {
		validator.URL(FieldCoverImageURL, *book.CoverImageURL)
	}
	for _, authorID := range book.AuthorIDs {
		validator.Positive(FieldAuthorIDs, authorID)
	}

	return validator.Err()
}

// sortBooks applies the requested sort key with a stable sort, so equal keys
// keep the store's ascending id order.
func sortBooks(books []*Book, sortKey string) {
	switch sortKey {
	case SortRating:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].AverageRating > books[j].AverageRating
		})
	case SortYear:
		// Unknown publication years sort last.
		sort.SliceStable(books, func(i, j int) bool {
			left, right := books[i].PublicationYear, books[j].PublicationYear
			switch {
			case left == nil:
				return false
			case right == nil:
				return true
			default:
				return *left > *right
			}
		})
	case SortNewest:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].ID > books[j].ID
		})
	default:
		sort.SliceStable(books, func(i, j int) bool {
			return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
		})
	}
}
