package book_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebound/bookclub/internal/club/book"
	"github.com/pagebound/bookclub/internal/platform/apperr"
	"github.com/pagebound/bookclub/pkg/pagination"
	"github.com/pagebound/bookclub/pkg/pointer"
)

// fakeRepository is an in-memory Repository test double. List returns the
// seeded books in ascending id order, mirroring the real store contract.
type fakeRepository struct {
	books      []*book.Book
	created    *book.Book
	updated    *book.Book
	lastFilter book.Filter
	slugLookup string
	idLookup   int
}

func (f *fakeRepository) List(_ context.Context, filter book.Filter) ([]*book.Book, error) {
	f.lastFilter = filter

	var out []*book.Book
	for _, b := range f.books {
		if filter.GenreID > 0 && b.GenreID != filter.GenreID {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int) (*book.Book, error) {
	f.idLookup = id
	for _, b := range f.books {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (f *fakeRepository) FindBySlug(_ context.Context, slug string) (*book.Book, error) {
	f.slugLookup = slug
	for _, b := range f.books {
		if b.Slug == slug {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (f *fakeRepository) Create(_ context.Context, b *book.Book) error {
	b.ID = len(f.books) + 1
	f.created = b
	return nil
}

func (f *fakeRepository) Update(_ context.Context, b *book.Book) error {
	f.updated = b
	return nil
}

func (f *fakeRepository) Delete(context.Context, int) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedBooks returns a small catalogue in ascending id order with varied
// ratings, years, and titles.
func seedBooks() []*book.Book {
	return []*book.Book{
		{ID: 1, Title: "Walden", GenreID: 1, PublicationYear: pointer.To(1854),
			Reviews: []book.ReviewItem{{Rating: 3}}},
		{ID: 2, Title: "dune", GenreID: 2, PublicationYear: pointer.To(1965),
			Reviews: []book.ReviewItem{{Rating: 5}, {Rating: 4}}},
		{ID: 3, Title: "Emma", GenreID: 1, PublicationYear: nil,
			Reviews: nil},
		{ID: 4, Title: "Blindness", GenreID: 2, PublicationYear: pointer.To(1995),
			Reviews: []book.ReviewItem{{Rating: 5}, {Rating: 4}}},
	}
}

/*
TestListBooks_DefaultSort verifies the default title ordering is
case-insensitive ascending.
*/
func TestListBooks_DefaultSort(t *testing.T) {
	service := book.NewService(&fakeRepository{books: seedBooks()}, discardLogger())

	books, total, err := service.ListBooks(context.Background(), book.Filter{}, book.SortDefault, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	titles := []string{books[0].Title, books[1].Title, books[2].Title, books[3].Title}
	assert.Equal(t, []string{"Blindness", "dune", "Emma", "Walden"}, titles)
}

/*
TestListBooks_RatingSort verifies the rating sort is descending and that
ratings are derived before sorting; tied ratings keep ascending id order.
*/
func TestListBooks_RatingSort(t *testing.T) {
	service := book.NewService(&fakeRepository{books: seedBooks()}, discardLogger())

	books, _, err := service.ListBooks(context.Background(), book.Filter{}, book.SortRating, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	// Books 2 and 4 tie at 4.5; the tie preserves ascending id.
	ids := []int{books[0].ID, books[1].ID, books[2].ID, books[3].ID}
	assert.Equal(t, []int{2, 4, 1, 3}, ids)

	// The derived rating is populated on every returned book.
	assert.InDelta(t, 4.5, books[0].AverageRating, 1e-9)
	assert.InDelta(t, 0, books[3].AverageRating, 1e-9)
}

/*
TestListBooks_YearSort verifies newest-year-first ordering with unknown
years pushed to the end.
*/
func TestListBooks_YearSort(t *testing.T) {
	service := book.NewService(&fakeRepository{books: seedBooks()}, discardLogger())

	books, _, err := service.ListBooks(context.Background(), book.Filter{}, book.SortYear, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	ids := []int{books[0].ID, books[1].ID, books[2].ID, books[3].ID}
	assert.Equal(t, []int{4, 2, 1, 3}, ids) // nil year (book 3) is last
}

/*
TestListBooks_NewestSort verifies most-recently-added-first ordering.
*/
func TestListBooks_NewestSort(t *testing.T) {
	service := book.NewService(&fakeRepository{books: seedBooks()}, discardLogger())

	books, _, err := service.ListBooks(context.Background(), book.Filter{}, book.SortNewest, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 4, books[0].ID)
	assert.Equal(t, 1, books[3].ID)
}

/*
TestListBooks_Pagination verifies the page window is cut after sorting and
the total reflects the full filtered set.
*/
func TestListBooks_Pagination(t *testing.T) {
	service := book.NewService(&fakeRepository{books: seedBooks()}, discardLogger())

	books, total, err := service.ListBooks(context.Background(), book.Filter{}, book.SortDefault, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, total)
	require.Len(t, books, 2)
	assert.Equal(t, "Emma", books[0].Title)
	assert.Equal(t, "Walden", books[1].Title)
}

/*
TestTopRated verifies the default count, the clamp, and the rating order.
*/
func TestTopRated(t *testing.T) {
	service := book.NewService(&fakeRepository{books: seedBooks()}, discardLogger())

	t.Run("returns_rating_order", func(t *testing.T) {
		books, err := service.TopRated(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, 2, books[0].ID)
		assert.Equal(t, 4, books[1].ID)
	})

	t.Run("zero_count_defaults", func(t *testing.T) {
		books, err := service.TopRated(context.Background(), 0)
		require.NoError(t, err)
		// Catalogue is smaller than the default of 10
		assert.Len(t, books, 4)
	})

	t.Run("excessive_count_clamped", func(t *testing.T) {
		books, err := service.TopRated(context.Background(), 5000)
		require.NoError(t, err)
		assert.Len(t, books, 4)
	})
}

/*
TestByGenre verifies the genre filter reaches the store and results are
rating-sorted.
*/
func TestByGenre(t *testing.T) {
	repo := &fakeRepository{books: seedBooks()}
	service := book.NewService(repo, discardLogger())

	books, total, err := service.ByGenre(context.Background(), 2, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.lastFilter.GenreID)
	assert.Equal(t, 2, total)
	require.Len(t, books, 2)
	assert.Equal(t, 2, books[0].ID)
}

/*
TestGetBook verifies id-or-slug dispatch and rating hydration.
*/
func TestGetBook(t *testing.T) {
	repo := &fakeRepository{books: seedBooks()}
	service := book.NewService(repo, discardLogger())

	t.Run("numeric_id", func(t *testing.T) {
		found, err := service.GetBook(context.Background(), "2")
		require.NoError(t, err)
		assert.Equal(t, 2, repo.idLookup)
		assert.InDelta(t, 4.5, found.AverageRating, 1e-9)
	})

	t.Run("slug", func(t *testing.T) {
		repo.books[0].Slug = "walden"
		found, err := service.GetBook(context.Background(), "walden")
		require.NoError(t, err)
		assert.Equal(t, "walden", repo.slugLookup)
		assert.Equal(t, 1, found.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := service.GetBook(context.Background(), "999")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	// An all-digit title ("1984") yields an all-digit slug; the missed id
	// lookup must fall back to the slug instead of answering 404.
	t.Run("all_digit_slug", func(t *testing.T) {
		fallbackRepo := &fakeRepository{books: seedBooks()}
		fallbackRepo.books[2].Slug = "1984"
		fallbackService := book.NewService(fallbackRepo, discardLogger())

		found, err := fallbackService.GetBook(context.Background(), "1984")
		require.NoError(t, err)
		assert.Equal(t, 1984, fallbackRepo.idLookup)
		assert.Equal(t, "1984", fallbackRepo.slugLookup)
		assert.Equal(t, 3, found.ID)
	})
}

/*
TestCreateBook verifies validation and slug generation.
*/
func TestCreateBook(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		repo := &fakeRepository{}
		service := book.NewService(repo, discardLogger())

		input := &book.Book{Title: "Les Misérables", GenreID: 1, AuthorIDs: []int{3}}
		require.NoError(t, service.CreateBook(context.Background(), input))

		require.NotNil(t, repo.created)
		assert.Equal(t, "les-miserables", repo.created.Slug)
	})

	t.Run("missing_title", func(t *testing.T) {
		service := book.NewService(&fakeRepository{}, discardLogger())

		err := service.CreateBook(context.Background(), &book.Book{GenreID: 1})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("missing_genre", func(t *testing.T) {
		service := book.NewService(&fakeRepository{}, discardLogger())

		err := service.CreateBook(context.Background(), &book.Book{Title: "Dune"})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("negative_author_id", func(t *testing.T) {
		service := book.NewService(&fakeRepository{}, discardLogger())

		err := service.CreateBook(context.Background(), &book.Book{Title: "Dune", GenreID: 1, AuthorIDs: []int{-2}})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestUpdateBook verifies the slug tracks the new title.
*/
func TestUpdateBook(t *testing.T) {
	repo := &fakeRepository{}
	service := book.NewService(repo, discardLogger())

	input := &book.Book{Title: "Crime & Punishment", GenreID: 1}
	require.NoError(t, service.UpdateBook(context.Background(), 9, input))

	require.NotNil(t, repo.updated)
	assert.Equal(t, 9, repo.updated.ID)
	assert.Equal(t, "crime-punishment", repo.updated.Slug)
}
