package review_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebound/bookclub/internal/club/review"
	"github.com/pagebound/bookclub/internal/platform/apperr"
)

// fakeRepository is an in-memory Repository test double.
type fakeRepository struct {
	reviews   map[int]*review.Review
	created   *review.Review
	updated   *review.Review
	deletedID int
}

func (f *fakeRepository) GetReview(_ context.Context, id int) (*review.Review, error) {
	if r, ok := f.reviews[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, apperr.NotFound("Review")
}

func (f *fakeRepository) CreateReview(_ context.Context, r *review.Review) error {
	r.ID = len(f.reviews) + 1
	f.created = r
	return nil
}

func (f *fakeRepository) UpdateReview(_ context.Context, r *review.Review) error {
	f.updated = r
	return nil
}

func (f *fakeRepository) DeleteReview(_ context.Context, id int) error {
	f.deletedID = id
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestCreateReview verifies the rating bounds, required ids, and the
server-assigned post date.
*/
func TestCreateReview(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		repo := &fakeRepository{}
		service := review.NewService(repo, discardLogger())

		before := time.Now().UTC()
		input := &review.Review{Rating: 4, BookID: 1, MemberID: 2,
			DatePosted: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)}

		require.NoError(t, service.CreateReview(context.Background(), input))
		require.NotNil(t, repo.created)

		// The client-supplied date is discarded.
		assert.False(t, repo.created.DatePosted.Before(before))
	})

	tests := []struct {
		name   string
		rating int
		bookID int
		member int
	}{
		{"rating_too_low", 0, 1, 2},
		{"rating_too_high", 6, 1, 2},
		{"missing_book", 3, 0, 2},
		{"missing_member", 3, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := review.NewService(&fakeRepository{}, discardLogger())

			err := service.CreateReview(context.Background(), &review.Review{
				Rating:   tt.rating,
				BookID:   tt.bookID,
				MemberID: tt.member,
			})
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestUpdateReview verifies that only rating and comment are validated and
the path id wins over any id in the body.
*/
func TestUpdateReview(t *testing.T) {
	repo := &fakeRepository{}
	service := review.NewService(repo, discardLogger())

	input := &review.Review{ID: 999, Rating: 5}
	require.NoError(t, service.UpdateReview(context.Background(), 7, input))

	require.NotNil(t, repo.updated)
	assert.Equal(t, 7, repo.updated.ID)

	err := service.UpdateReview(context.Background(), 7, &review.Review{Rating: 0})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestDeleteReview verifies the parent book id is returned after deletion.
*/
func TestDeleteReview(t *testing.T) {
	repo := &fakeRepository{reviews: map[int]*review.Review{
		7: {ID: 7, Rating: 4, BookID: 42, MemberID: 3},
	}}
	service := review.NewService(repo, discardLogger())

	bookID, err := service.DeleteReview(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 42, bookID)
	assert.Equal(t, 7, repo.deletedID)
}

/*
TestDeleteReview_Missing verifies a missing review surfaces NOT_FOUND
without touching the store.
*/
func TestDeleteReview_Missing(t *testing.T) {
	repo := &fakeRepository{}
	service := review.NewService(repo, discardLogger())

	_, err := service.DeleteReview(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Zero(t, repo.deletedID)
}
