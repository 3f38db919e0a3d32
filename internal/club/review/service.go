package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagebound/bookclub/internal/platform/validate"
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

func (service *Service) GetReview(context context.Context, id int) (*Review, error) {
	return service.repo.GetReview(context, id)
}

func (service *Service) CreateReview(context context.Context, review *Review) error {
	validator := &validate.Validator{}
	validator.Range(FieldRating, review.Rating, MinRating, MaxRating)
	validator.Positive(FieldBookID, review.BookID)
	validator.Positive(FieldMemberID, review.MemberID)
	if review.Comment != nil {
		validator.MaxLen(FieldComment, *review.Comment, 4000)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	// The post date is server-assigned, never taken from the request.
	review.DatePosted = time.Now().UTC()

	if err := service.repo.CreateReview(context, review); err != nil {
		return err
	}

	service.logger.Info("review_created",
		slog.Int("review_id", review.ID),
		slog.Int("book_id", review.BookID),
		slog.Int("rating", review.Rating),
	)
	return nil
}

func (service *Service) UpdateReview(context context.Context, id int, review *Review) error {
	review.ID = id

	validator := &validate.Validator{}
	validator.Range(FieldRating, review.Rating, MinRating, MaxRating)
	if review.Comment != nil {
		validator.MaxLen(FieldComment, *review.Comment, 4000)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.UpdateReview(context, review); err != nil {
		return err
	}

	service.logger.Info("review_updated", slog.Int("review_id", review.ID))
	return nil
}

// DeleteReview removes a review and returns the parent book id so callers
// can navigate back to the book they came from.
func (service *Service) DeleteReview(context context.Context, id int) (int, error) {
	review, err := service.repo.GetReview(context, id)
	if err != nil {
		return 0, err
	}

	if err := service.repo.DeleteReview(context, id); err != nil {
		return 0, err
	}

	service.logger.Warn("review_deleted",
		slog.Int("review_id", id),
		slog.Int("book_id", review.BookID),
	)
	return review.BookID, nil
}
