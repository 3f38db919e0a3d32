package meeting

import (
	"context"
	"log/slog"

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

func (service *Service) ListMeetings(context context.Context, limit, offset int) ([]*Meeting, int, error) {
	return service.repo.ListMeetings(context, limit, offset)
}

func (service *Service) GetMeeting(context context.Context, id int) (*Meeting, error) {
	return service.repo.GetMeeting(context, id)
}

func (service *Service) CreateMeeting(context context.Context, meeting *Meeting) error {
	if err := service.validateMeeting(meeting); err != nil {
		return err
	}

	if err := service.repo.CreateMeeting(context, meeting); err != nil {
		return err
	}

	service.logger.Info("meeting_created",
		slog.Int("meeting_id", meeting.ID),
		slog.Time("date", meeting.Date),
	)
	return nil
}

func (service *Service) UpdateMeeting(context context.Context, id int, meeting *Meeting) error {
	meeting.ID = id
	if err := service.validateMeeting(meeting); err != nil {
		return err
	}

	if err := service.repo.UpdateMeeting(context, meeting); err != nil {
		return err
	}

	service.logger.Info("meeting_updated", slog.Int("meeting_id", meeting.ID))
	return nil
}

// ReplaceAssociations rewrites which books are discussed and which members
// attend. Both sets are replaced wholesale; absent ids are removed.
func (service *Service) ReplaceAssociations(context context.Context, id int, associations Associations) error {
	validator := &validate.Validator{}
	for _, bookID := range associations.BookIDs {
		validator.Positive("book_ids", bookID)
	}
	for _, memberID := range associations.MemberIDs {
		validator.Positive("member_ids", memberID)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.ReplaceAssociations(context, id, associations); err != nil {
		return err
	}

	service.logger.Info("meeting_associations_replaced",
		slog.Int("meeting_id", id),
		slog.Int("books", len(associations.BookIDs)),
		slog.Int("members", len(associations.MemberIDs)),
	)
	return nil
}

func (service *Service) DeleteMeeting(context context.Context, id int) error {
	if err := service.repo.DeleteMeeting(context, id); err != nil {
		return err
	}

	service.logger.Warn("meeting_deleted", slog.Int("meeting_id", id))
	return nil
}

func (service *Service) validateMeeting(meeting *Meeting) error {
	validator := &validate.Validator{}

	validator.Custom(FieldDate, meeting.Date.IsZero(), "This field is required")
	if meeting.Location != nil {
		validator.MaxLen(FieldLocation, *meeting.Location, 200)
	}
	if meeting.Notes != nil {
		validator.MaxLen(FieldNotes, *meeting.Notes, 4000)
	}

	for _, bookID := range meeting.BookIDs {
		validator.Positive("book_ids", bookID)
	}
	for _, memberID := range meeting.MemberIDs {
		validator.Positive("member_ids", memberID)
	}

	return validator.Err()
}
