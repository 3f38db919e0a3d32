package member

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagebound/bookclub/internal/platform/validate"
)

// DefaultRole is assigned when a new member does not specify one.
const DefaultRole = "Member"

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

func (service *Service) ListMembers(context context.Context, filter Filter, limit, offset int) ([]*Member, int, error) {
	return service.repo.ListMembers(context, filter, limit, offset)
}

func (service *Service) GetMember(context context.Context, id int) (*Member, error) {
	return service.repo.GetMember(context, id)
}

func (service *Service) CreateMember(context context.Context, member *Member) error {
	if member.Role == "" {
		member.Role = DefaultRole
	}

	if err := service.validateMember(member); err != nil {
		return err
	}

	// The join date is server-assigned, never taken from the request.
	member.JoinDate = time.Now().UTC()
	member.IsActive = true

	if err := service.repo.CreateMember(context, member); err != nil {
		return err
	}

	service.logger.Info("member_created",
		slog.Int("member_id", member.ID),
		slog.String("email", member.Email),
	)
	return nil
}

func (service *Service) UpdateMember(context context.Context, id int, member *Member) error {
	member.ID = id
	if member.Role == "" {
		member.Role = DefaultRole
	}

	if err := service.validateMember(member); err != nil {
		return err
	}

	if err := service.repo.UpdateMember(context, member); err != nil {
		return err
	}

	service.logger.Info("member_updated", slog.Int("member_id", member.ID))
	return nil
}

func (service *Service) DeleteMember(context context.Context, id int) error {
	if err := service.repo.DeleteMember(context, id); err != nil {
		return err
	}

	service.logger.Warn("member_deleted", slog.Int("member_id", id))
	return nil
}

func (service *Service) validateMember(member *Member) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, member.Name).MaxLen(FieldName, member.Name, 255)
	validator.Required(FieldEmail, member.Email).Email(FieldEmail, member.Email).MaxLen(FieldEmail, member.Email, 255)
	validator.MaxLen(FieldRole, member.Role, 50)

	if member.Phone != nil {
		validator.MaxLen(FieldPhone, *member.Phone, 30)
	}
	if member.Bio != nil {
		validator.MaxLen(FieldBio, *member.Bio, 4000)
	}

	return validator.Err()
}
