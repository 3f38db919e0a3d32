package genre

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

func (service *Service) ListGenres(context context.Context, limit, offset int) ([]*Genre, int, error) {
	return service.repo.ListGenres(context, limit, offset)
}

func (service *Service) GetGenre(context context.Context, id int) (*Genre, error) {
	return service.repo.GetGenre(context, id)
}

func (service *Service) CreateGenre(context context.Context, genre *Genre) error {
	if err := service.validateGenre(genre); err != nil {
		return err
	}

	if err := service.repo.CreateGenre(context, genre); err != nil {
		return err
	}

	service.logger.Info("genre_created", slog.String("name", genre.Name))
	return nil
}

func (service *Service) UpdateGenre(context context.Context, id int, genre *Genre) error {
	genre.ID = id
	if err := service.validateGenre(genre); err != nil {
		return err
	}

	if err := service.repo.UpdateGenre(context, genre); err != nil {
		return err
	}

	service.logger.Info("genre_updated", slog.Int("genre_id", genre.ID))
	return nil
}

func (service *Service) DeleteGenre(context context.Context, id int) error {
	if err := service.repo.DeleteGenre(context, id); err != nil {
		return err
	}

	service.logger.Warn("genre_deleted", slog.Int("genre_id", id))
	return nil
}

func (service *Service) validateGenre(genre *Genre) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, genre.Name).MaxLen(FieldName, genre.Name, 100)
	if genre.Description != nil {
		validator.MaxLen(FieldDescription, *genre.Description, 2000)
	}

	return validator.Err()
}
