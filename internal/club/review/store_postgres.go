package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagebound/bookclub/internal/platform/apperr"
	"github.com/pagebound/bookclub/internal/platform/database/schema"
	"github.com/pagebound/bookclub/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) GetReview(context context.Context, id int) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Review.ID, schema.Review.Rating, schema.Review.Comment,
		schema.Review.DatePosted, schema.Review.BookID, schema.Review.MemberID,
		schema.Review.Table, schema.Review.ID,
	)

	r := &Review{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&r.ID, &r.Rating, &r.Comment, &r.DatePosted, &r.BookID, &r.MemberID,
	)

	return r, dberr.Wrap(err, "get_review")
}

func (repository *PostgresRepository) CreateReview(context context.Context, r *Review) error {
	// A dangling book or member id violates the FK and surfaces as
	// Unprocessable. The review_count trigger on club.review keeps the
	// parent book's counter in sync.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		schema.Review.Table,
		schema.Review.Rating, schema.Review.Comment, schema.Review.DatePosted,
		schema.Review.BookID, schema.Review.MemberID,
		schema.Review.ID,
	)

	err := repository.db.QueryRow(context, query,
		r.Rating, r.Comment, r.DatePosted, r.BookID, r.MemberID,
	).Scan(&r.ID)

	return dberr.Wrap(err, "create_review")
}

func (repository *PostgresRepository) UpdateReview(context context.Context, r *Review) error {
	// Only rating and comment are mutable; the review stays pinned to its
	// original book, member, and post date.
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1
		RETURNING %s, %s, %s
	`,
		schema.Review.Table,
		schema.Review.Rating, schema.Review.Comment,
		schema.Review.ID,
		schema.Review.DatePosted, schema.Review.BookID, schema.Review.MemberID,
	)

	err := repository.db.QueryRow(context, query, r.ID, r.Rating, r.Comment).Scan(
		&r.DatePosted, &r.BookID, &r.MemberID,
	)

	return dberr.Wrap(err, "update_review")
}

func (repository *PostgresRepository) DeleteReview(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Review.Table, schema.Review.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}
