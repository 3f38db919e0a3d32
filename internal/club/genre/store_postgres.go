package genre

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

func (repository *PostgresRepository) ListGenres(context context.Context, limit, offset int) ([]*Genre, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`,
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Description,
		schema.Genre.Table, schema.Genre.Name,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	var genres []*Genre
	var total int
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetGenre(context context.Context, id int) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Description,
		schema.Genre.Table, schema.Genre.ID,
	)

	g := &Genre{}
	err := repository.db.QueryRow(context, query, id).Scan(&g.ID, &g.Name, &g.Description)

	return g, dberr.Wrap(err, "get_genre")
}

func (repository *PostgresRepository) CreateGenre(context context.Context, g *Genre) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.Genre.Table, schema.Genre.Name, schema.Genre.Description, schema.Genre.ID,
	)

	err := repository.db.QueryRow(context, query, g.Name, g.Description).Scan(&g.ID)
	return dberr.Wrap(err, "create_genre")
}

func (repository *PostgresRepository) UpdateGenre(context context.Context, g *Genre) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.Genre.Table, schema.Genre.Name, schema.Genre.Description, schema.Genre.ID,
	)

	cmd, err := repository.db.Exec(context, query, g.ID, g.Name, g.Description)
	if err != nil {
		return dberr.Wrap(err, "update_genre")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}
	return nil
}

// DeleteGenre removes a genre, refusing while any book still references it.
// The reference check and the delete run in one transaction so a concurrent
// book insert cannot slip between them.
func (repository *PostgresRepository) DeleteGenre(context context.Context, id int) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "delete_genre_begin")
	}
	defer transaction.Rollback(context)

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.Book.Table, schema.Book.GenreID,
	)

	var bookCount int
	if err := transaction.QueryRow(context, countQuery, id).Scan(&bookCount); err != nil {
		return dberr.Wrap(err, "delete_genre_count_books")
	}

	if bookCount > 0 {
		return apperr.Conflict(fmt.Sprintf("Genre is still referenced by %d book(s)", bookCount))
	}

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Genre.Table, schema.Genre.ID)

	cmd, err := transaction.Exec(context, deleteQuery, id)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "delete_genre_commit")
	}
	return nil
}
