package author

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

func (repository *PostgresRepository) ListAuthors(context context.Context, f Filter, limit, offset int) ([]*Author, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
	`,
		schema.Author.ID, schema.Author.Name, schema.Author.BirthDate, schema.Author.Nationality,
		schema.Author.Table,
	)

	args := []any{}
	if f.Query != "" {
		query += fmt.Sprintf(` WHERE %s ILIKE $1`, schema.Author.Name)
		args = append(args, "%"+f.Query+"%")
	}

	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", schema.Author.Name, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	var authors []*Author
	var total int
	for rows.Next() {
		a := &Author{}
		if err := rows.Scan(&a.ID, &a.Name, &a.BirthDate, &a.Nationality, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, total, nil
}

func (repository *PostgresRepository) GetAuthor(context context.Context, id int) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Author.ID, schema.Author.Name, schema.Author.BirthDate, schema.Author.Nationality,
		schema.Author.Table, schema.Author.ID,
	)

	a := &Author{}
	err := repository.db.QueryRow(context, query, id).Scan(&a.ID, &a.Name, &a.BirthDate, &a.Nationality)

	return a, dberr.Wrap(err, "get_author")
}

func (repository *PostgresRepository) CreateAuthor(context context.Context, a *Author) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s`,
		schema.Author.Table, schema.Author.Name, schema.Author.BirthDate, schema.Author.Nationality,
		schema.Author.ID,
	)

	err := repository.db.QueryRow(context, query, a.Name, a.BirthDate, a.Nationality).Scan(&a.ID)
	return dberr.Wrap(err, "create_author")
}

func (repository *PostgresRepository) UpdateAuthor(context context.Context, a *Author) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.Author.Table, schema.Author.Name, schema.Author.BirthDate, schema.Author.Nationality,
		schema.Author.ID,
	)

	cmd, err := repository.db.Exec(context, query, a.ID, a.Name, a.BirthDate, a.Nationality)
	if err != nil {
		return dberr.Wrap(err, "update_author")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Author")
	}
	return nil
}

// DeleteAuthor removes an author and their book links in one transaction.
// Junction rows go first so the author row never violates its foreign keys.
func (repository *PostgresRepository) DeleteAuthor(context context.Context, id int) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "delete_author_begin")
	}
	defer transaction.Rollback(context)

	junctionQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BookAuthor.Table, schema.BookAuthor.AuthorID,
	)
	if _, err := transaction.Exec(context, junctionQuery, id); err != nil {
		return dberr.Wrap(err, "delete_author_links")
	}

	authorQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Author.Table, schema.Author.ID)

	cmd, err := transaction.Exec(context, authorQuery, id)
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Author")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "delete_author_commit")
	}
	return nil
}
