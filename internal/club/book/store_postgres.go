/*
Package book provides the PostgreSQL implementation for the catalogue's data access.

It leans on Postgres JSON aggregation to hydrate each book's genre, authors,
and reviews in a single round-trip, and on ACID transactions to keep the
author junction table in sync with the book row.
*/
package book

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
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

// selectQuery builds the hydrating SELECT shared by all read paths.
//
// Genre arrives via a join, authors and reviews as JSON arrays aggregated in
// sub-queries. Review items join the member table so responses carry the
// reviewer's name without a second query.
func selectQuery(whereClause string) string {
	return fmt.Sprintf(`
		SELECT
			b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			g.%s AS genre_name,
			COALESCE((
				SELECT json_agg(json_build_object('id', a.%s, 'name', a.%s) ORDER BY a.%s)
				FROM %s a
				JOIN %s ba ON a.%s = ba.%s
				WHERE ba.%s = b.%s
			), '[]') AS authors,
			COALESCE((
				SELECT json_agg(json_build_object(
					'id', r.%s, 'rating', r.%s, 'comment', r.%s,
					'date_posted', r.%s, 'member_id', r.%s, 'member_name', mb.%s
				) ORDER BY r.%s DESC)
				FROM %s r
				JOIN %s mb ON mb.%s = r.%s
				WHERE r.%s = b.%s
			), '[]') AS reviews
		FROM %s b
		JOIN %s g ON g.%s = b.%s
		%s
	`,
		schema.Book.ID, schema.Book.Title, schema.Book.Slug, schema.Book.PublicationYear,
		schema.Book.PageCount, schema.Book.ISBN, schema.Book.GenreID, schema.Book.ReviewCount,
		schema.Book.Description, schema.Book.CoverImageURL, schema.Book.IsAvailable,
		schema.Genre.Name,
		schema.Author.ID, schema.Author.Name, schema.Author.Name,
		schema.Author.Table,
		schema.BookAuthor.Table, schema.Author.ID, schema.BookAuthor.AuthorID,
		schema.BookAuthor.BookID, schema.Book.ID,
		schema.Review.ID, schema.Review.Rating, schema.Review.Comment,
		schema.Review.DatePosted, schema.Review.MemberID, schema.Member.Name,
		schema.Review.DatePosted,
		schema.Review.Table,
		schema.Member.Table, schema.Member.ID, schema.Review.MemberID,
		schema.Review.BookID, schema.Book.ID,
		schema.Book.Table,
		schema.Genre.Table, schema.Genre.ID, schema.Book.GenreID,
		whereClause,
	)
}

func scanBook(row pgx.Row) (*Book, error) {
	b := &Book{}
	var genreName string
	var authorsJSON, reviewsJSON []byte

	err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.PublicationYear, &b.PageCount, &b.ISBN,
		&b.GenreID, &b.ReviewCount, &b.Description, &b.CoverImageURL, &b.IsAvailable,
		&genreName, &authorsJSON, &reviewsJSON,
	)
	if err != nil {
		return nil, err
	}

	b.Genre = &GenreRef{ID: b.GenreID, Name: genreName}

	if err := json.Unmarshal(authorsJSON, &b.Authors); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode book authors: %w", err)
	}
	if err := json.Unmarshal(reviewsJSON, &b.Reviews); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode book reviews: %w", err)
	}

	return b, nil
}

// List returns every book matching the filter, ordered by ascending id.
//
// The search term matches the title or any linked author's name
// (case-insensitive); the genre filter is an exact id match and composes
// with the search term as AND.
func (repository *PostgresRepository) List(context context.Context, f Filter) ([]*Book, error) {
	var whereBuilder strings.Builder
	whereBuilder.WriteString("WHERE 1=1")
	var args []any

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		whereBuilder.WriteString(fmt.Sprintf(` AND (b.%s ILIKE $%d OR EXISTS (
			SELECT 1 FROM %s a2
			JOIN %s ba2 ON a2.%s = ba2.%s
			WHERE ba2.%s = b.%s AND a2.%s ILIKE $%d
		))`,
			schema.Book.Title, len(args),
			schema.Author.Table,
			schema.BookAuthor.Table, schema.Author.ID, schema.BookAuthor.AuthorID,
			schema.BookAuthor.BookID, schema.Book.ID, schema.Author.Name, len(args),
		))
	}

	if f.GenreID > 0 {
		args = append(args, f.GenreID)
		whereBuilder.WriteString(fmt.Sprintf(" AND b.%s = $%d", schema.Book.GenreID, len(args)))
	}

	whereBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s ASC", schema.Book.ID))

	rows, err := repository.db.Query(context, selectQuery(whereBuilder.String()), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	return books, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Book, error) {
	query := selectQuery(fmt.Sprintf("WHERE b.%s = $1", schema.Book.ID))

	b, err := scanBook(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_id")
	}
	return b, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Book, error) {
	query := selectQuery(fmt.Sprintf("WHERE b.%s = $1", schema.Book.Slug))

	b, err := scanBook(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_slug")
	}
	return b, nil
}

func (repository *PostgresRepository) Create(context context.Context, b *Book) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_book_begin")
	}
	defer transaction.Rollback(context)

	// A nonexistent genre id violates the FK and surfaces as Unprocessable;
	// a duplicate slug violates the unique index and surfaces as Conflict.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`,
		schema.Book.Table,
		schema.Book.Title, schema.Book.Slug, schema.Book.PublicationYear, schema.Book.PageCount,
		schema.Book.ISBN, schema.Book.GenreID, schema.Book.Description, schema.Book.CoverImageURL,
		schema.Book.IsAvailable,
		schema.Book.ID,
	)

	err = transaction.QueryRow(context, query,
		b.Title, b.Slug, b.PublicationYear, b.PageCount, b.ISBN,
		b.GenreID, b.Description, b.CoverImageURL, b.IsAvailable,
	).Scan(&b.ID)
	if err != nil {
		return dberr.Wrap(err, "create_book")
	}

	if len(b.AuthorIDs) > 0 {
		if err := replaceJunction(context, transaction, b.ID, b.AuthorIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "create_book_commit")
	}
	return nil
}

// Update overwrites every mutable column and resynchronizes the author
// links. review_count stays untouched; only the trigger writes it.
func (repository *PostgresRepository) Update(context context.Context, b *Book) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "update_book_begin")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10
		WHERE %s = $1
	`,
		schema.Book.Table,
		schema.Book.Title, schema.Book.Slug, schema.Book.PublicationYear, schema.Book.PageCount,
		schema.Book.ISBN, schema.Book.GenreID, schema.Book.Description, schema.Book.CoverImageURL,
		schema.Book.IsAvailable,
		schema.Book.ID,
	)

	cmd, err := transaction.Exec(context, query,
		b.ID, b.Title, b.Slug, b.PublicationYear, b.PageCount, b.ISBN,
		b.GenreID, b.Description, b.CoverImageURL, b.IsAvailable,
	)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}

	if b.AuthorIDs != nil {
		if err := replaceJunction(context, transaction, b.ID, b.AuthorIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "update_book_commit")
	}
	return nil
}

// Delete removes a book and all dependents in one transaction, children
// before parent: author links, reviews, meeting links, then the book row.
func (repository *PostgresRepository) Delete(context context.Context, id int) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "delete_book_begin")
	}
	defer transaction.Rollback(context)

	children := []struct {
		table  string
		column string
	}{
		{schema.BookAuthor.Table, schema.BookAuthor.BookID},
		{schema.Review.Table, schema.Review.BookID},
		{schema.BookMeeting.Table, schema.BookMeeting.BookID},
	}

	for _, child := range children {
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, child.table, child.column)
		if _, err := transaction.Exec(context, query, id); err != nil {
			return dberr.Wrap(err, "delete_book_children")
		}
	}

	bookQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Book.Table, schema.Book.ID)

	cmd, err := transaction.Exec(context, bookQuery, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "delete_book_commit")
	}
	return nil
}

// replaceJunction synchronizes the book-author junction table using a
// clear-and-insert strategy with a pgx.Batch for the insert phase.
func replaceJunction(context context.Context, transaction pgx.Tx, bookID int, authorIDs []int) error {
	delQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.BookAuthor.Table, schema.BookAuthor.BookID,
	)
	if _, err := transaction.Exec(context, delQuery, bookID); err != nil {
		return dberr.Wrap(err, "clear_book_authors")
	}

	if len(authorIDs) == 0 {
		return nil
	}

	insQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.BookAuthor.Table, schema.BookAuthor.BookID, schema.BookAuthor.AuthorID,
	)
	batch := &pgx.Batch{}
	for _, authorID := range authorIDs {
		batch.Queue(insQuery, bookID, authorID)
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return dberr.Wrap(err, "batch_insert_book_authors")
	}

	return nil
}
