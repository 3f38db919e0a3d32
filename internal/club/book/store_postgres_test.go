package book_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pagebound/bookclub/internal/club/book"
	"github.com/pagebound/bookclub/internal/platform/apperr"
	"github.com/pagebound/bookclub/internal/platform/migration"
	pgstore "github.com/pagebound/bookclub/internal/platform/postgres"
)

// setupPool starts a throwaway Postgres container, applies the schema
// migrations, and returns a connected pool. Requires a local Docker
// daemon; go test -short skips the callers.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("club"),
		tcpostgres.WithUsername("club"),
		tcpostgres.WithPassword("club"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, migration.RunUp(dsn, "../../../data/migrations", discardLogger()))

	pool, err := pgstore.NewPool(ctx, dsn, discardLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func seedGenre(t *testing.T, pool *pgxpool.Pool, name string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO club.genre (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedAuthor(t *testing.T, pool *pgxpool.Pool, name string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO club.author (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedMember(t *testing.T, pool *pgxpool.Pool, name, email string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO club.member (name, email) VALUES ($1, $2) RETURNING id`, name, email).Scan(&id)
	require.NoError(t, err)
	return id
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

/*
TestPostgresRepository_List exercises the search filter against a real
database: case-insensitive title matching, matching through linked author
names, and composition with the genre filter.
*/
func TestPostgresRepository_List(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	pool := setupPool(t)
	repo := book.NewPostgresRepository(pool)

	fiction := seedGenre(t, pool, "Fiction")
	essays := seedGenre(t, pool, "Essays")
	kafka := seedAuthor(t, pool, "Franz Kafka")
	thoreau := seedAuthor(t, pool, "Henry Thoreau")

	trial := &book.Book{Title: "The Trial", Slug: "the-trial", GenreID: fiction,
		IsAvailable: true, AuthorIDs: []int{kafka}}
	metamorphosis := &book.Book{Title: "The Metamorphosis", Slug: "the-metamorphosis",
		GenreID: fiction, IsAvailable: true, AuthorIDs: []int{kafka}}
	walden := &book.Book{Title: "Walden", Slug: "walden", GenreID: essays,
		IsAvailable: true, AuthorIDs: []int{thoreau}}
	for _, b := range []*book.Book{trial, metamorphosis, walden} {
		require.NoError(t, repo.Create(ctx, b))
	}

	t.Run("no_filter_hydrates_ascending", func(t *testing.T) {
		books, err := repo.List(ctx, book.Filter{})
		require.NoError(t, err)
		require.Len(t, books, 3)

		assert.Equal(t, trial.ID, books[0].ID)
		assert.Equal(t, walden.ID, books[2].ID)
		require.Len(t, books[0].Authors, 1)
		assert.Equal(t, "Franz Kafka", books[0].Authors[0].Name)
		require.NotNil(t, books[2].Genre)
		assert.Equal(t, "Essays", books[2].Genre.Name)
	})

	t.Run("title_match_case_insensitive", func(t *testing.T) {
		books, err := repo.List(ctx, book.Filter{Query: "waldEN"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Walden", books[0].Title)
	})

	t.Run("author_name_match", func(t *testing.T) {
		books, err := repo.List(ctx, book.Filter{Query: "kafka"})
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, trial.ID, books[0].ID)
		assert.Equal(t, metamorphosis.ID, books[1].ID)
	})

	t.Run("search_composes_with_genre", func(t *testing.T) {
		books, err := repo.List(ctx, book.Filter{Query: "kafka", GenreID: essays})
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

/*
TestPostgresRepository_Delete verifies the transactional child-first
delete: author links, reviews, and meeting links go with the book while
the referenced authors, members, and meetings survive.
*/
func TestPostgresRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	pool := setupPool(t)
	repo := book.NewPostgresRepository(pool)

	genreID := seedGenre(t, pool, "Fiction")
	authorID := seedAuthor(t, pool, "Franz Kafka")
	memberID := seedMember(t, pool, "Ann", "ann@example.com")

	var meetingID int
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO club.meeting (date) VALUES (now()) RETURNING id`).Scan(&meetingID))

	b := &book.Book{Title: "The Castle", Slug: "the-castle", GenreID: genreID,
		IsAvailable: true, AuthorIDs: []int{authorID}}
	require.NoError(t, repo.Create(ctx, b))

	_, err := pool.Exec(ctx,
		`INSERT INTO club.bookmeeting (bookid, meetingid) VALUES ($1, $2)`, b.ID, meetingID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		`INSERT INTO club.review (rating, bookid, memberid) VALUES (4, $1, $2)`, b.ID, memberID)
	require.NoError(t, err)

	// The trigger keeps the counter; the store only reads it.
	found, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.ReviewCount)

	require.NoError(t, repo.Delete(ctx, b.ID))

	_, err = repo.FindByID(ctx, b.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM club.review WHERE bookid = $1`, b.ID))
	assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM club.bookauthor WHERE bookid = $1`, b.ID))
	assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM club.bookmeeting WHERE bookid = $1`, b.ID))

	// Referenced rows are untouched.
	assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM club.author WHERE id = $1`, authorID))
	assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM club.member WHERE id = $1`, memberID))
	assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM club.meeting WHERE id = $1`, meetingID))

	t.Run("missing_book", func(t *testing.T) {
		err := repo.Delete(ctx, 9999)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}
