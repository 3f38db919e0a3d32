package dashboard_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pagebound/bookclub/internal/club/dashboard"
	"github.com/pagebound/bookclub/internal/platform/migration"
	pgstore "github.com/pagebound/bookclub/internal/platform/postgres"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

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

func seedMember(t *testing.T, pool *pgxpool.Pool, name, email string, active bool) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO club.member (name, email, isactive) VALUES ($1, $2, $3) RETURNING id`,
		name, email, active).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedReviews(t *testing.T, pool *pgxpool.Pool, bookID, memberID, count int) {
	t.Helper()
	for range count {
		_, err := pool.Exec(context.Background(),
			`INSERT INTO club.review (rating, bookid, memberid) VALUES (4, $1, $2)`,
			bookID, memberID)
		require.NoError(t, err)
	}
}

/*
TestPostgresRepository_MostActiveMembers verifies the activity ranking
against a real database: inactive members never appear no matter how many
reviews they wrote, and active members with zero reviews fill out the
list when fewer than limit members have reviewed.
*/
func TestPostgresRepository_MostActiveMembers(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	pool := setupPool(t)
	repo := dashboard.NewPostgresRepository(pool)

	var genreID, bookID int
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO club.genre (name) VALUES ('Fiction') RETURNING id`).Scan(&genreID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO club.book (title, slug, genreid) VALUES ('Dune', 'dune', $1) RETURNING id`,
		genreID).Scan(&bookID))

	inga := seedMember(t, pool, "Inga", "inga@example.com", false)
	ann := seedMember(t, pool, "Ann", "ann@example.com", true)
	ben := seedMember(t, pool, "Ben", "ben@example.com", true)
	zoe := seedMember(t, pool, "Zoe", "zoe@example.com", true)

	seedReviews(t, pool, bookID, inga, 3) // inactive, must never rank
	seedReviews(t, pool, bookID, ann, 2)
	seedReviews(t, pool, bookID, ben, 1)
	// zoe has no reviews but is active

	t.Run("excludes_inactive_includes_zero_review", func(t *testing.T) {
		members, err := repo.MostActiveMembers(ctx, 5)
		require.NoError(t, err)
		require.Len(t, members, 3)

		assert.Equal(t, dashboard.ActiveMember{ID: ann, Name: "Ann", ReviewCount: 2}, members[0])
		assert.Equal(t, dashboard.ActiveMember{ID: ben, Name: "Ben", ReviewCount: 1}, members[1])
		assert.Equal(t, dashboard.ActiveMember{ID: zoe, Name: "Zoe", ReviewCount: 0}, members[2])
	})

	t.Run("respects_limit", func(t *testing.T) {
		members, err := repo.MostActiveMembers(ctx, 2)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "Ann", members[0].Name)
		assert.Equal(t, "Ben", members[1].Name)
	})
}

/*
TestPostgresRepository_GetTotals verifies only active members count
toward the membership total.
*/
func TestPostgresRepository_GetTotals(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	pool := setupPool(t)
	repo := dashboard.NewPostgresRepository(pool)

	seedMember(t, pool, "Inga", "inga@example.com", false)
	seedMember(t, pool, "Ann", "ann@example.com", true)

	totals, err := repo.GetTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Members)
	assert.Zero(t, totals.Books)
	assert.Zero(t, totals.Meetings)
	assert.Zero(t, totals.Reviews)
}
