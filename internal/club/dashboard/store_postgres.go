package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagebound/bookclub/internal/platform/database/schema"
	"github.com/pagebound/bookclub/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetTotals collects all four counters in a single round-trip.
// Only active members count toward the membership total.
func (repository *PostgresRepository) GetTotals(context context.Context) (Totals, error) {
	query := fmt.Sprintf(`
		SELECT
			(SELECT count(*) FROM %s),
			(SELECT count(*) FROM %s WHERE %s = TRUE),
			(SELECT count(*) FROM %s),
			(SELECT count(*) FROM %s)
	`,
		schema.Book.Table,
		schema.Member.Table, schema.Member.IsActive,
		schema.Meeting.Table,
		schema.Review.Table,
	)

	var totals Totals
	err := repository.db.QueryRow(context, query).Scan(
		&totals.Books, &totals.Members, &totals.Meetings, &totals.Reviews,
	)
	if err != nil {
		return Totals{}, dberr.Wrap(err, "dashboard_totals")
	}

	return totals, nil
}

// MostActiveMembers ranks active members by the number of reviews they
// have written, ties broken by name for a stable display order. The
// review join is outer so active members with no reviews still qualify
// when fewer than limit members have reviewed; inactive members never
// appear regardless of their review count.
func (repository *PostgresRepository) MostActiveMembers(context context.Context, limit int) ([]ActiveMember, error) {
	query := fmt.Sprintf(`
		SELECT m.%s, m.%s, count(r.%s) AS review_count
		FROM %s m
		LEFT JOIN %s r ON r.%s = m.%s
		WHERE m.%s = TRUE
		GROUP BY m.%s, m.%s
		ORDER BY review_count DESC, m.%s ASC
		LIMIT $1
	`,
		schema.Member.ID, schema.Member.Name, schema.Review.ID,
		schema.Member.Table,
		schema.Review.Table, schema.Review.MemberID, schema.Member.ID,
		schema.Member.IsActive,
		schema.Member.ID, schema.Member.Name,
		schema.Member.Name,
	)

	rows, err := repository.db.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "dashboard_active_members")
	}
	defer rows.Close()

	var members []ActiveMember
	for rows.Next() {
		var m ActiveMember
		if err := rows.Scan(&m.ID, &m.Name, &m.ReviewCount); err != nil {
			return nil, dberr.Wrap(err, "scan_active_member")
		}
		members = append(members, m)
	}

	return members, nil
}
