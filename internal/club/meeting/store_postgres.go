/*
Package meeting provides the PostgreSQL implementation for club meetings.

Meetings aggregate two many-to-many associations (books discussed, members
attending). Read paths hydrate both via json_agg sub-queries in a single
round-trip; write paths synchronize the junction tables with a clear-and-insert
strategy inside one transaction.
*/
package meeting

import (
	"context"
	"encoding/json"
	"fmt"

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

// selectQuery builds the hydrating SELECT shared by list and single lookups.
// Books and members arrive as JSON arrays aggregated in sub-queries, avoiding
// N+1 round-trips.
func selectQuery(whereClause string) string {
	return fmt.Sprintf(`
		SELECT
			m.%s, m.%s, m.%s, m.%s,
			COUNT(*) OVER() AS total_count,
			COALESCE((
				SELECT json_agg(json_build_object('id', b.%s, 'title', b.%s) ORDER BY b.%s)
				FROM %s b
				JOIN %s bm ON b.%s = bm.%s
				WHERE bm.%s = m.%s
			), '[]') AS books,
			COALESCE((
				SELECT json_agg(json_build_object('id', mb.%s, 'name', mb.%s) ORDER BY mb.%s)
				FROM %s mb
				JOIN %s mm ON mb.%s = mm.%s
				WHERE mm.%s = m.%s
			), '[]') AS members
		FROM %s m
		%s
	`,
		schema.Meeting.ID, schema.Meeting.Date, schema.Meeting.Location, schema.Meeting.Notes,
		schema.Book.ID, schema.Book.Title, schema.Book.Title,
		schema.Book.Table,
		schema.BookMeeting.Table, schema.Book.ID, schema.BookMeeting.BookID,
		schema.BookMeeting.MeetingID, schema.Meeting.ID,
		schema.Member.ID, schema.Member.Name, schema.Member.Name,
		schema.Member.Table,
		schema.MemberMeeting.Table, schema.Member.ID, schema.MemberMeeting.MemberID,
		schema.MemberMeeting.MeetingID, schema.Meeting.ID,
		schema.Meeting.Table,
		whereClause,
	)
}

func scanMeeting(row pgx.Row) (*Meeting, int, error) {
	m := &Meeting{}
	var total int
	var booksJSON, membersJSON []byte

	if err := row.Scan(&m.ID, &m.Date, &m.Location, &m.Notes, &total, &booksJSON, &membersJSON); err != nil {
		return nil, 0, err
	}

	if err := json.Unmarshal(booksJSON, &m.Books); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to decode meeting books: %w", err)
	}
	if err := json.Unmarshal(membersJSON, &m.Members); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to decode meeting members: %w", err)
	}

	return m, total, nil
}

func (repository *PostgresRepository) ListMeetings(context context.Context, limit, offset int) ([]*Meeting, int, error) {
	// Upcoming and most recent meetings first
	query := selectQuery(fmt.Sprintf("ORDER BY m.%s DESC LIMIT $1 OFFSET $2", schema.Meeting.Date))

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_meetings")
	}
	defer rows.Close()

	var meetings []*Meeting
	var total int
	for rows.Next() {
		m, rowTotal, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_meeting")
		}
		total = rowTotal
		meetings = append(meetings, m)
	}

	return meetings, total, nil
}

func (repository *PostgresRepository) GetMeeting(context context.Context, id int) (*Meeting, error) {
	query := selectQuery(fmt.Sprintf("WHERE m.%s = $1", schema.Meeting.ID))

	m, _, err := scanMeeting(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_meeting")
	}

	return m, nil
}

func (repository *PostgresRepository) CreateMeeting(context context.Context, m *Meeting) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_meeting_begin")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s`,
		schema.Meeting.Table, schema.Meeting.Date, schema.Meeting.Location, schema.Meeting.Notes,
		schema.Meeting.ID,
	)

	if err := transaction.QueryRow(context, query, m.Date, m.Location, m.Notes).Scan(&m.ID); err != nil {
		return dberr.Wrap(err, "create_meeting")
	}

	if len(m.BookIDs) > 0 {
		if err := replaceJunction(context, transaction, schema.BookMeeting.Table, schema.BookMeeting.MeetingID, schema.BookMeeting.BookID, m.ID, m.BookIDs); err != nil {
			return err
		}
	}

	if len(m.MemberIDs) > 0 {
		if err := replaceJunction(context, transaction, schema.MemberMeeting.Table, schema.MemberMeeting.MeetingID, schema.MemberMeeting.MemberID, m.ID, m.MemberIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "create_meeting_commit")
	}
	return nil
}

func (repository *PostgresRepository) UpdateMeeting(context context.Context, m *Meeting) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "update_meeting_begin")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.Meeting.Table, schema.Meeting.Date, schema.Meeting.Location, schema.Meeting.Notes,
		schema.Meeting.ID,
	)

	cmd, err := transaction.Exec(context, query, m.ID, m.Date, m.Location, m.Notes)
	if err != nil {
		return dberr.Wrap(err, "update_meeting")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Meeting")
	}

	// nil means "leave links alone"; an empty slice clears them.
	if m.BookIDs != nil {
		if err := replaceJunction(context, transaction, schema.BookMeeting.Table, schema.BookMeeting.MeetingID, schema.BookMeeting.BookID, m.ID, m.BookIDs); err != nil {
			return err
		}
	}

	if m.MemberIDs != nil {
		if err := replaceJunction(context, transaction, schema.MemberMeeting.Table, schema.MemberMeeting.MeetingID, schema.MemberMeeting.MemberID, m.ID, m.MemberIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "update_meeting_commit")
	}
	return nil
}

// ReplaceAssociations atomically rewrites both junction sets for a meeting.
// The meeting row is locked first so two concurrent replacements serialize
// instead of interleaving their delete and insert phases.
func (repository *PostgresRepository) ReplaceAssociations(context context.Context, meetingID int, a Associations) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "replace_associations_begin")
	}
	defer transaction.Rollback(context)

	lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.Meeting.ID, schema.Meeting.Table, schema.Meeting.ID,
	)

	var lockedID int
	if err := transaction.QueryRow(context, lockQuery, meetingID).Scan(&lockedID); err != nil {
		return dberr.Wrap(err, "replace_associations_lock")
	}

	if err := replaceJunction(context, transaction, schema.BookMeeting.Table, schema.BookMeeting.MeetingID, schema.BookMeeting.BookID, meetingID, a.BookIDs); err != nil {
		return err
	}

	if err := replaceJunction(context, transaction, schema.MemberMeeting.Table, schema.MemberMeeting.MeetingID, schema.MemberMeeting.MemberID, meetingID, a.MemberIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "replace_associations_commit")
	}
	return nil
}

// DeleteMeeting removes a meeting and its junction rows in one transaction,
// children before parent.
func (repository *PostgresRepository) DeleteMeeting(context context.Context, id int) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "delete_meeting_begin")
	}
	defer transaction.Rollback(context)

	bookLinksQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BookMeeting.Table, schema.BookMeeting.MeetingID,
	)
	if _, err := transaction.Exec(context, bookLinksQuery, id); err != nil {
		return dberr.Wrap(err, "delete_meeting_book_links")
	}

	attendanceQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.MemberMeeting.Table, schema.MemberMeeting.MeetingID,
	)
	if _, err := transaction.Exec(context, attendanceQuery, id); err != nil {
		return dberr.Wrap(err, "delete_meeting_attendance")
	}

	meetingQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Meeting.Table, schema.Meeting.ID)

	cmd, err := transaction.Exec(context, meetingQuery, id)
	if err != nil {
		return dberr.Wrap(err, "delete_meeting")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Meeting")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "delete_meeting_commit")
	}
	return nil
}

// replaceJunction synchronizes a many-to-many junction table using a
// clear-and-insert strategy: delete all rows for the parent id, then batch
// insert the new set via pgx.Batch to keep network round-trips flat.
//
// A dangling id in vals violates the junction's foreign key and surfaces
// through dberr as Unprocessable.
func replaceJunction(context context.Context, transaction pgx.Tx, table, idCol, valCol string, id int, vals []int) error {
	delQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, idCol)
	if _, err := transaction.Exec(context, delQuery, id); err != nil {
		return dberr.Wrap(err, "clear_junction")
	}

	if len(vals) == 0 {
		return nil
	}

	insQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)", table, idCol, valCol)
	batch := &pgx.Batch{}
	for _, value := range vals {
		batch.Queue(insQuery, id, value)
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return dberr.Wrap(err, "batch_insert_junction")
	}

	return nil
}
