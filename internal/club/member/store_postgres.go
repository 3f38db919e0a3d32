package member

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

func (repository *PostgresRepository) ListMembers(context context.Context, f Filter, limit, offset int) ([]*Member, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE 1=1
	`,
		schema.Member.ID, schema.Member.Name, schema.Member.Email, schema.Member.JoinDate,
		schema.Member.Phone, schema.Member.Role, schema.Member.Bio, schema.Member.IsActive,
		schema.Member.Table,
	)

	args := []any{}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		query += fmt.Sprintf(` AND (%s ILIKE $%d OR %s ILIKE $%d)`,
			schema.Member.Name, len(args)+1, schema.Member.Email, len(args)+1)
		args = append(args, searchTerm)
	}

	if f.Role != "" {
		query += fmt.Sprintf(` AND %s = $%d`, schema.Member.Role, len(args)+1)
		args = append(args, f.Role)
	}

	// Most recent joiners first
	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d OFFSET $%d", schema.Member.JoinDate, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_members")
	}
	defer rows.Close()

	var members []*Member
	var total int
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.JoinDate, &m.Phone, &m.Role, &m.Bio, &m.IsActive, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_member")
		}
		members = append(members, m)
	}

	return members, total, nil
}

func (repository *PostgresRepository) GetMember(context context.Context, id int) (*Member, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Member.ID, schema.Member.Name, schema.Member.Email, schema.Member.JoinDate,
		schema.Member.Phone, schema.Member.Role, schema.Member.Bio, schema.Member.IsActive,
		schema.Member.Table, schema.Member.ID,
	)

	m := &Member{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.JoinDate, &m.Phone, &m.Role, &m.Bio, &m.IsActive,
	)

	return m, dberr.Wrap(err, "get_member")
}

func (repository *PostgresRepository) CreateMember(context context.Context, m *Member) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`,
		schema.Member.Table,
		schema.Member.Name, schema.Member.Email, schema.Member.JoinDate,
		schema.Member.Phone, schema.Member.Role, schema.Member.Bio, schema.Member.IsActive,
		schema.Member.ID,
	)

	// A duplicate email violates the unique index and surfaces as Conflict.
	err := repository.db.QueryRow(context, query,
		m.Name, m.Email, m.JoinDate, m.Phone, m.Role, m.Bio, m.IsActive,
	).Scan(&m.ID)

	return dberr.Wrap(err, "create_member")
}

func (repository *PostgresRepository) UpdateMember(context context.Context, m *Member) error {
	// Whole-record overwrite; JoinDate is fixed at creation and never updated.
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Member.Table,
		schema.Member.Name, schema.Member.Email, schema.Member.Phone,
		schema.Member.Role, schema.Member.Bio, schema.Member.IsActive,
		schema.Member.ID, schema.Member.JoinDate,
	)

	err := repository.db.QueryRow(context, query,
		m.ID, m.Name, m.Email, m.Phone, m.Role, m.Bio, m.IsActive,
	).Scan(&m.JoinDate)

	return dberr.Wrap(err, "update_member")
}

// DeleteMember removes a member together with their reviews and meeting
// attendance records. All child rows go first, inside one transaction.
func (repository *PostgresRepository) DeleteMember(context context.Context, id int) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "delete_member_begin")
	}
	defer transaction.Rollback(context)

	reviewQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Review.Table, schema.Review.MemberID,
	)
	if _, err := transaction.Exec(context, reviewQuery, id); err != nil {
		return dberr.Wrap(err, "delete_member_reviews")
	}

	attendanceQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.MemberMeeting.Table, schema.MemberMeeting.MemberID,
	)
	if _, err := transaction.Exec(context, attendanceQuery, id); err != nil {
		return dberr.Wrap(err, "delete_member_attendance")
	}

	memberQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Member.Table, schema.Member.ID)

	cmd, err := transaction.Exec(context, memberQuery, id)
	if err != nil {
		return dberr.Wrap(err, "delete_member")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Member")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "delete_member_commit")
	}
	return nil
}
