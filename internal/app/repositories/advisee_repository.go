package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/db"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
)

// Partial unique index names from the migrations. A 23505 on one of
// these means a concurrent writer won the race after our checks passed.
const (
	activeStudentIndex  = "uniq_advisees_active_student"
	pendingStudentIndex = "uniq_advisees_pending_student"
)

// Foreign keys from the migrations. A 23503 means the request named an
// account that does not exist.
const (
	adviserFKConstraint = "advisees_adviser_id_fkey"
	memberFKConstraint  = "advisee_members_member_id_fkey"
)

// ListAdviseesParams describes one advisee listing query
type ListAdviseesParams struct {
	Page      int
	PageSize  int
	Search    string
	Status    *models.AdviseeStatus
	AdviserID string
	StudentID string
}

// AdviseeRepository handles database operations for advisee records
type AdviseeRepository struct {
	db *pgxpool.Pool
}

// NewAdviseeRepository creates a new AdviseeRepository
func NewAdviseeRepository(db *pgxpool.Pool) *AdviseeRepository {
	return &AdviseeRepository{db: db}
}

// mapAdviseeConstraint translates constraint violations to their domain
// errors: unique-index hits on the one-active / one-pending invariants,
// and foreign-key hits on the referenced accounts.
func mapAdviseeConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		switch pgErr.ConstraintName {
		case activeStudentIndex:
			return apperrors.ErrActiveAdviserExists
		case pendingStudentIndex:
			return apperrors.ErrPendingAdviserExists
		}
	case "23503":
		switch pgErr.ConstraintName {
		case adviserFKConstraint:
			return apperrors.NewNotFoundError("adviser account not found")
		case memberFKConstraint:
			return apperrors.NewNotFoundError("committee member account not found")
		}
	}
	return err
}

// checkStudentAvailable verifies inside the transaction that the target
// is a STUDENT with neither an ACTIVE nor a PENDING record. excludeID
// skips the record being updated.
func checkStudentAvailable(ctx context.Context, tx pgx.Tx, studentID, excludeID string) error {
	var role models.Role
	err := tx.QueryRow(ctx,
		`SELECT role FROM users WHERE id = $1`, studentID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotAStudent
		}
		return fmt.Errorf("error checking student role: %w", err)
	}
	if role != models.RoleStudent {
		return apperrors.ErrNotAStudent
	}

	for _, check := range []struct {
		status models.AdviseeStatus
		domain error
	}{
		{models.AdviseeActive, apperrors.ErrActiveAdviserExists},
		{models.AdviseePending, apperrors.ErrPendingAdviserExists},
	} {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM advisees
				WHERE student_id = $1 AND status = $2 AND id <> $3
			)`, studentID, check.status, excludeID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking existing records: %w", err)
		}
		if exists {
			return check.domain
		}
	}

	return nil
}

func replaceMembers(ctx context.Context, tx pgx.Tx, adviseeID string, memberIDs []string) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM advisee_members WHERE advisee_id = $1`, adviseeID); err != nil {
		return fmt.Errorf("error clearing members: %w", err)
	}
	for _, memberID := range memberIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO advisee_members (id, advisee_id, member_id)
			VALUES ($1, $2, $3)`,
			uuid.New().String(), adviseeID, memberID)
		if err != nil {
			if mapped := mapAdviseeConstraint(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("error adding member: %w", err)
		}
	}
	return nil
}

// CreateWithMembers inserts a new advisee record and its committee
// members in one transaction. The target must be a STUDENT with no
// ACTIVE or PENDING record; the checks run in that order so callers
// see a stable error for each case.
func (r *AdviseeRepository) CreateWithMembers(ctx context.Context, advisee *models.Advisee, memberIDs []string) error {
	if advisee.ID == "" {
		advisee.ID = uuid.New().String()
	}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := checkStudentAvailable(ctx, tx, advisee.StudentID, advisee.ID); err != nil {
			return err
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO advisees (id, adviser_id, student_id, status)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at`,
			advisee.ID, advisee.AdviserID, advisee.StudentID, advisee.Status).
			Scan(&advisee.CreatedAt, &advisee.UpdatedAt)
		if err != nil {
			return mapAdviseeConstraint(err)
		}

		return replaceMembers(ctx, tx, advisee.ID, memberIDs)
	})
	if err != nil {
		return err
	}

	return nil
}

// UpdateWithMembers rewrites the adviser, student, status and the full
// member list of an existing record in one transaction. The one-active
// and one-pending invariants are re-validated against the new student,
// excluding the record being updated.
func (r *AdviseeRepository) UpdateWithMembers(ctx context.Context, advisee *models.Advisee, memberIDs []string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := checkStudentAvailable(ctx, tx, advisee.StudentID, advisee.ID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE advisees
			SET adviser_id = $2, student_id = $3, status = $4, updated_at = NOW()
			WHERE id = $1`,
			advisee.ID, advisee.AdviserID, advisee.StudentID, advisee.Status)
		if err != nil {
			return mapAdviseeConstraint(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAdviseeNotFound
		}

		return replaceMembers(ctx, tx, advisee.ID, memberIDs)
	})
}

// TransitionStatus moves a record from one status to another as a
// single guarded update. Accepting a request is PENDING to ACTIVE; a
// record no longer in the expected status fails the guard.
func (r *AdviseeRepository) TransitionStatus(ctx context.Context, id string, from, to models.AdviseeStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE advisees
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return mapAdviseeConstraint(fmt.Errorf("error updating status: %w", err))
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrAdviseeNotFound
		}
		return apperrors.ErrAdviseeNotPending
	}
	return nil
}

// UpdateStatus sets the status without guarding on the current value.
// The partial unique indexes still reject a move into ACTIVE or PENDING
// that would give the student a second such record.
func (r *AdviseeRepository) UpdateStatus(ctx context.Context, id string, to models.AdviseeStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE advisees
		SET status = $2, updated_at = NOW()
		WHERE id = $1`,
		id, to)
	if err != nil {
		return mapAdviseeConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdviseeNotFound
	}
	return nil
}

func (r *AdviseeRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM advisees WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking advisee: %w", err)
	}
	return exists, nil
}

// Delete removes an advisee record. Its member rows go with it via
// the ON DELETE CASCADE on advisee_members.
func (r *AdviseeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM advisees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting advisee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdviseeNotFound
	}
	return nil
}

const adviseeSelect = `
	SELECT a.id, a.adviser_id, a.student_id, a.status, a.created_at, a.updated_at,
	       adv.id, adv.student_id, adv.first_name, adv.middle_name, adv.last_name, adv.email, adv.phone_number,
	       stu.id, stu.student_id, stu.first_name, stu.middle_name, stu.last_name, stu.email, stu.phone_number
	FROM advisees a
	JOIN users adv ON adv.id = a.adviser_id
	JOIN users stu ON stu.id = a.student_id`

func scanAdvisee(row pgx.Row) (*models.Advisee, error) {
	advisee := &models.Advisee{
		Adviser: &models.UserSummary{},
		Student: &models.UserSummary{},
	}
	err := row.Scan(
		&advisee.ID, &advisee.AdviserID, &advisee.StudentID, &advisee.Status,
		&advisee.CreatedAt, &advisee.UpdatedAt,
		&advisee.Adviser.ID, &advisee.Adviser.StudentID, &advisee.Adviser.FirstName,
		&advisee.Adviser.MiddleName, &advisee.Adviser.LastName, &advisee.Adviser.Email,
		&advisee.Adviser.PhoneNumber,
		&advisee.Student.ID, &advisee.Student.StudentID, &advisee.Student.FirstName,
		&advisee.Student.MiddleName, &advisee.Student.LastName, &advisee.Student.Email,
		&advisee.Student.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return advisee, nil
}

// GetByID retrieves one advisee record with its adviser, student and
// committee members populated.
func (r *AdviseeRepository) GetByID(ctx context.Context, id string) (*models.Advisee, error) {
	advisee, err := scanAdvisee(r.db.QueryRow(ctx, adviseeSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdviseeNotFound
		}
		return nil, fmt.Errorf("error retrieving advisee: %w", err)
	}

	members, err := r.loadMembers(ctx, []string{advisee.ID})
	if err != nil {
		return nil, err
	}
	advisee.Members = members[advisee.ID]

	return advisee, nil
}

// List retrieves a page of advisee records with relations populated.
// Search matches the student's name and student number.
func (r *AdviseeRepository) List(ctx context.Context, params ListAdviseesParams) ([]models.Advisee, int64, error) {
	query := squirrel.Select(
		"a.id", "a.adviser_id", "a.student_id", "a.status", "a.created_at", "a.updated_at",
		"adv.id", "adv.student_id", "adv.first_name", "adv.middle_name", "adv.last_name", "adv.email", "adv.phone_number",
		"stu.id", "stu.student_id", "stu.first_name", "stu.middle_name", "stu.last_name", "stu.email", "stu.phone_number",
		"COUNT(*) OVER() AS total",
	).From("advisees a").
		Join("users adv ON adv.id = a.adviser_id").
		Join("users stu ON stu.id = a.student_id").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"stu.student_id": pattern},
			squirrel.ILike{"stu.first_name": pattern},
			squirrel.ILike{"stu.last_name": pattern},
			squirrel.ILike{"adv.first_name": pattern},
			squirrel.ILike{"adv.last_name": pattern},
		})
	}
	if params.Status != nil {
		query = query.Where(squirrel.Eq{"a.status": *params.Status})
	}
	if params.AdviserID != "" {
		query = query.Where(squirrel.Eq{"a.adviser_id": params.AdviserID})
	}
	if params.StudentID != "" {
		query = query.Where(squirrel.Eq{"a.student_id": params.StudentID})
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.PageSize)
	query = query.OrderBy("a.created_at DESC").
		Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var advisees []models.Advisee
	var ids []string
	var total int64
	for rows.Next() {
		advisee := models.Advisee{
			Adviser: &models.UserSummary{},
			Student: &models.UserSummary{},
		}
		err := rows.Scan(
			&advisee.ID, &advisee.AdviserID, &advisee.StudentID, &advisee.Status,
			&advisee.CreatedAt, &advisee.UpdatedAt,
			&advisee.Adviser.ID, &advisee.Adviser.StudentID, &advisee.Adviser.FirstName,
			&advisee.Adviser.MiddleName, &advisee.Adviser.LastName, &advisee.Adviser.Email,
			&advisee.Adviser.PhoneNumber,
			&advisee.Student.ID, &advisee.Student.StudentID, &advisee.Student.FirstName,
			&advisee.Student.MiddleName, &advisee.Student.LastName, &advisee.Student.Email,
			&advisee.Student.PhoneNumber,
			&total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		advisees = append(advisees, advisee)
		ids = append(ids, advisee.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error reading rows: %w", err)
	}

	members, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range advisees {
		advisees[i].Members = members[advisees[i].ID]
	}

	return advisees, total, nil
}

// loadMembers batch-fetches committee member rows for a set of records
func (r *AdviseeRepository) loadMembers(ctx context.Context, adviseeIDs []string) (map[string][]models.AdviseeMember, error) {
	result := make(map[string][]models.AdviseeMember)
	if len(adviseeIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.advisee_id, m.member_id,
		       u.id, u.student_id, u.first_name, u.middle_name, u.last_name, u.email, u.phone_number
		FROM advisee_members m
		JOIN users u ON u.id = m.member_id
		WHERE m.advisee_id = ANY($1)
		ORDER BY u.last_name ASC`, adviseeIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		member := models.AdviseeMember{Member: &models.UserSummary{}}
		err := rows.Scan(
			&member.ID, &member.AdviseeID, &member.MemberID,
			&member.Member.ID, &member.Member.StudentID, &member.Member.FirstName,
			&member.Member.MiddleName, &member.Member.LastName, &member.Member.Email,
			&member.Member.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("error scanning member: %w", err)
		}
		result[member.AdviseeID] = append(result[member.AdviseeID], member)
	}

	return result, rows.Err()
}
