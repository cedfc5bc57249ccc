package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
)

const userColumns = `id, student_id, staff_id, first_name, middle_name, last_name, email, phone_number, role, image, email_verified_at, created_at, updated_at`

// UserFilters is the closed set of typed predicates accepted by List.
type UserFilters struct {
	Role          *models.Role  // exact match
	Roles         []models.Role // set membership
	StudentIDNull bool          // explicit-null match on student_id
	StaffIDNull   bool          // explicit-null match on staff_id
	CreatedFrom   *time.Time    // createdAt range, inclusive
	CreatedTo     *time.Time
}

// ListUsersParams describes one directory listing query
type ListUsersParams struct {
	Page     int // 1-indexed
	PageSize int
	Search   string
	Filters  UserFilters
	SortBy   string
	SortDir  string
}

// UserRow is one directory listing row. Active reports whether the
// account currently holds an unexpired session.
type UserRow struct {
	models.User
	Active bool
}

// sortableUserColumns whitelists sort keys for the directory listing
var sortableUserColumns = map[string]string{
	"createdAt": "created_at",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"role":      "role",
	"studentId": "student_id",
	"staffId":   "staff_id",
}

// UserRepository handles database operations for directory accounts
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// emailUniqueConstraint is the implicit constraint behind users.email
const emailUniqueConstraint = "users_email_key"

// mapUserConstraint translates a unique violation on the email column
// to its domain error so a duplicate address surfaces as a conflict.
func mapUserConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == emailUniqueConstraint {
		return apperrors.ErrEmailAlreadyExists
	}
	return err
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.StudentID, &user.StaffID, &user.FirstName, &user.MiddleName,
		&user.LastName, &user.Email, &user.PhoneNumber, &user.Role, &user.Image,
		&user.EmailVerifiedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new account. The email must not already exist.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	exists, err := r.EmailExists(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO users (id, student_id, staff_id, first_name, middle_name, last_name, email, phone_number, role, image, email_verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		user.ID, user.StudentID, user.StaffID, user.FirstName, user.MiddleName,
		user.LastName, user.Email, user.PhoneNumber, user.Role, user.Image,
		user.EmailVerifiedAt).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// The pre-check leaves a race window the constraint closes.
		if mapped := mapUserConstraint(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by its unique email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// Update persists all mutable profile columns. Nil pointers overwrite
// the stored value with NULL (clear-on-empty semantics).
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET student_id = $2, staff_id = $3, first_name = $4, middle_name = $5,
		    last_name = $6, email = $7, phone_number = $8, updated_at = NOW()
		WHERE id = $1`,
		user.ID, user.StudentID, user.StaffID, user.FirstName, user.MiddleName,
		user.LastName, user.Email, user.PhoneNumber)
	if err != nil {
		if mapped := mapUserConstraint(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes an account by id and returns its role so the caller
// can record what kind of account was removed.
func (r *UserRepository) Delete(ctx context.Context, id string) (models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(ctx,
		`DELETE FROM users WHERE id = $1 RETURNING role`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("error deleting user: %w", err)
	}
	return role, nil
}

// List retrieves a page of the directory with search, typed filters and
// whitelisted sorting. Returns the rows and the unpaginated total.
func (r *UserRepository) List(ctx context.Context, params ListUsersParams) ([]UserRow, int64, error) {
	query := squirrel.Select(
		"u.id", "u.student_id", "u.staff_id", "u.first_name", "u.middle_name",
		"u.last_name", "u.email", "u.phone_number", "u.role", "u.image",
		"u.email_verified_at", "u.created_at", "u.updated_at",
		"EXISTS(SELECT 1 FROM sessions s WHERE s.user_id = u.id AND s.expires_at > NOW()) AS active",
		"COUNT(*) OVER() AS total",
	).From("users u").PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"u.student_id": pattern},
			squirrel.ILike{"u.staff_id": pattern},
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
			squirrel.ILike{"u.email": pattern},
		})
	}

	f := params.Filters
	if f.Role != nil {
		query = query.Where(squirrel.Eq{"u.role": *f.Role})
	}
	if len(f.Roles) > 0 {
		query = query.Where(squirrel.Eq{"u.role": f.Roles})
	}
	if f.StudentIDNull {
		query = query.Where("u.student_id IS NULL")
	}
	if f.StaffIDNull {
		query = query.Where("u.staff_id IS NULL")
	}
	if f.CreatedFrom != nil {
		query = query.Where(squirrel.GtOrEq{"u.created_at": *f.CreatedFrom})
	}
	if f.CreatedTo != nil {
		query = query.Where(squirrel.LtOrEq{"u.created_at": *f.CreatedTo})
	}

	sortColumn, ok := sortableUserColumns[params.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if params.SortDir == "asc" {
		direction = "ASC"
	}
	query = query.OrderBy("u." + sortColumn + " " + direction)

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.PageSize)
	query = query.Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var items []UserRow
	var total int64
	for rows.Next() {
		var row UserRow
		err := rows.Scan(
			&row.ID, &row.StudentID, &row.StaffID, &row.FirstName, &row.MiddleName,
			&row.LastName, &row.Email, &row.PhoneNumber, &row.Role, &row.Image,
			&row.EmailVerifiedAt, &row.CreatedAt, &row.UpdatedAt,
			&row.Active, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error reading rows: %w", err)
	}

	return items, total, nil
}

// SearchStudents performs a case-insensitive substring match over
// student number and name fields, bounded by limit.
func (r *UserRepository) SearchStudents(ctx context.Context, search string, limit int) ([]models.User, error) {
	query := squirrel.Select(
		"id", "student_id", "staff_id", "first_name", "middle_name", "last_name",
		"email", "phone_number", "role", "image", "email_verified_at", "created_at", "updated_at",
	).From("users").
		Where(squirrel.Eq{"role": models.RoleStudent}).
		OrderBy("last_name ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"student_id": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"middle_name": pattern},
			squirrel.ILike{"last_name": pattern},
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var students []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID, &u.StudentID, &u.StaffID, &u.FirstName, &u.MiddleName, &u.LastName,
			&u.Email, &u.PhoneNumber, &u.Role, &u.Image, &u.EmailVerifiedAt,
			&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		students = append(students, u)
	}

	return students, rows.Err()
}

// ListAdvisers returns FACULTY and STAFF accounts ordered by last name,
// for populating adviser and committee selection widgets.
func (r *UserRepository) ListAdvisers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role IN ($1, $2)
		ORDER BY last_name ASC`,
		models.RoleFaculty, models.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var advisers []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID, &u.StudentID, &u.StaffID, &u.FirstName, &u.MiddleName, &u.LastName,
			&u.Email, &u.PhoneNumber, &u.Role, &u.Image, &u.EmailVerifiedAt,
			&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		advisers = append(advisers, u)
	}

	return advisers, rows.Err()
}

// SetMiddleNameNull forces the middle name column to an explicit NULL.
// Applied right after first-ever account creation from provider claims.
func (r *UserRepository) SetMiddleNameNull(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET middle_name = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error clearing middle name: %w", err)
	}
	return nil
}
