package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
)

const announcementColumns = `id, title, status, expiry, content, created_by, updated_by, created_at, updated_at`

// ListAnnouncementsParams describes one announcement listing query
type ListAnnouncementsParams struct {
	Page        int
	PageSize    int
	Search      string
	Status      *models.AnnouncementStatus
	VisibleOnly bool // VISIBLE and not past expiry
}

// AnnouncementRepository handles database operations for announcements
type AnnouncementRepository struct {
	db *pgxpool.Pool
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Status, &a.Expiry, &a.Content,
		&a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.New().String()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO announcements (id, title, status, expiry, content, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING created_at, updated_at`,
		announcement.ID, announcement.Title, announcement.Status,
		announcement.Expiry, announcement.Content, announcement.CreatedBy).
		Scan(&announcement.CreatedAt, &announcement.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating announcement: %w", err)
	}

	return nil
}

// GetByID retrieves an announcement by ID
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	a, err := scanAnnouncement(r.db.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("error retrieving announcement: %w", err)
	}
	return a, nil
}

// Update persists title, status, expiry and content. A nil expiry
// clears the stored value.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE announcements
		SET title = $2, status = $3, expiry = $4, content = $5, updated_by = $6, updated_at = NOW()
		WHERE id = $1`,
		announcement.ID, announcement.Title, announcement.Status,
		announcement.Expiry, announcement.Content, announcement.UpdatedBy)
	if err != nil {
		return fmt.Errorf("error updating announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}

// Delete removes an announcement by ID
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}

// List retrieves a page of announcements, newest first
func (r *AnnouncementRepository) List(ctx context.Context, params ListAnnouncementsParams) ([]models.Announcement, int64, error) {
	query := squirrel.Select(
		"id", "title", "status", "expiry", "content",
		"created_by", "updated_by", "created_at", "updated_at",
		"COUNT(*) OVER() AS total",
	).From("announcements").PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		query = query.Where(squirrel.ILike{"title": "%" + params.Search + "%"})
	}
	if params.Status != nil {
		query = query.Where(squirrel.Eq{"status": *params.Status})
	}
	if params.VisibleOnly {
		query = query.Where(squirrel.Eq{"status": models.AnnouncementVisible})
		query = query.Where("(expiry IS NULL OR expiry > NOW())")
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.PageSize)
	query = query.OrderBy("created_at DESC").
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

	var announcements []models.Announcement
	var total int64
	for rows.Next() {
		var a models.Announcement
		err := rows.Scan(
			&a.ID, &a.Title, &a.Status, &a.Expiry, &a.Content,
			&a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
			&total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		announcements = append(announcements, a)
	}

	return announcements, total, rows.Err()
}
