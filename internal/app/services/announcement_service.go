package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/validation"
)

// announcementTitleMaxLength matches the column width in the schema.
const announcementTitleMaxLength = 255

// AnnouncementStore is the announcement persistence surface
type AnnouncementStore interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params repositories.ListAnnouncementsParams) ([]models.Announcement, int64, error)
}

// AnnouncementService handles portal announcements
type AnnouncementService struct {
	store AnnouncementStore
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(store AnnouncementStore) *AnnouncementService {
	return &AnnouncementService{store: store}
}

// Create posts a new announcement. Content passes through as an opaque
// HTML string from the rich-text editor.
func (s *AnnouncementService) Create(ctx context.Context, req *dto.AnnouncementRequest, authorID string) (*models.Announcement, error) {
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid announcement status")
	}

	title := strings.TrimSpace(req.Title)
	if !validation.NewStringValidation(title).WithMaxLength(announcementTitleMaxLength).Validate() {
		return nil, apperrors.NewValidationError("announcement title must be between 1 and 255 characters")
	}

	announcement := &models.Announcement{
		Title:     title,
		Status:    req.Status,
		Expiry:    req.Expiry,
		Content:   req.Content,
		CreatedBy: &authorID,
		UpdatedBy: &authorID,
	}
	if err := s.store.Create(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// GetByID retrieves one announcement
func (s *AnnouncementService) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("announcement id is required")
	}
	return s.store.GetByID(ctx, id)
}

// Update rewrites an announcement. A nil expiry clears the stored one.
func (s *AnnouncementService) Update(ctx context.Context, id string, req *dto.AnnouncementRequest, editorID string) (*models.Announcement, error) {
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid announcement status")
	}

	title := strings.TrimSpace(req.Title)
	if !validation.NewStringValidation(title).WithMaxLength(announcementTitleMaxLength).Validate() {
		return nil, apperrors.NewValidationError("announcement title must be between 1 and 255 characters")
	}

	announcement, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	announcement.Title = title
	announcement.Status = req.Status
	announcement.Expiry = req.Expiry
	announcement.Content = req.Content
	announcement.UpdatedBy = &editorID

	if err := s.store.Update(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// Delete removes an announcement
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// List retrieves a page of announcements. VisibleOnly limits the board
// to VISIBLE notices that have not passed their expiry; the management
// surface passes it as false to see everything.
func (s *AnnouncementService) List(ctx context.Context, params repositories.ListAnnouncementsParams) ([]models.Announcement, int64, error) {
	params.Page = helpers.ClampPage(params.Page)
	params.PageSize = helpers.ClampPageSize(params.PageSize)
	params.Search = strings.TrimSpace(params.Search)

	announcements, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing announcements: %w", err)
	}
	return announcements, total, nil
}
