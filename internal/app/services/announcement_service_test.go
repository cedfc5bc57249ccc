package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnnouncementStore struct {
	listFn func(ctx context.Context, params repositories.ListAnnouncementsParams) ([]models.Announcement, int64, error)
	byID   map[string]*models.Announcement
	saved  []*models.Announcement
}

func (f *fakeAnnouncementStore) Create(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = "ann-1"
	copied := *announcement
	f.saved = append(f.saved, &copied)
	return nil
}

func (f *fakeAnnouncementStore) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	announcement, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrAnnouncementNotFound
	}
	copied := *announcement
	return &copied, nil
}

func (f *fakeAnnouncementStore) Update(ctx context.Context, announcement *models.Announcement) error {
	copied := *announcement
	f.saved = append(f.saved, &copied)
	return nil
}

func (f *fakeAnnouncementStore) Delete(ctx context.Context, id string) error {
	return nil
}

func (f *fakeAnnouncementStore) List(ctx context.Context, params repositories.ListAnnouncementsParams) ([]models.Announcement, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, 0, nil
}

func TestCreateAnnouncementStampsAuthor(t *testing.T) {
	store := &fakeAnnouncementStore{}
	svc := NewAnnouncementService(store)

	announcement, err := svc.Create(context.Background(), &dto.AnnouncementRequest{
		Title:   "  Defense schedule posted ",
		Status:  models.AnnouncementVisible,
		Content: "<p>See the registrar board.</p>",
	}, "staff-1")
	require.NoError(t, err)

	assert.Equal(t, "Defense schedule posted", announcement.Title)
	require.NotNil(t, announcement.CreatedBy)
	assert.Equal(t, "staff-1", *announcement.CreatedBy)
	require.NotNil(t, announcement.UpdatedBy)
	assert.Equal(t, "staff-1", *announcement.UpdatedBy)
}

func TestCreateAnnouncementRejectsUnknownStatus(t *testing.T) {
	svc := NewAnnouncementService(&fakeAnnouncementStore{})

	_, err := svc.Create(context.Background(), &dto.AnnouncementRequest{
		Title:  "Notice",
		Status: models.AnnouncementStatus("DRAFT"),
	}, "staff-1")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateAnnouncementRejectsBadTitles(t *testing.T) {
	svc := NewAnnouncementService(&fakeAnnouncementStore{})

	for name, title := range map[string]string{
		"blank":    "   ",
		"too long": strings.Repeat("x", 256),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &dto.AnnouncementRequest{
				Title:  title,
				Status: models.AnnouncementVisible,
			}, "staff-1")
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestUpdateAnnouncementClearsExpiryAndChangesEditor(t *testing.T) {
	author := "staff-1"
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeAnnouncementStore{
		byID: map[string]*models.Announcement{
			"ann-1": {
				ID:        "ann-1",
				Title:     "Old title",
				Status:    models.AnnouncementVisible,
				Expiry:    &expiry,
				CreatedBy: &author,
				UpdatedBy: &author,
			},
		},
	}
	svc := NewAnnouncementService(store)

	updated, err := svc.Update(context.Background(), "ann-1", &dto.AnnouncementRequest{
		Title:  "New title",
		Status: models.AnnouncementHidden,
		// Expiry omitted clears the stored one
	}, "staff-2")
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, models.AnnouncementHidden, updated.Status)
	assert.Nil(t, updated.Expiry)
	assert.Equal(t, "staff-1", *updated.CreatedBy, "author is preserved")
	assert.Equal(t, "staff-2", *updated.UpdatedBy)
}

func TestUpdateAnnouncementUnknownID(t *testing.T) {
	svc := NewAnnouncementService(&fakeAnnouncementStore{})

	_, err := svc.Update(context.Background(), "missing", &dto.AnnouncementRequest{
		Title:  "Notice",
		Status: models.AnnouncementVisible,
	}, "staff-1")
	assert.ErrorIs(t, err, apperrors.ErrAnnouncementNotFound)
}

func TestListAnnouncementsClampsPagination(t *testing.T) {
	var got repositories.ListAnnouncementsParams
	store := &fakeAnnouncementStore{
		listFn: func(ctx context.Context, params repositories.ListAnnouncementsParams) ([]models.Announcement, int64, error) {
			got = params
			return []models.Announcement{}, 0, nil
		},
	}
	svc := NewAnnouncementService(store)

	_, _, err := svc.List(context.Background(), repositories.ListAnnouncementsParams{
		Page:     0,
		PageSize: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 100, got.PageSize)
}
