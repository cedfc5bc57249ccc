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
	"github.com/mbdelmundo/thesisdesk/internal/pkg/logger"
)

// AdviseeStore is the advisee persistence surface
type AdviseeStore interface {
	CreateWithMembers(ctx context.Context, advisee *models.Advisee, memberIDs []string) error
	GetByID(ctx context.Context, id string) (*models.Advisee, error)
	UpdateWithMembers(ctx context.Context, advisee *models.Advisee, memberIDs []string) error
	TransitionStatus(ctx context.Context, id string, from, to models.AdviseeStatus) error
	UpdateStatus(ctx context.Context, id string, to models.AdviseeStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params repositories.ListAdviseesParams) ([]models.Advisee, int64, error)
}

// AdviseeService handles the adviser assignment workflow
type AdviseeService struct {
	store AdviseeStore
}

// NewAdviseeService creates a new AdviseeService
func NewAdviseeService(store AdviseeStore) *AdviseeService {
	return &AdviseeService{store: store}
}

// dedupeMemberIDs drops repeated committee member ids, keeping order
func dedupeMemberIDs(memberIDs []string) []string {
	seen := make(map[string]struct{}, len(memberIDs))
	result := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// Create opens a new PENDING adviser request for a student. The student
// must hold the STUDENT role and have no ACTIVE record and no other
// PENDING request.
func (s *AdviseeService) Create(ctx context.Context, req *dto.CreateAdviseeRequest) (*models.Advisee, error) {
	if req.AdviserID == req.StudentID {
		return nil, apperrors.NewValidationError("adviser and student must differ")
	}

	advisee := &models.Advisee{
		AdviserID: req.AdviserID,
		StudentID: req.StudentID,
		Status:    models.AdviseePending,
	}
	if err := s.store.CreateWithMembers(ctx, advisee, dedupeMemberIDs(req.MemberIDs)); err != nil {
		return nil, err
	}

	logger.Info().
		Str("adviseeId", advisee.ID).
		Str("adviserId", advisee.AdviserID).
		Str("studentId", advisee.StudentID).
		Msg("Adviser request opened")

	return s.store.GetByID(ctx, advisee.ID)
}

// GetByID retrieves one advisee record with relations populated
func (s *AdviseeService) GetByID(ctx context.Context, id string) (*models.Advisee, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("advisee id is required")
	}
	return s.store.GetByID(ctx, id)
}

// Update rewrites the adviser, student, status and the entire committee
// membership set of a record. The one-active and one-pending rules are
// re-checked against the new student.
func (s *AdviseeService) Update(ctx context.Context, id string, req *dto.UpdateAdviseeRequest) (*models.Advisee, error) {
	if !req.Status.Valid() {
		return nil, apperrors.ErrInvalidAdviseeStatus
	}
	if req.AdviserID == req.StudentID {
		return nil, apperrors.NewValidationError("adviser and student must differ")
	}

	advisee := &models.Advisee{
		ID:        id,
		AdviserID: req.AdviserID,
		StudentID: req.StudentID,
		Status:    req.Status,
	}
	if err := s.store.UpdateWithMembers(ctx, advisee, dedupeMemberIDs(req.MemberIDs)); err != nil {
		return nil, err
	}

	return s.store.GetByID(ctx, id)
}

// SetStatus changes only the relationship status. Moving to ACTIVE is
// the accept operation and requires the record to still be PENDING;
// other targets are applied directly, with the store rejecting any move
// that would give the student a duplicate ACTIVE or PENDING record.
func (s *AdviseeService) SetStatus(ctx context.Context, id string, status models.AdviseeStatus) (*models.Advisee, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidAdviseeStatus
	}

	var err error
	if status == models.AdviseeActive {
		err = s.store.TransitionStatus(ctx, id, models.AdviseePending, models.AdviseeActive)
	} else {
		err = s.store.UpdateStatus(ctx, id, status)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().Str("adviseeId", id).Str("status", string(status)).Msg("Advisee status changed")

	return s.store.GetByID(ctx, id)
}

// Delete removes an advisee record and its committee memberships
func (s *AdviseeService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Str("adviseeId", id).Msg("Advisee record deleted")
	return nil
}

// List retrieves a page of advisee records. Page and page size are
// clamped before hitting the store.
func (s *AdviseeService) List(ctx context.Context, params repositories.ListAdviseesParams) ([]models.Advisee, int64, error) {
	params.Page = helpers.ClampPage(params.Page)
	params.PageSize = helpers.ClampPageSize(params.PageSize)
	params.Search = strings.TrimSpace(params.Search)

	advisees, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing advisees: %w", err)
	}
	return advisees, total, nil
}
