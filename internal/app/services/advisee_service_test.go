package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdviseeStore struct {
	createFn       func(ctx context.Context, advisee *models.Advisee, memberIDs []string) error
	updateFn       func(ctx context.Context, advisee *models.Advisee, memberIDs []string) error
	transitionFn   func(ctx context.Context, id string, from, to models.AdviseeStatus) error
	updateStatusFn func(ctx context.Context, id string, to models.AdviseeStatus) error
	listFn         func(ctx context.Context, params repositories.ListAdviseesParams) ([]models.Advisee, int64, error)
	byID           map[string]*models.Advisee
	deleted        []string
}

func (f *fakeAdviseeStore) CreateWithMembers(ctx context.Context, advisee *models.Advisee, memberIDs []string) error {
	if f.createFn != nil {
		return f.createFn(ctx, advisee, memberIDs)
	}
	advisee.ID = "adv-1"
	if f.byID == nil {
		f.byID = make(map[string]*models.Advisee)
	}
	copied := *advisee
	f.byID[advisee.ID] = &copied
	return nil
}

func (f *fakeAdviseeStore) GetByID(ctx context.Context, id string) (*models.Advisee, error) {
	advisee, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrAdviseeNotFound
	}
	return advisee, nil
}

func (f *fakeAdviseeStore) UpdateWithMembers(ctx context.Context, advisee *models.Advisee, memberIDs []string) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, advisee, memberIDs)
	}
	if f.byID == nil {
		f.byID = make(map[string]*models.Advisee)
	}
	copied := *advisee
	f.byID[advisee.ID] = &copied
	return nil
}

func (f *fakeAdviseeStore) TransitionStatus(ctx context.Context, id string, from, to models.AdviseeStatus) error {
	if f.transitionFn != nil {
		return f.transitionFn(ctx, id, from, to)
	}
	advisee, ok := f.byID[id]
	if !ok {
		return apperrors.ErrAdviseeNotFound
	}
	if advisee.Status != from {
		return apperrors.ErrAdviseeNotPending
	}
	advisee.Status = to
	return nil
}

func (f *fakeAdviseeStore) UpdateStatus(ctx context.Context, id string, to models.AdviseeStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, to)
	}
	advisee, ok := f.byID[id]
	if !ok {
		return apperrors.ErrAdviseeNotFound
	}
	advisee.Status = to
	return nil
}

func (f *fakeAdviseeStore) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdviseeStore) List(ctx context.Context, params repositories.ListAdviseesParams) ([]models.Advisee, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, 0, nil
}

func TestCreateAdviseeRejectsSelfAdvising(t *testing.T) {
	svc := NewAdviseeService(&fakeAdviseeStore{})

	_, err := svc.Create(context.Background(), &dto.CreateAdviseeRequest{
		AdviserID: "same",
		StudentID: "same",
	})

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateAdviseeDefaultsToPendingAndDedupesMembers(t *testing.T) {
	var gotStatus models.AdviseeStatus
	var gotMembers []string
	store := &fakeAdviseeStore{
		createFn: func(ctx context.Context, advisee *models.Advisee, memberIDs []string) error {
			advisee.ID = "adv-1"
			gotStatus = advisee.Status
			gotMembers = memberIDs
			return nil
		},
		byID: map[string]*models.Advisee{
			"adv-1": {ID: "adv-1", Status: models.AdviseePending},
		},
	}
	svc := NewAdviseeService(store)

	_, err := svc.Create(context.Background(), &dto.CreateAdviseeRequest{
		AdviserID: "fac-1",
		StudentID: "stu-1",
		MemberIDs: []string{"m1", " m2 ", "m1", "", "m3"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AdviseePending, gotStatus)
	assert.Equal(t, []string{"m1", "m2", "m3"}, gotMembers)
}

func TestCreateAdviseePassesThroughDomainErrors(t *testing.T) {
	for _, sentinel := range []error{
		apperrors.ErrNotAStudent,
		apperrors.ErrActiveAdviserExists,
		apperrors.ErrPendingAdviserExists,
	} {
		store := &fakeAdviseeStore{
			createFn: func(ctx context.Context, advisee *models.Advisee, memberIDs []string) error {
				return sentinel
			},
		}
		svc := NewAdviseeService(store)

		_, err := svc.Create(context.Background(), &dto.CreateAdviseeRequest{
			AdviserID: "fac-1",
			StudentID: "stu-1",
		})
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestSetStatusActiveUsesGuardedTransition(t *testing.T) {
	var gotFrom, gotTo models.AdviseeStatus
	store := &fakeAdviseeStore{
		transitionFn: func(ctx context.Context, id string, from, to models.AdviseeStatus) error {
			gotFrom, gotTo = from, to
			return nil
		},
		updateStatusFn: func(ctx context.Context, id string, to models.AdviseeStatus) error {
			t.Fatal("accept must not use the unguarded status update")
			return nil
		},
		byID: map[string]*models.Advisee{
			"adv-1": {ID: "adv-1", Status: models.AdviseeActive},
		},
	}
	svc := NewAdviseeService(store)

	advisee, err := svc.SetStatus(context.Background(), "adv-1", models.AdviseeActive)
	require.NoError(t, err)

	assert.Equal(t, models.AdviseePending, gotFrom)
	assert.Equal(t, models.AdviseeActive, gotTo)
	assert.Equal(t, models.AdviseeActive, advisee.Status)
}

func TestSetStatusInactiveUsesPlainUpdate(t *testing.T) {
	store := &fakeAdviseeStore{
		transitionFn: func(ctx context.Context, id string, from, to models.AdviseeStatus) error {
			t.Fatal("non-accept targets must not require a PENDING source")
			return nil
		},
		byID: map[string]*models.Advisee{
			"adv-1": {ID: "adv-1", Status: models.AdviseeActive},
		},
	}
	svc := NewAdviseeService(store)

	advisee, err := svc.SetStatus(context.Background(), "adv-1", models.AdviseeInactive)
	require.NoError(t, err)
	assert.Equal(t, models.AdviseeInactive, advisee.Status)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewAdviseeService(&fakeAdviseeStore{})

	_, err := svc.SetStatus(context.Background(), "adv-1", models.AdviseeStatus("ARCHIVED"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAdviseeStatus)
}

func TestSetStatusActiveOnNonPendingRecord(t *testing.T) {
	store := &fakeAdviseeStore{
		byID: map[string]*models.Advisee{
			"adv-1": {ID: "adv-1", Status: models.AdviseeInactive},
		},
	}
	svc := NewAdviseeService(store)

	_, err := svc.SetStatus(context.Background(), "adv-1", models.AdviseeActive)
	assert.ErrorIs(t, err, apperrors.ErrAdviseeNotPending)
}

func TestUpdateAdviseeValidation(t *testing.T) {
	svc := NewAdviseeService(&fakeAdviseeStore{})

	_, err := svc.Update(context.Background(), "adv-1", &dto.UpdateAdviseeRequest{
		AdviserID: "fac-1",
		StudentID: "stu-1",
		Status:    models.AdviseeStatus("BOGUS"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAdviseeStatus)

	_, err = svc.Update(context.Background(), "adv-1", &dto.UpdateAdviseeRequest{
		AdviserID: "same",
		StudentID: "same",
		Status:    models.AdviseeActive,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListAdviseesClampsPagination(t *testing.T) {
	var got repositories.ListAdviseesParams
	store := &fakeAdviseeStore{
		listFn: func(ctx context.Context, params repositories.ListAdviseesParams) ([]models.Advisee, int64, error) {
			got = params
			return []models.Advisee{}, 0, nil
		},
	}
	svc := NewAdviseeService(store)

	_, _, err := svc.List(context.Background(), repositories.ListAdviseesParams{
		Page:     0,
		PageSize: 9999,
		Search:   "  cruz  ",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 100, got.PageSize)
	assert.Equal(t, "cruz", got.Search)
}

func TestListAdviseesWrapsStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	store := &fakeAdviseeStore{
		listFn: func(ctx context.Context, params repositories.ListAdviseesParams) ([]models.Advisee, int64, error) {
			return nil, 0, storeErr
		},
	}
	svc := NewAdviseeService(store)

	_, _, err := svc.List(context.Background(), repositories.ListAdviseesParams{})
	assert.ErrorIs(t, err, storeErr)
}

func TestDedupeMemberIDs(t *testing.T) {
	assert.Empty(t, dedupeMemberIDs(nil))
	assert.Empty(t, dedupeMemberIDs([]string{"", "  "}))
	assert.Equal(t, []string{"a", "b"}, dedupeMemberIDs([]string{"a", "b", "a", "b"}))
}
