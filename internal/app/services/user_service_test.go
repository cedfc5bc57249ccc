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

type fakeDirectoryStore struct {
	createFn  func(ctx context.Context, user *models.User) error
	updateFn  func(ctx context.Context, user *models.User) error
	listFn    func(ctx context.Context, params repositories.ListUsersParams) ([]repositories.UserRow, int64, error)
	byID      map[string]*models.User
	deleted   []string
	searchFor string
	searchLim int
}

func (f *fakeDirectoryStore) Create(ctx context.Context, user *models.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	user.ID = "u-new"
	return nil
}

func (f *fakeDirectoryStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeDirectoryStore) Update(ctx context.Context, user *models.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, user)
	}
	return nil
}

func (f *fakeDirectoryStore) Delete(ctx context.Context, id string) (models.Role, error) {
	user, ok := f.byID[id]
	if !ok {
		return "", apperrors.ErrUserNotFound
	}
	f.deleted = append(f.deleted, id)
	return user.Role, nil
}

func (f *fakeDirectoryStore) List(ctx context.Context, params repositories.ListUsersParams) ([]repositories.UserRow, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, 0, nil
}

func (f *fakeDirectoryStore) SearchStudents(ctx context.Context, search string, limit int) ([]models.User, error) {
	f.searchFor = search
	f.searchLim = limit
	return nil, nil
}

func (f *fakeDirectoryStore) ListAdvisers(ctx context.Context) ([]models.User, error) {
	return []models.User{{ID: "fac-1", Role: models.RoleFaculty}}, nil
}

func TestCreateUserNormalizesAndMarksVerified(t *testing.T) {
	var created *models.User
	store := &fakeDirectoryStore{
		createFn: func(ctx context.Context, user *models.User) error {
			user.ID = "u-new"
			created = user
			return nil
		},
	}
	svc := NewUserService(store)
	frozen := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FirstName: "  Jane ",
		LastName:  " Doe ",
		Email:     " Jane.Doe@Univ.edu ",
		Role:      models.RoleFaculty,
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@univ.edu", created.Email)
	assert.Equal(t, "Jane", created.FirstName)
	require.NotNil(t, created.EmailVerifiedAt)
	assert.Equal(t, frozen, *created.EmailVerifiedAt)
	require.NotNil(t, created.Image)
	assert.Contains(t, *created.Image, "dicebear")
	assert.Equal(t, "u-new", user.ID)
}

func TestCreateUserKeepsExplicitImage(t *testing.T) {
	var created *models.User
	store := &fakeDirectoryStore{
		createFn: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(store)

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@univ.edu",
		Role:      models.RoleStaff,
		Image:     "https://cdn.univ.edu/jane.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.univ.edu/jane.png", *created.Image)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&fakeDirectoryStore{})

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@univ.edu",
		Role:      models.Role("PROVOST"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	svc := NewUserService(&fakeDirectoryStore{})

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "not-an-email",
		Role:      models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateUserRejectsBlankOrOversizedNames(t *testing.T) {
	svc := NewUserService(&fakeDirectoryStore{})

	for name, req := range map[string]*dto.CreateUserRequest{
		"blank first name":  {FirstName: "  ", LastName: "Doe"},
		"oversized surname": {FirstName: "Jane", LastName: strings.Repeat("o", 101)},
	} {
		t.Run(name, func(t *testing.T) {
			req.Email = "jane.doe@univ.edu"
			req.Role = models.RoleStudent
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestCreateUserPassesThroughDuplicateEmail(t *testing.T) {
	store := &fakeDirectoryStore{
		createFn: func(ctx context.Context, user *models.User) error {
			return apperrors.ErrEmailAlreadyExists
		},
	}
	svc := NewUserService(store)

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@univ.edu",
		Role:      models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestUpdateUserBlankOptionalFieldsClear(t *testing.T) {
	middle := "Q"
	phone := "555-0101"
	store := &fakeDirectoryStore{
		byID: map[string]*models.User{
			"u1": {
				ID:          "u1",
				FirstName:   "Jane",
				MiddleName:  &middle,
				LastName:    "Doe",
				Email:       "jane.doe@univ.edu",
				PhoneNumber: &phone,
				Role:        models.RoleStudent,
			},
		},
	}
	svc := NewUserService(store)

	updated, err := svc.Update(context.Background(), "u1", &dto.UpdateUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@univ.edu",
		// MiddleName and PhoneNumber left blank on purpose
	})
	require.NoError(t, err)

	assert.Nil(t, updated.MiddleName)
	assert.Nil(t, updated.PhoneNumber)
	assert.Equal(t, models.RoleStudent, updated.Role, "profile update never touches the role")
}

func TestUpdateUserValidatesStudentNumber(t *testing.T) {
	store := &fakeDirectoryStore{
		byID: map[string]*models.User{
			"u1": {ID: "u1", Role: models.RoleStudent},
		},
	}
	svc := NewUserService(store)

	_, err := svc.Update(context.Background(), "u1", &dto.UpdateUserRequest{
		StudentID: "21-4567",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@univ.edu",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	updated, err := svc.Update(context.Background(), "u1", &dto.UpdateUserRequest{
		StudentID: "2021-04567",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@univ.edu",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.StudentID)
	assert.Equal(t, "2021-04567", *updated.StudentID)
}

func TestUpdateUserUnknownAccount(t *testing.T) {
	svc := NewUserService(&fakeDirectoryStore{})

	_, err := svc.Update(context.Background(), "missing", &dto.UpdateUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@univ.edu",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestListUsersClampsPagination(t *testing.T) {
	var got repositories.ListUsersParams
	store := &fakeDirectoryStore{
		listFn: func(ctx context.Context, params repositories.ListUsersParams) ([]repositories.UserRow, int64, error) {
			got = params
			return []repositories.UserRow{}, 0, nil
		},
	}
	svc := NewUserService(store)

	_, _, err := svc.List(context.Background(), repositories.ListUsersParams{
		Page:     -3,
		PageSize: 0,
		Search:   " doe ",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.PageSize)
	assert.Equal(t, "doe", got.Search)
}

func TestSearchStudentsBoundsTheLookup(t *testing.T) {
	store := &fakeDirectoryStore{}
	svc := NewUserService(store)

	_, err := svc.SearchStudents(context.Background(), "  cruz ", 0)
	require.NoError(t, err)
	assert.Equal(t, "cruz", store.searchFor)
	assert.Equal(t, defaultStudentSearchLimit, store.searchLim)

	_, err = svc.SearchStudents(context.Background(), "cruz", 500)
	require.NoError(t, err)
	assert.Equal(t, maxStudentSearchLimit, store.searchLim)

	_, err = svc.SearchStudents(context.Background(), "cruz", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, store.searchLim)
}

func TestDeleteUserUnknownAccount(t *testing.T) {
	svc := NewUserService(&fakeDirectoryStore{})

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
