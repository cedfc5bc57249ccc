package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/logger"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/validation"
)

// Bounds for the selection-widget lookup
const (
	defaultStudentSearchLimit = 10
	maxStudentSearchLimit     = 50
)

// DirectoryStore is the full account persistence surface behind the
// directory management endpoints.
type DirectoryStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) (models.Role, error)
	List(ctx context.Context, params repositories.ListUsersParams) ([]repositories.UserRow, int64, error)
	SearchStudents(ctx context.Context, search string, limit int) ([]models.User, error)
	ListAdvisers(ctx context.Context) ([]models.User, error)
}

// UserService handles directory account management
type UserService struct {
	store DirectoryStore
	now   func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(store DirectoryStore) *UserService {
	return &UserService{store: store, now: time.Now}
}

func validateName(name string) error {
	ok := validation.NewStringValidation(name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate()
	if !ok {
		return apperrors.NewValidationError("names must be between 1 and 100 characters")
	}
	return nil
}

// List retrieves a page of the directory. Page and page size are
// clamped to their valid ranges before hitting the store.
func (s *UserService) List(ctx context.Context, params repositories.ListUsersParams) ([]repositories.UserRow, int64, error) {
	params.Page = helpers.ClampPage(params.Page)
	params.PageSize = helpers.ClampPageSize(params.PageSize)
	params.Search = strings.TrimSpace(params.Search)

	rows, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing accounts: %w", err)
	}
	return rows, total, nil
}

// GetByID retrieves one directory account
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("account id is required")
	}
	return s.store.GetByID(ctx, id)
}

// Create provisions an account administratively. The email counts as
// verified because an administrator vouched for it, and a placeholder
// avatar is assigned when none is given.
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.CompiledPatterns.Email.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email format")
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if err := validateName(firstName); err != nil {
		return nil, err
	}
	if err := validateName(lastName); err != nil {
		return nil, err
	}

	image := req.Image
	if image == "" {
		image = placeholderImage(firstName, lastName)
	}
	verifiedAt := s.now()

	user := &models.User{
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		Role:            req.Role,
		Image:           &image,
		EmailVerifiedAt: &verifiedAt,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("userId", user.ID).Str("role", string(user.Role)).Msg("Account created")

	return user, nil
}

// Update rewrites the profile fields of an account. Blank optional
// fields clear the stored value. The role is not touched here.
func (s *UserService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	studentID := helpers.TrimToNil(req.StudentID)
	if studentID != nil && !validation.CompiledPatterns.StudentID.MatchString(*studentID) {
		return nil, apperrors.NewValidationError("student number must match YYYY-NNNNN")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.CompiledPatterns.Email.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email format")
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if err := validateName(firstName); err != nil {
		return nil, err
	}
	if err := validateName(lastName); err != nil {
		return nil, err
	}

	user.StudentID = studentID
	user.StaffID = helpers.TrimToNil(req.StaffID)
	user.FirstName = firstName
	user.MiddleName = helpers.TrimToNil(req.MiddleName)
	user.LastName = lastName
	user.Email = email
	user.PhoneNumber = helpers.TrimToNil(req.PhoneNumber)

	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes an account from the directory
func (s *UserService) Delete(ctx context.Context, id string) error {
	role, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}

	logger.Info().Str("userId", id).Str("role", string(role)).Msg("Account deleted")

	return nil
}

// SearchStudents looks up STUDENT accounts for selection widgets. The
// limit defaults to a small page and is capped.
func (s *UserService) SearchStudents(ctx context.Context, search string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultStudentSearchLimit
	}
	if limit > maxStudentSearchLimit {
		limit = maxStudentSearchLimit
	}
	return s.store.SearchStudents(ctx, strings.TrimSpace(search), limit)
}

// ListAdvisers returns the FACULTY and STAFF accounts eligible to
// serve as adviser or committee member.
func (s *UserService) ListAdvisers(ctx context.Context) ([]models.User, error) {
	return s.store.ListAdvisers(ctx)
}
