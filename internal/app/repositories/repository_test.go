package repositories

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mbdelmundo/thesisdesk/internal/app/migrations"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
)

// setupTestDB starts a throwaway PostgreSQL container, applies the
// migrations and returns a connected pool. Skipped unless
// TEST_INTEGRATION is set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("thesisdesk_test"),
		postgres.WithUsername("thesisdesk"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://thesisdesk:test-password@%s:%s/thesisdesk_test?sslmode=disable",
		host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.NewMigrator(pool).MigrateFromDirectory("../../../migrations"); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return pool
}

// createTestUser inserts a directory account to hang records off of
func createTestUser(t *testing.T, pool *pgxpool.Pool, role models.Role, email string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName: "Test",
		LastName:  "Account",
		Email:     email,
		Role:      role,
	}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))
	return user
}

func TestCreateAdviseeRejectsUnavailableStudents(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAdviseeRepository(pool)

	adviser := createTestUser(t, pool, models.RoleFaculty, "adviser@univ.edu")
	taken := createTestUser(t, pool, models.RoleStudent, "taken@univ.edu")
	waiting := createTestUser(t, pool, models.RoleStudent, "waiting@univ.edu")

	require.NoError(t, repo.CreateWithMembers(ctx, &models.Advisee{
		AdviserID: adviser.ID,
		StudentID: taken.ID,
		Status:    models.AdviseeActive,
	}, nil))
	require.NoError(t, repo.CreateWithMembers(ctx, &models.Advisee{
		AdviserID: adviser.ID,
		StudentID: waiting.ID,
		Status:    models.AdviseePending,
	}, nil))

	tests := map[string]struct {
		studentID string
		want      error
	}{
		"student with an active adviser": {taken.ID, apperrors.ErrActiveAdviserExists},
		"student with a pending request": {waiting.ID, apperrors.ErrPendingAdviserExists},
		"target is not a student":        {adviser.ID, apperrors.ErrNotAStudent},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := repo.CreateWithMembers(ctx, &models.Advisee{
				AdviserID: adviser.ID,
				StudentID: tc.studentID,
				Status:    models.AdviseePending,
			}, nil)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateAdviseeMapsMissingAccounts(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAdviseeRepository(pool)

	adviser := createTestUser(t, pool, models.RoleFaculty, "adviser@univ.edu")
	student := createTestUser(t, pool, models.RoleStudent, "student@univ.edu")
	ghost := "4c9b01aa-0000-0000-0000-000000000000"

	t.Run("unknown adviser", func(t *testing.T) {
		err := repo.CreateWithMembers(ctx, &models.Advisee{
			AdviserID: ghost,
			StudentID: student.ID,
			Status:    models.AdviseePending,
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("unknown committee member", func(t *testing.T) {
		err := repo.CreateWithMembers(ctx, &models.Advisee{
			AdviserID: adviser.ID,
			StudentID: student.ID,
			Status:    models.AdviseePending,
		}, []string{ghost})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestUpdateStatusMapsConstraintViolations(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAdviseeRepository(pool)

	adviser := createTestUser(t, pool, models.RoleFaculty, "adviser@univ.edu")

	// UpdateStatus does not re-run the availability checks, so a move
	// into ACTIVE or PENDING lands on the partial unique indexes. Each
	// student gets an INACTIVE record first, then a record holding the
	// contested status, then the move that collides.
	t.Run("second active record for a student", func(t *testing.T) {
		student := createTestUser(t, pool, models.RoleStudent, "active.case@univ.edu")

		parked := &models.Advisee{AdviserID: adviser.ID, StudentID: student.ID, Status: models.AdviseeActive}
		require.NoError(t, repo.CreateWithMembers(ctx, parked, nil))
		require.NoError(t, repo.UpdateStatus(ctx, parked.ID, models.AdviseeInactive))

		current := &models.Advisee{AdviserID: adviser.ID, StudentID: student.ID, Status: models.AdviseeActive}
		require.NoError(t, repo.CreateWithMembers(ctx, current, nil))

		err := repo.UpdateStatus(ctx, parked.ID, models.AdviseeActive)
		assert.ErrorIs(t, err, apperrors.ErrActiveAdviserExists)
	})

	t.Run("second pending record for a student", func(t *testing.T) {
		student := createTestUser(t, pool, models.RoleStudent, "pending.case@univ.edu")

		parked := &models.Advisee{AdviserID: adviser.ID, StudentID: student.ID, Status: models.AdviseePending}
		require.NoError(t, repo.CreateWithMembers(ctx, parked, nil))
		require.NoError(t, repo.UpdateStatus(ctx, parked.ID, models.AdviseeInactive))

		current := &models.Advisee{AdviserID: adviser.ID, StudentID: student.ID, Status: models.AdviseePending}
		require.NoError(t, repo.CreateWithMembers(ctx, current, nil))

		err := repo.UpdateStatus(ctx, parked.ID, models.AdviseePending)
		assert.ErrorIs(t, err, apperrors.ErrPendingAdviserExists)
	})
}

func TestTransitionStatusRequiresExpectedStatus(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAdviseeRepository(pool)

	adviser := createTestUser(t, pool, models.RoleFaculty, "adviser@univ.edu")
	student := createTestUser(t, pool, models.RoleStudent, "student@univ.edu")

	record := &models.Advisee{AdviserID: adviser.ID, StudentID: student.ID, Status: models.AdviseePending}
	require.NoError(t, repo.CreateWithMembers(ctx, record, nil))

	require.NoError(t, repo.TransitionStatus(ctx, record.ID, models.AdviseePending, models.AdviseeActive))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdviseeActive, got.Status)

	// Accepting again must fail the guard, not silently re-accept
	err = repo.TransitionStatus(ctx, record.ID, models.AdviseePending, models.AdviseeActive)
	assert.ErrorIs(t, err, apperrors.ErrAdviseeNotPending)

	err = repo.TransitionStatus(ctx, "9f1b2a4c-0000-0000-0000-000000000000", models.AdviseePending, models.AdviseeActive)
	assert.ErrorIs(t, err, apperrors.ErrAdviseeNotFound)
}

func TestDeleteAdviseeRemovesCommitteeMembers(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAdviseeRepository(pool)

	adviser := createTestUser(t, pool, models.RoleFaculty, "adviser@univ.edu")
	student := createTestUser(t, pool, models.RoleStudent, "student@univ.edu")
	memberA := createTestUser(t, pool, models.RoleFaculty, "member.a@univ.edu")
	memberB := createTestUser(t, pool, models.RoleStaff, "member.b@univ.edu")

	record := &models.Advisee{AdviserID: adviser.ID, StudentID: student.ID, Status: models.AdviseePending}
	require.NoError(t, repo.CreateWithMembers(ctx, record, []string{memberA.ID, memberB.ID}))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 2)

	require.NoError(t, repo.Delete(ctx, record.ID))

	var orphans int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM advisee_members WHERE advisee_id = $1`, record.ID).Scan(&orphans)
	require.NoError(t, err)
	assert.Zero(t, orphans, "member rows must go with the record")

	err = repo.Delete(ctx, record.ID)
	assert.ErrorIs(t, err, apperrors.ErrAdviseeNotFound)
}

func TestUserEmailUniquenessSurfacesAsConflict(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	first := createTestUser(t, pool, models.RoleFaculty, "dr.cruz@univ.edu")
	second := createTestUser(t, pool, models.RoleStaff, "registrar@univ.edu")

	t.Run("create with a taken email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{
			FirstName: "Another",
			LastName:  "Account",
			Email:     first.Email,
			Role:      models.RoleStudent,
		})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("update onto a taken email", func(t *testing.T) {
		second.Email = first.Email
		err := repo.Update(ctx, second)
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})
}
