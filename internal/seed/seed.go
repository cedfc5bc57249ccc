package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	appModels "github.com/mbdelmundo/thesisdesk/internal/app/models"
	appRepos "github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// Default administrator account provisioned on first startup. Sign-in
// still goes through the OAuth provider; this row only grants the role.
const (
	adminEmail     = "registrar@univ.edu"
	adminFirstName = "System"
	adminLastName  = "Administrator"
)

// CreateDefaultData provisions the default admin account if it doesn't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default admin account...")
	var finalErr error

	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin account...")

		verifiedAt := time.Now()
		admin := &appModels.User{
			Email:           adminEmail,
			FirstName:       adminFirstName,
			LastName:        adminLastName,
			Role:            appModels.RoleAdmin,
			Image:           helpers.Ptr("https://api.dicebear.com/7.x/initials/svg?seed=System%20Administrator"),
			EmailVerifiedAt: &verifiedAt,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			lgr.Error().Err(err).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("adminId", admin.ID).Msg("Default admin account created successfully")
		}
	} else {
		lgr.Info().Msg("Admin account already exists, skipping creation")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
