package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
)

// AccountRepository handles database operations for provider account links
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Link records a provider account for a user. Linking the same
// provider account to the same user twice is a no-op.
func (r *AccountRepository) Link(ctx context.Context, link *models.AccountLink) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO account_links (id, user_id, provider, provider_account_id, access_token, id_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, provider_account_id) DO UPDATE
		SET access_token = EXCLUDED.access_token, id_token = EXCLUDED.id_token`,
		link.ID, link.UserID, link.Provider, link.ProviderAccountID,
		link.AccessToken, link.IDToken)
	if err != nil {
		return fmt.Errorf("error linking account: %w", err)
	}

	return nil
}

// GetByProviderAccount looks up an existing link for a provider account
func (r *AccountRepository) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*models.AccountLink, error) {
	link := &models.AccountLink{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, provider, provider_account_id, access_token, id_token, created_at
		FROM account_links
		WHERE provider = $1 AND provider_account_id = $2`,
		provider, providerAccountID).Scan(
		&link.ID, &link.UserID, &link.Provider, &link.ProviderAccountID,
		&link.AccessToken, &link.IDToken, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving account link: %w", err)
	}
	return link, nil
}
