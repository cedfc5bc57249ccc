package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
)

// SessionRepository handles database operations for server-side sessions
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session with its sign-in snapshot
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO sessions (token, user_id, email, first_name, middle_name, last_name, role, image, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		session.Token, session.UserID, session.Email, session.FirstName,
		session.MiddleName, session.LastName, session.Role, session.Image,
		session.ExpiresAt).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// GetByToken retrieves a session by its opaque token
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}
	err := r.db.QueryRow(ctx, `
		SELECT token, user_id, email, first_name, middle_name, last_name, role, image, expires_at, created_at
		FROM sessions
		WHERE token = $1`, token).Scan(
		&session.Token, &session.UserID, &session.Email, &session.FirstName,
		&session.MiddleName, &session.LastName, &session.Role, &session.Image,
		&session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return session, nil
}

// Delete removes a session by token. Deleting an absent token is not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry and reports how
// many rows were purged.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error purging sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
