package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/auth"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/logger"
)

// UserStore is the account persistence surface used by services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetMiddleNameNull(ctx context.Context, id string) error
}

// AccountStore persists provider account links
type AccountStore interface {
	Link(ctx context.Context, link *models.AccountLink) error
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*models.AccountLink, error)
}

// SessionStore persists server-side sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// AssertionVerifier validates signed identity assertions
type AssertionVerifier interface {
	Verify(token string) (*auth.IdentityAssertion, error)
}

// SignInResult carries the freshly issued session and its cookie token
type SignInResult struct {
	Token   string
	Session *models.Session
}

// AuthService handles sign-in, session resolution and sign-out
type AuthService struct {
	userStore    UserStore
	accountStore AccountStore
	sessionStore SessionStore
	verifier     AssertionVerifier
	sessionTTL   time.Duration
	now          func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userStore UserStore, accountStore AccountStore, sessionStore SessionStore, verifier AssertionVerifier, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userStore:    userStore,
		accountStore: accountStore,
		sessionStore: sessionStore,
		verifier:     verifier,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

// placeholderImage builds an initials avatar URI for accounts whose
// provider supplied no picture.
func placeholderImage(firstName, lastName string) string {
	seed := url.QueryEscape(firstName + " " + lastName)
	return "https://api.dicebear.com/7.x/initials/svg?seed=" + seed
}

// SignIn exchanges a verified identity assertion for a server-side
// session. A first-ever sign-in provisions a STUDENT account from the
// provider claims. When the directory already knows the account, the
// stored name and role win over whatever the provider reported.
func (s *AuthService) SignIn(ctx context.Context, req *dto.SignInRequest) (*SignInResult, error) {
	assertion, err := s.verifier.Verify(req.Assertion)
	if err != nil {
		return nil, err
	}
	// Providers report the email with whatever casing the user typed at
	// registration; the directory stores lowercase only.
	assertion.Email = strings.ToLower(strings.TrimSpace(assertion.Email))
	if assertion.Email == "" {
		return nil, apperrors.ErrMissingEmail
	}

	user, err := s.lookupUser(ctx, assertion)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("error looking up account: %w", err)
		}
		user, err = s.provisionUser(ctx, assertion)
		if err != nil {
			return nil, err
		}
	}

	link := &models.AccountLink{
		UserID:            user.ID,
		Provider:          assertion.Provider,
		ProviderAccountID: assertion.ProviderAccountID,
		AccessToken:       helpers.TrimToNil(req.AccessToken),
		IDToken:           helpers.TrimToNil(req.IDToken),
	}
	if err := s.accountStore.Link(ctx, link); err != nil {
		return nil, fmt.Errorf("error linking provider account: %w", err)
	}

	image := user.Image
	if image == nil && assertion.Picture != "" {
		image = &assertion.Picture
	}

	session := &models.Session{
		Token:      auth.NewSessionToken(),
		UserID:     user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		MiddleName: user.MiddleName,
		LastName:   user.LastName,
		Role:       user.Role,
		Image:      image,
		ExpiresAt:  s.now().Add(s.sessionTTL),
	}
	if err := s.sessionStore.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	logger.Info().Str("userId", user.ID).Str("role", string(user.Role)).Msg("Session created")

	return &SignInResult{Token: session.Token, Session: session}, nil
}

// lookupUser resolves the directory account behind an assertion. A
// previously linked provider account wins over the email, so a returning
// user is recognized even after an administrative email change.
func (s *AuthService) lookupUser(ctx context.Context, assertion *auth.IdentityAssertion) (*models.User, error) {
	link, err := s.accountStore.GetByProviderAccount(ctx, assertion.Provider, assertion.ProviderAccountID)
	if err != nil {
		return nil, fmt.Errorf("error looking up provider link: %w", err)
	}
	if link != nil {
		user, err := s.userStore.GetByID(ctx, link.UserID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		// Linked account was deleted; fall back to the email.
	}
	return s.userStore.GetByEmail(ctx, assertion.Email)
}

// provisionUser creates a directory account from provider claims. New
// accounts start as STUDENT with no middle name; the provider never
// supplies one and an inherited value must not linger.
func (s *AuthService) provisionUser(ctx context.Context, assertion *auth.IdentityAssertion) (*models.User, error) {
	image := placeholderImage(assertion.GivenName, assertion.FamilyName)
	if assertion.Picture != "" {
		image = assertion.Picture
	}

	user := &models.User{
		FirstName: assertion.GivenName,
		LastName:  assertion.FamilyName,
		Email:     assertion.Email,
		Role:      models.RoleStudent,
		Image:     &image,
	}
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			// Lost a provisioning race; the winner's row is authoritative.
			return s.userStore.GetByEmail(ctx, assertion.Email)
		}
		return nil, fmt.Errorf("error provisioning account: %w", err)
	}

	if err := s.userStore.SetMiddleNameNull(ctx, user.ID); err != nil {
		return nil, err
	}
	user.MiddleName = nil

	logger.Info().Str("userId", user.ID).Str("email", user.Email).Msg("Account provisioned on first sign-in")

	return user, nil
}

// Resolve loads the session behind a cookie token and overlays the
// current directory values on top of the sign-in snapshot. A deleted
// account leaves the snapshot untouched so the session stays readable
// until it expires.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.sessionStore.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		if err := s.sessionStore.Delete(ctx, token); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete expired session")
		}
		return nil, apperrors.ErrSessionExpired
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return session, nil
		}
		return nil, fmt.Errorf("error enriching session: %w", err)
	}

	session.Email = user.Email
	session.FirstName = user.FirstName
	session.MiddleName = user.MiddleName
	session.LastName = user.LastName
	session.Role = user.Role
	if user.Image != nil {
		session.Image = user.Image
	}

	return session, nil
}

// SignOut destroys the session behind a cookie token. An unknown token
// is treated as already signed out.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionStore.Delete(ctx, token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes sessions past their expiry
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionStore.DeleteExpired(ctx)
}
