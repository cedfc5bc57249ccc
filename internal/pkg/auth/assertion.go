package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
)

// IdentityAssertion is the verified claim set handed over by the OAuth
// sign-in service after it has completed the provider handshake.
type IdentityAssertion struct {
	Email             string
	GivenName         string
	FamilyName        string
	Picture           string
	Provider          string
	ProviderAccountID string
}

// assertionClaims is the JWT payload carrying an identity assertion
type assertionClaims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture,omitempty"`
	Provider   string `json:"provider"`
	jwt.RegisteredClaims
}

// AssertionVerifierConfig defines assertion verification settings
type AssertionVerifierConfig struct {
	Secret string
	Issuer string
}

// AssertionVerifier validates signed identity assertions
type AssertionVerifier struct {
	config AssertionVerifierConfig
}

// NewAssertionVerifier creates a new AssertionVerifier
func NewAssertionVerifier(config AssertionVerifierConfig) *AssertionVerifier {
	return &AssertionVerifier{config: config}
}

// Verify parses and validates a signed assertion token and returns the
// identity claims it carries. The subject claim is the provider-side
// account id.
func (v *AssertionVerifier) Verify(tokenString string) (*IdentityAssertion, error) {
	if tokenString == "" {
		return nil, apperrors.ErrInvalidAssertion
	}

	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &assertionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.Secret), nil
	}, parserOpts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrAssertionExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidAssertion, err)
	}

	claims, ok := token.Claims.(*assertionClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidAssertion
	}

	if claims.Provider == "" || claims.Subject == "" {
		return nil, apperrors.ErrInvalidAssertion
	}

	return &IdentityAssertion{
		Email:             claims.Email,
		GivenName:         claims.GivenName,
		FamilyName:        claims.FamilyName,
		Picture:           claims.Picture,
		Provider:          claims.Provider,
		ProviderAccountID: claims.Subject,
	}, nil
}
