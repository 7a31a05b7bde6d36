// Package auth integrates the external identity provider (GitHub OAuth) and
// issues the JWT session tokens that carry the caller's external identity.
//
// Flow:
//  1. GET /auth/github/login → browser is redirected to GitHub
//  2. GitHub calls back with a code; we exchange it for the user's profile
//  3. The user directory upserts the record; a JWT whose subject is the
//     external id is set as an HttpOnly cookie
//  4. On API calls, middleware validates the cookie and puts the external id
//     in the request context
//
// The JWT is stateless: the signed token itself carries the subject and
// expiry, so no session store or DB lookup is needed to authenticate a
// request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "recshelf"

// SessionDuration is how long a sign-in cookie stays valid.
const SessionDuration = 24 * time.Hour

// TokenService signs and verifies JWT session tokens with an HMAC secret.
// The same secret does both; keep it out of source control.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the standard "sub" claim holds the
// external identity (e.g. "github:1234567").
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given external
// identity, valid for SessionDuration.
func (s *TokenService) Generate(externalID string) (string, error) {
	return s.GenerateWithDuration(externalID, SessionDuration)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(externalID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the external
// identity in its subject claim.
//
// The library checks the signature, expiry and issuer. Restricting the
// accepted algorithms to HS256 closes the algorithm-confusion hole where a
// token signed with "none" would otherwise slip through.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
