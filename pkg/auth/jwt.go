// Package auth issues and verifies the bearer tokens guarding the API.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/securex/securex/config"
)

const JwtAlg = "HS256"

const tokenSubject = "securex"

var ErrAuthSecretNotSet = errors.New(
	"auth secret not set. Ensure SECUREX_AUTH_SECRET is set in your environment",
)

func newTokenAuth(cfg *config.Config) (*jwtauth.JWTAuth, error) {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		return nil, ErrAuthSecretNotSet
	}
	return jwtauth.New(JwtAlg, secret, nil), nil
}

// GenerateJWT generates a JWT token using the given config. A ttl of zero
// issues a token that never expires.
func GenerateJWT(cfg *config.Config, ttl time.Duration) (string, error) {
	tokenAuth, err := newTokenAuth(cfg)
	if err != nil {
		return "", err
	}

	claims := map[string]interface{}{"sub": tokenSubject}
	jwtauth.SetIssuedNow(claims)
	if ttl > 0 {
		jwtauth.SetExpiryIn(claims, ttl)
	}

	_, tokenString, err := tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("error generating auth token: %w", err)
	}

	return tokenString, nil
}

// JWTVerifier returns middleware that parses bearer tokens signed with the
// configured secret. Pair it with jwtauth.Authenticator to reject requests.
func JWTVerifier(cfg *config.Config) (func(http.Handler) http.Handler, error) {
	tokenAuth, err := newTokenAuth(cfg)
	if err != nil {
		return nil, err
	}
	return jwtauth.Verifier(tokenAuth), nil
}
