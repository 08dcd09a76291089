package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Secret: "test-secret",
		},
	}
}

func TestGenerateJWT(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateJWT(cfg, time.Hour)
	require.NoError(t, err)

	// Validate the generated token independently of jwtauth
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Auth.Secret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsedToken.Valid)

	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "securex", sub)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestGenerateJWT_NoExpiry(t *testing.T) {
	token, err := GenerateJWT(testConfig(), 0)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	_, ok := claims["exp"]
	assert.False(t, ok)
}

func TestGenerateJWT_NoSecret(t *testing.T) {
	_, err := GenerateJWT(&config.Config{}, time.Hour)
	assert.ErrorIs(t, err, ErrAuthSecretNotSet)

	_, err = JWTVerifier(&config.Config{})
	assert.ErrorIs(t, err, ErrAuthSecretNotSet)
}

func TestJWTVerifier(t *testing.T) {
	cfg := testConfig()
	verifier, err := JWTVerifier(cfg)
	require.NoError(t, err)

	router := chi.NewRouter()
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Use(verifier)
	router.Use(jwtauth.Authenticator)
	router.Handle("/", testHandler)

	tokenAuth := jwtauth.New(JwtAlg, []byte(cfg.Auth.Secret), nil)

	t.Run("valid JWT token", func(t *testing.T) {
		tokenString, err := GenerateJWT(cfg, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		res := httptest.NewRecorder()

		router.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("missing JWT token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		res := httptest.NewRecorder()

		router.ServeHTTP(res, req)

		require.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("invalid JWT token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		res := httptest.NewRecorder()

		router.ServeHTTP(res, req)

		require.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("expired JWT token", func(t *testing.T) {
		claims := map[string]interface{}{"sub": "securex"}
		jwtauth.SetExpiry(claims, time.Now().Add(-time.Hour))
		_, tokenString, err := tokenAuth.Encode(claims)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		res := httptest.NewRecorder()

		router.ServeHTTP(res, req)

		require.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
