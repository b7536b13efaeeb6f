package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghub-dev/bloghub/shared/domain"
	internal_errors "github.com/bloghub-dev/bloghub/shared/errors"
)

func TestTokenRoundTrip(t *testing.T) {
	service := New("test_secret", time.Hour)
	user := domain.User{Id: uuid.New(), Email: "user@example.com"}

	tokenStr, err := service.NewToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	token, err := service.DecodeToken(tokenStr)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.Id.String(), claims["uid"])
	assert.Equal(t, user.Email, claims["email"])
	assert.NotZero(t, claims["exp"])
}

func TestDecodeTokenErrors(t *testing.T) {
	service := New("test_secret", time.Hour)
	user := domain.User{Id: uuid.New(), Email: "user@example.com"}

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.DecodeToken("not.a.token")
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		otherService := New("other_secret", time.Hour)
		tokenStr, err := otherService.NewToken(user)
		require.NoError(t, err)

		_, err = service.DecodeToken(tokenStr)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		expiredService := New("test_secret", -time.Minute)
		tokenStr, err := expiredService.NewToken(user)
		require.NoError(t, err)

		_, err = service.DecodeToken(tokenStr)
		assert.Error(t, err)
	})
}
