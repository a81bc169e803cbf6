package sharelink_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NANDHINI7390/signify-invoice/internal/sharelink"
)

func TestBuilder_RoundTrip(t *testing.T) {
	b := sharelink.NewBuilder("test-secret", "http://localhost:8080", time.Hour)
	id := uuid.New()

	token, err := b.Token(id)
	require.NoError(t, err)

	got, err := b.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestBuilder_SignURL(t *testing.T) {
	b := sharelink.NewBuilder("test-secret", "http://localhost:8080/", time.Hour)

	url, err := b.SignURL(uuid.New())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/sign/"), url)
	assert.NotContains(t, strings.TrimPrefix(url, "http://localhost:8080"), "//")
}

func TestBuilder_ParseRejections(t *testing.T) {
	b := sharelink.NewBuilder("test-secret", "http://localhost:8080", time.Hour)
	id := uuid.New()

	t.Run("Tampered", func(t *testing.T) {
		token, err := b.Token(id)
		require.NoError(t, err)

		_, err = b.Parse(token + "x")
		assert.ErrorIs(t, err, sharelink.ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := sharelink.NewBuilder("other-secret", "http://localhost:8080", time.Hour)
		token, err := other.Token(id)
		require.NoError(t, err)

		_, err = b.Parse(token)
		assert.ErrorIs(t, err, sharelink.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := sharelink.NewBuilder("test-secret", "http://localhost:8080", -time.Minute)
		token, err := expired.Token(id)
		require.NoError(t, err)

		_, err = b.Parse(token)
		assert.ErrorIs(t, err, sharelink.ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := b.Parse("not-a-token")
		assert.ErrorIs(t, err, sharelink.ErrInvalidToken)
	})

	t.Run("NonUUIDSubject", func(t *testing.T) {
		// Signed with the right secret, but the subject is not a record id.
		claims := jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = b.Parse(token)
		assert.ErrorIs(t, err, sharelink.ErrInvalidToken)
	})

	t.Run("NoneAlgorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: id.String()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = b.Parse(token)
		assert.ErrorIs(t, err, sharelink.ErrInvalidToken)
	})
}
