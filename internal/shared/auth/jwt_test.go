package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-bytes-for-hs256"

func signHS256(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestJWTValidatorAcceptsBackendToken(t *testing.T) {
	validator := NewJWTValidator(testSecret, "")
	token := signHS256(t, jwt.MapClaims{
		"sub":    "guest@example.com",
		"userId": 42,
		"roles":  []string{"ROLE_USER"},
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validator.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "guest@example.com", claims.Email)
	assert.True(t, claims.HasRole("role_user"))
	assert.False(t, claims.HasRole(RoleAdmin))
	assert.Contains(t, claims.SessionID, "guest@example.com:")
}

func TestJWTValidatorRejects(t *testing.T) {
	validator := NewJWTValidator(testSecret, "")

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: " ", want: ErrMissingToken},
		{name: "garbage", token: "not-a-jwt", want: ErrInvalidToken},
		{name: "expired", token: signHS256(t, jwt.MapClaims{"sub": "a@b.c", "exp": time.Now().Add(-time.Hour).Unix()}), want: ErrInvalidToken},
		{name: "no subject", token: signHS256(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), want: ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.token)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestJWTValidatorWithoutKey(t *testing.T) {
	_, err := NewJWTValidator("", "").Validate("abc.def.ghi")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractToken(t *testing.T) {
	header := httptest.NewRequest("GET", "/ws/reservations/1", nil)
	header.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", ExtractToken(header, ""))

	query := httptest.NewRequest("GET", "/ws/reservations/1?token=xyz", nil)
	assert.Equal(t, "xyz", ExtractToken(query, ""))

	assert.Equal(t, "", ExtractBearerTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractBearerTokenFromHeader("Bearer "))
	assert.Equal(t, "", ExtractBearerToken(nil))
}
