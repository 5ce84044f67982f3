package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-for-predictable-results"

func TestGenerateToken(t *testing.T) {
	TokenSecretKey = testSecretKey

	tests := []struct {
		name      string
		tokenType TokenType
		userID    string
		duration  time.Duration
	}{
		{
			name:      "success: generate valid user token",
			tokenType: TokenTypeUser,
			userID:    "user-1",
			duration:  time.Hour,
		},
		{
			name:      "success: generate valid admin token",
			tokenType: TokenTypeAdmin,
			userID:    "admin-1",
			duration:  30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := GenerateToken(tt.tokenType, tt.userID, tt.duration)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			claims, err := VerifyToken(tokenString)
			require.NoError(t, err)
			assert.Equal(t, tt.tokenType, claims.Type)
			assert.Equal(t, tt.userID, claims.UserID())
			assert.WithinDuration(t, time.Now().Add(tt.duration), claims.ExpiresAt.Time, time.Second*5)
		})
	}
}

func TestVerifyToken(t *testing.T) {
	TokenSecretKey = testSecretKey

	validUserToken, _ := GenerateToken(TokenTypeUser, "user-1", time.Hour)
	expiredToken, _ := GenerateToken(TokenTypeUser, "user-1", -time.Hour)

	claimsWithWrongMethod := TokenClaims{
		Type: TokenTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	wrongMethodToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, claimsWithWrongMethod).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name        string
		tokenString string
		wantErr     bool
		wantUserID  string
	}{
		{
			name:        "success: valid token",
			tokenString: validUserToken,
			wantErr:     false,
			wantUserID:  "user-1",
		},
		{
			name:        "failure: expired token",
			tokenString: expiredToken,
			wantErr:     true,
		},
		{
			name:        "failure: wrong signing method",
			tokenString: wrongMethodToken,
			wantErr:     true,
		},
		{
			name:        "failure: garbage token",
			tokenString: "not-a-token",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := VerifyToken(tt.tokenString)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, claims.UserID())
		})
	}
}
