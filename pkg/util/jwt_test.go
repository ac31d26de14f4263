package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		secret    string
		wantErr   bool
	}{
		{
			name:      "Valid token generation",
			sessionID: NewSessionID(),
			secret:    testSecret,
		},
		{
			name:      "Empty session id",
			sessionID: "",
			secret:    testSecret,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateSessionToken(tt.sessionID, tt.secret, time.Hour)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestValidateSessionToken(t *testing.T) {
	sessionID := NewSessionID()
	token, err := GenerateSessionToken(sessionID, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID())
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(NewSessionID(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSessionToken_Expired(t *testing.T) {
	token, err := GenerateSessionToken(NewSessionID(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	_, err := ValidateSessionToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSessionToken_RejectsNonUUIDSubject(t *testing.T) {
	claims := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "../../etc",
		Issuer:    sessionIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
