package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "CodeAcademy", time.Hour)

	pair, err := svc.GenerateTokenPair("learner-1", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	identity, err := svc.VerifyJWTToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "learner-1", identity.UserID)
	assert.Equal(t, "ada@example.com", identity.Email)
}

func TestJWTRejectsBadTokens(t *testing.T) {
	svc := NewJWTService("secret", "CodeAcademy", time.Hour)

	expired, err := NewJWTService("secret", "CodeAcademy", -time.Minute).ToJWT("learner-1", "")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(expired)
	assert.Error(t, err)

	otherIssuer, err := NewJWTService("secret", "Elsewhere", time.Hour).ToJWT("learner-1", "")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(otherIssuer)
	assert.Error(t, err)

	otherSecret, err := NewJWTService("other", "CodeAcademy", time.Hour).ToJWT("learner-1", "")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(otherSecret)
	assert.Error(t, err)

	noSubject, err := svc.ToJWT("", "")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(noSubject)
	assert.Error(t, err)

	_, err = svc.VerifyJWTToken("garbage")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := NewJWTService("secret", "CodeAcademy", time.Hour)

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc.def", want: "abc.def"},
		{name: "missing", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "empty token", header: "Bearer  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
