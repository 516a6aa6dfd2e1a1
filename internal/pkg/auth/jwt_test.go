package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "enrollment.test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT()
	teacherID := int64(2)

	token, expiresIn, err := svc.GenerateAccessToken(Identity{
		AccountID: 10,
		Email:     "ivan@uni.mk",
		Role:      "TEACHER",
		TeacherID: &teacherID,
	})
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 10, claims.AccountID)
	assert.Equal(t, "TEACHER", claims.Role)
	require.NotNil(t, claims.TeacherID)
	assert.EqualValues(t, 2, *claims.TeacherID)
	assert.Nil(t, claims.StudentID)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.GenerateAccessToken(Identity{AccountID: 1, Email: "a@b.c", Role: "ADMIN"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, _, err := newTestJWT().GenerateAccessToken(Identity{AccountID: 1, Email: "a@b.c", Role: "ADMIN"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "enrollment.test"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer a.b.c", want: "a.b.c"},
		{header: "bearer a.b.c", want: "a.b.c"},
		{header: "\"Bearer a.b.c\"", want: "a.b.c"},
		{header: "a.b.c", want: "a.b.c"},
		{header: "", wantErr: true},
		{header: "Basic dXNlcg==", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Admin123!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "Admin123!"))
	assert.False(t, CheckPassword(hash, "admin123!"))
}
