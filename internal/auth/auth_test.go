package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/cache"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	session, err := svc.Issue(userID, "seeker")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, time.Now().Add(SessionExpiry), session.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "seeker", claims.Role)
	assert.Equal(t, session.ID, claims.ID)

	got, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	session, err := NewJWTService("one").Issue(uuid.New(), "seeker")
	require.NoError(t, err)

	_, err = NewJWTService("two").Validate(session.Token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * SessionExpiry) }
	session, err := svc.Issue(uuid.New(), "seeker")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").Validate(session.Token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: uuid.NewString()})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").Validate(signed)
	assert.Error(t, err)
}

func TestClaims_Remaining(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}
	assert.InDelta(t, time.Hour.Seconds(), c.Remaining(now).Seconds(), 1)

	c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	assert.Zero(t, c.Remaining(now))

	assert.Zero(t, (&Claims{}).Remaining(now))
}

func TestTokenStore_Revocation(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStore(cache.New(mr.Addr(), "", 0))
	ctx := context.Background()

	revoked, err := store.IsSessionRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeSession(ctx, "jti-1", time.Hour))
	revoked, err = store.IsSessionRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Hour, mr.TTL(revokedSessionKeyPrefix+"jti-1"))

	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsSessionRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_IgnoresExpiredSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStore(cache.New(mr.Addr(), "", 0))

	require.NoError(t, store.RevokeSession(context.Background(), "jti-2", 0))
	assert.False(t, mr.Exists(revokedSessionKeyPrefix+"jti-2"))
}
