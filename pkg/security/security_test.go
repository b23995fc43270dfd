package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/pkg/security"
)

func TestSessionParser_RoundTrip(t *testing.T) {
	t.Parallel()

	p := security.NewSessionParser("secret")

	token, err := p.Sign(entity.Session{UserID: 7, Email: "ana@condo.local", Role: entity.RoleTenant}, time.Minute)
	require.NoError(t, err)

	s, err := p.Parse(token)
	require.NoError(t, err)
	require.Equal(t, int64(7), s.UserID)
	require.Equal(t, "ana@condo.local", s.Email)
	require.Equal(t, entity.RoleTenant, s.Role)
	require.Equal(t, token, s.Token)
	require.WithinDuration(t, time.Now(), s.IssuedAt, 2*time.Second)
}

func TestSessionParser_Rejects(t *testing.T) {
	t.Parallel()

	p := security.NewSessionParser("secret")

	expired, err := p.Sign(entity.Session{UserID: 7, Role: entity.RoleOwner}, -time.Minute)
	require.NoError(t, err)

	other, err := security.NewSessionParser("other").Sign(entity.Session{UserID: 7}, time.Minute)
	require.NoError(t, err)

	noUser, err := p.Sign(entity.Session{Role: entity.RoleOwner}, time.Minute)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 7}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"wrong key": other,
		"no user":   noUser,
		"alg none":  none,
		"not a jwt": "abc",
		"empty":     "",
	} {
		_, err := p.Parse(token)
		require.ErrorIs(t, err, entity.ErrUnauthenticated, name)
	}
}

func TestAPIKey(t *testing.T) {
	t.Parallel()

	hash, err := security.HashAPIKey("k3y")
	require.NoError(t, err)

	k := security.NewAPIKey(hash)
	require.True(t, k.Enabled())
	require.True(t, k.Verify("k3y"))
	require.False(t, k.Verify("nope"))

	disabled := security.NewAPIKey("")
	require.False(t, disabled.Enabled())
	require.True(t, disabled.Verify(""))
}
