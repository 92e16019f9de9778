package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-booking-backend/config"
)

const testSecret = "test-secret-key-for-unit-testing"

func newTestManager(password, hash string) *Manager {
	return NewManager(config.AuthConfig{
		JWTSecret:         testSecret,
		TokenTTL:          8 * time.Hour,
		AdminPassword:     password,
		AdminPasswordHash: hash,
	})
}

func TestLogin_PlainPassword(t *testing.T) {
	m := newTestManager("  letmein ", "")

	token, err := m.Login("letmein  ")
	require.NoError(t, err)

	claims, err := m.Authorize("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = m.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLogin_HashedPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	m := newTestManager("ignored-when-hash-set", hash)

	_, err = m.Login("s3cret")
	assert.NoError(t, err)
	_, err = m.Login("ignored-when-hash-set")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLogin_NotConfigured(t *testing.T) {
	_, err := newTestManager("", "").Login("anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAuthorize(t *testing.T) {
	m := newTestManager("letmein", "")
	admin, err := m.Issue(RoleAdmin)
	require.NoError(t, err)
	guest, err := m.Issue("")
	require.NoError(t, err)
	other, err := newTestManager("x", "").Issue(RoleAdmin)
	require.NoError(t, err)
	foreign, err := NewManager(config.AuthConfig{JWTSecret: "another-secret-entirely", TokenTTL: time.Hour}).Issue(RoleAdmin)
	require.NoError(t, err)

	expiredMgr := newTestManager("letmein", "")
	expiredMgr.now = func() time.Time { return time.Now().Add(-9 * time.Hour) }
	expired, err := expiredMgr.Issue(RoleAdmin)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"Admin token", "Bearer " + admin, nil},
		{"Same secret, other manager", "Bearer " + other, nil},
		{"Missing header", "", ErrUnauthorized},
		{"Wrong scheme", "Basic " + admin, ErrUnauthorized},
		{"Empty token", "Bearer ", ErrUnauthorized},
		{"Garbage", "Bearer not.a.jwt", ErrUnauthorized},
		{"Wrong secret", "Bearer " + foreign, ErrUnauthorized},
		{"Expired", "Bearer " + expired, ErrUnauthorized},
		{"No admin role", "Bearer " + guest, ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Authorize(tc.header)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	m := newTestManager("letmein", "")
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
