package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-secret"

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer := NewIssuer(testSecret, "brewpos", time.Hour)

	token, err := issuer.Issue("cashier-7", RoleCashier)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "cashier-7", claims.CashierID())
	assert.Equal(t, RoleCashier, claims.Role)
	assert.Equal(t, "brewpos", claims.Issuer)
}

func TestIssuer_Issue_Rejects(t *testing.T) {
	issuer := NewIssuer(testSecret, "brewpos", time.Hour)

	_, err := issuer.Issue("", RoleAdmin)
	assert.Error(t, err)

	_, err = issuer.Issue("cashier-7", Role("owner"))
	assert.Error(t, err)
}

func TestIssuer_Parse_Invalid(t *testing.T) {
	issuer := NewIssuer(testSecret, "brewpos", time.Hour)
	good, err := issuer.Issue("cashier-7", RoleAdmin)
	require.NoError(t, err)

	expired := NewIssuer(testSecret, "brewpos", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Issue("cashier-7", RoleAdmin)
	require.NoError(t, err)

	otherSecret, err := NewIssuer("another-secret-of-length", "brewpos", time.Hour).Issue("cashier-7", RoleAdmin)
	require.NoError(t, err)

	otherIssuer, err := NewIssuer(testSecret, "someone-else", time.Hour).Issue("cashier-7", RoleAdmin)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "cashier-7", Issuer: "brewpos", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "cashier-7", Issuer: "brewpos", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not-a-token"},
		{"Tampered", good + "x"},
		{"Expired", expiredToken},
		{"Wrong secret", otherSecret},
		{"Wrong issuer", otherIssuer},
		{"Unsigned", unsigned},
		{"Missing role", noRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Parse(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleCashier.Valid())
	assert.True(t, RoleServer.Valid())
	assert.False(t, Role("").Valid())
}

func TestClaims_CanAccess(t *testing.T) {
	cashier := &Claims{Role: RoleCashier, RegisteredClaims: jwt.RegisteredClaims{Subject: "cashier-1"}}
	admin := &Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "manager-1"}}

	assert.True(t, cashier.CanAccess("cashier-1"))
	assert.False(t, cashier.CanAccess("cashier-2"))
	assert.True(t, admin.CanAccess("cashier-2"))
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	_, ok = ClaimsFromContext(WithClaims(context.Background(), nil))
	assert.False(t, ok)

	claims := &Claims{Role: RoleServer, RegisteredClaims: jwt.RegisteredClaims{Subject: "server-3"}}
	got, ok := ClaimsFromContext(WithClaims(context.Background(), claims))
	require.True(t, ok)
	assert.Same(t, claims, got)
}
