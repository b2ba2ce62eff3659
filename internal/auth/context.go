package auth

import "context"

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims of the authenticated staff member, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// CanAccess reports whether the holder may work on something owned by ownerID.
// Admins may act on anyone's behalf.
func (c *Claims) CanAccess(ownerID string) bool {
	return c.Role == RoleAdmin || c.Subject == ownerID
}
