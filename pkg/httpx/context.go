package httpx

import (
	"context"

	"github.com/trimline/seatcase/pkg/tokenx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRole   ctxKey = "role"
	CtxKeyClaims ctxKey = "claims"
)

func contextWithSession(ctx context.Context, c tokenx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.UserID)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// ClaimsFromContext returns the verified session claims injected by the
// session middleware.
func ClaimsFromContext(ctx context.Context) (tokenx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(tokenx.Claims)
	return c, ok
}

// UserIDFromContext returns the authenticated user's id, or "".
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
