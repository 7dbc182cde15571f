package devblocker

import (
	"context"

	"github.com/aayushpawar07/devblocker-go/session"
)

type ctxKey string

const (
	ctxKeyUserID ctxKey = "devblocker_user_id"
	ctxKeyOrgID  ctxKey = "devblocker_org_id"
	ctxKeyClaims ctxKey = "devblocker_claims"
)

// WithUserID stores the acting user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFromContext extracts the acting user ID from the context.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}

// WithOrgID stores the organization ID in the context.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, ctxKeyOrgID, orgID)
}

// OrgIDFromContext extracts the organization ID from the context.
func OrgIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyOrgID).(string)
	return v
}

// WithClaims stores decoded identity claims in the context.
func WithClaims(ctx context.Context, claims session.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, claims)
}

// ClaimsFromContext extracts identity claims from the context.
func ClaimsFromContext(ctx context.Context) (session.Claims, bool) {
	v, ok := ctx.Value(ctxKeyClaims).(session.Claims)
	return v, ok
}
