package devblocker

import (
	"context"
	"testing"

	"github.com/aayushpawar07/devblocker-go/session"
)

func TestContext_UserID(t *testing.T) {
	ctx := context.Background()
	if got := UserIDFromContext(ctx); got != "" {
		t.Errorf("UserIDFromContext on empty ctx = %q", got)
	}
	ctx = WithUserID(ctx, "u1")
	if got := UserIDFromContext(ctx); got != "u1" {
		t.Errorf("UserIDFromContext = %q, want u1", got)
	}
}

func TestContext_OrgID(t *testing.T) {
	ctx := WithOrgID(context.Background(), "org1")
	if got := OrgIDFromContext(ctx); got != "org1" {
		t.Errorf("OrgIDFromContext = %q, want org1", got)
	}
}

func TestContext_Claims(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("ClaimsFromContext on empty ctx: want absent")
	}

	want := session.Claims{UserID: "u1", Role: session.RoleEmployee, GroupIDs: []string{"g1"}}
	ctx := WithClaims(context.Background(), want)
	got, ok := ClaimsFromContext(ctx)
	if !ok {
		t.Fatal("ClaimsFromContext: want ok")
	}
	if got.UserID != want.UserID || got.Role != want.Role {
		t.Errorf("claims = %+v, want %+v", got, want)
	}
}
