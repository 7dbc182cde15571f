package authz

import (
	"testing"

	"github.com/aayushpawar07/devblocker-go/session"
)

// fakeSource serves canned claims without a real token.
type fakeSource struct {
	token  string
	claims session.Claims
	hasC   bool
}

func (f *fakeSource) AccessToken() (string, bool) { return f.token, f.token != "" }

func (f *fakeSource) Claims() (session.Claims, bool) { return f.claims, f.hasC }

func TestGate_Authenticated(t *testing.T) {
	g := NewGate(&fakeSource{})
	if g.Authenticated() {
		t.Error("Authenticated without token: want false")
	}

	g = NewGate(&fakeSource{token: "at"})
	if !g.Authenticated() {
		t.Error("Authenticated with token: want true")
	}
}

func TestGate_Roles(t *testing.T) {
	cases := []struct {
		name      string
		role      session.Role
		wantAdmin bool
		wantEmp   bool
	}{
		{"org admin", session.RoleOrgAdmin, true, false},
		{"employee", session.RoleEmployee, false, true},
		{"individual", "", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGate(&fakeSource{
				token:  "at",
				claims: session.Claims{Role: tc.role},
				hasC:   true,
			})
			if got := g.OrgAdmin(); got != tc.wantAdmin {
				t.Errorf("OrgAdmin = %v, want %v", got, tc.wantAdmin)
			}
			if got := g.Employee(); got != tc.wantEmp {
				t.Errorf("Employee = %v, want %v", got, tc.wantEmp)
			}
		})
	}
}

func TestGate_NoClaims(t *testing.T) {
	// A present but undecodable token yields no claims; every role
	// predicate answers false while Authenticated stays true.
	g := NewGate(&fakeSource{token: "opaque"})
	if !g.Authenticated() {
		t.Error("Authenticated: want true")
	}
	if g.OrgAdmin() || g.Employee() || g.InOrganization() || g.InGroup("g1") {
		t.Error("claims predicates without claims: want all false")
	}
}

func TestGate_InOrganization(t *testing.T) {
	g := NewGate(&fakeSource{
		token:  "at",
		claims: session.Claims{OrgID: "org1"},
		hasC:   true,
	})
	if !g.InOrganization() {
		t.Error("InOrganization with orgId: want true")
	}

	g = NewGate(&fakeSource{token: "at", claims: session.Claims{}, hasC: true})
	if g.InOrganization() {
		t.Error("InOrganization without orgId: want false")
	}
}

func TestGate_InGroup(t *testing.T) {
	g := NewGate(&fakeSource{
		token:  "at",
		claims: session.Claims{GroupIDs: []string{"g1", "g2"}},
		hasC:   true,
	})
	if !g.InGroup("g2") {
		t.Error("InGroup(g2): want true")
	}
	if g.InGroup("g9") {
		t.Error("InGroup(g9): want false")
	}
}

func TestGate_ReflectsStoreChanges(t *testing.T) {
	src := &fakeSource{token: "at", claims: session.Claims{Role: session.RoleEmployee}, hasC: true}
	g := NewGate(src)
	if !g.Employee() {
		t.Fatal("Employee: want true before logout")
	}

	// Logout empties the source; the same gate must observe it.
	src.token = ""
	src.hasC = false
	if g.Authenticated() || g.Employee() {
		t.Error("gate still authorizes after source cleared")
	}
}
