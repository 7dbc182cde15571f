// Package authz derives UI visibility decisions from session claims.
//
// Every predicate is recomputed from the latest claims on each call; the
// gate holds no state of its own and performs no I/O. Decisions here gate
// rendering and routing only, not a security boundary; the backend re-checks
// authorization on every request.
package authz

import (
	"github.com/aayushpawar07/devblocker-go/session"
)

// ClaimsSource is the read-only slice of the session store the gate needs.
// *session.Store satisfies it.
type ClaimsSource interface {
	AccessToken() (string, bool)
	Claims() (session.Claims, bool)
}

// Gate answers route- and element-level visibility questions.
type Gate struct {
	source ClaimsSource
}

// NewGate creates a gate over the given claims source.
func NewGate(source ClaimsSource) *Gate {
	return &Gate{source: source}
}

// Authenticated reports whether any session is present. Used for route
// protection. A present token may still be expired; only a request failure
// proves invalidity.
func (g *Gate) Authenticated() bool {
	_, ok := g.source.AccessToken()
	return ok
}

// OrgAdmin reports whether the current identity is an organization admin.
func (g *Gate) OrgAdmin() bool {
	c, ok := g.source.Claims()
	return ok && c.Role == session.RoleOrgAdmin
}

// Employee reports whether the current identity is an organization employee.
func (g *Gate) Employee() bool {
	c, ok := g.source.Claims()
	return ok && c.Role == session.RoleEmployee
}

// InOrganization reports whether the current identity belongs to an
// organization, gating organization-scoped features.
func (g *Gate) InOrganization() bool {
	c, ok := g.source.Claims()
	return ok && c.OrgID != ""
}

// InGroup reports whether the current identity is a member of groupID.
func (g *Gate) InGroup(groupID string) bool {
	c, ok := g.source.Claims()
	return ok && c.InGroup(groupID)
}
