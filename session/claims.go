package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role is the organization role carried in the access token. Individual
// users outside any organization have no role.
type Role string

// Roles issued by the auth service.
const (
	RoleOrgAdmin Role = "ORG_ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Claims are the identity facts encoded in the access token payload.
//
// They are decoded without signature verification and exist for display and
// routing convenience only. No client-side code may treat them as a security
// boundary; the backend re-validates the token on every call.
type Claims struct {
	UserID   string
	Email    string
	Role     Role
	OrgID    string
	GroupIDs []string
}

// InGroup reports whether groupID is among the claims' group memberships.
func (c Claims) InGroup(groupID string) bool {
	for _, id := range c.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// Claims decodes the payload segment of the stored access token. ok is false
// when no token is present or the payload cannot be decoded; an unreadable
// token degrades to "unauthenticated for display purposes" while the token
// may still be valid server-side. Decode failures are logged, never raised.
func (s *Store) Claims() (Claims, bool) {
	token, ok := s.AccessToken()
	if !ok {
		return Claims{}, false
	}

	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		s.logger.Debug("devblocker/session: undecodable access token", "err", err)
		return Claims{}, false
	}
	return claimsFromMap(mapClaims), true
}

func claimsFromMap(m jwt.MapClaims) Claims {
	c := Claims{
		UserID: stringClaim(m, "userId"),
		Email:  stringClaim(m, "email"),
		Role:   Role(stringClaim(m, "role")),
		OrgID:  stringClaim(m, "orgId"),
	}
	if raw, ok := m["groupIds"].([]any); ok {
		for _, v := range raw {
			if id, ok := v.(string); ok {
				c.GroupIDs = append(c.GroupIDs, id)
			}
		}
	}
	return c
}

func stringClaim(m jwt.MapClaims, key string) string {
	v, _ := m[key].(string)
	return v
}
