// Package organization is the typed client for organization and group
// administration. These endpoints are hosted by the auth service.
package organization

import (
	"context"
	"fmt"

	"github.com/aayushpawar07/devblocker-go/internal/jsontime"
	"github.com/aayushpawar07/devblocker-go/session"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// Organization is a registered organization.
type Organization struct {
	OrgID     string        `json:"orgId"`
	Name      string        `json:"name"`
	Domain    string        `json:"domain,omitempty"`
	CreatedAt jsontime.Time `json:"createdAt"`
}

// RegisterRequest creates an organization together with its admin account.
type RegisterRequest struct {
	OrganizationName string `json:"organizationName"`
	Domain           string `json:"domain,omitempty"`
	AdminName        string `json:"adminName"`
	AdminEmail       string `json:"adminEmail"`
	AdminPassword    string `json:"adminPassword"`
}

// Member is a user account scoped to an organization.
type Member struct {
	UserID    string        `json:"userId"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      session.Role  `json:"role,omitempty"`
	OrgID     string        `json:"orgId,omitempty"`
	CreatedAt jsontime.Time `json:"createdAt"`
}

// CreateMemberRequest creates an employee account in an organization.
type CreateMemberRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Group is a named subdivision of an organization.
type Group struct {
	GroupID     string        `json:"groupId"`
	OrgID       string        `json:"orgId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CreatedAt   jsontime.Time `json:"createdAt"`
}

// CreateGroupRequest creates a group.
type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Service exposes organization and group administration operations.
type Service struct {
	api *transport.Client
}

// New creates an organization service over the auth service's transport
// client.
func New(api *transport.Client) *Service {
	return &Service{api: api}
}

// Register creates an organization with an admin account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Organization, error) {
	var out Organization
	if err := s.api.Post(ctx, "/organizations/register", req, &out); err != nil {
		return Organization{}, fmt.Errorf("devblocker/organization: register: %w", err)
	}
	return out, nil
}

// Get returns one organization by ID.
func (s *Service) Get(ctx context.Context, orgID string) (Organization, error) {
	if orgID == "" {
		return Organization{}, fmt.Errorf("devblocker/organization: orgID cannot be empty")
	}
	var out Organization
	if err := s.api.Get(ctx, "/organizations/"+orgID, nil, &out); err != nil {
		return Organization{}, fmt.Errorf("devblocker/organization: get: %w", err)
	}
	return out, nil
}

// CreateEmployee creates an employee account. The caller must be the
// organization's admin; the backend enforces this.
func (s *Service) CreateEmployee(ctx context.Context, orgID string, req CreateMemberRequest) (Member, error) {
	if orgID == "" {
		return Member{}, fmt.Errorf("devblocker/organization: orgID cannot be empty")
	}
	var out Member
	if err := s.api.Post(ctx, "/organizations/"+orgID+"/employees", req, &out); err != nil {
		return Member{}, fmt.Errorf("devblocker/organization: create employee: %w", err)
	}
	return out, nil
}

// ListEmployees returns all employees of an organization.
func (s *Service) ListEmployees(ctx context.Context, orgID string) ([]Member, error) {
	if orgID == "" {
		return nil, fmt.Errorf("devblocker/organization: orgID cannot be empty")
	}
	var out []Member
	if err := s.api.Get(ctx, "/organizations/"+orgID+"/employees", nil, &out); err != nil {
		return nil, fmt.Errorf("devblocker/organization: list employees: %w", err)
	}
	return out, nil
}

// CreateGroup creates a group in an organization.
func (s *Service) CreateGroup(ctx context.Context, orgID string, req CreateGroupRequest) (Group, error) {
	if orgID == "" {
		return Group{}, fmt.Errorf("devblocker/organization: orgID cannot be empty")
	}
	var out Group
	if err := s.api.Post(ctx, "/organizations/"+orgID+"/groups", req, &out); err != nil {
		return Group{}, fmt.Errorf("devblocker/organization: create group: %w", err)
	}
	return out, nil
}

// ListGroups returns all groups of an organization.
func (s *Service) ListGroups(ctx context.Context, orgID string) ([]Group, error) {
	if orgID == "" {
		return nil, fmt.Errorf("devblocker/organization: orgID cannot be empty")
	}
	var out []Group
	if err := s.api.Get(ctx, "/organizations/"+orgID+"/groups", nil, &out); err != nil {
		return nil, fmt.Errorf("devblocker/organization: list groups: %w", err)
	}
	return out, nil
}

// AddMember adds a user to a group.
func (s *Service) AddMember(ctx context.Context, orgID, groupID, userID string) error {
	if orgID == "" || groupID == "" || userID == "" {
		return fmt.Errorf("devblocker/organization: orgID, groupID and userID are required")
	}
	path := "/organizations/" + orgID + "/groups/" + groupID + "/members/" + userID
	if err := s.api.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("devblocker/organization: add member: %w", err)
	}
	return nil
}

// RemoveMember removes a user from a group.
func (s *Service) RemoveMember(ctx context.Context, orgID, groupID, userID string) error {
	if orgID == "" || groupID == "" || userID == "" {
		return fmt.Errorf("devblocker/organization: orgID, groupID and userID are required")
	}
	path := "/organizations/" + orgID + "/groups/" + groupID + "/members/" + userID
	if err := s.api.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("devblocker/organization: remove member: %w", err)
	}
	return nil
}

// ListMembers returns the members of a group.
func (s *Service) ListMembers(ctx context.Context, orgID, groupID string) ([]Member, error) {
	if orgID == "" || groupID == "" {
		return nil, fmt.Errorf("devblocker/organization: orgID and groupID are required")
	}
	path := "/organizations/" + orgID + "/groups/" + groupID + "/members"
	var out []Member
	if err := s.api.Get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("devblocker/organization: list members: %w", err)
	}
	return out, nil
}
