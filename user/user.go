// Package user is the typed client for the user profile service.
package user

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aayushpawar07/devblocker-go/internal/jsontime"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// Profile is a user's public profile with activity counters.
type Profile struct {
	UserID                 string        `json:"userId"`
	Name                   string        `json:"name"`
	AvatarURL              string        `json:"avatarUrl,omitempty"`
	Bio                    string        `json:"bio,omitempty"`
	Location               string        `json:"location,omitempty"`
	TeamID                 string        `json:"teamId,omitempty"`
	TeamName               string        `json:"teamName,omitempty"`
	SolutionsCount         int           `json:"solutionsCount"`
	AcceptedSolutionsCount int           `json:"acceptedSolutionsCount"`
	BlockersCount          int           `json:"blockersCount"`
	CreatedAt              jsontime.Time `json:"createdAt"`
	UpdatedAt              jsontime.Time `json:"updatedAt"`
}

// UpdateRequest updates profile fields. Zero fields are left unchanged.
type UpdateRequest struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Location  string `json:"location,omitempty"`
}

// Reputation is a user's current reputation standing.
type Reputation struct {
	UserID    string        `json:"userId"`
	Points    int           `json:"points"`
	UpdatedAt jsontime.Time `json:"updatedAt"`
}

// ReputationEvent is one reputation change.
type ReputationEvent struct {
	TransactionID string        `json:"transactionId"`
	UserID        string        `json:"userId"`
	Points        int           `json:"points"`
	Reason        string        `json:"reason"`
	Source        string        `json:"source"`
	CreatedAt     jsontime.Time `json:"createdAt"`
}

// Badge is an achievement awarded at a reputation threshold.
type Badge struct {
	BadgeID             string        `json:"badgeId"`
	Name                string        `json:"name"`
	Description         string        `json:"description,omitempty"`
	IconURL             string        `json:"iconUrl,omitempty"`
	ReputationThreshold int           `json:"reputationThreshold"`
	CreatedAt           jsontime.Time `json:"createdAt"`
}

// Team is a team a user belongs to.
type Team struct {
	TeamID      string        `json:"teamId"`
	Name        string        `json:"name"`
	TeamCode    string        `json:"teamCode,omitempty"`
	MemberCount int           `json:"memberCount"`
	CreatedAt   jsontime.Time `json:"createdAt"`
}

// Page is one page of search results or history entries.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// SearchRequest filters a user search.
type SearchRequest struct {
	Name          string
	TeamID        string
	MinReputation int
	MaxReputation int
	Page          int
	Size          int
}

func (r SearchRequest) query() url.Values {
	q := url.Values{}
	if r.Name != "" {
		q.Set("name", r.Name)
	}
	if r.TeamID != "" {
		q.Set("teamId", r.TeamID)
	}
	if r.MinReputation > 0 {
		q.Set("minReputation", strconv.Itoa(r.MinReputation))
	}
	if r.MaxReputation > 0 {
		q.Set("maxReputation", strconv.Itoa(r.MaxReputation))
	}
	q.Set("page", strconv.Itoa(r.Page))
	if r.Size > 0 {
		q.Set("size", strconv.Itoa(r.Size))
	}
	return q
}

// Service exposes the user service operations.
type Service struct {
	api *transport.Client
}

// New creates a user service over the given transport client.
func New(api *transport.Client) *Service {
	return &Service{api: api}
}

// Get returns one user's profile.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, fmt.Errorf("devblocker/user: userID cannot be empty")
	}
	var out Profile
	if err := s.api.Get(ctx, "/users/"+userID, nil, &out); err != nil {
		return Profile{}, fmt.Errorf("devblocker/user: get: %w", err)
	}
	return out, nil
}

// Update updates a user's profile.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (Profile, error) {
	if userID == "" {
		return Profile{}, fmt.Errorf("devblocker/user: userID cannot be empty")
	}
	var out Profile
	if err := s.api.Put(ctx, "/users/"+userID, req, &out); err != nil {
		return Profile{}, fmt.Errorf("devblocker/user: update: %w", err)
	}
	return out, nil
}

// Reputation returns a user's current reputation.
func (s *Service) Reputation(ctx context.Context, userID string) (Reputation, error) {
	if userID == "" {
		return Reputation{}, fmt.Errorf("devblocker/user: userID cannot be empty")
	}
	var out Reputation
	if err := s.api.Get(ctx, "/users/"+userID+"/reputation", nil, &out); err != nil {
		return Reputation{}, fmt.Errorf("devblocker/user: reputation: %w", err)
	}
	return out, nil
}

type incrementRequest struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
	Source string `json:"source,omitempty"`
}

// IncrementReputation awards points to a user.
func (s *Service) IncrementReputation(ctx context.Context, userID string, points int, reason, source string) (Reputation, error) {
	if userID == "" {
		return Reputation{}, fmt.Errorf("devblocker/user: userID cannot be empty")
	}
	var out Reputation
	err := s.api.Post(ctx, "/users/"+userID+"/reputation/increment",
		incrementRequest{Points: points, Reason: reason, Source: source}, &out)
	if err != nil {
		return Reputation{}, fmt.Errorf("devblocker/user: increment reputation: %w", err)
	}
	return out, nil
}

// ReputationHistory returns one page of a user's reputation changes.
func (s *Service) ReputationHistory(ctx context.Context, userID string, page, size int) (Page[ReputationEvent], error) {
	if userID == "" {
		return Page[ReputationEvent]{}, fmt.Errorf("devblocker/user: userID cannot be empty")
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	var out Page[ReputationEvent]
	if err := s.api.Get(ctx, "/users/"+userID+"/reputation/history", q, &out); err != nil {
		return Page[ReputationEvent]{}, fmt.Errorf("devblocker/user: reputation history: %w", err)
	}
	return out, nil
}

// Badges returns the badges a user has earned.
func (s *Service) Badges(ctx context.Context, userID string) ([]Badge, error) {
	if userID == "" {
		return nil, fmt.Errorf("devblocker/user: userID cannot be empty")
	}
	var out []Badge
	if err := s.api.Get(ctx, "/users/"+userID+"/badges", nil, &out); err != nil {
		return nil, fmt.Errorf("devblocker/user: badges: %w", err)
	}
	return out, nil
}

// Teams returns the teams a user belongs to.
func (s *Service) Teams(ctx context.Context, userID string) ([]Team, error) {
	if userID == "" {
		return nil, fmt.Errorf("devblocker/user: userID cannot be empty")
	}
	var out []Team
	if err := s.api.Get(ctx, "/users/"+userID+"/teams", nil, &out); err != nil {
		return nil, fmt.Errorf("devblocker/user: teams: %w", err)
	}
	return out, nil
}

// Search returns one page of users matching the filters.
func (s *Service) Search(ctx context.Context, req SearchRequest) (Page[Profile], error) {
	var out Page[Profile]
	if err := s.api.Get(ctx, "/users/search", req.query(), &out); err != nil {
		return Page[Profile]{}, fmt.Errorf("devblocker/user: search: %w", err)
	}
	return out, nil
}
