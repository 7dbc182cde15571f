// Package blocker is the typed client for the blocker service.
package blocker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aayushpawar07/devblocker-go/internal/jsontime"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// Status of a blocker.
type Status string

// Blocker statuses.
const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
	StatusDuplicate  Status = "DUPLICATE"
)

// Severity of a blocker.
type Severity string

// Blocker severities.
const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityTrivial  Severity = "TRIVIAL"
)

// Visibility controls who can see a blocker.
type Visibility string

// Blocker visibilities.
const (
	VisibilityPublic Visibility = "PUBLIC"
	VisibilityOrg    Visibility = "ORG"
	VisibilityGroup  Visibility = "GROUP"
)

// Blocker is a tracked issue managed by the blocker service.
type Blocker struct {
	BlockerID      string        `json:"blockerId"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Status         Status        `json:"status"`
	Severity       Severity      `json:"severity"`
	CreatedBy      string        `json:"createdBy"`
	AssignedTo     string        `json:"assignedTo,omitempty"`
	TeamID         string        `json:"teamId,omitempty"`
	BestSolutionID string        `json:"bestSolutionId,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	MediaURLs      []string      `json:"mediaUrls,omitempty"`
	CreatedAt      jsontime.Time `json:"createdAt"`
	UpdatedAt      jsontime.Time `json:"updatedAt"`
	ResolvedAt     jsontime.Time `json:"resolvedAt"`
}

// Page is one page of blockers.
type Page struct {
	Content       []Blocker `json:"content"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

// CreateRequest creates a new blocker.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
	CreatedBy   string     `json:"createdBy"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	TeamID      string     `json:"teamId,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty"`
	OrgID       string     `json:"orgId,omitempty"`
	GroupID     string     `json:"groupId,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	MediaURLs   []string   `json:"mediaUrls,omitempty"`
}

// UpdateRequest updates an existing blocker. Zero fields are left unchanged.
type UpdateRequest struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
	AssignedTo  string   `json:"assignedTo,omitempty"`
	TeamID      string   `json:"teamId,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Filter narrows and pages a blocker listing.
type Filter struct {
	Status   Status
	Severity Severity
	TeamCode string
	Search   string
	UserID   string
	Page     int
	Size     int
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Severity != "" {
		q.Set("severity", string(f.Severity))
	}
	if f.TeamCode != "" {
		q.Set("teamCode", f.TeamCode)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	q.Set("page", strconv.Itoa(f.Page))
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	return q
}

// Service exposes the blocker service operations. Each operation is a single
// HTTP call; authentication and the 401 retry protocol live in the transport.
type Service struct {
	api *transport.Client
}

// New creates a blocker service over the given transport client.
func New(api *transport.Client) *Service {
	return &Service{api: api}
}

// Create creates a blocker.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Blocker, error) {
	var out Blocker
	if err := s.api.Post(ctx, "/blockers", req, &out); err != nil {
		return Blocker{}, fmt.Errorf("devblocker/blocker: create: %w", err)
	}
	return out, nil
}

// List returns one page of blockers matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) (Page, error) {
	var out Page
	if err := s.api.Get(ctx, "/blockers", filter.query(), &out); err != nil {
		return Page{}, fmt.Errorf("devblocker/blocker: list: %w", err)
	}
	return out, nil
}

// Get returns one blocker by ID.
func (s *Service) Get(ctx context.Context, blockerID string) (Blocker, error) {
	if blockerID == "" {
		return Blocker{}, fmt.Errorf("devblocker/blocker: blockerID cannot be empty")
	}
	var out Blocker
	if err := s.api.Get(ctx, "/blockers/"+blockerID, nil, &out); err != nil {
		return Blocker{}, fmt.Errorf("devblocker/blocker: get: %w", err)
	}
	return out, nil
}

// Update updates a blocker.
func (s *Service) Update(ctx context.Context, blockerID string, req UpdateRequest) (Blocker, error) {
	if blockerID == "" {
		return Blocker{}, fmt.Errorf("devblocker/blocker: blockerID cannot be empty")
	}
	var out Blocker
	if err := s.api.Put(ctx, "/blockers/"+blockerID, req, &out); err != nil {
		return Blocker{}, fmt.Errorf("devblocker/blocker: update: %w", err)
	}
	return out, nil
}

type resolveRequest struct {
	BestSolutionID string `json:"bestSolutionId,omitempty"`
}

// Resolve marks a blocker resolved. resolvedBy is carried in the X-User-Id
// header, as the blocker service expects.
func (s *Service) Resolve(ctx context.Context, blockerID, bestSolutionID, resolvedBy string) (Blocker, error) {
	if blockerID == "" {
		return Blocker{}, fmt.Errorf("devblocker/blocker: blockerID cannot be empty")
	}
	header := http.Header{}
	if resolvedBy != "" {
		header.Set("X-User-Id", resolvedBy)
	}
	var out Blocker
	err := s.api.Do(ctx, http.MethodPost, "/blockers/"+blockerID+"/resolve", nil, header,
		resolveRequest{BestSolutionID: bestSolutionID}, &out)
	if err != nil {
		return Blocker{}, fmt.Errorf("devblocker/blocker: resolve: %w", err)
	}
	return out, nil
}

type bestSolutionRequest struct {
	BestSolutionID string `json:"bestSolutionId"`
}

// SetBestSolution records the best solution for a blocker.
func (s *Service) SetBestSolution(ctx context.Context, blockerID, solutionID string) (Blocker, error) {
	if blockerID == "" {
		return Blocker{}, fmt.Errorf("devblocker/blocker: blockerID cannot be empty")
	}
	var out Blocker
	err := s.api.Put(ctx, "/blockers/"+blockerID+"/best-solution",
		bestSolutionRequest{BestSolutionID: solutionID}, &out)
	if err != nil {
		return Blocker{}, fmt.Errorf("devblocker/blocker: set best solution: %w", err)
	}
	return out, nil
}

type uploadResponse struct {
	FileURLs []string `json:"fileUrls"`
}

// UploadFiles uploads attachments as one multipart request, all parts under
// the "files" field, and returns the stored file references.
func (s *Service) UploadFiles(ctx context.Context, files []transport.File) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("devblocker/blocker: no files to upload")
	}
	var out uploadResponse
	if err := s.api.PostMultipart(ctx, "/blockers/upload", "files", files, &out); err != nil {
		return nil, fmt.Errorf("devblocker/blocker: upload: %w", err)
	}
	if out.FileURLs == nil {
		return nil, fmt.Errorf("devblocker/blocker: upload response missing fileUrls")
	}
	return out.FileURLs, nil
}

// FileURL resolves a stored file reference to a fetchable URL. Absolute URLs
// pass through unchanged; otherwise the last path segment is treated as the
// file ID and mapped to the blocker service's file-retrieval endpoint.
func (s *Service) FileURL(ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	fileID := ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		fileID = ref[i+1:]
	}
	return s.api.BaseURL() + transport.PathPrefix + "/blockers/files/" + fileID
}
