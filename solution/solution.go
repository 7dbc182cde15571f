// Package solution is the typed client for the solution service.
package solution

import (
	"context"
	"fmt"
	"strings"

	"github.com/aayushpawar07/devblocker-go/internal/jsontime"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// Solution is a proposed fix for a blocker.
type Solution struct {
	SolutionID string        `json:"solutionId"`
	BlockerID  string        `json:"blockerId"`
	UserID     string        `json:"userId"`
	Content    string        `json:"content"`
	MediaURLs  []string      `json:"mediaUrls,omitempty"`
	Upvotes    int           `json:"upvotes"`
	Accepted   bool          `json:"accepted"`
	CreatedAt  jsontime.Time `json:"createdAt"`
}

// Stats summarizes a user's solution activity.
type Stats struct {
	TotalSolutions    int64 `json:"totalSolutions"`
	AcceptedSolutions int64 `json:"acceptedSolutions"`
}

// Service exposes the solution service operations.
type Service struct {
	api *transport.Client
}

// New creates a solution service over the given transport client.
func New(api *transport.Client) *Service {
	return &Service{api: api}
}

type addRequest struct {
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

// Add proposes a solution for a blocker.
func (s *Service) Add(ctx context.Context, blockerID, content, userID string) (Solution, error) {
	if blockerID == "" {
		return Solution{}, fmt.Errorf("devblocker/solution: blockerID cannot be empty")
	}
	var out Solution
	err := s.api.Post(ctx, "/blockers/"+blockerID+"/solutions",
		addRequest{Content: content, UserID: userID}, &out)
	if err != nil {
		return Solution{}, fmt.Errorf("devblocker/solution: add: %w", err)
	}
	return out, nil
}

// ListForBlocker returns all solutions proposed for a blocker.
func (s *Service) ListForBlocker(ctx context.Context, blockerID string) ([]Solution, error) {
	if blockerID == "" {
		return nil, fmt.Errorf("devblocker/solution: blockerID cannot be empty")
	}
	var out []Solution
	if err := s.api.Get(ctx, "/blockers/"+blockerID+"/solutions", nil, &out); err != nil {
		return nil, fmt.Errorf("devblocker/solution: list: %w", err)
	}
	return out, nil
}

// Get returns one solution by ID.
func (s *Service) Get(ctx context.Context, solutionID string) (Solution, error) {
	if solutionID == "" {
		return Solution{}, fmt.Errorf("devblocker/solution: solutionID cannot be empty")
	}
	var out Solution
	if err := s.api.Get(ctx, "/solutions/"+solutionID, nil, &out); err != nil {
		return Solution{}, fmt.Errorf("devblocker/solution: get: %w", err)
	}
	return out, nil
}

type userRequest struct {
	UserID string `json:"userId"`
}

// Upvote records an upvote by userID.
func (s *Service) Upvote(ctx context.Context, solutionID, userID string) (Solution, error) {
	if solutionID == "" {
		return Solution{}, fmt.Errorf("devblocker/solution: solutionID cannot be empty")
	}
	var out Solution
	err := s.api.Post(ctx, "/solutions/"+solutionID+"/upvote", userRequest{UserID: userID}, &out)
	if err != nil {
		return Solution{}, fmt.Errorf("devblocker/solution: upvote: %w", err)
	}
	return out, nil
}

// Accept marks a solution as accepted by userID.
func (s *Service) Accept(ctx context.Context, solutionID, userID string) (Solution, error) {
	if solutionID == "" {
		return Solution{}, fmt.Errorf("devblocker/solution: solutionID cannot be empty")
	}
	var out Solution
	err := s.api.Post(ctx, "/solutions/"+solutionID+"/accept", userRequest{UserID: userID}, &out)
	if err != nil {
		return Solution{}, fmt.Errorf("devblocker/solution: accept: %w", err)
	}
	return out, nil
}

// UserStats returns solution counters for a user.
func (s *Service) UserStats(ctx context.Context, userID string) (Stats, error) {
	if userID == "" {
		return Stats{}, fmt.Errorf("devblocker/solution: userID cannot be empty")
	}
	var out Stats
	if err := s.api.Get(ctx, "/users/"+userID+"/solutions/stats", nil, &out); err != nil {
		return Stats{}, fmt.Errorf("devblocker/solution: user stats: %w", err)
	}
	return out, nil
}

type uploadResponse struct {
	FileURLs []string `json:"fileUrls"`
}

// UploadFiles uploads attachments as one multipart request under the "files"
// field and returns the stored file references.
func (s *Service) UploadFiles(ctx context.Context, files []transport.File) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("devblocker/solution: no files to upload")
	}
	var out uploadResponse
	if err := s.api.PostMultipart(ctx, "/solutions/upload", "files", files, &out); err != nil {
		return nil, fmt.Errorf("devblocker/solution: upload: %w", err)
	}
	if out.FileURLs == nil {
		return nil, fmt.Errorf("devblocker/solution: upload response missing fileUrls")
	}
	return out.FileURLs, nil
}

// FileURL resolves a stored file reference to a fetchable URL. Absolute URLs
// pass through unchanged.
func (s *Service) FileURL(ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	fileID := ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		fileID = ref[i+1:]
	}
	return s.api.BaseURL() + transport.PathPrefix + "/solutions/files/" + fileID
}
