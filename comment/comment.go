// Package comment is the typed client for the comment service.
package comment

import (
	"context"
	"fmt"

	"github.com/aayushpawar07/devblocker-go/internal/jsontime"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// Comment is one entry of a blocker's discussion thread. Replies are nested
// one level deep for threaded display.
type Comment struct {
	CommentID       string        `json:"commentId"`
	BlockerID       string        `json:"blockerId"`
	UserID          string        `json:"userId"`
	ParentCommentID string        `json:"parentCommentId,omitempty"`
	Content         string        `json:"content"`
	CreatedAt       jsontime.Time `json:"createdAt"`
	Replies         []Comment     `json:"replies,omitempty"`
	ReplyCount      int           `json:"replyCount"`
}

// Service exposes the comment service operations.
type Service struct {
	api *transport.Client
}

// New creates a comment service over the given transport client.
func New(api *transport.Client) *Service {
	return &Service{api: api}
}

type writeRequest struct {
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

// Add posts a top-level comment on a blocker.
func (s *Service) Add(ctx context.Context, blockerID, content, userID string) (Comment, error) {
	if blockerID == "" {
		return Comment{}, fmt.Errorf("devblocker/comment: blockerID cannot be empty")
	}
	var out Comment
	err := s.api.Post(ctx, "/blockers/"+blockerID+"/comments",
		writeRequest{Content: content, UserID: userID}, &out)
	if err != nil {
		return Comment{}, fmt.Errorf("devblocker/comment: add: %w", err)
	}
	return out, nil
}

// ListForBlocker returns the comment thread of a blocker.
func (s *Service) ListForBlocker(ctx context.Context, blockerID string) ([]Comment, error) {
	if blockerID == "" {
		return nil, fmt.Errorf("devblocker/comment: blockerID cannot be empty")
	}
	var out []Comment
	if err := s.api.Get(ctx, "/blockers/"+blockerID+"/comments", nil, &out); err != nil {
		return nil, fmt.Errorf("devblocker/comment: list: %w", err)
	}
	return out, nil
}

// Get returns one comment by ID.
func (s *Service) Get(ctx context.Context, commentID string) (Comment, error) {
	if commentID == "" {
		return Comment{}, fmt.Errorf("devblocker/comment: commentID cannot be empty")
	}
	var out Comment
	if err := s.api.Get(ctx, "/comments/"+commentID, nil, &out); err != nil {
		return Comment{}, fmt.Errorf("devblocker/comment: get: %w", err)
	}
	return out, nil
}

// Reply posts a reply to an existing comment.
func (s *Service) Reply(ctx context.Context, commentID, content, userID string) (Comment, error) {
	if commentID == "" {
		return Comment{}, fmt.Errorf("devblocker/comment: commentID cannot be empty")
	}
	var out Comment
	err := s.api.Post(ctx, "/comments/"+commentID+"/reply",
		writeRequest{Content: content, UserID: userID}, &out)
	if err != nil {
		return Comment{}, fmt.Errorf("devblocker/comment: reply: %w", err)
	}
	return out, nil
}
