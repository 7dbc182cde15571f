// Package notification is the typed client for the notification service.
package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aayushpawar07/devblocker-go/internal/jsontime"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// Type categorizes a notification.
type Type string

// Notification types emitted by the backend.
const (
	TypeBlockerCreated   Type = "BLOCKER_CREATED"
	TypeCommentAdded     Type = "COMMENT_ADDED"
	TypeSolutionAdded    Type = "SOLUTION_ADDED"
	TypeSolutionAccepted Type = "SOLUTION_ACCEPTED"
	TypeSolutionUpvoted  Type = "SOLUTION_UPVOTED"
	TypeUserMentioned    Type = "USER_MENTIONED"
	TypeBlockerResolved  Type = "BLOCKER_RESOLVED"
	TypeBlockerUpdated   Type = "BLOCKER_UPDATED"
)

// Notification is one delivered notification.
type Notification struct {
	NotificationID    string        `json:"notificationId"`
	UserID            string        `json:"userId"`
	Type              Type          `json:"type"`
	Title             string        `json:"title"`
	Message           string        `json:"message"`
	RelatedEntityID   string        `json:"relatedEntityId,omitempty"`
	RelatedEntityType string        `json:"relatedEntityType,omitempty"`
	Read              bool          `json:"read"`
	CreatedAt         jsontime.Time `json:"createdAt"`
}

// Page is one page of notifications.
type Page struct {
	Content       []Notification `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

// ListOptions narrows and pages a notification listing.
type ListOptions struct {
	UnreadOnly bool
	Page       int
	Size       int
}

// Service exposes the notification service operations.
type Service struct {
	api *transport.Client
}

// New creates a notification service over the given transport client.
func New(api *transport.Client) *Service {
	return &Service{api: api}
}

// List returns one page of a user's notifications.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) (Page, error) {
	if userID == "" {
		return Page{}, fmt.Errorf("devblocker/notification: userID cannot be empty")
	}
	q := url.Values{}
	q.Set("userId", userID)
	if opts.UnreadOnly {
		q.Set("unreadOnly", "true")
	}
	q.Set("page", strconv.Itoa(opts.Page))
	if opts.Size > 0 {
		q.Set("size", strconv.Itoa(opts.Size))
	}

	var out Page
	if err := s.api.Get(ctx, "/notifications", q, &out); err != nil {
		return Page{}, fmt.Errorf("devblocker/notification: list: %w", err)
	}
	return out, nil
}

// MarkRead marks one notification as read for the given user.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) error {
	if notificationID == "" {
		return fmt.Errorf("devblocker/notification: notificationID cannot be empty")
	}
	q := url.Values{}
	q.Set("userId", userID)
	err := s.api.Do(ctx, http.MethodPost, "/notifications/"+notificationID+"/mark-read", q, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("devblocker/notification: mark read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user.
// The backend responds with a bare JSON number.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("devblocker/notification: userID cannot be empty")
	}
	q := url.Values{}
	q.Set("userId", userID)
	var count int64
	if err := s.api.Get(ctx, "/notifications/unread-count", q, &count); err != nil {
		return 0, fmt.Errorf("devblocker/notification: unread count: %w", err)
	}
	return count, nil
}
