// Package fake provides an in-memory DevBlocker backend for testing.
//
// Use fake.NewServer() in unit tests to stand in for all six backend
// services at once: it serves the auth, user, blocker, solution, comment
// and notification APIs from one address, mints real (HMAC-signed) JWTs,
// and exposes switches to expire access tokens or revoke refresh tokens so
// the 401 refresh protocol can be driven deterministically.
package fake

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	devblocker "github.com/aayushpawar07/devblocker-go"
	"github.com/aayushpawar07/devblocker-go/blocker"
	"github.com/aayushpawar07/devblocker-go/comment"
	"github.com/aayushpawar07/devblocker-go/notification"
	"github.com/aayushpawar07/devblocker-go/session"
	"github.com/aayushpawar07/devblocker-go/solution"
)

// Account is one fake user account.
type Account struct {
	UserID   string
	Name     string
	Email    string
	Password string
	Role     session.Role
	OrgID    string
	GroupIDs []string
}

type state struct {
	users         map[string]*Account // email → account
	organizations map[string]organizationRecord
	groups        map[string][]groupRecord // orgID → groups
	blockers      map[string]*blocker.Blocker
	solutions     map[string]*solution.Solution
	comments      map[string]*comment.Comment
	notifications map[string][]*notification.Notification // userID → list
	otps          map[string]string                       // email → code
	validAccess   map[string]string                       // access token → userID
	refreshes     map[string]string                       // refresh token → email
	files         map[string][]byte                       // fileID → content
}

type organizationRecord struct {
	OrgID  string `json:"orgId"`
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
}

type groupRecord struct {
	GroupID     string   `json:"groupId"`
	OrgID       string   `json:"orgId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"-"`
}

// Option seeds the fake server.
type Option func(*state)

// WithUser adds a verified individual account.
func WithUser(name, email, password string) Option {
	return func(s *state) {
		s.users[email] = &Account{
			UserID:   uuid.NewString(),
			Name:     name,
			Email:    email,
			Password: password,
		}
	}
}

// WithAccount adds a fully specified account. A missing UserID is
// generated.
func WithAccount(a Account) Option {
	return func(s *state) {
		if a.UserID == "" {
			a.UserID = uuid.NewString()
		}
		s.users[a.Email] = &a
	}
}

// WithOrganization adds an organization together with its admin account.
func WithOrganization(name, domain, adminName, adminEmail, adminPassword string) Option {
	return func(s *state) {
		orgID := uuid.NewString()
		s.organizations[orgID] = organizationRecord{OrgID: orgID, Name: name, Domain: domain}
		s.users[adminEmail] = &Account{
			UserID:   uuid.NewString(),
			Name:     adminName,
			Email:    adminEmail,
			Password: adminPassword,
			Role:     session.RoleOrgAdmin,
			OrgID:    orgID,
		}
	}
}

// WithNotification queues a notification for a user.
func WithNotification(n notification.Notification) Option {
	return func(s *state) {
		if n.NotificationID == "" {
			n.NotificationID = uuid.NewString()
		}
		s.notifications[n.UserID] = append(s.notifications[n.UserID], &n)
	}
}

// Server is the in-memory backend.
type Server struct {
	mu     sync.Mutex
	state  *state
	secret []byte
	srv    *httptest.Server
}

// NewServer starts a fake backend. Callers must Close it.
func NewServer(opts ...Option) *Server {
	st := &state{
		users:         make(map[string]*Account),
		organizations: make(map[string]organizationRecord),
		groups:        make(map[string][]groupRecord),
		blockers:      make(map[string]*blocker.Blocker),
		solutions:     make(map[string]*solution.Solution),
		comments:      make(map[string]*comment.Comment),
		notifications: make(map[string][]*notification.Notification),
		otps:          make(map[string]string),
		validAccess:   make(map[string]string),
		refreshes:     make(map[string]string),
		files:         make(map[string][]byte),
	}
	for _, o := range opts {
		o(st)
	}

	s := &Server{state: st, secret: []byte("fake-signing-secret")}
	s.srv = httptest.NewServer(s.routes())
	return s
}

// URL returns the base address all six fake services share.
func (s *Server) URL() string { return s.srv.URL }

// Config returns a client configuration pointing every service at this
// fake.
func (s *Server) Config() devblocker.Config {
	return devblocker.Config{
		AuthURL:         s.srv.URL,
		UserURL:         s.srv.URL,
		BlockerURL:      s.srv.URL,
		SolutionURL:     s.srv.URL,
		CommentURL:      s.srv.URL,
		NotificationURL: s.srv.URL,
	}
}

// Close shuts the fake backend down.
func (s *Server) Close() { s.srv.Close() }

// ExpireAccessTokens invalidates every issued access token, so the next
// authenticated request fails with 401 and triggers the refresh protocol.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.validAccess = make(map[string]string)
}

// RevokeRefreshTokens invalidates every issued refresh token, making the
// next refresh exchange fail terminally.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.refreshes = make(map[string]string)
}

// OTPFor returns the last one-time passcode sent to email.
func (s *Server) OTPFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.otps[email]
}

// AccountFor returns the seeded account for email.
func (s *Server) AccountFor(email string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.users[email]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// auth service
	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/v1/auth/send-otp", s.handleSendOTP)
	mux.HandleFunc("POST /api/v1/auth/verify-otp", s.handleVerifyOTP)
	mux.HandleFunc("POST /api/v1/organizations/register", s.handleOrgRegister)
	mux.HandleFunc("GET /api/v1/organizations/{orgId}", s.authed(s.handleOrgGet))
	mux.HandleFunc("POST /api/v1/organizations/{orgId}/groups", s.authed(s.handleGroupCreate))
	mux.HandleFunc("GET /api/v1/organizations/{orgId}/groups", s.authed(s.handleGroupList))
	mux.HandleFunc("POST /api/v1/organizations/{orgId}/groups/{groupId}/members/{userId}", s.authed(s.handleMemberAdd))
	mux.HandleFunc("DELETE /api/v1/organizations/{orgId}/groups/{groupId}/members/{userId}", s.authed(s.handleMemberRemove))

	// blocker service
	mux.HandleFunc("POST /api/v1/blockers", s.authed(s.handleBlockerCreate))
	mux.HandleFunc("GET /api/v1/blockers", s.authed(s.handleBlockerList))
	mux.HandleFunc("GET /api/v1/blockers/{id}", s.authed(s.handleBlockerGet))
	mux.HandleFunc("POST /api/v1/blockers/{id}/resolve", s.authed(s.handleBlockerResolve))
	mux.HandleFunc("POST /api/v1/blockers/upload", s.authed(s.handleUpload))
	mux.HandleFunc("GET /api/v1/blockers/files/{fileId}", s.handleFileGet)

	// solution service
	mux.HandleFunc("POST /api/v1/blockers/{id}/solutions", s.authed(s.handleSolutionAdd))
	mux.HandleFunc("GET /api/v1/blockers/{id}/solutions", s.authed(s.handleSolutionList))
	mux.HandleFunc("POST /api/v1/solutions/{id}/upvote", s.authed(s.handleSolutionUpvote))
	mux.HandleFunc("POST /api/v1/solutions/{id}/accept", s.authed(s.handleSolutionAccept))
	mux.HandleFunc("POST /api/v1/solutions/upload", s.authed(s.handleUpload))

	// comment service
	mux.HandleFunc("POST /api/v1/blockers/{id}/comments", s.authed(s.handleCommentAdd))
	mux.HandleFunc("GET /api/v1/blockers/{id}/comments", s.authed(s.handleCommentList))
	mux.HandleFunc("POST /api/v1/comments/{id}/reply", s.authed(s.handleCommentReply))

	// notification service
	mux.HandleFunc("GET /api/v1/notifications", s.authed(s.handleNotificationList))
	mux.HandleFunc("POST /api/v1/notifications/{id}/mark-read", s.authed(s.handleNotificationMarkRead))
	mux.HandleFunc("GET /api/v1/notifications/unread-count", s.authed(s.handleUnreadCount))

	return mux
}

// authed rejects requests whose bearer token is missing, unknown or
// expired.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.state.validAccess[token]
		s.mu.Unlock()
		if token == "" || !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r)
	}
}

func (s *Server) mintTokens(a *Account) (access, refresh string) {
	// jti keeps tokens minted within the same second distinct.
	claims := jwt.MapClaims{
		"jti":    uuid.NewString(),
		"userId": a.UserID,
		"email":  a.Email,
		"type":   "access",
		"exp":    time.Now().Add(15 * time.Minute).Unix(),
	}
	if a.Role != "" {
		claims["role"] = string(a.Role)
	}
	if a.OrgID != "" {
		claims["orgId"] = a.OrgID
	}
	if len(a.GroupIDs) > 0 {
		ids := make([]any, len(a.GroupIDs))
		for i, id := range a.GroupIDs {
			ids[i] = id
		}
		claims["groupIds"] = ids
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err := token.SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("fake: sign token: %v", err))
	}
	refresh = uuid.NewString()

	s.state.validAccess[access] = a.UserID
	s.state.refreshes[refresh] = a.Email
	return access, refresh
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.state.users[req.Email]; exists {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	account := &Account{
		UserID:   uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	s.state.users[req.Email] = account
	writeJSON(w, http.StatusCreated, map[string]string{
		"userId": account.UserID,
		"name":   account.Name,
		"email":  account.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.state.users[req.Email]
	if !ok || account.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	access, refresh := s.mintTokens(account)
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken":  access,
		"refreshToken": refresh,
		"userId":       account.UserID,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.state.refreshes[req.RefreshToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	account := s.state.users[email]
	access, _ := s.mintTokens(account)
	// Plain refresh never rotates the refresh token.
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": access})
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Type  string `json:"type"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.users[req.Email]; !ok {
		writeError(w, http.StatusNotFound, "No account for this email")
		return
	}
	s.state.otps[req.Email] = fmt.Sprintf("%06d", len(s.state.otps)+100000)
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
		Type  string `json:"type"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.state.otps[req.Email]; !ok || code != req.Code {
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}
	delete(s.state.otps, req.Email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}

func (s *Server) handleOrgRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizationName string `json:"organizationName"`
		Domain           string `json:"domain"`
		AdminName        string `json:"adminName"`
		AdminEmail       string `json:"adminEmail"`
		AdminPassword    string `json:"adminPassword"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.OrganizationName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"organizationName": "Organization name is required",
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	orgID := uuid.NewString()
	org := organizationRecord{OrgID: orgID, Name: req.OrganizationName, Domain: req.Domain}
	s.state.organizations[orgID] = org
	s.state.users[req.AdminEmail] = &Account{
		UserID:   uuid.NewString(),
		Name:     req.AdminName,
		Email:    req.AdminEmail,
		Password: req.AdminPassword,
		Role:     session.RoleOrgAdmin,
		OrgID:    orgID,
	}
	writeJSON(w, http.StatusCreated, org)
}

func (s *Server) handleOrgGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.state.organizations[r.PathValue("orgId")]
	if !ok {
		writeError(w, http.StatusNotFound, "Organization not found")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (s *Server) handleGroupCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	orgID := r.PathValue("orgId")
	group := groupRecord{
		GroupID:     uuid.NewString(),
		OrgID:       orgID,
		Name:        req.Name,
		Description: req.Description,
	}
	s.state.groups[orgID] = append(s.state.groups[orgID], group)
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGroupList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := s.state.groups[r.PathValue("orgId")]
	if groups == nil {
		groups = []groupRecord{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleMemberAdd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orgID, groupID, userID := r.PathValue("orgId"), r.PathValue("groupId"), r.PathValue("userId")
	groups := s.state.groups[orgID]
	for i := range groups {
		if groups[i].GroupID == groupID {
			groups[i].Members = append(groups[i].Members, userID)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Member added"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Group not found")
}

func (s *Server) handleMemberRemove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orgID, groupID, userID := r.PathValue("orgId"), r.PathValue("groupId"), r.PathValue("userId")
	groups := s.state.groups[orgID]
	for i := range groups {
		if groups[i].GroupID != groupID {
			continue
		}
		members := groups[i].Members[:0]
		for _, m := range groups[i].Members {
			if m != userID {
				members = append(members, m)
			}
		}
		groups[i].Members = members
		writeJSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
		return
	}
	writeError(w, http.StatusNotFound, "Group not found")
}

func (s *Server) handleBlockerCreate(w http.ResponseWriter, r *http.Request) {
	var req blocker.CreateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"title": "Title is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := &blocker.Blocker{
		BlockerID:   uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      blocker.StatusOpen,
		Severity:    req.Severity,
		CreatedBy:   req.CreatedBy,
		AssignedTo:  req.AssignedTo,
		TeamID:      req.TeamID,
		Tags:        req.Tags,
		MediaURLs:   req.MediaURLs,
	}
	s.state.blockers[b.BlockerID] = b
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleBlockerList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := r.URL.Query().Get("status")
	content := []*blocker.Blocker{}
	for _, b := range s.state.blockers {
		if status != "" && string(b.Status) != status {
			continue
		}
		content = append(content, b)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content":       content,
		"number":        0,
		"size":          len(content),
		"totalElements": len(content),
		"totalPages":    1,
	})
}

func (s *Server) handleBlockerGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.state.blockers[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Blocker not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleBlockerResolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BestSolutionID string `json:"bestSolutionId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.state.blockers[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Blocker not found")
		return
	}
	b.Status = blocker.StatusResolved
	b.BestSolutionID = req.BestSolutionID
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var urls []string
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unreadable file part")
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unreadable file part")
			return
		}
		fileID := uuid.NewString()
		s.state.files[fileID] = data
		urls = append(urls, "/api/v1/blockers/files/"+fileID)
	}
	if urls == nil {
		urls = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"fileUrls": urls})
}

func (s *Server) handleFileGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.state.files[r.PathValue("fileId")]
	if !ok {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (s *Server) handleSolutionAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		UserID  string `json:"userId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sol := &solution.Solution{
		SolutionID: uuid.NewString(),
		BlockerID:  r.PathValue("id"),
		UserID:     req.UserID,
		Content:    req.Content,
	}
	s.state.solutions[sol.SolutionID] = sol
	writeJSON(w, http.StatusCreated, sol)
}

func (s *Server) handleSolutionList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blockerID := r.PathValue("id")
	out := []*solution.Solution{}
	for _, sol := range s.state.solutions {
		if sol.BlockerID == blockerID {
			out = append(out, sol)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSolutionUpvote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sol, ok := s.state.solutions[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Solution not found")
		return
	}
	sol.Upvotes++
	writeJSON(w, http.StatusOK, sol)
}

func (s *Server) handleSolutionAccept(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sol, ok := s.state.solutions[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Solution not found")
		return
	}
	sol.Accepted = true
	writeJSON(w, http.StatusOK, sol)
}

func (s *Server) handleCommentAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		UserID  string `json:"userId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cm := &comment.Comment{
		CommentID: uuid.NewString(),
		BlockerID: r.PathValue("id"),
		UserID:    req.UserID,
		Content:   req.Content,
	}
	s.state.comments[cm.CommentID] = cm
	writeJSON(w, http.StatusCreated, cm)
}

func (s *Server) handleCommentList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blockerID := r.PathValue("id")
	out := []*comment.Comment{}
	for _, cm := range s.state.comments {
		if cm.BlockerID == blockerID && cm.ParentCommentID == "" {
			out = append(out, cm)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCommentReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		UserID  string `json:"userId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	parent, ok := s.state.comments[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	reply := &comment.Comment{
		CommentID:       uuid.NewString(),
		BlockerID:       parent.BlockerID,
		UserID:          req.UserID,
		ParentCommentID: parent.CommentID,
		Content:         req.Content,
	}
	s.state.comments[reply.CommentID] = reply
	parent.Replies = append(parent.Replies, *reply)
	parent.ReplyCount++
	writeJSON(w, http.StatusCreated, reply)
}

func (s *Server) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := r.URL.Query().Get("userId")
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	content := []*notification.Notification{}
	for _, n := range s.state.notifications[userID] {
		if unreadOnly && n.Read {
			continue
		}
		content = append(content, n)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content":       content,
		"page":          0,
		"size":          len(content),
		"totalElements": len(content),
		"totalPages":    1,
	})
}

func (s *Server) handleNotificationMarkRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := r.URL.Query().Get("userId")
	notificationID := r.PathValue("id")
	for _, n := range s.state.notifications[userID] {
		if n.NotificationID == notificationID {
			n.Read = true
			writeJSON(w, http.StatusOK, map[string]string{"message": "Marked read"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Notification not found")
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := r.URL.Query().Get("userId")
	count := 0
	for _, n := range s.state.notifications[userID] {
		if !n.Read {
			count++
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(strconv.Itoa(count)))
}

func decode(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
