package organization

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aayushpawar07/devblocker-go/session"
	"github.com/aayushpawar07/devblocker-go/transport"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	store := session.NewStore(session.NewMemoryStorage())
	if err := store.SetTokens("at", "rt"); err != nil {
		srv.Close()
		t.Fatalf("SetTokens: %v", err)
	}
	api, err := transport.New("auth", srv.URL, store, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("transport.New: %v", err)
	}
	return New(api), srv.Close
}

func TestService_Register(t *testing.T) {
	s, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/organizations/register" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.OrganizationName != "Acme" || req.AdminEmail != "admin@acme.dev" {
			t.Errorf("req = %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"orgId":"org1","name":"Acme","domain":"acme.dev"}`))
	}))
	defer closeSrv()

	org, err := s.Register(context.Background(), RegisterRequest{
		OrganizationName: "Acme",
		Domain:           "acme.dev",
		AdminName:        "Admin",
		AdminEmail:       "admin@acme.dev",
		AdminPassword:    "pw",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if org.OrgID != "org1" {
		t.Errorf("org = %+v", org)
	}
}

func TestService_Groups(t *testing.T) {
	s, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/organizations/org1/groups":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"groupId":"g1","orgId":"org1","name":"backend"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/organizations/org1/groups":
			_, _ = w.Write([]byte(`[{"groupId":"g1","orgId":"org1","name":"backend"}]`))
		default:
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
	}))
	defer closeSrv()

	ctx := context.Background()
	g, err := s.CreateGroup(ctx, "org1", CreateGroupRequest{Name: "backend"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if g.GroupID != "g1" {
		t.Errorf("group = %+v", g)
	}

	groups, err := s.ListGroups(ctx, "org1")
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("groups = %+v", groups)
	}
}

func TestService_Membership(t *testing.T) {
	var methods []string
	s, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/organizations/org1/groups/g1/members/u1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer closeSrv()

	ctx := context.Background()
	if err := s.AddMember(ctx, "org1", "g1", "u1"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := s.RemoveMember(ctx, "org1", "g1", "u1"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodDelete {
		t.Errorf("methods = %v", methods)
	}
}

func TestService_RequiredIDs(t *testing.T) {
	s, closeSrv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request issued with missing IDs")
	}))
	defer closeSrv()

	ctx := context.Background()
	if _, err := s.Get(ctx, ""); err == nil {
		t.Error("Get: want error")
	}
	if err := s.AddMember(ctx, "org1", "", "u1"); err == nil {
		t.Error("AddMember: want error")
	}
	if _, err := s.ListMembers(ctx, "", "g1"); err == nil {
		t.Error("ListMembers: want error")
	}
}
