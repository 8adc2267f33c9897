package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"evshare/pkg/model"
)

func TestIdentity(t *testing.T) {
	var gotActor model.Actor
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, gotOK = ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Identity()(next)

	tests := []struct {
		name       string
		userID     string
		roles      string
		wantStatus int
		wantRoles  []string
	}{
		{
			name:       "user with roles",
			userID:     "alice",
			roles:      "member, platform_admin",
			wantStatus: http.StatusOK,
			wantRoles:  []string{"member", "platform_admin"},
		},
		{
			name:       "user without roles",
			userID:     "bob",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing user ID",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "blank user ID",
			userID:     "   ",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotActor, gotOK = model.Actor{}, false

			r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.roles != "" {
				r.Header.Set(HeaderUserRoles, tt.roles)
			}
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if gotOK {
					t.Error("next handler should not run without identity")
				}
				return
			}
			if !gotOK {
				t.Fatal("actor missing from request context")
			}
			if gotActor.UserID != tt.userID {
				t.Errorf("UserID = %q, want %q", gotActor.UserID, tt.userID)
			}
			if len(gotActor.Roles) != len(tt.wantRoles) {
				t.Fatalf("Roles = %v, want %v", gotActor.Roles, tt.wantRoles)
			}
			for i, role := range tt.wantRoles {
				if gotActor.Roles[i] != role {
					t.Errorf("Roles[%d] = %q, want %q", i, gotActor.Roles[i], role)
				}
			}
		})
	}
}

func TestActorFromWithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	if _, ok := ActorFrom(r.Context()); ok {
		t.Error("expected no actor on an unwrapped request")
	}
}
