package middleware

import (
	"context"
	"evshare/pkg/model"
	"net/http"
	"strings"
)

// The API gateway authenticates requests and forwards the verified identity
// in these headers. The services trust them completely; reaching a service
// without passing the gateway is a deployment error, not something this
// layer defends against.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRoles = "X-User-Roles"
)

const actorKey contextKey = "actor"

// Identity extracts the gateway-supplied actor into the request context.
// Requests without a user ID are rejected before reaching any handler.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if userID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing authenticated identity"}`))
				return
			}

			actor := model.Actor{
				UserID: userID,
				Roles:  parseRoles(r.Header.Get(HeaderUserRoles)),
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom returns the authenticated actor stored by the Identity
// middleware, or false when the request skipped it (health endpoints).
func ActorFrom(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}

func parseRoles(header string) []string {
	if header == "" {
		return nil
	}

	parts := strings.Split(header, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if role := strings.TrimSpace(p); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
