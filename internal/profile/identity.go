package profile

import (
	"net/http"
	"strings"
)

// Identity headers set by the fronting auth proxy. The service trusts them
// blindly; it is never exposed without the proxy.
const (
	HeaderUserID    = "X-Replit-User-Id"
	HeaderUserName  = "X-Replit-User-Name"
	HeaderUserRoles = "X-Replit-User-Roles"
)

// Identity is the opaque authenticated caller.
type Identity struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// FromRequest extracts the caller identity from proxy headers. ok is false
// for anonymous requests.
func FromRequest(r *http.Request) (Identity, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	name := strings.TrimSpace(r.Header.Get(HeaderUserName))
	if id == "" || name == "" {
		return Identity{}, false
	}

	var roles []string
	if raw := strings.TrimSpace(r.Header.Get(HeaderUserRoles)); raw != "" {
		for _, role := range strings.Split(raw, ",") {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
	}

	return Identity{ID: id, Name: name, Roles: roles}, true
}
