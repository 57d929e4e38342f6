// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextPrincipalKey is the gin context key for the authenticated principal.
const ContextPrincipalKey = "principal"

// Principal is the authenticated caller attached to a request by AuthRequired.
// Handlers read it instead of trusting identities sent in request bodies.
type Principal struct {
	Email string
	Role  string
}

// HasRole reports whether the principal holds one of roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// PrincipalResolver turns a raw bearer token into a Principal.
type PrincipalResolver interface {
	Resolve(rawToken string) (Principal, error)
}

// GetPrincipal extracts the Principal from a Gin context.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	value, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := value.(Principal)
	if !ok || p.Email == "" {
		return Principal{}, false
	}
	return p, true
}

// MustGetPrincipal extracts the Principal from a Gin context.
// If the request is not authenticated, it aborts with 401 and returns false.
func MustGetPrincipal(c *gin.Context) (Principal, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		AbortError(c, http.StatusUnauthorized, msgUnauthorized)
		return Principal{}, false
	}
	return p, true
}
