package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/hrstack/staff-portal-api/internal/constants"
	apierrors "github.com/hrstack/staff-portal-api/internal/errors"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/repository"
	"github.com/hrstack/staff-portal-api/internal/services"
)

// Authenticator is the request gate. Every protected route runs two
// resolvers in order: the server-side session, then the bearer token. Both
// refetch the identity from its credential store and require it to be
// active; a stale claim over a deactivated account never authenticates.
type Authenticator struct {
	stores repository.Stores
	tokens *services.TokenService
}

// NewAuthenticator creates an Authenticator over the per-role stores.
func NewAuthenticator(stores repository.Stores, tokens *services.TokenService) *Authenticator {
	return &Authenticator{
		stores: stores,
		tokens: tokens,
	}
}

// RequireRoles gates a route to the given set of roles. A valid credential
// for the wrong tier fails as forbidden; no credential at all, or an
// invalid/inactive one, fails as unauthorized. One pass, no retries.
func (a *Authenticator) RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := a.resolveSession(c, roles); ok {
			c.Set(constants.ContextKeyIdentity, identity)
			c.Next()
			return
		}

		identity, ok, wrongTier := a.resolveToken(c, roles)
		if wrongTier {
			apierrors.Forbidden(c, "Access denied for this role")
			c.Abort()
			return
		}
		if !ok {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return a.RequireRoles(models.RoleAdmin)
}

func (a *Authenticator) RequireManager() gin.HandlerFunc {
	return a.RequireRoles(models.RoleManager)
}

func (a *Authenticator) RequireEmployee() gin.HandlerFunc {
	return a.RequireRoles(models.RoleEmployee)
}

func (a *Authenticator) RequireAdminOrManager() gin.HandlerFunc {
	return a.RequireRoles(models.RoleAdmin, models.RoleManager)
}

// resolveSession tries the session claim. Any failure falls through to the
// token path rather than rejecting outright.
func (a *Authenticator) resolveSession(c *gin.Context, allowed []models.Role) (models.Identity, bool) {
	session := sessions.Default(c)

	rawID := session.Get(constants.SessionKeyUserID)
	rawRole := session.Get(constants.SessionKeyRole)
	if rawID == nil || rawRole == nil {
		return nil, false
	}

	id, ok := rawID.(uint64)
	if !ok {
		return nil, false
	}
	roleStr, ok := rawRole.(string)
	if !ok {
		return nil, false
	}
	role, ok := models.ParseRole(roleStr)
	if !ok || !roleAllowed(role, allowed) {
		return nil, false
	}

	return a.loadActiveIdentity(role, id)
}

// resolveToken tries the Authorization bearer token. wrongTier reports a
// token that verified but names a role outside the allowed set.
func (a *Authenticator) resolveToken(c *gin.Context, allowed []models.Role) (identity models.Identity, ok bool, wrongTier bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false, false
	}

	claims, err := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false, false
	}

	if !roleAllowed(claims.Role, allowed) {
		return nil, false, true
	}

	identity, ok = a.loadActiveIdentity(claims.Role, claims.ID)
	return identity, ok, false
}

func (a *Authenticator) loadActiveIdentity(role models.Role, id uint64) (models.Identity, bool) {
	store, ok := a.stores.ByRole(role)
	if !ok {
		return nil, false
	}
	identity, err := store.FindIdentityByID(id)
	if err != nil || !identity.Active() {
		return nil, false
	}
	return identity, true
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentIdentity retrieves the identity bound by the gate.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	raw, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := raw.(models.Identity)
	return identity, ok
}
