package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"astrocrm/internal/access"
	"astrocrm/internal/models/db_models"
	"astrocrm/pkg/metrics"
	"astrocrm/pkg/utils"
)

const (
	accountKey  = "astrocrm.account"
	identityKey = "astrocrm.identity"
)

// Guard runs the account gate in front of protected routes.
type Guard struct {
	gate    *access.Gate
	metrics *metrics.Metrics
}

func NewGuard(gate *access.Gate, m *metrics.Metrics) *Guard {
	return &Guard{gate: gate, metrics: m}
}

// Authenticate resolves the bearer token to an account and records the caller's identity.
func (g *Guard) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			g.metrics.GateDecision("unauthenticated")
			utils.RespondError(c, http.StatusUnauthorized, "No token, access denied")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		account, err := g.gate.ResolveIdentity(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrUnauthenticated) {
				g.metrics.GateDecision("unauthenticated")
			}
			utils.HandleServiceError(c, err)
			return
		}

		c.Set(accountKey, account)
		c.Set(identityKey, access.IdentityOf(account))
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func (g *Guard) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if err := access.AuthorizeRole(account, roles...); err != nil {
			g.metrics.GateDecision("forbidden")
			utils.HandleServiceError(c, err)
			return
		}
		c.Next()
	}
}

// RequireApproval must run after Authenticate. Admins always pass.
func (g *Guard) RequireApproval() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if err := access.CheckApproval(account); err != nil {
			g.metrics.GateDecision("not_approved")
			utils.HandleServiceError(c, err)
			return
		}
		g.metrics.GateDecision("allow")
		c.Next()
	}
}

// CurrentAccount returns the account resolved by Authenticate.
func CurrentAccount(c *gin.Context) (*db_models.Account, bool) {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*db_models.Account)
	return account, ok && account != nil
}

// CurrentIdentity returns the caller's identity recorded by Authenticate.
func CurrentIdentity(c *gin.Context) (access.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return access.Identity{}, false
	}
	id, ok := v.(access.Identity)
	return id, ok
}
