package middleware

import (
	"net/http"
	"strings"

	"venueops/internal/apierror"
	"venueops/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
	ScopeKey  = "branch_scope"

	// RoleOwner sees every branch.
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// JWTClaims are the custom claims embedded in every access token. Tokens are
// issued elsewhere; this service only validates them.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	BranchID string `json:"branch_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.WithReason("authentication required", apierror.ReasonUnauthorized))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.WithReason("invalid or expired token", apierror.ReasonUnauthorized))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithReason("insufficient permissions", apierror.ReasonForbidden))
			return
		}
		c.Next()
	}
}

// BranchScope turns the caller's claims into a repository.Scope. OWNER is
// unscoped unless it narrows itself with ?branch_id=; every other role is
// pinned to the branch in its token.
func BranchScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.WithReason("authentication required", apierror.ReasonUnauthorized))
			return
		}

		if claims.Role == RoleOwner {
			scope := repository.Unscoped()
			if q := c.Query("branch_id"); q != "" {
				id, err := uuid.Parse(q)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusBadRequest, apierror.InvalidInput("branch_id must be a UUID"))
					return
				}
				scope = repository.ForBranch(id)
			}
			c.Set(ScopeKey, scope)
			c.Next()
			return
		}

		id, err := uuid.Parse(claims.BranchID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithReason("token carries no branch", apierror.ReasonForbidden))
			return
		}
		c.Set(ScopeKey, repository.ForBranch(id))
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// GetScope returns the scope set by BranchScope. Without it the request
// would be unscoped, so a missing value is pinned to a branch nobody owns.
func GetScope(c *gin.Context) repository.Scope {
	if v, ok := c.Get(ScopeKey); ok {
		if s, ok := v.(repository.Scope); ok {
			return s
		}
	}
	return repository.ForBranch(uuid.Nil)
}
