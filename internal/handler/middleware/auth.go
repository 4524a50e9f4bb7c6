package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"salon-reserve/internal/pkg/config"
	"salon-reserve/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ctxTenantIDKey = "tenant_id"
	ctxActorIDKey  = "actor_id"
	ctxRoleKey     = "actor_role"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var roleHierarchy = map[string]int{
	RoleStaff: 1,
	RoleAdmin: 2,
}

var errInvalidClaims = errs.New("invalid token claims")

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(cfg.Secret)}
}

// RequireAuth validates the bearer token and scopes the request to the
// tenant carried in its claims. Handlers never read tenant identity
// from anywhere else.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		tenantID, actorID, role, err := m.validate(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxTenantIDKey, tenantID)
		c.Set(ctxActorIDKey, actorID)
		c.Set(ctxRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"tenant_id": tenantID.String(),
			"actor_id":  actorID.String(),
			"role":      role,
		})
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			// Should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}
		if !hasMinimumRole(role, minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) validate(token string) (tenantID, actorID uuid.UUID, role string, err error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidClaims
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return uuid.Nil, uuid.Nil, "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, uuid.Nil, "", errInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, uuid.Nil, "", errInvalidClaims
	}
	actorID, err = uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", errInvalidClaims
	}

	tenantStr, _ := claims["tenant_id"].(string)
	tenantID, err = uuid.Parse(tenantStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", errInvalidClaims
	}

	role, _ = claims["role"].(string)
	if _, known := roleHierarchy[role]; !known {
		return uuid.Nil, uuid.Nil, "", errInvalidClaims
	}

	return tenantID, actorID, role, nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func hasMinimumRole(role, minRole string) bool {
	level, ok := roleHierarchy[role]
	minLevel, minOk := roleHierarchy[minRole]
	return ok && minOk && level >= minLevel
}

func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxTenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxActorIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
