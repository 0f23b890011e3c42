package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tablebook/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxStaffIDKey   = "staff_id"
	ctxStaffRoleKey = "staff_role"

	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// AuthMiddleware verifies staff bearer tokens issued by the back-office.
// Token issuance and sessions live outside this service.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(cfg.Secret)}
}

func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return m.require(RoleStaff)
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.require(RoleAdmin)
}

var roleHierarchy = map[string]int{
	RoleStaff: 1,
	RoleAdmin: 2,
}

func (m *AuthMiddleware) require(minRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		subject, role, err := m.validateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if roleHierarchy[role] < roleHierarchy[minRole] {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Set(ctxStaffIDKey, subject)
		c.Set(ctxStaffRoleKey, role)
		c.Next()
	}
}

func (m *AuthMiddleware) validateToken(tokenString string) (subject, role string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", jwt.ErrTokenInvalidClaims
	}

	subject, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	return subject, role, nil
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetStaffID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ctxStaffIDKey)
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}
