package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/sessions"
)

// SessionAuthMiddleware resolves bearer tokens against the Redis session store.
type SessionAuthMiddleware struct {
	store *sessions.Store
}

func NewSessionAuthMiddleware(store *sessions.Store) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{store: store}
}

// AuthMiddleware returns a Gin middleware that requires a valid session.
func (sam *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: err.Error(),
			})
			c.Abort()
			return
		}

		session, err := sam.store.Get(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, sessions.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, ErrorResponse{
					Message: "invalid or expired session",
				})
			} else {
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "failed to resolve session",
				})
			}
			c.Abort()
			return
		}

		c.Set("session", session)
		c.Set("session_token", token)
		c.Set("user_email", session.Email)
		c.Set("user_role", session.Role)

		c.Next()
	}
}

// RequireRoleMiddleware checks if the session holds any of the required roles.
func (sam *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "user role not found in context",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "invalid user role format",
			})
			c.Abort()
			return
		}

		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
		})
		c.Abort()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return tokenParts[1], nil
}

// GetSessionFromContext extracts the resolved session from the Gin context.
func GetSessionFromContext(c *gin.Context) (*sessions.Session, error) {
	v, exists := c.Get("session")
	if !exists {
		return nil, errors.New("session not found in context")
	}

	session, ok := v.(*sessions.Session)
	if !ok {
		return nil, errors.New("invalid session type in context")
	}
	return session, nil
}

// GetUserEmailFromContext extracts the authenticated email from the Gin context.
func GetUserEmailFromContext(c *gin.Context) (string, error) {
	email, exists := c.Get("user_email")
	if !exists {
		return "", errors.New("user email not found in context")
	}

	s, ok := email.(string)
	if !ok {
		return "", errors.New("invalid user email type in context")
	}
	return s, nil
}
