package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"Hospitality/session"
	"Hospitality/utils"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "authSession"

// SessionAuthMiddleware validates the Bearer session token, loads the backing
// session, and attaches it to the gin context for handlers.
func SessionAuthMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateSessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// The session may have been destroyed by logout even though the
		// token itself is still within its expiry window.
		sess, err := store.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or logged out"})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// UserTypeAuthMiddleware restricts access to the listed user types.
func UserTypeAuthMiddleware(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := ExtractSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
			c.Abort()
			return
		}

		for _, userType := range allowed {
			if strings.EqualFold(sess.UserType, userType) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient privileges"})
		c.Abort()
	}
}

// ExtractSession retrieves the authenticated session placed in the gin
// context by SessionAuthMiddleware.
func ExtractSession(c *gin.Context) (*session.Session, error) {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, errors.New("session not found in context")
	}
	sess, ok := value.(*session.Session)
	if !ok {
		return nil, errors.New("session not found in context")
	}
	return sess, nil
}

// LoggingMiddleware logs information about incoming requests.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Printf("Request: %s %s | Status: %d | Duration: %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
