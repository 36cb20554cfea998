package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

const userContextKey = "current_user"

// Authenticate resolves the calling user from the X-User-Email header.
// Authentication itself happens upstream (SSO proxy or LDAP gateway); the API
// trusts the header and only checks that the user is registered.
func Authenticate(s store.Store, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Email header"})
			return
		}

		user, err := s.Users().User(c.Request.Context(), email)
		if err != nil {
			log.WithError(err).WithField("email", email).Error("User lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user " + email})
			return
		}

		c.Set(userContextKey, user)
		c.Set("user_email", user.Email)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Authenticate, or nil on routes
// that skip it.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}
