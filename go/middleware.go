package storefrontserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

const (
	// UserIDHeader carries the shopper id set by the session layer in front of the storefront.
	UserIDHeader = "X-User-ID"
	// UserIDCookie is the fallback for browsers.
	UserIDCookie = "user_id"

	currentUserKey = "storefront.currentUser"
)

// CurrentUser loads the shopper named by the request and stores it on the
// context. Unknown ids leave the request anonymous.
func CurrentUser(users usersports.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id == "" {
			if cookie, err := c.Cookie(UserIDCookie); err == nil {
				id = strings.TrimSpace(cookie)
			}
		}
		if id == "" {
			c.Next()
			return
		}
		user, err := users.GetByID(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(currentUserKey, user)
		case errors.Is(err, usersports.ErrNotFound):
			// anonymous
		default:
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *usersdomain.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*usersdomain.User)
	return user
}

// requireUser queues ErrUnauthenticated when the request is anonymous.
func requireUser(c *gin.Context) (*usersdomain.User, bool) {
	user := currentUser(c)
	if user == nil {
		_ = c.Error(ErrUnauthenticated)
		return nil, false
	}
	return user, true
}
