package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/domain/user"
)

// TokenVerifier and UserLoader stay small so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type SessionMiddleware struct {
	tokens     TokenVerifier
	users      UserLoader
	cookieName string
}

func NewSessionMiddleware(tokens TokenVerifier, users UserLoader, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{
		tokens:     tokens,
		users:      users,
		cookieName: cookieName,
	}
}

// CurrentUser resolves the session cookie to a user and stashes it on
// the context. Every failure mode (no cookie, bad signature, expired
// token, missing or inactive user) is simply "anonymous", never an error.
func (m *SessionMiddleware) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(m.cookieName)

		if err != nil || raw == "" {
			c.Next()
			return
		}

		userID, err := m.tokens.Verify(raw)

		if err != nil {
			c.Next()
			return
		}

		cctx, cancel := config.WithTimeout(2 * time.Second)

		u, err := m.users.GetByID(cctx, userID)
		cancel()

		if err != nil || !u.IsActive {
			c.Next()
			return
		}

		c.Set(ctxUserKey, u)

		c.Next()
	}
}

// RequireAuth gates JSON API routes: 401 envelope when anonymous.
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Not authenticated",
				},
			})
			return
		}

		c.Next()
	}
}

// RequirePage gates HTML views: anonymous users are redirected to the
// login form instead of receiving a JSON error.
func (m *SessionMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFromContext(c); !ok {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}
