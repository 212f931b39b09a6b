// internal/middleware/auth.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"texthunter-back/internal/apierr"
	"texthunter-back/internal/session"
)

// Context keys set for downstream handlers once a session resolves.
const (
	CtxUserID      = "userID"
	CtxSessionID   = "sessionID"
	CtxSessionData = "sessionData"
)

var errLoginRequired = errors.New("login required")

// RequireSession resolves the session cookie against the store and rejects
// the request with 401 when there is no live session. Each successful
// resolution refreshes the idle expiry.
func RequireSession(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(session.CookieName)
		if err != nil || id == "" {
			abortUnauthenticated(c)
			return
		}

		data, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				c.Abort()
				apierr.Respond(c, err)
				return
			}
			abortUnauthenticated(c)
			return
		}

		_ = store.Touch(c.Request.Context(), id)

		c.Set(CtxUserID, data.UserID)
		c.Set(CtxSessionID, id)
		c.Set(CtxSessionData, data)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.Abort()
	apierr.Respond(c, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthenticated, errLoginRequired))
}
