package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie    = "skytrack_session"
	sessionKey       = "session_id"
	sessionMaxAgeSec = 30 * 24 * 60 * 60
)

// Session makes sure every request carries a browser session id, issuing
// a new cookie when the request has none or an unparsable one.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, sessionMaxAgeSec, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	if id := c.GetString(sessionKey); id != "" {
		return id
	}
	id, _ := c.Cookie(SessionCookie)
	return id
}
