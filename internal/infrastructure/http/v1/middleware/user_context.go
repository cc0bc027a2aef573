package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appctx "tenderdesk/internal/core/context"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderSessionID = "X-Session-ID"
)

// UserContext extracts caller identification headers into the request
// context. Staging buffers are scoped by session, so a request without a
// session header gets a fresh one generated and echoed back.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(HeaderSessionID)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		user := &appctx.UserContext{
			UserID:    c.GetHeader(HeaderUserID),
			Email:     c.GetHeader(HeaderUserEmail),
			SessionID: sessionID,
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID)
		c.Header(HeaderSessionID, sessionID)

		c.Next()
	}
}
