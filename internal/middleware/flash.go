package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// FlashSessionName is the cookie holding pending flash messages
const FlashSessionName = "sr_flash"

// Flash levels, rendered as alert styles
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

var flashLevels = []string{FlashSuccess, FlashError, FlashInfo}

// Flash is one message shown once on the next rendered page
type Flash struct {
	Level   string
	Message string
}

// FlashSessions installs the signed cookie store used for flash messages
func FlashSessions(secret string, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(FlashSessionName, store)
}

func hasSessions(c *gin.Context) bool {
	_, ok := c.Get(sessions.DefaultKey)
	return ok
}

// AddFlash queues a message for the next rendered page
func AddFlash(c *gin.Context, level, message string) {
	if !hasSessions(c) {
		return
	}
	session := sessions.Default(c)
	session.AddFlash(message, level)
	if err := session.Save(); err != nil {
		logger.Warn().Err(err).Msg("Failed to save flash message")
	}
}

// PopFlashes returns and clears the pending messages
func PopFlashes(c *gin.Context) []Flash {
	if !hasSessions(c) {
		return nil
	}
	session := sessions.Default(c)

	var flashes []Flash
	for _, level := range flashLevels {
		for _, msg := range session.Flashes(level) {
			if s, ok := msg.(string); ok {
				flashes = append(flashes, Flash{Level: level, Message: s})
			}
		}
	}

	if len(flashes) > 0 {
		if err := session.Save(); err != nil {
			logger.Warn().Err(err).Msg("Failed to clear flash messages")
		}
	}
	return flashes
}
