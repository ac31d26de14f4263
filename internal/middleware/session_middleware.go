package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/perfume-storefront/internal/errors"
	"github.com/ikkim/perfume-storefront/pkg/util"
)

const (
	SessionIDKey       = "session_id"
	SessionTokenHeader = "X-Session-Token"
)

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// SessionMiddleware gives every shopper a stable anonymous session. The
// session id namespaces the cart and applied gift card state.
type SessionMiddleware struct {
	cfg SessionConfig
}

func NewSessionMiddleware(cfg SessionConfig) *SessionMiddleware {
	if cfg.CookieName == "" {
		cfg.CookieName = "storefront_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	return &SessionMiddleware{cfg: cfg}
}

// Ensure reads the session token from the cookie or header, and issues a
// fresh one when it is absent or no longer valid.
func (m *SessionMiddleware) Ensure() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token := c.GetHeader(SessionTokenHeader)
		if token == "" {
			token, _ = c.Cookie(m.cfg.CookieName)
		}

		if token != "" {
			claims, err := util.ValidateSessionToken(token, m.cfg.Secret)
			if err == nil {
				c.Set(SessionIDKey, claims.SessionID())
				c.Next()
				return
			}
			log.Debug("Replacing unusable session token", map[string]interface{}{
				"error": err.Error(),
			})
		}

		sessionID := util.NewSessionID()
		issued, err := util.GenerateSessionToken(sessionID, m.cfg.Secret, m.cfg.TTL)
		if err != nil {
			log.Error("Failed to issue session token", err, nil)
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.SessionInvalid, "Unable to start a shopping session")
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(m.cfg.CookieName, issued, int(m.cfg.TTL.Seconds()), "/", "", m.cfg.Secure, true)
		c.Header(SessionTokenHeader, issued)
		c.Set(SessionIDKey, sessionID)

		log.Info("Started new shopping session", map[string]interface{}{
			"session_id": sessionID,
		})

		c.Next()
	}
}

// GetSessionID extracts the session id from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := sessionID.(string)
	return id, ok && id != ""
}
