package middleware

import (
	"fmt"
	"net/http"

	"loan_predictor/internal/model"
	"loan_predictor/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookieName = "session"
	SessionKey        = "session"
)

// SessionManager moves the signed session between the cookie and the gin context
type SessionManager struct {
	util   *utils.SessionUtil
	secure bool
	log    *logrus.Logger
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(util *utils.SessionUtil, secureCookie bool, log *logrus.Logger) *SessionManager {
	return &SessionManager{util: util, secure: secureCookie, log: log}
}

// Middleware decodes the session cookie on every request. A missing, tampered or
// expired cookie gives the request a fresh, unauthenticated session.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &model.Session{}

		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			decoded, err := m.util.Decode(cookie)
			if err != nil {
				m.log.WithError(err).Debug("discarding invalid session cookie")
			} else {
				sess = decoded
			}
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// Save signs the current session and writes it back as the session cookie.
// It must run before the response body or redirect is written.
func (m *SessionManager) Save(c *gin.Context) error {
	token, err := m.util.Encode(CurrentSession(c))
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(m.util.MaxAge().Seconds()), "/", "", m.secure, true)
	return nil
}

// CurrentSession returns the request's session, or an empty one if the middleware did not run
func CurrentSession(c *gin.Context) *model.Session {
	if val, exists := c.Get(SessionKey); exists {
		if sess, ok := val.(*model.Session); ok {
			return sess
		}
	}
	sess := &model.Session{}
	c.Set(SessionKey, sess)
	return sess
}
