package handler

import (
	"context"
	"net/http"

	"loan_predictor/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageHandler serves the public pages and the health check
type PageHandler struct {
	store Pinger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(store Pinger) *PageHandler {
	return &PageHandler{store: store}
}

func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", nil)
}

func (h *PageHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
}

// RegisterPageRoutes registers the public routes
func (h *PageHandler) RegisterPageRoutes(r gin.IRoutes) {
	r.GET("/", h.Home)
	r.GET("/health", h.Health)
}

// renderWithFlashes renders a view with the session's pending flashes, then clears them.
func renderWithFlashes(c *gin.Context, sessions *middleware.SessionManager, log *logrus.Logger, view string) {
	sess := middleware.CurrentSession(c)
	flashes := sess.PopFlashes()
	if err := sessions.Save(c); err != nil {
		log.WithError(err).Error("failed to save session")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.HTML(http.StatusOK, view, gin.H{"Flashes": flashes})
}

// redirectWithSession persists the session cookie and sends a 302 to path.
func redirectWithSession(c *gin.Context, sessions *middleware.SessionManager, log *logrus.Logger, path string) {
	if err := sessions.Save(c); err != nil {
		log.WithError(err).Error("failed to save session")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.Redirect(http.StatusFound, path)
}
