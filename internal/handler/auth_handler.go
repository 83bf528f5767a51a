package handler

import (
	"errors"
	"net/http"

	"loan_predictor/internal/middleware"
	"loan_predictor/internal/model"
	"loan_predictor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
)

const (
	MsgRegistered        = "User registered successfully"
	MsgUsernameTaken     = "Username already exists"
	MsgAccountNumberUsed = "Account number already exists"
	MsgFieldsRequired    = "All fields are required"
	MsgInvalidLogin      = "Invalid Username or Password"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	service  service.AuthService
	sessions *middleware.SessionManager
	log      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, sessions *middleware.SessionManager, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{service: s, sessions: sessions, log: log}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	renderWithFlashes(c, h.sessions, h.log, "register.html")
}

func (h *AuthHandler) Register(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var req model.RegisterRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		sess.AddFlash(model.FlashError, MsgFieldsRequired)
		redirectWithSession(c, h.sessions, h.log, "/register")
		return
	}

	_, err := h.service.Register(c.Request.Context(), req)
	switch {
	case err == nil:
		sess.AddFlash(model.FlashSuccess, MsgRegistered)
	case errors.Is(err, service.ErrUserAlreadyExists):
		sess.AddFlash(model.FlashError, MsgUsernameTaken)
	case errors.Is(err, service.ErrAccountNumberTaken):
		sess.AddFlash(model.FlashError, MsgAccountNumberUsed)
	default:
		h.log.WithError(err).Error("registration failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	redirectWithSession(c, h.sessions, h.log, "/register")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	renderWithFlashes(c, h.sessions, h.log, "login.html")
}

func (h *AuthHandler) Login(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var req model.LoginRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		sess.AddFlash(model.FlashMessage, MsgInvalidLogin)
		redirectWithSession(c, h.sessions, h.log, middleware.LoginPath)
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			sess.AddFlash(model.FlashMessage, MsgInvalidLogin)
			redirectWithSession(c, h.sessions, h.log, middleware.LoginPath)
			return
		}
		h.log.WithError(err).Error("login failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	sess.Start(user.Username)
	redirectWithSession(c, h.sessions, h.log, "/enter_details")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.CurrentSession(c).End()
	redirectWithSession(c, h.sessions, h.log, middleware.LoginPath)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(r gin.IRoutes) {
	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
}
