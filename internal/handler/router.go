package handler

import (
	"html/template"

	"loan_predictor/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Router bundles what the HTTP layer needs. Everything is built once in main and
// only read afterwards.
type Router struct {
	Log        *logrus.Logger
	Templates  *template.Template
	Sessions   *middleware.SessionManager
	Auth       *AuthHandler
	Prediction *PredictionHandler
	Pages      *PageHandler
}

// Engine builds the gin engine with middleware and all routes registered
func (rt *Router) Engine() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(rt.Log), gin.Recovery())
	router.SetHTMLTemplate(rt.Templates)
	router.Use(rt.Sessions.Middleware())

	rt.Pages.RegisterPageRoutes(router)
	rt.Auth.RegisterAuthRoutes(router)
	rt.Prediction.RegisterPredictionRoutes(router)

	return router
}
