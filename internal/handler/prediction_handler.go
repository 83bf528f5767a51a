package handler

import (
	"errors"
	"net/http"
	"strconv"

	"loan_predictor/internal/middleware"
	"loan_predictor/internal/model"
	"loan_predictor/internal/predictor"
	"loan_predictor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
)

// PredictionHandler serves the loan details form and its predictions
type PredictionHandler struct {
	service service.PredictionService
	log     *logrus.Logger
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(s service.PredictionService, log *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{service: s, log: log}
}

func (h *PredictionHandler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "predict.html", gin.H{
		"Username": middleware.CurrentSession(c).Username,
		"Output":   "",
	})
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	var app model.LoanApplication
	if err := c.ShouldBindWith(&app, binding.Form); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	output, err := h.service.Predict(c.Request.Context(), app)
	if err != nil {
		if isMalformedPrediction(err) {
			h.log.WithError(err).Warn("rejected prediction input")
			c.String(http.StatusBadRequest, "Bad Request")
			return
		}
		h.log.WithError(err).Error("prediction failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.HTML(http.StatusOK, "predict.html", gin.H{
		"Username": middleware.CurrentSession(c).Username,
		"Output":   strconv.FormatFloat(output, 'f', 1, 64),
	})
}

func isMalformedPrediction(err error) bool {
	return errors.Is(err, service.ErrMalformedInput) ||
		errors.Is(err, predictor.ErrUnknownCategory) ||
		errors.Is(err, predictor.ErrInvalidFeature)
}

// RegisterPredictionRoutes registers the login-gated prediction routes
func (h *PredictionHandler) RegisterPredictionRoutes(r gin.IRouter) {
	gated := r.Group("/", middleware.RequireLogin())
	{
		gated.GET("/enter_details", h.ShowForm)
		gated.GET("/predict", h.ShowForm)
		gated.POST("/predict", h.Predict)
	}
}
