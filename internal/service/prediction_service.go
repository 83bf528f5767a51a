package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"loan_predictor/internal/model"
	"loan_predictor/internal/predictor"
)

var ErrMalformedInput = errors.New("malformed prediction input")

// PredictionService shapes the loan form into a feature row and asks the model for a prediction
type PredictionService interface {
	Predict(ctx context.Context, app model.LoanApplication) (float64, error)
}

type predictionService struct {
	model predictor.Model
}

// NewPredictionService creates a new PredictionService around an already loaded model
func NewPredictionService(m predictor.Model) PredictionService {
	return &predictionService{model: m}
}

// Predict returns the model output rounded to one decimal place.
func (s *predictionService) Predict(ctx context.Context, app model.LoanApplication) (float64, error) {
	features, err := ParseFeatures(app)
	if err != nil {
		return 0, err
	}

	raw, err := s.model.Predict(ctx, features)
	if err != nil {
		return 0, fmt.Errorf("model prediction failed: %w", err)
	}
	return roundTenths(raw), nil
}

// ParseFeatures converts the raw form values. Categorical values are passed through as-is.
func ParseFeatures(app model.LoanApplication) (model.Features, error) {
	f := model.Features{
		Gender:       app.Gender,
		Married:      app.Married,
		Education:    app.Education,
		SelfEmployed: app.SelfEmployed,
		PropertyArea: app.PropertyArea,
	}

	categorical := f.Categorical()
	for _, name := range predictor.CategoricalFields {
		if categorical[name] == "" {
			return model.Features{}, fmt.Errorf("%w: %s is required", ErrMalformedInput, name)
		}
	}

	var err error
	if f.Dependents, err = parseFloat("Dependents", app.Dependents); err != nil {
		return model.Features{}, err
	}
	if f.ApplicantIncome, err = parseInt("Applicant_Income", app.ApplicantIncome); err != nil {
		return model.Features{}, err
	}
	if f.LoanAmount, err = parseFloat("Loan_Amount", app.LoanAmount); err != nil {
		return model.Features{}, err
	}
	if f.LoanAmountTerm, err = parseFloat("Loan_Amount_Term", app.LoanAmountTerm); err != nil {
		return model.Features{}, err
	}
	if f.CreditHistory, err = parseFloat("Credit_History", app.CreditHistory); err != nil {
		return model.Features{}, err
	}
	return f, nil
}

func parseFloat(name, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrMalformedInput, name)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number: %w", ErrMalformedInput, name, err)
	}
	return v, nil
}

func parseInt(name, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrMalformedInput, name)
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer: %w", ErrMalformedInput, name, err)
	}
	return v, nil
}

func roundTenths(v float64) float64 {
	return math.Round(v*10) / 10
}
