package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"loan_predictor/internal/model"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidFeature  = errors.New("invalid feature value")
)

// Model turns one feature row into a numeric prediction.
type Model interface {
	Predict(ctx context.Context, features model.Features) (float64, error)
}

// LinearModel is a logistic scoring model built from an Artifact. It is never
// mutated after construction, so one instance serves all requests.
type LinearModel struct {
	name        string
	version     int
	output      string
	threshold   float64
	intercept   float64
	categorical map[string]map[string]float64
	numeric     map[string]NumericTerm
}

var _ Model = (*LinearModel)(nil)

// NewLinearModel validates the artifact and copies its tables.
func NewLinearModel(a *Artifact) (*LinearModel, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	m := &LinearModel{
		name:        a.Name,
		version:     a.Version,
		output:      a.Output,
		threshold:   a.Threshold,
		intercept:   a.Intercept,
		categorical: make(map[string]map[string]float64, len(CategoricalFields)),
		numeric:     make(map[string]NumericTerm, len(NumericFields)),
	}
	for _, field := range CategoricalFields {
		levels := make(map[string]float64, len(a.Categorical[field]))
		for level, w := range a.Categorical[field] {
			levels[level] = w
		}
		m.categorical[field] = levels
	}
	for _, field := range NumericFields {
		m.numeric[field] = a.Numeric[field]
	}
	return m, nil
}

func (m *LinearModel) Name() string { return m.name }
func (m *LinearModel) Version() int { return m.version }

// Predict returns the approval label (0 or 1) or the approval probability,
// depending on the artifact's output mode.
func (m *LinearModel) Predict(ctx context.Context, features model.Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	score := m.intercept

	categorical := features.Categorical()
	for _, field := range CategoricalFields {
		value := categorical[field]
		w, ok := m.categorical[field][value]
		if !ok {
			return 0, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, field, value)
		}
		score += w
	}

	numeric := features.Numeric()
	for _, field := range NumericFields {
		x := numeric[field]
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("%w: %s=%v", ErrInvalidFeature, field, x)
		}
		term := m.numeric[field]
		score += term.Weight * (x - term.Mean) / term.Scale
	}

	probability := 1 / (1 + math.Exp(-score))
	if m.output == OutputProbability {
		return probability, nil
	}
	if probability >= m.threshold {
		return 1, nil
	}
	return 0, nil
}
