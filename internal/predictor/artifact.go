// Package predictor loads the loan approval model artifact and runs inference on it.
package predictor

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

const (
	OutputLabel       = "label"
	OutputProbability = "probability"
)

var ErrInvalidArtifact = errors.New("invalid model artifact")

// CategoricalFields and NumericFields list the model columns in scoring order.
var (
	CategoricalFields = []string{"Gender", "Married", "Education", "Self_employed", "Property_Area"}
	NumericFields     = []string{"Dependents", "Applicant_Income", "Loan_Amount", "Loan_Amount_Term", "Credit_History"}
)

// Artifact is the serialized form of a logistic scoring model.
type Artifact struct {
	Name        string                        `yaml:"name"`
	Version     int                           `yaml:"version"`
	Output      string                        `yaml:"output"`
	Threshold   float64                       `yaml:"threshold"`
	Intercept   float64                       `yaml:"intercept"`
	Categorical map[string]map[string]float64 `yaml:"categorical"`
	Numeric     map[string]NumericTerm        `yaml:"numeric"`
}

// NumericTerm standardizes a numeric column as (x-Mean)/Scale before weighting it.
type NumericTerm struct {
	Weight float64 `yaml:"weight"`
	Mean   float64 `yaml:"mean"`
	Scale  float64 `yaml:"scale"`
}

// ParseArtifact decodes and validates a YAML artifact. Unknown keys are rejected.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := yaml.UnmarshalWithOptions(data, &a, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks that every model column is described and the output settings are usable.
func (a *Artifact) Validate() error {
	if a.Output == "" {
		a.Output = OutputLabel
	}
	if a.Output != OutputLabel && a.Output != OutputProbability {
		return fmt.Errorf("%w: unknown output mode %q", ErrInvalidArtifact, a.Output)
	}
	if a.Output == OutputLabel && (a.Threshold <= 0 || a.Threshold >= 1) {
		return fmt.Errorf("%w: threshold %v must be within (0, 1)", ErrInvalidArtifact, a.Threshold)
	}
	for _, field := range CategoricalFields {
		levels, ok := a.Categorical[field]
		if !ok || len(levels) == 0 {
			return fmt.Errorf("%w: categorical field %s has no levels", ErrInvalidArtifact, field)
		}
	}
	for _, field := range NumericFields {
		term, ok := a.Numeric[field]
		if !ok {
			return fmt.Errorf("%w: numeric field %s missing", ErrInvalidArtifact, field)
		}
		if term.Scale == 0 {
			return fmt.Errorf("%w: numeric field %s has zero scale", ErrInvalidArtifact, field)
		}
	}
	return nil
}
