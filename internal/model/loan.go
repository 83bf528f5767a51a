package model

// LoanApplication holds the raw prediction form values. Field names follow the form keys.
type LoanApplication struct {
	Gender          string `form:"Gender"`
	Married         string `form:"Married"`
	Dependents      string `form:"Dependents"`
	Education       string `form:"Education"`
	SelfEmployed    string `form:"Self_employed"`
	ApplicantIncome string `form:"Applicant_Income"`
	LoanAmount      string `form:"Loan_Amount"`
	LoanAmountTerm  string `form:"Loan_Amount_Term"`
	CreditHistory   string `form:"Credit_History"`
	PropertyArea    string `form:"Property_Area"`
}

// Features is the parsed input row handed to the prediction model.
// Categorical fields stay as raw strings.
type Features struct {
	Gender          string
	Married         string
	Dependents      float64
	Education       string
	SelfEmployed    string
	ApplicantIncome int64
	LoanAmount      float64
	LoanAmountTerm  float64
	CreditHistory   float64
	PropertyArea    string
}

// Categorical returns the categorical columns keyed by their form field name.
func (f Features) Categorical() map[string]string {
	return map[string]string{
		"Gender":        f.Gender,
		"Married":       f.Married,
		"Education":     f.Education,
		"Self_employed": f.SelfEmployed,
		"Property_Area": f.PropertyArea,
	}
}

// Numeric returns the numeric columns keyed by their form field name.
func (f Features) Numeric() map[string]float64 {
	return map[string]float64{
		"Dependents":       f.Dependents,
		"Applicant_Income": float64(f.ApplicantIncome),
		"Loan_Amount":      f.LoanAmount,
		"Loan_Amount_Term": f.LoanAmountTerm,
		"Credit_History":   f.CreditHistory,
	}
}
