package model

import "time"

// User represents a registered applicant.
type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Surname       string    `json:"surname"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"` // Do not expose password hash in responses
	AccountNumber string    `json:"account_number"`
	IFSCCode      string    `json:"ifsc_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// RegisterRequest is bound from the registration form
type RegisterRequest struct {
	Name          string `form:"name" binding:"required"`
	Surname       string `form:"surname" binding:"required"`
	Username      string `form:"username" binding:"required"`
	Password      string `form:"password" binding:"required"`
	AccountNumber string `form:"account_number" binding:"required"`
	IFSCCode      string `form:"ifsc_code" binding:"required"`
}

// LoginRequest is bound from the login form
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
