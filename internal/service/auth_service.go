package service

import (
	"context"
	"errors"
	"fmt"

	"loan_predictor/internal/model"
	"loan_predictor/internal/repository"
	"loan_predictor/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrAccountNumberTaken = errors.New("account number already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService provides registration and credential checks
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	log        *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, bcryptCost int, log *logrus.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register hashes the password and stores a new user. Duplicate usernames and account
// numbers are rejected by the store's insert, not by a prior lookup.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := utils.HashPasswordWithCost(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:          req.Name,
		Surname:       req.Surname,
		Username:      req.Username,
		PasswordHash:  hashedPassword,
		AccountNumber: req.AccountNumber,
		IFSCCode:      req.IFSCCode,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			s.log.WithField("username", req.Username).Info("registration rejected: username taken")
			return nil, ErrUserAlreadyExists
		case errors.Is(err, repository.ErrDuplicateAccountNumber):
			s.log.WithField("username", req.Username).Info("registration rejected: account number taken")
			return nil, ErrAccountNumberTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.log.WithFields(logrus.Fields{"username": user.Username, "user_id": user.ID}).Info("user registered")
	return user, nil
}

// Login checks the credentials. Unknown users and wrong passwords give the same error.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.log.WithField("username", username).Warn("login failed")
		return nil, ErrInvalidCredentials
	}

	s.log.WithField("username", username).Info("user logged in")
	return user, nil
}
