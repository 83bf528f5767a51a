package repository

import (
	"context"
	"errors"
	"fmt"

	"loan_predictor/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"

	usernameConstraint      = "users_username_key"
	accountNumberConstraint = "users_account_number_key"
)

var (
	ErrDuplicateKey           = errors.New("duplicate key")
	ErrDuplicateUsername      = fmt.Errorf("username: %w", ErrDuplicateKey)
	ErrDuplicateAccountNumber = fmt.Errorf("account number: %w", ErrDuplicateKey)
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Ping(ctx context.Context) error
}

// DBTX is the subset of pgxpool.Pool used by the repositories
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Uniqueness of username and account number is enforced by the
// table constraints, so concurrent registrations cannot both succeed.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (name, surname, username, password_hash, account_number, ifsc_code)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql,
		user.Name, user.Surname, user.Username, user.PasswordHash, user.AccountNumber, user.IFSCCode,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			switch pgErr.ConstraintName {
			case accountNumberConstraint:
				return ErrDuplicateAccountNumber
			case usernameConstraint:
				return ErrDuplicateUsername
			default:
				return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsername retrieves a user by exact username. A missing user is (nil, nil).
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, surname, username, password_hash, account_number, ifsc_code, created_at
            FROM users WHERE username = $1`
	err := r.db.QueryRow(ctx, sql, username).Scan(
		&user.ID, &user.Name, &user.Surname, &user.Username, &user.PasswordHash,
		&user.AccountNumber, &user.IFSCCode, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

func (r *userRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
