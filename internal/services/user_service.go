package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/daily-diet-be/internal/database"
	"github.com/isdelr/daily-diet-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, name, email, password string) (models.User, error)
	UpdateUser(ctx context.Context, id, name, email string) error
	UpdatePassword(ctx context.Context, id, password string) error
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db        *sql.DB
	hashCost  int
	dummyHash []byte
}

// UserOption customises a UserService.
type UserOption func(*UserService)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) UserOption {
	return func(s *UserService) { s.hashCost = cost }
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, opts ...UserOption) *UserService {
	s := &UserService{db: db, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash = newDummyHash(s.hashCost)
	return s
}

const userColumns = "id, name, email, password"

func scanUser(scanner interface{ Scan(...any) error }) (models.User, error) {
	var user models.User
	if err := scanner.Scan(&user.ID, &user.Name, &user.Email, &user.Password); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ListUsers returns every user, password digests included.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return getUserByID(ctx, s.db, id)
}

func getUserByID(ctx context.Context, db database.DBTX, id string) (models.User, error) {
	user, err := scanUser(db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// emailTaken reports whether email belongs to a user other than exceptID.
func emailTaken(ctx context.Context, db database.DBTX, email, exceptID string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ? AND id <> ?", email, exceptID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (models.User, error) {
	taken, err := emailTaken(ctx, s.db, email, "")
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fmt.Errorf("email %s: %w", email, ErrConflict)
	}

	hashed, err := hashPassword(password, s.hashCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: hashed,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.Password)
	if err != nil {
		// lost a race with a concurrent registration
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("email %s: %w", email, ErrConflict)
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// UpdateUser overwrites a user's name and email. The password is untouched.
func (s *UserService) UpdateUser(ctx context.Context, id, name, email string) error {
	return database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		if _, err := getUserByID(ctx, tx, id); err != nil {
			return err
		}

		taken, err := emailTaken(ctx, tx, email, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email %s: %w", email, ErrConflict)
		}

		if _, err := tx.ExecContext(ctx, "UPDATE users SET name = ?, email = ? WHERE id = ?", name, email, id); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("email %s: %w", email, ErrConflict)
			}
			return fmt.Errorf("update user %s: %w", id, err)
		}
		return nil
	})
}

// UpdatePassword hashes and stores a new password for a user.
func (s *UserService) UpdatePassword(ctx context.Context, id, password string) error {
	hashed, err := hashPassword(password, s.hashCost)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE users SET password = ? WHERE id = ?", hashed, id)
	if err != nil {
		return fmt.Errorf("update password for %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password for %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// AuthenticateUser verifies a user's credentials. An unknown email and a wrong
// password both yield ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			checkPassword(string(s.dummyHash), password)
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !checkPassword(user.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
