package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserInactive marks a correct login against a deactivated
	// account. Handlers must respond exactly like ErrInvalidCredentials.
	ErrUserInactive         = errors.New("user inactive")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
// Password, PasswordConfirm and AgreeToTerms are consumed during
// validation and never persisted.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Username        string
	Password        string
	PasswordConfirm string
	AgreeToTerms    bool
}

// Register validates the input and creates a user with a hashed
// password. No tokens are issued; a separate login is required.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if input.Password != input.PasswordConfirm {
		return nil, newFieldError("password_confirm", "Password fields didn't match.")
	}
	if !input.AgreeToTerms {
		return nil, newFieldError("agree_to_terms", "You must agree to the terms.")
	}

	username := strings.TrimSpace(input.Username)

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, newFieldError("username", "A user with that username already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, newFieldError("email", "A user with that email already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}

	// The pre-checks above are racy: a concurrent registration can slip
	// in between the lookup and the insert. The unique indexes catch
	// that, and the violation is reported like any other duplicate.
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			if _, uerr := s.userRepo.FindByUsername(username); uerr == nil {
				return nil, newFieldError("username", "A user with that username already exists.")
			}
			return nil, newFieldError("email", "A user with that email already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. The
// email is matched case-insensitively. Failure reasons are kept as
// distinct sentinels internally but the transport layer collapses them
// into one generic response.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
