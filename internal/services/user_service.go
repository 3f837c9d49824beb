package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/example/abstore/internal/models"
	"github.com/example/abstore/internal/utils"
)

var (
	errInvalidCredentials = NewClientError(ErrUnauthorized, "Invalid email or password")
	errUserExists         = NewClientError(ErrConflict, "User with this email or username already exists")
)

// UserService manages storefront accounts.
type UserService struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewUserService constructs UserService.
func NewUserService(db *gorm.DB, log *slog.Logger) *UserService {
	return &UserService{db: db, log: log.With("component", "users")}
}

// UserInput is the registration payload.
type UserInput struct {
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	PasswordHash     string  `json:"password_hash"`
	Password         string  `json:"password"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	ProfileImagePath *string `json:"profileImagePath"`
	RegistrationDate string  `json:"registrationDate"`
}

// CreateUser registers a user and returns its id. The password may arrive
// already bcrypt-hashed in PasswordHash or in plain text in either field.
func (s *UserService) CreateUser(ctx context.Context, in UserInput) (uint, error) {
	user := models.User{
		Username:         strings.TrimSpace(in.Username),
		Email:            strings.TrimSpace(in.Email),
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		ProfileImagePath: in.ProfileImagePath,
	}
	if user.Username == "" || user.Email == "" || user.FirstName == "" || user.LastName == "" {
		return 0, errMissingFields
	}

	user.RegistrationDate = models.NewDate(time.Now())
	if strings.TrimSpace(in.RegistrationDate) != "" {
		date, err := models.ParseDate(in.RegistrationDate)
		if err != nil {
			return 0, NewClientError(ErrValidation, "Invalid registration date")
		}
		user.RegistrationDate = date
	}

	secret := in.PasswordHash
	if in.Password != "" {
		secret = in.Password
	}
	hash, err := utils.NormalizePasswordHash(secret)
	if err != nil {
		return 0, NewClientError(ErrValidation, "Invalid password")
	}
	user.PasswordHash = hash

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, errUserExists
		}
		return 0, s.storageError(ctx, "create user", err, "username", user.Username)
	}

	return user.ID, nil
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, s.storageError(ctx, "list users", err)
	}
	return users, nil
}

// Authenticate checks the password of the user registered under email.
// Unknown emails and wrong passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewClientError(ErrValidation, "Email and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, s.storageError(ctx, "login", err)
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	return &user, nil
}

func (s *UserService) storageError(ctx context.Context, op string, err error, args ...interface{}) error {
	s.log.ErrorContext(ctx, op+" failed", append(args, "error", err)...)
	return &StorageError{Op: op, Err: err}
}
