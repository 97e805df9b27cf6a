package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danupra/hrisgo/internal/domain"
	"github.com/danupra/hrisgo/internal/repository"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
)

// UserService implements user administration: lookups, admin account
// creation, password changes and suspension.
type UserService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	events EventPublisher
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	events EventPublisher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// CreateUserInput holds the parameters for an admin-created account.
type CreateUserInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	RoleID      string
}

// UpdatePasswordInput holds the parameters for a password change.
type UpdatePasswordInput struct {
	UserID          string
	OldPassword     string
	Password        string
	ConfirmPassword string
}

// Find returns a user by ID. Suspended users are not found.
func (s *UserService) Find(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, apperrors.Validation("id is required")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

// CheckEmail reports whether an account with the email exists.
func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, apperrors.Validation("email is required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}

	return true, nil
}

// Create creates an account with an explicit role, for admin use.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" ||
		input.PhoneNumber == "" || input.RoleID == "" {
		return nil, apperrors.Validation("name, email, phone number, password and role are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashedPassword),
		Role:         domain.Role{ID: input.RoleID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict("email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// UpdatePassword changes the password after verifying the old one, then
// revokes every refresh token so other devices must sign in again.
func (s *UserService) UpdatePassword(ctx context.Context, input UpdatePasswordInput) error {
	if input.UserID == "" || input.OldPassword == "" || input.Password == "" || input.ConfirmPassword == "" {
		return apperrors.Validation("id, old password, password and confirm password are required")
	}
	if input.Password != input.ConfirmPassword {
		return apperrors.Validation("password and confirm password does not match")
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return apperrors.Unauthorized("password not match")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.tokens.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "password updated, sessions revoked",
		slog.String("user_id", user.ID),
	)

	return nil
}

// Suspend suspends the account, revokes its sessions and publishes the
// suspension event.
func (s *UserService) Suspend(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.users.Suspend(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("suspend user: %w", err)
	}

	if err := s.tokens.DeleteByUserID(ctx, id); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	s.events.UserSuspended(ctx, id)

	s.logger.InfoContext(ctx, "user suspended", slog.String("user_id", id))

	return nil
}

// Unsuspend clears the account's suspension.
func (s *UserService) Unsuspend(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("id is required")
	}

	if err := s.users.Unsuspend(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("unsuspend user: %w", err)
	}

	s.logger.InfoContext(ctx, "user unsuspended", slog.String("user_id", id))

	return nil
}
