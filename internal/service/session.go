package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danupra/hrisgo/internal/auth"
	"github.com/danupra/hrisgo/internal/domain"
	"github.com/danupra/hrisgo/internal/repository"
	apperrors "github.com/danupra/hrisgo/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 10

// EventPublisher publishes account lifecycle events. Publish failures are
// logged by implementations and never fail the calling operation.
type EventPublisher interface {
	UserRegistered(ctx context.Context, user *domain.User)
	UserSuspended(ctx context.Context, userID string)
}

// TokenPair is an access/refresh token pair issued together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService implements the authentication session lifecycle: sign-up,
// sign-in, refresh rotation with reuse detection, and logout.
type SessionService struct {
	users         repository.UserRepository
	tokens        repository.RefreshTokenRepository
	codec         *auth.TokenCodec
	events        EventPublisher
	defaultRoleID string
	logger        *slog.Logger
}

// NewSessionService creates a new session service. defaultRoleID is the role
// bound to accounts created through sign-up.
func NewSessionService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	codec *auth.TokenCodec,
	events EventPublisher,
	defaultRoleID string,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		users:         users,
		tokens:        tokens,
		codec:         codec,
		events:        events,
		defaultRoleID: defaultRoleID,
		logger:        logger,
	}
}

// SignUpInput holds the parameters for registering a new account.
type SignUpInput struct {
	Name            string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

// SignInInput holds the parameters for email sign-in. Cookie carries the
// refresh token presented by the client, empty when none was sent.
type SignInInput struct {
	Email    string
	Password string
	Cookie   string
}

// SignUp registers a new account and opens its first session.
func (s *SessionService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, *TokenPair, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" ||
		input.ConfirmPassword == "" || input.PhoneNumber == "" {
		return nil, nil, apperrors.Validation("name, phone number, email, password and confirm password are required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, nil, apperrors.Validation("password and confirm password does not match")
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, apperrors.Conflict("email already exists")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, fmt.Errorf("check existing email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashedPassword),
		Role:         domain.Role{ID: s.defaultRoleID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, nil, apperrors.Conflict("email already exists")
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.events.UserRegistered(ctx, user)

	s.logger.InfoContext(ctx, "new user created",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, pair, nil
}

// SignIn authenticates an account by email and password and rotates any
// session the client still holds.
//
// Unknown, suspended and deleted accounts all produce the same NotFound so
// the endpoint cannot be used to probe which emails exist.
func (s *SessionService) SignIn(ctx context.Context, input SignInInput) (*TokenPair, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("email not found")
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if user.IsDeleted() {
		s.logger.WarnContext(ctx, "sign-in attempt on deleted account",
			slog.String("user_id", user.ID),
		)
		return nil, apperrors.NotFound("email not found")
	}

	if user.CompanyExpired(time.Now().UTC()) {
		return nil, apperrors.Unauthorized("company expired")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("password not match")
	}

	// A cookie presented at sign-in is consumed here. A token we issued to
	// this user is simply retired; a token we no longer know about, or one
	// belonging to another account, means the cookie was replayed or leaked
	// and every session of this user is revoked.
	if input.Cookie != "" {
		stored, err := s.tokens.Find(ctx, input.Cookie)
		switch {
		case err == nil && stored.UserID == user.ID:
			if err := s.tokens.Delete(ctx, input.Cookie); err != nil {
				return nil, fmt.Errorf("delete presented refresh token: %w", err)
			}
		case err == nil || errors.Is(err, apperrors.ErrNotFound):
			s.logger.WarnContext(ctx, "refresh token reuse detected at sign-in, revoking all sessions",
				slog.String("user_id", user.ID),
			)
			if err := s.tokens.DeleteByUserID(ctx, user.ID); err != nil {
				return nil, fmt.Errorf("revoke user refresh tokens: %w", err)
			}
		default:
			return nil, fmt.Errorf("find presented refresh token: %w", err)
		}
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "login email success",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return pair, nil
}

// Refresh consumes the presented refresh token and issues a new pair.
//
// The presented token is single-use: callers clear the cookie before the
// outcome is known. A token that verifies cryptographically but is absent
// from the store has been used before; every session of the user named in
// its claims is revoked.
func (s *SessionService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, apperrors.Unauthorized("refresh token not found")
	}

	stored, err := s.tokens.Find(ctx, presented)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, s.handleUnknownToken(ctx, presented)
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	claims, err := s.codec.VerifyRefreshToken(presented)
	if err != nil || claims.UserID != stored.UserID {
		return nil, apperrors.Forbidden("refresh token expired")
	}

	// Rotation: the consumed token is removed before its replacement is
	// stored, so it can never be accepted twice. Consume reports NotFound
	// when another request already removed the row; that loser is holding
	// a replayed token and takes the reuse path.
	if err := s.tokens.Consume(ctx, presented); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, s.handleUnknownToken(ctx, presented)
		}
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Forbidden("refresh token expired")
		}
		return nil, fmt.Errorf("get user for refresh: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "refresh token success",
		slog.String("user_id", user.ID),
	)

	return pair, nil
}

// handleUnknownToken runs reuse detection for a token missing from the
// store. If the signature still verifies, the token was issued by us and
// already consumed: whoever replays it triggers revocation of every session
// of the user in its claims.
func (s *SessionService) handleUnknownToken(ctx context.Context, presented string) error {
	claims, err := s.codec.VerifyRefreshToken(presented)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return apperrors.Forbidden("refresh token expired")
		}
		return apperrors.Forbidden("refresh token not found")
	}

	s.logger.WarnContext(ctx, "refresh token reuse detected, revoking all sessions",
		slog.String("user_id", claims.UserID),
	)
	if err := s.tokens.DeleteByUserID(ctx, claims.UserID); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}

	return apperrors.Forbidden("refresh token not found")
}

// Logout retires the presented session. Logging out an already-retired
// session reports NotFound but leaves the client in the same logged-out
// state, so the operation is effectively idempotent.
func (s *SessionService) Logout(ctx context.Context, presented string) error {
	if presented == "" {
		return apperrors.NotFound("refresh token not found")
	}

	stored, err := s.tokens.Find(ctx, presented)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("refresh token not found")
		}
		return fmt.Errorf("find refresh token: %w", err)
	}

	if err := s.tokens.Delete(ctx, presented); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "logout success",
		slog.String("user_id", stored.UserID),
	)

	return nil
}

// issueTokenPair signs a new access/refresh pair and persists the refresh
// token.
func (s *SessionService) issueTokenPair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.codec.GenerateAccessToken(user.ID, user.Email, user.Role.Name)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.codec.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokens.Create(ctx, refreshToken, user.ID); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
