package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"notedo/internal/auth"
	"notedo/internal/model"
	"notedo/internal/notify"
	"notedo/internal/queue"
	"notedo/internal/repository"
)

const bcryptCost = 10

const (
	activationTokenTTL    = 48 * time.Hour
	passwordResetTokenTTL = 2 * time.Hour
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// AuthService handles account lifecycle and authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Activate(ctx context.Context, userID uint, token string) error
	ResendActivation(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, userID uint, token, newPassword string) error
}

type authService struct {
	users        repository.UserRepository
	profiles     repository.ProfileRepository
	jwtService   *auth.JWTService
	tokenStore   auth.TokenStoreInterface
	actionTokens auth.ActionTokenStoreInterface
	queue        queue.Enqueuer
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	actionTokens auth.ActionTokenStoreInterface,
	q queue.Enqueuer,
) AuthService {
	return &authService{
		users:        users,
		profiles:     profiles,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		actionTokens: actionTokens,
		queue:        q,
	}
}

// Register creates a user with an unconfirmed profile and enqueues the
// activation email.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Profile:      model.Profile{Avatar: model.DefaultAvatar},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendActivation(ctx, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// Activate consumes the one-shot activation token and confirms the profile.
func (s *authService) Activate(ctx context.Context, userID uint, token string) error {
	if err := s.actionTokens.Consume(ctx, auth.PurposeActivate, token, userID); err != nil {
		return err
	}
	return s.profiles.Confirm(ctx, userID)
}

// ResendActivation re-issues an activation email. To avoid leaking which
// addresses exist, unknown emails and already-confirmed profiles succeed
// silently.
func (s *authService) ResendActivation(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	profile, err := s.profiles.FindByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile.IsConfirmed {
		return nil
	}

	return s.sendActivation(ctx, user.ID)
}

func (s *authService) sendActivation(ctx context.Context, userID uint) error {
	token, err := s.actionTokens.Issue(ctx, auth.PurposeActivate, userID, activationTokenTTL)
	if err != nil {
		return fmt.Errorf("issue activation token: %w", err)
	}
	if err := s.queue.Enqueue(ctx, notify.JobActivationEmail, notify.AccountEmailPayload{UserID: userID, Token: token}); err != nil {
		return fmt.Errorf("enqueue activation email: %w", err)
	}
	return nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Username, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedUsername, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedUsername != claims.Username {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates the refresh token and blacklists the access token for
// the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	refreshID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, refreshID); err != nil {
		return err
	}

	if accessID, err := s.jwtService.ExtractTokenID(accessToken); err == nil {
		return s.tokenStore.BlacklistAccessToken(ctx, accessID, auth.AccessTokenExpiry)
	}
	return nil
}

// RequestPasswordReset enqueues a reset email. Unknown addresses succeed
// silently.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.actionTokens.Issue(ctx, auth.PurposePasswordReset, user.ID, passwordResetTokenTTL)
	if err != nil {
		return fmt.Errorf("issue password reset token: %w", err)
	}
	if err := s.queue.Enqueue(ctx, notify.JobPasswordResetEmail, notify.AccountEmailPayload{UserID: user.ID, Token: token}); err != nil {
		return fmt.Errorf("enqueue password reset email: %w", err)
	}
	return nil
}

// ConfirmPasswordReset consumes the one-shot reset token and replaces the
// password.
func (s *authService) ConfirmPasswordReset(ctx context.Context, userID uint, token, newPassword string) error {
	if err := s.actionTokens.Consume(ctx, auth.PurposePasswordReset, token, userID); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hashedPassword))
}
