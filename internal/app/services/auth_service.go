package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/auth"
	"github.com/dotoapp/doto-backend/internal/pkg/email"
	"github.com/dotoapp/doto-backend/internal/pkg/validation"
)

const passwordResetTokenTTL = time.Hour

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo          repositories.IUserRepository
	tokenRepo         repositories.ITokenRepository
	passwordResetRepo repositories.IPasswordResetRepository
	jwtService        *auth.JWTService
	emailService      email.EmailService
	logger            zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	passwordResetRepo repositories.IPasswordResetRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		tokenRepo:         tokenRepo,
		passwordResetRepo: passwordResetRepo,
		jwtService:        jwtService,
		emailService:      emailService,
		logger:            logger,
	}
}

// Register creates a new account and returns the user with a token pair
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	emailAddr := strings.TrimSpace(strings.ToLower(req.Email))
	if !validation.IsValidEmail(emailAddr) {
		return nil, apperrors.ErrInvalidEmail
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, apperrors.ErrInvalidPassword
	}
	if !validation.IsValidName(strings.TrimSpace(req.Name)) {
		return nil, apperrors.ErrValidationFailed
	}

	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Password:     hashed,
		Age:          req.Age,
		Location:     req.Location,
		PushLanguage: "en",
		IsActive:     true,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	created, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, created)
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendWelcomeEmail(created.Email, created.Name); err != nil {
		// Registration already succeeded, a failed welcome email is not fatal
		s.logger.Warn().Err(err).Int64("userID", id).Msg("Failed to send welcome email")
	}

	s.logger.Info().Int64("userID", id).Msg("User registered")

	return &dto.AuthResponse{
		User:   dto.FromUser(created),
		Tokens: *tokens,
	}, nil
}

// Login verifies credentials and returns the user with a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:   dto.FromUser(user),
		Tokens: *tokens,
	}, nil
}

// RefreshToken rotates a refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Rotate: the old token is revoked before the new pair is issued
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// ForgotPassword creates a reset token and emails it to the user. The
// response is identical whether or not the email exists, so the endpoint
// cannot be used to probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			s.logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := email.GenerateResetToken()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Reset token generation used fallback randomness")
	}

	if err := s.passwordResetRepo.InvalidateUserTokens(ctx, user.ID); err != nil {
		return err
	}

	if err := s.passwordResetRepo.CreateToken(ctx, user.ID, token, time.Now().Add(passwordResetTokenTTL)); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send password reset email")
		return err
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the user's password.
// All refresh tokens are revoked so stolen sessions die with the old
// password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !validation.IsValidPassword(newPassword) {
		return apperrors.ErrInvalidPassword
	}

	resetToken, err := s.passwordResetRepo.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, resetToken.UserID, hashed); err != nil {
		return err
	}

	if err := s.passwordResetRepo.MarkUsed(ctx, token); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllUserTokens(ctx, resetToken.UserID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", resetToken.UserID).Msg("Failed to revoke refresh tokens after password reset")
	}

	s.logger.Info().Int64("userID", resetToken.UserID).Msg("Password reset completed")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}
