package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/auth"
)

type authTestEnv struct {
	svc       *AuthService
	userRepo  *fakeUserRepo
	tokenRepo *fakeTokenRepo
	resetRepo *fakePasswordResetRepo
	emails    *fakeEmailService
}

func newTestAuthService(t *testing.T) *authTestEnv {
	t.Helper()
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	resetRepo := newFakePasswordResetRepo()
	emails := &fakeEmailService{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret-key",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "doto.test",
	})
	svc := NewAuthService(userRepo, tokenRepo, resetRepo, jwtService, emails, zerolog.Nop())
	return &authTestEnv{svc: svc, userRepo: userRepo, tokenRepo: tokenRepo, resetRepo: resetRepo, emails: emails}
}

func registerTestUser(t *testing.T, env *authTestEnv, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := env.svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Dana Levi",
		Email:    email,
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	env := newTestAuthService(t)

	resp := registerTestUser(t, env, "dana@example.com")
	assert.Equal(t, "Dana Levi", resp.User.Name)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, []string{"dana@example.com"}, env.emails.welcomes)

	// The stored password is hashed, never the plaintext
	stored, err := env.userRepo.GetByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "s3cret-password"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestAuthService(t)
	registerTestUser(t, env, "dana@example.com")

	_, err := env.svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Other Dana",
		Email:    "dana@example.com",
		Password: "another-password",
	})
	require.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, &dto.RegisterRequest{Name: "Dana", Email: "not-an-email", Password: "s3cret-password"})
	require.ErrorIs(t, err, apperrors.ErrInvalidEmail)

	_, err = env.svc.Register(ctx, &dto.RegisterRequest{Name: "Dana", Email: "dana@example.com", Password: "short"})
	require.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = env.svc.Register(ctx, &dto.RegisterRequest{Name: "D", Email: "dana@example.com", Password: "s3cret-password"})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLogin(t *testing.T) {
	env := newTestAuthService(t)
	registerTestUser(t, env, "dana@example.com")

	resp, err := env.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "dana@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	env := newTestAuthService(t)
	registerTestUser(t, env, "dana@example.com")
	ctx := context.Background()

	// Wrong password, unknown account and a deactivated account all
	// produce the same error
	_, err := env.svc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "wrong"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	env.userRepo.mu.Lock()
	for _, u := range env.userRepo.users {
		u.IsActive = false
	}
	env.userRepo.mu.Unlock()
	_, err = env.svc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "s3cret-password"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshTokenRotates(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()

	registered := registerTestUser(t, env, "dana@example.com")
	oldRefresh := registered.Tokens.RefreshToken

	rotated, err := env.svc.RefreshToken(ctx, oldRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, oldRefresh, rotated.RefreshToken)

	// The consumed token no longer works
	_, err = env.svc.RefreshToken(ctx, oldRefresh)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// The rotated one still does
	_, err = env.svc.RefreshToken(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshTokenUnknown(t *testing.T) {
	env := newTestAuthService(t)
	_, err := env.svc.RefreshToken(context.Background(), "never-issued")
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()

	registered := registerTestUser(t, env, "dana@example.com")
	require.NoError(t, env.svc.Logout(ctx, registered.Tokens.RefreshToken))

	_, err := env.svc.RefreshToken(ctx, registered.Tokens.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	env := newTestAuthService(t)

	require.NoError(t, env.svc.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Empty(t, env.emails.resetTokens, "no email goes out for unknown accounts")
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestAuthService(t)
	ctx := context.Background()

	registered := registerTestUser(t, env, "dana@example.com")

	require.NoError(t, env.svc.ForgotPassword(ctx, "dana@example.com"))
	require.Len(t, env.emails.resetTokens, 1)
	resetToken := env.emails.resetTokens[0]

	require.ErrorIs(t, env.svc.ResetPassword(ctx, resetToken, "short"), apperrors.ErrInvalidPassword)
	require.NoError(t, env.svc.ResetPassword(ctx, resetToken, "brand-new-password"))

	// Old sessions die with the old password
	_, err := env.svc.RefreshToken(ctx, registered.Tokens.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// The token is single-use
	require.ErrorIs(t, env.svc.ResetPassword(ctx, resetToken, "yet-another-password"), apperrors.ErrPasswordResetTokenUsed)

	_, err = env.svc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "s3cret-password"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = env.svc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "brand-new-password"})
	require.NoError(t, err)
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	env := newTestAuthService(t)
	err := env.svc.ResetPassword(context.Background(), "bogus-token", "brand-new-password")
	require.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
}
