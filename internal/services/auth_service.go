package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pquerna/otp/totp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"rihla-backoffice-api/internal/middleware"
	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

// authService implements the AuthService interface.
//
// Login is a two-phase flow when two-factor is involved: a correct password
// on an account without a confirmed secret yields setup data; on an account
// with 2FA enabled it yields a challenge and the token is only issued by
// VerifyTOTP.
type authService struct {
	userRepo   repositories.UserRepository
	tokens     *middleware.AuthService
	totpIssuer string
	require2FA bool
	validator  *validator.Validate
	logger     *logrus.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *middleware.AuthService,
	totpIssuer string,
	require2FA bool,
	logger *logrus.Logger,
) AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	if totpIssuer == "" {
		totpIssuer = "Rihla Back Office"
	}
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		totpIssuer: totpIssuer,
		require2FA: require2FA,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Login verifies email and password and decides the next step of the flow
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if req == nil {
		return nil, fmt.Errorf("login request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if user.TwoFactorEnabled {
		return &LoginResult{State: LoginStateTOTPRequired}, nil
	}

	if s.require2FA {
		setup, err := s.SetupTOTP(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return &LoginResult{State: LoginStateTOTPSetup, Setup: setup}, nil
	}

	return s.issueToken(ctx, user)
}

// VerifyTOTP completes a 2FA-challenged login
func (s *authService) VerifyTOTP(ctx context.Context, req *VerifyTOTPRequest) (*LoginResult, error) {
	if req == nil {
		return nil, fmt.Errorf("verify request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	if user.TwoFactorSecret == nil || !totp.Validate(req.Code, *user.TwoFactorSecret) {
		s.logger.WithField("user_id", user.ID).Warn("TOTP verification failed")
		return nil, ErrInvalidTOTP
	}

	return s.issueToken(ctx, user)
}

// SetupTOTP generates and stores a fresh TOTP secret for the user. The
// secret is stored disabled until ConfirmTOTP sees a valid code.
func (s *authService) SetupTOTP(ctx context.Context, userID string) (*TOTPSetup, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	if err := s.userRepo.SetTwoFactorSecret(ctx, user.ID, key.Secret(), false); err != nil {
		return nil, fmt.Errorf("failed to store TOTP secret: %w", err)
	}

	return &TOTPSetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// ConfirmTOTP verifies the first code against the pending secret and enables
// two-factor on the account
func (s *authService) ConfirmTOTP(ctx context.Context, userID, code string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.TwoFactorSecret == nil {
		return fmt.Errorf("no pending two-factor secret; run setup first")
	}

	if !totp.Validate(code, *user.TwoFactorSecret) {
		return ErrInvalidTOTP
	}

	if err := s.userRepo.SetTwoFactorSecret(ctx, user.ID, *user.TwoFactorSecret, true); err != nil {
		return fmt.Errorf("failed to enable two-factor: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Two-factor authentication enabled")
	return nil
}

// authenticate checks email/password and account status. Unknown email and
// wrong password return the same error.
func (s *authService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repositories.IsNotFound(err) {
			// Burn a comparison anyway to keep timing flat.
			bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinv"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("Password verification failed")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return user, nil
}

// issueToken generates a JWT and stamps last_login
func (s *authService) issueToken(ctx context.Context, user *models.User) (*LoginResult, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("Failed to stamp last login")
	}

	return &LoginResult{State: LoginStateOK, Token: token, User: user}, nil
}
