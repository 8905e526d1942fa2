package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/redisclient"
	"simple-ecommerce/internal/store"
	"simple-ecommerce/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthOptions tunes password hashing and the reset OTP flow
type AuthOptions struct {
	BcryptCost     int
	DemoMode       bool
	OTPTTL         time.Duration
	OTPMaxAttempts int
}

// AuthService handles registration, login and password management
type AuthService struct {
	users     UserRepository
	tokens    TokenIssuer
	otps      OTPStore
	opts      AuthOptions
	dummyHash []byte
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, tokens TokenIssuer, otps OTPStore, opts AuthOptions) (*AuthService, error) {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.OTPTTL == 0 {
		opts.OTPTTL = time.Minute
	}
	if opts.OTPMaxAttempts == 0 {
		opts.OTPMaxAttempts = 5
	}

	// compared against on unknown emails so login timing matches
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		tokens:    tokens,
		otps:      otps,
		opts:      opts,
		dummyHash: dummyHash,
		logger:    util.GetLogger(),
	}, nil
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents the created account
type RegisterResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PublicUser is the user projection returned on login
type PublicUser struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// Register creates a non-admin account
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperr.Validation("Name, email and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("Error creating user", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Email already exists").WithCode("EMAIL_EXISTS")
		}
		return nil, apperr.Internal("Error creating user", err)
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered", zap.Int64("user_id", user.ID))

	return &RegisterResponse{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	invalid := apperr.Auth("Invalid credentials")

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Internal("DB error", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		util.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, invalid
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal("Error issuing token", err)
	}

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &LoginResponse{
		Token: token,
		User:  PublicUser{ID: user.ID, Email: user.Email, Name: user.Name, IsAdmin: user.IsAdmin},
	}, nil
}

// ChangePasswordRequest represents a password change by a signed-in user
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	ctx, span := util.StartSpan(ctx, "AuthService.ChangePassword")
	defer span.End()

	if req.OldPassword == "" || req.NewPassword == "" {
		return apperr.Validation("Old and new password required")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return translate(err, "User not found", "Error updating password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.Validation("Current password is incorrect").WithCode("WRONG_PASSWORD")
	}

	return s.setPassword(ctx, userID, req.NewPassword)
}

// SendOTPResponse acknowledges a reset request. The code itself is only
// included in demo mode.
type SendOTPResponse struct {
	Message   string `json:"message"`
	OTP       string `json:"otp,omitempty"`
	ExpiresIn int    `json:"expires_in"`
}

// SendResetOTP generates a 6-digit reset code for a registered email
func (s *AuthService) SendResetOTP(ctx context.Context, email string) (*SendOTPResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.SendResetOTP")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("Email required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err != nil {
		return nil, translate(err, "User not found", "Error generating OTP")
	}

	code, err := generateOTP()
	if err != nil {
		return nil, apperr.Internal("Error generating OTP", err)
	}

	if err := s.otps.SaveOTP(ctx, email, code, s.opts.OTPTTL); err != nil {
		util.OTPRequestsTotal.WithLabelValues("send", "error").Inc()
		return nil, apperr.Internal("Error generating OTP", err)
	}

	util.OTPRequestsTotal.WithLabelValues("send", "success").Inc()
	s.logger.Info("Password reset OTP issued", zap.String("email", email))

	resp := &SendOTPResponse{
		Message:   "OTP generated",
		ExpiresIn: int(s.opts.OTPTTL.Seconds()),
	}
	if s.opts.DemoMode {
		resp.OTP = code
	}
	return resp, nil
}

// VerifyOTPRequest represents a password reset with a one-time code
type VerifyOTPRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// VerifyResetOTP consumes the code and sets the new password
func (s *AuthService) VerifyResetOTP(ctx context.Context, req *VerifyOTPRequest) error {
	ctx, span := util.StartSpan(ctx, "AuthService.VerifyResetOTP")
	defer span.End()

	email := normalizeEmail(req.Email)
	if email == "" || req.OTP == "" || req.NewPassword == "" {
		return apperr.Validation("Email, OTP and new password required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return translate(err, "User not found", "Error resetting password")
	}

	result, err := s.otps.ConsumeOTP(ctx, email, strings.TrimSpace(req.OTP), s.opts.OTPMaxAttempts)
	if err != nil {
		return apperr.Internal("Error resetting password", err)
	}

	switch result {
	case redisclient.OTPMissing:
		util.OTPRequestsTotal.WithLabelValues("verify", "expired").Inc()
		return apperr.Validation("OTP expired or not requested").WithCode("OTP_EXPIRED")
	case redisclient.OTPMismatch:
		util.OTPRequestsTotal.WithLabelValues("verify", "mismatch").Inc()
		return apperr.Validation("Invalid OTP").WithCode("OTP_INVALID")
	}

	util.OTPRequestsTotal.WithLabelValues("verify", "success").Inc()
	return s.setPassword(ctx, user.ID, req.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, userID int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return apperr.Internal("Error updating password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return translate(err, "User not found", "Error updating password")
	}
	s.logger.Info("Password updated", zap.Int64("user_id", userID))
	return nil
}

// HashPassword hashes with the service's cost; used for seeding
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	return string(hash), err
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// normalizeEmail gives addresses one canonical form so lookups ignore case
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
