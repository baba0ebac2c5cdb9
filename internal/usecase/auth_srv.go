package usecase

import (
	"context"
	"fmt"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/internal/dto/request"
	"shopline/internal/dto/response"
	"shopline/internal/notification"
	"shopline/internal/otp"
	"shopline/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	VerifyLoginOTP(ctx context.Context, req *request.VerifyLoginOTPRequest) (*response.AuthResponse, error)
	SetupTwoFactor(ctx context.Context, userID uuid.UUID) error
	VerifyTwoFactorSetup(ctx context.Context, userID uuid.UUID, code string) error
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo     *repository.Repository
	config   *utils.Config
	otpStore otp.Store
	producer notification.Publisher
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	otpStore otp.Store,
	producer notification.Publisher,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		config:   config,
		otpStore: otpStore,
		producer: producer,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Normalize phone to E.164 before any uniqueness check
	phone, err := utils.NormalizePhone(req.Phone, s.config.App.DefaultRegion)
	if err != nil {
		s.log.Warn("Invalid phone number", zap.Error(err))
		return nil, fmt.Errorf("invalid phone number")
	}

	// 3. Check email not yet registered
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 4. Check username not yet taken
	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to check username")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("username already taken")
	}

	// 5. Check phone not yet registered
	existingUser, err = s.repo.User.FindByPhone(ctx, phone)
	if err != nil {
		s.log.Error("Failed to check phone", zap.Error(err), zap.String("phone", phone))
		return nil, fmt.Errorf("failed to check phone")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("phone already registered")
	}

	// 6. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 7. Create user entity with a fresh verification token
	now := time.Now()
	token := utils.GenerateVerificationToken()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:          req.Username,
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		Phone:             phone,
		Role:              entity.RoleCustomer,
		Verified:          false,
		VerificationToken: &token,
		IsActive:          true,
	}

	// 8. Save user
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	// 9. Publish verification mail event. The account stands even if mail
	// delivery later fails; the event is retried by the consumer.
	s.producer.Publish(notification.EventUserRegistered, user.ID.String(), notification.UserRegisteredPayload{
		UserID:     user.ID.String(),
		Username:   user.Username,
		Email:      user.Email,
		VerifyLink: fmt.Sprintf("%s/api/verify-email?token=%s", s.config.App.BaseURL, token),
	})

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	// 1. Token present
	if token == "" {
		return fmt.Errorf("verification token required")
	}

	// 2. Flip verified and burn the token in one statement
	ok, err := s.repo.User.Verify(ctx, token)
	if err != nil {
		s.log.Error("Failed to verify email", zap.Error(err))
		return fmt.Errorf("failed to verify email")
	}
	if !ok {
		return fmt.Errorf("invalid or expired verification token")
	}

	s.log.Info("Email verified")
	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user by email, then by username
	user, err := s.repo.User.FindByEmail(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("identifier", req.Username))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			s.log.Error("Failed to find user by username", zap.Error(err), zap.String("identifier", req.Username))
			return nil, fmt.Errorf("failed to find user")
		}
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("identifier", req.Username))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 4. Check account state
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated")
	}
	if !user.Verified {
		s.log.Warn("Unverified user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("email not verified")
	}

	// 5. Two-factor accounts get a pending login, not a session
	if user.TwoFactorEnabled {
		loginID, err := s.startPendingLogin(ctx, user)
		if err != nil {
			return nil, err
		}
		return &response.LoginResponse{
			TwoFactorRequired: true,
			LoginID:           loginID.String(),
		}, nil
	}

	// 6. Create session
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &response.LoginResponse{
		Auth: response.AuthToResponse(user, session),
	}, nil
}

func (s *authService) VerifyLoginOTP(ctx context.Context, req *request.VerifyLoginOTPRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("OTP verification validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	loginID, err := uuid.Parse(req.LoginID)
	if err != nil {
		return nil, fmt.Errorf("invalid login id")
	}

	// 2. Look up the pending login; TTL expiry surfaces as a miss
	pending, err := s.otpStore.GetPendingLogin(ctx, loginID)
	if err != nil {
		s.log.Error("Failed to read pending login", zap.Error(err), zap.String("login_id", req.LoginID))
		return nil, fmt.Errorf("failed to verify OTP")
	}
	if pending == nil {
		return nil, fmt.Errorf("invalid or expired OTP")
	}

	// 3. Exact match only; a miss leaves the code in place for another try
	if pending.Code != req.OTP {
		s.log.Warn("OTP mismatch", zap.String("login_id", req.LoginID))
		return nil, fmt.Errorf("incorrect OTP")
	}

	// 4. Burn the pending login before handing out a session
	if err := s.otpStore.InvalidatePendingLogin(ctx, loginID); err != nil {
		s.log.Error("Failed to invalidate pending login", zap.Error(err), zap.String("login_id", req.LoginID))
		return nil, fmt.Errorf("failed to verify OTP")
	}

	// 5. Load the user and create the session
	user, err := s.repo.User.FindByID(ctx, pending.UserID)
	if err != nil || user == nil {
		s.log.Error("User not found for pending login", zap.Error(err), zap.String("user_id", pending.UserID.String()))
		return nil, fmt.Errorf("user not found")
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("Two-factor login completed", zap.String("user_id", user.ID.String()))

	return response.AuthToResponse(user, session), nil
}

func (s *authService) SetupTwoFactor(ctx context.Context, userID uuid.UUID) error {
	// 1. Load user
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		s.log.Error("User not found for 2FA setup", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("user not found")
	}
	if user.TwoFactorEnabled {
		return fmt.Errorf("two-factor already enabled")
	}

	// 2. Generate and stash the setup code
	code := utils.GenerateOTP(s.config.OTP.Length)
	ttl := time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute
	if err := s.otpStore.SetSetupCode(ctx, userID, code, ttl); err != nil {
		s.log.Error("Failed to store setup code", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to generate OTP")
	}

	// 3. Deliver the code out of band
	s.producer.Publish(notification.EventOTPIssued, userID.String(), notification.OTPIssuedPayload{
		Email:   user.Email,
		Phone:   user.Phone,
		Code:    code,
		Purpose: "setup",
	})

	s.log.Info("Two-factor setup code issued", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) VerifyTwoFactorSetup(ctx context.Context, userID uuid.UUID, code string) error {
	// 1. Fetch the stashed code
	stored, err := s.otpStore.GetSetupCode(ctx, userID)
	if err != nil {
		s.log.Error("Failed to read setup code", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to verify OTP")
	}
	if stored == "" {
		return fmt.Errorf("invalid or expired OTP")
	}

	// 2. Exact match only
	if stored != code {
		s.log.Warn("Setup OTP mismatch", zap.String("user_id", userID.String()))
		return fmt.Errorf("incorrect OTP")
	}

	// 3. Enable the flag, then burn the code
	if err := s.repo.User.EnableTwoFactor(ctx, userID); err != nil {
		s.log.Error("Failed to enable two-factor", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to enable two-factor")
	}
	if err := s.otpStore.InvalidateSetupCode(ctx, userID); err != nil {
		s.log.Warn("Failed to invalidate setup code", zap.Error(err), zap.String("user_id", userID.String()))
		// Code expires on its own; the flag is already set
	}

	s.log.Info("Two-factor enabled", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	// 1. Parse token
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return fmt.Errorf("invalid token format")
	}

	// 2. Revoke session
	if err := s.repo.Session.Revoke(ctx, tokenUUID.String()); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("User logged out")
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) startPendingLogin(ctx context.Context, user *entity.User) (uuid.UUID, error) {
	loginID := uuid.New()
	code := utils.GenerateOTP(s.config.OTP.Length)
	ttl := time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute

	pending := otp.PendingLogin{UserID: user.ID, Code: code}
	if err := s.otpStore.SetPendingLogin(ctx, loginID, pending, ttl); err != nil {
		s.log.Error("Failed to store pending login", zap.Error(err), zap.String("user_id", user.ID.String()))
		return uuid.Nil, fmt.Errorf("failed to generate OTP")
	}

	s.producer.Publish(notification.EventOTPIssued, user.ID.String(), notification.OTPIssuedPayload{
		Email:   user.Email,
		Phone:   user.Phone,
		Code:    code,
		Purpose: "login",
	})

	s.log.Info("Login OTP issued", zap.String("user_id", user.ID.String()))
	return loginID, nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
