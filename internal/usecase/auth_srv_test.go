package usecase

import (
	"context"
	"strings"
	"testing"

	"shopline/internal/data/repository"
	"shopline/internal/dto/request"
	"shopline/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture() (AuthService, *repository.Repository, *fakeOTPStore, *fakePublisher) {
	repo := newTestRepository()
	store := newFakeOTPStore()
	pub := &fakePublisher{}
	svc := NewAuthService(repo, newTestConfig(), store, pub, zap.NewNop())
	return svc, repo, store, pub
}

func registerUser(t *testing.T, svc AuthService, username, email, phone string) {
	t.Helper()
	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "secret123",
		Phone:    phone,
	})
	require.NoError(t, err)
}

func TestRegister(t *testing.T) {
	svc, repo, _, pub := newAuthFixture()

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Phone:    "+91 98765 43210",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.False(t, resp.IsVerified)

	// Phone normalized to E.164
	user, err := repo.User.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "+919876543210", user.Phone)
	require.NotNil(t, user.VerificationToken)

	// Verification mail event carries the token
	events := pub.byType(notification.EventUserRegistered)
	require.Len(t, events, 1)
	payload := events[0].payload.(notification.UserRegisteredPayload)
	assert.Equal(t, "alice@example.com", payload.Email)
	assert.True(t, strings.Contains(payload.VerifyLink, *user.VerificationToken))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "secret123",
		Phone:    "+919876543211",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")

	// Same number in a different notation still collides
	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
		Phone:    "98765 43210",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone already registered")
}

func TestRegisterInvalidPhone(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Phone:    "12345678",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid phone")
}

func TestVerifyEmailTokenIsSingleUse(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")

	user, _ := repo.User.FindByEmail(context.Background(), "alice@example.com")
	token := *user.VerificationToken

	require.NoError(t, svc.VerifyEmail(context.Background(), token))
	assert.True(t, user.Verified)

	// Second use of the same token fails
	err := svc.VerifyEmail(context.Background(), token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestLoginBlockedUntilVerified(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not verified")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")
	verifyRegistered(t, svc, repo, "alice@example.com")

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Username: "alice",
		Password: "wrongpass",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLoginWithoutTwoFactor(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")
	verifyRegistered(t, svc, repo, "alice@example.com")

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Username: "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.False(t, resp.TwoFactorRequired)
	require.NotNil(t, resp.Auth)
	assert.NotEmpty(t, resp.Auth.Token)

	// Token resolves to a valid session
	session, err := repo.Session.FindValidSession(context.Background(), resp.Auth.Token)
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestLoginWithTwoFactor(t *testing.T) {
	svc, repo, store, pub := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")
	verifyRegistered(t, svc, repo, "alice@example.com")
	enableTwoFactor(t, svc, repo, store, "alice@example.com")

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.True(t, resp.TwoFactorRequired)
	assert.NotEmpty(t, resp.LoginID)
	assert.Nil(t, resp.Auth)

	// The issued code went out as an event
	events := pub.byType(notification.EventOTPIssued)
	require.NotEmpty(t, events)
	payload := events[len(events)-1].payload.(notification.OTPIssuedPayload)
	assert.Equal(t, "login", payload.Purpose)
	assert.Len(t, payload.Code, 6)

	// Wrong code is rejected and the pending login survives
	_, err = svc.VerifyLoginOTP(context.Background(), &request.VerifyLoginOTPRequest{
		LoginID: resp.LoginID,
		OTP:     "000000",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect")

	loginID := uuid.MustParse(resp.LoginID)
	pending, err := store.GetPendingLogin(context.Background(), loginID)
	require.NoError(t, err)
	require.NotNil(t, pending)

	// Exact code completes the login and burns the pending entry
	auth, err := svc.VerifyLoginOTP(context.Background(), &request.VerifyLoginOTPRequest{
		LoginID: resp.LoginID,
		OTP:     payload.Code,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)

	pending, err = store.GetPendingLogin(context.Background(), loginID)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestVerifyLoginOTPExpired(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.VerifyLoginOTP(context.Background(), &request.VerifyLoginOTPRequest{
		LoginID: uuid.NewString(),
		OTP:     "123456",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestTwoFactorSetup(t *testing.T) {
	svc, repo, store, pub := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")
	verifyRegistered(t, svc, repo, "alice@example.com")

	user, _ := repo.User.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, svc.SetupTwoFactor(context.Background(), user.ID))

	code, err := store.GetSetupCode(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, code)

	events := pub.byType(notification.EventOTPIssued)
	require.NotEmpty(t, events)
	assert.Equal(t, "setup", events[len(events)-1].payload.(notification.OTPIssuedPayload).Purpose)

	// Wrong code does not enable the flag
	err = svc.VerifyTwoFactorSetup(context.Background(), user.ID, "000000")
	require.Error(t, err)
	assert.False(t, user.TwoFactorEnabled)

	require.NoError(t, svc.VerifyTwoFactorSetup(context.Background(), user.ID, code))
	assert.True(t, user.TwoFactorEnabled)

	// Re-enabling is rejected
	err = svc.SetupTwoFactor(context.Background(), user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already enabled")
}

func TestLogout(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	registerUser(t, svc, "alice", "alice@example.com", "+919876543210")
	verifyRegistered(t, svc, repo, "alice@example.com")

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Auth.Token))

	session, err := repo.Session.FindValidSession(context.Background(), resp.Auth.Token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

// --- helpers ---

func verifyRegistered(t *testing.T, svc AuthService, repo *repository.Repository, email string) {
	t.Helper()
	user, err := repo.User.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, user.VerificationToken)
	require.NoError(t, svc.VerifyEmail(context.Background(), *user.VerificationToken))
}

func enableTwoFactor(t *testing.T, svc AuthService, repo *repository.Repository, store *fakeOTPStore, email string) {
	t.Helper()
	user, err := repo.User.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NoError(t, svc.SetupTwoFactor(context.Background(), user.ID))
	code, err := store.GetSetupCode(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyTwoFactorSetup(context.Background(), user.ID, code))
}
