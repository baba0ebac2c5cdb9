package request

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// VerifyLoginOTPRequest completes a two-factor login. LoginID is the opaque
// handle returned by the first login step.
type VerifyLoginOTPRequest struct {
	LoginID string `json:"login_id" validate:"required,uuid4"`
	OTP     string `json:"otp" validate:"required,len=6"`
}

type VerifyTwoFactorSetupRequest struct {
	OTP string `json:"otp" validate:"required,len=6"`
}
