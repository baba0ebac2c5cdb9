package response

import (
	"time"

	"shopline/internal/data/entity"
)

type AuthResponse struct {
	UserID     string          `json:"user_id"`
	Token      string          `json:"token,omitempty"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	Email      string          `json:"email"`
	Username   string          `json:"username"`
	Role       entity.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
}

// LoginResponse covers both login outcomes. When the account has two-factor
// enabled, Auth is nil and the client must call the OTP verification
// endpoint with LoginID.
type LoginResponse struct {
	TwoFactorRequired bool          `json:"two_factor_required"`
	LoginID           string        `json:"login_id,omitempty"`
	Auth              *AuthResponse `json:"auth,omitempty"`
}

type UserResponse struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Role             entity.UserRole `json:"role"`
	IsVerified       bool            `json:"is_verified"`
	TwoFactorEnabled bool            `json:"two_factor_enabled"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:               user.ID.String(),
		Username:         user.Username,
		Email:            user.Email,
		Phone:            user.Phone,
		Role:             user.Role,
		IsVerified:       user.Verified,
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) *AuthResponse {
	resp := &AuthResponse{
		UserID:     user.ID.String(),
		Email:      user.Email,
		Username:   user.Username,
		Role:       user.Role,
		IsVerified: user.Verified,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = &session.ExpiresAt
	}

	return resp
}
