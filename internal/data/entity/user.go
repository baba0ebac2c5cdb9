package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Username          string   `db:"username"`
	Email             string   `db:"email"`
	PasswordHash      string   `db:"password"`
	Phone             string   `db:"phone"` // E.164, unique
	Role              UserRole `db:"role"`
	Verified          bool     `db:"verified"`
	VerificationToken *string  `db:"verification_token"` // cleared once used
	TwoFactorEnabled  bool     `db:"two_factor_enabled"`
	IsActive          bool     `db:"is_active"`
}
