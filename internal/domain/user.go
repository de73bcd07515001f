package domain

import "time"

// User is a persisted account. OTPCode and OTPExpiresAt are only populated
// while a login challenge is outstanding.
type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	Phone        string     `json:"phone_number" dynamodbav:"phone"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	OTPCode      string     `json:"-" dynamodbav:"otp_code,omitempty"`
	OTPExpiresAt *time.Time `json:"-" dynamodbav:"otp_expires_at,omitempty,unixtime"`
	RegisteredAt time.Time  `json:"registration_date" dynamodbav:"registered_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// HasLoginChallenge reports whether a login OTP has been issued and not yet consumed.
func (u *User) HasLoginChallenge() bool {
	return u.OTPCode != "" && u.OTPExpiresAt != nil
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone_number" validate:"required,e164"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,numeric"`
}

// LoginResult marks a completed login. Session or token issuance is left to callers.
type LoginResult struct {
	UserID          string    `json:"user_id"`
	Email           string    `json:"email"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}
