package domain

import "time"

// PendingRegistration is a sign-up that has not been confirmed by OTP yet.
// It lives only in the staging store and is never written to the user table.
type PendingRegistration struct {
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	OTP          string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the staged OTP is past its window at now.
func (p PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// ToUser builds the persisted user that a successful verification promotes this entry into.
func (p PendingRegistration) ToUser(userID string, now time.Time) *User {
	return &User{
		UserID:       userID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: p.PasswordHash,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}
