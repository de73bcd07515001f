package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/otp-auth-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LoginEnvelope is returned once a login OTP has been accepted.
type LoginEnvelope struct {
	Message         string    `json:"message"`
	Bearer          string    `json:"Bearer,omitempty"`
	UserID          string    `json:"user_id"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}

// SafeUser is the outward view of a user. It never carries the password
// hash or an outstanding login OTP.
type SafeUser struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	RegistrationDate time.Time `json:"registration_date"`
}

func toSafeUser(u *domain.User) *SafeUser {
	return &SafeUser{
		ID:               u.UserID,
		Name:             u.Name,
		Email:            u.Email,
		PhoneNumber:      u.Phone,
		RegistrationDate: u.RegisteredAt,
	}
}

// UserPageEnvelope wraps a page of users. NextCursor is empty on the last page.
type UserPageEnvelope struct {
	Data       []*SafeUser `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
