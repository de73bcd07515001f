package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/otp-auth-api/internal/application/auth"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/domain"
)

// TokenIssuer signs an access token for a user whose login just completed.
type TokenIssuer interface {
	Issue(userID, email string, authenticatedAt time.Time) (string, error)
}

// AuthHandler handles the OTP registration and login endpoints.
type AuthHandler struct {
	svc     auth.Service
	tokens  TokenIssuer
	otpSent string
}

// NewAuthHandler builds the handler. channel names where OTPs are delivered
// and only affects response messages. tokens may be nil, in which case a
// completed login carries no bearer token.
func NewAuthHandler(svc auth.Service, channel string, tokens TokenIssuer) *AuthHandler {
	sent := "OTP sent to email"
	if channel == config.ChannelSMS {
		sent = "OTP sent to phone number"
	}
	return &AuthHandler{svc: svc, tokens: tokens, otpSent: sent}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.Register(r.Context(), req); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: h.otpSent})
}

func (h *AuthHandler) VerifyRegistration(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if _, err := h.svc.VerifyRegistration(r.Context(), req.Email, req.OTP); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "User verified and registered successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.Login(r.Context(), req); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: h.otpSent})
}

func (h *AuthHandler) CompleteLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.svc.CompleteLogin(r.Context(), req.Email, req.OTP)
	if err != nil {
		httpError(w, r, err)
		return
	}
	env := LoginEnvelope{
		Message:         "Login successful",
		UserID:          res.UserID,
		AuthenticatedAt: res.AuthenticatedAt,
	}
	if h.tokens != nil {
		bearer, err := h.tokens.Issue(res.UserID, res.Email, res.AuthenticatedAt)
		if err != nil {
			slog.ErrorContext(r.Context(), "sign access token", "user_id", res.UserID, "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		env.Bearer = bearer
	}
	writeJSON(w, http.StatusOK, env)
}
