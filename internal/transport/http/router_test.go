package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubAuth struct{}

func (stubAuth) Register(context.Context, domain.RegisterRequest) error { return nil }
func (stubAuth) VerifyRegistration(context.Context, string, string) (*domain.User, error) {
	return &domain.User{}, nil
}
func (stubAuth) Login(context.Context, domain.LoginRequest) error { return nil }
func (stubAuth) CompleteLogin(context.Context, string, string) (*domain.LoginResult, error) {
	return &domain.LoginResult{}, nil
}

type stubUsers struct{}

func (stubUsers) List(context.Context, int, string) ([]domain.User, string, error) {
	return nil, "", nil
}
func (stubUsers) Get(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func TestRouter_Routes(t *testing.T) {
	cfg := &config.Config{AllowedOrigins: []string{"*"}, OTPChannel: config.ChannelEmail}
	router := NewRouter(cfg, Services{Auth: stubAuth{}, Users: stubUsers{}})

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/v1/health-check/ping", "", http.StatusOK},
		{http.MethodPost, "/v1/auth/register", `{"name":"A","email":"a@b.co","phone_number":"+15550001111","password":"pw"}`, http.StatusCreated},
		{http.MethodPost, "/v1/auth/verify-otp", `{"email":"a@b.co","otp":"123456"}`, http.StatusOK},
		{http.MethodPost, "/v1/auth/login", `{"email":"a@b.co","password":"pw"}`, http.StatusOK},
		{http.MethodPost, "/v1/auth/login/verify", `{"email":"a@b.co","otp":"123456"}`, http.StatusOK},
		{http.MethodGet, "/v1/auth/users", "", http.StatusOK},
		{http.MethodGet, "/v1/auth/users/unknown", "", http.StatusNotFound},
		{http.MethodGet, "/v1/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}
