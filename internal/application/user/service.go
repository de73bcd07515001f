package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/id"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// Service exposes read-only access to registered users. Results carry the
// full record; the transport layer strips credential and OTP fields.
type Service interface {
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	List(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	users, next, err := s.repo.List(ctx, int32(limit), cursor)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("list users: %w: %w", domain.ErrInternal, err)
	}
	return users, next, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	if !id.Valid(userID) {
		return nil, fmt.Errorf("user %q: %w", userID, domain.ErrNotFound)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w: %w", domain.ErrInternal, err)
	}
	return u, nil
}
