package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/clock"
	"github.com/otp-auth-api/internal/pkg/credential"
	"github.com/otp-auth-api/internal/pkg/id"
)

const (
	otpSubject = "Your OTP Code"
	otpBody    = "Your OTP code is %s"
)

// Service runs the OTP-gated registration and login flows.
//
// Registration and login keep their OTPs in different places. A registration
// code lives with the staged sign-up in the in-memory pending store and is
// discarded together with it. A login code is written onto the persisted user
// record. The two mechanisms expire and get cleaned up differently; they are
// kept separate on purpose so each flow behaves the way existing clients
// expect. Do not fold them into one abstraction without revisiting both flows.
type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) error
	VerifyRegistration(ctx context.Context, email, otp string) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) error
	CompleteLogin(ctx context.Context, email, otp string) (*domain.LoginResult, error)
}

// Notifier delivers a message to an email address or phone number.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type userDirectory interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	ConsumeLoginOTP(ctx context.Context, userID, code string, now time.Time) error
}

type pendingStore interface {
	PutIfUnclaimed(reg domain.PendingRegistration) error
	Get(email string) (domain.PendingRegistration, bool)
	Remove(email string)
	FindByPhone(phone string) (domain.PendingRegistration, bool)
}

type credentialHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type codeGenerator interface {
	Generate() (string, error)
}

type dispatcher interface {
	Go(ctx context.Context, name string, f func(ctx context.Context) error) error
}

type service struct {
	users      userDirectory
	pending    pendingStore
	hasher     credentialHasher
	codes      codeGenerator
	notifier   Notifier
	dispatcher dispatcher
	clock      clock.Clocker
	otpTTL     time.Duration
	channel    string
}

type ServiceDeps struct {
	UserRepo   userDirectory
	Pending    pendingStore
	Hasher     credentialHasher
	Codes      codeGenerator
	Notifier   Notifier
	Dispatcher dispatcher
	Clock      clock.Clocker
	OTPTTL     time.Duration
	Channel    string // config.ChannelEmail or config.ChannelSMS
}

func NewService(deps ServiceDeps) Service {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.OTPTTL <= 0 {
		deps.OTPTTL = time.Hour
	}
	if deps.Channel == "" {
		deps.Channel = config.ChannelEmail
	}
	return &service{
		users:      deps.UserRepo,
		pending:    deps.Pending,
		hasher:     deps.Hasher,
		codes:      deps.Codes,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		otpTTL:     deps.OTPTTL,
		channel:    deps.Channel,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := s.ensureUnclaimed(ctx, req.Email, req.Phone); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, credential.ErrPasswordTooLong) {
			return fmt.Errorf("password exceeds %d bytes: %w", credential.MaxPasswordBytes, domain.ErrBadRequest)
		}
		return internalErr("hash credential", err)
	}
	code, err := s.codes.Generate()
	if err != nil {
		return internalErr("generate otp", err)
	}

	// The checks above ran before the slow hash; the store repeats the phone
	// check under its lock so two sign-ups cannot stage the same number.
	now := s.clock.Now()
	err = s.pending.PutIfUnclaimed(domain.PendingRegistration{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: hash,
		OTP:          code,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.otpTTL),
	})
	if err != nil {
		return fmt.Errorf("registration already pending for phone number: %w", err)
	}

	s.sendOTP(ctx, "registration", s.address(req.Email, req.Phone), code)
	return nil
}

// ensureUnclaimed rejects an email or phone that is already persisted or staged.
// Staged entries block even after they expire.
func (s *service) ensureUnclaimed(ctx context.Context, email, phone string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("email already registered: %w", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return internalErr("look up email", err)
	}
	if _, err := s.users.GetByPhone(ctx, phone); err == nil {
		return fmt.Errorf("phone number already registered: %w", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return internalErr("look up phone", err)
	}
	if _, ok := s.pending.Get(email); ok {
		return fmt.Errorf("registration already pending for email: %w", domain.ErrAlreadyExists)
	}
	if _, ok := s.pending.FindByPhone(phone); ok {
		return fmt.Errorf("registration already pending for phone number: %w", domain.ErrAlreadyExists)
	}
	return nil
}

// VerifyRegistration promotes a staged sign-up into a user. A wrong code is
// reported before expiry is looked at. The staged entry is removed only after
// the user is persisted, so a failed write can be retried with the same code.
func (s *service) VerifyRegistration(ctx context.Context, email, otp string) (*domain.User, error) {
	reg, ok := s.pending.Get(email)
	if !ok || !codesMatch(reg.OTP, otp) {
		return nil, fmt.Errorf("verify registration: %w", domain.ErrInvalidOTP)
	}
	now := s.clock.Now()
	if reg.Expired(now) {
		return nil, fmt.Errorf("verify registration: %w", domain.ErrExpired)
	}

	u := reg.ToUser(id.New(), now)
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("email or phone number taken: %w", domain.ErrAlreadyExists)
		}
		return nil, internalErr("create user", err)
	}
	s.pending.Remove(email)

	slog.InfoContext(ctx, "user registered", "user_id", u.UserID)
	return u, nil
}

// Login checks the password and issues a login OTP stored on the user record.
// An unknown email and a wrong password return the same error value.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) error {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return internalErr("look up user", err)
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	code, err := s.codes.Generate()
	if err != nil {
		return internalErr("generate otp", err)
	}
	now := s.clock.Now()
	expires := now.Add(s.otpTTL)
	u.OTPCode = code
	u.OTPExpiresAt = &expires
	u.UpdatedAt = now
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return internalErr("store login otp", err)
	}

	s.sendOTP(ctx, "login", s.address(u.Email, u.Phone), code)
	return nil
}

// CompleteLogin checks the login OTP with the same precedence as
// VerifyRegistration and consumes it on success. Consumption is a conditional
// write, so of two requests racing with the same code only one succeeds.
func (s *service) CompleteLogin(ctx context.Context, email, otp string) (*domain.LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("complete login: %w", domain.ErrInvalidOTP)
		}
		return nil, internalErr("look up user", err)
	}
	if !u.HasLoginChallenge() || !codesMatch(u.OTPCode, otp) {
		return nil, fmt.Errorf("complete login: %w", domain.ErrInvalidOTP)
	}
	now := s.clock.Now()
	if now.After(*u.OTPExpiresAt) {
		return nil, fmt.Errorf("complete login: %w", domain.ErrExpired)
	}

	if err := s.users.ConsumeLoginOTP(ctx, u.UserID, otp, now); err != nil {
		if errors.Is(err, domain.ErrInvalidOTP) {
			return nil, fmt.Errorf("complete login: %w", domain.ErrInvalidOTP)
		}
		return nil, internalErr("consume login otp", err)
	}
	return &domain.LoginResult{UserID: u.UserID, Email: u.Email, AuthenticatedAt: now}, nil
}

func (s *service) address(email, phone string) string {
	if s.channel == config.ChannelSMS {
		return phone
	}
	return email
}

// sendOTP hands delivery to the dispatcher and returns immediately. Delivery
// problems are logged; they never change the outcome of the calling flow.
func (s *service) sendOTP(ctx context.Context, purpose, to, code string) {
	body := fmt.Sprintf(otpBody, code)
	err := s.dispatcher.Go(ctx, purpose+" otp", func(ctx context.Context) error {
		if err := s.notifier.Send(ctx, to, otpSubject, body); err != nil {
			return fmt.Errorf("deliver %s otp via %s: %w", purpose, s.channel, err)
		}
		slog.DebugContext(ctx, "otp delivered", "purpose", purpose, "channel", s.channel)
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "otp delivery not scheduled", "purpose", purpose, "err", err)
	}
}

func codesMatch(stored, given string) bool {
	return stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func internalErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrInternal, err)
}
