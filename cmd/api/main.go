package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/otp-auth-api/internal/application/auth"
	"github.com/otp-auth-api/internal/application/user"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
	"github.com/otp-auth-api/internal/infrastructure/smtp"
	"github.com/otp-auth-api/internal/infrastructure/sns"
	"github.com/otp-auth-api/internal/pkg/clock"
	"github.com/otp-auth-api/internal/pkg/credential"
	"github.com/otp-auth-api/internal/pkg/goroutine"
	"github.com/otp-auth-api/internal/pkg/otp"
	"github.com/otp-auth-api/internal/staging"
	transporthttp "github.com/otp-auth-api/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.UserUniques)

	notifier, err := newNotifier(ctx, cfg)
	if err != nil {
		return err
	}

	clk := clock.New()
	pending := staging.NewStore()
	dispatcher := goroutine.NewManager(cfg.NotifyMaxInflight, cfg.NotifyTimeout)

	// The sweeper lives as long as ctx, so it stays off the dispatcher and its
	// per-task timeout.
	sweepDone := make(chan struct{})
	if cfg.StagingSweepInterval > 0 {
		go func() {
			defer close(sweepDone)
			_ = pending.RunSweeper(ctx, cfg.StagingSweepInterval, clk)
		}()
	} else {
		close(sweepDone)
	}

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:   userRepo,
		Pending:    pending,
		Hasher:     credential.NewHasher(cfg.BcryptCost),
		Codes:      otp.NewGenerator(cfg.OTPDigits),
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Clock:      clk,
		OTPTTL:     cfg.OTPTTL,
		Channel:    cfg.OTPChannel,
	})
	userSvc := user.NewService(userRepo)

	svcs := transporthttp.Services{Auth: authSvc, Users: userSvc}
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		svcs.Tokens = p
	} else {
		slog.Warn("JWT provider not available, logins complete without a bearer token", "err", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, svcs),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "otp_channel", cfg.OTPChannel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-quit:
	}

	slog.Info("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	dispatcher.Wait()
	<-sweepDone
	slog.Info("server stopped")
	return nil
}

func newNotifier(ctx context.Context, cfg *config.Config) (auth.Notifier, error) {
	switch cfg.OTPChannel {
	case config.ChannelEmail:
		return smtp.NewMailer(cfg), nil
	case config.ChannelSMS:
		awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.SNSRegion)
		if err != nil {
			return nil, err
		}
		return sns.NewSender(awsCfg, cfg.AWSEndpointURL), nil
	default:
		return nil, fmt.Errorf("unsupported OTP_CHANNEL %q", cfg.OTPChannel)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
