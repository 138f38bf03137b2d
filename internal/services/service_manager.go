package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/akshara-learn/examportal-service/internal/cache"
	"github.com/akshara-learn/examportal-service/internal/config"
	"github.com/akshara-learn/examportal-service/internal/events"
	"github.com/akshara-learn/examportal-service/internal/repositories"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

// serviceManager wires every service over the shared repository, validator
// and event publisher.
type serviceManager struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger

	auth          AuthService
	passwordReset PasswordResetService
	scoring       ScoringService
	subscription  SubscriptionService
	content       ContentService
	importSvc     ImportService
}

// ServiceManagerConfig carries everything the services need beyond the
// repository.
type ServiceManagerConfig struct {
	Repo           repositories.Repository
	Sessions       *cache.ResetSessionStore
	EventPublisher events.EventPublisher
	EmailSender    EmailSender
	RazorpayClient *razorpay.Client
	Logger         *slog.Logger
	Validator      *validator.Validator
	Config         *config.Config
}

func NewServiceManager(cfg ServiceManagerConfig) (ServiceManager, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	if cfg.EventPublisher == nil {
		return nil, fmt.Errorf("event publisher is required")
	}
	if cfg.Config == nil {
		return nil, fmt.Errorf("config is required")
	}

	sm := &serviceManager{
		repo:           cfg.Repo,
		eventPublisher: cfg.EventPublisher,
		logger:         cfg.Logger,
	}

	sm.subscription = NewSubscriptionService(
		cfg.Repo, cfg.RazorpayClient, cfg.EmailSender, cfg.EventPublisher, cfg.Logger, cfg.Validator,
		cfg.Config.Razorpay.KeyID, cfg.Config.Razorpay.KeySecret,
	)
	sm.auth = NewAuthService(
		cfg.Repo, cfg.EmailSender, cfg.EventPublisher, cfg.Logger, cfg.Validator,
		cfg.Config.JWT.Secret, cfg.Config.JWT.TTL,
	)
	sm.passwordReset = NewPasswordResetService(
		cfg.Repo, cfg.Sessions, cfg.EmailSender, cfg.EventPublisher, cfg.Logger, cfg.Validator,
		cfg.Config.OTP.TTL, cfg.Config.OTP.MaxAttempts,
	)
	sm.scoring = NewScoringService(cfg.Repo, sm.subscription, cfg.EventPublisher, cfg.Logger, cfg.Validator)
	sm.content = NewContentService(cfg.Repo, sm.subscription, cfg.Logger, cfg.Validator)
	sm.importSvc = NewImportService(cfg.Repo, cfg.Logger)

	return sm, nil
}

func (sm *serviceManager) Auth() AuthService                  { return sm.auth }
func (sm *serviceManager) PasswordReset() PasswordResetService { return sm.passwordReset }
func (sm *serviceManager) Scoring() ScoringService             { return sm.scoring }
func (sm *serviceManager) Subscription() SubscriptionService   { return sm.subscription }
func (sm *serviceManager) Content() ContentService             { return sm.content }
func (sm *serviceManager) Import() ImportService               { return sm.importSvc }

func (sm *serviceManager) Initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository not reachable: %w", err)
	}

	sm.logger.Info("service manager initialized")
	return nil
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	if err := sm.eventPublisher.Close(); err != nil {
		sm.logger.Error("failed to close event publisher", "error", err)
	}
	sm.logger.Info("service manager shut down")
	return nil
}
