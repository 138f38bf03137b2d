package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/akshara-learn/examportal-service/internal/cache"
	"github.com/akshara-learn/examportal-service/internal/events"
	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

type passwordResetService struct {
	repo           repositories.Repository
	sessions       *cache.ResetSessionStore
	emailSender    EmailSender
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	ttl         time.Duration
	maxAttempts int
}

func NewPasswordResetService(repo repositories.Repository, sessions *cache.ResetSessionStore, emailSender EmailSender, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, ttl time.Duration, maxAttempts int) PasswordResetService {
	if ttl <= 0 {
		ttl = models.OTPDefaultTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = models.OTPMaxAttempts
	}
	return &passwordResetService{
		repo:           repo,
		sessions:       sessions,
		emailSender:    emailSender,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		ttl:            ttl,
		maxAttempts:    maxAttempts,
	}
}

// generateCode draws a uniformly random zero-padded numeric code from
// crypto/rand.
func generateCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

// RequestReset issues a fresh code for the account behind the email. An
// unknown email returns success without side effects, so the endpoint leaks
// nothing about which addresses are registered.
func (s *passwordResetService) RequestReset(ctx context.Context, req ResetRequestInput) error {
	if err := s.validator.Validate(req); err != nil {
		return NewValidationError("email", "invalid email address", req.Email)
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Info("reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	code, err := generateCode(models.OTPDigits)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash reset code: %w", err)
	}

	now := time.Now().UTC()
	resetCode := &models.PasswordResetCode{
		UserID:     user.ID,
		HashedCode: string(hash),
		Channel:    "email",
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	// Retiring older codes and creating the new one together keeps exactly
	// one verifiable code per account.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.PasswordReset().InvalidateActive(ctx, user.ID); err != nil {
			return err
		}
		return tx.PasswordReset().Create(ctx, resetCode)
	})
	if err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	if err := s.emailSender.SendPasswordResetCode(ctx, user.Email, user.Name, code, s.ttl); err != nil {
		return NewDependencyError("mail relay", err)
	}

	s.logger.Info("password reset code issued",
		"user_id", user.ID,
		"expires_at", resetCode.ExpiresAt,
	)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventPasswordResetIssued, events.PasswordResetIssuedEvent{
		UserID:    user.ID,
		Channel:   resetCode.Channel,
		ExpiresAt: resetCode.ExpiresAt,
	})); err != nil {
		s.logger.Error("failed to publish reset event", "error", err, "user_id", user.ID)
	}

	return nil
}

// VerifyCode checks a submitted code against the account's live reset code.
// On success it opens a short-lived reset session; the code itself is only
// retired when the reset completes.
func (s *passwordResetService) VerifyCode(ctx context.Context, req VerifyCodeInput) (*VerifyCodeResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("code", "code must be a 6 digit number", nil)
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthProtocolError(ResetNoActiveRequest, "no active reset request for this account")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := time.Now().UTC()
	code, err := s.repo.PasswordReset().GetActiveByUser(ctx, user.ID, now, s.maxAttempts)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, s.classifyMissingCode(ctx, user.ID, now)
		}
		return nil, fmt.Errorf("failed to load reset code: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(code.HashedCode), []byte(req.Code)); err != nil {
		attempts, exhausted, aerr := s.repo.PasswordReset().RegisterFailedAttempt(ctx, code.ID, s.maxAttempts)
		if aerr != nil {
			return nil, aerr
		}

		s.logger.Warn("reset code verification failed",
			"user_id", user.ID,
			"attempts", attempts,
		)

		if exhausted {
			return nil, NewAuthProtocolError(ResetTooManyAttempts, "too many wrong codes, request a new one")
		}
		return nil, NewAuthProtocolError(ResetInvalidCode, "incorrect code")
	}

	token := uuid.New().String()
	session := cache.ResetSession{
		UserID:   user.ID,
		CodeID:   code.ID,
		Verified: true,
	}
	if err := s.sessions.Put(ctx, token, session); err != nil {
		return nil, NewDependencyError("session store", err)
	}

	s.logger.Info("reset code verified", "user_id", user.ID)

	return &VerifyCodeResult{ResetToken: token}, nil
}

// classifyMissingCode distinguishes "never asked" from "asked but the code
// died" so the client can show the right message.
func (s *passwordResetService) classifyMissingCode(ctx context.Context, userID uint, now time.Time) error {
	latest, err := s.repo.PasswordReset().GetLatestByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewAuthProtocolError(ResetNoActiveRequest, "no active reset request for this account")
		}
		return fmt.Errorf("failed to load reset history: %w", err)
	}

	switch {
	case latest.Attempts >= s.maxAttempts:
		return NewAuthProtocolError(ResetTooManyAttempts, "too many wrong codes, request a new one")
	case latest.IsExpired(now):
		return NewAuthProtocolError(ResetExpired, "code expired, request a new one")
	default:
		return NewAuthProtocolError(ResetNoActiveRequest, "no active reset request for this account")
	}
}

// CompleteReset rotates the password. The mismatch check runs before any
// state is touched, so a typo never costs the user their session or code.
func (s *passwordResetService) CompleteReset(ctx context.Context, req CompleteResetInput) error {
	if err := s.validator.Validate(req); err != nil {
		return NewValidationError("new_password", "password must be 8-72 characters", nil)
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	session, err := s.sessions.Get(ctx, req.ResetToken)
	if err != nil {
		if err == cache.ErrCacheNotFound {
			return NewAuthProtocolError(ResetSessionInvalid, "reset session expired or unknown")
		}
		return NewDependencyError("session store", err)
	}
	if !session.Verified {
		return NewAuthProtocolError(ResetSessionInvalid, "reset session not verified")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Consuming the code and rotating the password commit together; a
	// replayed session finds the code already used and changes nothing.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		consumed, err := tx.PasswordReset().Consume(ctx, session.CodeID)
		if err != nil {
			return err
		}
		if !consumed {
			return NewAuthProtocolError(ResetSessionInvalid, "reset already completed")
		}
		return tx.User().UpdatePassword(ctx, session.UserID, string(hash))
	})
	if err != nil {
		return err
	}

	_ = s.sessions.Delete(ctx, req.ResetToken)

	s.logger.Info("password reset completed", "user_id", session.UserID)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventPasswordChanged, events.PasswordChangedEvent{
		UserID:    session.UserID,
		ChangedAt: time.Now().UTC(),
	})); err != nil {
		s.logger.Error("failed to publish password change event", "error", err, "user_id", session.UserID)
	}

	return nil
}
