package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/akshara-learn/examportal-service/internal/events"
	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

const (
	// PremiumAmountPaise is the 30-day premium price, ₹99 in paise.
	PremiumAmountPaise = 9900
	premiumCurrency    = "INR"
	premiumDays        = 30
)

type subscriptionService struct {
	repo           repositories.Repository
	client         *razorpay.Client
	emailSender    EmailSender
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	keyID     string
	keySecret string
}

func NewSubscriptionService(repo repositories.Repository, client *razorpay.Client, emailSender EmailSender, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, keyID, keySecret string) SubscriptionService {
	return &subscriptionService{
		repo:           repo,
		client:         client,
		emailSender:    emailSender,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		keyID:          keyID,
		keySecret:      keySecret,
	}
}

func (s *subscriptionService) CreateOrder(ctx context.Context, userID uint) (*OrderResponse, error) {
	if s.client == nil {
		return nil, NewDependencyError("payment gateway", fmt.Errorf("not configured"))
	}

	orderData := map[string]interface{}{
		"amount":          PremiumAmountPaise,
		"currency":        premiumCurrency,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"user_id": fmt.Sprintf("%d", userID),
			"plan":    string(models.PlanPremium),
		},
	}

	order, err := s.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, NewDependencyError("payment gateway", err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, NewDependencyError("payment gateway", fmt.Errorf("order response missing id"))
	}

	s.logger.Info("payment order created", "user_id", userID, "order_id", orderID)

	return &OrderResponse{
		OrderID:  orderID,
		Amount:   PremiumAmountPaise,
		Currency: premiumCurrency,
		KeyID:    s.keyID,
	}, nil
}

// Activate verifies the gateway signature and opens the 30-day premium
// window. The subscription row is upserted, so re-activating extends from
// now rather than stacking rows.
func (s *subscriptionService) Activate(ctx context.Context, userID uint, req ActivateSubscriptionRequest) (*PlanStatus, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("payment", err.Error(), nil)
	}

	params := map[string]interface{}{
		"razorpay_order_id":   req.OrderID,
		"razorpay_payment_id": req.PaymentID,
	}
	if !utils.VerifyPaymentSignature(params, req.Signature, s.keySecret) {
		return nil, NewValidationError("razorpay_signature", "signature verification failed", nil)
	}

	now := time.Now().UTC()
	end := now.AddDate(0, 0, premiumDays)

	sub := &models.Subscription{
		UserID:    userID,
		Plan:      models.PlanPremium,
		StartDate: now,
		EndDate:   &end,
	}

	if err := s.repo.Subscription().Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	s.logger.Info("subscription activated",
		"user_id", userID,
		"order_id", req.OrderID,
		"end_date", end,
	)

	// Receipt mail failing should never fail the activation.
	if user, uerr := s.repo.User().GetByID(ctx, userID); uerr == nil {
		if merr := s.emailSender.SendSubscriptionReceipt(ctx, user.Email, user.Name, PremiumAmountPaise, end); merr != nil {
			s.logger.Warn("failed to send receipt email", "error", merr, "user_id", userID)
		}
	}

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventSubscriptionActivated, events.SubscriptionActivatedEvent{
		UserID:    userID,
		Plan:      string(models.PlanPremium),
		StartDate: now,
		EndDate:   end,
		OrderID:   req.OrderID,
	})); err != nil {
		s.logger.Error("failed to publish subscription event", "error", err, "user_id", userID)
	}

	return &PlanStatus{Plan: models.PlanPremium, Active: true, EndDate: &end}, nil
}

func (s *subscriptionService) CurrentPlan(ctx context.Context, userID uint) (*PlanStatus, error) {
	sub, err := s.repo.Subscription().GetByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return &PlanStatus{Plan: models.PlanFree}, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	active := sub.Plan == models.PlanPremium && sub.IsActive(time.Now().UTC())
	if !active {
		return &PlanStatus{Plan: models.PlanFree, EndDate: sub.EndDate}, nil
	}

	return &PlanStatus{Plan: sub.Plan, Active: true, EndDate: sub.EndDate}, nil
}

// CanAccessTest applies the gating rule: premium accounts see everything,
// free accounts get exactly one trial test — the oldest general-category
// test.
func (s *subscriptionService) CanAccessTest(ctx context.Context, userID uint, test *models.MockTest) (bool, error) {
	plan, err := s.CurrentPlan(ctx, userID)
	if err != nil {
		return false, err
	}
	if plan.Active {
		return true, nil
	}

	if test.Category != models.CategoryGeneral {
		return false, nil
	}

	trial, err := s.repo.Test().OldestByCategory(ctx, models.CategoryGeneral)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve trial test: %w", err)
	}

	return trial.ID == test.ID, nil
}
