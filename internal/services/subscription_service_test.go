package services

import (
	"context"
	"testing"
	"time"

	"github.com/akshara-learn/examportal-service/internal/events"
	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

func newSubscriptionFixture(t *testing.T) (SubscriptionService, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	logger := testLogger()
	svc := NewSubscriptionService(repo, nil, &fakeEmailSender{}, events.NewMockEventPublisher(logger), logger, validator.New(), "", "")
	return svc, repo
}

func TestCurrentPlan(t *testing.T) {
	svc, repo := newSubscriptionFixture(t)
	ctx := context.Background()

	// No subscription row at all.
	plan, err := svc.CurrentPlan(ctx, 1)
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if plan.Plan != models.PlanFree || plan.Active {
		t.Errorf("no row should mean free: %+v", plan)
	}

	// Live premium window.
	end := time.Now().UTC().Add(24 * time.Hour)
	repo.subs[1] = &models.Subscription{
		UserID:    1,
		Plan:      models.PlanPremium,
		StartDate: time.Now().UTC().Add(-time.Hour),
		EndDate:   &end,
	}
	plan, err = svc.CurrentPlan(ctx, 1)
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if plan.Plan != models.PlanPremium || !plan.Active {
		t.Errorf("expected active premium: %+v", plan)
	}

	// Lapsed premium reads as free.
	past := time.Now().UTC().Add(-time.Hour)
	repo.subs[1].EndDate = &past
	plan, err = svc.CurrentPlan(ctx, 1)
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if plan.Plan != models.PlanFree || plan.Active {
		t.Errorf("lapsed premium should read as free: %+v", plan)
	}
}

func TestCanAccessTest(t *testing.T) {
	svc, repo := newSubscriptionFixture(t)
	ctx := context.Background()

	trialTest := &models.MockTest{ID: 1, Category: models.CategoryGeneral, CreatedAt: time.Now().Add(-48 * time.Hour)}
	newerGeneral := &models.MockTest{ID: 2, Category: models.CategoryGeneral, CreatedAt: time.Now()}
	pscTest := &models.MockTest{ID: 3, Category: models.CategoryPSC, CreatedAt: time.Now().Add(-72 * time.Hour)}
	for _, test := range []*models.MockTest{trialTest, newerGeneral, pscTest} {
		repo.tests[test.ID] = test
	}

	check := func(userID uint, test *models.MockTest, want bool) {
		t.Helper()
		got, err := svc.CanAccessTest(ctx, userID, test)
		if err != nil {
			t.Fatalf("CanAccessTest failed: %v", err)
		}
		if got != want {
			t.Errorf("CanAccessTest(user=%d, test=%d) = %v, want %v", userID, test.ID, got, want)
		}
	}

	// Free account: only the oldest general test.
	check(1, trialTest, true)
	check(1, newerGeneral, false)
	check(1, pscTest, false)

	// Premium account: everything.
	end := time.Now().UTC().Add(24 * time.Hour)
	repo.subs[1] = &models.Subscription{
		UserID:    1,
		Plan:      models.PlanPremium,
		StartDate: time.Now().UTC().Add(-time.Hour),
		EndDate:   &end,
	}
	check(1, trialTest, true)
	check(1, newerGeneral, true)
	check(1, pscTest, true)
}

func TestCanAccessTest_NoGeneralTests(t *testing.T) {
	svc, repo := newSubscriptionFixture(t)

	pscTest := &models.MockTest{ID: 1, Category: models.CategoryPSC, CreatedAt: time.Now()}
	repo.tests[1] = pscTest

	got, err := svc.CanAccessTest(context.Background(), 1, pscTest)
	if err != nil {
		t.Fatalf("CanAccessTest failed: %v", err)
	}
	if got {
		t.Error("free account must not access a premium category")
	}
}

func TestCreateOrder_WithoutGateway(t *testing.T) {
	svc, _ := newSubscriptionFixture(t)

	_, err := svc.CreateOrder(context.Background(), 1)
	if !IsDependency(err) {
		t.Errorf("expected DependencyError without a gateway client, got %v", err)
	}
}

func TestActivate_RejectsBadSignature(t *testing.T) {
	svc, _ := newSubscriptionFixture(t)

	_, err := svc.Activate(context.Background(), 1, ActivateSubscriptionRequest{
		OrderID:   "order_test",
		PaymentID: "pay_test",
		Signature: "deadbeef",
	})
	if !IsValidation(err) {
		t.Errorf("forged signature should fail validation, got %v", err)
	}
}
