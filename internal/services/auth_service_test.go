package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/akshara-learn/examportal-service/internal/events"
	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeRepository, *fakeEmailSender) {
	t.Helper()
	repo := newFakeRepository()
	mail := &fakeEmailSender{}
	logger := testLogger()
	auth := NewAuthService(repo, mail, events.NewMockEventPublisher(logger), logger, validator.New(), "test-secret", time.Hour)
	return auth, repo, mail
}

func registerInput(email string) RegisterRequest {
	return RegisterRequest{
		Name:            "Anjali",
		Email:           email,
		Password:        "secret-pass-1",
		ConfirmPassword: "secret-pass-1",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _, mail := newAuthFixture(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput("anjali@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if created.Token == "" {
		t.Error("registration should issue a token")
	}
	if created.User.Role != models.RoleStudent {
		t.Errorf("new users should be students, got %s", created.User.Role)
	}
	if len(mail.welcomes) != 1 {
		t.Errorf("expected 1 welcome mail, got %d", len(mail.welcomes))
	}

	logged, err := auth.Login(ctx, LoginRequest{Email: "anjali@example.com", Password: "secret-pass-1"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.User.ID != created.User.ID {
		t.Errorf("login returned user %d, want %d", logged.User.ID, created.User.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, registerInput("anjali@example.com")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := auth.Register(ctx, registerInput("anjali@example.com")); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	// Recapitalizing the address is still the same account.
	if _, err := auth.Register(ctx, registerInput("Anjali@Example.com")); err != ErrEmailTaken {
		t.Errorf("mixed-case duplicate: expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_EmailCaseInsensitive(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput("Anjali@Example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	logged, err := auth.Login(ctx, LoginRequest{Email: "anjali@example.com", Password: "secret-pass-1"})
	if err != nil {
		t.Fatalf("lowercase login against mixed-case registration failed: %v", err)
	}
	if logged.User.ID != created.User.ID {
		t.Errorf("login returned user %d, want %d", logged.User.ID, created.User.ID)
	}
}

func TestRegister_PasswordConfirmation(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	req := registerInput("anjali@example.com")
	req.ConfirmPassword = "something-else"

	if _, err := auth.Register(context.Background(), req); !IsValidation(err) {
		t.Errorf("mismatched confirmation should fail validation, got %v", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, registerInput("anjali@example.com")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := auth.Login(ctx, LoginRequest{Email: "anjali@example.com", Password: "wrong-pass-1"}); err != ErrInvalidCredentials {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown accounts fail the same way as wrong passwords.
	if _, err := auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret-pass-1"}); err != ErrInvalidCredentials {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseToken(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput("anjali@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	userID, role, err := auth.ParseToken(created.Token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if userID != created.User.ID || role != models.RoleStudent {
		t.Errorf("claims = (%d, %s), want (%d, %s)", userID, role, created.User.ID, models.RoleStudent)
	}

	// Corrupting the signature must invalidate the token.
	tampered := created.Token + "x"
	if _, _, err := auth.ParseToken(tampered); err != ErrInvalidToken {
		t.Errorf("tampered token: expected ErrInvalidToken, got %v", err)
	}

	if _, _, err := auth.ParseToken("not.a.jwt"); err != ErrInvalidToken {
		t.Errorf("garbage token: expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	auth, repo, mail := newAuthFixture(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput("anjali@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	logger := testLogger()
	other := NewAuthService(repo, mail, events.NewMockEventPublisher(logger), logger, validator.New(), "other-secret", time.Hour)
	if _, _, err := other.ParseToken(created.Token); err != ErrInvalidToken {
		t.Errorf("foreign signature: expected ErrInvalidToken, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput("anjali@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	name := "Anjali Menon"
	phone := "9876543210"
	updated, err := auth.UpdateProfile(ctx, created.User.ID, UpdateProfileRequest{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != name || updated.Phone != phone {
		t.Errorf("profile not updated: %+v", updated)
	}

	tooShort := "x"
	if _, err := auth.UpdateProfile(ctx, created.User.ID, UpdateProfileRequest{Name: &tooShort}); !IsValidation(err) {
		t.Errorf("short name should fail validation, got %v", err)
	}
}

func TestGetProfile_CountsActivity(t *testing.T) {
	auth, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := auth.Register(ctx, registerInput("anjali@example.com"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	userID := created.User.ID

	repo.tests[1] = &models.MockTest{ID: 1, Category: models.CategoryGeneral, Title: "T", CreatedAt: time.Now()}
	repo.results[[2]uint{userID, 1}] = &models.TestResult{UserID: userID, TestID: 1, Completed: true}
	repo.quizzes[1] = &models.DailyQuiz{ID: 1, Date: time.Now()}
	repo.submissions[[2]uint{userID, 1}] = &models.DailyQuizSubmission{UserID: userID, QuizID: 1}

	profile, err := auth.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.TestsTaken != 1 || profile.QuizzesTaken != 1 {
		t.Errorf("activity counts = (%d, %d), want (1, 1)", profile.TestsTaken, profile.QuizzesTaken)
	}
	if profile.Plan != models.PlanFree {
		t.Errorf("plan = %s, want free", profile.Plan)
	}
	if strings.TrimSpace(profile.User.Email) != "anjali@example.com" {
		t.Errorf("unexpected profile user: %+v", profile.User)
	}
}
