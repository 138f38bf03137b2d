package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/akshara-learn/examportal-service/internal/events"
	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

type authService struct {
	repo           repositories.Repository
	emailSender    EmailSender
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewAuthService(repo repositories.Repository, emailSender EmailSender, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, jwtSecret string, jwtTTL time.Duration) AuthService {
	if jwtTTL <= 0 {
		jwtTTL = 24 * time.Hour
	}
	return &authService{
		repo:           repo,
		emailSender:    emailSender,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		jwtSecret:      []byte(jwtSecret),
		jwtTTL:         jwtTTL,
	}
}

type authClaims struct {
	UserID uint            `json:"uid"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("register", err.Error(), nil)
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	// Welcome mail failing should never fail the registration.
	if err := s.emailSender.SendWelcome(ctx, user.Email, user.Name); err != nil {
		s.logger.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issueToken(user)
}

func (s *authService) issueToken(user *models.User) (*AuthResponse, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.jwtTTL)

	claims := authClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "examportal-service",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *authService) ParseToken(tokenString string) (uint, models.UserRole, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}
	return claims.UserID, claims.Role, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*ProfileResponse, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	testsTaken, err := s.repo.Result().CountCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.repo.Quiz().ListSubmissionsByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		User:         user,
		Plan:         models.PlanFree,
		TestsTaken:   testsTaken,
		QuizzesTaken: len(quizzes),
	}

	if user.Subscription != nil {
		resp.Plan = user.Subscription.Plan
		resp.PlanActive = user.Subscription.Plan == models.PlanPremium && user.Subscription.IsActive(time.Now().UTC())
		resp.PlanExpiry = user.Subscription.EndDate
	}

	return resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("profile", err.Error(), nil)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
