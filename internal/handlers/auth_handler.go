package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService  services.AuthService
	resetService services.PasswordResetService
}

func NewAuthHandler(authService services.AuthService, resetService services.PasswordResetService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  NewBaseHandler(logger),
		authService:  authService,
		resetService: resetService,
	}
}

// Register creates a new student account
// @Summary Register account
// @Tags auth
// @Accept json
// @Produce json
// @Param account body services.RegisterRequest true "Registration data"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering account")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login exchanges credentials for a bearer token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Logging in")

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RequestPasswordReset issues a reset code by email
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.ResetRequestInput true "Account email"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/password-reset/request [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	h.LogRequest(c, "Password reset requested")

	var req services.ResetRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	// The response is identical whether or not the email exists.
	c.JSON(http.StatusAccepted, SuccessResponse{
		Data: gin.H{"message": "If the account exists, a code has been sent"},
	})
}

// VerifyPasswordReset checks a reset code and opens a reset session
// @Summary Verify reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.VerifyCodeInput true "Email and code"
// @Success 200 {object} services.VerifyCodeResult
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/password-reset/verify [post]
func (h *AuthHandler) VerifyPasswordReset(c *gin.Context) {
	h.LogRequest(c, "Verifying reset code")

	var req services.VerifyCodeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.resetService.VerifyCode(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompletePasswordReset sets the new password using a verified session
// @Summary Complete password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.CompleteResetInput true "Session token and new password"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/password-reset/complete [post]
func (h *AuthHandler) CompletePasswordReset(c *gin.Context) {
	h.LogRequest(c, "Completing password reset")

	var req services.CompleteResetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.resetService.CompleteReset(c.Request.Context(), req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{"message": "Password updated"},
	})
}

// GetProfile returns the authenticated account with plan and progress
// @Summary Get profile
// @Tags profile
// @Produce json
// @Success 200 {object} services.ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates name and phone
// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body services.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Router /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
