package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

type SubscriptionHandler struct {
	BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService, logger utils.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         NewBaseHandler(logger),
		subscriptionService: subscriptionService,
	}
}

// CreateOrder opens a payment order for the premium plan
// @Summary Create premium order
// @Tags subscription
// @Produce json
// @Success 201 {object} services.OrderResponse
// @Failure 502 {object} ErrorResponse
// @Router /subscription/order [post]
func (h *SubscriptionHandler) CreateOrder(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating premium order")

	order, err := h.subscriptionService.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Activate verifies a completed payment and opens the premium window
// @Summary Activate subscription
// @Tags subscription
// @Accept json
// @Produce json
// @Param payment body services.ActivateSubscriptionRequest true "Gateway callback fields"
// @Success 200 {object} services.PlanStatus
// @Failure 400 {object} ErrorResponse
// @Router /subscription/activate [post]
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Activating subscription")

	var req services.ActivateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	status, err := h.subscriptionService.Activate(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// CurrentPlan returns the account's plan status
// @Summary Get current plan
// @Tags subscription
// @Produce json
// @Success 200 {object} services.PlanStatus
// @Router /subscription [get]
func (h *SubscriptionHandler) CurrentPlan(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	status, err := h.subscriptionService.CurrentPlan(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
