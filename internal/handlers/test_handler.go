package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

type TestHandler struct {
	BaseHandler
	scoringService services.ScoringService
}

func NewTestHandler(scoringService services.ScoringService, logger utils.Logger) *TestHandler {
	return &TestHandler{
		BaseHandler:    NewBaseHandler(logger),
		scoringService: scoringService,
	}
}

// ListTests lists mock tests with access and attempt flags
// @Summary List mock tests
// @Tags tests
// @Produce json
// @Param category query string false "Exam category (general, psc, ssc, rrb)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.TestListResponse
// @Failure 400 {object} ErrorResponse
// @Router /tests [get]
func (h *TestHandler) ListTests(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var category *models.ExamCategory
	if raw := c.Query("category"); raw != "" {
		cat := models.ExamCategory(raw)
		category = &cat
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.scoringService.ListTests(c.Request.Context(), userID, category, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTest returns the test paper for an attempt
// @Summary Get test detail
// @Tags tests
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} services.TestDetail
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id} [get]
func (h *TestHandler) GetTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	test, err := h.scoringService.GetTest(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// SubmitTest scores a submission and stores the result
// @Summary Submit test answers
// @Tags tests
// @Accept json
// @Produce json
// @Param id path uint true "Test ID"
// @Param answers body services.SubmitTestRequest true "Answers keyed by question id"
// @Success 200 {object} services.TestResultResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/submit [post]
func (h *TestHandler) SubmitTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting test", "test_id", id)

	var req services.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.scoringService.SubmitTest(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult returns the stored result for a test
// @Summary Get test result
// @Tags tests
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} services.TestResultResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/result [get]
func (h *TestHandler) GetResult(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	result, err := h.scoringService.GetResult(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProgress returns completion count and per-test results
// @Summary Get progress overview
// @Tags tests
// @Produce json
// @Success 200 {object} services.ProgressResponse
// @Router /tests/progress [get]
func (h *TestHandler) GetProgress(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	progress, err := h.scoringService.GetProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
