package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	scoringService services.ScoringService
}

func NewQuizHandler(scoringService services.ScoringService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		scoringService: scoringService,
	}
}

// TodayQuiz returns today's quiz in the requested language
// @Summary Get today's quiz
// @Tags quiz
// @Produce json
// @Param lang query string false "Language (ml or en)"
// @Success 200 {object} services.QuizView
// @Failure 404 {object} ErrorResponse
// @Router /quiz/today [get]
func (h *QuizHandler) TodayQuiz(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	lang := services.QuizLanguage(c.DefaultQuery("lang", "ml"))

	quiz, err := h.scoringService.TodayQuiz(c.Request.Context(), userID, lang)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// SubmitQuiz scores a quiz submission; the first submission wins
// @Summary Submit daily quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param answers body services.SubmitQuizRequest true "Answers keyed by question id"
// @Success 200 {object} services.QuizResultResponse
// @Failure 409 {object} ErrorResponse
// @Router /quiz/{id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting daily quiz", "quiz_id", id)

	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.scoringService.SubmitQuiz(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// QuizResult returns the stored submission for a quiz
// @Summary Get quiz result
// @Tags quiz
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} services.QuizResultResponse
// @Failure 404 {object} ErrorResponse
// @Router /quiz/{id}/result [get]
func (h *QuizHandler) QuizResult(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	result, err := h.scoringService.QuizResult(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// QuizHistory lists past quiz submissions, newest first
// @Summary Get quiz history
// @Tags quiz
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} SuccessResponse
// @Router /quiz/history [get]
func (h *QuizHandler) QuizHistory(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	history, err := h.scoringService.QuizHistory(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: history})
}
