package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

// maxImportSize bounds uploaded workbooks at 10 MiB.
const maxImportSize = 10 << 20

type AdminHandler struct {
	BaseHandler
	contentService services.ContentService
	importService  services.ImportService
}

func NewAdminHandler(contentService services.ContentService, importService services.ImportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
		importService:  importService,
	}
}

// CreateTest creates an empty mock test
// @Summary Create mock test
// @Tags admin
// @Accept json
// @Produce json
// @Param test body services.CreateTestRequest true "Test data"
// @Success 201 {object} models.MockTest
// @Failure 400 {object} ErrorResponse
// @Router /admin/tests [post]
func (h *AdminHandler) CreateTest(c *gin.Context) {
	h.LogRequest(c, "Creating mock test")

	var req services.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	test, err := h.contentService.CreateTest(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, test)
}

// DeleteTest removes a mock test and its questions
// @Summary Delete mock test
// @Tags admin
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/tests/{id} [delete]
func (h *AdminHandler) DeleteTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting mock test", "test_id", id)

	if err := h.contentService.DeleteTest(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"message": "Test deleted"}})
}

// ImportQuestions uploads an xlsx workbook of questions into a test
// @Summary Import questions from xlsx
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path uint true "Test ID"
// @Param file formData file true "Workbook with question, options A-D, correct label"
// @Success 200 {object} services.ImportReport
// @Failure 400 {object} ErrorResponse
// @Router /admin/tests/{id}/import [post]
func (h *AdminHandler) ImportQuestions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Importing questions", "test_id", id)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Workbook file is required",
			Details: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Workbook too large",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Could not read uploaded file",
		})
		return
	}
	defer file.Close()

	report, err := h.importService.ImportTestQuestions(c.Request.Context(), id, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// CreateQuiz publishes a daily quiz for a date
// @Summary Create daily quiz
// @Tags admin
// @Accept json
// @Produce json
// @Param quiz body services.CreateQuizRequest true "Quiz with bilingual questions"
// @Success 201 {object} models.DailyQuiz
// @Failure 400 {object} ErrorResponse
// @Router /admin/quiz [post]
func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	h.LogRequest(c, "Creating daily quiz")

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	quiz, err := h.contentService.CreateDailyQuiz(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// NotifyUser pushes an in-app notification to one account
// @Summary Notify user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param notification body services.NotifyAllRequest true "Message"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/users/{id}/notify [post]
func (h *AdminHandler) NotifyUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.NotifyAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.contentService.NotifyUser(c.Request.Context(), id, req.Message); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"message": "Notification sent"}})
}
