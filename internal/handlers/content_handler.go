package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

// GetSection returns a category's tests and study material
// @Summary Get category section
// @Tags content
// @Produce json
// @Param category path string true "Exam category (general, psc, ssc, rrb)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.SectionContent
// @Failure 400 {object} ErrorResponse
// @Router /sections/{category} [get]
func (h *ContentHandler) GetSection(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	category := models.ExamCategory(c.Param("category"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	section, err := h.contentService.GetSection(c.Request.Context(), userID, category, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}

// Search searches tests, PDFs and video classes by title
// @Summary Search content
// @Tags content
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max hits per type"
// @Success 200 {object} services.SearchContent
// @Failure 400 {object} ErrorResponse
// @Router /search [get]
func (h *ContentHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.contentService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListNotifications lists the account's notifications, newest first
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} SuccessResponse
// @Router /notifications [get]
func (h *ContentHandler) ListNotifications(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.contentService.ListNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: notifications})
}

// MarkNotificationRead marks one notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path uint true "Notification ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *ContentHandler) MarkNotificationRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.contentService.MarkNotificationRead(c.Request.Context(), userID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"message": "Marked as read"}})
}
