package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intake_backend/internal/services"
)

type QuestionHandler struct {
	*BaseHandler
	questionService services.QuestionService
}

func NewQuestionHandler(base *BaseHandler, questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     base,
		questionService: questionService,
	}
}

func (h *QuestionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/questions", h.ListQuestions)
}

// ListQuestions отдает вопросы интервью в порядке показа.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.Questions(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
