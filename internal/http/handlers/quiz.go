package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coachprep/coachprep-backend/internal/http/response"
	"github.com/coachprep/coachprep-backend/internal/observability"
	"github.com/coachprep/coachprep-backend/internal/services"
)

type QuizHandler struct {
	quizService       services.QuizService
	submissionService services.SubmissionService
	metrics           *observability.Metrics
}

func NewQuizHandler(
	quizService services.QuizService,
	submissionService services.SubmissionService,
	metrics *observability.Metrics,
) *QuizHandler {
	return &QuizHandler{
		quizService:       quizService,
		submissionService: submissionService,
		metrics:           metrics,
	}
}

// POST /quiz
func (qh *QuizHandler) Generate(c *gin.Context) {
	var req struct {
		Topic    string  `json:"topic"`
		Duration float64 `json:"duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	questions, err := qh.quizService.Generate(c.Request.Context(), req.Topic, req.Duration)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	qh.metrics.IncQuizGenerated(req.Topic)
	response.RespondOK(c, gin.H{"questions": questions})
}

// POST /quiz/submit
func (qh *QuizHandler) Submit(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	var req struct {
		Topic          string `json:"topic"`
		CorrectAnswers int    `json:"correctAnswers"`
		TotalQuestions int    `json:"totalQuestions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := qh.submissionService.Submit(c.Request.Context(), userID, req.Topic, req.CorrectAnswers, req.TotalQuestions)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	qh.metrics.IncSubmissionScored(req.Topic)
	response.RespondOK(c, result)
}
