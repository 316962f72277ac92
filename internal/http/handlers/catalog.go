package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coachprep/coachprep-backend/internal/http/response"
	"github.com/coachprep/coachprep-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /topics
func (ch *CatalogHandler) ListTopics(c *gin.Context) {
	topics, err := ch.catalogService.ListTopics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topics": topics})
}

// GET /flashcards?topic=
func (ch *CatalogHandler) ListFlashcards(c *gin.Context) {
	rows, err := ch.catalogService.ListFlashcards(c.Request.Context(), c.Query("topic"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"flashcards": rows})
}

// GET /scenarios?topic=
func (ch *CatalogHandler) ListScenarios(c *gin.Context) {
	rows, err := ch.catalogService.ListScenarios(c.Request.Context(), c.Query("topic"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenarios": rows})
}

// GET /puzzles?topic=
func (ch *CatalogHandler) ListPuzzles(c *gin.Context) {
	rows, err := ch.catalogService.ListPuzzles(c.Request.Context(), c.Query("topic"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"puzzles": rows})
}
