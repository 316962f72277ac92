package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coachprep/coachprep-backend/internal/http/response"
	"github.com/coachprep/coachprep-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GET /analytics/mastery-trend?topic=
func (ah *AnalyticsHandler) MasteryTrend(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	trend, err := ah.analyticsService.MasteryTrend(c.Request.Context(), userID, c.Query("topic"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"trend": trend})
}
