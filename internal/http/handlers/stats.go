package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coachprep/coachprep-backend/internal/http/response"
	"github.com/coachprep/coachprep-backend/internal/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GET /stats
func (sh *StatsHandler) GetStats(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	stats, err := sh.statsService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// GET /mastery
func (sh *StatsHandler) GetMastery(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	mastery, err := sh.statsService.GetMastery(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mastery": mastery})
}

// GET /achievements
func (sh *StatsHandler) GetAchievements(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	achievements, err := sh.statsService.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": achievements})
}

// GET /overview
func (sh *StatsHandler) Overview(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	overview, err := sh.statsService.Overview(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, overview)
}
