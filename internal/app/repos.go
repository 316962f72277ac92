package app

import (
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo

	Topic     repos.TopicRepo
	Question  repos.QuestionRepo
	Option    repos.OptionRepo
	Flashcard repos.FlashcardRepo
	Scenario  repos.ScenarioRepo
	Puzzle    repos.PuzzleRepo

	TopicMastery    repos.TopicMasteryRepo
	MasteryHistory  repos.MasteryHistoryRepo
	UserStats       repos.UserStatsRepo
	Achievement     repos.AchievementRepo
	UserAchievement repos.UserAchievementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),

		Topic:     repos.NewTopicRepo(db, log),
		Question:  repos.NewQuestionRepo(db, log),
		Option:    repos.NewOptionRepo(db, log),
		Flashcard: repos.NewFlashcardRepo(db, log),
		Scenario:  repos.NewScenarioRepo(db, log),
		Puzzle:    repos.NewPuzzleRepo(db, log),

		TopicMastery:    repos.NewTopicMasteryRepo(db, log),
		MasteryHistory:  repos.NewMasteryHistoryRepo(db, log),
		UserStats:       repos.NewUserStatsRepo(db, log),
		Achievement:     repos.NewAchievementRepo(db, log),
		UserAchievement: repos.NewUserAchievementRepo(db, log),
	}
}
