package repos

import (
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos/auth"
	"github.com/coachprep/coachprep-backend/internal/data/repos/catalog"
	"github.com/coachprep/coachprep-backend/internal/data/repos/progress"
	"github.com/coachprep/coachprep-backend/internal/data/repos/user"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type TopicRepo = catalog.TopicRepo
type QuestionRepo = catalog.QuestionRepo
type OptionRepo = catalog.OptionRepo
type FlashcardRepo = catalog.FlashcardRepo
type ScenarioRepo = catalog.ScenarioRepo
type PuzzleRepo = catalog.PuzzleRepo

type TopicMasteryRepo = progress.TopicMasteryRepo
type MasteryHistoryRepo = progress.MasteryHistoryRepo
type UserStatsRepo = progress.UserStatsRepo
type AchievementRepo = progress.AchievementRepo
type UserAchievementRepo = progress.UserAchievementRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return catalog.NewTopicRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return catalog.NewQuestionRepo(db, baseLog)
}
func NewOptionRepo(db *gorm.DB, baseLog *logger.Logger) OptionRepo {
	return catalog.NewOptionRepo(db, baseLog)
}
func NewFlashcardRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardRepo {
	return catalog.NewFlashcardRepo(db, baseLog)
}
func NewScenarioRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioRepo {
	return catalog.NewScenarioRepo(db, baseLog)
}
func NewPuzzleRepo(db *gorm.DB, baseLog *logger.Logger) PuzzleRepo {
	return catalog.NewPuzzleRepo(db, baseLog)
}

func NewTopicMasteryRepo(db *gorm.DB, baseLog *logger.Logger) TopicMasteryRepo {
	return progress.NewTopicMasteryRepo(db, baseLog)
}
func NewMasteryHistoryRepo(db *gorm.DB, baseLog *logger.Logger) MasteryHistoryRepo {
	return progress.NewMasteryHistoryRepo(db, baseLog)
}
func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return progress.NewUserStatsRepo(db, baseLog)
}
func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return progress.NewAchievementRepo(db, baseLog)
}
func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return progress.NewUserAchievementRepo(db, baseLog)
}
