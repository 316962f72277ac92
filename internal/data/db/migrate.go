package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/domain/auth"
	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/domain/progress"
	"github.com/coachprep/coachprep-backend/internal/domain/user"
)

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(

		// =========================
		// Identity + auth
		// =========================
		&user.User{},
		&auth.UserToken{},

		// =========================
		// Content catalog
		// =========================
		&catalog.Topic{},
		&catalog.Question{},
		&catalog.Option{},
		&catalog.Flashcard{},
		&catalog.Scenario{},
		&catalog.Puzzle{},

		// =========================
		// Progress + gamification
		// =========================
		&progress.TopicMastery{},
		&progress.MasteryHistory{},
		&progress.UserStats{},
		&progress.Achievement{},
		&progress.UserAchievement{},
	)
}

func EnsureProgressIndexes(gdb *gorm.DB) error {
	// Covers the ascending trend scan in one index-ordered read.
	if err := gdb.Exec(`
		CREATE INDEX IF NOT EXISTS idx_mastery_history_trend
		ON mastery_history (user_id, topic_id, recorded_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_mastery_history_trend: %w", err)
	}
	if err := gdb.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_token_expires_at
		ON user_token (expires_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_token_expires_at: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureProgressIndexes(s.db); err != nil {
		s.log.Error("Progress index migration failed", "error", err)
		return err
	}
	return nil
}
