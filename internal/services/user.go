package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/domain/user"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*user.User, error)
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	const op = "UserService.GetProfile"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}
	row, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	return row, nil
}

func (us *userService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	const op = "UserService.GetAvatar"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}
	row, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	if len(row.AvatarPNG) == 0 {
		return nil, pkgerrors.NotFound(op, "no avatar stored")
	}
	return row.AvatarPNG, nil
}
