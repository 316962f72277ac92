package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/clients/redis"
	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/domain/auth"
	"github.com/coachprep/coachprep-backend/internal/domain/progress"
	"github.com/coachprep/coachprep-backend/internal/domain/user"
	"github.com/coachprep/coachprep-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

// JWTClaims is the access-token payload. Subject carries the user id, ID the
// jti used for denylisting on logout.
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, u *user.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	topicRepo     repos.TopicRepo
	statsRepo     repos.UserStatsRepo
	masteryRepo   repos.TopicMasteryRepo
	avatarService AvatarService
	denylist      redis.TokenDenylist
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	topicRepo repos.TopicRepo,
	statsRepo repos.UserStatsRepo,
	masteryRepo repos.TopicMasteryRepo,
	avatarService AvatarService,
	denylist redis.TokenDenylist,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		topicRepo:     topicRepo,
		statsRepo:     statsRepo,
		masteryRepo:   masteryRepo,
		avatarService: avatarService,
		denylist:      denylist,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RegisterUser creates the user plus its zero-value stats row and a mastery
// row per known topic, all in one transaction.
func (as *authService) RegisterUser(ctx context.Context, u *user.User) error {
	const op = "AuthService.RegisterUser"
	if u == nil {
		return pkgerrors.Invalid(op, "user payload required")
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return pkgerrors.Invalid(op, "a valid email is required")
	}
	if len(u.Password) < 8 {
		return pkgerrors.Invalid(op, "password must be at least 8 characters")
	}
	if u.FirstName == "" || u.LastName == "" {
		return pkgerrors.Invalid(op, "first and last name are required")
	}

	if _, err := as.userRepo.GetByEmail(ctx, nil, u.Email); err == nil {
		return pkgerrors.Conflict(op, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Classify(op, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return pkgerrors.Internal(op, "failed to hash password", err)
	}
	u.Password = string(hashed)
	u.ID = uuid.New()

	if png, err := as.avatarService.Generate(ctx, u); err != nil {
		as.log.Warn("avatar generation failed, continuing without one", "error", err)
	} else {
		u.AvatarPNG = png
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, u); err != nil {
			return err
		}
		if _, err := as.statsRepo.Create(ctx, tx, &progress.UserStats{
			ID:     uuid.New(),
			UserID: u.ID,
			Level:  1,
		}); err != nil {
			return err
		}
		topics, err := as.topicRepo.GetAll(ctx, tx)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			return nil
		}
		rows := make([]*progress.TopicMastery, 0, len(topics))
		for _, topic := range topics {
			rows = append(rows, &progress.TopicMastery{
				ID:      uuid.New(),
				UserID:  u.ID,
				TopicID: topic.ID,
			})
		}
		_, err = as.masteryRepo.Create(ctx, tx, rows)
		return err
	})
	if err != nil {
		return pkgerrors.Classify(op, err)
	}
	as.log.Info("registered user", "user_id", u.ID, "email", u.Email)
	return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	const op = "AuthService.LoginUser"
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", pkgerrors.Invalid(op, "email and password are required")
	}

	u, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", pkgerrors.Unauthorized(op, "invalid credentials")
		}
		return "", "", pkgerrors.Classify(op, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", pkgerrors.Unauthorized(op, "invalid credentials")
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A fresh login supersedes any previous session for the user.
		if err := as.userTokenRepo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
			return err
		}
		tok, err := as.generateAccessToken(u)
		if err != nil {
			return err
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		_, err = as.userTokenRepo.Create(ctx, tx, &auth.UserToken{
			ID:           uuid.New(),
			UserID:       u.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		})
		return err
	})
	if err != nil {
		return "", "", pkgerrors.Classify(op, err)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	const op = "AuthService.RefreshUser"
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", pkgerrors.Invalid(op, "refresh token required")
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Unauthorized(op, "unknown refresh token")
			}
			return err
		}

		// Small grace window so a refresh racing expiry still succeeds.
		const expiryBuffer = 5 * time.Minute
		if time.Now().Add(-expiryBuffer).After(existing.ExpiresAt) {
			if err := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
				return err
			}
			return pkgerrors.Unauthorized(op, "refresh token expired")
		}

		u, err := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if err != nil {
			return err
		}
		tok, err := as.generateAccessToken(u)
		if err != nil {
			return err
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		if _, err := as.userTokenRepo.Create(ctx, tx, &auth.UserToken{
			ID:           uuid.New(),
			UserID:       u.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}); err != nil {
			return err
		}
		return as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existing.ID})
	})
	if err != nil {
		return "", "", pkgerrors.Classify(op, err)
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	const op = "AuthService.LogoutUser"
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return pkgerrors.Unauthorized(op, "no authenticated session")
	}

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := as.userTokenRepo.GetByAccessToken(ctx, tx, rd.TokenString)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{row.ID})
	})
	if err != nil {
		return pkgerrors.Classify(op, err)
	}

	as.revokeAccessToken(ctx, rd.TokenString)
	return nil
}

// revokeAccessToken denylists the token's jti until its natural expiry.
// Best effort: without Redis the access token simply ages out.
func (as *authService) revokeAccessToken(ctx context.Context, tokenString string) {
	if as.denylist == nil {
		return
	}
	claims, err := as.parseClaims(tokenString)
	if err != nil || claims.ID == "" {
		return
	}
	ttl := as.accessTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := as.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		as.log.Warn("failed to denylist access token", "error", err)
	}
}

// SetContextFromToken verifies the bearer token and loads the request
// identity into the context. The token must also still be present in
// user_token, so logout revokes immediately even without Redis.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "AuthService.SetContextFromToken"
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, pkgerrors.Unauthorized(op, "missing bearer token")
	}

	claims, err := as.parseClaims(tokenString)
	if err != nil {
		return ctx, pkgerrors.Unauthorized(op, "invalid or expired token")
	}
	if as.denylist != nil && claims.ID != "" {
		revoked, err := as.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			as.log.Warn("denylist lookup failed", "error", err)
		} else if revoked {
			return ctx, pkgerrors.Unauthorized(op, "token revoked")
		}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, pkgerrors.Unauthorized(op, "invalid subject claim")
	}

	if _, err := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, pkgerrors.Unauthorized(op, "session no longer active")
		}
		return ctx, pkgerrors.Classify(op, err)
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      userID,
		Email:       claims.Email,
		TokenString: tokenString,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) generateAccessToken(u *user.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) parseClaims(tokenString string) (*JWTClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
