package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/data/repos/testutil"
	"github.com/coachprep/coachprep-backend/internal/domain/auth"
	"github.com/coachprep/coachprep-backend/internal/domain/progress"
	"github.com/coachprep/coachprep-backend/internal/domain/user"
	"github.com/coachprep/coachprep-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
)

func newAuthService(t *testing.T, gdb *gorm.DB) AuthService {
	t.Helper()
	log := newTestLogger(t)
	avatar, err := NewAvatarService(log)
	if err != nil {
		t.Fatalf("avatar service: %v", err)
	}
	return NewAuthService(
		gdb, log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		repos.NewTopicRepo(gdb, log),
		repos.NewUserStatsRepo(gdb, log),
		repos.NewTopicMasteryRepo(gdb, log),
		avatar,
		nil,
		"test-secret",
		15*time.Minute,
		720*time.Hour,
	)
}

func registerTestUser(t *testing.T, ctx context.Context, svc AuthService, email string) *user.User {
	t.Helper()
	u := &user.User{
		Email:     email,
		Password:  "longenough",
		FirstName: "Jamie",
		LastName:  "Rivera",
	}
	if err := svc.RegisterUser(ctx, u); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	return u
}

func TestRegisterUserCreatesProgressRows(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	topicA := testutil.SeedTopic(t, ctx, gdb, "Nutrition Basics")
	topicB := testutil.SeedTopic(t, ctx, gdb, "Ethics")
	svc := newAuthService(t, gdb)

	u := registerTestUser(t, ctx, svc, "New.Student@Example.COM")
	if u.Email != "new.student@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Password == "longenough" {
		t.Fatal("password stored in plaintext")
	}
	if len(u.AvatarPNG) == 0 {
		t.Fatal("avatar not generated")
	}

	var stats progress.UserStats
	if err := gdb.Where("user_id = ?", u.ID).First(&stats).Error; err != nil {
		t.Fatalf("stats row missing: %v", err)
	}
	if stats.Level != 1 || stats.Points != 0 {
		t.Fatalf("fresh stats = level %d points %d, want 1/0", stats.Level, stats.Points)
	}

	var masteries []*progress.TopicMastery
	if err := gdb.Where("user_id = ?", u.ID).Find(&masteries).Error; err != nil {
		t.Fatalf("load masteries: %v", err)
	}
	if len(masteries) != 2 {
		t.Fatalf("got %d mastery rows, want one per topic (2)", len(masteries))
	}
	seen := map[uuid.UUID]bool{}
	for _, m := range masteries {
		if m.Score != 0 {
			t.Fatalf("fresh mastery score = %d, want 0", m.Score)
		}
		seen[m.TopicID] = true
	}
	if !seen[topicA.ID] || !seen[topicB.ID] {
		t.Fatalf("mastery rows cover %v, want both topics", seen)
	}
}

func TestRegisterUserValidation(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)

	cases := []struct {
		name string
		u    *user.User
	}{
		{"nil payload", nil},
		{"bad email", &user.User{Email: "not-an-email", Password: "longenough", FirstName: "A", LastName: "B"}},
		{"short password", &user.User{Email: "a@b.com", Password: "short", FirstName: "A", LastName: "B"}},
		{"missing name", &user.User{Email: "a@b.com", Password: "longenough", FirstName: "", LastName: "B"}},
	}
	for _, tc := range cases {
		if err := svc.RegisterUser(ctx, tc.u); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("%s: want ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}

func TestRegisterUserDuplicateEmailConflicts(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)

	registerTestUser(t, ctx, svc, "dup@example.com")
	err := svc.RegisterUser(ctx, &user.User{
		Email:     "DUP@example.com",
		Password:  "longenough",
		FirstName: "Sam",
		LastName:  "Okafor",
	})
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestLoginIssuesTokensAndSupersedesOldSession(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)
	u := registerTestUser(t, ctx, svc, "login@example.com")

	access1, refresh1, err := svc.LoginUser(ctx, "login@example.com", "longenough")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if access1 == "" || refresh1 == "" {
		t.Fatal("empty token pair")
	}

	access2, _, err := svc.LoginUser(ctx, "Login@Example.com", "longenough")
	if err != nil {
		t.Fatalf("second LoginUser: %v", err)
	}

	var rows []*auth.UserToken
	if err := gdb.Where("user_id = ?", u.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load tokens: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d token rows, want 1 (old session replaced)", len(rows))
	}
	if rows[0].AccessToken != access2 {
		t.Fatal("surviving token row is not the latest session")
	}
	if _, err := svc.SetContextFromToken(ctx, access1); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("stale access token: want ErrUnauthorized, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)
	registerTestUser(t, ctx, svc, "creds@example.com")

	if _, _, err := svc.LoginUser(ctx, "creds@example.com", "wrongpassword"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("wrong password: want ErrUnauthorized, got %v", err)
	}
	if _, _, err := svc.LoginUser(ctx, "nobody@example.com", "longenough"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("unknown email: want ErrUnauthorized, got %v", err)
	}
	if _, _, err := svc.LoginUser(ctx, "", ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("blank credentials: want ErrInvalidArgument, got %v", err)
	}
}

func TestSetContextFromTokenRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)
	u := registerTestUser(t, ctx, svc, "session@example.com")

	access, _, err := svc.LoginUser(ctx, "session@example.com", "longenough")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil {
		t.Fatal("request data missing from context")
	}
	if rd.UserID != u.ID {
		t.Fatalf("user id = %s, want %s", rd.UserID, u.ID)
	}
	if rd.Email != "session@example.com" {
		t.Fatalf("email = %q", rd.Email)
	}
	if rd.TokenString != access {
		t.Fatal("token string not carried on context")
	}

	if _, err := svc.SetContextFromToken(ctx, ""); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("blank token: want ErrUnauthorized, got %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, "not.a.jwt"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("garbage token: want ErrUnauthorized, got %v", err)
	}
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)
	u := registerTestUser(t, ctx, svc, "refresh@example.com")

	_, refresh1, err := svc.LoginUser(ctx, "refresh@example.com", "longenough")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	access2, refresh2, err := svc.RefreshUser(ctx, refresh1)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if refresh2 == refresh1 {
		t.Fatal("refresh token not rotated")
	}
	if _, err := svc.SetContextFromToken(ctx, access2); err != nil {
		t.Fatalf("new access token rejected: %v", err)
	}

	// The consumed refresh token must be single use.
	if _, _, err := svc.RefreshUser(ctx, refresh1); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("reused refresh token: want ErrUnauthorized, got %v", err)
	}
	var count int64
	if err := gdb.Model(&auth.UserToken{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d token rows after rotation, want 1", count)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)
	u := registerTestUser(t, ctx, svc, "expired@example.com")

	_, refresh, err := svc.LoginUser(ctx, "expired@example.com", "longenough")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	stale := time.Now().Add(-24 * time.Hour)
	if err := gdb.Model(&auth.UserToken{}).Where("user_id = ?", u.ID).Update("expires_at", stale).Error; err != nil {
		t.Fatalf("age token: %v", err)
	}

	if _, _, err := svc.RefreshUser(ctx, refresh); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("expired refresh: want ErrUnauthorized, got %v", err)
	}
	var count int64
	if err := gdb.Model(&auth.UserToken{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if count != 0 {
		t.Fatalf("expired token row not removed, %d rows left", count)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(t, gdb)
	registerTestUser(t, ctx, svc, "logout@example.com")

	access, _, err := svc.LoginUser(ctx, "logout@example.com", "longenough")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if err := svc.LogoutUser(authed); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, access); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("token after logout: want ErrUnauthorized, got %v", err)
	}
	// A second logout with no session is rejected.
	if err := svc.LogoutUser(ctx); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("logout without session: want ErrUnauthorized, got %v", err)
	}
}
