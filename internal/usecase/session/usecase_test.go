package session

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kyc-portal-backend/internal/domain/profile"
	"kyc-portal-backend/internal/domain/user"
	"kyc-portal-backend/internal/testutil/profilemock"
	"kyc-portal-backend/internal/testutil/usermock"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func newUC(t *testing.T, users *usermock.Repo, profiles *profilemock.Repo, siteOrigin string) *Usecase {
	t.Helper()
	return NewUsecase(users, profiles, testRedis(t), "test-secret", time.Hour, siteOrigin)
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func knownUser(t *testing.T) *user.User {
	return &user.User{UserID: "11111111111111111111111111111111", Email: "ada@example.com", PasswordHash: hashOf(t, "hunter2boat")}
}

func TestSignUp_RedirectTargetFromConfiguredOrigin(t *testing.T) {
	users := &usermock.Repo{CreateFn: func(context.Context, *user.User) error { return nil }}
	profiles := &profilemock.Repo{
		GetByUserIDFn: func(context.Context, string) (*profile.Profile, error) { return nil, profile.ErrNotFound },
		CreateFn:      func(context.Context, *profile.Profile) error { return nil },
	}
	uc := newUC(t, users, profiles, "https://portal.example.com")

	res, err := uc.SignUp(context.Background(), SignUpInput{Email: "Ada@Example.com", Password: "hunter2boat"}, "http://localhost:3000")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.Email != "ada@example.com" {
		t.Fatalf("email = %q, want lowercased", res.Email)
	}
	if res.RedirectTarget != "https://portal.example.com/auth/callback" {
		t.Fatalf("redirect = %q", res.RedirectTarget)
	}
}

func TestSignUp_RedirectFallsBackToRequestOrigin(t *testing.T) {
	users := &usermock.Repo{CreateFn: func(context.Context, *user.User) error { return nil }}
	profiles := &profilemock.Repo{
		GetByUserIDFn: func(context.Context, string) (*profile.Profile, error) { return nil, profile.ErrNotFound },
		CreateFn:      func(context.Context, *profile.Profile) error { return nil },
	}
	uc := newUC(t, users, profiles, "")

	res, err := uc.SignUp(context.Background(), SignUpInput{Email: "ada@example.com", Password: "hunter2boat"}, "http://localhost:3000")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.RedirectTarget != "http://localhost:3000/auth/callback" {
		t.Fatalf("redirect = %q", res.RedirectTarget)
	}
}

func TestSignUp_Validation(t *testing.T) {
	uc := newUC(t, &usermock.Repo{}, &profilemock.Repo{}, "")
	if _, err := uc.SignUp(context.Background(), SignUpInput{Email: "", Password: "hunter2boat"}, ""); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("err = %v, want ErrEmailRequired", err)
	}
	if _, err := uc.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "short"}, ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
}

func TestSignInCurrentSignOut_Lifecycle(t *testing.T) {
	u := knownUser(t)
	users := &usermock.Repo{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if email != u.Email {
				return nil, user.ErrNotFound
			}
			return u, nil
		},
	}
	profiles := &profilemock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*profile.Profile, error) {
			return &profile.Profile{UserID: userID, Role: profile.RoleUser}, nil
		},
	}
	uc := newUC(t, users, profiles, "")
	ctx := context.Background()

	if _, err := uc.SignIn(ctx, u.Email, "wrong-password"); !errors.Is(err, user.ErrBadCredential) {
		t.Fatalf("bad password err = %v", err)
	}
	if _, err := uc.SignIn(ctx, "nobody@example.com", "hunter2boat"); !errors.Is(err, user.ErrBadCredential) {
		t.Fatalf("unknown user err = %v", err)
	}

	res, err := uc.SignIn(ctx, u.Email, "hunter2boat")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if res.Token == "" {
		t.Fatal("no token issued")
	}

	sess, err := uc.Current(ctx, res.Token)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if sess.UserID != u.UserID || sess.IsAdmin {
		t.Fatalf("session = %+v", sess)
	}

	if err := uc.SignOut(ctx, res.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	// idempotent
	if err := uc.SignOut(ctx, res.Token); err != nil {
		t.Fatalf("second SignOut: %v", err)
	}
	if _, err := uc.Current(ctx, res.Token); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("blocklisted token err = %v, want ErrNotAuthenticated", err)
	}

	if _, err := uc.Current(ctx, "garbage.token.here"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("garbage token err = %v", err)
	}
}

func TestCurrent_RoleIsCaseInsensitive(t *testing.T) {
	u := knownUser(t)
	users := &usermock.Repo{
		GetByEmailFn: func(context.Context, string) (*user.User, error) { return u, nil },
	}
	profiles := &profilemock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*profile.Profile, error) {
			return &profile.Profile{UserID: userID, Role: profile.Role("ADMIN")}, nil
		},
	}
	uc := newUC(t, users, profiles, "")

	res, err := uc.SignIn(context.Background(), u.Email, "hunter2boat")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	sess, err := uc.Current(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !sess.IsAdmin {
		t.Fatal("role ADMIN should resolve IsAdmin")
	}
}

// Losing the first-session insert race to a concurrent creator is success.
func TestEnsureProfile_DuplicateInsertTreatedAsSuccess(t *testing.T) {
	u := knownUser(t)
	users := &usermock.Repo{
		GetByEmailFn: func(context.Context, string) (*user.User, error) { return u, nil },
	}

	fetches := 0
	profiles := &profilemock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*profile.Profile, error) {
			fetches++
			if fetches == 1 {
				// absent on first look
				return nil, profile.ErrNotFound
			}
			// the concurrent winner's row
			return &profile.Profile{UserID: userID, Role: profile.RoleUser}, nil
		},
		CreateFn: func(context.Context, *profile.Profile) error { return gorm.ErrDuplicatedKey },
	}
	uc := newUC(t, users, profiles, "")

	res, err := uc.SignIn(context.Background(), u.Email, "hunter2boat")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	sess, err := uc.Current(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("Current after lost insert race: %v", err)
	}
	if sess.Role != string(profile.RoleUser) {
		t.Fatalf("role = %q", sess.Role)
	}
	if fetches != 2 {
		t.Fatalf("fetches = %d, want fetch-then-refetch", fetches)
	}
}
