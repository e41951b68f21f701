package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	portalhttp "kyc-portal-backend/internal/adapter/http"
	"kyc-portal-backend/internal/domain/profile"
	"kyc-portal-backend/internal/domain/user"
	"kyc-portal-backend/internal/testutil/profilemock"
	"kyc-portal-backend/internal/testutil/usermock"
	"kyc-portal-backend/internal/usecase/session"
)

func authServer(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2boat"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	users := &usermock.Repo{
		GetByEmailFn: func(context.Context, string) (*user.User, error) {
			return &user.User{UserID: "owner-1", Email: "ada@example.com", PasswordHash: string(hash)}, nil
		},
	}
	profiles := &profilemock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*profile.Profile, error) {
			return &profile.Profile{UserID: userID, Role: profile.RoleUser}, nil
		},
	}
	sessions := session.NewUsecase(users, profiles, rdb, "test-secret", time.Hour, "")

	res, err := sessions.SignIn(context.Background(), "ada@example.com", "hunter2boat")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		sess := portalhttp.CurrentSession(c)
		if sess == nil {
			t.Fatal("handler ran without a session on the context")
		}
		return c.JSON(http.StatusOK, sess)
	}, Auth(sessions))
	return e, res.Token
}

func TestAuth_ResolvesBearerToken(t *testing.T) {
	e, token := authServer(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestAuth_RejectsMissingAndMalformedHeaders(t *testing.T) {
	e, token := authServer(t)

	cases := map[string]string{
		"missing":       "",
		"wrong scheme":  "Basic " + token,
		"garbage token": "Bearer not.a.jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: code = %d, want 401", name, rec.Code)
		}
	}
}
