package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kyc-portal-backend/internal/domain/profile"
	"kyc-portal-backend/internal/domain/user"
	"kyc-portal-backend/pkg/id"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAdminRequired    = errors.New("admin access required")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrEmailRequired    = errors.New("email is required")
)

// Session is the resolved identity handed to every other usecase. Role is
// re-resolved from the profile on each Current call, never cached.
type Session struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

type Usecase struct {
	users    user.Repository
	profiles profile.Repository
	rdb      *redis.Client

	secret     []byte
	tokenTTL   time.Duration
	siteOrigin string
}

func NewUsecase(users user.Repository, profiles profile.Repository, rdb *redis.Client, secret string, tokenTTL time.Duration, siteOrigin string) *Usecase {
	return &Usecase{
		users:      users,
		profiles:   profiles,
		rdb:        rdb,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		siteOrigin: siteOrigin,
	}
}

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type AuthResult struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	// Where the confirmation email should send the user back to.
	RedirectTarget string    `json:"redirect_target,omitempty"`
	Token          string    `json:"token,omitempty"`
	ExpiresAt      time.Time `json:"expires_at,omitempty"`
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func blockKey(jti string) string { return "session:blocked:" + jti }

// SignUp creates the auth user and its lazily-defaulted profile. The email
// redirect target comes from the configured site origin, falling back to the
// caller's detected origin when unset.
func (u *Usecase) SignUp(ctx context.Context, in SignUpInput, requestOrigin string) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(in.Password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		UserID:       id.NewID32(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}

	if _, err := u.ensureProfile(ctx, usr.UserID, in.FullName, in.Phone); err != nil {
		return nil, err
	}

	origin := u.siteOrigin
	if origin == "" {
		origin = requestOrigin
	}
	res := &AuthResult{UserID: usr.UserID, Email: usr.Email}
	if origin != "" {
		res.RedirectTarget = strings.TrimRight(origin, "/") + "/auth/callback"
	}
	return res, nil
}

func (u *Usecase) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrBadCredential
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, user.ErrBadCredential
	}

	exp := time.Now().UTC().Add(u.tokenTTL)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: usr.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usr.UserID,
			ID:        id.NewID32(),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(u.secret)
	if err != nil {
		return nil, err
	}
	return &AuthResult{UserID: usr.UserID, Email: usr.Email, Token: signed, ExpiresAt: exp}, nil
}

// SignOut blocklists the token's jti until its natural expiry. Idempotent:
// signing out an already signed-out token succeeds.
func (u *Usecase) SignOut(ctx context.Context, token string) error {
	cl, err := u.parse(token)
	if err != nil {
		return ErrNotAuthenticated
	}
	ttl := time.Until(cl.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return u.rdb.Set(ctx, blockKey(cl.ID), "1", ttl).Err()
}

// Current verifies the token, rejects blocklisted sessions and resolves the
// profile, creating it with default role "user" when absent. The role is
// never stale relative to the presented identity.
func (u *Usecase) Current(ctx context.Context, token string) (*Session, error) {
	cl, err := u.parse(token)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	blocked, err := u.rdb.Exists(ctx, blockKey(cl.ID)).Result()
	if err != nil {
		return nil, err
	}
	if blocked > 0 {
		return nil, ErrNotAuthenticated
	}

	p, err := u.ensureProfile(ctx, cl.Subject, "", "")
	if err != nil {
		return nil, err
	}
	role := string(p.Role)
	return &Session{
		UserID:  cl.Subject,
		Email:   cl.Email,
		Role:    role,
		IsAdmin: strings.EqualFold(role, string(profile.RoleAdmin)),
	}, nil
}

func (u *Usecase) parse(token string) (*claims, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return u.secret, nil
	})
	if err != nil || !parsed.Valid || cl.Subject == "" || cl.ID == "" {
		return nil, ErrNotAuthenticated
	}
	return &cl, nil
}

// ensureProfile is fetch-then-insert-if-absent. Two concurrent first sessions
// for the same user may both attempt the insert; the loser's uniqueness
// violation is treated as success followed by a re-fetch.
func (u *Usecase) ensureProfile(ctx context.Context, userID, fullName, phone string) (*profile.Profile, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}

	p = &profile.Profile{
		UserID:   userID,
		Role:     profile.RoleUser,
		FullName: fullName,
		Phone:    phone,
	}
	if cerr := u.profiles.Create(ctx, p); cerr != nil {
		if errors.Is(cerr, gorm.ErrDuplicatedKey) {
			return u.profiles.GetByUserID(ctx, userID)
		}
		return nil, cerr
	}
	return p, nil
}
