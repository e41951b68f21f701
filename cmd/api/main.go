package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	portalhttp "kyc-portal-backend/internal/adapter/http"
	portalmw "kyc-portal-backend/internal/adapter/middleware"
	"kyc-portal-backend/internal/adapter/repository/mysql"
	"kyc-portal-backend/internal/config"
	"kyc-portal-backend/internal/infrastructure/cache"
	"kyc-portal-backend/internal/infrastructure/db"
	"kyc-portal-backend/internal/infrastructure/objectstore"
	"kyc-portal-backend/internal/realtime"
	"kyc-portal-backend/internal/usecase/review"
	"kyc-portal-backend/internal/usecase/session"
	"kyc-portal-backend/internal/usecase/submission"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	store, err := objectstore.NewDisk(cfg.StorageDir)
	if err != nil {
		log.Fatalf("objectstore: %v", err)
	}

	// repositories
	users := mysql.NewUserRepository(gdb)
	profiles := mysql.NewProfileRepository(gdb)
	submissions := mysql.NewSubmissionRepository(gdb)
	audits := mysql.NewAuditRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	// change feed
	feed := realtime.NewRedisFeed(rdb)

	// usecases
	sessionUC := session.NewUsecase(users, profiles, rdb,
		cfg.JWTSecret, time.Duration(cfg.TokenTTLMins)*time.Minute, cfg.SiteOrigin)
	submissionUC := submission.NewUsecase(submissions, store, cfg.StorageBucket, feed)
	reviewUC := review.NewUsecase(tx, audits, feed)

	// handlers
	h := portalhttp.NewHandler()
	authH := portalhttp.NewAuthHandler(sessionUC)
	subH := portalhttp.NewSubmissionHandler(submissionUC)
	revH := portalhttp.NewReviewHandler(submissionUC, reviewUC)
	wsH := portalhttp.NewStreamHandler(feed)

	e := echo.New()
	e.HideBanner = true
	e.Validator = portalhttp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	e.GET("/health", h.Health)
	e.POST("/auth/signup", authH.SignUp)
	e.POST("/auth/signin", authH.SignIn)

	auth := portalmw.Auth(sessionUC)
	idem := portalmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.POST("/auth/signout", authH.SignOut, auth)
	e.GET("/auth/session", authH.Session, auth)

	s := e.Group("/submissions", auth, idem)
	s.GET("", subH.List)
	s.POST("", subH.Create)
	s.PUT("/:submission_id", subH.Update)
	s.DELETE("/:submission_id", subH.Delete)
	s.POST("/:submission_id/documents", subH.AttachDocument)

	a := e.Group("/admin/submissions", auth, idem)
	a.GET("", revH.List)
	a.POST("/:submission_id/approve", revH.Approve)
	a.POST("/:submission_id/reject", revH.Reject)
	a.POST("/:submission_id/request-info", revH.RequestInfo)

	e.GET("/ws/submissions", wsH.Stream, auth)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
