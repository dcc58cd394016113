package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-account-service/internal/config"
	"github.com/iliyamo/user-account-service/internal/database"
	"github.com/iliyamo/user-account-service/internal/handler"
	"github.com/iliyamo/user-account-service/internal/mailer"
	"github.com/iliyamo/user-account-service/internal/queue"
	"github.com/iliyamo/user-account-service/internal/repository"
	"github.com/iliyamo/user-account-service/internal/router"
	"github.com/iliyamo/user-account-service/internal/service"
	"github.com/iliyamo/user-account-service/internal/token"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(database.Config{
		User: cfg.DBUser, Pass: cfg.DBPass,
		Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMin) * time.Minute,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; reset tokens will not be single-use")
	}

	codec := token.NewCodec(
		cfg.AccessSecret, cfg.RefreshSecret, cfg.ResetSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDay)*24*time.Hour,
		time.Duration(cfg.ResetTTLMin)*time.Minute,
	)

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	markers := repository.NewResetMarkerRepo(rdb)
	notifier := queue.NewPublisher(cfg.AMQPURL)

	authSvc := service.NewAuthService(users, sessions, codec)
	resetSvc := service.NewPasswordResetService(users, sessions, markers, notifier, codec, cfg.BcryptCost)

	m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.FrontendURL)
	go func() {
		if err := queue.StartPasswordResetConsumer(cfg.AMQPURL, m); err != nil {
			log.Printf("reset-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, resetSvc, codec.TTL(token.PurposeRefresh), cfg.Env == "prod"), codec)
	router.RegisterUsers(e, handler.NewUserHandler(users, cfg.BcryptCost), codec)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
