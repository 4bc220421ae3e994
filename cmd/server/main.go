package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/config"
	"github.com/iliyamo/internship-registration/internal/database"
	"github.com/iliyamo/internship-registration/internal/handler"
	"github.com/iliyamo/internship-registration/internal/middleware"
	"github.com/iliyamo/internship-registration/internal/queue"
	"github.com/iliyamo/internship-registration/internal/repository"
	"github.com/iliyamo/internship-registration/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil client
	// turns both into pass-throughs, so the API stays up without Redis.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiterMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	regions := repository.NewRegionRepo(db)
	programs := repository.NewProgramRepo(db)
	regs := repository.NewRegistrationRepo(db)
	payments := repository.NewPaymentRepo(db)
	selections := repository.NewSelectionRepo(db)
	placements := repository.NewPlacementRepo(db)
	reports := repository.NewReportRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(programs, regions)
	progAdminH := handler.NewProgramAdminHandler(programs)
	regH := handler.NewRegistrationHandler(users, programs, regs, payments, selections, placements)
	payH := handler.NewPaymentHandler(cfg, payments, regs)
	selH := handler.NewSelectionHandler(selections, regs)
	plH := handler.NewPlacementHandler(placements)
	repH := handler.NewReportHandler(reports)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiterMW)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterParticipant(e, regH, payH, cfg.JWTSecret)
	router.RegisterAdmin(e, progAdminH, regH, payH, selH, plH, repH, cfg.JWTSecret)

	// The consumer logs registration and payment events from the broker.
	// It reconnects on its own; a missing broker never blocks startup.
	go func() {
		if err := queue.StartConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
