package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/haichau/electrostore/internal/config"
	"github.com/haichau/electrostore/internal/database"
	"github.com/haichau/electrostore/internal/handler"
	"github.com/haichau/electrostore/internal/mailer"
	"github.com/haichau/electrostore/internal/middleware"
	"github.com/haichau/electrostore/internal/queue"
	"github.com/haichau/electrostore/internal/repository"
	"github.com/haichau/electrostore/internal/router"
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

	// Redis backs the rate limiter and the response cache. Both
	// degrade to pass-through when it is unreachable.
	rdb := config.NewRedisClient()
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	var mail mailer.Mailer = mailer.NopMailer{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPSender)
	} else {
		log.Println("mailer: SMTP_HOST not set, outbound mail disabled")
	}

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	products := repository.NewProductRepo(db)
	catalog := repository.NewCatalogRepo(db)
	profiles := repository.NewProfileRepo(db)
	cart := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)

	authH := handler.NewAuthHandler(cfg, accounts, tokens, mail)
	productH := handler.NewProductHandler(products)
	catalogH := handler.NewCatalogHandler(catalog)
	customerH := handler.NewCustomerHandler(profiles, accounts)
	employeeH := handler.NewEmployeeHandler(cfg, profiles, accounts, mail)
	cartH := handler.NewCartHandler(cart)
	orderH := handler.NewOrderHandler(orders)
	healthH := handler.NewHealthHandler(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(rateLimit)

	router.RegisterPublic(e, healthH, productH, catalogH, cache)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCustomer(e, cartH, orderH, customerH, cfg.JWTSecret)
	router.RegisterStaff(e, productH, catalogH, customerH, employeeH, orderH, cfg.JWTSecret)

	// Drains order.placed into the order journal; reconnects forever.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
