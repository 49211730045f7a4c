// Package main studio booking API.
//
// @title           8Club Lagree API
// @version         1.0
// @description     Studio booking and membership service (classes, bookings, packages, orders).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/8clublagree/8clublagree/app/echoServer"
	authctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/auth"
	bookingctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/booking"
	classctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/class"
	jobsctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/jobs"
	orderctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/order"
	paymentctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/payment"
	pkgctrl "github.com/8clublagree/8clublagree/app/echoServer/controller/pkg"
	"github.com/8clublagree/8clublagree/app/echoServer/validation"
	"github.com/8clublagree/8clublagree/config"
	authrepo "github.com/8clublagree/8clublagree/repository/auth"
	bookingrepo "github.com/8clublagree/8clublagree/repository/booking"
	catalogrepo "github.com/8clublagree/8clublagree/repository/catalog"
	classrepo "github.com/8clublagree/8clublagree/repository/class"
	clientpkgrepo "github.com/8clublagree/8clublagree/repository/clientpkg"
	creditrepo "github.com/8clublagree/8clublagree/repository/credit"
	"github.com/8clublagree/8clublagree/repository/mailer"
	mayarepo "github.com/8clublagree/8clublagree/repository/maya"
	orderrepo "github.com/8clublagree/8clublagree/repository/order"
	"github.com/8clublagree/8clublagree/repository/storage"
	authsvc "github.com/8clublagree/8clublagree/service/auth"
	bookingsvc "github.com/8clublagree/8clublagree/service/booking"
	classsvc "github.com/8clublagree/8clublagree/service/class"
	paymentsvc "github.com/8clublagree/8clublagree/service/payment"
	pkgsvc "github.com/8clublagree/8clublagree/service/pkg"
	"github.com/8clublagree/8clublagree/service/reminder"
	"github.com/8clublagree/8clublagree/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// redis is optional; without it the rate limiter passes everything through
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("bad REDIS_URL", "err", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
	}

	// proof storage is optional; admin proof-url endpoint 503s without it
	var proofs storage.ProofStorage
	if cfg.MinioEndpoint != "" {
		proofs, err = storage.NewMinio(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.ProofBucket)
		if err != nil {
			log.Error("minio init failed", "err", err)
			os.Exit(1)
		}
	}

	// mail: prefer queue-backed delivery, fall back to direct SMTP
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		smtp := mailer.NewSMTP(mailer.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.EmailFrom,
		})
		mail = smtp
		if cfg.AMQPURL != "" {
			conn, err := amqp091.Dial(cfg.AMQPURL)
			if err != nil {
				log.Error("amqp connect failed", "err", err)
				os.Exit(1)
			}
			defer conn.Close()
			mail, err = mailer.NewQueue(conn, cfg.EmailQueue)
			if err != nil {
				log.Error("amqp queue init failed", "err", err)
				os.Exit(1)
			}
			worker := mailer.NewWorker(conn, cfg.EmailQueue, smtp, log)
			go func() {
				if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
					log.Error("mail worker stopped", "err", err)
				}
			}()
		}
	}

	// repos
	ar := authrepo.New(db)
	br := bookingrepo.New(db)
	crr := classrepo.New(db)
	clr := creditrepo.New(db)
	ctr := catalogrepo.New(db)
	cpr := clientpkgrepo.New(db)
	or := orderrepo.New(db)
	gw := mayarepo.NewHTTP(cfg.MayaPublicKey, cfg.MayaCheckoutURL, cfg.CheckoutRedirect)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	cs := classsvc.New(crr)
	bs := bookingsvc.New(db, br, crr, clr, ar, mail, log)
	pks := pkgsvc.New(db, ctr, cpr, clr)
	ps := paymentsvc.New(db, or, gw, pks, ar, mail, cfg.AdminMail, log)
	rs := reminder.NewSender(br, mail, log)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	classC := &classctrl.Controller{Svc: cs, Booking: bs, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	pkgC := &pkgctrl.Controller{Svc: pks, Log: log}
	orderC := &orderctrl.Controller{Svc: ps, Proofs: proofs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}
	jobsC := &jobsctrl.Controller{Pkg: pks, Reminder: rs, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Class:   classC,
		Booking: bookingC,
		Pkg:     pkgC,
		Order:   orderC,
		Payment: paymentC,
		Jobs:    jobsC,

		JWTSecret:  cfg.JWTSecret,
		CronSecret: cfg.CronSecret,
		Redis:      rdb,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "env", cfg.Env, "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
