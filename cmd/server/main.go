package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/golang-jwt/jwt/v5"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	auth "github.com/goliatone/go-signup"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if cfg.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybePrettyJSON(cfg.Sanitized()))
		fmt.Println("============")
	}

	db, err := openDatabase(context.Background(), cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := auth.NewTokenService(
		[]byte(cfg.JWTSecret),
		cfg.TokenExpiration,
		cfg.JWTIssuer,
		jwt.ClaimStrings{},
		nil,
	)

	notifier := auth.NewSMTPNotifier(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUsername,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.BaseURL,
		auth.WithNotifierFromName(cfg.MailFromName),
	)

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth.RegisterAuthRoutes(app,
		auth.WithControllerRepo(repo),
		auth.WithControllerNotifier(notifier),
		auth.WithControllerTokenService(tokens),
	)

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("listening on %s", cfg.ServerAddr)

	WaitExitSignal()

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openDatabase(ctx context.Context, cfg Config) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*auth.User)(nil))

	client, err := persistence.New(persistenceConfig{
		dsn:   cfg.DatabaseDSN,
		debug: cfg.Debug,
	}, db, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	migrationsFS, err := fs.Sub(auth.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	return client.DB(), nil
}

// WaitExitSignal blocks until the process receives an exit signal.
func WaitExitSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
