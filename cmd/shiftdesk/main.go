package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shiftdesk-dev/shiftdesk/db"
	"github.com/shiftdesk-dev/shiftdesk/internal/config"
	"github.com/shiftdesk-dev/shiftdesk/internal/handlers"
	"github.com/shiftdesk-dev/shiftdesk/internal/mailer"
	"github.com/shiftdesk-dev/shiftdesk/internal/repository"
	"github.com/shiftdesk-dev/shiftdesk/internal/router"
	"github.com/shiftdesk-dev/shiftdesk/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repository.NewUserRepository(conn)
	scheduleRepo := repository.NewScheduleRepository(conn)

	sender := mailer.NewSMTPClient(cfg)

	accounts := service.NewAccountService(userRepo, sender, cfg)
	schedules := service.NewScheduleService(scheduleRepo)

	board := handlers.NewBoard(cfg.AllowedOrigins)
	userHandler := handlers.NewUserHandler(accounts, cfg)
	scheduleHandler := handlers.NewScheduleHandler(schedules, board)

	r := router.NewRouter(cfg, userHandler, scheduleHandler, board)

	log.Printf("Listening on port: %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
