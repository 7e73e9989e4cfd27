package main

import (
	"github.com/joho/godotenv"

	"github.com/SokolovEgor954/TheLastShelter/bot"
	"github.com/SokolovEgor954/TheLastShelter/config"
	"github.com/SokolovEgor954/TheLastShelter/database"
	"github.com/SokolovEgor954/TheLastShelter/models"
	"github.com/SokolovEgor954/TheLastShelter/router"
	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

func main() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("No .env file found, reading the environment directly")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Review{},
		&models.Table{},
		&models.Reservation{},
		&models.Order{},
		&models.LinkCode{},
	); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := database.SeedTables(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed tables: %v", err)
	}

	mailer := services.NewMailer(cfg)
	reservations := services.NewReservationService(db, mailer, cfg)
	orders := services.NewOrderService(db, mailer)
	reviews := services.NewReviewService(db)
	links := services.NewLinkService(db)

	if cfg.BotToken != "" {
		tgBot, err := bot.New(cfg, db, links, orders, reservations, mailer)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to start Telegram bot: %v", err)
		}
		mailer.SetTelegram(tgBot)
		go tgBot.Run()
	} else {
		utils.InfoLogger.Println("BOT_TOKEN not set, running without the Telegram bot")
	}

	r := router.SetupRouter(db, cfg, mailer, reservations, orders, reviews, links)

	utils.InfoLogger.Printf("Server listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatalf("Failed to run server: %v", err)
	}
}
