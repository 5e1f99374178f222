// seedq загружает вопросы интервью в базу из аргументов командной
// строки. Каждый аргумент - текст одного вопроса; порядок аргументов
// задает порядок показа.
//
//	go run ./cmd/seedq "Tell us about yourself" "Why this role?"
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"intake_backend/internal/models"
	"intake_backend/internal/repositories"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		color.Yellow("Usage: seedq \"question one\" [\"question two\" ...]")
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		color.Red("DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Question{}); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	repo := repositories.NewQuestionRepository()
	existing, err := repo.Count(db)
	if err != nil {
		color.Red("Failed to count existing questions: %v", err)
		os.Exit(1)
	}

	for i, text := range os.Args[1:] {
		q := &models.Question{
			Text:  text,
			Order: int(existing) + i + 1,
		}
		if err := repo.Create(db, q); err != nil {
			color.Red("Failed to create question %d: %v", i+1, err)
			os.Exit(1)
		}
		fmt.Printf("%s %s\n", color.GreenString("✔"), text)
	}

	color.Green("Seeded %d question(s)", len(os.Args)-1)
}
