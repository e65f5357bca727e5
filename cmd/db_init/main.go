package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"gearbot/internal/config"
	"gearbot/internal/database"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ошибка чтения .env: %v", err)
	}

	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	db, err := database.Open(c.Database.Driver, c.Database.DSN)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе: %v", err)
	}
	dbManager := database.NewDatabaseManager(db, c.Database.Driver, nil)
	defer dbManager.Close()

	if err := dbManager.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Ошибка создания таблиц: %v", err)
	}
	fmt.Printf("Журнал решений готов (%s)\n", c.Database.Driver)
}
