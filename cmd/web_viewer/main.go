package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gearbot/internal/config"
	"gearbot/internal/database"
	httpInternal "gearbot/internal/http"
	"gearbot/internal/logger"
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

	loggerManager, err := logger.NewLoggerManager(c.LogFilePath, c.LogLevel)
	if err != nil {
		log.Fatal("Error initializing logger: ", err)
	}
	defer loggerManager.Close()

	// Подключаемся к базе данных
	db, err := database.Open(c.Database.Driver, c.Database.DSN)
	if err != nil {
		loggerManager.LogError(err, "Ошибка подключения к базе данных")
		return
	}
	dbManager := database.NewDatabaseManager(db, c.Database.Driver, loggerManager)
	defer dbManager.Close()
	loggerManager.Info("✅ Успешно подключились к базе данных (%s)", c.Database.Driver)

	gin.SetMode(gin.ReleaseMode)
	router := httpInternal.NewRouter(httpInternal.NewHandler(dbManager, *loggerManager.Zerolog()))
	srv := &http.Server{
		Addr:              c.Viewer.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			loggerManager.LogError(err, "Ошибка остановки сервера")
		}
	}()

	loggerManager.Info("🌐 Запускаем сервер на %s", c.Viewer.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		loggerManager.LogError(err, "Ошибка сервера")
	}
}
