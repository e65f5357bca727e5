package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tarm/serial"
	"golang.org/x/sync/errgroup"

	"gearbot/internal/arduino"
	"gearbot/internal/config"
	"gearbot/internal/database"
	"gearbot/internal/decision"
	"gearbot/internal/dispatcher"
	"gearbot/internal/interrupt"
	"gearbot/internal/logger"
	"gearbot/internal/match"
	"gearbot/internal/metrics"
	"gearbot/internal/ocr"
	"gearbot/internal/scanner"
	"gearbot/internal/screenshot"
	gearCycle "gearbot/internal/scripts/gear_cycle"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml")
	flag.Parse()

	// .env не обязателен, из него берутся GEARBOT_* переменные
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ошибка чтения .env: %v", err)
	}

	// init конфигурации
	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	// Инициализация логгера
	loggerManager, err := logger.NewLoggerManager(c.LogFilePath, c.LogLevel)
	if err != nil {
		log.Fatal("Error initializing logger: ", err)
	}
	defer loggerManager.Close()

	loggerManager.Info("🚀 Запуск gearbot")

	if err := run(&c, loggerManager); err != nil {
		loggerManager.LogError(err, "Аварийное завершение")
		loggerManager.Close()
		os.Exit(1)
	}
}

func run(c *config.Config, loggerManager *logger.LoggerManager) error {
	dc := config.NewDynamicConfig(c)
	screenshotManager := screenshot.NewScreenshotManager(dc, loggerManager)
	if c.Window.AutoDetect {
		if err := screenshotManager.DetectWindow(); err != nil {
			return err
		}
	}

	// Инициализация порта с использованием значений из конфигурации
	portObj, err := arduino.InitializePort(c.Serial.Port, c.Serial.BaudRate)
	if err != nil {
		return err
	}
	defer func(port *serial.Port) {
		if err := port.Close(); err != nil {
			loggerManager.LogError(err, "Error closing port")
		}
	}(portObj)
	clickManager := arduino.NewClickManager(portObj, dc, loggerManager)

	matcher, err := match.New(c.Matcher)
	if err != nil {
		return err
	}
	var diag ocr.Diagnostics = ocr.NopDiagnostics{}
	dumpDir := ""
	if c.Diagnostics.Enabled {
		diag = ocr.NewDiskDiagnostics(c.Diagnostics.Dir, loggerManager)
		dumpDir = c.Diagnostics.Dir
	}
	builder, err := scanner.NewBuilder(c, matcher, diag, loggerManager)
	if err != nil {
		return err
	}
	engine, err := decision.NewEngine(c.Thresholds, loggerManager)
	if err != nil {
		return err
	}
	actions := dispatcher.NewDispatcher(c, matcher, clickManager, screenshotManager, loggerManager)

	deps := gearCycle.Deps{
		Frames:     screenshotManager,
		Reader:     builder,
		Engine:     engine,
		Dispatcher: actions,
		Logger:     loggerManager,
		Cycle:      c.Cycle,
		DumpDir:    dumpDir,
	}

	// Подключение к журналу решений
	if c.Database.Enabled {
		db, err := database.Open(c.Database.Driver, c.Database.DSN)
		if err != nil {
			return err
		}
		dbManager := database.NewDatabaseManager(db, c.Database.Driver, loggerManager)
		defer dbManager.Close()
		if err := dbManager.EnsureSchema(context.Background()); err != nil {
			return err
		}
		loggerManager.Info("✅ Успешное подключение к базе данных")
		deps.Journal = dbManager
	}

	m := metrics.New()
	deps.Observer = m

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	if c.Metrics.Addr != "" {
		g.Go(func() error { return m.Serve(gctx, c.Metrics.Addr, loggerManager) })
	}

	// Инициализация менеджера прерываний
	interruptManager := interrupt.NewInterruptManager(loggerManager)
	deps.Interrupt = interruptManager.GetScriptInterruptChan()
	loggerManager.Info("⏸️ Программа готова к работе. %s", interrupt.Hotkeys)

	// запускаем мониторинг горячих клавиш
	interruptManager.StartMonitoring()

	g.Go(func() error {
		defer cancel()
		return gearCycle.Serve(gctx, interruptManager.GetScriptStartChan(), interruptManager.SetScriptRunning, deps)
	})
	return g.Wait()
}
