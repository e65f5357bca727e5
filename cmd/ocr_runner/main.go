package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gearbot/internal/config"
	"gearbot/internal/decision"
	"gearbot/internal/gear"
	imageInternal "gearbot/internal/image"
	"gearbot/internal/logger"
	"gearbot/internal/match"
	"gearbot/internal/ocr"
	"gearbot/internal/scanner"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml")
	debugMode := flag.Bool("debug", false, "печатать строки всех областей и сохранять нераспознанные области")
	flag.Parse()

	// 1. Проверяем, передан ли хотя бы один путь к файлу.
	screenshotFiles := flag.Args()
	if len(screenshotFiles) == 0 {
		log.Fatalf("Пожалуйста, укажите один или несколько путей к файлам скриншотов. Пример: go run ./cmd/ocr_runner ./imgs/screenshot1.png ./imgs/screenshot2.png")
	}

	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	level := "warn"
	if *debugMode {
		level = "debug"
	}
	loggerManager, err := logger.NewWriterLogger(os.Stderr, level)
	if err != nil {
		log.Fatalf("Ошибка логгера: %v", err)
	}

	// 2. Шаблоны и движок решений из той же конфигурации, что и у бота.
	matcher, err := match.New(c.Matcher)
	if err != nil {
		log.Fatalf("Ошибка сопоставителя: %v", err)
	}
	var diag ocr.Diagnostics = ocr.NopDiagnostics{}
	if *debugMode {
		diag = ocr.NewDiskDiagnostics(c.Diagnostics.Dir, loggerManager)
	}
	builder, err := scanner.NewBuilder(&c, matcher, diag, loggerManager)
	if err != nil {
		log.Fatalf("Ошибка загрузки шаблонов: %v", err)
	}
	engine, err := decision.NewEngine(c.Thresholds, loggerManager)
	if err != nil {
		log.Fatalf("Ошибка порогов: %v", err)
	}

	fmt.Printf("Распознаю %d файлов...\n", len(screenshotFiles))

	// 3. Проходим по каждому переданному файлу.
	failed := 0
	for _, path := range screenshotFiles {
		fmt.Printf("\n--- Обработка файла: %s ---\n", path)
		if err := process(path, builder, engine, *debugMode); err != nil {
			log.Printf("Ошибка при обработке '%s': %v", path, err)
			failed++
		}
	}

	fmt.Println("\nОбработка завершена.")
	if failed > 0 {
		os.Exit(1)
	}
}

func process(path string, builder *scanner.Builder, engine *decision.Engine, debugMode bool) error {
	frame, err := imageInternal.LoadPNG(path)
	if err != nil {
		return err
	}
	raw, err := builder.Read(frame)
	if err != nil {
		return err
	}
	if debugMode {
		for _, name := range config.RequiredRegions() {
			fmt.Printf("  %-20s %q\n", name, raw[name])
		}
	}
	item, err := builder.Assemble(raw)
	if err != nil {
		return err
	}

	fmt.Printf("Предмет: %s %s %s +%d, основная %s, оценка %d\n",
		item.Rarity, item.Set, item.Type, item.Level, item.MainProp, item.Score)
	for _, stat := range gear.AllStats() {
		if v := item.Properties.Get(stat); v != 0 {
			fmt.Printf("  %-16s %d\n", stat, v)
		}
	}
	computed := gear.ComputedScore(item.Reduced())
	fmt.Printf("Расчетная оценка: %.1f\n", computed)
	if highest, ok := gear.HighestScore(item.Reduced(), item.Level); ok {
		fmt.Printf("Максимум к +15: %.1f\n", highest)
	}
	d, reason := engine.Explain(item)
	fmt.Printf("Решение: %s (%s)\n", d, reason)
	return nil
}
