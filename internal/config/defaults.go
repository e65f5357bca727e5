package config

import (
	"fmt"

	"gearbot/internal/decision"
)

// Имена областей экрана предмета
const (
	RegionSet          = "gear_set"
	RegionRarity       = "gear_rarity"
	RegionType         = "gear_type"
	RegionLevel        = "gear_level"
	RegionScore        = "score"
	RegionMainPropType = "main_prop_type"
	RegionMainProp     = "main_prop"
)

// SubPropSlots число дополнительных характеристик
const SubPropSlots = 4

// RegionPropType область типа i-й дополнительной характеристики, i от 1
func RegionPropType(i int) string { return fmt.Sprintf("prop%d_type", i) }

// RegionPropValue область значения i-й дополнительной характеристики, i от 1
func RegionPropValue(i int) string { return fmt.Sprintf("prop%d", i) }

// RequiredRegions все области, без которых предмет не собрать
func RequiredRegions() []string {
	names := []string{RegionSet, RegionRarity, RegionType, RegionLevel, RegionScore, RegionMainPropType, RegionMainProp}
	for i := 1; i <= SubPropSlots; i++ {
		names = append(names, RegionPropType(i), RegionPropValue(i))
	}
	return names
}

// Что делать с нераспознанным типом дополнительной характеристики
const (
	PolicyIgnore         = "ignore"
	PolicyRaise          = "raise"
	PolicyRaiseForLegend = "raise_for_legend"
)

// Виды шагов сценария
const (
	StepTap              = "tap"
	StepWait             = "wait"
	StepTapImage         = "tap_image"
	StepWaitImage        = "wait_image"
	StepTapUpgradeOption = "tap_upgrade_option"
)

// ActionNext сценарий перехода к следующему предмету после любого решения
const ActionNext = "next"

func knownStep(kind string) bool {
	switch kind {
	case StepTap, StepWait, StepTapImage, StepWaitImage, StepTapUpgradeOption:
		return true
	}
	return false
}

func region(templates string, x, y, w, h int, threshold float64, kind string) RegionConfig {
	return RegionConfig{
		Templates:           templates,
		CoordinatesWithSize: CoordinatesWithSize{X: x, Y: y, Width: w, Height: h},
		Threshold:           threshold,
		Kind:                kind,
	}
}

// DefaultRegions раскладка экрана предмета при 1280x720
func DefaultRegions() map[string]RegionConfig {
	regions := map[string]RegionConfig{
		RegionMainProp:     region("number-ocr/main-ocr", 1160, 330, 70, 30, 0.8, KindGlyph),
		RegionScore:        region("number-ocr/score-ocr", 1160, 470, 70, 30, 0.84, KindGlyph),
		RegionSet:          region("gear-set-ocr", 900, 550, 100, 40, 0.95, KindPattern),
		RegionRarity:       region("gear-rarity-ocr", 972, 180, 35, 23, 0.85, KindPattern),
		RegionType:         region("gear-type-ocr", 1007, 180, 35, 23, 0.75, KindPattern),
		RegionLevel:        region("gear-level-ocr", 935, 168, 35, 25, 0.98, KindPattern),
		RegionMainPropType: region("main-prop-type-ocr", 880, 327, 120, 35, 0.85, KindPattern),
	}
	propY := []int{370, 390, 415, 435}
	typeY := []int{365, 389, 410, 435}
	for i := 1; i <= SubPropSlots; i++ {
		regions[RegionPropValue(i)] = region("number-ocr/ocr", 1160, propY[i-1], 70, 25, 0.8, KindGlyph)
		regions[RegionPropType(i)] = region("prop-type-ocr", 875, typeY[i-1], 120, 30, 0.85, KindPattern)
	}
	return regions
}

func tap(x, y int) Step { return Step{Kind: StepTap, X: x, Y: y} }

func wait(ms int) Step { return Step{Kind: StepWait, Ms: ms} }

// Области поиска кнопок экрана улучшения
var (
	upgradeButton  = CoordinatesWithSize{X: 1077, Y: 640, Width: 148, Height: 67}
	upgradeOptions = CoordinatesWithSize{X: 950, Y: 315, Width: 240, Height: 310}
)

// DefaultActions сценарии нажатий для каждого решения, координаты внутри окна
func DefaultActions() map[string][]Step {
	return map[string][]Step{
		"sell":    {tap(918, 617), wait(2000), tap(750, 530), wait(3000)},
		"extract": {tap(985, 620), wait(2000), tap(750, 530), wait(3000)},
		"store":   {tap(1045, 620), wait(2000), tap(755, 455), wait(3000)},
		"upgrade": {
			{Kind: StepTapImage, Image: "action/upgrade.png", Threshold: 0.9, TimeoutMs: 5000, Search: upgradeButton},
			wait(1000),
			{Kind: StepTapUpgradeOption, ImagePattern: "action/plus-%d.png", Threshold: 0.9, TimeoutMs: 5000, Search: upgradeOptions},
			tap(640, 520), wait(500),
			tap(640, 520), wait(500),
			tap(640, 520),
			{Kind: StepWaitImage, Image: "action/upgrade.png", Threshold: 0.9, TimeoutMs: 15000, Search: upgradeButton},
		},
		ActionNext: {tap(195, 199), wait(2000)},
	}
}

// Default полная конфигурация по умолчанию
func Default() Config {
	return Config{
		LogFilePath:    "logs/gearbot.log",
		LogLevel:       "info",
		TemplatesRoot:  "templates",
		Matcher:        "ncc",
		PropertyPolicy: PolicyRaiseForLegend,
		Regions:        DefaultRegions(),
		Thresholds:     decision.DefaultThresholds(),
		Window: Window{
			AutoDetect:          true,
			CoordinatesWithSize: CoordinatesWithSize{Width: 1280, Height: 720},
		},
		Database: Database{Driver: "sqlite", DSN: "gearbot.db"},
		Serial:   Serial{Port: "COM3", BaudRate: 9600},
		Actions:  DefaultActions(),
		Cycle:    Cycle{IntervalMs: 2000},
		Diagnostics: Diagnostics{
			Dir: "debug/unknown",
		},
		Viewer:  Server{Addr: ":8080"},
		Metrics: Server{Addr: ":2112"},
	}
}
