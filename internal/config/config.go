package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"gearbot/internal/decision"
)

var ErrInvalidConfig = errors.New("invalid config")

// Структура для координат с размером
type CoordinatesWithSize struct {
	X      int `mapstructure:"x"`
	Y      int `mapstructure:"y"`
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Режимы распознавания области
const (
	KindGlyph   = "glyph"
	KindPattern = "pattern"
)

// RegionConfig одна именованная область экрана и как её читать
type RegionConfig struct {
	Templates           string  `mapstructure:"templates"`
	CoordinatesWithSize `mapstructure:",squash"`
	Threshold           float64 `mapstructure:"threshold"`
	Kind                string  `mapstructure:"kind"`
}

// Window прямоугольник окна игры на экране
type Window struct {
	AutoDetect          bool `mapstructure:"auto_detect"`
	CoordinatesWithSize `mapstructure:",squash"`
}

type Database struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
}

type Serial struct {
	Port     string `mapstructure:"port"`
	BaudRate int    `mapstructure:"baud_rate"`
}

// Step один шаг сценария действия
type Step struct {
	Kind         string              `mapstructure:"kind"`
	X            int                 `mapstructure:"x"`
	Y            int                 `mapstructure:"y"`
	Ms           int                 `mapstructure:"ms"`
	Image        string              `mapstructure:"image"`
	ImagePattern string              `mapstructure:"image_pattern"`
	Threshold    float64             `mapstructure:"threshold"`
	TimeoutMs    int                 `mapstructure:"timeout_ms"`
	Search       CoordinatesWithSize `mapstructure:"search"` // нулевая область - весь кадр
}

type Cycle struct {
	IntervalMs int `mapstructure:"interval_ms"`
	MaxCycles  int `mapstructure:"max_cycles"` // 0 - без ограничения
}

type Diagnostics struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

// Основная структура конфигурации
type Config struct {
	LogFilePath    string                  `mapstructure:"log_file_path"`
	LogLevel       string                  `mapstructure:"log_level"`
	TemplatesRoot  string                  `mapstructure:"templates_root"`
	Matcher        string                  `mapstructure:"matcher"`
	PropertyPolicy string                  `mapstructure:"property_policy"`
	Regions        map[string]RegionConfig `mapstructure:"regions"`
	Thresholds     decision.Thresholds     `mapstructure:"thresholds"`
	Window         Window                  `mapstructure:"window"`
	Database       Database                `mapstructure:"database"`
	Serial         Serial                  `mapstructure:"serial"`
	Actions        map[string][]Step       `mapstructure:"actions"`
	Cycle          Cycle                   `mapstructure:"cycle"`
	Diagnostics    Diagnostics             `mapstructure:"diagnostics"`
	Viewer         Server                  `mapstructure:"viewer"`
	Metrics        Server                  `mapstructure:"metrics"`
}

// InitConfig читает YAML. Пустой путь - config.yaml в текущей директории.
// Всё, что не задано в файле, берется из Default; переменные GEARBOT_* перекрывают файл
func InitConfig(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // Имя конфигурационного файла без расширения
		v.AddConfigPath(".")      // Путь к файлу конфигурации
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GEARBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := Default()
	bindScalarDefaults(v, config)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	// срезы и карты из файла заменяют значения по умолчанию целиком
	err := v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	})
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	fillMissing(&config)

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// fillMissing области и сценарии, не указанные в файле, остаются по умолчанию
func fillMissing(c *Config) {
	for name, r := range DefaultRegions() {
		if _, ok := c.Regions[name]; !ok {
			if c.Regions == nil {
				c.Regions = map[string]RegionConfig{}
			}
			c.Regions[name] = r
		}
	}
	for name, steps := range DefaultActions() {
		if _, ok := c.Actions[name]; !ok {
			if c.Actions == nil {
				c.Actions = map[string][]Step{}
			}
			c.Actions[name] = steps
		}
	}
}

// bindScalarDefaults регистрирует скалярные ключи, чтобы AutomaticEnv их видел
func bindScalarDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_file_path", c.LogFilePath)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("templates_root", c.TemplatesRoot)
	v.SetDefault("matcher", c.Matcher)
	v.SetDefault("property_policy", c.PropertyPolicy)
	v.SetDefault("window.auto_detect", c.Window.AutoDetect)
	v.SetDefault("window.x", c.Window.X)
	v.SetDefault("window.y", c.Window.Y)
	v.SetDefault("window.width", c.Window.Width)
	v.SetDefault("window.height", c.Window.Height)
	v.SetDefault("database.enabled", c.Database.Enabled)
	v.SetDefault("database.driver", c.Database.Driver)
	v.SetDefault("database.dsn", c.Database.DSN)
	v.SetDefault("serial.port", c.Serial.Port)
	v.SetDefault("serial.baud_rate", c.Serial.BaudRate)
	v.SetDefault("cycle.interval_ms", c.Cycle.IntervalMs)
	v.SetDefault("cycle.max_cycles", c.Cycle.MaxCycles)
	v.SetDefault("diagnostics.enabled", c.Diagnostics.Enabled)
	v.SetDefault("diagnostics.dir", c.Diagnostics.Dir)
	v.SetDefault("viewer.addr", c.Viewer.Addr)
	v.SetDefault("metrics.addr", c.Metrics.Addr)
}

// Validate проверяет то, что иначе всплывет только посреди цикла
func (c Config) Validate() error {
	for _, name := range RequiredRegions() {
		r, ok := c.Regions[name]
		if !ok {
			return fmt.Errorf("%w: region %q is missing", ErrInvalidConfig, name)
		}
		if r.Kind != KindGlyph && r.Kind != KindPattern {
			return fmt.Errorf("%w: region %q: kind %q", ErrInvalidConfig, name, r.Kind)
		}
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("%w: region %q has no area", ErrInvalidConfig, name)
		}
		if r.Threshold <= 0 || r.Threshold > 1 {
			return fmt.Errorf("%w: region %q: threshold %v", ErrInvalidConfig, name, r.Threshold)
		}
		if r.Templates == "" {
			return fmt.Errorf("%w: region %q has no templates", ErrInvalidConfig, name)
		}
	}

	switch c.PropertyPolicy {
	case PolicyIgnore, PolicyRaise, PolicyRaiseForLegend:
	default:
		return fmt.Errorf("%w: property_policy %q", ErrInvalidConfig, c.PropertyPolicy)
	}

	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case "mysql", "sqlite":
		default:
			return fmt.Errorf("%w: database driver %q", ErrInvalidConfig, c.Database.Driver)
		}
	}

	for name, steps := range c.Actions {
		for i, s := range steps {
			if !knownStep(s.Kind) {
				return fmt.Errorf("%w: actions.%s[%d]: step kind %q", ErrInvalidConfig, name, i, s.Kind)
			}
			if r := s.Search; r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 {
				return fmt.Errorf("%w: actions.%s[%d]: search %+v", ErrInvalidConfig, name, i, r)
			}
		}
	}
	return nil
}
