package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerManager управляет логированием в файл и в консоль
type LoggerManager struct {
	file   io.Closer
	logger zerolog.Logger
}

// NewLoggerManager создает логгер: JSON в файл с ротацией и читаемый вывод в консоль
func NewLoggerManager(logFilePath string, level string) (*LoggerManager, error) {
	// Создаем директорию для логов, если её нет
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории для логов: %w", err)
	}

	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10,
		MaxBackups: 3,
		LocalTime:  true,
	}
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}

	logger := zerolog.New(zerolog.MultiLevelWriter(file, console)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &LoggerManager{
		file:   file,
		logger: logger,
	}, nil
}

// NewWriterLogger пишет JSON-строки в произвольный writer
func NewWriterLogger(w io.Writer, level string) (*LoggerManager, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return &LoggerManager{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}, nil
}

// Nop возвращает логгер, который ничего не пишет
func Nop() *LoggerManager {
	return &LoggerManager{logger: zerolog.Nop()}
}

func parseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("неизвестный уровень логирования %q: %w", level, err)
	}
	return lvl, nil
}

// Close закрывает файл логов
func (l *LoggerManager) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Zerolog отдает базовый логгер для записи с полями
func (l *LoggerManager) Zerolog() *zerolog.Logger {
	return &l.logger
}

// Debug записывает отладочное сообщение
func (l *LoggerManager) Debug(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// Info записывает информационное сообщение
func (l *LoggerManager) Info(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

// Warn записывает предупреждение
func (l *LoggerManager) Warn(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

// Error записывает сообщение об ошибке
func (l *LoggerManager) Error(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

// LogError записывает ошибку с дополнительной информацией
func (l *LoggerManager) LogError(err error, context string) {
	if err != nil {
		l.logger.Error().Err(err).Msg(context)
	}
}
