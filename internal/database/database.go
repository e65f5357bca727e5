package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"gearbot/internal/logger"
)

// Поддерживаемые драйверы журнала
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// asyncSaveTimeout сколько ждать одну фоновую запись
const asyncSaveTimeout = 10 * time.Second

// DatabaseManager журнал решений поверх database/sql
type DatabaseManager struct {
	db      *sql.DB
	dialect string
	logger  *logger.LoggerManager
	wg      sync.WaitGroup // для ожидания завершения асинхронных операций
}

// Open подключается к базе и проверяет соединение
func Open(driver, dsn string) (*sql.DB, error) {
	if _, err := schemaFor(driver); err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
	}
	if driver == DriverSQLite {
		// один писатель, иначе SQLITE_BUSY на фоновых записях
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка проверки подключения: %w", err)
	}
	return db, nil
}

// NewDatabaseManager создает новый экземпляр DatabaseManager
func NewDatabaseManager(db *sql.DB, dialect string, loggerManager *logger.LoggerManager) *DatabaseManager {
	if loggerManager == nil {
		loggerManager = logger.Nop()
	}
	return &DatabaseManager{
		db:      db,
		dialect: dialect,
		logger:  loggerManager,
	}
}

// EnsureSchema создает таблицу журнала, если её нет
func (h *DatabaseManager) EnsureSchema(ctx context.Context) error {
	ddl, err := schemaFor(h.dialect)
	if err != nil {
		return err
	}
	for _, stmt := range ddl {
		if _, err := h.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ошибка создания таблицы %s: %w", tableName, err)
		}
	}
	return nil
}

// WaitForAsyncOperations ожидает завершения всех асинхронных операций сохранения
func (h *DatabaseManager) WaitForAsyncOperations() {
	h.logger.Info("⏳ Ожидаем завершения асинхронных операций сохранения...")
	h.wg.Wait()
	h.logger.Info("✅ Все асинхронные операции сохранения завершены")
}

// Close дожидается фоновых записей и закрывает соединение
func (h *DatabaseManager) Close() error {
	h.wg.Wait()
	return h.db.Close()
}
