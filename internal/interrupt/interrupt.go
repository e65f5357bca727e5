package interrupt

import (
	"sync/atomic"

	"gearbot/internal/logger"
)

// InterruptManager управляет прерываниями и горячими клавишами
type InterruptManager struct {
	scriptInterruptChan chan bool
	scriptStartChan     chan bool
	isScriptRunning     atomic.Bool
	loggerManager       *logger.LoggerManager
}

// NewInterruptManager создает новый менеджер прерываний
func NewInterruptManager(loggerManager *logger.LoggerManager) *InterruptManager {
	return &InterruptManager{
		scriptInterruptChan: make(chan bool, 1),
		scriptStartChan:     make(chan bool, 1),
		loggerManager:       loggerManager,
	}
}

// StartMonitoring запускает мониторинг горячих клавиш
func (im *InterruptManager) StartMonitoring() {
	go im.monitor()
}

// GetScriptInterruptChan возвращает канал для прерывания скрипта
func (im *InterruptManager) GetScriptInterruptChan() <-chan bool {
	return im.scriptInterruptChan
}

// GetScriptStartChan возвращает канал для запуска скрипта
func (im *InterruptManager) GetScriptStartChan() <-chan bool {
	return im.scriptStartChan
}

// SetScriptRunning устанавливает состояние выполнения скрипта
func (im *InterruptManager) SetScriptRunning(running bool) {
	im.isScriptRunning.Store(running)
}

// IsScriptRunning возвращает состояние выполнения скрипта
func (im *InterruptManager) IsScriptRunning() bool {
	return im.isScriptRunning.Load()
}

// RequestStart запуск скрипта; повторный запрос, пока первый не прочитан, отбрасывается
func (im *InterruptManager) RequestStart() {
	select {
	case im.scriptStartChan <- true:
	default:
	}
}

// RequestInterrupt прерывает только запущенный скрипт
func (im *InterruptManager) RequestInterrupt() {
	if !im.IsScriptRunning() {
		return
	}
	select {
	case im.scriptInterruptChan <- true:
		im.loggerManager.Info("⏹️ Прерывание по запросу пользователя")
	default:
	}
}

// Stop закрывает канал запуска: цикл ожидания в main завершается
func (im *InterruptManager) Stop() {
	close(im.scriptStartChan)
}
