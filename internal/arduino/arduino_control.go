package arduino

import (
	"context"
	"image"
	"sync"

	"gearbot/internal/config"
	"gearbot/internal/logger"
)

// ClickManager кликает по координатам внутри окна игры через Arduino
type ClickManager struct {
	mu     sync.Mutex
	port   Port
	dc     *config.DynamicConfig
	logger *logger.LoggerManager
}

func NewClickManager(port Port, dc *config.DynamicConfig, loggerManager *logger.LoggerManager) *ClickManager {
	return &ClickManager{
		port:   port,
		dc:     dc,
		logger: loggerManager,
	}
}

// Click переводит координаты окна в экранные и ждет подтверждения.
// Порт общий, поэтому команды идут строго по одной
func (m *ClickManager) Click(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs := m.dc.GetAbsoluteCoordinates(image.Pt(x, y))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Debug("🖱️ клик (%d,%d) -> (%d,%d)", x, y, abs.X, abs.Y)
	return ProcessAndWait(m.port, func(p Port) error {
		return SendCoordinates(p, abs.X, abs.Y)
	})
}
