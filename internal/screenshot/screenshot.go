package screenshot

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"gearbot/internal/config"
	"gearbot/internal/logger"
)

var ErrCaptureFailed = errors.New("capture failed")

// ScreenshotManager источник кадров: окно игры целиком
type ScreenshotManager struct {
	dc      *config.DynamicConfig
	logger  *logger.LoggerManager
	capture func(image.Rectangle) (*image.RGBA, error)
	display func() (image.Rectangle, bool)
}

func NewScreenshotManager(dc *config.DynamicConfig, loggerManager *logger.LoggerManager) *ScreenshotManager {
	return &ScreenshotManager{
		dc:      dc,
		logger:  loggerManager,
		capture: screenshot.CaptureRect,
		display: primaryDisplay,
	}
}

func primaryDisplay() (image.Rectangle, bool) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, false
	}
	return screenshot.GetDisplayBounds(0), true
}

// CaptureFrame захватывает окно игры. Координаты кадра начинаются с (0,0)
func (m *ScreenshotManager) CaptureFrame() (image.Image, error) {
	window := m.dc.GameWindow
	if window.Empty() {
		return nil, fmt.Errorf("%w: game window is empty", ErrCaptureFailed)
	}
	img, err := m.capture(window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	if img.Rect.Min != (image.Point{}) {
		// CaptureRect отдает кадр в экранных координатах на некоторых платформах
		img = &image.RGBA{
			Pix:    img.Pix,
			Stride: img.Stride,
			Rect:   img.Rect.Sub(img.Rect.Min),
		}
	}
	return img, nil
}

// CaptureFullScreen снимок основного дисплея, нужен для поиска окна игры
func (m *ScreenshotManager) CaptureFullScreen() (image.Image, error) {
	bounds, ok := m.display()
	if !ok {
		return nil, fmt.Errorf("%w: no active displays", ErrCaptureFailed)
	}
	img, err := m.capture(bounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	return img, nil
}

// DetectWindow ищет окно игры на экране и запоминает его в DynamicConfig
func (m *ScreenshotManager) DetectWindow() error {
	full, err := m.CaptureFullScreen()
	if err != nil {
		return err
	}
	if err := m.dc.FindAndSetGameWindow(full); err != nil {
		return err
	}
	m.logger.Info("🪟 окно игры найдено: %v", m.dc.GameWindow)
	return nil
}
