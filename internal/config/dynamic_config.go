package config

import (
	"image"

	imageInternal "gearbot/internal/image"
)

// DynamicConfig расширяет Config окном игры, найденным во время работы
type DynamicConfig struct {
	*Config
	GameWindow image.Rectangle
}

// NewDynamicConfig окно берется из конфигурации, пока не найдено на экране
func NewDynamicConfig(config *Config) *DynamicConfig {
	w := config.Window
	return &DynamicConfig{
		Config:     config,
		GameWindow: image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height),
	}
}

// FindAndSetGameWindow находит окно игры на снимке всего экрана и запоминает его
func (dc *DynamicConfig) FindAndSetGameWindow(fullScreen image.Image) error {
	gameWindow, err := imageInternal.FindGameWindow(fullScreen)
	if err != nil {
		return err
	}
	dc.GameWindow = gameWindow
	return nil
}

// GetAbsoluteCoordinates возвращает абсолютные координаты для клика
func (dc *DynamicConfig) GetAbsoluteCoordinates(rel image.Point) image.Point {
	return imageInternal.ToAbsolute(dc.GameWindow, rel)
}
