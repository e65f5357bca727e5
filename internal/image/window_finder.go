package image

import (
	"errors"
	"image"
)

var ErrWindowNotFound = errors.New("game window not found")

// darkLimit - каналы ниже этого значения считаются черной рамкой
const darkLimit = 10

func isDark(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r>>8 < darkLimit && g>>8 < darkLimit && b>>8 < darkLimit
}

// FindGameWindow ищет первую нечерную точку, затем расширяет прямоугольник до границ окна (граница - черный цвет)
func FindGameWindow(img image.Image) (image.Rectangle, error) {
	bounds := img.Bounds()

	// 1. Найти первую нечерную точку
	found := false
	var startX, startY int
	for y := bounds.Min.Y; y < bounds.Max.Y && !found; y++ {
		for x := bounds.Min.X; x < bounds.Max.X && !found; x++ {
			if !isDark(img, x, y) {
				startX, startY = x, y
				found = true
			}
		}
	}
	if !found {
		return image.Rectangle{}, ErrWindowNotFound
	}

	// 2. Расширяем прямоугольник по строке и столбцу стартовой точки
	left, right := startX, startX
	top, bottom := startY, startY

	for x := startX; x < bounds.Max.X && !isDark(img, x, startY); x++ {
		right = x
	}
	for x := startX; x >= bounds.Min.X && !isDark(img, x, startY); x-- {
		left = x
	}
	for y := startY; y < bounds.Max.Y && !isDark(img, startX, y); y++ {
		bottom = y
	}
	for y := startY; y >= bounds.Min.Y && !isDark(img, startX, y); y-- {
		top = y
	}

	return image.Rect(left, top, right+1, bottom+1), nil
}

// ToAbsolute переводит координаты внутри окна в координаты экрана
func ToAbsolute(window image.Rectangle, p image.Point) image.Point {
	return window.Min.Add(p)
}
