package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

var (
	ErrOutOfBounds = errors.New("region is out of image bounds")
	ErrEmptyRegion = errors.New("region has zero area")
)

// blank - яркость, которой заменяются прозрачные пиксели шаблонов
const blank = 255

// Region прямоугольник в координатах кадра. Углы могут идти в любом порядке
type Region struct {
	X1, Y1, X2, Y2 int
}

// RegionFromSize строит Region из левого верхнего угла и размеров
func RegionFromSize(x, y, width, height int) Region {
	return Region{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

func (r Region) Width() int {
	return abs(r.X2 - r.X1)
}

func (r Region) Height() int {
	return abs(r.Y2 - r.Y1)
}

// Rect возвращает нормализованный прямоугольник
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Validate проверяет, что область непустая и лежит внутри bounds
func (r Region) Validate(bounds image.Rectangle) error {
	if r.Width() == 0 || r.Height() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyRegion, r)
	}
	rect := r.Rect().Add(bounds.Min)
	if !rect.In(bounds) {
		return fmt.Errorf("%w: %s not in %dx%d", ErrOutOfBounds, r, bounds.Dx(), bounds.Dy())
	}
	return nil
}

// Slice копирует область кадра в новое изображение с началом в (0,0)
func Slice(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()
	if err := r.Validate(bounds); err != nil {
		return nil, err
	}
	rect := r.Rect().Add(bounds.Min)
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out, nil
}

// SliceGray вырезает область и сразу переводит её в оттенки серого
func SliceGray(img image.Image, r Region) (*image.Gray, error) {
	sub, err := Slice(img, r)
	if err != nil {
		return nil, err
	}
	return FlattenTransparency(sub), nil
}

// FlattenTransparency переводит изображение в один канал яркости.
// Пиксели с нулевой альфой становятся белым фоном, остальные переводятся в серый без учета альфы
func FlattenTransparency(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < bounds.Dy(); y++ {
			src := g.Pix[g.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(out.Pix[y*out.Stride:y*out.Stride+bounds.Dx()], src[:bounds.Dx()])
		}
		return out
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			if c.A == 0 {
				out.Pix[y*out.Stride+x] = blank
				continue
			}
			out.Pix[y*out.Stride+x] = luma(c.R, c.G, c.B)
		}
	}
	return out
}

// luma те же коэффициенты, что и у color.GrayModel, но на непредумноженных каналах
func luma(r, g, b uint8) uint8 {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return uint8(y)
}

// LoadPNG читает PNG с диска
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG сохраняет изображение, создавая директорию при необходимости
func SavePNG(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create dir: %w", err)
	}
	outFile, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	if err := png.Encode(outFile, img); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
