// Package ocrtest рисует синтетические символы для тестов распознавания.
package ocrtest

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
)

// Glyph двухцветный шумовой "символ" с фиксированным seed.
// Разные seed дают почти некоррелированные эталоны
func Glyph(w, h int, seed int64) *image.Gray {
	rnd := rand.New(rand.NewSource(seed))
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		if rnd.Intn(2) == 0 {
			g.Pix[i] = 20
		} else {
			g.Pix[i] = 235
		}
	}
	return g
}

// Canvas белый кадр нужного размера
func Canvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// Draw кладет символ на кадр с левым верхним углом в at
func Draw(dst draw.Image, glyph image.Image, at image.Point) {
	r := glyph.Bounds().Sub(glyph.Bounds().Min).Add(at)
	draw.Draw(dst, r, glyph, glyph.Bounds().Min, draw.Src)
}

// Row рисует символы в строку, начиная с at, с промежутком gap
func Row(dst draw.Image, at image.Point, gap int, glyphs ...image.Image) {
	x := at.X
	for _, g := range glyphs {
		Draw(dst, g, image.Point{X: x, Y: at.Y})
		x += g.Bounds().Dx() + gap
	}
}

// Transparent возвращает копию символа в NRGBA с прозрачной рамкой шириной pad
func Transparent(glyph *image.Gray, pad int) *image.NRGBA {
	b := glyph.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*pad, b.Dy()+2*pad))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := glyph.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			out.SetNRGBA(x+pad, y+pad, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
