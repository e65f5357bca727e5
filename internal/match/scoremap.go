package match

import (
	"image"
	"math"
)

// suppressed ниже любой достижимой оценки, такие ячейки Max пропускает
var suppressed = math.Inf(-1)

// ScoreMap карта оценок размером (W-w+1) x (H-h+1); ячейка (x,y) соответствует
// левому верхнему углу шаблона в области
type ScoreMap struct {
	Width, Height int
	Scores        []float64
}

func NewScoreMap(width, height int) *ScoreMap {
	return &ScoreMap{
		Width:  width,
		Height: height,
		Scores: make([]float64, width*height),
	}
}

func (m *ScoreMap) At(x, y int) float64 {
	return m.Scores[y*m.Width+x]
}

func (m *ScoreMap) Set(x, y int, v float64) {
	m.Scores[y*m.Width+x] = v
}

// Clone нужна распознавателям, чтобы подавление не портило исходную карту
func (m *ScoreMap) Clone() *ScoreMap {
	c := &ScoreMap{Width: m.Width, Height: m.Height, Scores: make([]float64, len(m.Scores))}
	copy(c.Scores, m.Scores)
	return c
}

// Max возвращает лучшую неподавленную ячейку. При равенстве выигрывает первая в порядке строк
func (m *ScoreMap) Max() (float64, image.Point, bool) {
	best := suppressed
	var loc image.Point
	for y := 0; y < m.Height; y++ {
		row := m.Scores[y*m.Width : (y+1)*m.Width]
		for x, v := range row {
			if v > best {
				best = v
				loc = image.Point{X: x, Y: y}
			}
		}
	}
	return best, loc, best > suppressed
}

// Min для карт расстояний, где лучше меньшее значение
func (m *ScoreMap) Min() (float64, image.Point, bool) {
	best := math.Inf(1)
	var loc image.Point
	found := false
	for i, v := range m.Scores {
		if v == suppressed {
			continue
		}
		if v < best {
			best = v
			loc = image.Point{X: i % m.Width, Y: i / m.Width}
			found = true
		}
	}
	return best, loc, found
}

// Suppress гасит все позиции, след шаблона (tw x th) в которых пересекается со следом в loc
func (m *ScoreMap) Suppress(loc image.Point, tw, th int) {
	m.SuppressRect(image.Rect(loc.X, loc.Y, loc.X+tw, loc.Y+th), tw, th)
}

// SuppressRect гасит все позиции, след шаблона в которых пересекается с r
func (m *ScoreMap) SuppressRect(r image.Rectangle, tw, th int) {
	x0 := max(r.Min.X-tw+1, 0)
	y0 := max(r.Min.Y-th+1, 0)
	x1 := min(r.Max.X, m.Width)
	y1 := min(r.Max.Y, m.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Scores[y*m.Width+x] = suppressed
		}
	}
}

// Footprint прямоугольник, который шаблон занимает в области при совпадении в loc
func Footprint(loc image.Point, tw, th int) image.Rectangle {
	return image.Rect(loc.X, loc.Y, loc.X+tw, loc.Y+th)
}
