package match

import (
	"image"
	"math"
)

// SqDiff нормированная сумма квадратов разностей (TM_SQDIFF_NORMED).
// Это карта расстояний: 0 - точное совпадение, чем меньше, тем лучше
type SqDiff struct{}

func (SqDiff) MatchAll(region, template *image.Gray) (*ScoreMap, error) {
	W, H, err := checkSizes(region, template)
	if err != nil {
		return nil, err
	}
	w, h := template.Rect.Dx(), template.Rect.Dy()

	src := toFloats(region)
	tpl := toFloats(template)

	var tSq float64
	for _, v := range tpl {
		tSq += v * v
	}
	_, sq := integrals(src, W, H)

	out := NewScoreMap(W-w+1, H-h+1)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			var cross float64
			for j := 0; j < h; j++ {
				row := src[(y+j)*W+x : (y+j)*W+x+w]
				trow := tpl[j*w : (j+1)*w]
				for i, v := range row {
					cross += v * trow[i]
				}
			}
			wSq := rectSum(sq, W, x, y, w, h)
			num := wSq - 2*cross + tSq
			den := math.Sqrt(wSq * tSq)
			switch {
			case den < flatEpsilon && num < flatEpsilon:
				out.Set(x, y, 0)
			case den < flatEpsilon:
				out.Set(x, y, 1)
			default:
				out.Set(x, y, clamp(num/den, 0, 1))
			}
		}
	}
	return out, nil
}

// MatchPattern лучшее совпадение по карте расстояний
type MatchPattern struct {
	Distance float64
	Loc      image.Point
	Size     image.Point
}

// Similar переводит расстояние в сходство, чтобы наружу везде было "больше - лучше"
func (p MatchPattern) Similar() float64 {
	return 1 - p.Distance
}

// Center центр найденного шаблона в координатах области
func (p MatchPattern) Center() image.Point {
	return image.Point{X: p.Loc.X + p.Size.X/2, Y: p.Loc.Y + p.Size.Y/2}
}

// FindBest ищет место с минимальным расстоянием до шаблона
func FindBest(region, template *image.Gray) (MatchPattern, error) {
	res, err := SqDiff{}.MatchAll(region, template)
	if err != nil {
		return MatchPattern{}, err
	}
	dist, loc, _ := res.Min()
	return MatchPattern{
		Distance: dist,
		Loc:      loc,
		Size:     image.Point{X: template.Rect.Dx(), Y: template.Rect.Dy()},
	}, nil
}
