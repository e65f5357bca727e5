package match

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrTemplateTooLarge = errors.New("template is larger than region")
	ErrEmptyTemplate    = errors.New("template has zero area")
)

// flatEpsilon - дисперсия ниже этого порога считается нулевой
const flatEpsilon = 1e-9

// Matcher считает карту оценок шаблона по области. Чем выше оценка, тем лучше совпадение
type Matcher interface {
	MatchAll(region, template *image.Gray) (*ScoreMap, error)
}

// NCC нормированная кросс-корреляция с вычитанием средних (TM_CCOEFF_NORMED).
// Значения в диапазоне [-1, 1]; для плоского окна или плоского шаблона оценка 0
type NCC struct{}

func (NCC) MatchAll(region, template *image.Gray) (*ScoreMap, error) {
	W, H, err := checkSizes(region, template)
	if err != nil {
		return nil, err
	}
	w, h := template.Rect.Dx(), template.Rect.Dy()
	n := float64(w * h)

	src := toFloats(region)
	tpl := toFloats(template)

	var tMean float64
	for _, v := range tpl {
		tMean += v
	}
	tMean /= n

	var tNorm float64
	tDev := make([]float64, len(tpl))
	for i, v := range tpl {
		tDev[i] = v - tMean
		tNorm += tDev[i] * tDev[i]
	}

	sum, sq := integrals(src, W, H)
	out := NewScoreMap(W-w+1, H-h+1)
	if tNorm < flatEpsilon {
		return out, nil
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			s := rectSum(sum, W, x, y, w, h)
			s2 := rectSum(sq, W, x, y, w, h)
			winVar := s2 - s*s/n
			if winVar < flatEpsilon {
				continue
			}

			var cross float64
			for j := 0; j < h; j++ {
				row := src[(y+j)*W+x : (y+j)*W+x+w]
				dev := tDev[j*w : (j+1)*w]
				for i, v := range row {
					cross += v * dev[i]
				}
			}

			score := cross / math.Sqrt(winVar*tNorm)
			out.Set(x, y, clamp(score, -1, 1))
		}
	}
	return out, nil
}

func checkSizes(region, template *image.Gray) (int, int, error) {
	W, H := region.Rect.Dx(), region.Rect.Dy()
	w, h := template.Rect.Dx(), template.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, ErrEmptyTemplate
	}
	if w > W || h > H {
		return 0, 0, fmt.Errorf("%w: %dx%d in %dx%d", ErrTemplateTooLarge, w, h, W, H)
	}
	return W, H, nil
}

// toFloats копирует пиксели в плоский срез с началом координат в (0,0)
func toFloats(g *image.Gray) []float64 {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[g.PixOffset(g.Rect.Min.X, g.Rect.Min.Y+y):]
		for x := 0; x < w; x++ {
			out[y*w+x] = float64(row[x])
		}
	}
	return out
}

// integrals строит интегральные изображения суммы и суммы квадратов размера (W+1)x(H+1)
func integrals(src []float64, W, H int) ([]float64, []float64) {
	stride := W + 1
	sum := make([]float64, stride*(H+1))
	sq := make([]float64, stride*(H+1))
	for y := 0; y < H; y++ {
		var rowSum, rowSq float64
		for x := 0; x < W; x++ {
			v := src[y*W+x]
			rowSum += v
			rowSq += v * v
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + rowSum
			sq[(y+1)*stride+x+1] = sq[y*stride+x+1] + rowSq
		}
	}
	return sum, sq
}

func rectSum(integral []float64, W, x, y, w, h int) float64 {
	stride := W + 1
	return integral[(y+h)*stride+x+w] - integral[y*stride+x+w] - integral[(y+h)*stride+x] + integral[y*stride+x]
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
