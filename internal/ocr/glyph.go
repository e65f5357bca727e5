package ocr

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"gearbot/internal/match"
)

// Candidate одно найденное вхождение эталона в области
type Candidate struct {
	Label string
	X, Y  int
	Score float64
	order int
}

// GlyphRecognizer собирает строку из всех неперекрывающихся вхождений эталонов слева направо
type GlyphRecognizer struct {
	matcher match.Matcher
	diag    Diagnostics
}

func NewGlyphRecognizer(matcher match.Matcher, diag Diagnostics) *GlyphRecognizer {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &GlyphRecognizer{matcher: matcher, diag: diag}
}

// Candidates находит все вхождения каждого эталона с оценкой не ниже threshold.
// Для одной метки следы вхождений не пересекаются. Результат отсортирован по x,
// при равном x - по порядку регистрации меток
func (r *GlyphRecognizer) Candidates(region *image.Gray, set *TemplateSet, threshold float64) ([]Candidate, error) {
	if isEmpty(region) || set.Len() == 0 {
		return nil, nil
	}

	var out []Candidate
	for order, t := range set.Templates() {
		res, err := r.matcher.MatchAll(region, t.Image)
		if skippable(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", t.Label, err)
		}

		w, h := t.Image.Rect.Dx(), t.Image.Rect.Dy()
		for {
			score, loc, ok := res.Max()
			if !ok || score < threshold {
				break
			}
			out = append(out, Candidate{Label: t.Label, X: loc.X, Y: loc.Y, Score: score, order: order})
			res.Suppress(loc, w, h)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].order < out[j].order
	})
	return out, nil
}

// RecognizeString склеивает метки найденных вхождений слева направо
func (r *GlyphRecognizer) RecognizeString(region *image.Gray, set *TemplateSet, threshold float64) (string, error) {
	candidates, err := r.Candidates(region, set, threshold)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, c := range candidates {
		sb.WriteString(c.Label)
	}
	if sb.Len() == 0 && !isEmpty(region) && set.Len() > 0 {
		r.diag.RecordMiss("glyph-"+set.Name, region)
	}
	return sb.String(), nil
}

func isEmpty(img *image.Gray) bool {
	return img == nil || img.Rect.Empty()
}

// skippable эталон больше области или пустой - просто не может совпасть
func skippable(err error) bool {
	return errors.Is(err, match.ErrTemplateTooLarge) || errors.Is(err, match.ErrEmptyTemplate)
}
