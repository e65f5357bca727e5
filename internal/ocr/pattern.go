package ocr

import (
	"fmt"
	"image"

	"gearbot/internal/match"
)

// PatternRecognizer выбирает одну метку из взаимоисключающего набора значков
type PatternRecognizer struct {
	matcher match.Matcher
	diag    Diagnostics
}

func NewPatternRecognizer(matcher match.Matcher, diag Diagnostics) *PatternRecognizer {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &PatternRecognizer{matcher: matcher, diag: diag}
}

// RecognizeLabel проходит эталоны в порядке регистрации. Лучшее место каждого эталона
// с оценкой не ниже threshold становится текущим победителем, а его след занимается:
// следующие эталоны это место уже не получат. Возвращается последний победитель,
// поэтому порядок эталонов - часть контракта. Пустая строка - совпадений нет
func (r *PatternRecognizer) RecognizeLabel(region *image.Gray, set *TemplateSet, threshold float64) (string, error) {
	if isEmpty(region) || set.Len() == 0 {
		return "", nil
	}

	var claimed []image.Rectangle
	result := ""
	for _, t := range set.Templates() {
		res, err := r.matcher.MatchAll(region, t.Image)
		if skippable(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("match %q: %w", t.Label, err)
		}

		w, h := t.Image.Rect.Dx(), t.Image.Rect.Dy()
		for _, c := range claimed {
			res.SuppressRect(c, w, h)
		}

		score, loc, ok := res.Max()
		if !ok || score < threshold {
			continue
		}
		result = t.Label
		claimed = append(claimed, match.Footprint(loc, w, h))
	}

	if result == "" {
		r.diag.RecordMiss("pattern-"+set.Name, region)
	}
	return result, nil
}
