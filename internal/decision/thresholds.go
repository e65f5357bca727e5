package decision

import (
	"errors"
	"fmt"

	"gearbot/internal/gear"
)

var ErrInvalidThresholds = errors.New("invalid thresholds")

// SpeedThreshold минимальная скорость начиная с уровня MinLevel
type SpeedThreshold struct {
	MinLevel int `mapstructure:"min_level" json:"min_level"`
	MinSpeed int `mapstructure:"min_speed" json:"min_speed"`
}

// ScoreThreshold строка проходит, если Score >= MinScore или,
// при MinComputedScore > 0, если вычисленная оценка >= MinComputedScore
type ScoreThreshold struct {
	MinLevel         int     `mapstructure:"min_level" json:"min_level"`
	MinScore         int     `mapstructure:"min_score" json:"min_score"`
	MinComputedScore float64 `mapstructure:"min_computed_score" json:"min_computed_score"`
}

type LegendThresholds struct {
	SpeedShortcut  []SpeedThreshold `mapstructure:"speed_shortcut" json:"speed_shortcut"`
	Score          []ScoreThreshold `mapstructure:"score" json:"score"`
	ReduceMainProp bool             `mapstructure:"reduce_main_prop" json:"reduce_main_prop"`
}

type HeroThresholds struct {
	FourPieceSets  []string         `mapstructure:"four_piece_sets" json:"four_piece_sets"`
	ExcludedTypes  []string         `mapstructure:"excluded_types" json:"excluded_types"`
	MinScore       int              `mapstructure:"min_score" json:"min_score"`
	Speed          []SpeedThreshold `mapstructure:"speed" json:"speed"`
	ReduceMainProp bool             `mapstructure:"reduce_main_prop" json:"reduce_main_prop"`
}

// Thresholds таблицы порогов по редкости и уровню
type Thresholds struct {
	Legend LegendThresholds `mapstructure:"legend" json:"legend"`
	Hero   HeroThresholds   `mapstructure:"hero" json:"hero"`
}

func DefaultLegendThresholds() LegendThresholds {
	return LegendThresholds{
		SpeedShortcut: []SpeedThreshold{
			{MinLevel: 0, MinSpeed: 5},
			{MinLevel: 9, MinSpeed: 10},
			{MinLevel: 12, MinSpeed: 15},
		},
		Score: []ScoreThreshold{
			{MinLevel: 0, MinScore: 20},
			{MinLevel: 3, MinScore: 30},
			{MinLevel: 6, MinScore: 40},
			{MinLevel: 9, MinScore: 55},
			{MinLevel: 12, MinScore: 65},
			{MinLevel: 15, MinScore: 80, MinComputedScore: 70},
		},
		ReduceMainProp: true,
	}
}

func DefaultHeroThresholds() HeroThresholds {
	return HeroThresholds{
		FourPieceSets: []string{gear.SetSpeed.String()},
		MinScore:      0,
		Speed: []SpeedThreshold{
			{MinLevel: 0, MinSpeed: 2},
			{MinLevel: 3, MinSpeed: 5},
			{MinLevel: 6, MinSpeed: 8},
			{MinLevel: 9, MinSpeed: 12},
			{MinLevel: 12, MinSpeed: 12},
			{MinLevel: 15, MinSpeed: 18},
		},
		ReduceMainProp: false,
	}
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Legend: DefaultLegendThresholds(),
		Hero:   DefaultHeroThresholds(),
	}
}

// Validate таблицы должны быть непустыми и строго возрастать по уровню, имена - из закрытых перечислений
func (t Thresholds) Validate() error {
	if err := validateLevels("legend.speed_shortcut", levelsOf(t.Legend.SpeedShortcut, speedLevel)); err != nil {
		return err
	}
	if err := validateLevels("legend.score", levelsOf(t.Legend.Score, scoreLevel)); err != nil {
		return err
	}
	if err := validateLevels("hero.speed", levelsOf(t.Hero.Speed, speedLevel)); err != nil {
		return err
	}
	if _, err := parseSets(t.Hero.FourPieceSets); err != nil {
		return fmt.Errorf("%w: hero.four_piece_sets: %w", ErrInvalidThresholds, err)
	}
	if _, err := parseTypes(t.Hero.ExcludedTypes); err != nil {
		return fmt.Errorf("%w: hero.excluded_types: %w", ErrInvalidThresholds, err)
	}
	return nil
}

func speedLevel(r SpeedThreshold) int { return r.MinLevel }

func scoreLevel(r ScoreThreshold) int { return r.MinLevel }

func levelsOf[T any](rows []T, level func(T) int) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = level(r)
	}
	return out
}

func validateLevels(name string, levels []int) error {
	if len(levels) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidThresholds, name)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			return fmt.Errorf("%w: %s levels must increase (%d after %d)", ErrInvalidThresholds, name, levels[i], levels[i-1])
		}
	}
	return nil
}

// lookup последняя строка с MinLevel <= level. Уровень ниже всех строк - строки нет
func lookup[T any](rows []T, level int, minLevel func(T) int) (T, bool) {
	var found T
	ok := false
	for _, r := range rows {
		if minLevel(r) > level {
			break
		}
		found, ok = r, true
	}
	return found, ok
}

func parseSets(names []string) (map[gear.Set]bool, error) {
	out := make(map[gear.Set]bool, len(names))
	for _, n := range names {
		s, err := gear.ParseSet(n)
		if err != nil {
			return nil, err
		}
		out[s] = true
	}
	return out, nil
}

func parseTypes(names []string) (map[gear.Type]bool, error) {
	out := make(map[gear.Type]bool, len(names))
	for _, n := range names {
		t, err := gear.ParseType(n)
		if err != nil {
			return nil, err
		}
		out[t] = true
	}
	return out, nil
}
