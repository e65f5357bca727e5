package decision

import (
	"fmt"

	"gearbot/internal/gear"
)

// Verdict результат проверки с причиной для лога
type Verdict struct {
	Pass   bool
	Reason string
}

func pass(format string, args ...interface{}) Verdict {
	return Verdict{Pass: true, Reason: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...interface{}) Verdict {
	return Verdict{Pass: false, Reason: fmt.Sprintf(format, args...)}
}

// Adapter правила одной редкости
type Adapter interface {
	// OkToUpgrade стоит ли усиливать предмет дальше
	OkToUpgrade(item gear.Item) Verdict
	// OkToStore стоит ли оставить предмет максимального уровня
	OkToStore(item gear.Item) Verdict
}

// LegendAdapter правила для легендарных предметов
type LegendAdapter struct {
	cfg LegendThresholds
}

func NewLegendAdapter(cfg LegendThresholds) (*LegendAdapter, error) {
	if err := (Thresholds{Legend: cfg, Hero: DefaultHeroThresholds()}).Validate(); err != nil {
		return nil, err
	}
	return &LegendAdapter{cfg: cfg}, nil
}

func (a *LegendAdapter) OkToUpgrade(item gear.Item) Verdict { return a.evaluate(item) }

func (a *LegendAdapter) OkToStore(item gear.Item) Verdict { return a.evaluate(item) }

func (a *LegendAdapter) evaluate(item gear.Item) Verdict {
	props := item.Properties
	if a.cfg.ReduceMainProp {
		props = item.Reduced()
	}

	// достаточно высокая скорость решает всё, кроме сапог
	if item.Type != gear.TypeShoes {
		if row, ok := lookup(a.cfg.SpeedShortcut, item.Level, speedLevel); ok && row.MinSpeed > 0 {
			if speed := item.Properties.Get(gear.Speed); speed >= row.MinSpeed {
				return pass("speed %d >= %d", speed, row.MinSpeed)
			}
		}
	}

	if !MainPropEligible(item.Set, item.Type, item.MainProp) {
		return fail("main property %s not eligible for %s %s", item.MainProp, item.Set, item.Type)
	}

	archetypes := gear.Classify(props)
	if !SetRequirementMet(item.Set, archetypes) {
		return fail("archetypes %s do not fit set %s", archetypes, item.Set)
	}

	row, ok := lookup(a.cfg.Score, item.Level, scoreLevel)
	if !ok {
		return fail("no score threshold for level %d", item.Level)
	}
	if item.Score >= row.MinScore {
		return pass("score %d >= %d", item.Score, row.MinScore)
	}
	if row.MinComputedScore > 0 {
		if computed := gear.ComputedScore(props); computed >= row.MinComputedScore {
			return pass("computed score %.2f >= %.2f", computed, row.MinComputedScore)
		}
	}
	return fail("score %d < %d", item.Score, row.MinScore)
}

// HeroAdapter правила для героических предметов: решает в основном скорость
type HeroAdapter struct {
	cfg           HeroThresholds
	fourPieceSets map[gear.Set]bool
	excludedTypes map[gear.Type]bool
}

func NewHeroAdapter(cfg HeroThresholds) (*HeroAdapter, error) {
	if err := (Thresholds{Legend: DefaultLegendThresholds(), Hero: cfg}).Validate(); err != nil {
		return nil, err
	}
	sets, _ := parseSets(cfg.FourPieceSets)
	types, _ := parseTypes(cfg.ExcludedTypes)
	return &HeroAdapter{cfg: cfg, fourPieceSets: sets, excludedTypes: types}, nil
}

func (a *HeroAdapter) OkToUpgrade(item gear.Item) Verdict { return a.evaluate(item) }

func (a *HeroAdapter) OkToStore(item gear.Item) Verdict { return a.evaluate(item) }

func (a *HeroAdapter) evaluate(item gear.Item) Verdict {
	if a.excludedTypes[item.Type] {
		return fail("type %s excluded", item.Type)
	}
	if item.Set.Pieces() == 4 && !a.fourPieceSets[item.Set] {
		return fail("four-piece set %s not allowed", item.Set)
	}
	if item.Score < a.cfg.MinScore {
		return fail("score %d < %d", item.Score, a.cfg.MinScore)
	}

	props := item.Properties
	if a.cfg.ReduceMainProp {
		props = item.Reduced()
	}
	row, ok := lookup(a.cfg.Speed, item.Level, speedLevel)
	if !ok {
		return fail("no speed threshold for level %d", item.Level)
	}
	if speed := props.Get(gear.Speed); speed < row.MinSpeed {
		return fail("speed %d < %d", speed, row.MinSpeed)
	}
	return pass("speed %d >= %d", props.Get(gear.Speed), row.MinSpeed)
}
