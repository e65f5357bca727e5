package decision

import (
	"fmt"

	"gearbot/internal/gear"
	"gearbot/internal/logger"
)

// Engine чистая функция предмета в решение. Состояния между вызовами нет
type Engine struct {
	legend Adapter
	hero   Adapter
	logger *logger.LoggerManager
}

// NewEngine собирает движок из таблиц порогов
func NewEngine(t Thresholds, loggerManager *logger.LoggerManager) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	legend, err := NewLegendAdapter(t.Legend)
	if err != nil {
		return nil, err
	}
	hero, err := NewHeroAdapter(t.Hero)
	if err != nil {
		return nil, err
	}
	return NewEngineWithAdapters(legend, hero, loggerManager), nil
}

func NewEngineWithAdapters(legend, hero Adapter, loggerManager *logger.LoggerManager) *Engine {
	if loggerManager == nil {
		loggerManager = logger.Nop()
	}
	return &Engine{legend: legend, hero: hero, logger: loggerManager}
}

// Decide выбирает действие над предметом
func (e *Engine) Decide(item gear.Item) gear.Decision {
	d, _ := e.Explain(item)
	return d
}

// Explain то же, что Decide, плюс причина
func (e *Engine) Explain(item gear.Item) (gear.Decision, string) {
	d, reason := e.byRarity(item)
	e.logger.Debug("решение %s для %s %s %s +%d: %s", d, item.Rarity, item.Set, item.Type, item.Level, reason)
	return d, reason
}

func (e *Engine) byRarity(item gear.Item) (gear.Decision, string) {
	switch item.Rarity {
	case gear.RarityLegend:
		return route(e.legend, item)
	case gear.RarityHero:
		return route(e.hero, item)
	case gear.RarityOther:
		return gear.Extract, "rarity is not legend or hero"
	}
	panic(fmt.Sprintf("decision: unhandled rarity %s", item.Rarity))
}

func route(a Adapter, item gear.Item) (gear.Decision, string) {
	if item.Level >= gear.MaxLevel {
		v := a.OkToStore(item)
		if v.Pass {
			return gear.Store, v.Reason
		}
		return gear.Sell, v.Reason
	}
	v := a.OkToUpgrade(item)
	if v.Pass {
		return gear.Upgrade, v.Reason
	}
	return gear.Sell, v.Reason
}
