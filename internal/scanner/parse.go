package scanner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gearbot/internal/config"
	"gearbot/internal/gear"
	"gearbot/internal/logger"
)

var ErrUnsupportedPropertyType = errors.New("unsupported property type")

// Метки шаблонов типов характеристик
const (
	LabelAttack           = "atk"
	LabelLife             = "life"
	LabelDefense          = "def"
	LabelSpeed            = "speed"
	LabelCriticalRate     = "cri-rate"
	LabelCriticalDamage   = "cri-damage"
	LabelEffectHit        = "effect-hit"
	LabelEffectResistance = "effect-resistance"
)

// misreadSpeed мелкая "3" в поле скорости читается как "83"
const misreadSpeed = 83

// Reading пара (тип, значение) одного слота характеристики
type Reading struct {
	Label string
	Value string
}

// StrictFor нужно ли падать на неизвестном типе характеристики
func StrictFor(policy string, rarity gear.Rarity) bool {
	switch policy {
	case config.PolicyRaise:
		return true
	case config.PolicyRaiseForLegend:
		return rarity == gear.RarityLegend
	}
	return false
}

// FoldProperties сворачивает слоты по порядку в вектор характеристик.
// Каждый слот пишет ровно одно измерение, повторное измерение перезаписывается.
// Нечисловое значение пропускается с записью в лог
func FoldProperties(readings []Reading, strict bool, loggerManager *logger.LoggerManager) (gear.Properties, error) {
	if loggerManager == nil {
		loggerManager = logger.Nop()
	}

	var props gear.Properties
	for _, r := range readings {
		if strings.TrimSpace(r.Value) == "" {
			continue
		}
		v, err := ParseNumber(r.Value)
		if err != nil {
			loggerManager.Warn("⚠️ не удалось разобрать число %q для %q: %v", r.Value, r.Label, err)
			continue
		}

		stat, ok := statFor(r.Label, r.Value)
		if !ok {
			loggerManager.Warn("❓ неизвестный тип характеристики: %q", r.Label)
			if strict {
				return gear.Properties{}, fmt.Errorf("%w: %q", ErrUnsupportedPropertyType, r.Label)
			}
			continue
		}
		if stat == gear.Speed && v == misreadSpeed {
			v = 3
		}
		props = props.With(stat, v)
	}
	return props, nil
}

// ParseNumber убирает "%" и разделители тысяч
func ParseNumber(s string) (int, error) {
	cleaned := strings.NewReplacer("%", "", ",", "").Replace(strings.TrimSpace(s))
	return strconv.Atoi(cleaned)
}

func statFor(label, value string) (gear.Stat, bool) {
	percent := strings.Contains(value, "%")
	switch label {
	case LabelAttack:
		if percent {
			return gear.AttackPercent, true
		}
		return gear.FlatAttack, true
	case LabelLife:
		if percent {
			return gear.LifePercent, true
		}
		return gear.FlatLife, true
	case LabelDefense:
		if percent {
			return gear.DefensePercent, true
		}
		return gear.FlatDefense, true
	case LabelSpeed:
		return gear.Speed, true
	case LabelCriticalRate:
		return gear.CriticalRate, true
	case LabelCriticalDamage:
		return gear.CriticalDamage, true
	case LabelEffectHit:
		return gear.Effectiveness, true
	case LabelEffectResistance:
		return gear.EffectResist, true
	}
	return 0, false
}

// MainPropFor основная характеристика по метке типа; "%" в значении отличает проценты от плоских
func MainPropFor(label, value string) (gear.MainProp, error) {
	percent := strings.Contains(value, "%")
	switch label {
	case LabelAttack:
		if percent {
			return gear.MainAttackPercent, nil
		}
		return gear.MainAttackFlat, nil
	case LabelLife:
		if percent {
			return gear.MainLifePercent, nil
		}
		return gear.MainLifeFlat, nil
	case LabelDefense:
		if percent {
			return gear.MainDefensePercent, nil
		}
		return gear.MainDefenseFlat, nil
	case LabelSpeed:
		return gear.MainSpeed, nil
	case LabelCriticalRate:
		return gear.MainCriticalRate, nil
	case LabelCriticalDamage:
		return gear.MainCriticalDamage, nil
	case LabelEffectHit:
		return gear.MainEffectiveness, nil
	case LabelEffectResistance:
		return gear.MainEffectResist, nil
	}
	return 0, fmt.Errorf("%w: main property type %q", gear.ErrUnknownEnumValue, label)
}

// token приводит метку шаблона к имени перечисления: "dual-attack" -> "DUAL_ATTACK"
func token(label string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(label), "-", "_"))
}

// parseLevel пустая строка - нулевой уровень
func parseLevel(s string, loggerManager *logger.LoggerManager) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	level, err := ParseNumber(s)
	if err != nil {
		loggerManager.Warn("⚠️ не удалось разобрать уровень %q, считаем 0", s)
		return 0
	}
	return level
}

func parseScore(s string, loggerManager *logger.LoggerManager) int {
	score, err := ParseNumber(s)
	if err != nil {
		loggerManager.Warn("⚠️ не удалось разобрать оценку %q, считаем 0", s)
		return 0
	}
	return score
}

// Assemble собирает предмет из распознанных строк по именам областей
func Assemble(raw map[string]string, policy string, loggerManager *logger.LoggerManager) (gear.Item, error) {
	if loggerManager == nil {
		loggerManager = logger.Nop()
	}

	set, err := gear.ParseSet(token(raw[config.RegionSet]))
	if err != nil {
		return gear.Item{}, err
	}
	rarity, err := gear.ParseRarity(token(raw[config.RegionRarity]))
	if err != nil {
		return gear.Item{}, err
	}
	gearType, err := gear.ParseType(token(raw[config.RegionType]))
	if err != nil {
		return gear.Item{}, err
	}
	mainType, mainValue := raw[config.RegionMainPropType], raw[config.RegionMainProp]
	mainProp, err := MainPropFor(mainType, mainValue)
	if err != nil {
		return gear.Item{}, err
	}

	readings := []Reading{{Label: mainType, Value: mainValue}}
	for i := 1; i <= config.SubPropSlots; i++ {
		readings = append(readings, Reading{
			Label: raw[config.RegionPropType(i)],
			Value: raw[config.RegionPropValue(i)],
		})
	}
	props, err := FoldProperties(readings, StrictFor(policy, rarity), loggerManager)
	if err != nil {
		return gear.Item{}, err
	}

	return gear.Item{
		Metadata: gear.Metadata{
			Set:      set,
			Rarity:   rarity,
			Type:     gearType,
			Level:    parseLevel(raw[config.RegionLevel], loggerManager),
			MainProp: mainProp,
			Score:    parseScore(raw[config.RegionScore], loggerManager),
		},
		Properties: props,
	}, nil
}
