package gear

import "strings"

// Archetype роль, которую поддерживает набор характеристик
type Archetype int

const (
	Damage Archetype = iota
	TankDamage
	Tank
	Support
	archetypeCount
)

var archetypeNames = [archetypeCount]string{"DAMAGE", "TANK_DAMAGE", "TANK", "SUPPORT"}

func (a Archetype) String() string { return enumName(archetypeNames[:], int(a)) }

// archetypeMinStats сколько характерных измерений должно быть положительными
const archetypeMinStats = 3

var archetypeStats = [archetypeCount][]Stat{
	Damage:     {AttackPercent, CriticalRate, CriticalDamage, Speed, FlatAttack},
	TankDamage: {AttackPercent, CriticalRate, CriticalDamage, Speed, LifePercent, FlatLife, DefensePercent, FlatDefense},
	Tank:       {Speed, LifePercent, FlatLife, DefensePercent, FlatDefense, Effectiveness, EffectResist},
	Support:    {Speed, LifePercent, DefensePercent, Effectiveness, EffectResist},
}

// Archetypes множество архетипов, битовая маска
type Archetypes uint8

func (s Archetypes) Has(a Archetype) bool { return s&(1<<a) != 0 }

func (s Archetypes) Empty() bool { return s == 0 }

func (s Archetypes) String() string {
	var names []string
	for a := Archetype(0); a < archetypeCount; a++ {
		if s.Has(a) {
			names = append(names, a.String())
		}
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Classify предмет может подходить под несколько архетипов сразу или ни под один
func Classify(p Properties) Archetypes {
	var out Archetypes
	for a, stats := range archetypeStats {
		if p.CountPositive(stats...) >= archetypeMinStats {
			out |= 1 << a
		}
	}
	return out
}
