package gear

// Stat одно из 11 измерений вектора характеристик
type Stat int

const (
	AttackPercent Stat = iota
	FlatAttack
	LifePercent
	FlatLife
	DefensePercent
	FlatDefense
	CriticalRate
	CriticalDamage
	Speed
	EffectResist
	Effectiveness
	StatCount
)

var statNames = [StatCount]string{
	"attack_percent", "flat_attack", "life_percent", "flat_life", "defense_percent", "flat_defense",
	"critical_rate", "critical_damage", "speed", "effect_resist", "effectiveness",
}

func (s Stat) String() string { return enumName(statNames[:], int(s)) }

func AllStats() []Stat { return enumValues[Stat](int(StatCount)) }

// Properties вектор характеристик. Значение, методы возвращают копии
type Properties [StatCount]int

func (p Properties) Get(s Stat) int { return p[s] }

// With копия вектора с измененным измерением
func (p Properties) With(s Stat, v int) Properties {
	p[s] = v
	return p
}

// NonZero число ненулевых измерений
func (p Properties) NonZero() int {
	n := 0
	for _, v := range p {
		if v != 0 {
			n++
		}
	}
	return n
}

// CountPositive сколько из перечисленных измерений больше нуля
func (p Properties) CountPositive(stats ...Stat) int {
	n := 0
	for _, s := range stats {
		if p[s] > 0 {
			n++
		}
	}
	return n
}

// Map представление для журнала: только ненулевые измерения
func (p Properties) Map() map[string]int {
	out := make(map[string]int)
	for s, v := range p {
		if v != 0 {
			out[Stat(s).String()] = v
		}
	}
	return out
}

// Metadata то, что читается с экрана помимо характеристик
type Metadata struct {
	Set      Set
	Rarity   Rarity
	Type     Type
	Level    int
	MainProp MainProp
	Score    int
}

// Item распознанный предмет. Строится заново на каждый кадр и не меняется
type Item struct {
	Metadata
	Properties Properties
}

// Reduced вектор без вклада основной характеристики
func (i Item) Reduced() Properties {
	return ReduceMainProp(i.Properties, i.MainProp)
}
