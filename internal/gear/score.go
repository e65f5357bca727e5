package gear

// MaxLevel последний уровень усиления
const MaxLevel = 15

// Checkpoints уровни, на которых открываются новые дополнительные характеристики
var Checkpoints = []int{3, 6, 9, 12, 15}

// ReduceMainProp обнуляет ровно одно измерение, занятое основной характеристикой
func ReduceMainProp(p Properties, main MainProp) Properties {
	return p.With(main.Stat(), 0)
}

// ComputedScore взвешенная сумма процентных характеристик
func ComputedScore(p Properties) float64 {
	return float64(p[AttackPercent]+p[DefensePercent]+p[LifePercent]+p[Effectiveness]+p[EffectResist]) +
		2*float64(p[Speed]) +
		1.5*float64(p[CriticalRate]) +
		1.125*float64(p[CriticalDamage])
}

var highestScoreBonus = map[int]float64{6: 24, 9: 16, 12: 8, 15: 0}

// HighestScore оценка сверху для предмета, доведенного до 15 уровня.
// Определена только для уровней 6, 9, 12 и 15
func HighestScore(p Properties, level int) (float64, bool) {
	bonus, ok := highestScoreBonus[level]
	if !ok {
		return 0, false
	}
	return (ComputedScore(p)+bonus)*1.2 + 27, true
}

// NextCheckpoint ближайший контрольный уровень выше level
func NextCheckpoint(level int) (int, bool) {
	for _, c := range Checkpoints {
		if c > level {
			return c, true
		}
	}
	return 0, false
}
