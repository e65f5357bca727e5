package gear

import (
	"errors"
	"math"
	"testing"
)

// gear1 из ручной проверки: оружие с атакой в основной характеристике
var gear1 = Properties{}.
	With(FlatAttack, 515).
	With(AttackPercent, 17).
	With(CriticalRate, 6).
	With(CriticalDamage, 15).
	With(Speed, 17)

func TestReduceMainPropZeroesExactlyOne(t *testing.T) {
	full := Properties{}
	for i, s := range AllStats() {
		full = full.With(s, i+1)
	}

	for _, m := range AllMainProps() {
		reduced := ReduceMainProp(full, m)
		for _, s := range AllStats() {
			want := full.Get(s)
			if s == m.Stat() {
				want = 0
			}
			if got := reduced.Get(s); got != want {
				t.Errorf("%s: stat %s got %d, want %d", m, s, got, want)
			}
		}
	}
	// исходный вектор не меняется
	if full.Get(AttackPercent) != 1 {
		t.Error("ReduceMainProp mutated its input")
	}
}

func TestMainPropStatsAreDistinct(t *testing.T) {
	seen := map[Stat]MainProp{}
	for _, m := range AllMainProps() {
		if prev, ok := seen[m.Stat()]; ok {
			t.Errorf("%s and %s share stat %s", prev, m, m.Stat())
		}
		seen[m.Stat()] = m
	}
}

func TestComputedScore(t *testing.T) {
	p := Properties{}.
		With(AttackPercent, 10).
		With(DefensePercent, 1).
		With(LifePercent, 2).
		With(Effectiveness, 3).
		With(EffectResist, 4).
		With(Speed, 5).
		With(CriticalRate, 6).
		With(CriticalDamage, 8).
		With(FlatAttack, 1000)
	want := 10 + 1 + 2 + 3 + 4 + 2*5 + 1.5*6 + 1.125*8
	if got := ComputedScore(p); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComputedScoreGear1(t *testing.T) {
	// 17 + 2*17 + 1.5*6 + 1.125*15
	if got := ComputedScore(gear1); got != 76.875 {
		t.Errorf("got %v, want 76.875", got)
	}
}

func TestHighestScore(t *testing.T) {
	p := Properties{}.With(Speed, 10)
	got, ok := HighestScore(p, 9)
	if !ok || math.Abs(got-70.2) > 1e-9 {
		t.Errorf("level 9: got %v, %v", got, ok)
	}
	if _, ok := HighestScore(p, 4); ok {
		t.Error("level 4 should be undefined")
	}
}

func TestNextCheckpoint(t *testing.T) {
	cases := map[int]int{0: 3, 2: 3, 3: 6, 11: 12, 12: 15, 14: 15}
	for level, want := range cases {
		if got, ok := NextCheckpoint(level); !ok || got != want {
			t.Errorf("level %d: got %d, %v, want %d", level, got, ok, want)
		}
	}
	if _, ok := NextCheckpoint(MaxLevel); ok {
		t.Error("max level has no next checkpoint")
	}
}

func TestClassify(t *testing.T) {
	got := Classify(ReduceMainProp(gear1, MainAttackFlat))
	if !got.Has(Damage) || !got.Has(TankDamage) {
		t.Errorf("gear1: got %s", got)
	}
	if got.Has(Tank) {
		t.Errorf("gear1 should not be tank: %s", got)
	}

	support := Properties{}.With(Speed, 4).With(Effectiveness, 8).With(EffectResist, 6)
	if got := Classify(support); !got.Has(Support) || !got.Has(Tank) || got.Has(Damage) {
		t.Errorf("support: got %s", got)
	}

	if got := Classify(Properties{}.With(Speed, 4).With(CriticalRate, 3)); !got.Empty() {
		t.Errorf("two stats: got %s, want empty", got)
	}
}

func TestParseEnums(t *testing.T) {
	if s, err := ParseSet("SPEED"); err != nil || s != SetSpeed {
		t.Errorf("ParseSet: got %v, %v", s, err)
	}
	if _, err := ParseSet("speed"); !errors.Is(err, ErrUnknownEnumValue) {
		t.Errorf("lowercase set: got %v", err)
	}
	if _, err := ParseSet(""); !errors.Is(err, ErrUnknownEnumValue) {
		t.Errorf("blank set: got %v", err)
	}
	if ty, err := ParseType("SHOES"); err != nil || ty != TypeShoes {
		t.Errorf("ParseType: got %v, %v", ty, err)
	}
	if r, err := ParseRarity(""); err != nil || r != RarityOther {
		t.Errorf("blank rarity: got %v, %v", r, err)
	}
	if _, err := ParseRarity("MYTHIC"); !errors.Is(err, ErrUnknownEnumValue) {
		t.Errorf("unknown rarity: got %v", err)
	}
	if d, err := ParseDecision("STORE"); err != nil || d != Store {
		t.Errorf("ParseDecision: got %v, %v", d, err)
	}

	for _, s := range AllSets() {
		back, err := ParseSet(s.String())
		if err != nil || back != s {
			t.Errorf("set %d: got %v, %v", s, back, err)
		}
	}
	for _, m := range AllMainProps() {
		back, err := ParseMainProp(m.String())
		if err != nil || back != m {
			t.Errorf("main prop %d: got %v, %v", m, back, err)
		}
	}
}

func TestSetPieces(t *testing.T) {
	four := 0
	for _, s := range AllSets() {
		switch s.Pieces() {
		case 4:
			four++
		case 2:
		default:
			t.Errorf("%s: pieces %d", s, s.Pieces())
		}
	}
	if four != 9 {
		t.Errorf("four-piece sets: got %d, want 9", four)
	}
	if SetSpeed.Pieces() != 4 || SetHit.Pieces() != 2 {
		t.Error("unexpected piece count for SPEED or HIT")
	}
}

func TestPropertiesMap(t *testing.T) {
	m := gear1.Map()
	if len(m) != 5 || m["flat_attack"] != 515 || m["speed"] != 17 {
		t.Errorf("got %v", m)
	}
	if Set(99).String() != "UNKNOWN(99)" {
		t.Errorf("out of range name: %s", Set(99))
	}
}
