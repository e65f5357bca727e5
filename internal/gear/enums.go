package gear

import (
	"errors"
	"fmt"
)

var ErrUnknownEnumValue = errors.New("unknown enum value")

// Set комплект снаряжения
type Set int

const (
	SetAttack Set = iota
	SetDestruction
	SetDefense
	SetHealth
	SetHit
	SetResistance
	SetCritical
	SetSpeed
	SetRevenge
	SetLifeSteal
	SetCounter
	SetDualAttack
	SetImmunity
	SetRage
	SetPenetration
	SetInjury
	SetProtection
	SetTorrent
	setCount
)

var setNames = [setCount]string{
	"ATTACK", "DESTRUCTION", "DEFENSE", "HEALTH", "HIT", "RESISTANCE", "CRITICAL", "SPEED", "REVENGE",
	"LIFE_STEAL", "COUNTER", "DUAL_ATTACK", "IMMUNITY", "RAGE", "PENETRATION", "INJURY", "PROTECTION", "TORRENT",
}

var setPieces = [setCount]int{4, 4, 2, 2, 2, 2, 2, 4, 4, 4, 4, 2, 2, 4, 2, 4, 4, 2}

func (s Set) String() string { return enumName(setNames[:], int(s)) }

// Pieces сколько предметов нужно для бонуса комплекта: 4 или 2
func (s Set) Pieces() int {
	if s < 0 || s >= setCount {
		return 0
	}
	return setPieces[s]
}

func AllSets() []Set { return enumValues[Set](int(setCount)) }

func ParseSet(label string) (Set, error) { return parseEnum[Set]("set", setNames[:], label) }

// Type тип предмета (слот)
type Type int

const (
	TypeWeapon Type = iota
	TypeHelmet
	TypeArmor
	TypeNecklace
	TypeRing
	TypeShoes
	typeCount
)

var typeNames = [typeCount]string{"WEAPON", "HELMET", "ARMOR", "NECKLACE", "RING", "SHOES"}

func (t Type) String() string { return enumName(typeNames[:], int(t)) }

func AllTypes() []Type { return enumValues[Type](int(typeCount)) }

func ParseType(label string) (Type, error) { return parseEnum[Type]("type", typeNames[:], label) }

// Rarity редкость. Other - всё, что не Legend и не Hero
type Rarity int

const (
	RarityLegend Rarity = iota
	RarityHero
	RarityOther
	rarityCount
)

var rarityNames = [rarityCount]string{"LEGEND", "HERO", "OTHER"}

func (r Rarity) String() string { return enumName(rarityNames[:], int(r)) }

func AllRarities() []Rarity { return enumValues[Rarity](int(rarityCount)) }

// ParseRarity пустая строка - Other: у низких редкостей значка может не быть
func ParseRarity(label string) (Rarity, error) {
	if label == "" {
		return RarityOther, nil
	}
	return parseEnum[Rarity]("rarity", rarityNames[:], label)
}

// MainProp основная характеристика
type MainProp int

const (
	MainAttackPercent MainProp = iota
	MainLifePercent
	MainDefensePercent
	MainCriticalRate
	MainCriticalDamage
	MainSpeed
	MainEffectResist
	MainEffectiveness
	MainAttackFlat
	MainLifeFlat
	MainDefenseFlat
	mainPropCount
)

var mainPropNames = [mainPropCount]string{
	"ATK_PERCENT", "LIFE_PERCENT", "DEF_PERCENT", "CRI_RATE", "CRI_DMG", "SPEED",
	"EFFECT_RESISTANCE", "EFFECT_HIT", "ATK_FLAT", "LIFE_FLAT", "DEF_FLAT",
}

var mainPropStats = [mainPropCount]Stat{
	AttackPercent, LifePercent, DefensePercent, CriticalRate, CriticalDamage, Speed,
	EffectResist, Effectiveness, FlatAttack, FlatLife, FlatDefense,
}

func (m MainProp) String() string { return enumName(mainPropNames[:], int(m)) }

// Stat измерение вектора характеристик, которое занимает основная характеристика
func (m MainProp) Stat() Stat { return mainPropStats[m] }

func (m MainProp) IsFlat() bool {
	return m == MainAttackFlat || m == MainLifeFlat || m == MainDefenseFlat
}

func AllMainProps() []MainProp { return enumValues[MainProp](int(mainPropCount)) }

func ParseMainProp(label string) (MainProp, error) {
	return parseEnum[MainProp]("main property", mainPropNames[:], label)
}

// Decision действие над предметом
type Decision int

const (
	Upgrade Decision = iota
	Store
	Sell
	Extract
	decisionCount
)

var decisionNames = [decisionCount]string{"UPGRADE", "STORE", "SELL", "EXTRACT"}

func (d Decision) String() string { return enumName(decisionNames[:], int(d)) }

func AllDecisions() []Decision { return enumValues[Decision](int(decisionCount)) }

func ParseDecision(label string) (Decision, error) {
	return parseEnum[Decision]("decision", decisionNames[:], label)
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("UNKNOWN(%d)", i)
	}
	return names[i]
}

func enumValues[T ~int](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(i)
	}
	return out
}

func parseEnum[T ~int](kind string, names []string, label string) (T, error) {
	for i, name := range names {
		if name == label {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownEnumValue, kind, label)
}
