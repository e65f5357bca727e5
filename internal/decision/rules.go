package decision

import (
	"fmt"

	"gearbot/internal/gear"
)

// SetRequirementMet проверяет, что архетипы предмета подходят его комплекту.
// Switch обязан перечислять все комплекты: новый комплект без ветки - паника в тестах полноты
func SetRequirementMet(set gear.Set, a gear.Archetypes) bool {
	switch set {
	case gear.SetAttack, gear.SetRage, gear.SetTorrent, gear.SetLifeSteal, gear.SetDualAttack:
		return a.Has(gear.Damage)
	case gear.SetHealth, gear.SetDefense:
		return !a.Empty() && !a.Has(gear.Damage)
	case gear.SetDestruction, gear.SetCritical, gear.SetCounter, gear.SetPenetration, gear.SetInjury:
		return a.Has(gear.Damage) || a.Has(gear.TankDamage)
	case gear.SetProtection:
		return a.Has(gear.Tank)
	case gear.SetHit, gear.SetResistance, gear.SetSpeed, gear.SetRevenge, gear.SetImmunity:
		return !a.Empty()
	}
	panic(fmt.Sprintf("decision: unhandled set %s", set))
}

// MainPropEligible оружие, шлем и броня проходят всегда. Сапоги скоростного комплекта
// требуют скорость в основной характеристике, остальные ожерелья, кольца и сапоги - не плоскую
func MainPropEligible(set gear.Set, t gear.Type, main gear.MainProp) bool {
	switch t {
	case gear.TypeWeapon, gear.TypeHelmet, gear.TypeArmor:
		return true
	case gear.TypeShoes:
		if set == gear.SetSpeed {
			return main == gear.MainSpeed
		}
		return !main.IsFlat()
	case gear.TypeNecklace, gear.TypeRing:
		return !main.IsFlat()
	}
	panic(fmt.Sprintf("decision: unhandled type %s", t))
}
