package creature

// CombatType is a bit flag naming the element of a damage component.
type CombatType uint16

const (
	CombatNone      CombatType = 0
	CombatPhysical  CombatType = 1 << 0
	CombatEnergy    CombatType = 1 << 1
	CombatEarth     CombatType = 1 << 2
	CombatFire      CombatType = 1 << 3
	CombatUndefined CombatType = 1 << 4
	CombatLifeDrain CombatType = 1 << 5
	CombatManaDrain CombatType = 1 << 6
	CombatHealing   CombatType = 1 << 7
	CombatDrown     CombatType = 1 << 8
	CombatIce       CombatType = 1 << 9
	CombatHoly      CombatType = 1 << 10
	CombatDeath     CombatType = 1 << 11
)

// CombatTypes lists every combat type with its script constant name.
func CombatTypes() map[string]CombatType {
	return map[string]CombatType{
		"COMBAT_NONE":            CombatNone,
		"COMBAT_PHYSICALDAMAGE":  CombatPhysical,
		"COMBAT_ENERGYDAMAGE":    CombatEnergy,
		"COMBAT_EARTHDAMAGE":     CombatEarth,
		"COMBAT_FIREDAMAGE":      CombatFire,
		"COMBAT_UNDEFINEDDAMAGE": CombatUndefined,
		"COMBAT_LIFEDRAIN":       CombatLifeDrain,
		"COMBAT_MANADRAIN":       CombatManaDrain,
		"COMBAT_HEALING":         CombatHealing,
		"COMBAT_DROWNDAMAGE":     CombatDrown,
		"COMBAT_ICEDAMAGE":       CombatIce,
		"COMBAT_HOLYDAMAGE":      CombatHoly,
		"COMBAT_DEATHDAMAGE":     CombatDeath,
	}
}

// DamageOrigin records what produced a damage record.
type DamageOrigin uint8

const (
	OriginNone DamageOrigin = iota
	OriginCondition
	OriginSpell
	OriginMelee
	OriginRanged
)

// DamageOrigins lists every origin with its script constant name.
func DamageOrigins() map[string]DamageOrigin {
	return map[string]DamageOrigin{
		"ORIGIN_NONE":      OriginNone,
		"ORIGIN_CONDITION": OriginCondition,
		"ORIGIN_SPELL":     OriginSpell,
		"ORIGIN_MELEE":     OriginMelee,
		"ORIGIN_RANGED":    OriginRanged,
	}
}

// DamageComponent is one typed magnitude. Negative values hurt, positive heal.
type DamageComponent struct {
	Value int32
	Type  CombatType
}

// CombatDamage is the in-flight damage record between computation and
// application. Health and mana change hooks may rewrite it.
type CombatDamage struct {
	Primary   DamageComponent
	Secondary DamageComponent
	Origin    DamageOrigin
}

// Healing reports whether the primary component heals.
func (d CombatDamage) Healing() bool {
	return d.Primary.Type == CombatHealing
}
