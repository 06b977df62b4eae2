package creature

// Kind distinguishes the creature flavours exposed to scripts.
type Kind uint8

const (
	KindPlayer Kind = iota + 1
	KindMonster
	KindNPC
)

// String returns the Lua metatable name used for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "Player"
	case KindMonster:
		return "Monster"
	case KindNPC:
		return "Npc"
	default:
		return "Creature"
	}
}

// Creature is any living thing on the map.
type Creature interface {
	ID() uint32
	Name() string
	Kind() Kind
}

// Player is a connected character.
type Player interface {
	Creature
	GUID() uint32
}

// Item is a map or inventory object, such as a corpse or a writable book.
type Item interface {
	ItemID() uint16
	Name() string
}

// Skill identifies a trainable skill. SkillLevel and SkillMagicLevel are the
// two advancement tracks that are not classic skills.
type Skill uint8

const (
	SkillFist Skill = iota
	SkillClub
	SkillSword
	SkillAxe
	SkillDistance
	SkillShield
	SkillFishing
	SkillMagicLevel
	SkillLevel
)

// Skills lists every skill with the name scripts see it under.
func Skills() map[string]Skill {
	return map[string]Skill{
		"SKILL_FIST":     SkillFist,
		"SKILL_CLUB":     SkillClub,
		"SKILL_SWORD":    SkillSword,
		"SKILL_AXE":      SkillAxe,
		"SKILL_DISTANCE": SkillDistance,
		"SKILL_SHIELD":   SkillShield,
		"SKILL_FISHING":  SkillFishing,
		"SKILL_MAGLEVEL": SkillMagicLevel,
		"SKILL_LEVEL":    SkillLevel,
	}
}
