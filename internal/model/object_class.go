package model

// ObjectClass определяет класс предмета (generic class в stocking tables).
//
// Phase 6.1: Object Arena.
type ObjectClass int8

const (
	ClassRandom ObjectClass = iota // 0 = "любой класс" в weighted draw
	ClassWeapon
	ClassArmor
	ClassRing
	ClassAmulet
	ClassTool
	ClassFood
	ClassPotion
	ClassScroll
	ClassSpellbook
	ClassWand
	ClassGold
	ClassGem
	ClassRock
)

// String returns human-readable object class name.
func (c ObjectClass) String() string {
	switch c {
	case ClassRandom:
		return "Random"
	case ClassWeapon:
		return "Weapon"
	case ClassArmor:
		return "Armor"
	case ClassRing:
		return "Ring"
	case ClassAmulet:
		return "Amulet"
	case ClassTool:
		return "Tool"
	case ClassFood:
		return "Food"
	case ClassPotion:
		return "Potion"
	case ClassScroll:
		return "Scroll"
	case ClassSpellbook:
		return "Spellbook"
	case ClassWand:
		return "Wand"
	case ClassGold:
		return "Gold"
	case ClassGem:
		return "Gem"
	case ClassRock:
		return "Rock"
	default:
		return "Unknown"
	}
}

// Specific tool types (typ внутри ClassTool), используются в IsContainer.
const (
	TypeSack int32 = iota + 1
	TypeChest
	TypeLamp
	TypePickaxe
	TypeKey
)

// Mergeable возвращает true если два стака этого класса можно сливать.
// Уникальные артефакты и контейнеры не мержатся.
func (c ObjectClass) Mergeable() bool {
	switch c {
	case ClassPotion, ClassScroll, ClassFood, ClassGem, ClassRock, ClassGold:
		return true
	default:
		return false
	}
}
