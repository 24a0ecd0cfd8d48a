package data

import (
	"fmt"
	"log/slog"

	"github.com/ekudrin/depths/internal/model"
)

// objectDef — определение типа предмета для Go-литералов.
type objectDef struct {
	class model.ObjectClass
	typ   int32
	name  string
	cost  int64 // Базовая цена за единицу
}

func typeKey(class model.ObjectClass, typ int32) int32 {
	return int32(class)*100 + typ
}

// ObjectDefTable maps (class, typ) key → definition.
// Заполняется LoadObjectDefs.
var ObjectDefTable map[int32]*objectDef

// LoadObjectDefs строит индекс определений предметов.
func LoadObjectDefs() error {
	ObjectDefTable = make(map[int32]*objectDef, len(objectDefs))
	for i := range objectDefs {
		def := &objectDefs[i]
		key := typeKey(def.class, def.typ)
		if _, dup := ObjectDefTable[key]; dup {
			return fmt.Errorf("duplicate object def: class=%v typ=%d", def.class, def.typ)
		}
		ObjectDefTable[key] = def
	}
	slog.Info("loaded object defs", "count", len(ObjectDefTable))
	return nil
}

// CostOf возвращает базовую цену за единицу для типа предмета.
// Неизвестный тип стоит 1 (минимальная цена, см. game/shop pricing).
func CostOf(class model.ObjectClass, typ int32) int64 {
	def := ObjectDefTable[typeKey(class, typ)]
	if def == nil {
		return 1
	}
	return def.cost
}

// NameOf возвращает название типа предмета ("" если тип неизвестен).
func NameOf(class model.ObjectClass, typ int32) string {
	def := ObjectDefTable[typeKey(class, typ)]
	if def == nil {
		return ""
	}
	return def.name
}

// TypesOfClass возвращает все specific types класса в порядке объявления
// (порядок значим: stocking draw детерминирован level seed'ом).
func TypesOfClass(class model.ObjectClass) []int32 {
	var out []int32
	for i := range objectDefs {
		if objectDefs[i].class == class {
			out = append(out, objectDefs[i].typ)
		}
	}
	return out
}

// StockableClasses — классы, участвующие в draw "random class" при stocking,
// в фиксированном порядке.
var StockableClasses = []model.ObjectClass{
	model.ClassWeapon, model.ClassArmor, model.ClassRing, model.ClassAmulet,
	model.ClassTool, model.ClassFood, model.ClassPotion, model.ClassScroll,
	model.ClassSpellbook, model.ClassWand, model.ClassGem,
}

// objectDefs — статическая таблица типов предметов.
var objectDefs = []objectDef{
	// Weapons
	{model.ClassWeapon, 1, "dagger", 4},
	{model.ClassWeapon, 2, "short sword", 10},
	{model.ClassWeapon, 3, "long sword", 15},
	{model.ClassWeapon, 4, "two-handed sword", 50},
	{model.ClassWeapon, 5, "mace", 5},
	{model.ClassWeapon, 6, "battle axe", 40},
	{model.ClassWeapon, 7, "spear", 3},
	{model.ClassWeapon, 8, "crossbow", 40},

	// Armor
	{model.ClassArmor, 1, "leather armor", 5},
	{model.ClassArmor, 2, "ring mail", 100},
	{model.ClassArmor, 3, "chain mail", 75},
	{model.ClassArmor, 4, "plate mail", 600},
	{model.ClassArmor, 5, "small shield", 3},
	{model.ClassArmor, 6, "large shield", 10},
	{model.ClassArmor, 7, "helmet", 10},
	{model.ClassArmor, 8, "pair of boots", 8},

	// Rings
	{model.ClassRing, 1, "ring of protection", 100},
	{model.ClassRing, 2, "ring of stealth", 100},
	{model.ClassRing, 3, "ring of hunger", 100},
	{model.ClassRing, 4, "ring of levitation", 200},
	{model.ClassRing, 5, "ring of conflict", 300},

	// Amulets
	{model.ClassAmulet, 1, "amulet of life saving", 150},
	{model.ClassAmulet, 2, "amulet of strangulation", 150},
	{model.ClassAmulet, 3, "amulet of restful sleep", 150},

	// Tools
	{model.ClassTool, model.TypeSack, "sack", 2},
	{model.ClassTool, model.TypeChest, "chest", 16},
	{model.ClassTool, model.TypeLamp, "oil lamp", 10},
	{model.ClassTool, model.TypePickaxe, "pick-axe", 50},
	{model.ClassTool, model.TypeKey, "skeleton key", 10},

	// Food
	{model.ClassFood, 1, "food ration", 45},
	{model.ClassFood, 2, "apple", 7},
	{model.ClassFood, 3, "pancake", 15},
	{model.ClassFood, 4, "fortune cookie", 7},
	{model.ClassFood, 5, "tin of spinach", 5},

	// Potions
	{model.ClassPotion, 1, "potion of healing", 20},
	{model.ClassPotion, 2, "potion of extra healing", 100},
	{model.ClassPotion, 3, "potion of speed", 50},
	{model.ClassPotion, 4, "potion of object detection", 150},
	{model.ClassPotion, 5, "potion of water", 100},

	// Scrolls
	{model.ClassScroll, 1, "scroll of identify", 20},
	{model.ClassScroll, 2, "scroll of enchant weapon", 60},
	{model.ClassScroll, 3, "scroll of enchant armor", 80},
	{model.ClassScroll, 4, "scroll of remove curse", 80},
	{model.ClassScroll, 5, "scroll of teleportation", 100},
	{model.ClassScroll, 6, "scroll of light", 50},

	// Spellbooks
	{model.ClassSpellbook, 1, "spellbook of force bolt", 100},
	{model.ClassSpellbook, 2, "spellbook of detect monsters", 100},
	{model.ClassSpellbook, 3, "spellbook of healing", 100},
	{model.ClassSpellbook, 4, "spellbook of identify", 300},

	// Wands
	{model.ClassWand, 1, "wand of light", 100},
	{model.ClassWand, 2, "wand of striking", 150},
	{model.ClassWand, 3, "wand of digging", 150},
	{model.ClassWand, 4, "wand of fire", 175},
	{model.ClassWand, 5, "wand of wishing", 500},

	// Gems (настоящие)
	{model.ClassGem, 1, "diamond", 4000},
	{model.ClassGem, 2, "ruby", 3500},
	{model.ClassGem, 3, "sapphire", 3000},
	{model.ClassGem, 4, "emerald", 2500},
	{model.ClassGem, 5, "amethyst", 600},

	// Glass (фальшивые камни; см. DecoyGemPrices)
	{model.ClassGem, 20, "worthless piece of white glass", 6},
	{model.ClassGem, 21, "worthless piece of red glass", 6},
	{model.ClassGem, 22, "worthless piece of blue glass", 6},
	{model.ClassGem, 23, "worthless piece of green glass", 6},

	// Rocks
	{model.ClassRock, 1, "rock", 0},
	{model.ClassRock, 2, "luckstone", 60},
}

// DecoyGemPrices — правдоподобные "цены настоящих камней", подставляемые
// вместо реальной цены неопознанного камня. Выбор детерминирован per-game
// seed'ом и типом предмета (game/shop pricing), а не живым RNG.
var DecoyGemPrices = []int64{500, 600, 800, 1000, 1500, 2000, 2500, 3000, 3500, 4000}
