package data

import (
	"log/slog"

	"github.com/ekudrin/depths/internal/model"
)

// --- Shopkeeper name lists ---

// ShopkeeperNameTable maps shop type → name list.
// Имя выбирается детерминированно по координате уровня
// (game/shop.AssignShopkeeperName), поэтому порядок в списках значим.
var ShopkeeperNameTable map[model.ShopType][]string

// genericShopkeeperNames — fallback, когда список типа исчерпан или пуст.
var genericShopkeeperNames = []string{
	"Ormuz", "Thaldo", "Wessel", "Kargath", "Brinn",
	"Oldun", "Merrek", "Savro", "Talvi", "Undek",
}

// LoadShopkeeperNames строит таблицу имён shopkeeper'ов.
func LoadShopkeeperNames() error {
	ShopkeeperNameTable = map[model.ShopType][]string{
		model.ShopGeneral: {
			"Sednaz", "Kopasker", "Norgel", "Vormund", "Etrapp",
			"Dulcaster", "Imbry", "Ollos",
		},
		model.ShopArmor: {
			"Grimmond", "Stahlgar", "Berrot", "Hauberd", "Ketlin",
		},
		model.ShopScroll: {
			"Vellamin", "Pergor", "Inkram", "Scribben", "Folius",
		},
		model.ShopPotion: {
			"Fialle", "Dramgut", "Elixa", "Tinctor", "Breww",
		},
		model.ShopWeapon: {
			"Skarn", "Bladvik", "Tempra", "Forgel", "Hiltun",
		},
		model.ShopFood: {
			"Maizel", "Crumbold", "Savorin", "Pantler", "Groatz",
		},
		model.ShopRing: {
			"Gemmel", "Carattus", "Opaline", "Facetta", "Bandric",
		},
		model.ShopWand: {
			"Zapricus", "Veldrun", "Corewen", "Fizzben", "Arcuno",
		},
		model.ShopTool: {
			"Spannek", "Wrenchard", "Cogsley", "Mallet", "Ferrule",
		},
		model.ShopBook: {
			"Tomus", "Quillard", "Bindwell", "Leafric", "Codexa",
		},
	}

	var total int
	for _, names := range ShopkeeperNameTable {
		total += len(names)
	}
	slog.Info("loaded shopkeeper names", "shop_types", len(ShopkeeperNameTable), "names", total)
	return nil
}

// ShopkeeperName возвращает имя по типу магазина и индексу.
// Индекс за пределами списка переходит на generic-имена; дальше имена
// зацикливаются (в одной игре коллизии маловероятны).
func ShopkeeperName(t model.ShopType, idx int32) string {
	names := ShopkeeperNameTable[t]
	if idx >= 0 && int(idx) < len(names) {
		return names[idx]
	}

	overflow := int(idx) - len(names)
	if overflow < 0 {
		overflow = 0
	}
	return genericShopkeeperNames[overflow%len(genericShopkeeperNames)]
}
