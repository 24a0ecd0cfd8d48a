package data

import (
	"fmt"
	"log/slog"

	"github.com/ekudrin/depths/internal/model"
)

// --- Shop stocking tables ---

// stockEntry — одна строка weighted table магазина.
//
// Code кодирует, что именно генерировать:
//   - code >= 0: generic object class (model.ObjectClass), конкретный тип
//     выбирается случайно из класса;
//   - code < 0: конкретный тип, закодированный как -(class*100 + typ).
//
// Отрицательная кодировка отличает specific type от class code в одной
// числовой таблице.
type stockEntry struct {
	prob int32 // Вес в weighted draw (суммы по магазину нормируются к 100)
	code int32
}

// SpecificType кодирует (class, typ) в отрицательный stock code.
func SpecificType(class model.ObjectClass, typ int32) int32 {
	return -typeKey(class, typ)
}

// DecodeStockCode разбирает stock code.
// Для class code возвращает (class, -1, false); для specific type —
// (class, typ, true).
func DecodeStockCode(code int32) (model.ObjectClass, int32, bool) {
	if code >= 0 {
		return model.ObjectClass(code), -1, false
	}
	key := -code
	return model.ObjectClass(key / 100), key % 100, true
}

// shopTypeDef — определение типа магазина для Go-литералов.
type shopTypeDef struct {
	shopType model.ShopType
	name     string // "general store", "armory", ...
	entries  []stockEntry
}

// ShopTypeTable maps shop type → definition.
// Заполняется LoadShopTypes.
var ShopTypeTable map[model.ShopType]*shopTypeDef

// LoadShopTypes строит индекс типов магазинов и валидирует таблицы весов.
func LoadShopTypes() error {
	ShopTypeTable = make(map[model.ShopType]*shopTypeDef, len(shopTypeDefs))
	for i := range shopTypeDefs {
		def := &shopTypeDefs[i]

		var total int32
		for _, e := range def.entries {
			if e.prob <= 0 {
				return fmt.Errorf("shop %q: non-positive probability %d", def.name, e.prob)
			}
			total += e.prob
		}
		if total != 100 {
			return fmt.Errorf("shop %q: probabilities sum to %d, want 100", def.name, total)
		}

		ShopTypeTable[def.shopType] = def
	}
	slog.Info("loaded shop types", "count", len(ShopTypeTable))
	return nil
}

// ShopName возвращает вывеску магазина ("" если тип неизвестен).
func ShopName(t model.ShopType) string {
	def := ShopTypeTable[t]
	if def == nil {
		return ""
	}
	return def.name
}

// StockProbs — exported view одной строки stocking table.
type StockProbs struct {
	Prob int32
	Code int32
}

// StockTable возвращает weighted table магазина (nil если тип неизвестен).
func StockTable(t model.ShopType) []StockProbs {
	def := ShopTypeTable[t]
	if def == nil {
		return nil
	}
	out := make([]StockProbs, len(def.entries))
	for i, e := range def.entries {
		out[i] = StockProbs{Prob: e.prob, Code: e.code}
	}
	return out
}

// shopTypeDefs — статические weighted tables по типам магазинов.
// Веса каждой таблицы в сумме дают 100.
var shopTypeDefs = []shopTypeDef{
	{
		shopType: model.ShopGeneral,
		name:     "general store",
		entries: []stockEntry{
			{44, int32(model.ClassRandom)},
			{10, int32(model.ClassFood)},
			{10, int32(model.ClassTool)},
			{9, int32(model.ClassScroll)},
			{9, int32(model.ClassPotion)},
			{7, int32(model.ClassWeapon)},
			{6, int32(model.ClassArmor)},
			{5, int32(model.ClassGem)},
		},
	},
	{
		shopType: model.ShopArmor,
		name:     "armory",
		entries: []stockEntry{
			{90, int32(model.ClassArmor)},
			{10, int32(model.ClassWeapon)},
		},
	},
	{
		shopType: model.ShopScroll,
		name:     "scroll shop",
		entries: []stockEntry{
			{90, int32(model.ClassScroll)},
			{10, int32(model.ClassSpellbook)},
		},
	},
	{
		shopType: model.ShopPotion,
		name:     "potion shop",
		entries: []stockEntry{
			{100, int32(model.ClassPotion)},
		},
	},
	{
		shopType: model.ShopWeapon,
		name:     "weapon shop",
		entries: []stockEntry{
			{90, int32(model.ClassWeapon)},
			{10, int32(model.ClassArmor)},
		},
	},
	{
		shopType: model.ShopFood,
		name:     "delicatessen",
		entries: []stockEntry{
			{83, int32(model.ClassFood)},
			{5, SpecificType(model.ClassPotion, 5)}, // potion of water
			{12, SpecificType(model.ClassFood, 2)},  // apple
		},
	},
	{
		shopType: model.ShopRing,
		name:     "jewelers",
		entries: []stockEntry{
			{85, int32(model.ClassRing)},
			{10, int32(model.ClassGem)},
			{5, int32(model.ClassAmulet)},
		},
	},
	{
		shopType: model.ShopWand,
		name:     "wand shop",
		entries: []stockEntry{
			{100, int32(model.ClassWand)},
		},
	},
	{
		shopType: model.ShopTool,
		name:     "hardware store",
		entries: []stockEntry{
			{100, int32(model.ClassTool)},
		},
	},
	{
		shopType: model.ShopBook,
		name:     "bookstore",
		entries: []stockEntry{
			{90, int32(model.ClassSpellbook)},
			{10, int32(model.ClassScroll)},
		},
	},
}
