package shop

import (
	"hash/fnv"

	"github.com/ekudrin/depths/internal/data"
	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

// Pricing engine. Все вычисления целочисленные; buy и sell цены округляются
// независимо, минимум 1.

// BuyPrice возвращает цену, которую shopkeeper просит с игрока за единицу.
//
// Составляющие (в порядке применения):
//   - базовая цена типа (для неопознанных камней — decoy-подстановка);
//   - x4 для уникальных артефактов;
//   - харизма-множитель;
//   - +1/3 наценки гнева, пока у shopkeeper'а стоит surcharge флаг;
//   - +1/3 если игрок выглядит доверчиво (глупый колпак, novice tourist).
func (s *Session) BuyPrice(obj *model.Object, shk *model.ShopkeeperExt) int64 {
	price := s.unitCost(obj)

	if obj.IsArtifact() {
		price *= 4
	}

	price = chargeForCharisma(price, s.player.Charisma())

	if shk != nil && shk.HasSurcharge() {
		price += price / 3
	}
	if s.player.Gullible() {
		price += price / 3
	}

	if price < 1 {
		price = 1
	}
	return price
}

// SellPrice возвращает цену, которую shopkeeper предлагает игроку за единицу
// при продаже магазину. Магазин покупает за половину базовой цены; артефакт
// дорожает вчетверо, но и эта цена делится пополам.
func (s *Session) SellPrice(obj *model.Object, shk *model.ShopkeeperExt) int64 {
	price := s.unitCost(obj)

	if obj.IsArtifact() {
		price *= 4
	}
	price /= 2

	// Рассерженный торговец скупится сильнее
	if shk != nil && shk.HasSurcharge() {
		price -= price / 4
	}

	if price < 1 {
		price = 1
	}
	return price
}

// unitCost возвращает базовую стоимость единицы с учётом decoy-механизма:
// неопознанный камень получает стабильную в рамках игры фальшивую цену.
func (s *Session) unitCost(obj *model.Object) int64 {
	if obj.Class() == model.ClassGem && !obj.IsIdentified() {
		return decoyGemPrice(s.decoySeed, obj.Type())
	}
	return obj.BaseCost()
}

// decoyGemPrice — чистая функция подстановки цены для неопознанных камней.
// Seed фиксирован на игру и комбинируется с типом предмета: одна и та же
// стекляшка стоит одинаково всю игру, но по-разному в разных играх.
// Живой gameplay RNG не затрагивается.
func decoyGemPrice(seed uint64, typ int32) int64 {
	h := fnv.New64a()
	var buf [12]byte
	for i := range 8 {
		buf[i] = byte(seed >> (8 * i))
	}
	for i := range 4 {
		buf[8+i] = byte(uint32(typ) >> (8 * i))
	}
	h.Write(buf[:])
	prices := data.DecoyGemPrices
	return prices[h.Sum64()%uint64(len(prices))]
}

// chargeForCharisma применяет харизма-множитель покупной цены.
// Проверки идут от крайних значений к середине.
func chargeForCharisma(price int64, charisma int8) int64 {
	switch {
	case charisma >= 18:
		return price / 2
	case charisma >= 17:
		return price * 2 / 3
	case charisma >= 15:
		return price * 3 / 4
	case charisma < 6:
		return price * 2
	case charisma < 8:
		return price * 3 / 2
	case charisma < 11:
		return price * 4 / 3
	default:
		return price
	}
}

// rileEntry поднимает цену записи наценкой гнева: p += (p+2)/3.
func rileEntry(price int64) int64 {
	return price + (price+2)/3
}

// pacifyEntry снимает наценку гнева: p -= (p+3)/4.
// Для цены, поднятой rileEntry, восстанавливает исходное значение.
func pacifyEntry(price int64) int64 {
	return price - (price+3)/4
}

// ShopItemCost возвращает полную стоимость предмета для стороннего кода
// (инвентарный экран, chat). Для предмета в ledger — сумма записи; иначе
// текущая котировка покупки у resident shopkeeper'а (0 если предмет
// не в магазине).
func (s *Session) ShopItemCost(obj *model.Object) int64 {
	if obj == nil {
		return 0
	}

	if mon := s.shopkeeperOf(obj.ObjectID()); mon != nil {
		shk := mon.Shopkeeper()
		if idx := shk.FindBill(obj.ObjectID()); idx >= 0 {
			entry, err := shk.BillAt(idx)
			if err == nil {
				return entry.Total()
			}
		}
	}

	placement, ok := s.arena.PlacementOf(obj.ObjectID())
	if !ok || placement.List != world.ListFloor {
		return 0
	}
	level := s.levels[placement.LevelID]
	if level == nil {
		return 0
	}
	room := level.ShopAt(placement.Pos)
	mon := s.residentShopkeeper(room)
	if mon == nil {
		return 0
	}
	return s.BuyPrice(obj, mon.Shopkeeper()) * int64(obj.Quantity())
}

// PriceQuote озвучивает котировку предмета, лежащего в магазине.
func (s *Session) PriceQuote(obj *model.Object, mon *model.Monster) {
	if obj == nil || mon == nil || !mon.IsShopkeeper() {
		return
	}
	shk := mon.Shopkeeper()
	price := s.BuyPrice(obj, shk) * int64(obj.Quantity())
	name := data.NameOf(obj.Class(), obj.Type())
	if obj.Quantity() > 1 {
		s.msg.Say("%s will cost you %s (%d per unit).", name, gold(price), s.BuyPrice(obj, shk))
	} else {
		s.msg.Say("%s, price %s.", name, gold(price))
	}
}
