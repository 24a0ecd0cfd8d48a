package shop

import (
	"github.com/ekudrin/depths/internal/data"
	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

// Event surface: вызывается обработчиками pickup/drop/kick/throw/use,
// когда предмет пересекает границу магазина или меняет состояние.

// PlayerEntersShop обрабатывает вход игрока в магазин: приветствие
// и обновление customer memory.
func (s *Session) PlayerEntersShop(room *model.Room) {
	mon := s.residentShopkeeper(room)
	if mon == nil {
		return
	}
	shk := mon.Shopkeeper()

	returning := shk.Customer() == s.player.Name()
	shk.SetCustomer(s.player.Name())

	if !mon.IsPeaceful() {
		s.msg.Say("%s glares at you.", mon.Name())
		return
	}
	if returning && shk.VisitCount() > 1 {
		s.msg.Say("%s says: \"Welcome back to %s's %s!\"",
			mon.Name(), mon.Name(), data.ShopName(room.ShopType()))
	} else {
		s.msg.Say("%s says: \"Welcome to %s's %s!\"",
			mon.Name(), mon.Name(), data.ShopName(room.ShopType()))
	}
}

// PlayerLeavesShop обрабатывает выход игрока за границы магазина.
// Неоплаченный долг превращается в кражу; без долга ledger закрывается
// (неизрасходованный кредит при этом пропадает — о чём игрока предупреждают).
func (s *Session) PlayerLeavesShop(room *model.Room) {
	mon := s.residentShopkeeper(room)
	if mon == nil {
		return
	}
	shk := mon.Shopkeeper()

	if shk.OutstandingBilled()+shk.Debit() > 0 {
		s.DetectTheft(mon)
		return
	}

	if shk.Credit() > 0 {
		s.msg.Say("%s says: \"Your %s credit is forfeit.\"", mon.Name(), gold(shk.Credit()))
	}
	s.SetPaid(mon)
}

// PickupInShop обрабатывает поднятие предмета с пола магазина:
// товар регистрируется в ledger'е, контейнер биллится целиком, а его
// содержимое получает no-charge маркер; золото магазина становится loan.
func (s *Session) PickupInShop(obj *model.Object, room *model.Room) {
	mon := s.residentShopkeeper(room)
	if mon == nil || obj == nil {
		return
	}

	if obj.Class() == model.ClassGold {
		s.CostlyGold(mon, int64(obj.Quantity()))
		return
	}

	s.AddToBill(obj, mon, false)

	if obj.IsContainer() {
		for _, id := range obj.Contents() {
			if content := s.arena.Get(id); content != nil && !content.IsUnpaid() {
				content.SetNoCharge(true)
			}
		}
	}
}

// DropInShop обрабатывает возврат предмета на пол магазина.
// Неоплаченный товар снимается с bill; собственный предмет игрока магазин
// немедленно выкупает по sell price, если у торговца хватает денег в кассе.
func (s *Session) DropInShop(obj *model.Object, room *model.Room) {
	mon := s.residentShopkeeper(room)
	if mon == nil || obj == nil {
		return
	}
	shk := mon.Shopkeeper()

	if obj.IsContainer() {
		for _, id := range obj.Contents() {
			if content := s.arena.Get(id); content != nil {
				content.SetNoCharge(false)
			}
		}
	}

	if obj.IsUnpaid() {
		s.RemoveFromBill(obj, mon)
		s.msg.Say("%s nods as you return the goods.", mon.Name())
		return
	}
	if obj.IsNoCharge() {
		obj.SetNoCharge(false)
		return
	}
	if obj.Class() == model.ClassGold {
		return
	}

	// Предложение продажи: товар игрока на полу магазина
	offer := s.SellPrice(obj, shk) * int64(obj.Quantity())
	if offer <= 0 {
		s.msg.Say("%s shows no interest in your %s.",
			mon.Name(), data.NameOf(obj.Class(), obj.Type()))
		return
	}
	if mon.Gold() < offer {
		s.msg.Say("%s cannot afford your %s and offers store credit of %s.",
			mon.Name(), data.NameOf(obj.Class(), obj.Type()), gold(offer))
		shk.AddCredit(offer)
		return
	}

	mon.AddGold(-offer)
	if err := s.player.AddGold(offer); err != nil {
		s.impossible("paying player for sold item: %v", err)
		mon.AddGold(offer)
		return
	}
	s.msg.Say("%s pays you %s.", mon.Name(), gold(offer))
}

// UseUp обрабатывает полное потребление предмета на месте (съеден, выпит,
// прочитан свиток). Живая запись превращается в used-up remnant; небиллённый
// товар регистрируется сразу как remnant. Объект освобождает caller.
func (s *Session) UseUp(obj *model.Object, room *model.Room) {
	mon := s.residentShopkeeper(room)
	if mon == nil || obj == nil {
		return
	}
	shk := mon.Shopkeeper()

	idx := shk.FindBill(obj.ObjectID())
	if idx < 0 {
		s.AddToBill(obj, mon, true)
		return
	}

	entry, err := shk.BillAt(idx)
	if err != nil {
		s.impossible("reading bill entry: %v", err)
		return
	}
	entry.UsedUp = true
	if err := shk.UpdateBill(idx, entry); err != nil {
		s.impossible("marking bill entry used up: %v", err)
		return
	}
	obj.SetUnpaid(false)
}

// PartialUseUp обрабатывает частичное потребление стака (из 5 осталось 3):
// потреблённая часть отделяется в used-up remnant (см. ReduceBill).
func (s *Session) PartialUseUp(obj *model.Object, room *model.Room, newQuantity int32) {
	mon := s.residentShopkeeper(room)
	if mon == nil || obj == nil {
		return
	}
	s.ReduceBill(obj, mon, newQuantity)
	if err := obj.SetQuantity(newQuantity); err != nil {
		s.impossible("shrinking consumed stack: %v", err)
	}
}

// ChargeForUse начисляет debit за использование товара на месте без
// потребления (чтение книги заклинаний, зарядка от лампы).
func (s *Session) ChargeForUse(mon *model.Monster, amount int64) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	if amount <= 0 {
		s.impossible("non-positive use charge %d", amount)
		return
	}
	if !s.ledgerActive(mon) {
		s.impossible("ChargeForUse on inactive ledger of %s", mon.Name())
		return
	}

	mon.Shopkeeper().AddDebit(amount)
	s.msg.Say("%s says: \"Usage fee, %s.\"", mon.Name(), gold(amount))
}

// CostlyGold учитывает золото магазина, поднятое игроком: сумма становится
// debit, а её источник отмечается в loan. Если ledger неактивен, сумма
// записывается сразу в robbed.
func (s *Session) CostlyGold(mon *model.Monster, amount int64) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	if amount <= 0 {
		s.impossible("non-positive gold pickup %d", amount)
		return
	}
	shk := mon.Shopkeeper()

	if !s.ledgerActive(mon) {
		shk.AddRobbed(amount)
		return
	}

	shk.AddDebit(amount)
	shk.AddLoan(amount)
	s.msg.Say("%s says: \"That gold is mine. I'll add %s to your bill.\"",
		mon.Name(), gold(amount))
}

// ObjectLeavesLevel обрабатывает предмет, покинувший уровень магазина
// (провалился в люк, улетел с брошенным предметом): для billed товара это
// кража. Вызывается обработчиками throw/kick/trapdoor.
func (s *Session) ObjectLeavesLevel(obj *model.Object, levelID int32) {
	if obj == nil {
		return
	}
	mon := s.shopkeeperOf(obj.ObjectID())
	if mon == nil {
		return
	}
	if mon.Shopkeeper().ShopLevelID() != levelID {
		return
	}
	s.StolenValue(obj, mon)
	if err := s.arena.Place(obj.ObjectID(), world.Placement{
		List:    world.ListMigrating,
		LevelID: levelID,
	}); err != nil {
		s.impossible("marking object %d migrating: %v", obj.ObjectID(), err)
	}
}

// ObjectDestroyed обрабатывает уничтожение предмета (сгорел, разбился).
// Billed товар превращается в кражу; остальное только чистит маркеры.
func (s *Session) ObjectDestroyed(obj *model.Object) {
	if obj == nil {
		return
	}
	if mon := s.shopkeeperOf(obj.ObjectID()); mon != nil {
		s.StolenValue(obj, mon)
	}
	s.arena.Free(obj.ObjectID())
}
