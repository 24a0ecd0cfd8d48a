package shop

import (
	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

// Lifecycle hooks: уход/возврат shopkeeper'а, его смерть, завершение игры.

// ShopkeeperDeparted вызывается, когда shopkeeper покидает свой магазин
// (погоня, миграция). Ledger замораживается: любые мутации до возврата —
// нарушение инварианта.
func (s *Session) ShopkeeperDeparted(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	mon.Shopkeeper().SetBillInactive(true)
}

// ShopkeeperReturned вызывается при возвращении shopkeeper'а в магазин.
func (s *Session) ShopkeeperReturned(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	mon.Shopkeeper().SetBillInactive(false)
}

// ShopkeeperDies обрабатывает смерть shopkeeper'а: ledger очищается через
// SetPaid, no-charge маркеры на полу магазина снимаются (товар ничей),
// комната освобождается, труп и инвентарь остаются арене.
func (s *Session) ShopkeeperDies(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	shk := mon.Shopkeeper()

	// SetPaid требует активный ledger-доступ: смерть снимает заморозку
	shk.SetBillInactive(false)
	s.SetPaid(mon)
	mon.SetDead(true)

	if level := s.levels[shk.ShopLevelID()]; level != nil {
		for _, room := range level.Rooms() {
			if room.RoomID() != shk.ShopRoomID() {
				continue
			}
			room.SetShopkeeperID(0)
			s.clearShopMarkers(room)
		}
	}

	s.arena.RemoveMonster(mon.ObjectID())
	s.msg.Say("%s's shop stands unattended.", mon.Name())
}

// clearShopMarkers снимает no-charge и unpaid маркеры со всего товара
// на полу комнаты: после смерти владельца он ничей.
func (s *Session) clearShopMarkers(room *model.Room) {
	bounds := room.Bounds()
	for y := bounds.LowY; y <= bounds.HighY; y++ {
		for x := bounds.LowX; x <= bounds.HighX; x++ {
			for _, obj := range s.arena.ObjectsAt(room.LevelID(), model.NewPosition(x, y)) {
				obj.SetNoCharge(false)
				if obj.IsUnpaid() {
					s.impossible("object %d still unpaid after owner's ledger cleared", obj.ObjectID())
					obj.SetUnpaid(false)
				}
			}
		}
	}
}

// FinalizeOnDeathOrQuit закрывает все ledger'ы при смерти персонажа или
// выходе из игры: каждый shopkeeper получает SetPaid, ни один объект
// не остаётся с висячим unpaid флагом.
func (s *Session) FinalizeOnDeathOrQuit() {
	for _, mon := range s.arena.Shopkeepers() {
		mon.Shopkeeper().SetBillInactive(false)
		s.SetPaid(mon)
	}

	// Контрольный проход: unpaid без записи — диагностика
	s.arena.ForEachObject(func(obj *model.Object, _ world.Placement) {
		if obj.IsUnpaid() {
			s.impossible("object %d unpaid after final settlement", obj.ObjectID())
			obj.SetUnpaid(false)
		}
	})
}
