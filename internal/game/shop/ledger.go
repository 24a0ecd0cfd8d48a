package shop

import (
	"github.com/ekudrin/depths/internal/data"
	"github.com/ekudrin/depths/internal/model"
)

// Billing ledger. Все операции сохраняют инварианты:
//   - unpaid флаг объекта установлен тогда и только тогда, когда существует
//     живая (не used-up) запись с его ID;
//   - объект числится максимум в одном ledger;
//   - переполнение ledger'а (BillCapacity) обрабатывается fail-open.

// ledgerActive возвращает true если ledger монстра можно трогать.
// Мутация неактивного ledger'а — нарушение инварианта: caller обязан
// отчитаться через impossible и превратить операцию в no-op.
func (s *Session) ledgerActive(mon *model.Monster) bool {
	if mon == nil || !mon.IsShopkeeper() || mon.IsDead() {
		return false
	}
	return !mon.Shopkeeper().IsBillInactive()
}

// OnBill ищет живую запись объекта в ledger'е shopkeeper'а.
// Неактивный ledger — сигнал ошибки (возвращается ErrLedgerInactive),
// а не обычный "not found".
func (s *Session) OnBill(obj *model.Object, mon *model.Monster) (model.BillEntry, error) {
	if mon == nil || !mon.IsShopkeeper() {
		return model.BillEntry{}, ErrNoShopkeeper
	}
	shk := mon.Shopkeeper()
	if shk.IsBillInactive() {
		s.impossible("bill lookup on inactive ledger of %s", mon.Name())
		return model.BillEntry{}, ErrLedgerInactive
	}

	idx := shk.FindBill(obj.ObjectID())
	if idx < 0 {
		if obj.IsUnpaid() && s.ownerIndex[obj.ObjectID()] == mon.ObjectID() {
			s.impossible("object %d unpaid but missing from %s's ledger",
				obj.ObjectID(), mon.Name())
		}
		return model.BillEntry{}, ErrNotCustomer
	}
	entry, err := shk.BillAt(idx)
	if err != nil {
		return model.BillEntry{}, err
	}
	return entry, nil
}

// AddToBill регистрирует предмет в ledger'е: вычисляет цену, добавляет
// запись, ставит unpaid флаг. usedUp=true для предметов, израсходованных
// на месте (объект будет освобождён, запись переживёт его).
//
// Fail-open: при заполненном ledger'е предмет достаётся бесплатно.
func (s *Session) AddToBill(obj *model.Object, mon *model.Monster, usedUp bool) {
	if obj == nil || mon == nil || !mon.IsShopkeeper() {
		s.impossible("AddToBill with nil object or non-shopkeeper")
		return
	}
	if !s.ledgerActive(mon) {
		s.impossible("AddToBill on inactive ledger of %s", mon.Name())
		return
	}
	if owner, billed := s.ownerIndex[obj.ObjectID()]; billed {
		if owner == mon.ObjectID() {
			return // уже в этом ledger'е
		}
		s.impossible("object %d already billed by shopkeeper %d", obj.ObjectID(), owner)
		return
	}
	if obj.IsNoCharge() {
		return // содержимое поднятого контейнера не биллится
	}

	shk := mon.Shopkeeper()
	price := s.BuyPrice(obj, shk)
	entry := model.BillEntry{
		ObjectID:  obj.ObjectID(),
		Quantity:  obj.Quantity(),
		UnitPrice: price,
		UsedUp:    usedUp,
	}

	if !shk.AppendBill(entry) {
		// Ledger полон: предмет бесплатно, unpaid не ставим
		s.msg.Say("%s says: \"Consider it a gift.\"", mon.Name())
		return
	}

	if !usedUp {
		obj.SetUnpaid(true)
	}
	s.ownerIndex[obj.ObjectID()] = mon.ObjectID()

	name := data.NameOf(obj.Class(), obj.Type())
	total := entry.Total()
	if entry.Quantity > 1 {
		s.msg.Say("%s says: \"%s, only %s for these.\"", mon.Name(), name, gold(total))
	} else {
		s.msg.Say("%s says: \"For you, only %s for this %s.\"", mon.Name(), gold(total), name)
	}
}

// RemoveFromBill убирает живую запись объекта (предмет возвращён на полку,
// продан обратно или уничтожен с явной очисткой долга) и снимает unpaid флаг.
func (s *Session) RemoveFromBill(obj *model.Object, mon *model.Monster) {
	if obj == nil || mon == nil || !mon.IsShopkeeper() {
		return
	}
	if !s.ledgerActive(mon) {
		s.impossible("RemoveFromBill on inactive ledger of %s", mon.Name())
		return
	}

	shk := mon.Shopkeeper()
	idx := shk.FindBill(obj.ObjectID())
	if idx < 0 {
		if obj.IsUnpaid() {
			s.impossible("object %d unpaid but absent from %s's ledger",
				obj.ObjectID(), mon.Name())
			obj.SetUnpaid(false)
		}
		return
	}

	if err := shk.RemoveBill(idx); err != nil {
		s.impossible("removing bill entry: %v", err)
		return
	}
	obj.SetUnpaid(false)
	delete(s.ownerIndex, obj.ObjectID())
}

// ReduceBill обрабатывает частичное потребление стака: если новое количество
// всё ещё покрывает записанное — no-op; иначе потреблённая часть отделяется
// в used-up remnant запись с собственным (уже свободным) object ID, чтобы её
// стоимость осталась взыскиваемой.
func (s *Session) ReduceBill(obj *model.Object, mon *model.Monster, newQuantity int32) {
	if obj == nil || mon == nil || !mon.IsShopkeeper() {
		return
	}
	if !s.ledgerActive(mon) {
		s.impossible("ReduceBill on inactive ledger of %s", mon.Name())
		return
	}

	shk := mon.Shopkeeper()
	idx := shk.FindBill(obj.ObjectID())
	if idx < 0 {
		return
	}
	entry, err := shk.BillAt(idx)
	if err != nil {
		s.impossible("reading bill entry: %v", err)
		return
	}
	if entry.UsedUp || entry.Quantity <= newQuantity {
		return
	}

	consumed := entry.Quantity - newQuantity
	remnant := model.BillEntry{
		ObjectID:  s.arena.IDGenerator().NextObjectID(), // остаётся только в ledger'е
		Quantity:  consumed,
		UnitPrice: entry.UnitPrice,
		UsedUp:    true,
	}

	entry.Quantity = newQuantity
	if err := shk.UpdateBill(idx, entry); err != nil {
		s.impossible("updating bill entry: %v", err)
		return
	}

	if !shk.AppendBill(remnant) {
		// Fail-open: потреблённая часть достаётся бесплатно
		s.msg.Say("%s waves off the used portion.", mon.Name())
		return
	}
	s.ownerIndex[remnant.ObjectID] = mon.ObjectID()
}

// SplitBill делит запись при разделении стака: twin получает
// пропорциональную часть по исходной цене за единицу.
// Вызывается после world.Arena.Split.
func (s *Session) SplitBill(orig *model.Object, twin *model.Object) {
	if orig == nil || twin == nil {
		return
	}
	mon := s.shopkeeperOf(orig.ObjectID())
	if mon == nil {
		if twin.IsUnpaid() {
			// Унаследованный при split флаг без записи — снимаем
			twin.SetUnpaid(false)
		}
		return
	}
	if !s.ledgerActive(mon) {
		s.impossible("SplitBill on inactive ledger of %s", mon.Name())
		return
	}

	shk := mon.Shopkeeper()
	idx := shk.FindBill(orig.ObjectID())
	if idx < 0 {
		s.impossible("split of billed object %d with no ledger entry", orig.ObjectID())
		return
	}
	entry, err := shk.BillAt(idx)
	if err != nil {
		s.impossible("reading bill entry: %v", err)
		return
	}

	twinQty := twin.Quantity()
	if twinQty >= entry.Quantity {
		s.impossible("split quantity %d >= billed quantity %d", twinQty, entry.Quantity)
		twinQty = entry.Quantity - 1
		if twinQty <= 0 {
			return
		}
	}

	entry.Quantity -= twinQty
	if err := shk.UpdateBill(idx, entry); err != nil {
		s.impossible("updating bill entry: %v", err)
		return
	}

	twinEntry := model.BillEntry{
		ObjectID:  twin.ObjectID(),
		Quantity:  twinQty,
		UnitPrice: entry.UnitPrice,
	}
	if !shk.AppendBill(twinEntry) {
		// Fail-open: новый стак бесплатно
		twin.SetUnpaid(false)
		s.msg.Say("%s says: \"Keep the small pile.\"", mon.Name())
		return
	}
	twin.SetUnpaid(true)
	s.ownerIndex[twin.ObjectID()] = mon.ObjectID()
}

// MergeBills сливает записи при слиянии стаков (dst поглощает src).
// Вызывается до world.Arena.Merge. Слияние стаков из разных ledger'ов
// запрещено (нарушило бы принадлежность одному ledger'у) — caller обязан
// не мержить такие стаки.
func (s *Session) MergeBills(dst *model.Object, src *model.Object) {
	if dst == nil || src == nil {
		return
	}
	dstMon := s.shopkeeperOf(dst.ObjectID())
	srcMon := s.shopkeeperOf(src.ObjectID())

	if srcMon == nil {
		return
	}
	if dstMon == nil || dstMon.ObjectID() != srcMon.ObjectID() {
		s.impossible("merging stacks from different ledgers: dst=%d src=%d",
			dst.ObjectID(), src.ObjectID())
		return
	}
	if !s.ledgerActive(srcMon) {
		s.impossible("MergeBills on inactive ledger of %s", srcMon.Name())
		return
	}

	shk := srcMon.Shopkeeper()
	srcIdx := shk.FindBill(src.ObjectID())
	dstIdx := shk.FindBill(dst.ObjectID())
	if srcIdx < 0 || dstIdx < 0 {
		s.impossible("billed stacks missing ledger entries: src=%d dst=%d", srcIdx, dstIdx)
		return
	}

	srcEntry, err := shk.BillAt(srcIdx)
	if err != nil {
		s.impossible("reading bill entry: %v", err)
		return
	}
	dstEntry, err := shk.BillAt(dstIdx)
	if err != nil {
		s.impossible("reading bill entry: %v", err)
		return
	}

	dstEntry.Quantity += srcEntry.Quantity
	if err := shk.UpdateBill(dstIdx, dstEntry); err != nil {
		s.impossible("updating bill entry: %v", err)
		return
	}
	if err := shk.RemoveBill(shk.FindBill(src.ObjectID())); err != nil {
		s.impossible("removing merged bill entry: %v", err)
	}
	delete(s.ownerIndex, src.ObjectID())
}

// SetPaid полностью очищает ledger: снимает unpaid флаг с каждого объекта,
// где бы он ни находился (инвентарь, пол, контейнеры, инвентари монстров,
// in-transit), забывает remnant-записи и обнуляет billct/credit/debit/loan.
// Единственная операция, которой позволено обнулять всё сразу.
//
// Вызывается при: выходе из магазина без долга, смерти shopkeeper'а,
// полной оплате, смерти/выходе персонажа.
func (s *Session) SetPaid(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	shk := mon.Shopkeeper()

	for _, entry := range shk.Bills() {
		if obj := s.arena.Get(entry.ObjectID); obj != nil {
			obj.SetUnpaid(false)
		}
		delete(s.ownerIndex, entry.ObjectID)
	}

	// Подстраховка: стираем любые stale-ссылки на этого shopkeeper'а
	// и рассинхронизированные unpaid флаги.
	for objID, shkID := range s.ownerIndex {
		if shkID == mon.ObjectID() {
			s.impossible("owner index entry %d survived ledger sweep", objID)
			if obj := s.arena.Get(objID); obj != nil {
				obj.SetUnpaid(false)
			}
			delete(s.ownerIndex, objID)
		}
	}

	shk.ResetLedger()
}

// BilledTotal возвращает сумму живых записей плюс debit (без robbed).
func (s *Session) BilledTotal(mon *model.Monster) int64 {
	if mon == nil || !mon.IsShopkeeper() {
		return 0
	}
	shk := mon.Shopkeeper()
	return shk.OutstandingBilled() + shk.Debit()
}
