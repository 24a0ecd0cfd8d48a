package shop

import "github.com/ekudrin/depths/internal/model"

// Hostility state machine. Состояния: Peaceful, Peaceful+Surcharged
// (переходное, пока записи ещё несут наценку), Angry+Following и Robbed
// (под-состояние Angry с ненулевым robbed).

// Rile применяет наценку гнева к каждой живой записи ровно один раз
// и поднимает surcharge флаг. Повторный вызов без промежуточного Pacify —
// no-op: идемпотентность обеспечивает сам флаг.
func (s *Session) Rile(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	shk := mon.Shopkeeper()
	if shk.HasSurcharge() {
		return
	}

	for i, entry := range shk.Bills() {
		entry.UnitPrice = rileEntry(entry.UnitPrice)
		if err := shk.UpdateBill(int32(i), entry); err != nil {
			s.impossible("riling bill entry %d: %v", i, err)
		}
	}
	shk.SetSurcharge(true)
}

// Pacify снимает наценку гнева с каждой живой записи ровно один раз
// и сбрасывает surcharge флаг. Для цены, поднятой Rile, восстанавливает
// исходное значение.
func (s *Session) Pacify(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	shk := mon.Shopkeeper()
	if !shk.HasSurcharge() {
		return
	}

	for i, entry := range shk.Bills() {
		entry.UnitPrice = pacifyEntry(entry.UnitPrice)
		if err := shk.UpdateBill(int32(i), entry); err != nil {
			s.impossible("pacifying bill entry %d: %v", i, err)
		}
	}
	shk.SetSurcharge(false)
}

// MakeAngry переводит shopkeeper'а в Angry+Following и запускает погоню.
func (s *Session) MakeAngry(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}

	s.Rile(mon)
	mon.SetPeaceful(false)
	mon.Shopkeeper().SetFollowing(true)
	s.HotPursuit(mon)
}

// MakeHappy возвращает shopkeeper'а в Peaceful: наценка снимается,
// преследование прекращается, торговец возвращается за прилавок,
// если успел уйти с него.
func (s *Session) MakeHappy(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	shk := mon.Shopkeeper()

	s.Pacify(mon)
	mon.SetPeaceful(true)
	shk.SetFollowing(false)

	if mon.Position() != shk.Home() && mon.LevelID() == shk.ShopLevelID() {
		mon.SetPosition(shk.Home())
		shk.SetBillInactive(false)
	}

	s.msg.Say("%s calms down and returns to the counter.", mon.Name())
}

// HotPursuit объявляет погоню. Сообщение троттлится по ходам, чтобы
// преследующий через весь уровень торговец не спамил narration.
func (s *Session) HotPursuit(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	if !mon.Shopkeeper().IsFollowing() {
		return
	}

	if s.turn-s.lastPursuitTurn >= 5 {
		s.msg.Say("%s pursues you, shouting: \"Stop, thief!\"", mon.Name())
		s.lastPursuitTurn = s.turn
	}
}

// DetectTheft обрабатывает выход игрока за границы магазина с неоплаченным
// долгом: существующий кредит гасит долг первым, остаток становится robbed,
// применяется alignment penalty (кроме ролей, которым воровство позволено),
// shopkeeper переходит в Angry+Following, ledger очищается через SetPaid.
func (s *Session) DetectTheft(mon *model.Monster) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	shk := mon.Shopkeeper()

	outstanding := shk.OutstandingBilled() + shk.Debit()
	if outstanding == 0 {
		return
	}

	// Open question из оригинального дизайна: damage-триггер и exit-триггер
	// в одном ходу. Damage идёт первым и опустошает ledger; непустой ledger
	// здесь после damage-триггера — повод для диагностики, не для тихого
	// разрешения.
	if s.damageFiredTurn == s.turn {
		s.impossible("theft and damage triggers both fired in turn %d with non-empty ledger", s.turn)
	}

	use := min(shk.Credit(), outstanding)
	if use > 0 {
		shk.AddCredit(-use)
		outstanding -= use
	}

	if outstanding > 0 {
		shk.AddRobbed(outstanding)
		if !s.player.Role().TheftExempt() {
			s.player.AdjustAlignment(-1)
		}
		s.msg.Say("%s shouts: \"Thief! You owe me %s!\"", mon.Name(), gold(outstanding))
		s.MakeAngry(mon)
	}

	s.SetPaid(mon)
}

// DamageShop обрабатывает порчу имущества магазина изнутри (выбитая дверь,
// пролом стены, уничтоженный товар): весь billed долг, debit и loan
// конвертируются в robbed вместе со стоимостью ремонта, ledger очищается,
// shopkeeper становится Angry.
func (s *Session) DamageShop(mon *model.Monster, repairCost int64) {
	if mon == nil || !mon.IsShopkeeper() {
		return
	}
	if repairCost < 0 {
		s.impossible("negative repair cost %d", repairCost)
		repairCost = 0
	}
	shk := mon.Shopkeeper()

	converted := shk.OutstandingBilled() + shk.Debit() + repairCost
	if converted > 0 {
		shk.AddRobbed(converted)
	}
	s.SetPaid(mon)
	s.damageFiredTurn = s.turn

	mon.SetPeaceful(false)
	s.Rile(mon)
	s.msg.Say("%s yells: \"You'll pay for the damage!\"", mon.Name())
}

// StolenValue регистрирует предмет, покинувший магазин любым способом
// (выброшен, выбит, провалился в люк, уничтожен). Кредит применяется первым,
// остаток становится robbed и злит shopkeeper'а.
// Возвращает учтённую стоимость.
func (s *Session) StolenValue(obj *model.Object, mon *model.Monster) int64 {
	if obj == nil || mon == nil || !mon.IsShopkeeper() {
		return 0
	}
	shk := mon.Shopkeeper()

	value := s.BuyPrice(obj, shk) * int64(obj.Quantity())
	if idx := shk.FindBill(obj.ObjectID()); idx >= 0 {
		if entry, err := shk.BillAt(idx); err == nil {
			value = entry.Total()
		}
		s.RemoveFromBill(obj, mon)
	}
	if value <= 0 {
		return 0
	}

	use := min(shk.Credit(), value)
	if use > 0 {
		shk.AddCredit(-use)
		s.msg.Say("%s deducts %s from your credit.", mon.Name(), gold(use))
	}

	residual := value - use
	if residual > 0 {
		shk.AddRobbed(residual)
		if !s.player.Role().TheftExempt() {
			s.player.AdjustAlignment(-1)
		}
		s.MakeAngry(mon)
	}
	return value
}
