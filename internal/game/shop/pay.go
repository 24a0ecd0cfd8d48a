package shop

import (
	"errors"
	"fmt"

	"github.com/ekudrin/depths/internal/data"
	"github.com/ekudrin/depths/internal/model"
)

// Transaction processor: интерактивный протокол команды pay.
//
// Каждый интерактивный шаг блокирует turn loop до ответа игрока.
// Коммит любого шага (деньги или кредит переведены) не откатывается,
// даже если следующий шаг той же команды отменён.

// Prompter — интерактивные вопросы протокола оплаты.
// Возврат ошибки из любого метода означает отмену команды (ErrCancelled
// наружу); false без ошибки — осознанный отказ от конкретного шага.
type Prompter interface {
	// Confirm задаёт yes/no вопрос.
	Confirm(prompt string) (bool, error)

	// SelectShopkeeper просит игрока выбрать цель оплаты
	// (указать клетку с торговцем).
	SelectShopkeeper(prompt string, candidates []*model.Monster) (*model.Monster, error)
}

// Pay — player-facing точка входа протокола оплаты.
//
// Возврат nil — команда завершена (ход потрачен). Возврат ErrCancelled или
// ErrNoFunds — команда не завершена, ход не тратится, ledger остаётся
// в согласованном состоянии: ни один шаг не оставляет unpaid флаг
// в рассинхроне с записями.
func (s *Session) Pay(p Prompter) error {
	if p == nil {
		return fmt.Errorf("prompter cannot be nil")
	}

	mon, err := s.payTarget(p)
	if err != nil {
		return err
	}
	shk := mon.Shopkeeper()

	resident := false
	if room := s.currentShop(); room != nil {
		resident = room.ShopkeeperID() == mon.ObjectID()
	}
	customer := shk.Customer() == s.player.Name() ||
		shk.BillCount() > 0 || shk.Debit() > 0

	// Злой торговец чужого магазина (или не наш кредитор): только
	// откупная выплата по robbed, без доступа к ledger'у.
	if !mon.IsPeaceful() && (!resident || !customer) {
		return s.payProtection(p, mon)
	}

	// Пустой ledger: платить нечего, кредит остаётся нетронутым
	if shk.BillCount() == 0 && shk.Debit() == 0 && shk.Robbed() == 0 {
		s.msg.Say("You do not owe %s anything.", mon.Name())
		if shk.Credit() > 0 {
			s.msg.Say("You have %s credit at %s's %s.",
				formatGold(shk.Credit()), mon.Name(), data.ShopName(shk.ShopType()))
		}
		return nil
	}

	// Требование за уже украденное — первым
	if shk.Robbed() > 0 {
		if err := s.payRobbed(p, mon); err != nil {
			return err
		}
	}

	// Структурный debit — до итемизации bills
	if err := s.payDebit(mon); err != nil {
		return err
	}

	if err := s.payBills(p, mon); err != nil {
		return err
	}

	if shk.BillCount() == 0 && shk.Debit() == 0 && shk.Robbed() == 0 {
		if !mon.IsPeaceful() {
			s.MakeHappy(mon)
		}
		s.SetPaid(mon)
		s.msg.Say("%s says: \"Thank you for shopping in %s's %s!\"",
			mon.Name(), mon.Name(), data.ShopName(shk.ShopType()))
	}
	return nil
}

// payRangeSquared ограничивает, как далеко может стоять торговец, чтобы
// игрок мог окликнуть его командой pay: 10 клеток по прямой.
const payRangeSquared = 100

// payTarget определяет shopkeeper'а-получателя: примыкающий злой торговец
// приоритетен; затем resident текущего магазина; затем выбор среди торговцев
// уровня в пределах видимости.
func (s *Session) payTarget(p Prompter) (*model.Monster, error) {
	playerPos := s.player.Position()
	playerLevel := s.player.LevelID()

	var candidates []*model.Monster
	for _, mon := range s.arena.Shopkeepers() {
		if mon.IsDead() || mon.LevelID() != playerLevel {
			continue
		}
		if !mon.IsPeaceful() && mon.Position().Adjacent(playerPos) {
			return mon, nil
		}
		if mon.Position().DistanceSquared(playerPos) > payRangeSquared {
			continue
		}
		candidates = append(candidates, mon)
	}

	if room := s.currentShop(); room != nil {
		if mon := s.residentShopkeeper(room); mon != nil {
			return mon, nil
		}
	}

	switch len(candidates) {
	case 0:
		s.msg.Say("There is nobody here to pay.")
		return nil, ErrNoShopkeeper
	case 1:
		return candidates[0], nil
	default:
		mon, err := p.SelectShopkeeper("Pay whom?", candidates)
		if err != nil {
			return nil, errors.Join(ErrCancelled, err)
		}
		if mon == nil || !mon.IsShopkeeper() {
			return nil, ErrNoShopkeeper
		}
		return mon, nil
	}
}

// payProtection — откупная выплата злому торговцу, чей ledger игроку
// недоступен: гасится только robbed-требование. Может не умиротворить
// торговца полностью.
func (s *Session) payProtection(p Prompter, mon *model.Monster) error {
	shk := mon.Shopkeeper()

	demand := shk.Robbed()
	if demand == 0 {
		s.msg.Say("%s has no business with you.", mon.Name())
		return nil
	}

	purse := s.player.Gold()
	if purse == 0 {
		s.msg.Say("%s demands %s, but your purse is empty.", mon.Name(), formatGold(demand))
		return ErrNoFunds
	}

	amount := min(demand, purse)
	ok, err := p.Confirm(fmt.Sprintf("%s demands %s. Pay %s?",
		mon.Name(), formatGold(demand), formatGold(amount)))
	if err != nil {
		return errors.Join(ErrCancelled, err)
	}
	if !ok {
		return ErrCancelled
	}

	if err := s.transfer(mon, amount, 0); err != nil {
		return err
	}
	shk.AddRobbed(-amount)

	if shk.Robbed() == 0 {
		s.MakeHappy(mon)
	} else {
		s.msg.Say("%s pockets the gold but still demands %s.",
			mon.Name(), formatGold(shk.Robbed()))
	}
	return nil
}

// payRobbed гасит robbed-требование собственного торговца (после кражи
// или порчи имущества), применяя кредит первым.
func (s *Session) payRobbed(p Prompter, mon *model.Monster) error {
	shk := mon.Shopkeeper()
	demand := shk.Robbed()

	use := min(shk.Credit(), demand)
	if use > 0 {
		shk.AddCredit(-use)
		shk.AddRobbed(-use)
		demand -= use
		s.msg.Say("%s applies %s of your credit to the damages.", mon.Name(), formatGold(use))
	}
	if demand == 0 {
		return nil
	}

	if s.player.Gold() < demand {
		s.msg.Say("%s demands %s for damages; you cannot cover it.",
			mon.Name(), formatGold(demand))
		return ErrNoFunds
	}

	ok, err := p.Confirm(fmt.Sprintf("Pay %s for damages?", formatGold(demand)))
	if err != nil {
		return errors.Join(ErrCancelled, err)
	}
	if !ok {
		return ErrCancelled
	}

	if err := s.transfer(mon, demand, 0); err != nil {
		return err
	}
	shk.AddRobbed(-demand)
	return nil
}

// payDebit гасит структурный debit: сперва кредитом, затем наличными.
// Частичное покрытие кредитом допускается; нехватка наличных на остаток —
// отказ без прогресса.
func (s *Session) payDebit(mon *model.Monster) error {
	shk := mon.Shopkeeper()
	if shk.Debit() == 0 {
		return nil
	}

	use := min(shk.Credit(), shk.Debit())
	if use > 0 {
		shk.AddCredit(-use)
		shk.AddDebit(-use)
		s.msg.Say("%s applies %s of your credit to your tab.", mon.Name(), formatGold(use))
	}
	s.clampLoan(shk)

	remaining := shk.Debit()
	if remaining == 0 {
		return nil
	}
	if s.player.Gold() < remaining {
		s.msg.Say("You owe %s %s, but cannot pay.", mon.Name(), formatGold(remaining))
		return ErrNoFunds
	}

	if err := s.transfer(mon, remaining, 0); err != nil {
		return err
	}
	shk.AddDebit(-remaining)
	s.clampLoan(shk)
	s.msg.Say("You pay off your %s tab.", formatGold(remaining))
	return nil
}

// clampLoan поддерживает инвариант "loan — подмножество debit".
func (s *Session) clampLoan(shk *model.ShopkeeperExt) {
	if shk.Loan() > shk.Debit() {
		shk.AddLoan(shk.Debit() - shk.Loan())
	}
}

// payBills проходит живые записи в два прохода: сперва used-up остатки,
// затем существующие предметы. Предлагает либо lump-оплату целиком, либо
// поштучное подтверждение. Частично потреблённые стаки предварительно
// разделяются (ReduceBill), чтобы потреблённая часть биллилась отдельно.
func (s *Session) payBills(p Prompter, mon *model.Monster) error {
	shk := mon.Shopkeeper()
	if shk.BillCount() == 0 {
		return nil
	}

	// Выравнивание: живая запись не должна превышать живой стак
	for _, entry := range shk.Bills() {
		if entry.UsedUp {
			continue
		}
		obj := s.arena.Get(entry.ObjectID)
		if obj == nil {
			s.impossible("live bill entry %d references freed object", entry.ObjectID)
			continue
		}
		if entry.Quantity > obj.Quantity() {
			s.ReduceBill(obj, mon, obj.Quantity())
		}
	}

	entries := shk.Bills()
	var total int64
	for _, e := range entries {
		total += e.Total()
	}

	itemize := false
	if len(entries) > 1 {
		var err error
		itemize, err = p.Confirm("Itemized billing?")
		if err != nil {
			return errors.Join(ErrCancelled, err)
		}
	}

	if !itemize {
		return s.payLump(p, mon, total)
	}

	// Два прохода: used-up первыми
	for _, pass := range []bool{true, false} {
		for _, entry := range shk.Bills() {
			if entry.UsedUp != pass {
				continue
			}
			if err := s.payItemized(p, mon, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// payLump оплачивает все записи одним платежом.
func (s *Session) payLump(p Prompter, mon *model.Monster, total int64) error {
	shk := mon.Shopkeeper()

	available := shk.Credit() + s.player.Gold()
	if available < total {
		s.msg.Say("The bill comes to %s; you cannot cover it.", formatGold(total))
		return ErrNoFunds
	}

	ok, err := p.Confirm(fmt.Sprintf("Pay the whole bill of %s?", formatGold(total)))
	if err != nil {
		return errors.Join(ErrCancelled, err)
	}
	if !ok {
		return ErrCancelled
	}

	for _, entry := range shk.Bills() {
		if err := s.settleEntry(mon, entry); err != nil {
			return err
		}
	}
	return nil
}

// payItemized предлагает оплатить одну запись. Отказ пропускает запись
// (она остаётся pending); отмена прерывает команду.
func (s *Session) payItemized(p Prompter, mon *model.Monster, entry model.BillEntry) error {
	shk := mon.Shopkeeper()
	cost := entry.Total()

	label := s.entryLabel(entry)
	ok, err := p.Confirm(fmt.Sprintf("Pay %s for %s?", formatGold(cost), label))
	if err != nil {
		return errors.Join(ErrCancelled, err)
	}
	if !ok {
		return nil
	}

	if shk.Credit()+s.player.Gold() < cost {
		s.msg.Say("You cannot afford %s for %s.", formatGold(cost), label)
		if s.player.Gold() == 0 && shk.Credit() == 0 {
			return ErrNoFunds
		}
		return nil
	}

	return s.settleEntry(mon, entry)
}

// settleEntry проводит оплату одной записи: кредит первым, затем наличные,
// запись удаляется, unpaid флаг снимается.
func (s *Session) settleEntry(mon *model.Monster, entry model.BillEntry) error {
	shk := mon.Shopkeeper()
	cost := entry.Total()
	if cost <= 0 {
		s.impossible("non-positive bill settlement %d for object %d", cost, entry.ObjectID)
		cost = 0
	}

	useCredit := min(shk.Credit(), cost)
	cash := cost - useCredit

	if err := s.transfer(mon, cash, useCredit); err != nil {
		return err
	}

	idx := shk.FindBill(entry.ObjectID)
	if idx < 0 {
		s.impossible("settled bill entry %d vanished", entry.ObjectID)
		return nil
	}
	if err := shk.RemoveBill(idx); err != nil {
		s.impossible("removing settled bill entry: %v", err)
	}
	if obj := s.arena.Get(entry.ObjectID); obj != nil {
		obj.SetUnpaid(false)
	}
	delete(s.ownerIndex, entry.ObjectID)

	s.msg.Say("You pay %s for %s.", formatGold(cost), s.entryLabel(entry))
	return nil
}

// transfer переводит платёж: cash из кошелька игрока в кассу торговца,
// useCredit списывается с предоплаченного баланса.
func (s *Session) transfer(mon *model.Monster, cash, useCredit int64) error {
	shk := mon.Shopkeeper()

	if useCredit > 0 {
		shk.AddCredit(-useCredit)
	}
	if cash > 0 {
		if err := s.player.SpendGold(cash); err != nil {
			s.impossible("spending gold mid-settlement: %v", err)
			shk.AddCredit(useCredit) // откат кредитной части
			return ErrNoFunds
		}
		mon.AddGold(cash)
	}
	return nil
}

// entryLabel описывает запись для narration.
func (s *Session) entryLabel(entry model.BillEntry) string {
	if obj := s.arena.Get(entry.ObjectID); obj != nil {
		name := data.NameOf(obj.Class(), obj.Type())
		if entry.Quantity > 1 {
			return fmt.Sprintf("%d x %s", entry.Quantity, name)
		}
		return name
	}
	if entry.Quantity > 1 {
		return fmt.Sprintf("%d used-up items", entry.Quantity)
	}
	return "a used-up item"
}

// formatGold — alias для narration-хелпера (локальное имя gold конфликтует
// с переменными количеств золота в этом файле).
func formatGold(amount int64) string {
	return gold(amount)
}
