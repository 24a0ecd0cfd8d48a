package model

import (
	"fmt"
	"sync"
)

// BillCapacity — максимальное число живых bill entries на одного shopkeeper'а.
// Переполнение обрабатывается fail-open: предмет достаётся бесплатно
// (см. game/shop.AddToBill), память не повреждается.
const BillCapacity = 200

// ShopkeeperExt — shop extension record, прикреплённый к монстру-торговцу.
// Хранит ledger (bill array) и денежные счётчики магазина.
//
// Phase 6.2: Shop Commerce.
type ShopkeeperExt struct {
	shopRoomID  int32    // Room ID магазина
	shopLevelID int32    // Dungeon level магазина
	shopType    ShopType // Тип магазина (general, armory, ...)
	door        Position // Клетка двери магазина
	home        Position // "Прилавок" — домашняя позиция shopkeeper'а

	billCount int32                   // Число живых записей в bills
	bills     [BillCapacity]BillEntry // Fixed-capacity ledger

	debit  int64 // Долг за использование на месте + поднятое золото магазина
	credit int64 // Предоплаченный баланс игрока
	loan   int64 // Часть debit, образованная поднятым золотом
	robbed int64 // Украденная и не итемизированная стоимость

	following    bool // Преследует игрока (Angry+Following)
	surcharge    bool // Наценка гнева применена к живым записям
	billInactive bool // Shopkeeper вне магазина: ledger трогать нельзя

	customer   string // Имя последнего покупателя
	visitCount int32  // Число визитов покупателя

	mu sync.RWMutex
}

// NewShopkeeperExt создаёт shop extension для комнаты-магазина.
func NewShopkeeperExt(shopRoomID, shopLevelID int32, shopType ShopType, door, home Position) *ShopkeeperExt {
	return &ShopkeeperExt{
		shopRoomID:  shopRoomID,
		shopLevelID: shopLevelID,
		shopType:    shopType,
		door:        door,
		home:        home,
	}
}

// ShopRoomID возвращает room ID магазина.
func (s *ShopkeeperExt) ShopRoomID() int32 { return s.shopRoomID }

// ShopLevelID возвращает dungeon level ID магазина.
func (s *ShopkeeperExt) ShopLevelID() int32 { return s.shopLevelID }

// ShopType возвращает тип магазина.
func (s *ShopkeeperExt) ShopType() ShopType { return s.shopType }

// Door возвращает клетку двери.
func (s *ShopkeeperExt) Door() Position { return s.door }

// Home возвращает домашнюю позицию ("прилавок").
func (s *ShopkeeperExt) Home() Position { return s.home }

// BillCount возвращает число живых bill entries.
func (s *ShopkeeperExt) BillCount() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.billCount
}

// Bills возвращает копию живых bill entries.
func (s *ShopkeeperExt) Bills() []BillEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BillEntry, s.billCount)
	copy(out, s.bills[:s.billCount])
	return out
}

// BillAt возвращает запись по индексу.
func (s *ShopkeeperExt) BillAt(idx int32) (BillEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx < 0 || idx >= s.billCount {
		return BillEntry{}, fmt.Errorf("bill index %d out of range [0,%d)", idx, s.billCount)
	}
	return s.bills[idx], nil
}

// FindBill ищет живую запись по object ID.
// Возвращает индекс или -1 если не найдена.
func (s *ShopkeeperExt) FindBill(objectID uint32) int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := int32(0); i < s.billCount; i++ {
		if s.bills[i].ObjectID == objectID {
			return i
		}
	}
	return -1
}

// AppendBill добавляет запись в ledger.
// Возвращает false при переполнении (caller обязан применить fail-open policy).
func (s *ShopkeeperExt) AppendBill(entry BillEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.billCount >= BillCapacity {
		return false
	}
	s.bills[s.billCount] = entry
	s.billCount++
	return true
}

// UpdateBill заменяет запись по индексу.
func (s *ShopkeeperExt) UpdateBill(idx int32, entry BillEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= s.billCount {
		return fmt.Errorf("bill index %d out of range [0,%d)", idx, s.billCount)
	}
	s.bills[idx] = entry
	return nil
}

// RemoveBill удаляет запись по индексу, сдвигая хвост массива.
func (s *ShopkeeperExt) RemoveBill(idx int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= s.billCount {
		return fmt.Errorf("bill index %d out of range [0,%d)", idx, s.billCount)
	}
	copy(s.bills[idx:], s.bills[idx+1:s.billCount])
	s.billCount--
	s.bills[s.billCount] = BillEntry{}
	return nil
}

// ResetLedger обнуляет billCount, credit, debit и loan одновременно.
// Единственная операция, которой это позволено (вызывается только из
// game/shop.SetPaid). Снятие unpaid флагов с предметов — обязанность caller'а.
func (s *ShopkeeperExt) ResetLedger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.billCount = 0
	s.bills = [BillCapacity]BillEntry{}
	s.credit = 0
	s.debit = 0
	s.loan = 0
}

// Debit возвращает долг за использование на месте.
func (s *ShopkeeperExt) Debit() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debit
}

// AddDebit увеличивает (или уменьшает при отрицательной delta) debit.
// Отрицательный итог обрезается в ноль.
func (s *ShopkeeperExt) AddDebit(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debit += delta
	if s.debit < 0 {
		s.debit = 0
	}
}

// Credit возвращает предоплаченный баланс игрока.
func (s *ShopkeeperExt) Credit() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credit
}

// AddCredit изменяет кредит игрока. Отрицательный итог обрезается в ноль.
func (s *ShopkeeperExt) AddCredit(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credit += delta
	if s.credit < 0 {
		s.credit = 0
	}
}

// Loan возвращает часть debit, образованную поднятым золотом магазина.
func (s *ShopkeeperExt) Loan() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loan
}

// AddLoan изменяет loan. Отрицательный итог обрезается в ноль.
func (s *ShopkeeperExt) AddLoan(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loan += delta
	if s.loan < 0 {
		s.loan = 0
	}
}

// Robbed возвращает украденную и не итемизированную стоимость.
func (s *ShopkeeperExt) Robbed() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.robbed
}

// AddRobbed изменяет robbed. Отрицательный итог обрезается в ноль.
func (s *ShopkeeperExt) AddRobbed(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.robbed += delta
	if s.robbed < 0 {
		s.robbed = 0
	}
}

// IsFollowing возвращает true если shopkeeper преследует игрока.
func (s *ShopkeeperExt) IsFollowing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.following
}

// SetFollowing устанавливает флаг преследования.
func (s *ShopkeeperExt) SetFollowing(following bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.following = following
}

// HasSurcharge возвращает true если наценка гнева применена к живым записям.
func (s *ShopkeeperExt) HasSurcharge() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surcharge
}

// SetSurcharge устанавливает surcharge флаг.
// Идемпотентность rile/pacify обеспечивается проверкой флага в game/shop.
func (s *ShopkeeperExt) SetSurcharge(surcharge bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surcharge = surcharge
}

// IsBillInactive возвращает true пока shopkeeper вне своего магазина.
// Любая мутация ledger в этом состоянии — ошибка инварианта.
func (s *ShopkeeperExt) IsBillInactive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.billInactive
}

// SetBillInactive устанавливает флаг "ledger неактивен".
func (s *ShopkeeperExt) SetBillInactive(inactive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billInactive = inactive
}

// Customer возвращает имя последнего покупателя.
func (s *ShopkeeperExt) Customer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customer
}

// SetCustomer запоминает покупателя. Новое имя сбрасывает счётчик визитов.
func (s *ShopkeeperExt) SetCustomer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.customer != name {
		s.customer = name
		s.visitCount = 0
	}
	s.visitCount++
}

// VisitCount возвращает число визитов текущего покупателя.
func (s *ShopkeeperExt) VisitCount() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visitCount
}

// OutstandingBilled возвращает сумму всех живых bill entries.
func (s *ShopkeeperExt) OutstandingBilled() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for i := int32(0); i < s.billCount; i++ {
		total += s.bills[i].Total()
	}
	return total
}

// restore-only setters (используются db.ShopkeeperRepository при загрузке)

// RestoreTotals восстанавливает денежные счётчики из персистентного хранилища.
func (s *ShopkeeperExt) RestoreTotals(debit, credit, loan, robbed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debit = debit
	s.credit = credit
	s.loan = loan
	s.robbed = robbed
}

// RestoreFlags восстанавливает флаги состояния из персистентного хранилища.
func (s *ShopkeeperExt) RestoreFlags(following, surcharge, billInactive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.following = following
	s.surcharge = surcharge
	s.billInactive = billInactive
}

// RestoreCustomer восстанавливает имя покупателя и счётчик визитов.
func (s *ShopkeeperExt) RestoreCustomer(name string, visits int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customer = name
	s.visitCount = visits
}
