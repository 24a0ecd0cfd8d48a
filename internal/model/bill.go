package model

// BillEntry — запись в ledger shopkeeper'а: привязка object ID к количеству
// и цене за единицу.
//
// Object ID — стабильный handle, не указатель: запись переживает перемещения
// предмета между списками (пол, инвентарь, контейнер) без dangling reference.
//
// Phase 6.2: Shop Commerce.
type BillEntry struct {
	ObjectID  uint32 // Стабильный handle предмета
	Quantity  int32  // Сколько единиц числится за игроком
	UnitPrice int64  // Цена за единицу на момент регистрации
	UsedUp    bool   // Предмет полностью израсходован, осталась только запись
}

// Total возвращает полную стоимость записи.
func (b BillEntry) Total() int64 {
	return int64(b.Quantity) * b.UnitPrice
}
