package model

import (
	"fmt"
	"sync"
)

// Object — конкретный экземпляр игрового предмета (stack).
// Может лежать на полу, в инвентаре игрока/монстра, внутри контейнера
// или находиться в transit между уровнями.
//
// Phase 6.1: Object Arena.
type Object struct {
	objectID uint32 // Unique ID в world (стабильный handle, не указатель)
	class    ObjectClass
	typ      int32 // Specific type внутри класса (индекс в data tables)
	quantity int32 // Stack count (>= 1 пока объект жив)
	baseCost int64 // Базовая стоимость за единицу (из data.CostOf)

	artifact   bool // Уникальный артефакт (x4 к цене)
	identified bool // Тип опознан игроком (влияет на decoy-цены камней)

	unpaid   bool // Числится в чьём-то bill
	noCharge bool // Содержимое поднятого контейнера: в магазине, но не биллится

	contents []uint32 // Object IDs внутри (только для контейнеров)

	mu sync.RWMutex
}

// NewObject создаёт новый предмет с валидацией.
func NewObject(objectID uint32, class ObjectClass, typ int32, quantity int32, baseCost int64) (*Object, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be > 0, got %d", quantity)
	}
	if baseCost < 0 {
		return nil, fmt.Errorf("base cost cannot be negative, got %d", baseCost)
	}

	return &Object{
		objectID: objectID,
		class:    class,
		typ:      typ,
		quantity: quantity,
		baseCost: baseCost,
	}, nil
}

// ObjectID возвращает стабильный unique ID предмета.
func (o *Object) ObjectID() uint32 {
	return o.objectID
}

// Class возвращает класс предмета.
func (o *Object) Class() ObjectClass {
	return o.class
}

// Type возвращает specific type внутри класса.
func (o *Object) Type() int32 {
	return o.typ
}

// Quantity возвращает stack count.
func (o *Object) Quantity() int32 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.quantity
}

// SetQuantity устанавливает stack count с валидацией.
func (o *Object) SetQuantity(quantity int32) error {
	if quantity < 0 {
		return fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.quantity = quantity
	return nil
}

// BaseCost возвращает базовую стоимость за единицу.
func (o *Object) BaseCost() int64 {
	return o.baseCost
}

// IsArtifact возвращает true для уникальных артефактов.
func (o *Object) IsArtifact() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.artifact
}

// SetArtifact помечает предмет как артефакт.
func (o *Object) SetArtifact(artifact bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.artifact = artifact
}

// IsIdentified возвращает true если тип предмета опознан.
func (o *Object) IsIdentified() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.identified
}

// SetIdentified помечает тип предмета как опознанный.
func (o *Object) SetIdentified(identified bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.identified = identified
}

// IsUnpaid возвращает true если предмет числится в bill у какого-то shopkeeper.
func (o *Object) IsUnpaid() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.unpaid
}

// SetUnpaid устанавливает unpaid флаг.
// Инвариант: unpaid == true тогда и только тогда, когда существует живой
// bill entry с этим objectID (поддерживается пакетом game/shop).
func (o *Object) SetUnpaid(unpaid bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unpaid = unpaid
}

// IsNoCharge возвращает true для содержимого поднятого контейнера,
// которое лежит в магазине, но не подлежит биллингу.
func (o *Object) IsNoCharge() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.noCharge
}

// SetNoCharge устанавливает no-charge маркер.
func (o *Object) SetNoCharge(noCharge bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.noCharge = noCharge
}

// IsContainer возвращает true если предмет может содержать другие предметы.
func (o *Object) IsContainer() bool {
	return o.class == ClassTool && o.typ == TypeChest || o.class == ClassTool && o.typ == TypeSack
}

// Contents возвращает копию списка object IDs внутри контейнера.
func (o *Object) Contents() []uint32 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(o.contents) == 0 {
		return nil
	}
	out := make([]uint32, len(o.contents))
	copy(out, o.contents)
	return out
}

// AddContent добавляет object ID в контейнер.
func (o *Object) AddContent(objectID uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.contents = append(o.contents, objectID)
}

// RemoveContent удаляет object ID из контейнера.
// Возвращает false если ID не найден.
func (o *Object) RemoveContent(objectID uint32) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, id := range o.contents {
		if id == objectID {
			o.contents = append(o.contents[:i], o.contents[i+1:]...)
			return true
		}
	}
	return false
}
