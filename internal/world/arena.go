package world

import (
	"fmt"
	"sync"

	"github.com/ekudrin/depths/internal/model"
)

// ListKind определяет список, в котором сейчас находится объект.
type ListKind int8

const (
	ListFree       ListKind = iota // Объект освобождён (удалён из мира)
	ListFloor                      // Лежит на полу уровня
	ListPlayerInv                  // В инвентаре игрока
	ListMonsterInv                 // В инвентаре монстра
	ListContainer                  // Внутри контейнера
	ListMigrating                  // In transit между уровнями
)

// String returns human-readable list name.
func (k ListKind) String() string {
	switch k {
	case ListFree:
		return "Free"
	case ListFloor:
		return "Floor"
	case ListPlayerInv:
		return "PlayerInventory"
	case ListMonsterInv:
		return "MonsterInventory"
	case ListContainer:
		return "Container"
	case ListMigrating:
		return "Migrating"
	default:
		return "Unknown"
	}
}

// Placement описывает текущее положение объекта в мире.
type Placement struct {
	List    ListKind
	LevelID int32          // Для ListFloor и ListMigrating
	Pos     model.Position // Для ListFloor
	HolderID uint32        // Monster ID (ListMonsterInv) или container ID (ListContainer)
}

// Arena — реестр всех живых объектов и монстров одной игровой сессии,
// keyed по стабильному object ID. Ledger хранит IDs, а не указатели, поэтому
// split/merge/free не оставляют dangling references.
//
// Phase 6.1: Object Arena.
type Arena struct {
	gen *ObjectIDGenerator

	mu         sync.RWMutex
	objects    map[uint32]*model.Object
	placements map[uint32]Placement
	monsters   map[uint32]*model.Monster
}

// NewArena создаёт пустую арену со своим ID generator.
// Каждая игровая сессия владеет собственной ареной: состояние между
// сессиями не разделяется.
func NewArena() *Arena {
	return &Arena{
		gen:        NewObjectIDGenerator(),
		objects:    make(map[uint32]*model.Object),
		placements: make(map[uint32]Placement),
		monsters:   make(map[uint32]*model.Monster),
	}
}

// IDGenerator возвращает генератор IDs этой арены.
func (a *Arena) IDGenerator() *ObjectIDGenerator {
	return a.gen
}

// AddObject регистрирует объект в арене с указанным placement.
func (a *Arena) AddObject(obj *model.Object, placement Placement) error {
	if obj == nil {
		return fmt.Errorf("object cannot be nil")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	objectID := obj.ObjectID()
	if _, exists := a.objects[objectID]; exists {
		return fmt.Errorf("object %d already registered", objectID)
	}

	a.objects[objectID] = obj
	a.placements[objectID] = placement
	return nil
}

// Get возвращает объект по ID (nil если не найден или освобождён).
func (a *Arena) Get(objectID uint32) *model.Object {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.objects[objectID]
}

// PlacementOf возвращает текущее положение объекта.
func (a *Arena) PlacementOf(objectID uint32) (Placement, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.placements[objectID]
	return p, ok
}

// Place перемещает объект в другой список.
// Перемещение освобождённого объекта — ошибка.
func (a *Arena) Place(objectID uint32, placement Placement) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.objects[objectID]; !exists {
		return fmt.Errorf("object %d not registered", objectID)
	}
	a.placements[objectID] = placement
	return nil
}

// Free освобождает объект: удаляет из арены и из контейнера-владельца.
// Содержимое освобождаемого контейнера высыпается на пол в той же клетке.
func (a *Arena) Free(objectID uint32) *model.Object {
	a.mu.Lock()

	obj, exists := a.objects[objectID]
	if !exists {
		a.mu.Unlock()
		return nil
	}

	placement := a.placements[objectID]
	delete(a.objects, objectID)
	delete(a.placements, objectID)

	// Содержимое контейнера — на пол
	var spill []uint32
	if obj.IsContainer() {
		spill = obj.Contents()
		for _, id := range spill {
			if _, ok := a.objects[id]; ok {
				a.placements[id] = Placement{
					List:    ListFloor,
					LevelID: placement.LevelID,
					Pos:     placement.Pos,
				}
			}
		}
	}
	a.mu.Unlock()

	// Убираем из контейнера-владельца (вне lock: RemoveContent лочит объект)
	if placement.List == ListContainer {
		if holder := a.Get(placement.HolderID); holder != nil {
			holder.RemoveContent(objectID)
		}
	}

	return obj
}

// Split отделяет quantity единиц от стака в новый объект с новым ID.
// Новый объект наследует все флаги (включая unpaid и noCharge) и placement
// оригинала. Bill entry оригинала должен разделить caller (game/shop.SplitBill).
func (a *Arena) Split(objectID uint32, quantity int32) (*model.Object, error) {
	orig := a.Get(objectID)
	if orig == nil {
		return nil, fmt.Errorf("object %d not registered", objectID)
	}
	if quantity <= 0 || quantity >= orig.Quantity() {
		return nil, fmt.Errorf("split quantity %d out of range (0,%d)", quantity, orig.Quantity())
	}

	twin, err := model.NewObject(a.gen.NextObjectID(), orig.Class(), orig.Type(), quantity, orig.BaseCost())
	if err != nil {
		return nil, fmt.Errorf("creating split twin: %w", err)
	}
	twin.SetArtifact(orig.IsArtifact())
	twin.SetIdentified(orig.IsIdentified())
	twin.SetUnpaid(orig.IsUnpaid())
	twin.SetNoCharge(orig.IsNoCharge())

	if err := orig.SetQuantity(orig.Quantity() - quantity); err != nil {
		return nil, fmt.Errorf("shrinking original stack: %w", err)
	}

	placement, _ := a.PlacementOf(objectID)
	if err := a.AddObject(twin, placement); err != nil {
		return nil, fmt.Errorf("registering split twin: %w", err)
	}
	if placement.List == ListContainer {
		if holder := a.Get(placement.HolderID); holder != nil {
			holder.AddContent(twin.ObjectID())
		}
	}

	return twin, nil
}

// Merge вливает стак src в стак dst (одинаковый класс и тип), освобождая src.
// Caller обязан предварительно слить bill entries (game/shop).
func (a *Arena) Merge(dstID, srcID uint32) error {
	dst := a.Get(dstID)
	src := a.Get(srcID)
	if dst == nil || src == nil {
		return fmt.Errorf("merge participants not registered: dst=%d src=%d", dstID, srcID)
	}
	if dst.Class() != src.Class() || dst.Type() != src.Type() {
		return fmt.Errorf("cannot merge %v/%d into %v/%d",
			src.Class(), src.Type(), dst.Class(), dst.Type())
	}
	if !dst.Class().Mergeable() {
		return fmt.Errorf("class %v is not mergeable", dst.Class())
	}

	if err := dst.SetQuantity(dst.Quantity() + src.Quantity()); err != nil {
		return fmt.Errorf("growing destination stack: %w", err)
	}
	a.Free(srcID)
	return nil
}

// ForEachObject вызывает fn для каждого живого объекта.
// Порядок обхода не определён.
func (a *Arena) ForEachObject(fn func(obj *model.Object, placement Placement)) {
	a.mu.RLock()
	snapshot := make([]uint32, 0, len(a.objects))
	for id := range a.objects {
		snapshot = append(snapshot, id)
	}
	a.mu.RUnlock()

	for _, id := range snapshot {
		a.mu.RLock()
		obj, ok := a.objects[id]
		placement := a.placements[id]
		a.mu.RUnlock()
		if ok {
			fn(obj, placement)
		}
	}
}

// ObjectsAt возвращает объекты, лежащие на полу в указанной клетке уровня.
func (a *Arena) ObjectsAt(levelID int32, pos model.Position) []*model.Object {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []*model.Object
	for id, p := range a.placements {
		if p.List == ListFloor && p.LevelID == levelID && p.Pos == pos {
			out = append(out, a.objects[id])
		}
	}
	return out
}

// ObjectCount возвращает число живых объектов.
func (a *Arena) ObjectCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.objects)
}

// AddMonster регистрирует монстра в арене.
func (a *Arena) AddMonster(m *model.Monster) error {
	if m == nil {
		return fmt.Errorf("monster cannot be nil")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.monsters[m.ObjectID()]; exists {
		return fmt.Errorf("monster %d already registered", m.ObjectID())
	}
	a.monsters[m.ObjectID()] = m
	return nil
}

// GetMonster возвращает монстра по ID (nil если не найден).
func (a *Arena) GetMonster(objectID uint32) *model.Monster {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.monsters[objectID]
}

// RemoveMonster удаляет монстра из арены (смерть).
// Инвентарь монстра высыпается на пол в его клетке.
func (a *Arena) RemoveMonster(objectID uint32) *model.Monster {
	a.mu.Lock()

	m, exists := a.monsters[objectID]
	if !exists {
		a.mu.Unlock()
		return nil
	}
	delete(a.monsters, objectID)

	pos := m.Position()
	levelID := m.LevelID()
	for id, p := range a.placements {
		if p.List == ListMonsterInv && p.HolderID == objectID {
			a.placements[id] = Placement{List: ListFloor, LevelID: levelID, Pos: pos}
		}
	}
	a.mu.Unlock()

	return m
}

// Monsters возвращает копию списка всех монстров.
func (a *Arena) Monsters() []*model.Monster {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*model.Monster, 0, len(a.monsters))
	for _, m := range a.monsters {
		out = append(out, m)
	}
	return out
}

// Shopkeepers возвращает всех монстров-торговцев.
func (a *Arena) Shopkeepers() []*model.Monster {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []*model.Monster
	for _, m := range a.monsters {
		if m.IsShopkeeper() {
			out = append(out, m)
		}
	}
	return out
}
