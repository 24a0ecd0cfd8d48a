package model

import "sync"

// ShopType определяет ассортимент магазина (какая weighted table используется
// при stocking и какой name list — при выборе имени shopkeeper'а).
//
// Phase 6.3: Shop Stocking.
type ShopType int8

const (
	ShopNone ShopType = iota // Комната не является магазином
	ShopGeneral
	ShopArmor
	ShopScroll
	ShopPotion
	ShopWeapon
	ShopFood
	ShopRing
	ShopWand
	ShopTool
	ShopBook
)

// String returns human-readable shop type name.
func (t ShopType) String() string {
	switch t {
	case ShopNone:
		return "None"
	case ShopGeneral:
		return "General"
	case ShopArmor:
		return "Armor"
	case ShopScroll:
		return "Scroll"
	case ShopPotion:
		return "Potion"
	case ShopWeapon:
		return "Weapon"
	case ShopFood:
		return "Food"
	case ShopRing:
		return "Ring"
	case ShopWand:
		return "Wand"
	case ShopTool:
		return "Tool"
	case ShopBook:
		return "Book"
	default:
		return "Unknown"
	}
}

// IsShop возвращает true для комнат-магазинов.
func (t ShopType) IsShop() bool {
	return t != ShopNone
}

// Rect — прямоугольные границы комнаты (inclusive).
type Rect struct {
	LowX, LowY   int32
	HighX, HighY int32
}

// Contains возвращает true если клетка внутри прямоугольника.
func (r Rect) Contains(pos Position) bool {
	return pos.X >= r.LowX && pos.X <= r.HighX && pos.Y >= r.LowY && pos.Y <= r.HighY
}

// Room — комната на уровне. Для магазинов хранит weak back-reference
// на resident shopkeeper'а (object ID, не указатель).
type Room struct {
	roomID   int32
	levelID  int32
	shopType ShopType
	bounds   Rect
	door     Position

	shopkeeperID uint32 // 0 = нет shopkeeper'а

	mu sync.RWMutex
}

// NewRoom создаёт комнату.
func NewRoom(roomID, levelID int32, shopType ShopType, bounds Rect, door Position) *Room {
	return &Room{
		roomID:   roomID,
		levelID:  levelID,
		shopType: shopType,
		bounds:   bounds,
		door:     door,
	}
}

// RoomID возвращает ID комнаты.
func (r *Room) RoomID() int32 { return r.roomID }

// LevelID возвращает ID уровня.
func (r *Room) LevelID() int32 { return r.levelID }

// ShopType возвращает тип магазина (ShopNone для обычных комнат).
func (r *Room) ShopType() ShopType { return r.shopType }

// Bounds возвращает границы комнаты.
func (r *Room) Bounds() Rect { return r.bounds }

// Door возвращает клетку двери.
func (r *Room) Door() Position { return r.door }

// Inside возвращает true если клетка внутри комнаты (дверь не считается).
func (r *Room) Inside(pos Position) bool {
	if pos == r.door {
		return false
	}
	return r.bounds.Contains(pos)
}

// ShopkeeperID возвращает object ID resident shopkeeper'а (0 если нет).
func (r *Room) ShopkeeperID() uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shopkeeperID
}

// SetShopkeeperID привязывает shopkeeper'а к комнате.
func (r *Room) SetShopkeeperID(objectID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shopkeeperID = objectID
}

// Level — уровень подземелья: комнаты плюс seed для stocking stream.
type Level struct {
	levelID int32
	depth   int32  // Глубина (влияет на mimic chance при stocking)
	seed    uint64 // Level-creation RNG stream, отделён от gameplay stream
	rooms   []*Room

	mu sync.RWMutex
}

// NewLevel создаёт уровень.
func NewLevel(levelID, depth int32, seed uint64) *Level {
	return &Level{
		levelID: levelID,
		depth:   depth,
		seed:    seed,
	}
}

// LevelID возвращает ID уровня.
func (l *Level) LevelID() int32 { return l.levelID }

// Depth возвращает глубину уровня.
func (l *Level) Depth() int32 { return l.depth }

// Seed возвращает seed для level-creation RNG stream.
func (l *Level) Seed() uint64 { return l.seed }

// AddRoom добавляет комнату на уровень.
func (l *Level) AddRoom(room *Room) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rooms = append(l.rooms, room)
}

// Rooms возвращает копию списка комнат.
func (l *Level) Rooms() []*Room {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Room, len(l.rooms))
	copy(out, l.rooms)
	return out
}

// RoomAt возвращает комнату, содержащую клетку (или nil).
func (l *Level) RoomAt(pos Position) *Room {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, room := range l.rooms {
		if room.bounds.Contains(pos) {
			return room
		}
	}
	return nil
}

// ShopAt возвращает комнату-магазин, внутри которой находится клетка
// (дверь не считается "внутри"). Возвращает nil если клетка вне магазинов.
func (l *Level) ShopAt(pos Position) *Room {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, room := range l.rooms {
		if room.shopType.IsShop() && room.Inside(pos) {
			return room
		}
	}
	return nil
}
