package model

import (
	"sync"
	"sync/atomic"
)

// Monster represents an NPC on a level. Shopkeepers are monsters carrying
// a ShopkeeperExt record (см. shopkeeper.go).
//
// Phase 6.2: Shop Commerce.
type Monster struct {
	objectID uint32
	name     string

	pos      Position
	levelID  int32
	peaceful atomic.Bool
	dead     atomic.Bool

	gold int64 // Наличность монстра (для shopkeeper — касса магазина)

	shk *ShopkeeperExt // nil для обычных монстров

	mu sync.RWMutex
}

// NewMonster creates a new Monster instance.
func NewMonster(objectID uint32, name string, levelID int32, pos Position) *Monster {
	m := &Monster{
		objectID: objectID,
		name:     name,
		levelID:  levelID,
		pos:      pos,
	}
	m.peaceful.Store(true)
	return m
}

// ObjectID returns the unique world ID.
func (m *Monster) ObjectID() uint32 {
	return m.objectID
}

// Name returns the monster's name.
func (m *Monster) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// SetName задаёт имя (shopkeeper получает имя из name tables при создании).
func (m *Monster) SetName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
}

// Position returns current position.
func (m *Monster) Position() Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pos
}

// SetPosition moves the monster.
func (m *Monster) SetPosition(pos Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = pos
}

// LevelID returns the dungeon level the monster is on.
func (m *Monster) LevelID() int32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.levelID
}

// IsPeaceful returns whether the monster is peaceful (atomic read).
func (m *Monster) IsPeaceful() bool {
	return m.peaceful.Load()
}

// SetPeaceful sets the peaceful flag (atomic write).
func (m *Monster) SetPeaceful(peaceful bool) {
	m.peaceful.Store(peaceful)
}

// IsDead returns whether the monster is dead.
func (m *Monster) IsDead() bool {
	return m.dead.Load()
}

// SetDead marks the monster as dead.
func (m *Monster) SetDead(dead bool) {
	m.dead.Store(dead)
}

// Gold returns the monster's cash on hand.
func (m *Monster) Gold() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gold
}

// AddGold изменяет наличность монстра (delta может быть отрицательной).
// Отрицательный итог обрезается в ноль.
func (m *Monster) AddGold(delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gold += delta
	if m.gold < 0 {
		m.gold = 0
	}
}

// Shopkeeper возвращает shop extension record (nil для обычных монстров).
func (m *Monster) Shopkeeper() *ShopkeeperExt {
	return m.shk
}

// AttachShopkeeper присоединяет shop extension к монстру.
func (m *Monster) AttachShopkeeper(shk *ShopkeeperExt) {
	m.shk = shk
}

// IsShopkeeper returns true if the monster tends a shop.
func (m *Monster) IsShopkeeper() bool {
	return m.shk != nil
}
