package model

import (
	"fmt"
	"sync"
)

// Role определяет класс персонажа игрока.
// Для commerce-подсистемы значимы Tourist (наценка за внешний вид)
// и Rogue (воровство без alignment penalty).
type Role int8

const (
	RoleAdventurer Role = iota
	RoleTourist
	RoleRogue
	RolePriest
	RoleKnight
)

// String returns human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleAdventurer:
		return "Adventurer"
	case RoleTourist:
		return "Tourist"
	case RoleRogue:
		return "Rogue"
	case RolePriest:
		return "Priest"
	case RoleKnight:
		return "Knight"
	default:
		return "Unknown"
	}
}

// TheftExempt возвращает true если роль допускает воровство
// без alignment penalty.
func (r Role) TheftExempt() bool {
	return r == RoleRogue
}

// Player — состояние персонажа игрока, видимое commerce-подсистеме:
// позиция, деньги, атрибуты, влияющие на цены.
//
// Phase 6.2: Shop Commerce.
type Player struct {
	name    string
	role    Role
	pos     Position
	levelID int32

	gold      int64
	charisma  int8  // 3..18
	alignment int32 // Alignment record (воровство уменьшает)
	expLevel  int32 // Experience level (novice Tourist получает наценку)

	dunceCap bool // Видимый глупый колпак: shopkeeper завышает цены

	mu sync.RWMutex
}

// NewPlayer создаёт персонажа с валидацией.
func NewPlayer(name string, role Role, charisma int8) (*Player, error) {
	if name == "" {
		return nil, fmt.Errorf("player name cannot be empty")
	}
	if charisma < 3 || charisma > 18 {
		return nil, fmt.Errorf("charisma must be in [3,18], got %d", charisma)
	}

	return &Player{
		name:     name,
		role:     role,
		charisma: charisma,
		expLevel: 1,
	}, nil
}

// Name returns the player's name.
func (p *Player) Name() string { return p.name }

// Role returns the player's role.
func (p *Player) Role() Role { return p.role }

// Position returns current position.
func (p *Player) Position() Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pos
}

// SetPosition moves the player.
func (p *Player) SetPosition(pos Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pos
}

// LevelID returns the dungeon level the player is on.
func (p *Player) LevelID() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.levelID
}

// SetLevelID перемещает игрока на другой уровень.
func (p *Player) SetLevelID(levelID int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levelID = levelID
}

// Gold returns the player's cash on hand.
func (p *Player) Gold() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gold
}

// AddGold увеличивает наличность игрока.
func (p *Player) AddGold(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("gold amount must be >= 0, got %d", amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gold += amount
	return nil
}

// SpendGold списывает наличность. Возвращает ошибку при нехватке денег.
func (p *Player) SpendGold(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("gold amount must be > 0, got %d", amount)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gold < amount {
		return fmt.Errorf("not enough gold: have %d, need %d", p.gold, amount)
	}
	p.gold -= amount
	return nil
}

// Charisma возвращает харизму (3..18).
func (p *Player) Charisma() int8 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.charisma
}

// SetCharisma устанавливает харизму с валидацией.
func (p *Player) SetCharisma(charisma int8) error {
	if charisma < 3 || charisma > 18 {
		return fmt.Errorf("charisma must be in [3,18], got %d", charisma)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charisma = charisma
	return nil
}

// Alignment возвращает alignment record.
func (p *Player) Alignment() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.alignment
}

// AdjustAlignment изменяет alignment record (delta может быть отрицательной).
func (p *Player) AdjustAlignment(delta int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alignment += delta
}

// ExpLevel возвращает experience level.
func (p *Player) ExpLevel() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.expLevel
}

// SetExpLevel устанавливает experience level.
func (p *Player) SetExpLevel(level int32) error {
	if level < 1 {
		return fmt.Errorf("experience level must be >= 1, got %d", level)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expLevel = level
	return nil
}

// HasDunceCap возвращает true если игрок носит видимый глупый колпак.
func (p *Player) HasDunceCap() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dunceCap
}

// SetDunceCap надевает/снимает глупый колпак.
func (p *Player) SetDunceCap(wearing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dunceCap = wearing
}

// Gullible возвращает true если shopkeeper видит повод завысить цену:
// глупый колпак или неопытный турист.
func (p *Player) Gullible() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dunceCap || (p.role == RoleTourist && p.expLevel < 15)
}
