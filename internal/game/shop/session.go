// Package shop реализует commerce-подсистему: billing ledger, pricing,
// hostility state machine, транзакционный протокол оплаты и stocking
// магазинов при генерации уровня.
//
// Phase 6.2: Shop Commerce.
package shop

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

// Session — контекст одной игровой сессии для всех billing-операций.
// Всё module-level mutable state оригинального дизайна (pursuit throttle,
// pay mode) живёт здесь: независимые сессии не разделяют состояние.
type Session struct {
	gameID uuid.UUID

	arena  *world.Arena
	levels map[int32]*model.Level
	player *model.Player

	rng       *rand.Rand // Gameplay stream (не используется при stocking)
	decoySeed uint64     // Фиксированный per-game seed для decoy-цен камней

	msg Messenger

	// ownerIndex: object ID → monster ID shopkeeper'а, в чьём ledger
	// числится предмет. O(1) замена линейного скана по всем shopkeeper'ам.
	ownerIndex map[uint32]uint32

	mimicCap int // Потолок шанса мимика при stocking (percent, 0 = без мимиков)

	turn            int64 // Номер текущего хода
	lastPursuitTurn int64 // Throttle для сообщений преследования
	damageFiredTurn int64 // Ход последнего damage-триггера (см. DetectTheft)
}

// NewSession создаёт контекст игровой сессии.
// seed задаёт gameplay RNG stream и decoy seed; msg == nil означает
// логирование narration через slog.
func NewSession(arena *world.Arena, player *model.Player, seed uint64, msg Messenger) (*Session, error) {
	if arena == nil {
		return nil, fmt.Errorf("arena cannot be nil")
	}
	if player == nil {
		return nil, fmt.Errorf("player cannot be nil")
	}
	if msg == nil {
		msg = &SlogMessenger{}
	}

	return &Session{
		gameID:     uuid.New(),
		arena:      arena,
		levels:     make(map[int32]*model.Level),
		player:     player,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		decoySeed:  seed * 0x2545f4914f6cdd1d,
		msg:        msg,
		ownerIndex: make(map[uint32]uint32),
		mimicCap:   defaultMimicCap,

		lastPursuitTurn: -5,
		damageFiredTurn: -1,
	}, nil
}

// GameID возвращает уникальный ID сессии.
func (s *Session) GameID() uuid.UUID {
	return s.gameID
}

// Arena возвращает арену объектов сессии.
func (s *Session) Arena() *world.Arena {
	return s.arena
}

// Player возвращает персонажа сессии.
func (s *Session) Player() *model.Player {
	return s.player
}

// AddLevel регистрирует уровень в сессии.
func (s *Session) AddLevel(level *model.Level) {
	s.levels[level.LevelID()] = level
}

// LevelByID возвращает уровень по ID (nil если не зарегистрирован).
func (s *Session) LevelByID(levelID int32) *model.Level {
	return s.levels[levelID]
}

// Turn возвращает номер текущего хода.
func (s *Session) Turn() int64 {
	return s.turn
}

// AdvanceTurn продвигает счётчик ходов.
func (s *Session) AdvanceTurn() {
	s.turn++
}

// impossible сообщает о нарушении программного инварианта в diagnostic
// channel. Система никогда не завершается из-за учётной несогласованности:
// caller обязан выполнить best-effort recovery (обычно no-op).
func (s *Session) impossible(format string, args ...any) {
	slog.Error("impossible",
		"game_id", s.gameID,
		"turn", s.turn,
		"detail", fmt.Sprintf(format, args...))
}

// shopkeeperOf возвращает монстра-shopkeeper'а, в чьём ledger числится
// объект (nil если объект никому не должен).
func (s *Session) shopkeeperOf(objectID uint32) *model.Monster {
	shkID, ok := s.ownerIndex[objectID]
	if !ok {
		return nil
	}
	mon := s.arena.GetMonster(shkID)
	if mon == nil || !mon.IsShopkeeper() {
		s.impossible("owner index references missing shopkeeper %d for object %d", shkID, objectID)
		delete(s.ownerIndex, objectID)
		return nil
	}
	return mon
}

// residentShopkeeper возвращает shopkeeper'а комнаты (nil если комната
// не магазин или торговец мёртв).
func (s *Session) residentShopkeeper(room *model.Room) *model.Monster {
	if room == nil || !room.ShopType().IsShop() {
		return nil
	}
	shkID := room.ShopkeeperID()
	if shkID == 0 {
		return nil
	}
	mon := s.arena.GetMonster(shkID)
	if mon == nil || mon.IsDead() {
		return nil
	}
	return mon
}

// currentShop возвращает комнату-магазин, внутри которой стоит игрок
// (nil если игрок не в магазине).
func (s *Session) currentShop() *model.Room {
	level := s.levels[s.player.LevelID()]
	if level == nil {
		return nil
	}
	return level.ShopAt(s.player.Position())
}
