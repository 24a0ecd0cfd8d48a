package shop

import (
	"fmt"
	"math/rand/v2"

	"github.com/ekudrin/depths/internal/data"
	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

// Stocking generator: наполняет магазин товаром при создании уровня.
//
// Используется отдельный RNG stream, выведенный из level seed'а и room ID:
// содержимое магазина стабильно при save/restore и не возмущает
// последовательности gameplay stream'а.

// defaultMimicCap ограничивает depth-scaled шанс мимика, если конфигурация
// не задала свой потолок.
const defaultMimicCap = 10

// SetMimicChanceCap задаёт потолок шанса мимика в процентах.
// 0 полностью отключает мимиков; отрицательные значения игнорируются.
func (s *Session) SetMimicChanceCap(limit int) {
	if limit < 0 {
		return
	}
	s.mimicCap = limit
}

// StockLevel создаёт shopkeeper'а и товар для каждой комнаты-магазина уровня.
func (s *Session) StockLevel(level *model.Level) error {
	if level == nil {
		return fmt.Errorf("level cannot be nil")
	}
	s.AddLevel(level)

	for _, room := range level.Rooms() {
		if !room.ShopType().IsShop() {
			continue
		}
		if _, err := s.CreateShop(level, room); err != nil {
			return fmt.Errorf("stocking room %d: %w", room.RoomID(), err)
		}
	}
	return nil
}

// CreateShop создаёт shopkeeper'а комнаты и раскладывает товар по клеткам.
func (s *Session) CreateShop(level *model.Level, room *model.Room) (*model.Monster, error) {
	if data.ShopTypeTable[room.ShopType()] == nil {
		return nil, fmt.Errorf("unknown shop type %v", room.ShopType())
	}

	// Level-creation stream: отделён от gameplay RNG
	rng := rand.New(rand.NewPCG(level.Seed(), uint64(room.RoomID())<<16|uint64(level.LevelID())))

	home := counterPosition(room)
	name := AssignShopkeeperName(room.ShopType(), level, room)

	mon := model.NewMonster(s.arena.IDGenerator().NextMonsterID(), name, level.LevelID(), home)
	mon.AttachShopkeeper(model.NewShopkeeperExt(
		room.RoomID(), level.LevelID(), room.ShopType(), room.Door(), home))
	mon.AddGold(1000 + int64(rng.IntN(1000)))

	if err := s.arena.AddMonster(mon); err != nil {
		return nil, fmt.Errorf("registering shopkeeper: %w", err)
	}
	room.SetShopkeeperID(mon.ObjectID())

	bounds := room.Bounds()
	for y := bounds.LowY; y <= bounds.HighY; y++ {
		for x := bounds.LowX; x <= bounds.HighX; x++ {
			pos := model.NewPosition(x, y)
			if !stockable(room, home, pos) {
				continue
			}
			if err := s.stockTile(level, room, pos, rng); err != nil {
				return nil, err
			}
		}
	}

	return mon, nil
}

// counterPosition выбирает прилавок: внутренняя клетка, ближайшая к двери
// (дверь лежит на стене, вне bounds).
func counterPosition(room *model.Room) model.Position {
	b := room.Bounds()
	door := room.Door()
	return model.NewPosition(
		min(max(door.X, b.LowX), b.HighX),
		min(max(door.Y, b.LowY), b.HighY),
	)
}

// stockable возвращает true для клеток, пригодных под товар: не дверь,
// не прилавок, не клетки, примыкающие к двери (проход должен оставаться
// свободным).
func stockable(room *model.Room, home, pos model.Position) bool {
	if pos == home || pos == room.Door() {
		return false
	}
	return !pos.Adjacent(room.Door())
}

// stockTile выполняет weighted draw для одной клетки и кладёт на неё товар
// или мимика, замаскированного под товар.
func (s *Session) stockTile(level *model.Level, room *model.Room, pos model.Position, rng *rand.Rand) error {
	// Мимик вместо товара: шанс растёт с глубиной до настроенного потолка
	mimicChance := 3 + int(level.Depth())/3
	if mimicChance > s.mimicCap {
		mimicChance = s.mimicCap
	}
	if rng.IntN(100) < mimicChance {
		mimic := model.NewMonster(s.arena.IDGenerator().NextMonsterID(), "mimic",
			level.LevelID(), pos)
		mimic.SetPeaceful(false)
		if err := s.arena.AddMonster(mimic); err != nil {
			return fmt.Errorf("placing mimic: %w", err)
		}
		return nil
	}

	class, typ := drawStock(room.ShopType(), rng)
	if class == model.ClassRandom || class == model.ClassGold {
		return nil // пустая клетка
	}

	quantity := int32(1)
	if class.Mergeable() {
		quantity = 1 + rng.Int32N(3)
	}

	obj, err := model.NewObject(s.arena.IDGenerator().NextObjectID(),
		class, typ, quantity, data.CostOf(class, typ))
	if err != nil {
		return fmt.Errorf("creating merchandise: %w", err)
	}

	if err := s.arena.AddObject(obj, world.Placement{
		List:    world.ListFloor,
		LevelID: level.LevelID(),
		Pos:     pos,
	}); err != nil {
		return fmt.Errorf("placing merchandise: %w", err)
	}
	return nil
}

// drawStock выполняет weighted draw по таблице типа магазина.
// Class code разворачивается в случайный specific type класса;
// отрицательный code — в конкретный тип.
func drawStock(shopType model.ShopType, rng *rand.Rand) (model.ObjectClass, int32) {
	table := data.StockTable(shopType)
	if len(table) == 0 {
		return model.ClassRandom, 0
	}

	roll := rng.Int32N(100)
	var acc int32
	code := table[len(table)-1].Code
	for _, e := range table {
		acc += e.Prob
		if roll < acc {
			code = e.Code
			break
		}
	}

	class, typ, specific := data.DecodeStockCode(code)
	if specific {
		return class, typ
	}

	if class == model.ClassRandom {
		class = data.StockableClasses[rng.IntN(len(data.StockableClasses))]
	}
	types := data.TypesOfClass(class)
	if len(types) == 0 {
		return model.ClassRandom, 0
	}
	return class, types[rng.IntN(len(types))]
}

// AssignShopkeeperName выбирает имя shopkeeper'а детерминированно по
// координате уровня и комнаты: одна и та же комната всегда получает
// одно и то же имя.
func AssignShopkeeperName(shopType model.ShopType, level *model.Level, room *model.Room) string {
	idx := level.Depth()*3 + room.RoomID()
	if idx < 0 {
		idx = 0
	}
	return data.ShopkeeperName(shopType, idx)
}
