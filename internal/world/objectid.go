package world

import "sync/atomic"

// ObjectIDGenerator generates unique object IDs for all world entities.
// Centralized generation prevents collisions between monsters and items.
//
// ID ranges (convention):
//   0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid/mock objects)
//   0x10000000 - 0x1FFFFFFF: Monsters (268M IDs)
//   0x20000000 - 0xFFFFFFFF: Objects/items (3.7B IDs)
type ObjectIDGenerator struct {
	nextMonsterID atomic.Uint32
	nextObjectID  atomic.Uint32
}

// Базы диапазонов ID.
const (
	MonsterIDBase uint32 = 0x10000000
	ObjectIDBase  uint32 = 0x20000000
)

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextMonsterID.Store(MonsterIDBase)
	gen.nextObjectID.Store(ObjectIDBase)
	return gen
}

// NextMonsterID generates next unique monster object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextMonsterID() uint32 {
	return g.nextMonsterID.Add(1)
}

// NextObjectID generates next unique item object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextObjectID() uint32 {
	return g.nextObjectID.Add(1)
}
