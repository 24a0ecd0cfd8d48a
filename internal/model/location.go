package model

// Position представляет клетку на карте уровня.
// Value type, передаётся по значению (immutable).
type Position struct {
	X int32
	Y int32
}

// NewPosition создаёт Position с указанными координатами.
func NewPosition(x, y int32) Position {
	return Position{X: x, Y: y}
}

// Adjacent возвращает true если другая клетка находится в пределах одного
// шага (включая диагонали и саму клетку).
func (p Position) Adjacent(other Position) bool {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

// DistanceSquared возвращает квадрат расстояния до другой клетки (без sqrt).
func (p Position) DistanceSquared(other Position) int64 {
	dx := int64(p.X - other.X)
	dy := int64(p.Y - other.Y)
	return dx*dx + dy*dy
}
