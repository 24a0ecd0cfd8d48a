package shop

import (
	"fmt"
	"os"
	"testing"

	"github.com/ekudrin/depths/internal/data"
	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

func TestMain(m *testing.M) {
	if err := data.LoadObjectDefs(); err != nil {
		fmt.Fprintf(os.Stderr, "LoadObjectDefs failed: %v\n", err)
		os.Exit(1)
	}
	if err := data.LoadShopTypes(); err != nil {
		fmt.Fprintf(os.Stderr, "LoadShopTypes failed: %v\n", err)
		os.Exit(1)
	}
	if err := data.LoadShopkeeperNames(); err != nil {
		fmt.Fprintf(os.Stderr, "LoadShopkeeperNames failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// recordingMessenger копит narration для проверок.
type recordingMessenger struct {
	msgs []string
}

func (r *recordingMessenger) Say(format string, args ...any) {
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

func (r *recordingMessenger) count() int {
	return len(r.msgs)
}

// testShop — готовая сцена: уровень с комнатой-магазином, shopkeeper
// за прилавком, игрок внутри магазина.
type testShop struct {
	session *Session
	level   *model.Level
	room    *model.Room
	mon     *model.Monster
	shk     *model.ShopkeeperExt
	msg     *recordingMessenger
}

func newTestShop(t *testing.T) *testShop {
	t.Helper()

	// Харизма 11 — нейтральный ценовой диапазон
	player, err := model.NewPlayer("Tester", model.RoleAdventurer, 11)
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}
	player.SetLevelID(1)
	player.SetPosition(model.NewPosition(4, 4))

	msg := &recordingMessenger{}
	arena := world.NewArena()
	session, err := NewSession(arena, player, 12345, msg)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	level := model.NewLevel(1, 1, 777)
	room := model.NewRoom(1, 1, model.ShopGeneral,
		model.Rect{LowX: 2, LowY: 2, HighX: 8, HighY: 6},
		model.NewPosition(9, 4))
	level.AddRoom(room)
	session.AddLevel(level)

	home := model.NewPosition(8, 4)
	mon := model.NewMonster(arena.IDGenerator().NextMonsterID(), "Asidonhopo", 1, home)
	shk := model.NewShopkeeperExt(1, 1, model.ShopGeneral, room.Door(), home)
	mon.AttachShopkeeper(shk)
	mon.AddGold(1000)
	if err := arena.AddMonster(mon); err != nil {
		t.Fatalf("AddMonster failed: %v", err)
	}
	room.SetShopkeeperID(mon.ObjectID())

	return &testShop{
		session: session,
		level:   level,
		room:    room,
		mon:     mon,
		shk:     shk,
		msg:     msg,
	}
}

// floorItem кладёт предмет на пол магазина.
func (ts *testShop) floorItem(t *testing.T, class model.ObjectClass, typ, qty int32) *model.Object {
	t.Helper()

	arena := ts.session.Arena()
	obj, err := model.NewObject(arena.IDGenerator().NextObjectID(),
		class, typ, qty, data.CostOf(class, typ))
	if err != nil {
		t.Fatalf("NewObject failed: %v", err)
	}
	if err := arena.AddObject(obj, world.Placement{
		List:    world.ListFloor,
		LevelID: 1,
		Pos:     model.NewPosition(4, 4),
	}); err != nil {
		t.Fatalf("AddObject failed: %v", err)
	}
	return obj
}

// billedItem кладёт предмет на пол и регистрирует его в ledger'е.
func (ts *testShop) billedItem(t *testing.T, class model.ObjectClass, typ, qty int32) *model.Object {
	t.Helper()

	obj := ts.floorItem(t, class, typ, qty)
	ts.session.AddToBill(obj, ts.mon, false)
	if !obj.IsUnpaid() {
		t.Fatalf("item not marked unpaid after billing")
	}
	return obj
}
