package world

import (
	"testing"

	"github.com/ekudrin/depths/internal/model"
)

func newFloorObject(t *testing.T, a *Arena, class model.ObjectClass, typ, qty int32) *model.Object {
	t.Helper()

	obj, err := model.NewObject(a.IDGenerator().NextObjectID(), class, typ, qty, 10)
	if err != nil {
		t.Fatalf("NewObject failed: %v", err)
	}
	if err := a.AddObject(obj, Placement{List: ListFloor, LevelID: 1, Pos: model.NewPosition(3, 3)}); err != nil {
		t.Fatalf("AddObject failed: %v", err)
	}
	return obj
}

func TestAddGetPlace(t *testing.T) {
	a := NewArena()
	obj := newFloorObject(t, a, model.ClassPotion, 1, 1)

	if a.Get(obj.ObjectID()) != obj {
		t.Error("Get did not return the registered object")
	}
	if err := a.AddObject(obj, Placement{List: ListFloor}); err == nil {
		t.Error("AddObject accepted duplicate registration")
	}

	if err := a.Place(obj.ObjectID(), Placement{List: ListPlayerInv}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	p, ok := a.PlacementOf(obj.ObjectID())
	if !ok || p.List != ListPlayerInv {
		t.Errorf("placement = %+v, want player inventory", p)
	}

	if err := a.Place(9999, Placement{}); err == nil {
		t.Error("Place accepted unregistered object")
	}
}

func TestFreeSpillsContainer(t *testing.T) {
	a := NewArena()
	sack := newFloorObject(t, a, model.ClassTool, model.TypeSack, 1)
	inner := newFloorObject(t, a, model.ClassPotion, 1, 1)
	sack.AddContent(inner.ObjectID())
	if err := a.Place(inner.ObjectID(), Placement{List: ListContainer, HolderID: sack.ObjectID()}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	a.Free(sack.ObjectID())

	if a.Get(sack.ObjectID()) != nil {
		t.Error("freed container still registered")
	}
	p, ok := a.PlacementOf(inner.ObjectID())
	if !ok || p.List != ListFloor {
		t.Errorf("spilled content placement = %+v, want floor", p)
	}
}

func TestSplitInheritsFlags(t *testing.T) {
	a := NewArena()
	obj := newFloorObject(t, a, model.ClassPotion, 1, 5)
	obj.SetUnpaid(true)
	obj.SetIdentified(true)

	twin, err := a.Split(obj.ObjectID(), 2)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if obj.Quantity() != 3 || twin.Quantity() != 2 {
		t.Errorf("quantities %d/%d, want 3/2", obj.Quantity(), twin.Quantity())
	}
	if twin.ObjectID() == obj.ObjectID() {
		t.Error("twin shares object ID with original")
	}
	if !twin.IsUnpaid() || !twin.IsIdentified() {
		t.Error("twin did not inherit flags")
	}
	p, _ := a.PlacementOf(twin.ObjectID())
	if p.List != ListFloor {
		t.Errorf("twin placement = %v, want floor", p.List)
	}

	if _, err := a.Split(obj.ObjectID(), 3); err == nil {
		t.Error("Split accepted quantity equal to the whole stack")
	}
}

func TestMerge(t *testing.T) {
	a := NewArena()
	dst := newFloorObject(t, a, model.ClassPotion, 1, 2)
	src := newFloorObject(t, a, model.ClassPotion, 1, 3)

	if err := a.Merge(dst.ObjectID(), src.ObjectID()); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if dst.Quantity() != 5 {
		t.Errorf("merged quantity = %d, want 5", dst.Quantity())
	}
	if a.Get(src.ObjectID()) != nil {
		t.Error("source stack survived merge")
	}

	sword := newFloorObject(t, a, model.ClassWeapon, 1, 1)
	other := newFloorObject(t, a, model.ClassWeapon, 1, 1)
	if err := a.Merge(sword.ObjectID(), other.ObjectID()); err == nil {
		t.Error("Merge accepted non-mergeable class")
	}

	scroll := newFloorObject(t, a, model.ClassScroll, 1, 1)
	if err := a.Merge(dst.ObjectID(), scroll.ObjectID()); err == nil {
		t.Error("Merge accepted mismatched types")
	}
}

func TestRemoveMonsterSpillsInventory(t *testing.T) {
	a := NewArena()
	mon := model.NewMonster(a.IDGenerator().NextMonsterID(), "thug", 1, model.NewPosition(5, 5))
	if err := a.AddMonster(mon); err != nil {
		t.Fatalf("AddMonster failed: %v", err)
	}

	loot, err := model.NewObject(a.IDGenerator().NextObjectID(), model.ClassGem, 1, 1, 4000)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddObject(loot, Placement{List: ListMonsterInv, HolderID: mon.ObjectID()}); err != nil {
		t.Fatal(err)
	}

	a.RemoveMonster(mon.ObjectID())

	if a.GetMonster(mon.ObjectID()) != nil {
		t.Error("removed monster still registered")
	}
	p, _ := a.PlacementOf(loot.ObjectID())
	if p.List != ListFloor || p.Pos != mon.Position() {
		t.Errorf("loot placement = %+v, want floor at %v", p, mon.Position())
	}
}

func TestObjectIDRanges(t *testing.T) {
	gen := NewObjectIDGenerator()
	monID := gen.NextMonsterID()
	objID := gen.NextObjectID()

	if monID < MonsterIDBase || monID >= ObjectIDBase {
		t.Errorf("monster ID %#x outside monster range", monID)
	}
	if objID < ObjectIDBase {
		t.Errorf("object ID %#x outside object range", objID)
	}
	if gen.NextObjectID() == objID {
		t.Error("object IDs not unique")
	}
}
