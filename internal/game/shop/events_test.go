package shop

import (
	"strings"
	"testing"

	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

func TestPlayerEntersShop(t *testing.T) {
	ts := newTestShop(t)

	ts.session.PlayerEntersShop(ts.room)

	if got := ts.shk.Customer(); got != "Tester" {
		t.Errorf("customer = %q, want Tester", got)
	}
	if got := ts.shk.VisitCount(); got != 1 {
		t.Errorf("visit count = %d, want 1", got)
	}
	if !strings.Contains(ts.msg.msgs[len(ts.msg.msgs)-1], "Welcome to") {
		t.Errorf("no welcome narration, got %q", ts.msg.msgs[len(ts.msg.msgs)-1])
	}

	ts.session.PlayerEntersShop(ts.room)
	if !strings.Contains(ts.msg.msgs[len(ts.msg.msgs)-1], "Welcome back") {
		t.Errorf("no welcome-back narration on repeat visit, got %q",
			ts.msg.msgs[len(ts.msg.msgs)-1])
	}
}

func TestPlayerEntersShopNewCustomerResetsVisits(t *testing.T) {
	ts := newTestShop(t)
	ts.shk.SetCustomer("Somebody Else")
	ts.shk.SetCustomer("Somebody Else")

	ts.session.PlayerEntersShop(ts.room)

	if got := ts.shk.VisitCount(); got != 1 {
		t.Errorf("visit count = %d for new customer, want 1", got)
	}
}

func TestPlayerLeavesShopWithoutDebt(t *testing.T) {
	ts := newTestShop(t)
	ts.shk.AddCredit(45)

	ts.session.PlayerLeavesShop(ts.room)

	if got := ts.shk.Credit(); got != 0 {
		t.Errorf("credit = %d after exit, want 0 (forfeit)", got)
	}
	found := false
	for _, m := range ts.msg.msgs {
		if strings.Contains(m, "forfeit") {
			found = true
		}
	}
	if !found {
		t.Error("no credit-forfeit warning on exit")
	}
	if !ts.mon.IsPeaceful() {
		t.Error("shopkeeper angered by clean exit")
	}
}

func TestPlayerLeavesShopWithDebt(t *testing.T) {
	ts := newTestShop(t)
	ts.billedItem(t, model.ClassPotion, 1, 1) // 20

	ts.session.PlayerLeavesShop(ts.room)

	if got := ts.shk.Robbed(); got != 20 {
		t.Errorf("Robbed = %d, want 20", got)
	}
	if ts.mon.IsPeaceful() {
		t.Error("walking out on the bill left the shopkeeper peaceful")
	}
}

func TestPickupInShop(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.floorItem(t, model.ClassPotion, 1, 2)

	ts.session.PickupInShop(obj, ts.room)

	if !obj.IsUnpaid() {
		t.Error("picked-up merchandise not billed")
	}
	if got := ts.shk.BillCount(); got != 1 {
		t.Errorf("BillCount = %d, want 1", got)
	}
}

func TestPickupGoldInShop(t *testing.T) {
	ts := newTestShop(t)
	pile, err := model.NewObject(ts.session.Arena().IDGenerator().NextObjectID(),
		model.ClassGold, 0, 75, 1)
	if err != nil {
		t.Fatalf("NewObject failed: %v", err)
	}
	if err := ts.session.Arena().AddObject(pile, world.Placement{
		List: world.ListFloor, LevelID: 1, Pos: model.NewPosition(4, 4),
	}); err != nil {
		t.Fatalf("AddObject failed: %v", err)
	}

	ts.session.PickupInShop(pile, ts.room)

	if got := ts.shk.Debit(); got != 75 {
		t.Errorf("Debit = %d, want 75", got)
	}
	if got := ts.shk.Loan(); got != 75 {
		t.Errorf("Loan = %d, want 75", got)
	}
	if got := ts.shk.BillCount(); got != 0 {
		t.Errorf("gold pile produced %d bill entries", got)
	}
}

func TestPickupContainerInShop(t *testing.T) {
	ts := newTestShop(t)
	sack := ts.floorItem(t, model.ClassTool, model.TypeSack, 1)
	inner := ts.floorItem(t, model.ClassPotion, 1, 1)
	sack.AddContent(inner.ObjectID())
	if err := ts.session.Arena().Place(inner.ObjectID(), world.Placement{
		List: world.ListContainer, HolderID: sack.ObjectID(),
	}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	ts.session.PickupInShop(sack, ts.room)

	if !sack.IsUnpaid() {
		t.Error("container not billed")
	}
	if !inner.IsNoCharge() {
		t.Error("container contents not marked no-charge")
	}
	if inner.IsUnpaid() {
		t.Error("container contents billed directly")
	}

	// Возврат контейнера снимает маркеры и запись
	ts.session.DropInShop(sack, ts.room)
	if sack.IsUnpaid() {
		t.Error("container still unpaid after return")
	}
	if inner.IsNoCharge() {
		t.Error("contents still no-charge after return")
	}
}

func TestDropInShopSellback(t *testing.T) {
	ts := newTestShop(t)
	own := ts.floorItem(t, model.ClassScroll, 5, 1) // base 100, sell 50
	playerGold := ts.session.Player().Gold()

	ts.session.DropInShop(own, ts.room)

	if got := ts.session.Player().Gold(); got != playerGold+50 {
		t.Errorf("player gold = %d, want %d", got, playerGold+50)
	}
	if got := ts.mon.Gold(); got != 950 {
		t.Errorf("shopkeeper gold = %d, want 950", got)
	}
}

func TestDropInShopPoorShopkeeperOffersCredit(t *testing.T) {
	ts := newTestShop(t)
	ts.mon.AddGold(-1000) // касса пуста
	own := ts.floorItem(t, model.ClassScroll, 5, 1)

	ts.session.DropInShop(own, ts.room)

	if got := ts.shk.Credit(); got != 50 {
		t.Errorf("credit = %d, want 50", got)
	}
	if got := ts.session.Player().Gold(); got != 0 {
		t.Errorf("player gold = %d, want 0", got)
	}
}

func TestUseUpBilled(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.billedItem(t, model.ClassPotion, 1, 1)

	ts.session.UseUp(obj, ts.room)

	entry, _ := ts.shk.BillAt(0)
	if !entry.UsedUp {
		t.Error("entry not marked used-up")
	}
	if obj.IsUnpaid() {
		t.Error("consumed object still flagged unpaid")
	}
	// Стоимость остаётся взыскиваемой
	if got := ts.shk.OutstandingBilled(); got != 20 {
		t.Errorf("OutstandingBilled = %d, want 20", got)
	}
}

func TestUseUpUnbilled(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.floorItem(t, model.ClassPotion, 1, 1)

	ts.session.UseUp(obj, ts.room)

	if got := ts.shk.BillCount(); got != 1 {
		t.Fatalf("BillCount = %d, want 1", got)
	}
	entry, _ := ts.shk.BillAt(0)
	if !entry.UsedUp {
		t.Error("consumed unbilled item entry not used-up")
	}
	if obj.IsUnpaid() {
		t.Error("consumed object flagged unpaid")
	}
}

func TestPartialUseUp(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.billedItem(t, model.ClassFood, 1, 5)

	ts.session.PartialUseUp(obj, ts.room, 3)

	if got := obj.Quantity(); got != 3 {
		t.Errorf("stack quantity = %d, want 3", got)
	}
	if got := ts.shk.BillCount(); got != 2 {
		t.Fatalf("BillCount = %d, want 2", got)
	}
	remnant, _ := ts.shk.BillAt(1)
	if remnant.Quantity != 2 || !remnant.UsedUp {
		t.Errorf("remnant = %+v, want qty=2 used-up", remnant)
	}
}

func TestChargeForUse(t *testing.T) {
	ts := newTestShop(t)

	ts.session.ChargeForUse(ts.mon, 40)
	if got := ts.shk.Debit(); got != 40 {
		t.Errorf("Debit = %d, want 40", got)
	}
	if got := ts.shk.Loan(); got != 0 {
		t.Errorf("Loan = %d, want 0 (usage fee is not a loan)", got)
	}
}

func TestCostlyGoldInactiveLedger(t *testing.T) {
	ts := newTestShop(t)
	ts.shk.SetBillInactive(true)

	ts.session.CostlyGold(ts.mon, 50)

	if got := ts.shk.Robbed(); got != 50 {
		t.Errorf("Robbed = %d, want 50 (ledger inactive)", got)
	}
	if got := ts.shk.Debit(); got != 0 {
		t.Errorf("Debit = %d, want 0", got)
	}
}

func TestObjectLeavesLevel(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.billedItem(t, model.ClassScroll, 5, 1) // 100

	ts.session.ObjectLeavesLevel(obj, 1)

	if got := ts.shk.Robbed(); got != 100 {
		t.Errorf("Robbed = %d, want 100", got)
	}
	placement, ok := ts.session.Arena().PlacementOf(obj.ObjectID())
	if !ok || placement.List != world.ListMigrating {
		t.Errorf("placement = %+v, want migrating", placement)
	}
}

func TestObjectDestroyed(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.billedItem(t, model.ClassPotion, 1, 1) // 20

	ts.session.ObjectDestroyed(obj)

	if got := ts.shk.Robbed(); got != 20 {
		t.Errorf("Robbed = %d, want 20", got)
	}
	if ts.session.Arena().Get(obj.ObjectID()) != nil {
		t.Error("destroyed object still registered")
	}
}

func TestShopkeeperDies(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.billedItem(t, model.ClassPotion, 1, 1)
	loose := ts.floorItem(t, model.ClassFood, 1, 1)
	loose.SetNoCharge(true)

	ts.session.ShopkeeperDies(ts.mon)

	if obj.IsUnpaid() {
		t.Error("merchandise still unpaid after shopkeeper's death")
	}
	if loose.IsNoCharge() {
		t.Error("no-charge marker survived shopkeeper's death")
	}
	if got := ts.room.ShopkeeperID(); got != 0 {
		t.Errorf("room shopkeeperID = %d, want 0", got)
	}
	if !ts.mon.IsDead() {
		t.Error("shopkeeper not marked dead")
	}
	if ts.session.Arena().GetMonster(ts.mon.ObjectID()) != nil {
		t.Error("dead shopkeeper still in arena")
	}
}

func TestFinalizeOnDeathOrQuit(t *testing.T) {
	ts := newTestShop(t)
	obj := ts.billedItem(t, model.ClassPotion, 1, 1)
	ts.shk.AddDebit(30)

	ts.session.FinalizeOnDeathOrQuit()

	if obj.IsUnpaid() {
		t.Error("object unpaid after final settlement")
	}
	if ts.shk.BillCount() != 0 || ts.shk.Debit() != 0 {
		t.Error("ledger survived final settlement")
	}
}
