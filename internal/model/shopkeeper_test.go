package model

import "testing"

func newTestShk() *ShopkeeperExt {
	return NewShopkeeperExt(1, 1, ShopGeneral, NewPosition(9, 4), NewPosition(8, 4))
}

func TestBillEntryTotal(t *testing.T) {
	entry := BillEntry{ObjectID: 1, Quantity: 3, UnitPrice: 20}
	if got := entry.Total(); got != 60 {
		t.Errorf("Total = %d, want 60", got)
	}
}

func TestAppendFindRemoveBill(t *testing.T) {
	shk := newTestShk()

	if !shk.AppendBill(BillEntry{ObjectID: 10, Quantity: 1, UnitPrice: 5}) {
		t.Fatal("AppendBill failed on empty ledger")
	}
	if !shk.AppendBill(BillEntry{ObjectID: 20, Quantity: 2, UnitPrice: 7}) {
		t.Fatal("AppendBill failed")
	}
	if !shk.AppendBill(BillEntry{ObjectID: 30, Quantity: 1, UnitPrice: 9}) {
		t.Fatal("AppendBill failed")
	}

	if got := shk.FindBill(20); got != 1 {
		t.Errorf("FindBill(20) = %d, want 1", got)
	}
	if got := shk.FindBill(99); got != -1 {
		t.Errorf("FindBill(99) = %d, want -1", got)
	}

	// Удаление сдвигает хвост
	if err := shk.RemoveBill(1); err != nil {
		t.Fatalf("RemoveBill failed: %v", err)
	}
	if got := shk.BillCount(); got != 2 {
		t.Errorf("BillCount = %d, want 2", got)
	}
	if got := shk.FindBill(30); got != 1 {
		t.Errorf("FindBill(30) = %d after shift, want 1", got)
	}

	if err := shk.RemoveBill(5); err == nil {
		t.Error("RemoveBill accepted out-of-range index")
	}
}

func TestAppendBillCapacity(t *testing.T) {
	shk := newTestShk()
	for i := range BillCapacity {
		if !shk.AppendBill(BillEntry{ObjectID: uint32(i + 1), Quantity: 1, UnitPrice: 1}) {
			t.Fatalf("AppendBill failed at %d", i)
		}
	}
	if shk.AppendBill(BillEntry{ObjectID: 9999, Quantity: 1, UnitPrice: 1}) {
		t.Error("AppendBill accepted entry beyond capacity")
	}
	if got := shk.BillCount(); got != BillCapacity {
		t.Errorf("BillCount = %d, want %d", got, BillCapacity)
	}
}

func TestUpdateBill(t *testing.T) {
	shk := newTestShk()
	shk.AppendBill(BillEntry{ObjectID: 10, Quantity: 5, UnitPrice: 4})

	if err := shk.UpdateBill(0, BillEntry{ObjectID: 10, Quantity: 3, UnitPrice: 4}); err != nil {
		t.Fatalf("UpdateBill failed: %v", err)
	}
	entry, _ := shk.BillAt(0)
	if entry.Quantity != 3 {
		t.Errorf("quantity = %d after update, want 3", entry.Quantity)
	}

	if err := shk.UpdateBill(7, BillEntry{}); err == nil {
		t.Error("UpdateBill accepted out-of-range index")
	}
}

func TestResetLedger(t *testing.T) {
	shk := newTestShk()
	shk.AppendBill(BillEntry{ObjectID: 10, Quantity: 1, UnitPrice: 5})
	shk.AddDebit(100)
	shk.AddCredit(50)
	shk.AddLoan(30)
	shk.AddRobbed(200)

	shk.ResetLedger()

	if shk.BillCount() != 0 || shk.Debit() != 0 || shk.Credit() != 0 || shk.Loan() != 0 {
		t.Error("ResetLedger left ledger state behind")
	}
	// Robbed переживает reset
	if got := shk.Robbed(); got != 200 {
		t.Errorf("Robbed = %d after reset, want 200", got)
	}
}

func TestMoneyCountersClampAtZero(t *testing.T) {
	shk := newTestShk()
	shk.AddDebit(-100)
	shk.AddCredit(-100)
	shk.AddLoan(-100)
	shk.AddRobbed(-100)

	if shk.Debit() != 0 || shk.Credit() != 0 || shk.Loan() != 0 || shk.Robbed() != 0 {
		t.Error("negative counters not clamped to zero")
	}
}

func TestCustomerMemory(t *testing.T) {
	shk := newTestShk()

	shk.SetCustomer("Alice")
	shk.SetCustomer("Alice")
	if got := shk.VisitCount(); got != 2 {
		t.Errorf("visit count = %d, want 2", got)
	}

	// Новый покупатель сбрасывает счётчик
	shk.SetCustomer("Bob")
	if got := shk.VisitCount(); got != 1 {
		t.Errorf("visit count = %d for new customer, want 1", got)
	}
	if got := shk.Customer(); got != "Bob" {
		t.Errorf("customer = %q, want Bob", got)
	}
}

func TestOutstandingBilled(t *testing.T) {
	shk := newTestShk()
	shk.AppendBill(BillEntry{ObjectID: 1, Quantity: 2, UnitPrice: 10})
	shk.AppendBill(BillEntry{ObjectID: 2, Quantity: 1, UnitPrice: 7, UsedUp: true})

	if got := shk.OutstandingBilled(); got != 27 {
		t.Errorf("OutstandingBilled = %d, want 27", got)
	}
}
