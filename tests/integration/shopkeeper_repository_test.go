package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ekudrin/depths/internal/db"
	"github.com/ekudrin/depths/internal/model"
)

func setupDB(t *testing.T) (*db.DB, *db.ShopkeeperRepository) {
	t.Helper()
	requireIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, db.RunMigrations(ctx, pgDSN))

	database, err := db.New(ctx, pgDSN)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	return database, db.NewShopkeeperRepository(database.Pool())
}

func sampleShopkeeper() *model.Monster {
	mon := model.NewMonster(0x10000001, "Sednaz", 3, model.NewPosition(14, 12))
	mon.AddGold(1460)
	mon.SetPeaceful(false)

	shk := model.NewShopkeeperExt(2, 3, model.ShopGeneral,
		model.NewPosition(9, 12), model.NewPosition(10, 12))
	shk.AppendBill(model.BillEntry{ObjectID: 0x20000001, Quantity: 3, UnitPrice: 20})
	shk.AppendBill(model.BillEntry{ObjectID: 0x20000002, Quantity: 1, UnitPrice: 100, UsedUp: true})
	shk.RestoreTotals(75, 30, 75, 200)
	shk.RestoreFlags(true, true, false)
	shk.RestoreCustomer("Tester", 4)
	mon.AttachShopkeeper(shk)

	return mon
}

func TestShopkeeperRoundTrip(t *testing.T) {
	database, repo := setupDB(t)
	persister := db.NewShopPersistenceService(database.Pool(), repo)

	ctx := context.Background()
	gameID := uuid.New()
	mon := sampleShopkeeper()

	require.NoError(t, persister.SaveGame(ctx, gameID, []*model.Monster{mon}))

	loaded, err := repo.LoadGame(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	require.Equal(t, mon.ObjectID(), got.ObjectID())
	require.Equal(t, "Sednaz", got.Name())
	require.Equal(t, mon.Position(), got.Position())
	require.Equal(t, int64(1460), got.Gold())
	require.False(t, got.IsPeaceful())

	shk := got.Shopkeeper()
	require.NotNil(t, shk)
	require.Equal(t, int32(2), shk.ShopRoomID())
	require.Equal(t, int32(3), shk.ShopLevelID())
	require.Equal(t, model.ShopGeneral, shk.ShopType())
	require.Equal(t, model.NewPosition(9, 12), shk.Door())
	require.Equal(t, model.NewPosition(10, 12), shk.Home())
	require.Equal(t, int64(75), shk.Debit())
	require.Equal(t, int64(30), shk.Credit())
	require.Equal(t, int64(75), shk.Loan())
	require.Equal(t, int64(200), shk.Robbed())
	require.True(t, shk.IsFollowing())
	require.True(t, shk.HasSurcharge())
	require.False(t, shk.IsBillInactive())
	require.Equal(t, "Tester", shk.Customer())
	require.Equal(t, int32(4), shk.VisitCount())

	// Bill entries сохраняют порядок индексов
	bills := shk.Bills()
	require.Len(t, bills, 2)
	require.Equal(t, uint32(0x20000001), bills[0].ObjectID)
	require.Equal(t, int32(3), bills[0].Quantity)
	require.Equal(t, int64(20), bills[0].UnitPrice)
	require.False(t, bills[0].UsedUp)
	require.Equal(t, uint32(0x20000002), bills[1].ObjectID)
	require.True(t, bills[1].UsedUp)
}

func TestSaveGameOverwritesBills(t *testing.T) {
	database, repo := setupDB(t)
	persister := db.NewShopPersistenceService(database.Pool(), repo)

	ctx := context.Background()
	gameID := uuid.New()
	mon := sampleShopkeeper()

	require.NoError(t, persister.SaveGame(ctx, gameID, []*model.Monster{mon}))

	// Оплата: ledger очищен, следующий автосейв не должен воскресить записи
	mon.Shopkeeper().ResetLedger()
	require.NoError(t, persister.SaveGame(ctx, gameID, []*model.Monster{mon}))

	loaded, err := repo.LoadGame(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, int32(0), loaded[0].Shopkeeper().BillCount())
	require.Equal(t, int64(0), loaded[0].Shopkeeper().Debit())
}

func TestSaveGameDeletesDead(t *testing.T) {
	database, repo := setupDB(t)
	persister := db.NewShopPersistenceService(database.Pool(), repo)

	ctx := context.Background()
	gameID := uuid.New()
	mon := sampleShopkeeper()

	require.NoError(t, persister.SaveGame(ctx, gameID, []*model.Monster{mon}))

	mon.SetDead(true)
	require.NoError(t, persister.SaveGame(ctx, gameID, []*model.Monster{mon}))

	loaded, err := repo.LoadGame(ctx, gameID)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestDeleteGame(t *testing.T) {
	database, repo := setupDB(t)
	persister := db.NewShopPersistenceService(database.Pool(), repo)

	ctx := context.Background()
	gameID := uuid.New()

	require.NoError(t, persister.SaveGame(ctx, gameID, []*model.Monster{sampleShopkeeper()}))
	require.NoError(t, repo.DeleteGame(ctx, gameID))

	loaded, err := repo.LoadGame(ctx, gameID)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestLoadGameIsolatedByGameID(t *testing.T) {
	database, repo := setupDB(t)
	persister := db.NewShopPersistenceService(database.Pool(), repo)

	ctx := context.Background()
	gameA, gameB := uuid.New(), uuid.New()

	require.NoError(t, persister.SaveGame(ctx, gameA, []*model.Monster{sampleShopkeeper()}))

	loaded, err := repo.LoadGame(ctx, gameB)
	require.NoError(t, err)
	require.Empty(t, loaded)
}
