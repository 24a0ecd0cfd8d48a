package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekudrin/depths/internal/model"
)

// ShopkeeperRepository управляет персистентным состоянием shopkeeper'ов.
// Полный round-trip записи: bill array, debit/credit/loan/robbed, комната,
// позиции, флаги состояния, имя покупателя и счётчик визитов.
type ShopkeeperRepository struct {
	db *pgxpool.Pool
}

// NewShopkeeperRepository создаёт новый ShopkeeperRepository.
func NewShopkeeperRepository(db *pgxpool.Pool) *ShopkeeperRepository {
	return &ShopkeeperRepository{db: db}
}

// UpsertTx сохраняет одного shopkeeper'а в рамках транзакции.
// Bill entries перезаписываются целиком: порядок в массиве значим
// (itemized payment обходит записи по индексу).
func (r *ShopkeeperRepository) UpsertTx(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, mon *model.Monster) error {
	shk := mon.Shopkeeper()
	if shk == nil {
		return fmt.Errorf("monster %d is not a shopkeeper", mon.ObjectID())
	}

	door, home := shk.Door(), shk.Home()
	pos := mon.Position()

	_, err := tx.Exec(ctx, `
		INSERT INTO shopkeepers (
			game_id, monster_id, name,
			shop_room_id, shop_level_id, shop_type,
			door_x, door_y, home_x, home_y,
			pos_x, pos_y, level_id, gold,
			debit, credit, loan, robbed,
			peaceful, following, surcharge, bill_inactive,
			customer, visit_count, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, NOW()
		)
		ON CONFLICT (game_id, monster_id) DO UPDATE SET
			name = EXCLUDED.name,
			pos_x = EXCLUDED.pos_x,
			pos_y = EXCLUDED.pos_y,
			level_id = EXCLUDED.level_id,
			gold = EXCLUDED.gold,
			debit = EXCLUDED.debit,
			credit = EXCLUDED.credit,
			loan = EXCLUDED.loan,
			robbed = EXCLUDED.robbed,
			peaceful = EXCLUDED.peaceful,
			following = EXCLUDED.following,
			surcharge = EXCLUDED.surcharge,
			bill_inactive = EXCLUDED.bill_inactive,
			customer = EXCLUDED.customer,
			visit_count = EXCLUDED.visit_count,
			updated_at = NOW()`,
		gameID, int64(mon.ObjectID()), mon.Name(),
		shk.ShopRoomID(), shk.ShopLevelID(), int32(shk.ShopType()),
		door.X, door.Y, home.X, home.Y,
		pos.X, pos.Y, mon.LevelID(), mon.Gold(),
		shk.Debit(), shk.Credit(), shk.Loan(), shk.Robbed(),
		mon.IsPeaceful(), shk.IsFollowing(), shk.HasSurcharge(), shk.IsBillInactive(),
		shk.Customer(), shk.VisitCount(),
	)
	if err != nil {
		return fmt.Errorf("upserting shopkeeper %d: %w", mon.ObjectID(), err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM bill_entries WHERE game_id = $1 AND monster_id = $2`,
		gameID, int64(mon.ObjectID()),
	)
	if err != nil {
		return fmt.Errorf("clearing bill entries for shopkeeper %d: %w", mon.ObjectID(), err)
	}

	for idx, entry := range shk.Bills() {
		_, err = tx.Exec(ctx, `
			INSERT INTO bill_entries (game_id, monster_id, idx, object_id, quantity, unit_price, used_up)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			gameID, int64(mon.ObjectID()), int32(idx),
			int64(entry.ObjectID), entry.Quantity, entry.UnitPrice, entry.UsedUp,
		)
		if err != nil {
			return fmt.Errorf("inserting bill entry %d for shopkeeper %d: %w", idx, mon.ObjectID(), err)
		}
	}

	return nil
}

// LoadGame загружает всех shopkeeper'ов игры вместе с их ledger'ами.
func (r *ShopkeeperRepository) LoadGame(ctx context.Context, gameID uuid.UUID) ([]*model.Monster, error) {
	rows, err := r.db.Query(ctx, `
		SELECT monster_id, name,
		       shop_room_id, shop_level_id, shop_type,
		       door_x, door_y, home_x, home_y,
		       pos_x, pos_y, level_id, gold,
		       debit, credit, loan, robbed,
		       peaceful, following, surcharge, bill_inactive,
		       customer, visit_count
		FROM shopkeepers
		WHERE game_id = $1
		ORDER BY monster_id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying shopkeepers for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var monsters []*model.Monster

	for rows.Next() {
		var (
			monsterID                          int64
			name, customer                     string
			shopRoomID, shopLevelID, shopType  int32
			doorX, doorY, homeX, homeY         int32
			posX, posY, levelID                int32
			gold, debit, credit, loan, robbed  int64
			peaceful, following, surcharge     bool
			billInactive                       bool
			visitCount                         int32
		)

		err := rows.Scan(
			&monsterID, &name,
			&shopRoomID, &shopLevelID, &shopType,
			&doorX, &doorY, &homeX, &homeY,
			&posX, &posY, &levelID, &gold,
			&debit, &credit, &loan, &robbed,
			&peaceful, &following, &surcharge, &billInactive,
			&customer, &visitCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning shopkeeper row: %w", err)
		}

		mon := model.NewMonster(uint32(monsterID), name, levelID, model.NewPosition(posX, posY))
		mon.SetPeaceful(peaceful)
		mon.AddGold(gold)

		shk := model.NewShopkeeperExt(
			shopRoomID, shopLevelID, model.ShopType(shopType),
			model.NewPosition(doorX, doorY), model.NewPosition(homeX, homeY),
		)
		shk.RestoreTotals(debit, credit, loan, robbed)
		shk.RestoreFlags(following, surcharge, billInactive)
		shk.RestoreCustomer(customer, visitCount)
		mon.AttachShopkeeper(shk)

		monsters = append(monsters, mon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shopkeeper rows: %w", err)
	}

	for _, mon := range monsters {
		if err := r.loadBills(ctx, gameID, mon); err != nil {
			return nil, err
		}
	}

	return monsters, nil
}

// loadBills восстанавливает bill entries одного shopkeeper'а в порядке индексов.
func (r *ShopkeeperRepository) loadBills(ctx context.Context, gameID uuid.UUID, mon *model.Monster) error {
	rows, err := r.db.Query(ctx, `
		SELECT object_id, quantity, unit_price, used_up
		FROM bill_entries
		WHERE game_id = $1 AND monster_id = $2
		ORDER BY idx`,
		gameID, int64(mon.ObjectID()),
	)
	if err != nil {
		return fmt.Errorf("querying bill entries for shopkeeper %d: %w", mon.ObjectID(), err)
	}
	defer rows.Close()

	shk := mon.Shopkeeper()
	for rows.Next() {
		var (
			objectID  int64
			quantity  int32
			unitPrice int64
			usedUp    bool
		)
		if err := rows.Scan(&objectID, &quantity, &unitPrice, &usedUp); err != nil {
			return fmt.Errorf("scanning bill entry row: %w", err)
		}
		if !shk.AppendBill(model.BillEntry{
			ObjectID:  uint32(objectID),
			Quantity:  quantity,
			UnitPrice: unitPrice,
			UsedUp:    usedUp,
		}) {
			return fmt.Errorf("bill overflow restoring shopkeeper %d", mon.ObjectID())
		}
	}
	return rows.Err()
}

// Delete удаляет shopkeeper'а и его bill entries (cascade).
// Вызывается при смерти shopkeeper'а.
func (r *ShopkeeperRepository) Delete(ctx context.Context, gameID uuid.UUID, monsterID uint32) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM shopkeepers WHERE game_id = $1 AND monster_id = $2`,
		gameID, int64(monsterID),
	)
	if err != nil {
		return fmt.Errorf("deleting shopkeeper %d: %w", monsterID, err)
	}
	return nil
}

// DeleteTx — вариант Delete в рамках транзакции автосейва.
func (r *ShopkeeperRepository) DeleteTx(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, monsterID uint32) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM shopkeepers WHERE game_id = $1 AND monster_id = $2`,
		gameID, int64(monsterID),
	)
	if err != nil {
		return fmt.Errorf("deleting shopkeeper %d: %w", monsterID, err)
	}
	return nil
}

// DeleteGame удаляет все данные игры (завершение или смерть персонажа).
func (r *ShopkeeperRepository) DeleteGame(ctx context.Context, gameID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM shopkeepers WHERE game_id = $1`,
		gameID,
	)
	if err != nil {
		return fmt.Errorf("deleting game %s: %w", gameID, err)
	}
	return nil
}
