package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekudrin/depths/internal/model"
)

// ShopPersistenceService атомарно сохраняет состояние всех shopkeeper'ов игры.
// Единая транзакция: автосейв либо записывает консистентный снимок, либо ничего.
type ShopPersistenceService struct {
	pool *pgxpool.Pool
	repo *ShopkeeperRepository
}

// NewShopPersistenceService создаёт новый сервис.
func NewShopPersistenceService(pool *pgxpool.Pool, repo *ShopkeeperRepository) *ShopPersistenceService {
	return &ShopPersistenceService{pool: pool, repo: repo}
}

// SaveGame сохраняет всех shopkeeper'ов игры в одной транзакции.
func (s *ShopPersistenceService) SaveGame(ctx context.Context, gameID uuid.UUID, shopkeepers []*model.Monster) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for game %s: %w", gameID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("rollback failed", "game_id", gameID, "error", err)
		}
	}()

	for _, mon := range shopkeepers {
		if mon.IsDead() {
			if err := s.repo.DeleteTx(ctx, tx, gameID, mon.ObjectID()); err != nil {
				return err
			}
			continue
		}
		if err := s.repo.UpsertTx(ctx, tx, gameID, mon); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save for game %s: %w", gameID, err)
	}

	slog.Debug("saved shop state", "game_id", gameID, "shopkeepers", len(shopkeepers))
	return nil
}

// LoadGame восстанавливает shopkeeper'ов игры.
func (s *ShopPersistenceService) LoadGame(ctx context.Context, gameID uuid.UUID) ([]*model.Monster, error) {
	return s.repo.LoadGame(ctx, gameID)
}
