package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ekudrin/depths/internal/config"
	"github.com/ekudrin/depths/internal/data"
	"github.com/ekudrin/depths/internal/db"
	"github.com/ekudrin/depths/internal/game/shop"
	"github.com/ekudrin/depths/internal/model"
	"github.com/ekudrin/depths/internal/world"
)

const ConfigPath = "config/depths.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("DEPTHS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("depths server starting", "log_level", cfg.LogLevel)

	// Load static tables
	if err := data.LoadObjectDefs(); err != nil {
		return fmt.Errorf("loading object defs: %w", err)
	}
	if err := data.LoadShopTypes(); err != nil {
		return fmt.Errorf("loading shop types: %w", err)
	}
	if err := data.LoadShopkeeperNames(); err != nil {
		return fmt.Errorf("loading shopkeeper names: %w", err)
	}

	seed := cfg.WorldSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Info("world seed", "seed", seed)

	player, err := model.NewPlayer("Hero", model.RoleAdventurer, 10)
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}

	session, err := shop.NewSession(world.NewArena(), player, seed, nil)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	session.SetMimicChanceCap(cfg.Shop.MimicChanceCap)

	// Generate and stock levels
	for i := 1; i <= cfg.Levels; i++ {
		level := generateLevel(int32(i), seed)
		if err := session.StockLevel(level); err != nil {
			return fmt.Errorf("stocking level %d: %w", i, err)
		}
	}
	slog.Info("dungeon generated",
		"levels", cfg.Levels,
		"shopkeepers", len(session.Arena().Shopkeepers()),
		"game_id", session.GameID())

	// Optional persistence
	var persister *db.ShopPersistenceService
	if cfg.Database.Enabled() {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo := db.NewShopkeeperRepository(database.Pool())
		persister = db.NewShopPersistenceService(database.Pool(), repo)
	}

	g, gctx := errgroup.WithContext(ctx)

	if persister != nil && cfg.Shop.AutosaveInterval > 0 {
		g.Go(func() error {
			slog.Info("starting autosave loop", "interval", cfg.Shop.AutosaveInterval)
			ticker := time.NewTicker(cfg.Shop.AutosaveInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					err := persister.SaveGame(saveCtx, session.GameID(), session.Arena().Shopkeepers())
					cancel()
					if err != nil {
						slog.Error("autosave failed", "err", err)
					}
				}
			}
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// Final save on shutdown
	if persister != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := persister.SaveGame(saveCtx, session.GameID(), session.Arena().Shopkeepers()); err != nil {
			slog.Error("final save failed", "err", err)
		} else {
			slog.Info("shop state saved")
		}
	}

	slog.Info("depths server stopped")
	return nil
}

// generateLevel строит уровень с парой комнат; начиная с глубины 2 каждый
// третий уровень получает комнату-магазин. Геометрия детерминирована
// world seed'ом.
func generateLevel(levelID int32, worldSeed uint64) *model.Level {
	levelSeed := worldSeed ^ uint64(levelID)*0x9e3779b97f4a7c15
	rng := rand.New(rand.NewPCG(levelSeed, uint64(levelID)))

	level := model.NewLevel(levelID, levelID, levelSeed)

	// Обычная комната
	level.AddRoom(model.NewRoom(1, levelID, model.ShopNone,
		model.Rect{LowX: 2, LowY: 2, HighX: 8, HighY: 6},
		model.NewPosition(9, 4)))

	if levelID >= 2 && levelID%3 == 2 {
		shopTypes := []model.ShopType{
			model.ShopGeneral, model.ShopArmor, model.ShopScroll, model.ShopPotion,
			model.ShopWeapon, model.ShopFood, model.ShopRing, model.ShopWand,
			model.ShopTool, model.ShopBook,
		}
		t := shopTypes[rng.IntN(len(shopTypes))]
		level.AddRoom(model.NewRoom(2, levelID, t,
			model.Rect{LowX: 12, LowY: 2, HighX: 17, HighY: 7},
			model.NewPosition(11, 4)))
	}

	return level
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
