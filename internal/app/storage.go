// Package app assembles the catalog backend from its storage and services.
package app

import (
	"context"
	"fmt"

	"backoffice/internal/config"
	corenumerator "backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/catalogs/taxcondition"
	"backoffice/internal/domain/catalogs/unit"
	"backoffice/internal/infrastructure/storage/memory"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/internal/infrastructure/storage/postgres/catalog_repo"
	"backoffice/pkg/logger"
	"backoffice/pkg/numerator"
)

// Storage bundles the persistence ports of every catalog.
type Storage struct {
	Driver    string
	TxManager tx.Manager
	Counter   corenumerator.Counter
	Journal   audit.Journal

	Rubros        domain.CatalogRepository[rubro.Rubro]
	SubRubros     domain.CatalogRepository[subrubro.SubRubro]
	Units         domain.CatalogRepository[unit.Unit]
	TaxConditions domain.CatalogRepository[taxcondition.TaxCondition]
	Products      domain.CatalogRepository[product.Product]

	ping  func(ctx context.Context) error
	close func()
}

// Ping implements handlers.Pinger.
func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the underlying resources.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewMemoryStorage returns a process-local store. Data is lost on exit.
func NewMemoryStorage() *Storage {
	return &Storage{
		Driver:        config.DriverMemory,
		TxManager:     memory.NewTxManager(),
		Counter:       memory.NewCounter(),
		Journal:       memory.NewJournal(),
		Rubros:        memory.NewRepo[rubro.Rubro](rubro.Label),
		SubRubros:     memory.NewRepo[subrubro.SubRubro](subrubro.Label),
		Units:         memory.NewRepo[unit.Unit](unit.Label),
		TaxConditions: memory.NewRepo[taxcondition.TaxCondition](taxcondition.Label),
		Products:      memory.NewRepo[product.Product](product.Label),
	}
}

// NewPostgresStorage connects to PostgreSQL, applies the schema when enabled
// and wires the repositories.
func NewPostgresStorage(ctx context.Context, cfg *config.Server) (*Storage, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.PGDSN)
	poolCfg.MaxConns = cfg.PGMaxConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if cfg.PGMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	txm := postgres.NewTxManager(pool)
	journal, err := postgres.NewAuditJournal(txm, cfg.AuditCompressThreshold)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit journal: %w", err)
	}

	opts := corenumerator.DefaultOptions()
	if cfg.CounterStrategy == "cached" {
		opts.Strategy = corenumerator.StrategyCached
		opts.RangeSize = cfg.CounterRangeSize
	}

	postgres.LogPoolStats(ctx, pool)
	logger.Info(ctx, "postgres storage ready", "counter_strategy", cfg.CounterStrategy)

	return &Storage{
		Driver:        config.DriverPostgres,
		TxManager:     txm,
		Counter:       numerator.New(pool, opts),
		Journal:       journal,
		Rubros:        catalog_repo.NewRepo[rubro.Rubro](txm, postgres.TableRubros, rubro.Label),
		SubRubros:     catalog_repo.NewRepo[subrubro.SubRubro](txm, postgres.TableSubRubros, subrubro.Label),
		Units:         catalog_repo.NewRepo[unit.Unit](txm, postgres.TableUnits, unit.Label),
		TaxConditions: catalog_repo.NewRepo[taxcondition.TaxCondition](txm, postgres.TableTaxConditions, taxcondition.Label),
		Products:      catalog_repo.NewRepo[product.Product](txm, postgres.TableProducts, product.Label),
		ping:          pool.Ping,
		close:         pool.Close,
	}, nil
}

// NewStorage selects the backend named by cfg.StorageDriver.
func NewStorage(ctx context.Context, cfg *config.Server) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return NewPostgresStorage(ctx, cfg)
	case config.DriverMemory, "":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
