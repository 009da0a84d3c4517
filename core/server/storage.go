package server

import (
	"context"
	"fmt"

	"clinic-booking/core/config"
	"clinic-booking/core/constants"
	"clinic-booking/core/database"
	"clinic-booking/core/database/memdb"
	"clinic-booking/core/logger"
	bookingrepo "clinic-booking/modules/booking/repository"
	docrepo "clinic-booking/modules/doctor/repository"
)

// Storage bundles the repositories of one storage backend.
type Storage struct {
	Driver       string
	Catalog      docrepo.CatalogRepositoryInterface
	Reservations bookingrepo.ReservationStore
	Bookings     bookingrepo.BookingReader

	ping  func(ctx context.Context) error
	close func() error
}

// OpenStorage connects the backend named by cfg.Driver. The postgres schema is
// applied when cfg.AutoMigrate is set.
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	switch cfg.Driver {
	case constants.DatabaseDriverPostgres:
		db, err := database.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		store := bookingrepo.NewPostgresReservationStore(db, cfg.LockTimeout)
		return &Storage{
			Driver:       cfg.Driver,
			Catalog:      docrepo.NewCatalogRepository(db),
			Reservations: store,
			Bookings:     store,
			ping:         func(ctx context.Context) error { return db.SQLx().PingContext(ctx) },
			close:        db.Close,
		}, nil

	case constants.DatabaseDriverMemory:
		logger.Warn("Storage:Open:Memory", "message", "data is lost on restart")
		catalog := docrepo.NewMemoryCatalog(memdb.New())
		store := bookingrepo.NewMemoryReservationStore(catalog)
		return &Storage{
			Driver:       cfg.Driver,
			Catalog:      catalog,
			Reservations: store,
			Bookings:     store,
			ping:         func(context.Context) error { return nil },
			close:        func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close() error {
	return s.close()
}
