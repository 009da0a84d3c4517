// Command seed loads two doctors and two slots for tomorrow into the configured
// postgres database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"clinic-booking/core/config"
	"clinic-booking/core/constants"
	"clinic-booking/core/logger"
	"clinic-booking/core/server"
	"clinic-booking/modules/doctor/dto"
	"clinic-booking/modules/doctor/service"
)

func main() {
	configPath := flag.String("config", "", "path to config yaml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logger.Error("Seed:Error", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	_ = logger.Init(cfg.Log.Level, cfg.Log.Encoding)

	if cfg.Database.Driver != constants.DatabaseDriverPostgres {
		return fmt.Errorf("seed needs the postgres driver, got %q", cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	storage, err := server.OpenStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer storage.Close()

	// no cache: the API drops its cached listing on the next catalog write or TTL expiry
	catalog := service.NewCatalogService(storage.Catalog, nil, cfg.Redis.CatalogTTL)

	smith, appErr := catalog.CreateDoctor(ctx, &dto.CreateDoctorRequest{Name: "Dr. Sarah Smith", Specialty: strPtr("Cardiologist")})
	if appErr != nil {
		return appErr
	}
	chen, appErr := catalog.CreateDoctor(ctx, &dto.CreateDoctorRequest{Name: "Dr. Michael Chen", Specialty: strPtr("Dermatologist")})
	if appErr != nil {
		return appErr
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	for _, hour := range []int{9, 10} {
		at := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, 0, 0, 0, time.Local)
		slot, appErr := catalog.CreateSlot(ctx, &dto.CreateSlotRequest{DoctorID: smith.ID.String(), Time: at})
		if appErr != nil {
			return appErr
		}
		logger.Info("Seed:Slot", "slot_id", slot.ID, "doctor", smith.Name, "time", slot.Time)
	}

	logger.Info("Seed:Done", "doctors", []string{smith.Slug, chen.Slug})
	return nil
}

func strPtr(s string) *string { return &s }
