package infra

import (
	"fmt"

	"venueops/internal/model"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, registers the
// OpenTelemetry plugin, migrates this core's tables and applies the SQL
// patches AutoMigrate cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName("venueops"))); err != nil {
		return nil, fmt.Errorf("otelgorm: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates every table and applies schema patches.
// Integration tests call it directly against a fresh container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Lead{},
		&model.LeadActivity{},
		&model.InventoryItem{},
		&model.Booking{},
		&model.Invoice{},
		&model.Event{},
		&model.VendorBooking{},
		&model.ChecklistItem{},
		&model.MenuItem{},
		&model.MenuItemIngredient{},
		&model.MenuSelection{},
		&model.BookingResource{},
		&model.StockMovement{},
		&model.MenuFinalization{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own. Each statement is guarded so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Storage-level floor: no code path may leave stock negative.
		{"inventory_items non-negative stock", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventory_items_stock_non_negative') THEN
    ALTER TABLE inventory_items
      ADD CONSTRAINT chk_inventory_items_stock_non_negative CHECK (current_stock >= 0);
  END IF;
END $$`},
		{"booking_resources non-negative quantities", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_booking_resources_qty_non_negative') THEN
    ALTER TABLE booking_resources
      ADD CONSTRAINT chk_booking_resources_qty_non_negative
      CHECK (calculated_qty >= 0 AND (manual_qty IS NULL OR manual_qty >= 0));
  END IF;
END $$`},
		// Partial index for the low-stock query.
		{"idx_inventory_items_low_stock", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_inventory_items_low_stock') THEN
    CREATE INDEX idx_inventory_items_low_stock
        ON inventory_items (branch_id)
        WHERE active = true AND current_stock <= min_stock_level;
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
