package postgres

import (
	"fooddispatch/internal/adapters/out/postgres/driverrepo"
	"fooddispatch/internal/adapters/out/postgres/earningrepo"
	"fooddispatch/internal/adapters/out/postgres/offerrepo"
	"fooddispatch/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the database schema for every persisted
// aggregate.
//
// Two partial unique indexes back business invariants that plain column
// constraints cannot express:
//   - one live offer per order: a second pending task_offers row for the same
//     order is rejected
//   - one delivery fee per order: a retried delivery confirmation cannot
//     credit the driver twice
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&driverrepo.DriverDTO{},
		&offerrepo.TaskOfferDTO{},
		&earningrepo.EarningEntryDTO{},
	); err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_task_offers_live_order
		ON task_offers (order_id)
		WHERE outcome = 'pending'
	`).Error; err != nil {
		return err
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_earning_entries_order_fee
		ON earning_entries (order_id)
		WHERE entry_type = 'delivery_fee'
	`).Error
}
