package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"gorm.io/gorm"
)

func createStatusLogTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000004_create_status_log",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.DeliveryStatusModel{}); err != nil {
				return err
			}
			// The stage-reached check counts sent rows per (reminder, client).
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_reminder_status_pair ON reminder_status (reminder_id, client_id, status)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.DeliveryStatusModel{})
		},
	}
}
