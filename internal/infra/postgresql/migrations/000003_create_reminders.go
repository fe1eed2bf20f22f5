package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"gorm.io/gorm"
)

func createReminderTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_reminders",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.ReminderModel{}); err != nil {
				return err
			}
			// Daily selection filters on deadline only.
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_reminder_info_deadline ON reminder_info (deadline)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ReminderModel{})
		},
	}
}
