package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"gorm.io/gorm"
)

func createSuppressionTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000005_create_suppression",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(
				&repository.BlocklistModel{},
				&repository.UnsubscribeModel{},
			); err != nil {
				return err
			}
			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_reminder_blocklist_client_id ON reminder_blocklist (client_id)`,
				`CREATE INDEX IF NOT EXISTS idx_reminder_unsubscribers_pair ON reminder_unsubscribers (reminder_id, client_id)`,
			}
			for _, sql := range indexes {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				&repository.UnsubscribeModel{},
				&repository.BlocklistModel{},
			)
		},
	}
}
