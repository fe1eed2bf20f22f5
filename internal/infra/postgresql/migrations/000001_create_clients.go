package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"gorm.io/gorm"
)

func createClientsTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_clients",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(
				&repository.ClientModel{},
				&repository.ClientGroupModel{},
				&repository.ClientGroupMapModel{},
			); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_client_group_map_group_id ON client_group_map (group_id)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				&repository.ClientGroupMapModel{},
				&repository.ClientGroupModel{},
				&repository.ClientModel{},
			)
		},
	}
}
