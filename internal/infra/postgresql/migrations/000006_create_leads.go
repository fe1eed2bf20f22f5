package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"gorm.io/gorm"
)

func createLeadsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000006_create_leads",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.LeadModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.LeadModel{})
		},
	}
}
