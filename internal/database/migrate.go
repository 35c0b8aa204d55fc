package database

import (
	"errors"
	"fmt"
	"log"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/localnerve/itemsetgroup/data"
	"github.com/localnerve/itemsetgroup/internal/models"
	"gorm.io/gorm"
)

// MySQL error numbers for objects that already exist
const (
	errDupFieldName = 1060
	errDupKeyName   = 1061
)

type migration struct {
	version int
	name    string
	up      func(tx *gorm.DB) error
}

// migrations are applied in order, once, and recorded in item_set_group_migrations
var migrations = []migration{
	{
		version: 1,
		name:    "create item_set_primary_item",
		up: func(tx *gorm.DB) error {
			if tx.Migrator().HasTable(&models.RepresentativeMapping{}) {
				return nil
			}
			return tx.Migrator().CreateTable(&models.RepresentativeMapping{})
		},
	},
	{
		// Tables created before media selection existed lack the column
		version: 2,
		name:    "add item_set_primary_item.primary_media_id",
		up: func(tx *gorm.DB) error {
			m := tx.Migrator()
			if m.HasColumn(&models.RepresentativeMapping{}, "PrimaryMediaID") {
				return nil
			}
			if err := m.AddColumn(&models.RepresentativeMapping{}, "PrimaryMediaID"); err != nil && !alreadyExists(err) {
				return err
			}
			if m.HasIndex(&models.RepresentativeMapping{}, "idx_item_set_primary_media_id") {
				return nil
			}
			if err := m.CreateIndex(&models.RepresentativeMapping{}, "idx_item_set_primary_media_id"); err != nil && !alreadyExists(err) {
				// the column is usable without its index
				log.Printf("itemsetgroup: migrate: create media index: %v", err)
			}
			return nil
		},
	},
}

// Migrate applies pending module migrations. It runs once at startup,
// not on every request.
func Migrate(db *gorm.DB) error {
	if !db.Migrator().HasTable(&models.SchemaMigration{}) {
		if err := db.Migrator().CreateTable(&models.SchemaMigration{}); err != nil {
			return fmt.Errorf("create migrations table: %w", err)
		}
	}

	var applied []models.SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}

	for _, mg := range migrations {
		if done[mg.version] {
			continue
		}
		// DDL is not transactional on MySQL; record only after success
		if err := mg.up(db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", mg.version, mg.name, err)
		}
		if err := db.Create(&models.SchemaMigration{Version: mg.version, Name: mg.name}).Error; err != nil {
			return fmt.Errorf("record migration %d: %w", mg.version, err)
		}
		log.Printf("Applied migration %d: %s", mg.version, mg.name)
	}

	return nil
}

// Install creates the module tables
func Install(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying SQL DB: %w", err)
		}
		if err := executeSQL(sqlDB, data.InitdbMariaDBTables); err != nil {
			return fmt.Errorf("install tables: %w", err)
		}
	}
	return Migrate(db)
}

// Uninstall drops the module tables
func Uninstall(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying SQL DB: %w", err)
		}
		return executeSQL(sqlDB, data.InitdbMariaDBDrop)
	}
	return db.Migrator().DropTable(&models.RepresentativeMapping{}, &models.SchemaMigration{})
}

// alreadyExists reports whether err is a MySQL duplicate column or index error
func alreadyExists(err error) bool {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errDupFieldName || myErr.Number == errDupKeyName
	}
	return false
}
