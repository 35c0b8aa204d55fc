package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/localnerve/itemsetgroup/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Prints the SQLite DDL gorm derives from the host models and the module
// migrations, to compare against the MariaDB install script.
func main() {
	hostTables := flag.Bool("host", false, "include the Omeka host tables")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	if *hostTables {
		if err := db.AutoMigrate(models.HostModels()...); err != nil {
			log.Fatal(err)
		}
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)
	}
}
