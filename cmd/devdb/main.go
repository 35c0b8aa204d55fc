package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/localnerve/itemsetgroup/internal/devdb"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a disposable MariaDB with the Omeka tables and the item set group table installed.

Usage:

devdb [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file (DB_IMAGE, DB_DATABASE, DB_USER, DB_PASSWORD, DB_ROOT_PASSWORD)

example
  devdb -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx := context.Background()
	d, err := devdb.Start(ctx, devdb.OptionsFromEnv())
	if err != nil {
		log.Fatalf("Failed to start MariaDB: %v\n", err)
	}

	db, err := database.Connect(d.Config())
	if err != nil {
		_ = d.Terminate(ctx)
		log.Fatalf("Failed to connect to MariaDB: %v\n", err)
	}
	if err := devdb.Seed(db); err != nil {
		_ = database.Close(db)
		_ = d.Terminate(ctx)
		log.Fatalf("Failed to seed MariaDB: %v\n", err)
	}
	_ = database.Close(db)

	for _, line := range d.Env() {
		fmt.Println(line)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating MariaDB...\n", sig)
	if err := d.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate MariaDB: %v\n", err)
	}
}
