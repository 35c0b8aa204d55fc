// main.go
//
// Representative thumbnails, selection blocks and grouped browse URLs for Omeka S item sets
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of itemsetgroup.
// itemsetgroup is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// itemsetgroup is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with itemsetgroup.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Command healthcheck is the container health probe. By default it asks the
// running server for /health; -direct checks the database from this process.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/localnerve/itemsetgroup/internal/services"
)

func main() {
	direct := flag.Bool("direct", false, "check the database from this process instead of the server")
	timeout := flag.Duration("timeout", 3*time.Second, "server probe timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var result services.HealthCheckResult
	if *direct {
		result = checkDatabase(cfg)
	} else {
		result = probeServer(cfg, *timeout)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}
	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}

func checkDatabase(cfg *config.Config) services.HealthCheckResult {
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	return services.HealthCheck(cfg, db)
}

// probeServer reads the server's /health. 503 responses carry a result too.
func probeServer(cfg *config.Config, timeout time.Duration) services.HealthCheckResult {
	url := fmt.Sprintf("http://127.0.0.1:%s/health", cfg.Port)
	code, body, errs := fiber.Get(url).Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return services.HealthCheckResult{Status: "unhealthy", ErrorMessage: fmt.Sprintf("GET %s: %v", url, errs[0])}
	}

	var result services.HealthCheckResult
	if err := json.Unmarshal(body, &result); err != nil || result.Status == "" {
		return services.HealthCheckResult{Status: "unhealthy", ErrorMessage: fmt.Sprintf("GET %s: status %d", url, code)}
	}
	return result
}
