// Package devdb runs a disposable MariaDB with the Omeka host tables and the
// module table installed, for local development and integration tests.
package devdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Options describes the container. Empty fields take the defaults of
// OptionsFromEnv.
type Options struct {
	Image        string
	Database     string
	User         string
	Password     string
	RootPassword string
	// Logf receives progress lines. Defaults to stdout.
	Logf func(format string, args ...any)
}

// OptionsFromEnv reads DB_IMAGE, DB_DATABASE, DB_USER, DB_PASSWORD and DB_ROOT_PASSWORD
func OptionsFromEnv() Options {
	return Options{
		Image:        getEnv("DB_IMAGE", "mariadb:11"),
		Database:     getEnv("DB_DATABASE", "omeka"),
		User:         getEnv("DB_USER", "omeka"),
		Password:     getEnv("DB_PASSWORD", "omeka"),
		RootPassword: getEnv("DB_ROOT_PASSWORD", "root"),
	}
}

func (o *Options) defaults() {
	env := OptionsFromEnv()
	if o.Image == "" {
		o.Image = env.Image
	}
	if o.Database == "" {
		o.Database = env.Database
	}
	if o.User == "" {
		o.User = env.User
	}
	if o.Password == "" {
		o.Password = env.Password
	}
	if o.RootPassword == "" {
		o.RootPassword = env.RootPassword
	}
	if o.Logf == nil {
		o.Logf = func(format string, args ...any) { fmt.Printf(format+"\n", args...) }
	}
}

// DevDB is a running MariaDB container
type DevDB struct {
	Container testcontainers.Container
	Host      string
	Port      string
	opts      Options
}

// Start creates and starts the container and waits until it accepts connections
func Start(ctx context.Context, opts Options) (*DevDB, error) {
	opts.defaults()

	exists, err := imageExists(ctx, opts.Image)
	if err != nil {
		opts.Logf("Could not list local images: %v", err)
	} else if exists {
		opts.Logf("Image %s exists, reusing...", opts.Image)
	} else {
		opts.Logf("Image %s does not exist, pulling...", opts.Image)
	}

	tcpDbPort, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, fmt.Errorf("db port: %w", err)
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.Image,
			ExposedPorts: []string{string(tcpDbPort)},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": opts.RootPassword,
				"MYSQL_DATABASE":      opts.Database,
				"MYSQL_USER":          opts.User,
				"MYSQL_PASSWORD":      opts.Password,
			},
			WaitingFor: wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start mariadb: %w", err)
	}

	d := &DevDB{Container: container, opts: opts}
	if d.Host, err = container.Host(ctx); err != nil {
		_ = d.Terminate(ctx)
		return nil, fmt.Errorf("mariadb host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpDbPort)
	if err != nil {
		_ = d.Terminate(ctx)
		return nil, fmt.Errorf("mariadb port: %w", err)
	}
	d.Port = mapped.Port()

	if err := d.waitReady(ctx); err != nil {
		_ = d.Terminate(ctx)
		return nil, err
	}
	opts.Logf("MariaDB ready at %s:%s", d.Host, d.Port)
	return d, nil
}

// waitReady pings as root until the server answers queries, not just the port
func (d *DevDB) waitReady(ctx context.Context) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", d.opts.RootPassword, d.Host, d.Port))
	if err != nil {
		return fmt.Errorf("connect to mariadb for setup: %w", err)
	}
	defer db.Close()

	for range 30 {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("mariadb not ready after 30 seconds: %w", err)
}

// Config returns the service configuration pointing at the container
func (d *DevDB) Config() *config.Config {
	return &config.Config{
		Port:                "3000",
		DBType:              "mariadb",
		DBHost:              d.Host,
		DBPort:              d.Port,
		DBDatabase:          d.opts.Database,
		DBUser:              d.opts.User,
		DBPassword:          d.opts.Password,
		DBConnectionLimit:   5,
		FilesBaseURL:        "/files",
		PlaceholderURL:      "/static/img/placeholder.svg",
		ThumbnailSize:       800,
		SelectionMaxEntries: 12,
		EditorRoles:         []string{"admin", "editor"},
	}
}

// Env lists the environment a server needs to use the container
func (d *DevDB) Env() []string {
	return []string{
		"DB_TYPE=mariadb",
		"DB_HOST=" + d.Host,
		"DB_PORT=" + d.Port,
		"DB_DATABASE=" + d.opts.Database,
		"DB_USER=" + d.opts.User,
		"DB_PASSWORD=" + d.opts.Password,
	}
}

// Seed creates the Omeka host tables and installs the module table
func Seed(db *gorm.DB) error {
	if err := db.AutoMigrate(models.HostModels()...); err != nil {
		return fmt.Errorf("create host tables: %w", err)
	}
	if err := database.Install(db); err != nil {
		return fmt.Errorf("install module: %w", err)
	}
	return nil
}

// Terminate stops and removes the container
func (d *DevDB) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
