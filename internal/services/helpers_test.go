package services

import (
	"strconv"
	"testing"

	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		DBType:              "sqlite-pure",
		DBDatabase:          ":memory:",
		FilesBaseURL:        "/files",
		PlaceholderURL:      "/static/img/placeholder.svg",
		ThumbnailSize:       800,
		SelectionMaxEntries: 12,
		EditorRoles:         []string{"admin", "editor"},
	}
}

func newTestApp(t *testing.T) (*App, *testutil.Fixture) {
	t.Helper()
	fx := testutil.NewFixture(t)
	app, err := NewApp(testConfig(), fx.DB)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	return app, fx
}

var itoa = strconv.Itoa
