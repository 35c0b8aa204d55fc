// Package testutil builds in-memory host databases for tests.
package testutil

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/localnerve/itemsetgroup/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory database with the host tables and the
// module's migrations applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.HostModels()...); err != nil {
		t.Fatalf("migrate host tables: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate module tables: %v", err)
	}
	return db
}

// Fixture inserts host rows. Resource ids are shared across items, item
// sets and media, and creation times increase with every resource.
type Fixture struct {
	t     testing.TB
	DB    *gorm.DB
	next  int
	clock time.Time
	terms map[string]int
}

// NewFixture opens a database and returns a Fixture over it
func NewFixture(t testing.TB) *Fixture {
	return NewFixtureOn(t, NewDB(t))
}

// NewFixtureOn returns a Fixture over an already migrated database
func NewFixtureOn(t testing.TB, db *gorm.DB) *Fixture {
	return &Fixture{
		t:     t,
		DB:    db,
		next:  100,
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		terms: map[string]int{},
	}
}

func (f *Fixture) must(err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatalf("fixture: %v", err)
	}
}

func (f *Fixture) resource(kind, title string, public bool) int {
	f.t.Helper()
	f.next++
	f.clock = f.clock.Add(time.Minute)
	r := models.Resource{
		ID:           f.next,
		IsPublic:     public,
		Created:      f.clock,
		ResourceType: kind,
	}
	if title != "" {
		r.Title = &title
	}
	f.must(f.DB.Create(&r).Error)
	return r.ID
}

// ItemSet creates an item set and returns its id
func (f *Fixture) ItemSet(title string, public bool) int {
	f.t.Helper()
	id := f.resource(models.ResourceTypeItemSet, title, public)
	f.must(f.DB.Create(&models.ItemSet{ID: id, IsOpen: true}).Error)
	return id
}

// Item creates an item that belongs to setIDs and returns its id
func (f *Fixture) Item(title string, public bool, setIDs ...int) int {
	f.t.Helper()
	id := f.resource(models.ResourceTypeItem, title, public)
	f.must(f.DB.Create(&models.Item{ID: id}).Error)
	for _, setID := range setIDs {
		f.must(f.DB.Create(&models.ItemItemSet{ItemID: id, ItemSetID: setID}).Error)
	}
	return id
}

// SetPrimaryMedia designates an item's primary media
func (f *Fixture) SetPrimaryMedia(itemID, mediaID int) {
	f.t.Helper()
	f.must(f.DB.Model(&models.Item{}).Where("id = ?", itemID).Update("primary_media_id", mediaID).Error)
}

// MediaOpts describes a media row
type MediaOpts struct {
	Private    bool
	Renderer   string
	Source     string
	Data       map[string]any
	StorageID  string
	Thumbnails bool
	Position   int
}

// IIIF returns options for a media backed by an image service
func IIIF(id string, width, height int) MediaOpts {
	return MediaOpts{
		Renderer: "iiif",
		Data:     map[string]any{"@id": id, "width": width, "height": height},
	}
}

// Local returns options for an uploaded file with generated thumbnails
func Local(storageID string) MediaOpts {
	return MediaOpts{Renderer: "file", StorageID: storageID, Thumbnails: true}
}

// Media creates a media owned by itemID and returns its id
func (f *Fixture) Media(itemID int, opts MediaOpts) int {
	f.t.Helper()
	id := f.resource(models.ResourceTypeMedia, "", !opts.Private)
	m := models.Media{
		ID:            id,
		ItemID:        itemID,
		Ingester:      "upload",
		Renderer:      opts.Renderer,
		HasThumbnails: opts.Thumbnails,
		HasOriginal:   opts.StorageID != "",
	}
	if m.Renderer == "" {
		m.Renderer = "file"
	}
	if opts.Source != "" {
		m.Source = &opts.Source
	}
	if opts.StorageID != "" {
		m.StorageID = &opts.StorageID
	}
	pos := opts.Position
	m.Position = &pos
	if opts.Data != nil {
		data, err := models.NewJSON(opts.Data)
		f.must(err)
		m.Data = data
	}
	f.must(f.DB.Create(&m).Error)
	return id
}

// Asset creates an asset and returns its id
func (f *Fixture) Asset(storageID, ext string) int {
	f.t.Helper()
	a := models.Asset{Name: storageID + "." + ext, MediaType: "image/" + ext, StorageID: storageID, Extension: &ext}
	f.must(f.DB.Create(&a).Error)
	return a.ID
}

// SetThumbnail assigns an asset as a resource's thumbnail
func (f *Fixture) SetThumbnail(resourceID, assetID int) {
	f.t.Helper()
	f.must(f.DB.Model(&models.Resource{}).Where("id = ?", resourceID).Update("thumbnail_id", assetID).Error)
}

// Site creates a site and returns its id
func (f *Fixture) Site(slug, theme string, public bool) int {
	f.t.Helper()
	s := models.Site{Slug: slug, Theme: theme, Title: strings.ToUpper(slug), IsPublic: public}
	f.must(f.DB.Create(&s).Error)
	return s.ID
}

// AssignItemSets adds item sets to a site
func (f *Fixture) AssignItemSets(siteID int, setIDs ...int) {
	f.t.Helper()
	for i, setID := range setIDs {
		pos := i + 1
		f.must(f.DB.Create(&models.SiteItemSet{SiteID: siteID, ItemSetID: setID, Position: &pos}).Error)
	}
}

// Setting stores a global setting
func (f *Fixture) Setting(key string, v any) {
	f.t.Helper()
	f.must(f.DB.Save(&models.Setting{ID: key, Value: f.json(v)}).Error)
}

// SiteSetting stores a site setting
func (f *Fixture) SiteSetting(siteID int, key string, v any) {
	f.t.Helper()
	f.must(f.DB.Save(&models.SiteSetting{ID: key, SiteID: siteID, Value: f.json(v)}).Error)
}

func (f *Fixture) json(v any) models.JSON {
	f.t.Helper()
	raw, err := json.Marshal(v)
	f.must(err)
	return models.JSON{JSON: datatypes.JSON(raw)}
}

// Term returns the property id of a "prefix:local" term, creating it
func (f *Fixture) Term(term string) int {
	f.t.Helper()
	if id, ok := f.terms[term]; ok {
		return id
	}
	prefix, local, _ := strings.Cut(term, ":")
	var vocab models.Vocabulary
	err := f.DB.Where("prefix = ?", prefix).Take(&vocab).Error
	if err != nil {
		vocab = models.Vocabulary{NamespaceURI: "http://example.org/" + prefix + "/", Prefix: prefix, Label: prefix}
		f.must(f.DB.Create(&vocab).Error)
	}
	p := models.Property{VocabularyID: vocab.ID, LocalName: local, Label: local}
	f.must(f.DB.Create(&p).Error)
	f.terms[term] = p.ID
	return p.ID
}

// Literal adds a literal value. lang may be empty.
func (f *Fixture) Literal(resourceID int, term, value, lang string) {
	f.t.Helper()
	v := models.Value{ResourceID: resourceID, PropertyID: f.Term(term), Type: "literal", Value: &value, IsPublic: true}
	if lang != "" {
		v.Lang = &lang
	}
	f.must(f.DB.Create(&v).Error)
}

// Link adds a resource value pointing at target
func (f *Fixture) Link(resourceID int, term string, target int) {
	f.t.Helper()
	v := models.Value{ResourceID: resourceID, PropertyID: f.Term(term), Type: "resource:itemset", ValueResourceID: &target, IsPublic: true}
	f.must(f.DB.Create(&v).Error)
}

// Block creates a page with one block and returns the block id
func (f *Fixture) Block(siteID int, layout string, data any) int {
	f.t.Helper()
	page := models.SitePage{SiteID: siteID, Slug: "page-" + uuid.NewString()[:8], Title: "Page", IsPublic: true}
	f.must(f.DB.Create(&page).Error)
	block := models.SitePageBlock{PageID: page.ID, Layout: layout, Data: f.json(data), Position: 1}
	f.must(f.DB.Create(&block).Error)
	return block.ID
}
