package models

import "time"

// The structs below mirror the parts of the Omeka S schema this service
// reads. The host owns these tables; they are only auto-migrated in tests
// and development databases.

// Resource type discriminators stored in resource.resource_type
const (
	ResourceTypeItem    = `Omeka\Entity\Item`
	ResourceTypeItemSet = `Omeka\Entity\ItemSet`
	ResourceTypeMedia   = `Omeka\Entity\Media`
)

// Resource is the shared row behind items, item sets and media
type Resource struct {
	ID           int       `gorm:"primaryKey"`
	OwnerID      *int      `gorm:"column:owner_id"`
	ThumbnailID  *int      `gorm:"column:thumbnail_id"`
	Title        *string   `gorm:"column:title;type:text"`
	IsPublic     bool      `gorm:"column:is_public;not null"`
	Created      time.Time `gorm:"column:created;not null"`
	Modified     *time.Time
	ResourceType string `gorm:"column:resource_type;size:190;not null"`
}

func (Resource) TableName() string { return "resource" }

type ItemSet struct {
	ID     int  `gorm:"primaryKey;autoIncrement:false"`
	IsOpen bool `gorm:"column:is_open;not null"`
}

func (ItemSet) TableName() string { return "item_set" }

type Item struct {
	ID             int  `gorm:"primaryKey;autoIncrement:false"`
	PrimaryMediaID *int `gorm:"column:primary_media_id"`
}

func (Item) TableName() string { return "item" }

type Media struct {
	ID            int     `gorm:"primaryKey;autoIncrement:false"`
	ItemID        int     `gorm:"column:item_id;not null;index"`
	Ingester      string  `gorm:"size:255;not null"`
	Renderer      string  `gorm:"size:255;not null"`
	Data          JSON    `gorm:"column:data"`
	Source        *string `gorm:"column:source;type:text"`
	MediaType     *string `gorm:"column:media_type;size:255"`
	StorageID     *string `gorm:"column:storage_id;size:190"`
	Extension     *string `gorm:"column:extension;size:255"`
	HasOriginal   bool    `gorm:"column:has_original;not null"`
	HasThumbnails bool    `gorm:"column:has_thumbnails;not null"`
	Position      *int    `gorm:"column:position"`
}

func (Media) TableName() string { return "media" }

// ItemItemSet is the host's membership relation
type ItemItemSet struct {
	ItemID    int `gorm:"column:item_id;primaryKey;autoIncrement:false"`
	ItemSetID int `gorm:"column:item_set_id;primaryKey;autoIncrement:false"`
}

func (ItemItemSet) TableName() string { return "item_item_set" }

type Asset struct {
	ID        int     `gorm:"primaryKey"`
	Name      string  `gorm:"size:255;not null"`
	MediaType string  `gorm:"column:media_type;size:255;not null"`
	StorageID string  `gorm:"column:storage_id;size:190;not null"`
	Extension *string `gorm:"size:255"`
	AltText   *string `gorm:"column:alt_text;type:text"`
}

func (Asset) TableName() string { return "asset" }

type Site struct {
	ID       int    `gorm:"primaryKey"`
	Slug     string `gorm:"size:190;not null;uniqueIndex"`
	Theme    string `gorm:"size:190;not null"`
	Title    string `gorm:"size:255;not null"`
	IsPublic bool   `gorm:"column:is_public;not null"`
}

func (Site) TableName() string { return "site" }

type SiteItemSet struct {
	ID        int  `gorm:"primaryKey"`
	SiteID    int  `gorm:"column:site_id;not null;index"`
	ItemSetID int  `gorm:"column:item_set_id;not null;index"`
	Position  *int `gorm:"column:position"`
}

func (SiteItemSet) TableName() string { return "site_item_set" }

// Setting is a global key/value setting with a JSON value
type Setting struct {
	ID    string `gorm:"primaryKey;size:190"`
	Value JSON   `gorm:"column:value"`
}

func (Setting) TableName() string { return "setting" }

type SiteSetting struct {
	ID     string `gorm:"primaryKey;size:190"`
	SiteID int    `gorm:"primaryKey;autoIncrement:false"`
	Value  JSON   `gorm:"column:value"`
}

func (SiteSetting) TableName() string { return "site_setting" }

type Vocabulary struct {
	ID           int    `gorm:"primaryKey"`
	NamespaceURI string `gorm:"column:namespace_uri;size:190;not null"`
	Prefix       string `gorm:"size:190;not null"`
	Label        string `gorm:"size:255;not null"`
}

func (Vocabulary) TableName() string { return "vocabulary" }

type Property struct {
	ID           int    `gorm:"primaryKey"`
	VocabularyID int    `gorm:"column:vocabulary_id;not null"`
	LocalName    string `gorm:"column:local_name;size:190;not null"`
	Label        string `gorm:"size:255;not null"`
}

func (Property) TableName() string { return "property" }

// Value is a single property value of a resource
type Value struct {
	ID              int     `gorm:"primaryKey"`
	ResourceID      int     `gorm:"column:resource_id;not null;index"`
	PropertyID      int     `gorm:"column:property_id;not null;index"`
	ValueResourceID *int    `gorm:"column:value_resource_id;index"`
	Type            string  `gorm:"size:255;not null"`
	Lang            *string `gorm:"size:255"`
	Value           *string `gorm:"type:text"`
	IsPublic        bool    `gorm:"column:is_public;not null;default:true"`
}

func (Value) TableName() string { return "value" }

type SitePage struct {
	ID       int    `gorm:"primaryKey"`
	SiteID   int    `gorm:"column:site_id;not null"`
	Slug     string `gorm:"size:190;not null"`
	Title    string `gorm:"size:255;not null"`
	IsPublic bool   `gorm:"column:is_public;not null"`
}

func (SitePage) TableName() string { return "site_page" }

type SitePageBlock struct {
	ID       int    `gorm:"primaryKey"`
	PageID   int    `gorm:"column:page_id;not null;index"`
	Layout   string `gorm:"size:80;not null"`
	Data     JSON   `gorm:"column:data"`
	Position int    `gorm:"not null"`
}

func (SitePageBlock) TableName() string { return "site_page_block" }

// HostModels lists the Omeka tables, for migrating test and development databases
func HostModels() []any {
	return []any{
		&Resource{},
		&ItemSet{},
		&Item{},
		&Media{},
		&ItemItemSet{},
		&Asset{},
		&Site{},
		&SiteItemSet{},
		&Setting{},
		&SiteSetting{},
		&Vocabulary{},
		&Property{},
		&Value{},
		&SitePage{},
		&SitePageBlock{},
	}
}
