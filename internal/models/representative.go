package models

// RepresentativeTable is the side table owned by this module
const RepresentativeTable = "item_set_primary_item"

// RepresentativeMapping links an item set to the item (and optionally the
// media) chosen to represent it. One row per item set.
type RepresentativeMapping struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	ItemSetID      int    `gorm:"column:item_set_id;not null;uniqueIndex"`
	PrimaryItemID  int    `gorm:"column:primary_item_id;not null;index"`
	PrimaryMediaID *int   `gorm:"column:primary_media_id;index:idx_item_set_primary_media_id"`
}

// TableName overrides the table name for RepresentativeMapping
func (RepresentativeMapping) TableName() string {
	return RepresentativeTable
}

// MediaID returns the representative media id, 0 when unset
func (m RepresentativeMapping) MediaID() int {
	if m.PrimaryMediaID == nil {
		return 0
	}
	return *m.PrimaryMediaID
}

// SchemaMigration records an applied module migration
type SchemaMigration struct {
	Version int    `gorm:"primaryKey;autoIncrement:false"`
	Name    string `gorm:"size:255;not null"`
}

// TableName overrides the table name for SchemaMigration
func (SchemaMigration) TableName() string {
	return "item_set_group_migrations"
}
