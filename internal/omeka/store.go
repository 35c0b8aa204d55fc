// Package omeka reads the parts of the Omeka S database this service needs
// and performs the few host-side writes it is allowed to make.
package omeka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

var (
	// ErrNotFound is returned when a resource does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a resource exists but the viewer may not read it
	ErrForbidden = errors.New("forbidden")
)

// UpdateListener receives the host's item set post-update event
type UpdateListener func(ctx context.Context, itemSetID int, content map[string]any)

// Store is the gorm-backed view of the host database
type Store struct {
	DB    *gorm.DB
	Files Files

	// OnItemSetUpdated is invoked after UpdateItemSetThumbnail, the way the
	// host emits a post-update event for its own partial updates.
	OnItemSetUpdated UpdateListener
}

// NewStore creates a Store
func NewStore(db *gorm.DB, files Files) *Store {
	return &Store{DB: db, Files: files}
}

// quiet returns a session that does not log record-not-found noise
func (s *Store) quiet(ctx context.Context) *gorm.DB {
	return s.DB.Session(&gorm.Session{Logger: s.DB.Logger.LogMode(logger.Silent)}).WithContext(ctx)
}

// ItemSetView is an item set joined with its resource row
type ItemSetView struct {
	ID          int
	Title       *string
	IsPublic    bool
	Created     time.Time
	ThumbnailID *int
}

// ItemView is an item joined with its resource row
type ItemView struct {
	ID             int
	Title          *string
	IsPublic       bool
	Created        time.Time
	PrimaryMediaID *int
}

// MediaView is a media row joined with its resource row
type MediaView struct {
	models.Media
	Title       *string
	IsPublic    bool
	ThumbnailID *int
}

// DisplayTitle returns the stored title or the host's untitled marker
func DisplayTitle(title *string) string {
	if title == nil || strings.TrimSpace(*title) == "" {
		return "[Untitled]"
	}
	return *title
}

// ItemSet reads an item set visible to viewer
func (s *Store) ItemSet(ctx context.Context, id int, viewer types.Viewer) (*ItemSetView, error) {
	var v ItemSetView
	err := s.quiet(ctx).Table("resource r").
		Select("r.id, r.title, r.is_public, r.created, r.thumbnail_id").
		Joins("JOIN item_set s ON s.id = r.id").
		Where("r.id = ?", id).
		Take(&v).Error
	if err := notFound(err, "item set", id); err != nil {
		return nil, err
	}
	if !v.IsPublic && !viewer.CanSeePrivate() {
		return nil, fmt.Errorf("item set %d: %w", id, ErrForbidden)
	}
	return &v, nil
}

// Item reads an item visible to viewer
func (s *Store) Item(ctx context.Context, id int, viewer types.Viewer) (*ItemView, error) {
	var v ItemView
	err := s.quiet(ctx).Table("resource r").
		Select("r.id, r.title, r.is_public, r.created, i.primary_media_id").
		Joins("JOIN item i ON i.id = r.id").
		Where("r.id = ?", id).
		Take(&v).Error
	if err := notFound(err, "item", id); err != nil {
		return nil, err
	}
	if !v.IsPublic && !viewer.CanSeePrivate() {
		return nil, fmt.Errorf("item %d: %w", id, ErrForbidden)
	}
	return &v, nil
}

// Media reads a media visible to viewer
func (s *Store) Media(ctx context.Context, id int, viewer types.Viewer) (*MediaView, error) {
	var v MediaView
	err := s.quiet(ctx).Table("media m").
		Select("m.*, r.title, r.is_public, r.thumbnail_id").
		Joins("JOIN resource r ON r.id = m.id").
		Where("m.id = ?", id).
		Take(&v).Error
	if err := notFound(err, "media", id); err != nil {
		return nil, err
	}
	if !v.IsPublic && !viewer.CanSeePrivate() {
		return nil, fmt.Errorf("media %d: %w", id, ErrForbidden)
	}
	return &v, nil
}

// PrimaryMedia returns the item's designated primary media, or its first
// media by position when none is designated.
func (s *Store) PrimaryMedia(ctx context.Context, item *ItemView, viewer types.Viewer) (*MediaView, error) {
	if item.PrimaryMediaID != nil && *item.PrimaryMediaID > 0 {
		return s.Media(ctx, *item.PrimaryMediaID, viewer)
	}
	var v MediaView
	q := s.quiet(ctx).Table("media m").
		Select("m.*, r.title, r.is_public, r.thumbnail_id").
		Joins("JOIN resource r ON r.id = m.id").
		Where("m.item_id = ?", item.ID)
	if !viewer.CanSeePrivate() {
		q = q.Where("r.is_public = ?", true)
	}
	err := q.Order("m.position ASC").Order("m.id ASC").Take(&v).Error
	if err := notFound(err, "primary media of item", item.ID); err != nil {
		return nil, err
	}
	return &v, nil
}

// FirstItemInSet returns the earliest created member item of an item set
func (s *Store) FirstItemInSet(ctx context.Context, itemSetID int, viewer types.Viewer) (*ItemView, error) {
	var v ItemView
	q := s.quiet(ctx).Clauses(hints.Comment("select", "itemsetgroup:first-item")).
		Table("resource r").
		Select("r.id, r.title, r.is_public, r.created, i.primary_media_id").
		Joins("JOIN item i ON i.id = r.id").
		Joins("JOIN item_item_set iis ON iis.item_id = i.id").
		Where("iis.item_set_id = ?", itemSetID)
	if !viewer.CanSeePrivate() {
		q = q.Where("r.is_public = ?", true)
	}
	err := q.Order("r.created ASC").Order("r.id ASC").Limit(1).Take(&v).Error
	if err := notFound(err, "first item of item set", itemSetID); err != nil {
		return nil, err
	}
	return &v, nil
}

// IsMember reports whether item belongs to item set via the host's membership relation
func (s *Store) IsMember(ctx context.Context, itemSetID, itemID int) (bool, error) {
	var count int64
	err := s.quiet(ctx).Model(&models.ItemItemSet{}).
		Where("item_set_id = ? AND item_id = ?", itemSetID, itemID).
		Count(&count).Error
	return count > 0, err
}

// MediaBelongsTo reports whether media is owned by item
func (s *Store) MediaBelongsTo(ctx context.Context, mediaID, itemID int) (bool, error) {
	var count int64
	err := s.quiet(ctx).Model(&models.Media{}).
		Where("id = ? AND item_id = ?", mediaID, itemID).
		Count(&count).Error
	return count > 0, err
}

// ItemsInSet lists member items of an item set by id
func (s *Store) ItemsInSet(ctx context.Context, itemSetID int, limit int) ([]ItemView, error) {
	var out []ItemView
	err := s.quiet(ctx).Table("resource r").
		Select("r.id, r.title, r.is_public, r.created, i.primary_media_id").
		Joins("JOIN item i ON i.id = r.id").
		Joins("JOIN item_item_set iis ON iis.item_id = i.id").
		Where("iis.item_set_id = ?", itemSetID).
		Order("r.id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ItemMedia lists the media of an item by position
func (s *Store) ItemMedia(ctx context.Context, itemID int) ([]MediaView, error) {
	var out []MediaView
	err := s.quiet(ctx).Table("media m").
		Select("m.*, r.title, r.is_public, r.thumbnail_id").
		Joins("JOIN resource r ON r.id = m.id").
		Where("m.item_id = ?", itemID).
		Order("m.position ASC").Order("m.id ASC").
		Find(&out).Error
	return out, err
}

// Asset reads an asset by id
func (s *Store) Asset(ctx context.Context, id int) (*models.Asset, error) {
	var a models.Asset
	err := s.quiet(ctx).Where("id = ?", id).Take(&a).Error
	if err := notFound(err, "asset", id); err != nil {
		return nil, err
	}
	return &a, nil
}

// RawTitle reads resource.title directly, bypassing visibility. Used only to
// label degraded tiles.
func (s *Store) RawTitle(ctx context.Context, id int) (string, error) {
	var title *string
	err := s.quiet(ctx).Model(&models.Resource{}).Select("title").Where("id = ?", id).Scan(&title).Error
	if err != nil || title == nil {
		return "", err
	}
	return *title, nil
}

// UpdateItemSetThumbnail assigns an asset as the item set's thumbnail and
// emits the host's post-update event with the partial update content.
func (s *Store) UpdateItemSetThumbnail(ctx context.Context, itemSetID, assetID int) error {
	err := s.DB.WithContext(ctx).Model(&models.Resource{}).
		Where("id = ? AND resource_type = ?", itemSetID, models.ResourceTypeItemSet).
		Update("thumbnail_id", assetID).Error
	if err != nil {
		return fmt.Errorf("update item set %d thumbnail: %w", itemSetID, err)
	}
	if s.OnItemSetUpdated != nil {
		s.OnItemSetUpdated(ctx, itemSetID, map[string]any{
			"o:thumbnail": map[string]any{"o:id": assetID},
		})
	}
	return nil
}

func notFound(err error, what string, id int) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("read %s %d: %w", what, id, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
