package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/localnerve/itemsetgroup/internal/metrics"
	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PersistResult says what a Persist call did
type PersistResult int

const (
	// PersistSkipped means no item was given; nothing was done
	PersistSkipped PersistResult = iota
	// PersistRejected means the item is not a member of the item set; nothing was written
	PersistRejected
	// PersistStored means the item and media were stored
	PersistStored
	// PersistStoredItemOnly means the media did not belong to the item and was stored empty
	PersistStoredItemOnly
	// PersistUnavailable means storage failed; the failure was logged and counted
	PersistUnavailable
)

func (r PersistResult) String() string {
	switch r {
	case PersistSkipped:
		return "skipped"
	case PersistRejected:
		return "rejected"
	case PersistStored:
		return "stored"
	case PersistStoredItemOnly:
		return "stored_item_only"
	case PersistUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("PersistResult(%d)", int(r))
}

// Stored reports whether a mapping row was written
func (r PersistResult) Stored() bool {
	return r == PersistStored || r == PersistStoredItemOnly
}

// Representatives manages the item set to representative item/media mapping
type Representatives struct {
	DB    *gorm.DB
	Store *omeka.Store
}

// NewRepresentatives creates a Representatives service
func NewRepresentatives(db *gorm.DB, store *omeka.Store) *Representatives {
	return &Representatives{DB: db, Store: store}
}

// Persist validates and upserts the representative of an item set. The item
// must be a member of the set. A media that does not belong to the item is
// dropped and the item is stored alone. Storage errors never reach the
// caller; they come back as PersistUnavailable.
func (r *Representatives) Persist(ctx context.Context, itemSetID, itemID, mediaID int) PersistResult {
	result := r.persist(ctx, itemSetID, itemID, mediaID)
	metrics.Persist(result.String())
	return result
}

func (r *Representatives) persist(ctx context.Context, itemSetID, itemID, mediaID int) PersistResult {
	if itemSetID <= 0 || itemID <= 0 {
		return PersistSkipped
	}

	member, err := r.Store.IsMember(ctx, itemSetID, itemID)
	if err != nil {
		metrics.Degraded("persist", fmt.Errorf("membership of item %d in item set %d: %w", itemID, itemSetID, err))
		return PersistUnavailable
	}
	if !member {
		return PersistRejected
	}

	result := PersistStored
	var media *int
	if mediaID > 0 {
		owned, err := r.Store.MediaBelongsTo(ctx, mediaID, itemID)
		if err != nil {
			metrics.Degraded("persist", fmt.Errorf("ownership of media %d: %w", mediaID, err))
			return PersistUnavailable
		}
		if owned {
			media = &mediaID
		} else {
			// the item is kept and the foreign media dropped
			result = PersistStoredItemOnly
		}
	}

	row := models.RepresentativeMapping{
		ItemSetID:      itemSetID,
		PrimaryItemID:  itemID,
		PrimaryMediaID: media,
	}
	err = r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_set_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"primary_item_id", "primary_media_id"}),
	}).Create(&row).Error
	if err != nil {
		metrics.Degraded("persist", fmt.Errorf("upsert item set %d: %w", itemSetID, err))
		return PersistUnavailable
	}
	return result
}

// Clear deletes the representative of an item set
func (r *Representatives) Clear(ctx context.Context, itemSetID int) error {
	err := r.DB.WithContext(ctx).
		Where("item_set_id = ?", itemSetID).
		Delete(&models.RepresentativeMapping{}).Error
	if err != nil {
		return fmt.Errorf("clear representative of item set %d: %w", itemSetID, err)
	}
	return nil
}

// Get returns the representative of an item set, or ErrNotFound
func (r *Representatives) Get(ctx context.Context, itemSetID int) (*models.RepresentativeMapping, error) {
	var row models.RepresentativeMapping
	err := r.DB.WithContext(ctx).
		Session(&gorm.Session{Logger: r.DB.Logger.LogMode(logger.Silent)}).
		Where("item_set_id = ?", itemSetID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("representative of item set %d: %w", itemSetID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read representative of item set %d: %w", itemSetID, err)
	}
	return &row, nil
}
