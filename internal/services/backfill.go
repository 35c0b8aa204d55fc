package services

import (
	"context"
	"errors"

	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/metrics"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/types"
)

// Backfiller gives item sets without a thumbnail the thumbnail of their
// representative media.
type Backfiller struct {
	Store           *omeka.Store
	Representatives *Representatives
}

// NewBackfiller creates a Backfiller
func NewBackfiller(store *omeka.Store, reps *Representatives) *Backfiller {
	return &Backfiller{Store: store, Representatives: reps}
}

// AssignThumbnail sets the item set's thumbnail from the mapped media, or
// the mapped item's primary media, when the set has none. The first item
// of the set is not consulted. The update runs under a suppressed context so
// the post-update event it triggers does not backfill again. It reports
// whether a thumbnail was assigned.
func (b *Backfiller) AssignThumbnail(ctx context.Context, itemSetID int) bool {
	if hooks.Suppressed(ctx) || itemSetID <= 0 {
		return false
	}

	set, err := b.Store.ItemSet(ctx, itemSetID, types.System)
	if err != nil {
		b.skip(err)
		return false
	}
	if set.ThumbnailID != nil && *set.ThumbnailID > 0 {
		return false
	}

	mapping, err := b.Representatives.Get(ctx, itemSetID)
	if err != nil {
		b.skip(err)
		return false
	}
	if mapping.PrimaryItemID <= 0 {
		return false
	}

	var media *omeka.MediaView
	if mid := mapping.MediaID(); mid > 0 {
		if media, err = b.Store.Media(ctx, mid, types.System); err != nil {
			b.skip(err)
			media = nil
		}
	}
	if media == nil {
		item, err := b.Store.Item(ctx, mapping.PrimaryItemID, types.System)
		if err != nil {
			b.skip(err)
			return false
		}
		if media, err = b.Store.PrimaryMedia(ctx, item, types.System); err != nil {
			b.skip(err)
			return false
		}
	}
	if media.ThumbnailID == nil || *media.ThumbnailID <= 0 {
		return false
	}

	if err := b.Store.UpdateItemSetThumbnail(hooks.WithSuppressed(ctx), itemSetID, *media.ThumbnailID); err != nil {
		metrics.Degraded("backfill", err)
		return false
	}
	return true
}

func (b *Backfiller) skip(err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	metrics.Degraded("backfill", err)
}
