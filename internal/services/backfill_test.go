package services

import (
	"context"
	"sync"
	"testing"

	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/testutil"
	"github.com/localnerve/itemsetgroup/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thumbnailOf(t *testing.T, app *App, setID int) int {
	t.Helper()
	view, err := app.Store.ItemSet(context.Background(), setID, types.System)
	require.NoError(t, err)
	if view.ThumbnailID == nil {
		return 0
	}
	return *view.ThumbnailID
}

func TestBackfillUsesMappedMedia(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map", true, set)
	fx.Media(item, testutil.Local("first"))
	chosen := testutil.Local("chosen")
	chosen.Position = 1
	chosenID := fx.Media(item, chosen)
	asset := fx.Asset("chosen-thumb", "jpg")
	fx.SetThumbnail(chosenID, asset)

	app.Representatives.Persist(ctx, set, item, chosenID)
	assert.True(t, app.Backfiller.AssignThumbnail(ctx, set))
	assert.Equal(t, asset, thumbnailOf(t, app, set))
}

func TestBackfillUsesPrimaryMediaOfMappedItem(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map", true, set)
	fx.Media(item, testutil.Local("first"))
	primaryID := fx.Media(item, testutil.Local("primary"))
	fx.SetPrimaryMedia(item, primaryID)
	asset := fx.Asset("primary-thumb", "jpg")
	fx.SetThumbnail(primaryID, asset)

	app.Representatives.Persist(ctx, set, item, 0)
	assert.True(t, app.Backfiller.AssignThumbnail(ctx, set))
	assert.Equal(t, asset, thumbnailOf(t, app, set))
}

func TestBackfillKeepsExistingThumbnail(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	existing := fx.Asset("existing", "png")
	fx.SetThumbnail(set, existing)
	item := fx.Item("Map", true, set)
	media := fx.Media(item, testutil.Local("m"))
	fx.SetThumbnail(media, fx.Asset("media-thumb", "jpg"))

	app.Representatives.Persist(ctx, set, item, media)
	assert.False(t, app.Backfiller.AssignThumbnail(ctx, set))
	assert.Equal(t, existing, thumbnailOf(t, app, set))
}

func TestBackfillNeedsMapping(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map", true, set)
	media := fx.Media(item, testutil.Local("m"))
	fx.SetThumbnail(media, fx.Asset("media-thumb", "jpg"))

	assert.False(t, app.Backfiller.AssignThumbnail(ctx, set), "the first item is not a backfill source")
	assert.Zero(t, thumbnailOf(t, app, set))
}

func TestBackfillSkipsWhenSuppressed(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map", true, set)
	media := fx.Media(item, testutil.Local("m"))
	fx.SetThumbnail(media, fx.Asset("media-thumb", "jpg"))
	app.Representatives.Persist(ctx, set, item, media)

	assert.False(t, app.Backfiller.AssignThumbnail(hooks.WithSuppressed(ctx), set))
	assert.Zero(t, thumbnailOf(t, app, set))
}

func TestBackfillUpdateDoesNotRecurse(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map", true, set)
	media := fx.Media(item, testutil.Local("m"))
	asset := fx.Asset("media-thumb", "jpg")
	fx.SetThumbnail(media, asset)

	type seen struct {
		suppressed bool
		thumbnail  bool
	}
	var mu sync.Mutex
	var events []seen
	app.Registry.OnItemSetUpdated(func(ctx context.Context, e hooks.ItemSetSaved) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, seen{suppressed: hooks.Suppressed(ctx), thumbnail: e.Has("o:thumbnail")})
	})

	_, delivered := app.Registry.EmitItemSetUpdated(ctx, hooks.ItemSetSaved{
		ItemSetID: set,
		Content:   map[string]any{FieldPrimaryItem: item, FieldPrimaryMedia: media},
		Viewer:    types.System,
	})
	require.True(t, delivered)

	assert.Equal(t, asset, thumbnailOf(t, app, set))
	assert.ElementsMatch(t, []seen{
		{suppressed: true, thumbnail: true},
		{suppressed: false, thumbnail: false},
	}, events, "the thumbnail update is delivered once, under suppression")
}
