package services

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistThenGet(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map 1", true, set)
	media := fx.Media(item, testutil.Local("abc"))

	assert.Equal(t, PersistStored, app.Representatives.Persist(ctx, set, item, media))

	got, err := app.Representatives.Get(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, item, got.PrimaryItemID)
	assert.Equal(t, media, got.MediaID())
}

func TestPersistRejectsNonMember(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	other := fx.ItemSet("Letters", true)
	member := fx.Item("Map 1", true, set)
	stranger := fx.Item("Letter 1", true, other)

	assert.Equal(t, PersistRejected, app.Representatives.Persist(ctx, set, stranger, 0))
	_, err := app.Representatives.Get(ctx, set)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.Equal(t, PersistStored, app.Representatives.Persist(ctx, set, member, 0))
	assert.Equal(t, PersistRejected, app.Representatives.Persist(ctx, set, stranger, 0))
	got, err := app.Representatives.Get(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, member, got.PrimaryItemID, "prior mapping is unchanged")
}

func TestPersistIsIdempotent(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map 1", true, set)
	media := fx.Media(item, testutil.Local("abc"))

	app.Representatives.Persist(ctx, set, item, media)
	app.Representatives.Persist(ctx, set, item, media)

	var count int64
	require.NoError(t, fx.DB.Model(&models.RepresentativeMapping{}).Where("item_set_id = ?", set).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPersistReplacesPreviousChoice(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	first := fx.Item("Map 1", true, set)
	second := fx.Item("Map 2", true, set)
	media := fx.Media(first, testutil.Local("abc"))

	app.Representatives.Persist(ctx, set, first, media)
	assert.Equal(t, PersistStored, app.Representatives.Persist(ctx, set, second, 0))

	got, err := app.Representatives.Get(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, second, got.PrimaryItemID)
	assert.Nil(t, got.PrimaryMediaID, "media is replaced along with the item")
}

func TestPersistDropsForeignMedia(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map 1", true, set)
	otherItem := fx.Item("Map 2", true, set)
	foreign := fx.Media(otherItem, testutil.Local("xyz"))

	assert.Equal(t, PersistStoredItemOnly, app.Representatives.Persist(ctx, set, item, foreign))
	got, err := app.Representatives.Get(ctx, set)
	require.NoError(t, err)
	assert.Equal(t, item, got.PrimaryItemID)
	assert.Nil(t, got.PrimaryMediaID)
}

func TestPersistSkipsEmptyItem(t *testing.T) {
	app, fx := newTestApp(t)
	set := fx.ItemSet("Maps", true)
	assert.Equal(t, PersistSkipped, app.Representatives.Persist(context.Background(), set, 0, 5))
	assert.Equal(t, PersistSkipped, app.Representatives.Persist(context.Background(), set, -3, 0))
}

func TestClear(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	set := fx.ItemSet("Maps", true)
	item := fx.Item("Map 1", true, set)
	app.Representatives.Persist(ctx, set, item, 0)

	require.NoError(t, app.Representatives.Clear(ctx, set))
	_, err := app.Representatives.Get(ctx, set)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, app.Representatives.Clear(ctx, set), "clearing twice is fine")
}

func TestPersistResultString(t *testing.T) {
	assert.Equal(t, "stored_item_only", PersistStoredItemOnly.String())
	assert.True(t, PersistStored.Stored())
	assert.False(t, PersistRejected.Stored())
}
