package services

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHydrate(t *testing.T) {
	b := &SelectionBlock{MaxEntries: 12}
	d := b.Hydrate(map[string]any{
		"heading":          "  Collections ",
		"show_description": "1",
		"description_max":  "120",
		"entries": map[string]any{
			"1": map[string]any{"item_set_id": "5", "child_item_id": 9.0},
			"0": map[string]any{"item_set_id": 0},
			"2": map[string]any{"item_set_id": 7.0, "thumb_url": " /x.jpg "},
			"3": "garbage",
		},
	})

	assert.Equal(t, "Collections", d.Heading)
	assert.True(t, d.ShowTitle, "titles show by default")
	assert.True(t, d.ShowDescription)
	assert.Equal(t, 120, d.DescriptionMax)
	assert.Equal(t, []SelectionEntry{
		{ItemSetID: 5, ChildItemID: 9},
		{ItemSetID: 7, ThumbURL: "/x.jpg"},
	}, d.Entries)
}

func TestHydrateCapsEntries(t *testing.T) {
	b := &SelectionBlock{MaxEntries: 2}
	d := b.Hydrate(map[string]any{
		"show_title": false,
		"entries": []any{
			map[string]any{"item_set_id": 1},
			map[string]any{"item_set_id": -4},
			map[string]any{"item_set_id": 2},
			map[string]any{"item_set_id": 3},
		},
	})
	assert.False(t, d.ShowTitle)
	require.Len(t, d.Entries, 2)
	assert.Equal(t, 2, d.Entries[1].ItemSetID)

	assert.Empty(t, b.Hydrate(nil).Entries)
}

func TestSelectionSaveAndLoad(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	site := fx.Site("demo", "default", true)
	block := fx.Block(site, BlockLayoutSelection, map[string]any{})

	saved, err := app.Selection.Save(ctx, block, map[string]any{
		"heading": "Featured",
		"entries": []any{map[string]any{"item_set_id": "11"}, map[string]any{"item_set_id": ""}},
	})
	require.NoError(t, err)

	loaded, page, err := app.Selection.Load(ctx, block)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	assert.Equal(t, site, page.SiteID)
	assert.Equal(t, []SelectionEntry{{ItemSetID: 11}}, loaded.Entries)

	other := fx.Block(site, "html", map[string]any{"html": "<p>hi</p>"})
	_, _, err = app.Selection.Load(ctx, other)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = app.Selection.Save(ctx, 9999, map[string]any{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSelectionTiles(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	siteID := fx.Site("demo", "default", true)
	site, err := app.Store.Site(ctx, "demo")
	require.NoError(t, err)

	described := fx.ItemSet("Described", true)
	fx.Literal(described, omeka.TermDescription, "<p>Hello <b>world</b> and more</p>", "")
	child := fx.Item("Child", true, described)
	secret := fx.ItemSet("Secret", false)
	withAsset := fx.ItemSet("", true)
	fx.SetThumbnail(withAsset, fx.Asset("cover", "png"))
	fx.AssignItemSets(siteID, described, secret, withAsset)

	d := SelectionData{
		ShowTitle:       true,
		ShowDescription: true,
		DescriptionMax:  11,
		MoreURL:         "/s/demo/item-set",
		Entries: []SelectionEntry{
			{ItemSetID: described, ChildItemID: child, ThumbURL: "/custom.jpg"},
			{ItemSetID: secret},
			{ItemSetID: withAsset},
		},
	}

	html, tiles, err := app.Selection.Render(ctx, d, RenderContext{Site: site, Lang: "ja"})
	require.NoError(t, err)
	require.Len(t, tiles, 3)

	assert.Equal(t, Tile{
		ItemSetID:   described,
		Title:       "Described",
		Description: "Hello world…",
		URL:         "/s/demo/item-set/" + itoa(described),
		Thumb:       "/custom.jpg",
		ChildTitle:  "Child",
		ChildURL:    "/s/demo/item/" + itoa(child),
	}, tiles[0])

	assert.Equal(t, Tile{
		ItemSetID:   secret,
		Title:       "Secret",
		URL:         "/item-set-group/" + itoa(secret),
		Thumb:       "/static/img/placeholder.svg",
		GroupParent: true,
	}, tiles[1], "a hidden set degrades to a minimal tile")

	assert.Equal(t, "[Untitled]", tiles[2].Title)
	assert.Equal(t, "/files/asset/cover.png", tiles[2].Thumb)

	out := string(html)
	assert.Contains(t, out, "is-group-parent")
	assert.Contains(t, out, "Hello world…")
	assert.Contains(t, out, "もっと見る")
}

func TestSelectionTitlesFollowLocale(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	siteID := fx.Site("demo", "default", true)
	fx.SiteSetting(siteID, "filter_locale_values", true)
	site, err := app.Store.Site(ctx, "demo")
	require.NoError(t, err)

	set := fx.ItemSet("Maps", true)
	fx.Literal(set, omeka.TermTitle, "Cartes", "fr")
	fx.Literal(set, omeka.TermTitle, "地図", "ja")

	tiles := app.Selection.Tiles(ctx, SelectionData{Entries: []SelectionEntry{{ItemSetID: set}}}, RenderContext{Site: site, Lang: "ja"})
	require.Len(t, tiles, 1)
	assert.Equal(t, "地図", tiles[0].Title)

	tiles = app.Selection.Tiles(ctx, SelectionData{Entries: []SelectionEntry{{ItemSetID: set}}}, RenderContext{Site: site, Lang: "de"})
	assert.Equal(t, "Maps", tiles[0].Title, "no matching value falls back to the stored title")
}

func TestSelectionOptionsExcludeGroupParents(t *testing.T) {
	app, fx := newTestApp(t)
	ctx := context.Background()

	siteID := fx.Site("demo", "default", true)
	otherSite := fx.Site("other", "default", true)

	parent := fx.ItemSet("Parent", true)
	child := fx.ItemSet("Child", true)
	fx.Link(child, omeka.TermIsPartOf, parent)
	hidden := fx.ItemSet("Hidden", false)
	elsewhere := fx.ItemSet("Elsewhere", true)
	untitled := fx.ItemSet("", true)
	fx.AssignItemSets(siteID, untitled, parent, child, hidden)
	fx.AssignItemSets(otherSite, elsewhere)

	opts, err := app.Selection.Options(ctx, siteID)
	require.NoError(t, err)
	assert.Equal(t, []hooks.FormOption{
		{Value: child, Label: "#" + itoa(child) + " Child"},
		{Value: untitled, Label: "#" + itoa(untitled) + " [Untitled]"},
	}, opts)
}

func TestText(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", StripTags("<p>Tom &amp; <em>Jerry</em></p>"))
	assert.Equal(t, "日本語…", Truncate("日本語のテキスト", 3))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "short", Truncate("short", 0))
	assert.Equal(t, "abc…", PlainExcerpt("  <div>abcdef</div> ", 3))

	assert.Equal(t, "See more", MoreText("en-US"))
	assert.Equal(t, "See more", MoreText(""))
	assert.Equal(t, "もっと見る", MoreText("ja-JP"))
}
