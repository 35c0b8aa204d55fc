package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"

	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/metrics"
	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/types"
)

// BlockLayoutSelection is the page block layout name
const BlockLayoutSelection = "item_set_group_selection"

// selectionThumbSize is the pixel size requested for tiles
const selectionThumbSize = 800

// candidateLimit bounds the editor's item set choices
const candidateLimit = 500

// SelectionEntry is one configured tile
type SelectionEntry struct {
	ItemSetID   int    `json:"item_set_id"`
	ChildItemID int    `json:"child_item_id"`
	ThumbAsset  int    `json:"thumb_asset"`
	ThumbURL    string `json:"thumb_url"`
}

// SelectionData is the stored configuration of a selection block
type SelectionData struct {
	Heading         string           `json:"heading"`
	Description     string           `json:"description"`
	ShowTitle       bool             `json:"show_title"`
	ShowDescription bool             `json:"show_description"`
	DescriptionMax  int              `json:"description_max"`
	MoreURL         string           `json:"more_url"`
	MoreText        string           `json:"more_text"`
	Entries         []SelectionEntry `json:"entries"`
}

// Tile is one rendered item set
type Tile struct {
	ItemSetID   int    `json:"item_set_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Thumb       string `json:"thumb"`
	ChildTitle  string `json:"child_title,omitempty"`
	ChildURL    string `json:"child_url,omitempty"`
	// GroupParent marks tiles that link to the groups route
	GroupParent bool `json:"group_parent"`
}

// RenderContext is the page a block renders on
type RenderContext struct {
	Site   *models.Site
	Lang   string
	Viewer types.Viewer
}

// SelectionBlock configures and renders the item set selection block
type SelectionBlock struct {
	Store      *omeka.Store
	Resolver   *ThumbnailResolver
	Views      *Views
	MaxEntries int
}

// NewSelectionBlock creates a SelectionBlock
func NewSelectionBlock(store *omeka.Store, resolver *ThumbnailResolver, views *Views, maxEntries int) *SelectionBlock {
	return &SelectionBlock{Store: store, Resolver: resolver, Views: views, MaxEntries: maxEntries}
}

// Hydrate normalizes submitted block data. Values are coerced from the
// loose types form posts carry, defaults are applied, and entries without
// a positive item set id are dropped.
func (b *SelectionBlock) Hydrate(raw map[string]any) SelectionData {
	d := SelectionData{
		Heading:         trimmedString(raw["heading"]),
		ShowTitle:       boolOf(raw, "show_title", true),
		ShowDescription: boolOf(raw, "show_description", false),
		DescriptionMax:  types.IntOf(raw["description_max"]),
		MoreURL:         trimmedString(raw["more_url"]),
		MoreText:        trimmedString(raw["more_text"]),
		Entries:         []SelectionEntry{},
	}
	if s, ok := raw["description"].(string); ok {
		d.Description = s
	}

	for _, row := range listOf(raw["entries"]) {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}
		e := SelectionEntry{
			ItemSetID:   types.IntOf(m["item_set_id"]),
			ChildItemID: types.IntOf(m["child_item_id"]),
			ThumbAsset:  types.IntOf(m["thumb_asset"]),
			ThumbURL:    trimmedString(m["thumb_url"]),
		}
		if e.ItemSetID <= 0 {
			continue
		}
		if b.MaxEntries > 0 && len(d.Entries) >= b.MaxEntries {
			break
		}
		d.Entries = append(d.Entries, e)
	}
	return d
}

// Load reads and normalizes a stored block
func (b *SelectionBlock) Load(ctx context.Context, blockID int) (SelectionData, *models.SitePage, error) {
	block, page, err := b.Store.SitePageBlock(ctx, blockID)
	if err != nil {
		return SelectionData{}, nil, err
	}
	if block.Layout != BlockLayoutSelection {
		return SelectionData{}, nil, fmt.Errorf("block %d is a %s block: %w", blockID, block.Layout, ErrNotFound)
	}
	raw := map[string]any{}
	if err := block.Data.Decode(&raw); err != nil {
		return SelectionData{}, nil, fmt.Errorf("decode block %d: %w", blockID, err)
	}
	return b.Hydrate(raw), page, nil
}

// Save normalizes raw and stores it as the block's data
func (b *SelectionBlock) Save(ctx context.Context, blockID int, raw map[string]any) (SelectionData, error) {
	d := b.Hydrate(raw)
	data, err := models.NewJSON(d)
	if err != nil {
		return d, fmt.Errorf("encode block %d: %w", blockID, err)
	}
	return d, b.Store.SaveSitePageBlockData(ctx, blockID, data)
}

// Tiles resolves every entry. An entry whose item set cannot be read by the
// viewer becomes a minimal tile rather than disappearing.
func (b *SelectionBlock) Tiles(ctx context.Context, d SelectionData, rc RenderContext) []Tile {
	langs := b.valueLangs(ctx, rc)
	tiles := make([]Tile, 0, len(d.Entries))
	for _, e := range d.Entries {
		tile, err := b.tile(ctx, e, d.DescriptionMax, langs, rc)
		if err != nil {
			if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) {
				metrics.Degraded("selection", err)
			}
			tile = b.fallbackTile(ctx, e.ItemSetID)
		}
		tiles = append(tiles, tile)
	}
	return tiles
}

func (b *SelectionBlock) tile(ctx context.Context, e SelectionEntry, descMax int, langs []string, rc RenderContext) (Tile, error) {
	thumb := ""
	if e.ThumbAsset > 0 {
		if asset, err := b.Store.Asset(ctx, e.ThumbAsset); err == nil {
			thumb = b.Store.Files.AssetURL(asset)
		}
	}
	if thumb == "" {
		thumb = e.ThumbURL
	}

	set, err := b.Store.ItemSet(ctx, e.ItemSetID, rc.Viewer)
	if err != nil {
		return Tile{}, err
	}

	if thumb == "" {
		thumb = b.Resolver.Resolve(ctx, set.ID, ResolveOptions{Size: selectionThumbSize, Site: rc.Site, Viewer: rc.Viewer}).URL
	}
	if thumb == "" {
		thumb = b.Resolver.Placeholder()
	}

	tile := Tile{
		ItemSetID: set.ID,
		Title:     b.title(ctx, set.ID, set.Title, langs, rc.Viewer),
		URL:       ItemSetURL(rc.Site, set.ID),
		Thumb:     thumb,
	}

	desc, err := b.Store.Value(ctx, set.ID, omeka.TermDescription, langs, rc.Viewer)
	if err != nil {
		metrics.Degraded("selection", err)
	}
	if descMax > 0 {
		desc = PlainExcerpt(desc, descMax)
	}
	tile.Description = desc

	if e.ChildItemID > 0 {
		if child, err := b.Store.Item(ctx, e.ChildItemID, rc.Viewer); err == nil {
			tile.ChildTitle = b.title(ctx, child.ID, child.Title, langs, rc.Viewer)
			tile.ChildURL = ItemURL(rc.Site, child.ID)
		}
	}
	return tile, nil
}

// fallbackTile labels the tile from the raw resource title
func (b *SelectionBlock) fallbackTile(ctx context.Context, itemSetID int) Tile {
	title := "#" + strconv.Itoa(itemSetID)
	if raw, err := b.Store.RawTitle(ctx, itemSetID); err != nil {
		metrics.Degraded("selection", err)
	} else if raw != "" {
		title = raw
	}
	return Tile{
		ItemSetID:   itemSetID,
		Title:       title,
		URL:         ItemSetGroupPath(itemSetID),
		Thumb:       b.Resolver.Placeholder(),
		GroupParent: true,
	}
}

func (b *SelectionBlock) title(ctx context.Context, id int, stored *string, langs []string, viewer types.Viewer) string {
	if langs != nil {
		v, err := b.Store.Value(ctx, id, omeka.TermTitle, langs, viewer)
		if err != nil {
			metrics.Degraded("selection", err)
		}
		if v != "" {
			return v
		}
	}
	return omeka.DisplayTitle(stored)
}

// valueLangs returns the page language and "no language" when the site
// filters values by locale, else nil.
func (b *SelectionBlock) valueLangs(ctx context.Context, rc RenderContext) []string {
	if rc.Site == nil {
		return nil
	}
	var filter any
	if err := b.Store.SiteSetting(ctx, rc.Site.ID, "filter_locale_values", &filter); err != nil {
		metrics.Degraded("selection", err)
		return nil
	}
	if !truthy(filter) {
		return nil
	}
	return []string{rc.Lang, ""}
}

// selectionView is the model of the selection template
type selectionView struct {
	SelectionData
	Description template.HTML
	Tiles       []Tile
}

// Render renders the block's markup
func (b *SelectionBlock) Render(ctx context.Context, d SelectionData, rc RenderContext) (template.HTML, []Tile, error) {
	tiles := b.Tiles(ctx, d, rc)
	view := selectionView{
		SelectionData: d,
		// block descriptions are editor authored HTML
		Description: template.HTML(d.Description),
		Tiles:       tiles,
	}
	if view.MoreURL != "" && view.MoreText == "" {
		view.MoreText = MoreText(rc.Lang)
	}

	var buf strings.Builder
	if err := b.Views.Render(&buf, "item-set-group-selection", view); err != nil {
		return "", tiles, fmt.Errorf("render selection: %w", err)
	}
	return template.HTML(buf.String()), tiles, nil
}

// Options lists the item sets an editor may pick for a site: its public
// item sets that are not group parents, labelled "#id title".
func (b *SelectionBlock) Options(ctx context.Context, siteID int) ([]hooks.FormOption, error) {
	parents, err := b.Store.GroupParentIDs(ctx)
	if err != nil {
		metrics.Degraded("selection_options", err)
		parents = map[int]bool{}
	}
	sets, _, err := b.Store.SearchItemSets(ctx, omeka.ItemSetQuery{
		SiteID:     siteID,
		PublicOnly: true,
		SortBy:     "id",
		SortOrder:  "asc",
		Page:       1,
		PerPage:    candidateLimit,
	}, types.Anonymous)
	if err != nil {
		return nil, err
	}
	out := make([]hooks.FormOption, 0, len(sets))
	for _, s := range sets {
		if parents[s.ID] {
			continue
		}
		out = append(out, hooks.FormOption{
			Value: s.ID,
			Label: fmt.Sprintf("#%d %s", s.ID, omeka.DisplayTitle(s.Title)),
		})
	}
	return out, nil
}

// ItemSetURL is the public page of an item set
func ItemSetURL(site *models.Site, id int) string {
	if site == nil {
		return "/item-set/" + strconv.Itoa(id)
	}
	return "/s/" + site.Slug + "/item-set/" + strconv.Itoa(id)
}

// ItemURL is the public page of an item
func ItemURL(site *models.Site, id int) string {
	if site == nil {
		return "/item/" + strconv.Itoa(id)
	}
	return "/s/" + site.Slug + "/item/" + strconv.Itoa(id)
}

func trimmedString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// boolOf reads key with loose truthiness, returning def when absent
func boolOf(raw map[string]any, key string, def bool) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return def
	}
	return truthy(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	case float64:
		return t != 0
	case json.Number:
		return t.String() != "0"
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// listOf accepts a JSON array or an index keyed object
func listOf(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.Atoi(keys[i])
			c, errC := strconv.Atoi(keys[j])
			if errA == nil && errC == nil {
				return a < c
			}
			return keys[i] < keys[j]
		})
		out := make([]any, 0, len(t))
		for _, k := range keys {
			out = append(out, t[k])
		}
		return out
	}
	return nil
}
