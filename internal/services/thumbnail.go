package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/localnerve/itemsetgroup/internal/iiif"
	"github.com/localnerve/itemsetgroup/internal/metrics"
	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/types"
)

// BlankImage is a 1x1 transparent GIF
const BlankImage = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///ywAAAAAAQABAAACAUwAOw=="

// ThemeSettingIIIFMode is the theme setting that picks the first-item crop
const ThemeSettingIIIFMode = "thumbnail_iiif_mode"

// Tier names the source of a resolved thumbnail
type Tier string

const (
	TierNone        Tier = ""
	TierMappedMedia Tier = "mapped_media"
	TierMappedItem  Tier = "mapped_item"
	TierFirstItem   Tier = "first_item"
	TierItemSet     Tier = "item_set"
	TierPlaceholder Tier = "placeholder"
)

// Resolution is a resolved thumbnail URL and the tier that produced it
type Resolution struct {
	URL  string `json:"url"`
	Tier Tier   `json:"tier"`
}

// ResolveOptions controls a resolution
type ResolveOptions struct {
	// Size in pixels, defaults to the resolver's DefaultSize
	Size int
	// Mode overrides the theme's crop preference for the first-item tier
	Mode iiif.Mode
	// Site supplies the theme settings, may be nil
	Site   *models.Site
	Viewer types.Viewer
}

// ThumbnailResolver picks the image that represents an item set
type ThumbnailResolver struct {
	Store           *omeka.Store
	Representatives *Representatives
	PlaceholderURL  string
	DefaultSize     int
}

// NewThumbnailResolver creates a ThumbnailResolver
func NewThumbnailResolver(store *omeka.Store, reps *Representatives, placeholderURL string, defaultSize int) *ThumbnailResolver {
	return &ThumbnailResolver{
		Store:           store,
		Representatives: reps,
		PlaceholderURL:  placeholderURL,
		DefaultSize:     defaultSize,
	}
}

// Resolve returns the first URL found by the mapped media, the mapped item,
// the first item of the set and finally the set's own thumbnail. URL is
// empty when none of them yields an image. It performs no writes.
func (r *ThumbnailResolver) Resolve(ctx context.Context, itemSetID int, opts ResolveOptions) Resolution {
	size := opts.Size
	if size <= 0 {
		size = r.DefaultSize
	}

	mapping, err := r.Representatives.Get(ctx, itemSetID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.Degraded("resolve", err)
	}

	if mapping != nil {
		if mid := mapping.MediaID(); mid > 0 {
			if url := r.mediaURL(ctx, mid, iiif.ModeSquare, size, opts.Viewer); url != "" {
				return r.found(url, TierMappedMedia)
			}
		}
		if mapping.PrimaryItemID > 0 {
			if url := r.itemURL(ctx, mapping.PrimaryItemID, iiif.ModeSquare, size, opts.Viewer); url != "" {
				return r.found(url, TierMappedItem)
			}
		}
	}

	if url := r.firstItemURL(ctx, itemSetID, r.mode(ctx, opts), size, opts.Viewer); url != "" {
		return r.found(url, TierFirstItem)
	}

	if url := r.itemSetURL(ctx, itemSetID, opts.Viewer); url != "" {
		return r.found(url, TierItemSet)
	}

	return Resolution{}
}

// ResolveHTML resolves like Resolve and wraps the image in a loading frame.
// It always returns markup, using the placeholder when nothing resolves.
func (r *ThumbnailResolver) ResolveHTML(ctx context.Context, itemSetID int, opts ResolveOptions) (template.HTML, Resolution) {
	res := r.Resolve(ctx, itemSetID, opts)
	if res.URL == "" {
		res = r.found(r.Placeholder(), TierPlaceholder)
	}
	return ThumbFrame(res.URL), res
}

// Placeholder returns the configured placeholder URL or the blank image
func (r *ThumbnailResolver) Placeholder() string {
	if r.PlaceholderURL != "" {
		return r.PlaceholderURL
	}
	return BlankImage
}

var thumbFrameTemplate = template.Must(template.New("thumb-frame").Parse(
	`<span class="thumb-frame"><img src="{{.}}" class="thumbnail" loading="lazy" decoding="async" alt="" ` +
		`onload="this.parentNode.classList.add('is-loaded')" ` +
		`onerror="this.parentNode.classList.add('is-loaded')" /></span>`))

// ThumbFrame renders an image inside a frame that is marked loaded whether
// the image loads or fails.
func ThumbFrame(url string) template.HTML {
	var buf strings.Builder
	if err := thumbFrameTemplate.Execute(&buf, template.URL(url)); err != nil {
		metrics.Degraded("thumb_frame", err)
		return ""
	}
	return template.HTML(buf.String())
}

func (r *ThumbnailResolver) found(url string, tier Tier) Resolution {
	metrics.ThumbnailTier(string(tier))
	return Resolution{URL: url, Tier: tier}
}

// mode returns the explicit override, else the site's theme preference
func (r *ThumbnailResolver) mode(ctx context.Context, opts ResolveOptions) iiif.Mode {
	if opts.Mode != "" {
		return opts.Mode
	}
	pref, err := r.Store.ThemeSetting(ctx, opts.Site, ThemeSettingIIIFMode)
	if err != nil {
		metrics.Degraded("resolve", err)
	}
	return iiif.ParseMode(pref)
}

func (r *ThumbnailResolver) mediaURL(ctx context.Context, mediaID int, mode iiif.Mode, size int, viewer types.Viewer) string {
	media, err := r.Store.Media(ctx, mediaID, viewer)
	if err != nil {
		r.skip(err)
		return ""
	}
	return r.renditionURL(media, mode, size)
}

func (r *ThumbnailResolver) itemURL(ctx context.Context, itemID int, mode iiif.Mode, size int, viewer types.Viewer) string {
	item, err := r.Store.Item(ctx, itemID, viewer)
	if err != nil {
		r.skip(err)
		return ""
	}
	return r.primaryMediaURL(ctx, item, mode, size, viewer)
}

func (r *ThumbnailResolver) firstItemURL(ctx context.Context, itemSetID int, mode iiif.Mode, size int, viewer types.Viewer) string {
	item, err := r.Store.FirstItemInSet(ctx, itemSetID, viewer)
	if err != nil {
		r.skip(err)
		return ""
	}
	return r.primaryMediaURL(ctx, item, mode, size, viewer)
}

func (r *ThumbnailResolver) primaryMediaURL(ctx context.Context, item *omeka.ItemView, mode iiif.Mode, size int, viewer types.Viewer) string {
	media, err := r.Store.PrimaryMedia(ctx, item, viewer)
	if err != nil {
		r.skip(err)
		return ""
	}
	return r.renditionURL(media, mode, size)
}

// renditionURL prefers the image service and falls back to the host's large rendition
func (r *ThumbnailResolver) renditionURL(media *omeka.MediaView, mode iiif.Mode, size int) string {
	var data map[string]any
	if err := media.Data.Decode(&data); err != nil {
		metrics.Degraded("resolve", fmt.Errorf("media %d data: %w", media.ID, err))
	}
	source := ""
	if media.Source != nil {
		source = *media.Source
	}
	if d, ok := iiif.FromMediaData(data, media.Renderer, source); ok {
		if url := iiif.URL(d, mode, size); url != "" {
			return url
		}
	}
	return r.Store.Files.MediaThumbnail(&media.Media, omeka.RenditionLarge)
}

// itemSetURL returns the set's own thumbnail asset. Item sets carry a single
// asset, so the large, medium and square renditions share one URL.
func (r *ThumbnailResolver) itemSetURL(ctx context.Context, itemSetID int, viewer types.Viewer) string {
	set, err := r.Store.ItemSet(ctx, itemSetID, viewer)
	if err != nil {
		r.skip(err)
		return ""
	}
	if set.ThumbnailID == nil {
		return ""
	}
	asset, err := r.Store.Asset(ctx, *set.ThumbnailID)
	if err != nil {
		r.skip(err)
		return ""
	}
	return r.Store.Files.AssetURL(asset)
}

// skip counts unexpected read failures. Missing and hidden resources are
// ordinary fall-through cases.
func (r *ThumbnailResolver) skip(err error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
		return
	}
	metrics.Degraded("resolve", err)
}
