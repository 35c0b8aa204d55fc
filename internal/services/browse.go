package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/metrics"
	"github.com/localnerve/itemsetgroup/internal/models"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/types"
)

const (
	defaultPerPage = 24
	maxPerPage     = 100
	browseThumb    = 400
)

// BrowseRequest is a site item set browse
type BrowseRequest struct {
	SiteSlug string
	Query    url.Values
	Viewer   types.Viewer
	// GroupsRoute is set when the request was forwarded from the groups route
	GroupsRoute bool
	Parent      int
}

// BrowsePage is the result of a browse
type BrowsePage struct {
	Site      *models.Site
	Template  string
	Lang      string
	Parent    *Tile
	Tiles     []Tile
	Total     int64
	Page      int
	PerPage   int
	PrevURL   string
	NextURL   string
	GroupsURL string
}

// Browser lists the item sets of a site
type Browser struct {
	Store       *omeka.Store
	Resolver    *ThumbnailResolver
	Registry    *hooks.Registry
	EditorRoles []string
}

// NewBrowser creates a Browser
func NewBrowser(store *omeka.Store, resolver *ThumbnailResolver, registry *hooks.Registry, editorRoles []string) *Browser {
	return &Browser{Store: store, Resolver: resolver, Registry: registry, EditorRoles: editorRoles}
}

// Browse runs the host's item set browse for a site. Private sites are
// only browsable by editors; others get ErrForbidden.
func (b *Browser) Browse(ctx context.Context, req BrowseRequest) (*BrowsePage, error) {
	site, err := b.Store.Site(ctx, req.SiteSlug)
	if err != nil {
		return nil, err
	}
	if !site.IsPublic && !req.Viewer.HasAnyRole(b.EditorRoles) {
		return nil, fmt.Errorf("site %q: %w", site.Slug, ErrForbidden)
	}

	q := req.Query
	if q == nil {
		q = url.Values{}
	}
	page := max(types.IntOf(q.Get("page")), 1)
	perPage := types.IntOf(q.Get("per_page"))
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, maxPerPage)

	sets, total, err := b.Store.SearchItemSets(ctx, omeka.ItemSetQuery{
		SiteID:     site.ID,
		Properties: ParsePropertyFilters(q),
		PublicOnly: q.Get("is_public") == "1",
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
		Page:       page,
		PerPage:    perPage,
	}, req.Viewer)
	if err != nil {
		return nil, err
	}

	route := "site/resource"
	if req.GroupsRoute {
		route = RouteGroups
	}
	result := &BrowsePage{
		Site: site,
		Template: b.Registry.EmitBrowseTemplate(ctx, &hooks.BrowseTemplate{
			Route:    route,
			Layout:   q.Get("layout"),
			Template: TemplateBrowse,
		}),
		Lang:      q.Get("lang"),
		Total:     total,
		Page:      page,
		PerPage:   perPage,
		GroupsURL: GroupsPath(site.Slug, 0),
	}

	parents, err := b.Store.GroupParentIDs(ctx)
	if err != nil {
		metrics.Degraded("browse", err)
		parents = map[int]bool{}
	}
	opts := ResolveOptions{Size: browseThumb, Site: site, Viewer: req.Viewer}
	for _, s := range sets {
		res, _ := b.thumb(ctx, s.ID, opts)
		tile := Tile{
			ItemSetID:   s.ID,
			Title:       omeka.DisplayTitle(s.Title),
			URL:         ItemSetURL(site, s.ID),
			Thumb:       res,
			GroupParent: parents[s.ID],
		}
		if tile.GroupParent {
			tile.URL = GroupsPath(site.Slug, s.ID)
		}
		result.Tiles = append(result.Tiles, tile)
	}

	if req.Parent > 0 {
		if parent, err := b.Store.ItemSet(ctx, req.Parent, req.Viewer); err == nil {
			result.Parent = &Tile{ItemSetID: parent.ID, Title: omeka.DisplayTitle(parent.Title), URL: ItemSetURL(site, parent.ID)}
		}
	}

	if page > 1 {
		result.PrevURL = pageURL(site.Slug, q, page-1)
	}
	if int64(page*perPage) < total {
		result.NextURL = pageURL(site.Slug, q, page+1)
	}
	return result, nil
}

func (b *Browser) thumb(ctx context.Context, itemSetID int, opts ResolveOptions) (string, Tier) {
	res := b.Resolver.Resolve(ctx, itemSetID, opts)
	if res.URL == "" {
		return b.Resolver.Placeholder(), TierPlaceholder
	}
	return res.URL, res.Tier
}

func pageURL(slug string, q url.Values, page int) string {
	next := cloneValues(q)
	next.Set("page", strconv.Itoa(page))
	return BrowsePath(slug) + "?" + next.Encode()
}
