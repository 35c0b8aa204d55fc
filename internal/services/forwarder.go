package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/types"
)

// RouteGroups names the pretty grouped browse route
const RouteGroups = "item-set-group"

// Action is what the groups route does with a request
type Action int

const (
	// ActionRedirect sends the client to Location
	ActionRedirect Action = iota
	// ActionForward dispatches the browse action within the same request
	ActionForward
)

func (a Action) String() string {
	if a == ActionForward {
		return "forward"
	}
	return "redirect"
}

// GroupsRequest is a request to the groups route
type GroupsRequest struct {
	SiteSlug string
	// Parent is the parent item set id, 0 when the path has none
	Parent int
	Query  url.Values
	Viewer types.Viewer
}

// GroupsPlan says how to answer a groups route request
type GroupsPlan struct {
	Action   Action
	Location string
	SiteSlug string
	Parent   int
	Query    url.Values
}

// Forwarder maps the pretty groups URLs onto the site item set browse
type Forwarder struct {
	Store *omeka.Store
}

// NewForwarder creates a Forwarder
func NewForwarder(store *omeka.Store) *Forwarder {
	return &Forwarder{Store: store}
}

// Plan decides between a redirect and an in-process forward.
//
// Viewers who cannot read private resources (anonymous visitors and guest
// sessions) are always redirected to the browse page with is_public=1, the
// default site being resolved when no slug is given. Privileged viewers
// without a slug are redirected to the default site's groups route, and
// with one they are forwarded; when the forward is refused the caller
// falls back to RedirectPlan.
func (f *Forwarder) Plan(ctx context.Context, req GroupsRequest) (GroupsPlan, error) {
	log.Printf("itemsetgroup: groups route matched: site=%q parent=%d", req.SiteSlug, req.Parent)

	publicOnly := !req.Viewer.CanSeePrivate()
	if req.SiteSlug == "" {
		site, err := f.Store.DefaultSite(ctx)
		if err != nil {
			return GroupsPlan{}, fmt.Errorf("resolve default site: %w", err)
		}
		if publicOnly {
			return RedirectPlan(site.Slug, req.Parent, req.Query), nil
		}
		return GroupsPlan{
			Action:   ActionRedirect,
			Location: GroupsPath(site.Slug, req.Parent),
			SiteSlug: site.Slug,
			Parent:   req.Parent,
		}, nil
	}

	if publicOnly {
		return RedirectPlan(req.SiteSlug, req.Parent, req.Query), nil
	}

	return GroupsPlan{
		Action:   ActionForward,
		SiteSlug: req.SiteSlug,
		Parent:   req.Parent,
		Query:    BrowseQuery(req.Query, req.Parent, false),
	}, nil
}

// RedirectPlan redirects to the site browse page with the public-only query
func RedirectPlan(siteSlug string, parent int, query url.Values) GroupsPlan {
	q := BrowseQuery(query, parent, true)
	return GroupsPlan{
		Action:   ActionRedirect,
		Location: BrowsePath(siteSlug) + "?" + q.Encode(),
		SiteSlug: siteSlug,
		Parent:   parent,
		Query:    q,
	}
}

// BrowseQuery normalizes a grouped browse query. The parent filter appears
// once; layout, sort_by and sort_order are defaulted when absent; public
// adds is_public=1 when absent.
func BrowseQuery(query url.Values, parent int, public bool) url.Values {
	q := NormalizeParentFilter(query, parent)
	setDefault(q, "layout", LayoutGroups)
	setDefault(q, "sort_by", omeka.TermTitle)
	setDefault(q, "sort_order", "asc")
	if public {
		setDefault(q, "is_public", "1")
	}
	return q
}

// BrowsePath is the site item set browse path
func BrowsePath(siteSlug string) string {
	return "/s/" + url.PathEscape(siteSlug) + "/item-set"
}

// GroupsPath is the slugged groups route path
func GroupsPath(siteSlug string, parent int) string {
	p := "/s/" + url.PathEscape(siteSlug) + "/" + RouteGroups
	if parent > 0 {
		p += "/" + strconv.Itoa(parent)
	}
	return p
}

// ItemSetGroupPath is the site-less groups route path of an item set
func ItemSetGroupPath(itemSetID int) string {
	return "/" + RouteGroups + "/" + strconv.Itoa(itemSetID)
}
