package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	editor = types.Viewer{Authenticated: true, UserID: "u1", Roles: []string{"editor"}, ViewPrivate: true}
	// guest is signed in without a role that may read private resources
	guest = types.Viewer{Authenticated: true, UserID: "g1", Roles: []string{"guest"}}
)

func TestPlanAnonymousWithoutSiteRedirectsToBrowse(t *testing.T) {
	app, fx := newTestApp(t)
	fx.Site("other", "default", true)
	demo := fx.Site("demo", "default", true)
	fx.Setting("default_site", itoa(demo))

	plan, err := app.Forwarder.Plan(context.Background(), GroupsRequest{Parent: 42})
	require.NoError(t, err)

	assert.Equal(t, ActionRedirect, plan.Action)
	require.True(t, strings.HasPrefix(plan.Location, "/s/demo/item-set?"), plan.Location)

	loc, err := url.Parse(plan.Location)
	require.NoError(t, err)
	q := loc.Query()
	assert.Equal(t, []omeka.PropertyFilter{
		{Property: "dcterms:isPartOf", Type: "res", Text: "42"},
	}, ParsePropertyFilters(q))
	assert.Equal(t, "groups", q.Get("layout"))
	assert.Equal(t, "dcterms:title", q.Get("sort_by"))
	assert.Equal(t, "asc", q.Get("sort_order"))
	assert.Equal(t, "1", q.Get("is_public"))
}

func TestPlanDefaultSiteFallsBackToFirstPublicSite(t *testing.T) {
	app, fx := newTestApp(t)
	fx.Site("private", "default", false)
	fx.Site("first", "default", true)
	fx.Site("second", "default", true)

	plan, err := app.Forwarder.Plan(context.Background(), GroupsRequest{Viewer: editor})
	require.NoError(t, err)
	assert.Equal(t, ActionRedirect, plan.Action)
	assert.Equal(t, "/s/first/item-set-group", plan.Location)
}

func TestPlanWithoutAnySite(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.Forwarder.Plan(context.Background(), GroupsRequest{Parent: 1})
	assert.True(t, errors.Is(err, omeka.ErrNotFound))
}

func TestPlanSlugged(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	query := url.Values{"sort_by": {"created"}}

	plan, err := app.Forwarder.Plan(ctx, GroupsRequest{SiteSlug: "demo", Parent: 7, Query: query})
	require.NoError(t, err)
	assert.Equal(t, ActionRedirect, plan.Action)
	assert.Equal(t, "1", plan.Query.Get("is_public"))
	assert.Equal(t, "created", plan.Query.Get("sort_by"), "explicit sort is kept")

	plan, err = app.Forwarder.Plan(ctx, GroupsRequest{SiteSlug: "demo", Parent: 7, Query: query, Viewer: editor})
	require.NoError(t, err)
	assert.Equal(t, ActionForward, plan.Action)
	assert.Empty(t, plan.Location)
	assert.Empty(t, plan.Query.Get("is_public"))
	assert.Equal(t, "groups", plan.Query.Get("layout"))
	assert.Len(t, ParsePropertyFilters(plan.Query), 1)
}

func TestPlanGuestIsRedirectedPublicOnly(t *testing.T) {
	app, fx := newTestApp(t)
	demo := fx.Site("demo", "default", true)
	fx.Setting("default_site", itoa(demo))
	ctx := context.Background()

	plan, err := app.Forwarder.Plan(ctx, GroupsRequest{SiteSlug: "demo", Parent: 7, Viewer: guest})
	require.NoError(t, err)
	assert.Equal(t, ActionRedirect, plan.Action)
	assert.True(t, strings.HasPrefix(plan.Location, "/s/demo/item-set?"), plan.Location)
	assert.Equal(t, "1", plan.Query.Get("is_public"))

	plan, err = app.Forwarder.Plan(ctx, GroupsRequest{Parent: 7, Viewer: guest})
	require.NoError(t, err)
	assert.Equal(t, ActionRedirect, plan.Action)
	assert.True(t, strings.HasPrefix(plan.Location, "/s/demo/item-set?"), "guests skip the groups route hop")
	assert.Equal(t, "1", plan.Query.Get("is_public"))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/s/demo/item-set", BrowsePath("demo"))
	assert.Equal(t, "/s/demo/item-set-group/5", GroupsPath("demo", 5))
	assert.Equal(t, "/s/demo/item-set-group", GroupsPath("demo", 0))
	assert.Equal(t, "/item-set-group/5", ItemSetGroupPath(5))
	assert.Equal(t, "redirect", ActionRedirect.String())
}
