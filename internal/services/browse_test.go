package services

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type browseFixture struct {
	app                   *App
	fx                    *testutil.Fixture
	parent, first, second int
}

func newBrowseFixture(t *testing.T) browseFixture {
	app, fx := newTestApp(t)
	site := fx.Site("demo", "default", true)

	parent := fx.ItemSet("Collections", true)
	second := fx.ItemSet("Zoology", true)
	first := fx.ItemSet("Botany", true)
	fx.Link(first, omeka.TermIsPartOf, parent)
	fx.Link(second, omeka.TermIsPartOf, parent)
	private := fx.ItemSet("Drafts", false)
	fx.Link(private, omeka.TermIsPartOf, parent)
	fx.AssignItemSets(site, parent, second, first, private)

	return browseFixture{app: app, fx: fx, parent: parent, first: first, second: second}
}

func TestBrowseGroupChildren(t *testing.T) {
	bf := newBrowseFixture(t)

	page, err := bf.app.Browser.Browse(context.Background(), BrowseRequest{
		SiteSlug:    "demo",
		Query:       BrowseQuery(nil, bf.parent, true),
		GroupsRoute: true,
		Parent:      bf.parent,
	})
	require.NoError(t, err)

	assert.Equal(t, TemplateBrowseGroups, page.Template)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Tiles, 2)
	assert.Equal(t, "Botany", page.Tiles[0].Title)
	assert.Equal(t, "Zoology", page.Tiles[1].Title)
	assert.Equal(t, "/static/img/placeholder.svg", page.Tiles[0].Thumb)
	require.NotNil(t, page.Parent)
	assert.Equal(t, "Collections", page.Parent.Title)
	assert.Empty(t, page.NextURL)
}

func TestBrowseMarksGroupParents(t *testing.T) {
	bf := newBrowseFixture(t)

	page, err := bf.app.Browser.Browse(context.Background(), BrowseRequest{
		SiteSlug: "demo",
		Query:    url.Values{"sort_by": {"dcterms:title"}},
		Viewer:   editor,
	})
	require.NoError(t, err)

	assert.Equal(t, TemplateBrowse, page.Template)
	assert.EqualValues(t, 4, page.Total, "editors see private sets")
	var parent *Tile
	for i := range page.Tiles {
		if page.Tiles[i].ItemSetID == bf.parent {
			parent = &page.Tiles[i]
		}
	}
	require.NotNil(t, parent)
	assert.True(t, parent.GroupParent)
	assert.Equal(t, "/s/demo/item-set-group/"+itoa(bf.parent), parent.URL)
}

func TestBrowseGuestSeesPublicOnly(t *testing.T) {
	bf := newBrowseFixture(t)
	ctx := context.Background()

	page, err := bf.app.Browser.Browse(ctx, BrowseRequest{
		SiteSlug: "demo",
		Query:    url.Values{"sort_by": {"dcterms:title"}},
		Viewer:   guest,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	for _, tile := range page.Tiles {
		assert.NotEqual(t, "Drafts", tile.Title)
	}

	var drafts int
	require.NoError(t, bf.fx.DB.Table("resource").Select("id").Where("title = ?", "Drafts").Scan(&drafts).Error)
	_, err = bf.app.Store.ItemSet(ctx, drafts, guest)
	assert.True(t, errors.Is(err, omeka.ErrForbidden))

	_, err = bf.app.Store.ItemSet(ctx, drafts, guest.WithPrivateRoles([]string{"guest"}))
	assert.NoError(t, err, "roles granted private access widen visibility")
}

func TestBrowsePaging(t *testing.T) {
	bf := newBrowseFixture(t)

	page, err := bf.app.Browser.Browse(context.Background(), BrowseRequest{
		SiteSlug: "demo",
		Query:    url.Values{"per_page": {"1"}, "page": {"2"}, "sort_by": {"title"}},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Tiles, 1)
	assert.Equal(t, "Collections", page.Tiles[0].Title)
	assert.Contains(t, page.PrevURL, "page=1")
	assert.Contains(t, page.NextURL, "page=3")
}

func TestBrowsePrivateSite(t *testing.T) {
	app, fx := newTestApp(t)
	fx.Site("staff", "default", false)
	ctx := context.Background()

	_, err := app.Browser.Browse(ctx, BrowseRequest{SiteSlug: "staff"})
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = app.Browser.Browse(ctx, BrowseRequest{SiteSlug: "staff", Viewer: guest})
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = app.Browser.Browse(ctx, BrowseRequest{SiteSlug: "staff", Viewer: editor})
	assert.NoError(t, err)

	_, err = app.Browser.Browse(ctx, BrowseRequest{SiteSlug: "missing"})
	assert.True(t, errors.Is(err, ErrNotFound))
}
