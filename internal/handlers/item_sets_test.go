package handlers

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iiifHost = "https://iiif.example.org/"

func representativePath(id int) string {
	return "/api/item-sets/" + strconv.Itoa(id) + "/representative"
}

func TestRepresentativeRequiresEditor(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)
	body := map[string]any{"primary_item_id": 1}

	for name, session := range map[string]string{"anonymous": "", "reader": readerSession, "bogus": "nope"} {
		t.Run(name, func(t *testing.T) {
			resp := s.do(t, request{method: fiber.MethodPut, path: representativePath(set), session: session, body: body})
			require.Equal(t, fiber.StatusForbidden, resp.status)
			var e errorBody
			resp.decode(t, &e)
			assert.Equal(t, "item-set-group.authorization.admin", e.Type)
		})
	}
}

func TestRepresentativeLifecycle(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)
	item := s.fx.Item("Map", true, set)
	media := s.fx.Media(item, testutil.Local("map"))
	asset := s.fx.Asset("mapthumb", "jpg")
	s.fx.SetThumbnail(media, asset)
	stranger := s.fx.Item("Elsewhere", true)

	put := func(body any) response {
		return s.do(t, request{method: fiber.MethodPut, path: representativePath(set), session: editorSession, body: body})
	}

	resp := put(map[string]any{"primary_item_id": strconv.Itoa(item), "primary_media_id": media})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	assert.Equal(t, "1.0.0", resp.header.Get("X-Api-Version"))
	var persisted PersistResponse
	resp.decode(t, &persisted)
	assert.Equal(t, PersistResponse{Ok: true, Result: "stored", ThumbnailFilled: true}, persisted)

	resp = s.get(t, representativePath(set), "")
	require.Equal(t, fiber.StatusOK, resp.status)
	var rep RepresentativeResponse
	resp.decode(t, &rep)
	assert.Equal(t, set, rep.ItemSetID)
	assert.Equal(t, item, rep.PrimaryItemID)
	require.NotNil(t, rep.PrimaryMediaID)
	assert.Equal(t, media, *rep.PrimaryMediaID)

	resp = put(map[string]any{"primary_item_id": stranger})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.status, "non-members are rejected")

	resp = put(map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = s.do(t, request{method: fiber.MethodDelete, path: representativePath(set), session: editorSession})
	assert.Equal(t, fiber.StatusNoContent, resp.status)

	resp = s.get(t, representativePath(set), "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)

	resp = s.get(t, "/api/item-sets/0/representative", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
}

func TestAPIVersion(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)

	resp := s.do(t, request{
		method:  fiber.MethodGet,
		path:    "/api/item-sets/" + strconv.Itoa(set) + "/thumbnail",
		headers: map[string]string{"X-Api-Version": "2.0.0"},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
}

func TestThumbnailEndpoint(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)
	item := s.fx.Item("Map", true, set)
	s.fx.Media(item, testutil.IIIF(iiifHost+"map", 2000, 2000))
	bare := s.fx.ItemSet("Bare", true)
	hidden := s.fx.ItemSet("Hidden", false)
	s.fx.Site("demo", "default", true)

	thumbnail := func(id int, query string, session string) services.Resolution {
		t.Helper()
		resp := s.get(t, "/api/item-sets/"+strconv.Itoa(id)+"/thumbnail"+query, session)
		require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
		var res services.Resolution
		resp.decode(t, &res)
		return res
	}

	res := thumbnail(set, "", "")
	assert.Equal(t, services.TierFirstItem, res.Tier)
	assert.Equal(t, iiifHost+"map/square/800,/0/default.jpg", res.URL)

	res = thumbnail(set, "?size=400&site=demo", "")
	assert.Equal(t, iiifHost+"map/square/400,/0/default.jpg", res.URL)

	res = thumbnail(bare, "", "")
	assert.Equal(t, services.Resolution{URL: "/static/img/placeholder.svg", Tier: services.TierPlaceholder}, res)

	res = thumbnail(hidden, "", "")
	assert.Equal(t, services.TierPlaceholder, res.Tier, "private sets resolve to the placeholder for visitors")

	resp := s.get(t, "/api/item-sets/"+strconv.Itoa(set)+"/thumbnail?site=missing", "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestItemMediaEndpoint(t *testing.T) {
	s := newTestServer(t)
	item := s.fx.Item("Map", true)
	first := s.fx.Media(item, testutil.Local("front"))
	back := testutil.Local("back")
	back.Position = 1
	second := s.fx.Media(item, back)
	path := "/api/items/" + strconv.Itoa(item) + "/media"

	resp := s.get(t, path, "")
	assert.Equal(t, fiber.StatusForbidden, resp.status)

	resp = s.get(t, path, editorSession)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var media []MediaOption
	resp.decode(t, &media)
	require.Len(t, media, 2)
	assert.Equal(t, first, media[0].ID)
	assert.True(t, media[0].IsPrimary)
	assert.Equal(t, second, media[1].ID)
	assert.False(t, media[1].IsPrimary)
	assert.Equal(t, "/files/square/back.jpg", media[1].Thumbnail)

	s.fx.SetPrimaryMedia(item, second)
	resp = s.get(t, path, editorSession)
	resp.decode(t, &media)
	assert.False(t, media[0].IsPrimary)
	assert.True(t, media[1].IsPrimary)

	resp = s.get(t, "/api/items/9999/media", editorSession)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}
