package handlers

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) hook(t *testing.T, path string, body any) response {
	t.Helper()
	return s.do(t, request{
		method:  fiber.MethodPost,
		path:    "/api/hooks" + path,
		headers: map[string]string{"X-Hook-Token": hookToken},
		body:    body,
	})
}

func TestHooksRequireToken(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, request{method: fiber.MethodPost, path: "/api/hooks/dispatch", body: map[string]any{}})
	require.Equal(t, fiber.StatusUnauthorized, resp.status)
	var e errorBody
	resp.decode(t, &e)
	assert.Equal(t, "item-set-group.hooks", e.Type)
	assert.False(t, e.Ok)

	resp = s.do(t, request{
		method:  fiber.MethodPost,
		path:    "/api/hooks/dispatch",
		headers: map[string]string{"X-Hook-Token": "wrong"},
		body:    map[string]any{},
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
}

func TestItemSetCreatedHook(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)
	item := s.fx.Item("Map", true, set)
	media := s.fx.Media(item, testutil.Local("map"))
	asset := s.fx.Asset("mapthumb", "jpg")
	s.fx.SetThumbnail(media, asset)

	path := "/item-sets/" + strconv.Itoa(set) + "/created"
	event := map[string]any{
		"event_id": "evt-1",
		"content":  map[string]any{services.FieldPrimaryItem: strconv.Itoa(item)},
	}

	resp := s.hook(t, path, event)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var ack SavedResponse
	resp.decode(t, &ack)
	assert.Equal(t, SavedResponse{Ok: true, EventID: "evt-1", Delivered: true}, ack)

	resp = s.get(t, "/api/item-sets/"+strconv.Itoa(set)+"/representative", "")
	require.Equal(t, fiber.StatusOK, resp.status)
	var rep RepresentativeResponse
	resp.decode(t, &rep)
	assert.Equal(t, item, rep.PrimaryItemID)

	resp = s.hook(t, path, event)
	require.Equal(t, fiber.StatusOK, resp.status)
	resp.decode(t, &ack)
	assert.False(t, ack.Delivered, "redelivered events are ignored")

	resp = s.hook(t, "/item-sets/abc/created", event)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
}

func TestItemSetUpdatedHookClears(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)
	item := s.fx.Item("Map", true, set)
	require.Equal(t, services.PersistStored, s.svc.Representatives.Persist(t.Context(), set, item, 0))

	resp := s.hook(t, "/item-sets/"+strconv.Itoa(set)+"/updated", map[string]any{
		"content": map[string]any{services.FieldPrimaryItem: ""},
	})
	require.Equal(t, fiber.StatusOK, resp.status)
	var ack SavedResponse
	resp.decode(t, &ack)
	assert.True(t, ack.Delivered)
	assert.NotEmpty(t, ack.EventID, "an id is assigned when the host sends none")

	resp = s.get(t, "/api/item-sets/"+strconv.Itoa(set)+"/representative", "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestFormBuildHook(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)
	item := s.fx.Item("Map", true, set)

	resp := s.hook(t, "/forms/item-set", map[string]any{
		"resource_name": hooks.ResourceItemSet,
		"item_set_id":   strconv.Itoa(set),
	})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var out FormBuildResponse
	resp.decode(t, &out)
	require.Len(t, out.Fields, 2)
	assert.Equal(t, services.FieldPrimaryItem, out.Fields[0].Name)
	assert.Equal(t, services.FieldPrimaryMedia, out.Fields[1].Name)
	require.Len(t, out.Fields[0].Options, 1)
	assert.Equal(t, hooks.FormOption{Value: item, Label: "#" + strconv.Itoa(item) + " Map"}, out.Fields[0].Options[0])

	resp = s.hook(t, "/forms/item-set", map[string]any{
		"resource_name":   hooks.ResourceItemSet,
		"existing_fields": services.FieldPrimaryItem,
	})
	require.Equal(t, fiber.StatusOK, resp.status)
	resp.decode(t, &out)
	assert.Empty(t, out.Fields, "fields are added once")

	resp = s.hook(t, "/forms/item-set", map[string]any{"resource_name": "items"})
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"fields":[]}`, string(resp.body))
}

func TestInputFilterHook(t *testing.T) {
	s := newTestServer(t)

	resp := s.hook(t, "/forms/item-set/input-filter", map[string]any{
		"form": hooks.FormAddItemSet,
		"inputs": map[string]any{
			"name":     services.FieldPrimaryItem,
			"required": true,
		},
	})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var out InputFilterResponse
	resp.decode(t, &out)
	require.Len(t, out.Inputs, 2)
	assert.Equal(t, services.FieldPrimaryItem, out.Inputs[0].Name)
	assert.False(t, out.Inputs[0].Required)
	assert.True(t, out.Inputs[0].AllowEmpty)
	assert.Equal(t, services.FieldPrimaryMedia, out.Inputs[1].Name)
}

func TestDispatchHook(t *testing.T) {
	s := newTestServer(t)
	set := s.fx.ItemSet("Maps", true)
	item := s.fx.Item("Map", true, set)

	edit := map[string]any{
		"method":     "POST",
		"route":      "admin/id",
		"controller": "item-set",
		"action":     "edit",
		"id":         set,
		"form":       map[string][]string{services.FieldPrimaryItem: {strconv.Itoa(item)}},
	}
	resp := s.hook(t, "/dispatch", edit)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	var out DispatchResponse
	resp.decode(t, &out)
	assert.True(t, out.Acted)

	rep, err := s.svc.Representatives.Get(t.Context(), set)
	require.NoError(t, err)
	assert.Equal(t, item, rep.PrimaryItemID)

	edit["action"] = "show"
	resp = s.hook(t, "/dispatch", edit)
	resp.decode(t, &out)
	assert.False(t, out.Acted)
}
