package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/types"
	"github.com/localnerve/itemsetgroup/internal/utils"
)

// HooksHandler receives the host's lifecycle events
type HooksHandler struct {
	Registry *hooks.Registry
}

// savedRequest is the body of an item set create or update event
type savedRequest struct {
	EventID string         `json:"event_id"`
	Content map[string]any `json:"content"`
}

// SavedResponse acknowledges an event
type SavedResponse struct {
	Ok        bool   `json:"ok"`
	EventID   string `json:"event_id"`
	Delivered bool   `json:"delivered"`
}

// formBuildRequest tolerates the host's loose JSON for ids and lists
type formBuildRequest struct {
	Form         string                 `json:"form"`
	ResourceName string                 `json:"resource_name"`
	ItemSetID    types.FlexInt          `json:"item_set_id"`
	Existing     types.FlexList[string] `json:"existing_fields"`
}

// FormBuildResponse lists the fields to add to the form
type FormBuildResponse struct {
	Fields []hooks.FormField `json:"fields"`
}

type inputFilterRequest struct {
	Form         string                          `json:"form"`
	ResourceName string                          `json:"resource_name"`
	Inputs       types.FlexList[hooks.InputSpec] `json:"inputs"`
}

// InputFilterResponse is the adjusted input filter
type InputFilterResponse struct {
	Inputs []hooks.InputSpec `json:"inputs"`
}

type dispatchRequest struct {
	EventID    string              `json:"event_id"`
	Method     string              `json:"method"`
	Route      string              `json:"route"`
	Controller string              `json:"controller"`
	Action     string              `json:"action"`
	ID         types.FlexInt       `json:"id"`
	Form       map[string][]string `json:"form"`
}

// DispatchResponse says whether the module acted on the request
type DispatchResponse struct {
	Acted bool `json:"acted"`
}

// ItemSetCreated handles POST /api/hooks/item-sets/:id/created
// @Summary Item set created
// @Description Runs the create handlers for an item set saved through the host API
// @Tags Hooks
// @Accept json
// @Produce json
// @Param id path int true "Item set ID"
// @Param X-Hook-Token header string false "Shared hook secret"
// @Success 200 {object} SavedResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /hooks/item-sets/{id}/created [post]
func (h *HooksHandler) ItemSetCreated(c *fiber.Ctx) error {
	return h.saved(c, h.Registry.EmitItemSetCreated)
}

// ItemSetUpdated handles POST /api/hooks/item-sets/:id/updated
// @Summary Item set updated
// @Description Runs the update handlers for an item set saved through the host API
// @Tags Hooks
// @Accept json
// @Produce json
// @Param id path int true "Item set ID"
// @Param X-Hook-Token header string false "Shared hook secret"
// @Success 200 {object} SavedResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /hooks/item-sets/{id}/updated [post]
func (h *HooksHandler) ItemSetUpdated(c *fiber.Ctx) error {
	return h.saved(c, h.Registry.EmitItemSetUpdated)
}

type savedEmitter func(ctx context.Context, e hooks.ItemSetSaved) (string, bool)

func (h *HooksHandler) saved(c *fiber.Ctx, emit savedEmitter) error {
	id, err := idParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "hooks")
	}
	var body savedRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid event body", fiber.StatusBadRequest, "hooks")
	}

	eventID, delivered := emit(c.UserContext(), hooks.ItemSetSaved{
		EventID:   body.EventID,
		ItemSetID: id,
		Content:   body.Content,
		Viewer:    types.System,
	})
	return c.JSON(SavedResponse{Ok: true, EventID: eventID, Delivered: delivered})
}

// FormBuild handles POST /api/hooks/forms/item-set
// @Summary Item set form build
// @Description Returns the fields the module adds to an item set form
// @Tags Hooks
// @Accept json
// @Produce json
// @Param X-Hook-Token header string false "Shared hook secret"
// @Success 200 {object} FormBuildResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /hooks/forms/item-set [post]
func (h *HooksHandler) FormBuild(c *fiber.Ctx) error {
	var body formBuildRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid form body", fiber.StatusBadRequest, "hooks")
	}
	e := &hooks.FormBuild{
		Form:         body.Form,
		ResourceName: body.ResourceName,
		ItemSetID:    body.ItemSetID.Int(),
		Existing:     body.Existing.Slice(),
	}
	h.Registry.EmitFormBuild(c.UserContext(), e)
	if e.Fields == nil {
		e.Fields = []hooks.FormField{}
	}
	return c.JSON(FormBuildResponse{Fields: e.Fields})
}

// InputFilter handles POST /api/hooks/forms/item-set/input-filter
// @Summary Item set input filter
// @Description Relaxes the validation of the module's item set form fields
// @Tags Hooks
// @Accept json
// @Produce json
// @Param X-Hook-Token header string false "Shared hook secret"
// @Success 200 {object} InputFilterResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /hooks/forms/item-set/input-filter [post]
func (h *HooksHandler) InputFilter(c *fiber.Ctx) error {
	var body inputFilterRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input filter body", fiber.StatusBadRequest, "hooks")
	}
	e := &hooks.InputFilter{
		Form:         body.Form,
		ResourceName: body.ResourceName,
		Inputs:       body.Inputs.Slice(),
	}
	h.Registry.EmitInputFilter(c.UserContext(), e)
	return c.JSON(InputFilterResponse{Inputs: e.Inputs})
}

// Dispatch handles POST /api/hooks/dispatch
// @Summary Routed request
// @Description Lets the module act on admin item set form posts that bypass the API events
// @Tags Hooks
// @Accept json
// @Produce json
// @Param X-Hook-Token header string false "Shared hook secret"
// @Success 200 {object} DispatchResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /hooks/dispatch [post]
func (h *HooksHandler) Dispatch(c *fiber.Ctx) error {
	var body dispatchRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid dispatch body", fiber.StatusBadRequest, "hooks")
	}
	acted := h.Registry.EmitDispatch(c.UserContext(), hooks.Dispatch{
		EventID:    body.EventID,
		Method:     body.Method,
		Route:      body.Route,
		Controller: body.Controller,
		Action:     body.Action,
		ID:         body.ID.Int(),
		Form:       body.Form,
		Viewer:     types.System,
	})
	return c.JSON(DispatchResponse{Acted: acted})
}
