package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/utils"
)

// SelectionHandler serves the selection block editor API
type SelectionHandler struct {
	Store     *omeka.Store
	Selection *services.SelectionBlock
}

// GetSelection handles GET /api/blocks/:id/selection
// @Summary Get a selection block
// @Tags Selection
// @Produce json
// @Security CookieAuth
// @Param id path int true "Page block ID"
// @Success 200 {object} services.SelectionData
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /blocks/{id}/selection [get]
func (h *SelectionHandler) GetSelection(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	data, _, err := h.Selection.Load(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err, "getSelection")
	}
	return c.JSON(data)
}

// SaveSelection handles PUT /api/blocks/:id/selection
// @Summary Save a selection block
// @Description Normalizes and stores the block configuration. Entries without an item set are dropped.
// @Tags Selection
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Page block ID"
// @Success 200 {object} services.SelectionData
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /blocks/{id}/selection [put]
func (h *SelectionHandler) SaveSelection(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if _, _, err := h.Selection.Load(ctx, id); err != nil {
		return serviceError(c, err, "saveSelection")
	}

	raw := map[string]any{}
	if err := c.BodyParser(&raw); err != nil {
		return utils.ErrorResponse(c, "Invalid selection body", fiber.StatusBadRequest, "saveSelection")
	}
	data, err := h.Selection.Save(ctx, id, raw)
	if err != nil {
		return serviceError(c, err, "saveSelection")
	}
	return c.JSON(data)
}

// GetOptions handles GET /api/sites/:site/selection-options
// @Summary List selectable item sets
// @Description Public item sets of the site that are not group parents, labelled "#id title"
// @Tags Selection
// @Produce json
// @Security CookieAuth
// @Param site path string true "Site slug"
// @Success 200 {array} hooks.FormOption
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /sites/{site}/selection-options [get]
func (h *SelectionHandler) GetOptions(c *fiber.Ctx) error {
	slug, err := siteSlug(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	site, err := h.Store.Site(ctx, slug)
	if err != nil {
		return serviceError(c, err, "getSelectionOptions")
	}
	opts, err := h.Selection.Options(ctx, site.ID)
	if err != nil {
		return serviceError(c, err, "getSelectionOptions")
	}
	if opts == nil {
		opts = []hooks.FormOption{}
	}
	return c.JSON(opts)
}
