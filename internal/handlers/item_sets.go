// item_sets.go
//
// Representative thumbnails, selection blocks and grouped browse URLs for Omeka S item sets
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of itemsetgroup.
// itemsetgroup is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// itemsetgroup is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with itemsetgroup.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/iiif"
	"github.com/localnerve/itemsetgroup/internal/middleware"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/types"
	"github.com/localnerve/itemsetgroup/internal/utils"
)

// ItemSetsHandler serves the representative and thumbnail JSON API
type ItemSetsHandler struct {
	Store           *omeka.Store
	Representatives *services.Representatives
	Resolver        *services.ThumbnailResolver
	Backfiller      *services.Backfiller
}

// RepresentativeResponse is the stored representative of an item set
type RepresentativeResponse struct {
	ItemSetID      int  `json:"item_set_id"`
	PrimaryItemID  int  `json:"primary_item_id"`
	PrimaryMediaID *int `json:"primary_media_id"`
}

type representativeRequest struct {
	PrimaryItemID  types.FlexInt `json:"primary_item_id"`
	PrimaryMediaID types.FlexInt `json:"primary_media_id"`
}

// PersistResponse reports the outcome of a representative update
type PersistResponse struct {
	Ok              bool   `json:"ok"`
	Result          string `json:"result"`
	ThumbnailFilled bool   `json:"thumbnail_filled"`
}

// MediaOption is one media offered by the admin media picker
type MediaOption struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Renderer  string `json:"renderer"`
	Thumbnail string `json:"thumbnail"`
	IsPublic  bool   `json:"is_public"`
	IsPrimary bool   `json:"is_primary"`
}

// GetRepresentative handles GET /api/item-sets/:id/representative
// @Summary Get the representative of an item set
// @Tags ItemSets
// @Produce json
// @Param id path int true "Item set ID"
// @Success 200 {object} RepresentativeResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /item-sets/{id}/representative [get]
func (h *ItemSetsHandler) GetRepresentative(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Representatives.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err, "getRepresentative")
	}
	return c.JSON(RepresentativeResponse{
		ItemSetID:      row.ItemSetID,
		PrimaryItemID:  row.PrimaryItemID,
		PrimaryMediaID: row.PrimaryMediaID,
	})
}

// SetRepresentative handles PUT /api/item-sets/:id/representative
// @Summary Set the representative of an item set
// @Description Stores the item, and optionally its media, that represents an item set. The item must belong to the set.
// @Tags ItemSets
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Item set ID"
// @Success 200 {object} PersistResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /item-sets/{id}/representative [put]
func (h *ItemSetsHandler) SetRepresentative(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var body representativeRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid representative body", fiber.StatusBadRequest, "setRepresentative")
	}

	ctx := c.UserContext()
	result := h.Representatives.Persist(ctx, id, body.PrimaryItemID.Int(), body.PrimaryMediaID.Int())
	switch result {
	case services.PersistSkipped:
		return utils.ErrorResponse(c, "primary_item_id is required", fiber.StatusBadRequest, "setRepresentative")
	case services.PersistRejected:
		return utils.ErrorResponse(c, fmt.Sprintf("Item %d is not a member of item set %d", body.PrimaryItemID.Int(), id),
			fiber.StatusUnprocessableEntity, "setRepresentative")
	case services.PersistUnavailable:
		return utils.ErrorResponse(c, "Representative storage is unavailable", fiber.StatusServiceUnavailable, "setRepresentative")
	}

	filled := h.Backfiller.AssignThumbnail(ctx, id)
	return c.JSON(PersistResponse{Ok: true, Result: result.String(), ThumbnailFilled: filled})
}

// DeleteRepresentative handles DELETE /api/item-sets/:id/representative
// @Summary Clear the representative of an item set
// @Tags ItemSets
// @Produce json
// @Security CookieAuth
// @Param id path int true "Item set ID"
// @Success 204
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /item-sets/{id}/representative [delete]
func (h *ItemSetsHandler) DeleteRepresentative(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Representatives.Clear(c.UserContext(), id); err != nil {
		return serviceError(c, err, "deleteRepresentative")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetThumbnail handles GET /api/item-sets/:id/thumbnail
// @Summary Resolve the thumbnail of an item set
// @Description Returns the first image found by the mapped media, the mapped item, the first item and the item set's own thumbnail, else the placeholder
// @Tags ItemSets
// @Produce json
// @Param id path int true "Item set ID"
// @Param size query int false "Pixel size"
// @Param mode query string false "square or full"
// @Param site query string false "Site slug supplying the theme settings"
// @Success 200 {object} services.Resolution
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /item-sets/{id}/thumbnail [get]
func (h *ItemSetsHandler) GetThumbnail(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	opts := services.ResolveOptions{
		Size:   c.QueryInt("size"),
		Viewer: middleware.Viewer(c),
	}
	if mode := c.Query("mode"); mode != "" {
		opts.Mode = iiif.ParseMode(mode)
	}
	if slug := c.Query("site"); slug != "" {
		site, err := h.Store.Site(ctx, slug)
		if err != nil {
			return serviceError(c, err, "getThumbnail")
		}
		opts.Site = site
	}

	res := h.Resolver.Resolve(ctx, id, opts)
	if res.URL == "" {
		res = services.Resolution{URL: h.Resolver.Placeholder(), Tier: services.TierPlaceholder}
	}
	return c.JSON(res)
}

// GetItemMedia handles GET /api/items/:id/media
// @Summary List the media of an item
// @Description Media choices for the representative media picker
// @Tags ItemSets
// @Produce json
// @Security CookieAuth
// @Param id path int true "Item ID"
// @Success 200 {array} MediaOption
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /items/{id}/media [get]
func (h *ItemSetsHandler) GetItemMedia(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	item, err := h.Store.Item(ctx, id, middleware.Viewer(c))
	if err != nil {
		return serviceError(c, err, "getItemMedia")
	}
	media, err := h.Store.ItemMedia(ctx, id)
	if err != nil {
		return serviceError(c, err, "getItemMedia")
	}

	out := make([]MediaOption, 0, len(media))
	for i := range media {
		m := &media[i]
		out = append(out, MediaOption{
			ID:        m.ID,
			Title:     omeka.DisplayTitle(m.Title),
			Renderer:  m.Renderer,
			Thumbnail: h.Store.Files.MediaThumbnail(&m.Media, omeka.RenditionSquare),
			IsPublic:  m.IsPublic,
			IsPrimary: isPrimary(item, m.ID, i),
		})
	}
	return c.JSON(out)
}

// isPrimary marks the designated primary media, or the first one
func isPrimary(item *omeka.ItemView, mediaID, position int) bool {
	if item.PrimaryMediaID != nil && *item.PrimaryMediaID > 0 {
		return *item.PrimaryMediaID == mediaID
	}
	return position == 0
}

