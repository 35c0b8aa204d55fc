// common.go
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
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/utils"
)

// slugPattern is the site slug constraint of the public routes
var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// queryValues copies the request query, keeping repeated keys in order
func queryValues(c *fiber.Ctx) url.Values {
	q := url.Values{}
	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		q.Add(string(key), string(value))
	}
	return q
}

// siteSlug reads and checks the site slug route parameter
func siteSlug(c *fiber.Ctx) (string, error) {
	slug := c.Params("site")
	if !slugPattern.MatchString(slug) {
		return "", fiber.ErrNotFound
	}
	return slug, nil
}

// idParam reads a positive integer route parameter
func idParam(c *fiber.Ctx, name string) (int, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// serviceError maps service sentinels onto the JSON error envelope
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, errorType)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
}

// pageError maps service sentinels onto fiber errors for HTML routes
func pageError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.ErrNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.ErrForbidden
	}
	return err
}

// render executes a view into the response as HTML
func render(c *fiber.Ctx, views *services.Views, name string, model any) error {
	var buf bytes.Buffer
	if err := views.Render(&buf, name, model); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
