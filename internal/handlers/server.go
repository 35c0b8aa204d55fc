// server.go
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
	"errors"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/itemsetgroup/data"
	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/middleware"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/types"
	"github.com/localnerve/itemsetgroup/internal/utils"
)

// ServerOptions toggles the process-wide parts of the server
type ServerOptions struct {
	// Metrics registers the HTTP metrics with the default Prometheus registry
	// and serves them at /metrics. Only one server per process may enable it.
	Metrics bool
	// AccessLog enables the request logger
	AccessLog bool
}

// NewServer builds the fiber app and its routes
func NewServer(cfg *config.Config, svc *services.App, validator services.SessionValidator, opts ServerOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: !opts.AccessLog,
	})

	// Global middleware
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(compress.New())

	// Prometheus metrics
	if opts.Metrics {
		prometheus := fiberprometheus.New("itemsetgroup")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, svc.Store.DB)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	app.Get("/static/img/placeholder.svg", etag.New(), func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
		c.Type("svg")
		return c.Send(data.PlaceholderSVG)
	})

	app.Use(middleware.Identify(validator, cfg.EditorRoles))

	pages := &PagesHandler{
		Forwarder: svc.Forwarder,
		Browser:   svc.Browser,
		Selection: svc.Selection,
		Store:     svc.Store,
		Views:     svc.Views,
	}

	// Grouped browse routes, site-less and slugged, with an optional numeric parent
	app.Get("/item-set-group", pages.Groups)
	app.Get("/item-set-group/:parent<int>", pages.Groups)
	app.Get("/s/:site/item-set-group", pages.Groups)
	app.Get("/s/:site/item-set-group/:parent<int>", pages.Groups)

	app.Get("/s/:site/item-set", pages.Browse)
	app.Get("/s/:site/block/:id<int>", pages.SelectionBlock)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	admin := middleware.AuthAdmin(validator, cfg.EditorRoles)

	hookHandler := &HooksHandler{Registry: svc.Registry}
	hooksAPI := api.Group("/hooks", middleware.HookToken(cfg.HookToken))
	hooksAPI.Post("/item-sets/:id/created", hookHandler.ItemSetCreated)
	hooksAPI.Post("/item-sets/:id/updated", hookHandler.ItemSetUpdated)
	hooksAPI.Post("/forms/item-set", hookHandler.FormBuild)
	hooksAPI.Post("/forms/item-set/input-filter", hookHandler.InputFilter)
	hooksAPI.Post("/dispatch", hookHandler.Dispatch)

	itemSets := &ItemSetsHandler{
		Store:           svc.Store,
		Representatives: svc.Representatives,
		Resolver:        svc.Resolver,
		Backfiller:      svc.Backfiller,
	}
	api.Get("/item-sets/:id/representative", itemSets.GetRepresentative)
	api.Put("/item-sets/:id/representative", admin, itemSets.SetRepresentative)
	api.Delete("/item-sets/:id/representative", admin, itemSets.DeleteRepresentative)
	api.Get("/item-sets/:id/thumbnail", itemSets.GetThumbnail)
	api.Get("/items/:id/media", admin, itemSets.GetItemMedia)

	selection := &SelectionHandler{Store: svc.Store, Selection: svc.Selection}
	api.Get("/blocks/:id/selection", admin, selection.GetSelection)
	api.Put("/blocks/:id/selection", admin, selection.SaveSelection)
	api.Get("/sites/:site/selection-options", admin, selection.GetOptions)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	return app
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fe *fiber.Error
	var ce *types.CustomError
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.Is(err, services.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		code = fiber.StatusForbidden
	}

	return utils.ErrorResponse(c, message, code, errorType)
}
