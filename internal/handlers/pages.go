package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/middleware"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/services"
)

// PagesHandler serves the public HTML routes
type PagesHandler struct {
	Forwarder *services.Forwarder
	Browser   *services.Browser
	Selection *services.SelectionBlock
	Store     *omeka.Store
	Views     *services.Views
}

// Groups handles /item-set-group[/:parent] and /s/:site/item-set-group[/:parent]
func (h *PagesHandler) Groups(c *fiber.Ctx) error {
	slug := ""
	if c.Params("site") != "" {
		var err error
		if slug, err = siteSlug(c); err != nil {
			return err
		}
	}
	parent := 0
	if c.Params("parent") != "" {
		var err error
		if parent, err = idParam(c, "parent"); err != nil {
			return fiber.ErrNotFound
		}
	}

	viewer := middleware.Viewer(c)
	query := queryValues(c)
	plan, err := h.Forwarder.Plan(c.UserContext(), services.GroupsRequest{
		SiteSlug: slug,
		Parent:   parent,
		Query:    query,
		Viewer:   viewer,
	})
	if err != nil {
		return pageError(err)
	}

	if plan.Action == services.ActionRedirect {
		return c.Redirect(plan.Location, fiber.StatusFound)
	}

	page, err := h.Browser.Browse(c.UserContext(), services.BrowseRequest{
		SiteSlug:    plan.SiteSlug,
		Query:       plan.Query,
		Viewer:      viewer,
		GroupsRoute: true,
		Parent:      plan.Parent,
	})
	if errors.Is(err, services.ErrForbidden) {
		// the forward was refused; send the visitor to the public browse
		fallback := services.RedirectPlan(plan.SiteSlug, plan.Parent, query)
		return c.Redirect(fallback.Location, fiber.StatusFound)
	}
	if err != nil {
		return pageError(err)
	}
	return render(c, h.Views, page.Template, page)
}

// Browse handles /s/:site/item-set
func (h *PagesHandler) Browse(c *fiber.Ctx) error {
	slug, err := siteSlug(c)
	if err != nil {
		return err
	}
	page, err := h.Browser.Browse(c.UserContext(), services.BrowseRequest{
		SiteSlug: slug,
		Query:    queryValues(c),
		Viewer:   middleware.Viewer(c),
	})
	if err != nil {
		return pageError(err)
	}
	return render(c, h.Views, page.Template, page)
}

// SelectionBlock handles /s/:site/block/:id, the rendered markup of a selection block
func (h *PagesHandler) SelectionBlock(c *fiber.Ctx) error {
	slug, err := siteSlug(c)
	if err != nil {
		return err
	}
	blockID, err := idParam(c, "id")
	if err != nil {
		return fiber.ErrNotFound
	}

	ctx := c.UserContext()
	site, err := h.Store.Site(ctx, slug)
	if err != nil {
		return pageError(err)
	}
	data, page, err := h.Selection.Load(ctx, blockID)
	if err != nil {
		return pageError(err)
	}
	if page.SiteID != site.ID {
		return fiber.ErrNotFound
	}

	viewer := middleware.Viewer(c)
	if !page.IsPublic && !viewer.CanSeePrivate() {
		return fiber.ErrNotFound
	}

	markup, _, err := h.Selection.Render(ctx, data, services.RenderContext{
		Site:   site,
		Lang:   c.Query("lang"),
		Viewer: viewer,
	})
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(string(markup))
}
