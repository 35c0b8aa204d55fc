package services

import (
	"context"
	"fmt"
	"log"

	"github.com/localnerve/itemsetgroup/internal/hooks"
	"github.com/localnerve/itemsetgroup/internal/metrics"
	"github.com/localnerve/itemsetgroup/internal/omeka"
	"github.com/localnerve/itemsetgroup/internal/types"
)

// Form fields added to item set forms
const (
	FieldPrimaryItem  = "primary_item_id"
	FieldPrimaryMedia = "primary_media_id"
)

// Browse templates
const (
	TemplateBrowse       = "browse"
	TemplateBrowseGroups = "browse-groups"
	LayoutGroups         = "groups"
)

// memberOptionLimit bounds the representative item select
const memberOptionLimit = 200

// Module connects the representative mapping to the host's events
type Module struct {
	Store           *omeka.Store
	Representatives *Representatives
	Backfiller      *Backfiller
}

// NewModule creates a Module
func NewModule(store *omeka.Store, reps *Representatives, backfiller *Backfiller) *Module {
	return &Module{Store: store, Representatives: reps, Backfiller: backfiller}
}

// Register attaches the module's handlers to r and routes the store's own
// thumbnail updates back through r, as the host does for API updates.
func (m *Module) Register(r *hooks.Registry) {
	r.OnFormBuild(m.addFormFields)
	r.OnInputFilter(m.relaxInputFilter)
	r.OnItemSetCreated(m.itemSetCreated)
	r.OnItemSetUpdated(m.itemSetUpdated)
	r.OnDispatch(m.adminEditFallback)
	r.OnBrowseTemplate(selectBrowseTemplate)

	m.Store.OnItemSetUpdated = func(ctx context.Context, itemSetID int, content map[string]any) {
		r.EmitItemSetUpdated(ctx, hooks.ItemSetSaved{
			ItemSetID: itemSetID,
			Content:   content,
			Viewer:    types.System,
		})
	}
}

func (m *Module) itemSetCreated(ctx context.Context, e hooks.ItemSetSaved) {
	if e.ItemSetID <= 0 {
		return
	}
	if pid := e.Int(FieldPrimaryItem); pid > 0 {
		m.Representatives.Persist(ctx, e.ItemSetID, pid, e.Int(FieldPrimaryMedia))
	}
	m.Backfiller.AssignThumbnail(ctx, e.ItemSetID)
}

func (m *Module) itemSetUpdated(ctx context.Context, e hooks.ItemSetSaved) {
	if e.ItemSetID <= 0 {
		return
	}
	m.applySave(ctx, e.ItemSetID, e)
}

// adminEditFallback handles admin form posts that bypass the API events
func (m *Module) adminEditFallback(ctx context.Context, e hooks.Dispatch) bool {
	if !e.IsAdminItemSetEdit() || e.ID <= 0 {
		return false
	}
	return m.applySave(ctx, e.ID, e)
}

// saveRequest is the submitted content of an item set save
type saveRequest interface {
	Has(key string) bool
	Int(key string) int
}

// applySave clears the mapping when the item field was submitted empty,
// stores the submitted item and media, or re-stores the current item with
// a newly submitted media. It reports whether the mapping was touched.
func (m *Module) applySave(ctx context.Context, itemSetID int, req saveRequest) bool {
	pid := req.Int(FieldPrimaryItem)
	mid := req.Int(FieldPrimaryMedia)

	if req.Has(FieldPrimaryItem) && pid <= 0 {
		if err := m.Representatives.Clear(ctx, itemSetID); err != nil {
			metrics.Degraded("clear", err)
		}
		return true
	}
	if pid <= 0 && !req.Has(FieldPrimaryMedia) {
		return false
	}

	if pid <= 0 {
		current, err := m.Representatives.Get(ctx, itemSetID)
		if err != nil {
			return false
		}
		pid = current.PrimaryItemID
	}
	m.Representatives.Persist(ctx, itemSetID, pid, mid)
	m.Backfiller.AssignThumbnail(ctx, itemSetID)
	return true
}

func (m *Module) addFormFields(ctx context.Context, e *hooks.FormBuild) {
	if !e.IsItemSetForm() || e.HasField(FieldPrimaryItem) {
		return
	}

	item := hooks.FormField{
		Name:       FieldPrimaryItem,
		Type:       "resource_select",
		Label:      "Representative item (thumbnail source)",
		Info:       "Choose the item of this set whose media represents it.",
		EmptyLabel: "(none)",
		Attributes: map[string]string{"required": "false"},
	}
	media := hooks.FormField{
		Name:       FieldPrimaryMedia,
		Type:       "hidden",
		Attributes: map[string]string{"id": FieldPrimaryMedia},
	}

	if e.ItemSetID > 0 {
		if current, err := m.Representatives.Get(ctx, e.ItemSetID); err == nil {
			item.Value = current.PrimaryItemID
			if mid := current.MediaID(); mid > 0 {
				media.Value = mid
			}
		}

		members, err := m.Store.ItemsInSet(ctx, e.ItemSetID, memberOptionLimit)
		if err != nil {
			metrics.Degraded("form_build", err)
		}
		for _, it := range members {
			item.Options = append(item.Options, hooks.FormOption{
				Value: it.ID,
				Label: fmt.Sprintf("#%d %s", it.ID, omeka.DisplayTitle(it.Title)),
			})
		}
	}

	e.Fields = append(e.Fields, item, media)
}

func (m *Module) relaxInputFilter(ctx context.Context, e *hooks.InputFilter) {
	if !e.IsItemSetForm() {
		return
	}
	for _, name := range []string{FieldPrimaryItem, FieldPrimaryMedia} {
		found := false
		for i := range e.Inputs {
			if e.Inputs[i].Name != name {
				continue
			}
			found = true
			e.Inputs[i].Required = false
			e.Inputs[i].AllowEmpty = true
			e.Inputs[i].ContinueIfEmpty = true
			if name == FieldPrimaryItem {
				e.Inputs[i].Validators = []string{}
			}
		}
		if !found {
			e.Inputs = append(e.Inputs, hooks.InputSpec{
				Name:            name,
				AllowEmpty:      true,
				ContinueIfEmpty: true,
				Filters:         []string{"ToInt"},
				Validators:      []string{},
			})
		}
	}
}

func selectBrowseTemplate(ctx context.Context, e *hooks.BrowseTemplate) {
	if e.Route == RouteGroups || e.Layout == LayoutGroups {
		log.Printf("itemsetgroup: browse template %s for route %s", TemplateBrowseGroups, e.Route)
		e.Template = TemplateBrowseGroups
	}
}
