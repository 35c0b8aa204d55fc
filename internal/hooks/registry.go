// Package hooks is the typed extension point the host calls into. Handlers
// are registered per event and run synchronously in registration order.
package hooks

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

const defaultDedupeWindow = 256

type (
	// SavedHandler handles item set create and update events
	SavedHandler func(ctx context.Context, e ItemSetSaved)
	// FormBuildHandler adds fields to a form
	FormBuildHandler func(ctx context.Context, e *FormBuild)
	// InputFilterHandler adjusts a form's input filter
	InputFilterHandler func(ctx context.Context, e *InputFilter)
	// DispatchHandler inspects a routed request, returning true when it acted
	DispatchHandler func(ctx context.Context, e Dispatch) bool
	// BrowseTemplateHandler may replace the browse template
	BrowseTemplateHandler func(ctx context.Context, e *BrowseTemplate)
)

// Registry holds the handlers for each event
type Registry struct {
	mu             sync.RWMutex
	created        []SavedHandler
	updated        []SavedHandler
	formBuild      []FormBuildHandler
	inputFilter    []InputFilterHandler
	dispatch       []DispatchHandler
	browseTemplate []BrowseTemplateHandler

	recentIDs   map[string]struct{}
	recentOrder []string
	window      int
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		recentIDs:   map[string]struct{}{},
		recentOrder: make([]string, 0, defaultDedupeWindow),
		window:      defaultDedupeWindow,
	}
}

// OnItemSetCreated registers a handler for item set creation
func (r *Registry) OnItemSetCreated(h SavedHandler) {
	r.mu.Lock()
	r.created = append(r.created, h)
	r.mu.Unlock()
}

// OnItemSetUpdated registers a handler for item set updates
func (r *Registry) OnItemSetUpdated(h SavedHandler) {
	r.mu.Lock()
	r.updated = append(r.updated, h)
	r.mu.Unlock()
}

// OnFormBuild registers a handler that may add fields to host forms
func (r *Registry) OnFormBuild(h FormBuildHandler) {
	r.mu.Lock()
	r.formBuild = append(r.formBuild, h)
	r.mu.Unlock()
}

// OnInputFilter registers a handler that may relax form input validation
func (r *Registry) OnInputFilter(h InputFilterHandler) {
	r.mu.Lock()
	r.inputFilter = append(r.inputFilter, h)
	r.mu.Unlock()
}

// OnDispatch registers a handler run before a routed host request
func (r *Registry) OnDispatch(h DispatchHandler) {
	r.mu.Lock()
	r.dispatch = append(r.dispatch, h)
	r.mu.Unlock()
}

// OnBrowseTemplate registers a handler that may replace the browse template
func (r *Registry) OnBrowseTemplate(h BrowseTemplateHandler) {
	r.mu.Lock()
	r.browseTemplate = append(r.browseTemplate, h)
	r.mu.Unlock()
}

// EmitItemSetCreated runs the create handlers. It returns the event id, and
// false when the id was already delivered.
func (r *Registry) EmitItemSetCreated(ctx context.Context, e ItemSetSaved) (string, bool) {
	return r.emitSaved(ctx, e, func() []SavedHandler { return r.created })
}

// EmitItemSetUpdated runs the update handlers. It returns the event id, and
// false when the id was already delivered.
func (r *Registry) EmitItemSetUpdated(ctx context.Context, e ItemSetSaved) (string, bool) {
	return r.emitSaved(ctx, e, func() []SavedHandler { return r.updated })
}

func (r *Registry) emitSaved(ctx context.Context, e ItemSetSaved, list func() []SavedHandler) (string, bool) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	} else if r.isDuplicate(e.EventID) {
		log.Printf("hooks: duplicate event %s for item set %d ignored", e.EventID, e.ItemSetID)
		return e.EventID, false
	}
	r.mu.RLock()
	handlers := append([]SavedHandler(nil), list()...)
	r.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, e)
	}
	return e.EventID, true
}

// EmitFormBuild runs the form build handlers
func (r *Registry) EmitFormBuild(ctx context.Context, e *FormBuild) {
	r.mu.RLock()
	handlers := append([]FormBuildHandler(nil), r.formBuild...)
	r.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, e)
	}
}

// EmitInputFilter runs the input filter handlers
func (r *Registry) EmitInputFilter(ctx context.Context, e *InputFilter) {
	r.mu.RLock()
	handlers := append([]InputFilterHandler(nil), r.inputFilter...)
	r.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, e)
	}
}

// EmitDispatch runs the dispatch handlers and reports whether any acted
func (r *Registry) EmitDispatch(ctx context.Context, e Dispatch) bool {
	if e.EventID != "" && r.isDuplicate(e.EventID) {
		return false
	}
	r.mu.RLock()
	handlers := append([]DispatchHandler(nil), r.dispatch...)
	r.mu.RUnlock()
	acted := false
	for _, h := range handlers {
		if h(ctx, e) {
			acted = true
		}
	}
	return acted
}

// EmitBrowseTemplate runs the template handlers and returns the final template
func (r *Registry) EmitBrowseTemplate(ctx context.Context, e *BrowseTemplate) string {
	r.mu.RLock()
	handlers := append([]BrowseTemplateHandler(nil), r.browseTemplate...)
	r.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, e)
	}
	return e.Template
}

// isDuplicate records id and reports whether it was seen recently
func (r *Registry) isDuplicate(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recentIDs[id]; ok {
		return true
	}
	r.recentIDs[id] = struct{}{}
	r.recentOrder = append(r.recentOrder, id)
	if len(r.recentOrder) > r.window {
		oldest := r.recentOrder[0]
		r.recentOrder = r.recentOrder[1:]
		delete(r.recentIDs, oldest)
	}
	return false
}
