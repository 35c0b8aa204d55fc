package hooks

import (
	"github.com/localnerve/itemsetgroup/internal/types"
)

// Form names the host uses for item set forms
const (
	FormAddItemSet  = "add-item-set"
	FormEditItemSet = "edit-item-set"
	ResourceItemSet = "item_sets"
)

// ItemSetSaved is emitted after the host API creates or updates an item set.
// Content is the request content of the API call.
type ItemSetSaved struct {
	EventID   string         `json:"event_id"`
	ItemSetID int            `json:"item_set_id"`
	Content   map[string]any `json:"content"`
	Viewer    types.Viewer   `json:"-"`
}

// Has reports whether key was present in the request content
func (e ItemSetSaved) Has(key string) bool {
	_, ok := e.Content[key]
	return ok
}

// Int coerces a request content value to an int
func (e ItemSetSaved) Int(key string) int {
	return types.IntOf(e.Content[key])
}

// FormOption is one choice of a select field
type FormOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// FormField describes a field to add to a host form
type FormField struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Label      string            `json:"label,omitempty"`
	Info       string            `json:"info,omitempty"`
	EmptyLabel string            `json:"empty_option,omitempty"`
	Options    []FormOption      `json:"options,omitempty"`
	Value      any               `json:"value,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// FormBuild is emitted while the host builds a form. Handlers append Fields.
type FormBuild struct {
	Form         string   `json:"form"`
	ResourceName string   `json:"resource_name"`
	ItemSetID    int      `json:"item_set_id"`
	Existing     []string `json:"existing_fields"`
	Fields       []FormField
}

// IsItemSetForm reports whether the form edits or creates an item set
func (e *FormBuild) IsItemSetForm() bool {
	return e.Form == FormAddItemSet || e.Form == FormEditItemSet || e.ResourceName == ResourceItemSet
}

// HasField reports whether the form already carries name
func (e *FormBuild) HasField(name string) bool {
	for _, f := range e.Existing {
		if f == name {
			return true
		}
	}
	for _, f := range e.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// InputSpec relaxes or adds validation for one form input
type InputSpec struct {
	Name            string   `json:"name"`
	Required        bool     `json:"required"`
	AllowEmpty      bool     `json:"allow_empty"`
	ContinueIfEmpty bool     `json:"continue_if_empty"`
	Filters         []string `json:"filters"`
	Validators      []string `json:"validators"`
}

// InputFilter is emitted while the host builds a form's input filter
type InputFilter struct {
	Form         string `json:"form"`
	ResourceName string `json:"resource_name"`
	Inputs       []InputSpec
}

// IsItemSetForm reports whether the filter belongs to an item set form
func (e *InputFilter) IsItemSetForm() bool {
	return e.Form == FormAddItemSet || e.Form == FormEditItemSet || e.ResourceName == ResourceItemSet
}

// Dispatch is emitted for a routed request before the host's controller
// runs. Handlers return true when they acted on it.
type Dispatch struct {
	EventID    string              `json:"event_id"`
	Method     string              `json:"method"`
	Route      string              `json:"route"`
	Controller string              `json:"controller"`
	Action     string              `json:"action"`
	ID         int                 `json:"id"`
	Form       map[string][]string `json:"form"`
	Viewer     types.Viewer        `json:"-"`
}

// IsAdminItemSetEdit reports whether this is a form post to the admin item
// set edit action. The route name is not consulted.
func (e Dispatch) IsAdminItemSetEdit() bool {
	return e.Method == "POST" && e.Action == "edit" &&
		(e.Controller == "item-set" || e.Controller == `Omeka\Controller\Admin\ItemSet`)
}

// Has reports whether a form value was posted
func (e Dispatch) Has(key string) bool {
	_, ok := e.Form[key]
	return ok
}

// Int coerces a posted form value to an int
func (e Dispatch) Int(key string) int {
	return types.IntOf(e.Form[key])
}

// BrowseTemplate is emitted before an item set browse page renders.
// Handlers may replace Template.
type BrowseTemplate struct {
	Route    string
	Layout   string
	Template string
}
