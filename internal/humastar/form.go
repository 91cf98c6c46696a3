package humastar

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/templates"
)

// InjectExtensions registers t in the API's schema registry and copies its
// signal, input, sse and card struct tags onto the matching properties as
// x-signal, x-input, x-sse and x-card. It returns the registered schema.
func InjectExtensions(api huma.API, t reflect.Type) *huma.Schema {
	registry := api.OpenAPI().Components.Schemas
	schema := registry.Schema(t, true, t.Name())
	if schema.Ref != "" {
		schema = registry.SchemaFromRef(schema.Ref)
	}
	for i := range t.NumField() {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		prop, ok := schema.Properties[name]
		if !ok {
			continue
		}
		for _, tag := range []string{"signal", "input", "sse", "card"} {
			v := sf.Tag.Get(tag)
			if v == "" {
				continue
			}
			if prop.Extensions == nil {
				prop.Extensions = map[string]any{}
			}
			prop.Extensions["x-"+tag] = v
		}
	}
	return schema
}

// FormField is one input of a Form. Kind is one of checkbox, color, select,
// sse, number or text.
type FormField struct {
	Signal    string
	Label     string
	Kind      string
	Required  bool
	Default   any
	Options   []string
	Min, Max  *float64
	Step      string
	URL       string
	ElementID string
}

// Form is an editor form derived from an OpenAPI schema. Each field binds
// one Datastar signal.
type Form struct {
	ID     string
	Fields []FormField
}

// NewForm builds the form for schema. Signals are prefix plus the x-signal
// extension or the lowercased property name. Array, object and referenced
// properties have no input and are left out, as are x-card "id" fields.
func NewForm(id string, schema *huma.Schema, prefix string) Form {
	form := Form{ID: id}
	for _, name := range fieldOrder(schema) {
		prop := schema.Properties[name]
		if strings.HasPrefix(name, "$") || prop.Ref != "" || prop.Type == "array" || prop.Type == "object" {
			continue
		}
		if extension(prop, "x-card") == "id" {
			continue
		}

		f := FormField{
			Signal:   prefix + strings.ToLower(name),
			Label:    prop.Description,
			Required: slices.Contains(schema.Required, name),
			Default:  prop.Default,
		}
		if sig := extension(prop, "x-signal"); sig != "" {
			f.Signal = prefix + sig
		}
		if f.Label == "" {
			f.Label = name
		}

		input := extension(prop, "x-input")
		switch {
		case prop.Type == "boolean":
			// unchecked is a valid answer
			f.Kind, f.Required = "checkbox", false
		case input == "color":
			f.Kind = "color"
		case input == "sse":
			url, elementID, _ := strings.Cut(extension(prop, "x-sse"), ",")
			f.Kind, f.URL, f.ElementID = "sse", strings.TrimSpace(url), strings.TrimSpace(elementID)
		case len(prop.Enum) > 0:
			f.Kind = "select"
			for _, v := range prop.Enum {
				f.Options = append(f.Options, fmt.Sprint(v))
			}
		case prop.Type == "number" || prop.Type == "integer":
			f.Kind, f.Min, f.Max, f.Step = "number", prop.Minimum, prop.Maximum, "1"
			if prop.Type == "number" {
				f.Step = "0.1"
			}
		default:
			f.Kind = "text"
		}
		form.Fields = append(form.Fields, f)
	}
	return form
}

// Signals returns the initial value of every field: its schema default,
// else the zero value of its kind.
func (f Form) Signals() map[string]any {
	out := make(map[string]any, len(f.Fields))
	for _, field := range f.Fields {
		switch {
		case field.Default != nil:
			out[field.Signal] = field.Default
		case field.Kind == "checkbox":
			out[field.Signal] = false
		case field.Kind == "number":
			out[field.Signal] = 0
		default:
			out[field.Signal] = ""
		}
	}
	return out
}

// DataInit is the data-init expression that loads the options of the
// form's sse fields.
func (f Form) DataInit() string {
	var gets []string
	for _, field := range f.Fields {
		if field.Kind == "sse" && field.URL != "" {
			gets = append(gets, fmt.Sprintf("@get('%s')", field.URL))
		}
	}
	return strings.Join(gets, "; ")
}

// Render renders the form with the "form" fragment.
func (f Form) Render(r *templates.Renderer) (string, error) {
	return r.Render("form", f)
}

// fieldOrder lists required properties first, each group alphabetically.
func fieldOrder(schema *huma.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := slices.Contains(schema.Required, names[i]), slices.Contains(schema.Required, names[j])
		if ri != rj {
			return ri
		}
		return names[i] < names[j]
	})
	return names
}

func extension(s *huma.Schema, key string) string {
	v, _ := s.Extensions[key].(string)
	return v
}
