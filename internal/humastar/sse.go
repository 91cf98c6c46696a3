// Package humastar connects Huma operations to Datastar: SSE responses,
// signal parsing, hypermedia links and forms rendered from the OpenAPI
// schemas.
package humastar

import (
	"bytes"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/joeblew999/geowidget/internal/templates"
)

// SSE is a Datastar event stream opened on a Huma streaming response.
type SSE struct {
	*datastar.ServerSentEventGenerator
}

// NewSSE opens the stream. The API must be served by the humago adapter.
func NewSSE(ctx huma.Context) SSE {
	r, w := humago.Unwrap(ctx)
	return SSE{datastar.NewSSE(w, r)}
}

// Patch replaces the children of the element at selector.
func (s SSE) Patch(html, selector string) {
	s.PatchElements(html, datastar.WithSelector(selector), datastar.WithModeInner(), datastar.WithViewTransitions())
}

// Replace replaces the element at selector itself.
func (s SSE) Replace(html, selector string) {
	s.PatchElements(html, datastar.WithSelector(selector), datastar.WithModeOuter(), datastar.WithViewTransitions())
}

// Signals merges signals into the page's signal store.
func (s SSE) Signals(signals map[string]any) {
	s.MarshalAndPatchSignals(signals)
}

// Error sets the page's error signal.
func (s SSE) Error(msg string) { s.Signals(map[string]any{"error": msg}) }

// Success sets the page's success signal.
func (s SSE) Success(msg string) { s.Signals(map[string]any{"success": msg}) }

// Handler is embedded by editor handlers that answer with SSE.
type Handler struct {
	Renderer *templates.Renderer
}

// Stream wraps fn as a streaming response.
func (h *Handler) Stream(fn func(sse SSE)) *huma.StreamResponse {
	return &huma.StreamResponse{Body: func(ctx huma.Context) { fn(NewSSE(ctx)) }}
}

func (h *Handler) RenderList(tmpl string, items []any, emptyTitle, emptyMsg string) string {
	return RenderList(h.Renderer, tmpl, items, emptyTitle, emptyMsg)
}

func (h *Handler) RenderSelect(placeholder string, options []SelectOptionData) string {
	return RenderSelect(h.Renderer, placeholder, options)
}

// SelectOptionData is the data of the select-option fragment.
type SelectOptionData struct {
	Value string
	Label string
}

// RenderList renders each item with tmpl, or the empty-state fragment when
// there are none. Items that fail to render are left out.
func RenderList(r *templates.Renderer, tmpl string, items []any, emptyTitle, emptyMsg string) string {
	var buf bytes.Buffer
	if len(items) == 0 {
		r.RenderToBuffer(&buf, "empty-state", map[string]string{"Title": emptyTitle, "Message": emptyMsg})
		return buf.String()
	}
	for _, item := range items {
		r.RenderToBuffer(&buf, tmpl, item)
	}
	return buf.String()
}

// RenderSelect renders a placeholder option followed by options.
func RenderSelect(r *templates.Renderer, placeholder string, options []SelectOptionData) string {
	var buf bytes.Buffer
	for _, opt := range append([]SelectOptionData{{Label: placeholder}}, options...) {
		r.RenderToBuffer(&buf, "select-option", opt)
	}
	return buf.String()
}
