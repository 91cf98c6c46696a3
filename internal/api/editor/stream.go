package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/humastar"
	"github.com/joeblew999/geowidget/internal/service"
)

// Stream sends the map's queued calls, then every call queued afterwards,
// as Datastar signals. The layer list is re-rendered on each change.
func (h *MapHandler) Stream(ctx context.Context, input *MapIDInput) (*huma.StreamResponse, error) {
	state, ok := h.maps.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("map not found")
	}

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := humastar.NewSSE(humaCtx)
			bus := h.maps.Bus()
			ch := bus.Subscribe(input.ID)
			defer bus.Unsubscribe(ch)

			sse.Signals(map[string]any{"calls": state.Calls, "callCount": len(state.Calls)})
			sse.Patch(h.renderLayers(state.Layers), "#layers")

			done := humaCtx.Context().Done()
			for {
				select {
				case <-done:
					return
				case ev := <-ch:
					if ev.Action == service.MapDeleted {
						sse.Error("map deleted")
						return
					}
					current, ok := h.maps.Get(input.ID)
					if !ok {
						return
					}
					sse.Signals(map[string]any{"calls": ev.Calls, "callCount": len(current.Calls)})
					sse.Patch(h.renderLayers(current.Layers), "#layers")
					sse.DispatchCustomEvent("map-calls", map[string]any{"id": ev.MapID, "calls": ev.Calls})
				}
			}
		},
	}, nil
}
