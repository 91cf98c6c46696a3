package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/colormap"
	"github.com/joeblew999/geowidget/internal/service"
	"github.com/joeblew999/geowidget/internal/widget"
)

var notFound = []error{
	service.ErrMapNotFound,
	service.ErrSourceNotFound,
	widget.ErrLayerNotFound,
}

var conflict = []error{
	service.ErrDuplicateMap,
	widget.ErrDuplicateLayer,
	widget.ErrDuplicateControl,
}

var badRequest = []error{
	classify.ErrEmptySample,
	classify.ErrUnknownMethod,
	classify.ErrMissingManualBreaks,
	classify.ErrInvalidBreakCount,
	classify.ErrInvalidClassCount,
	colormap.ErrUnknownPalette,
	colormap.ErrInvalidClassCount,
	widget.ErrNoFeatures,
	widget.ErrColumnRequired,
	widget.ErrInvalidOpacity,
	widget.ErrInvalidPosition,
	widget.ErrInvalidZoom,
	widget.ErrInvalidCorner,
	widget.ErrUnknownControl,
	service.ErrInvalidSourceName,
	service.ErrUnsupportedSource,
}

// toHTTPError maps domain errors to Huma status errors.
func toHTTPError(err error) error {
	switch {
	case isAny(err, notFound):
		return huma.Error404NotFound(err.Error())
	case isAny(err, conflict):
		return huma.Error409Conflict(err.Error())
	case isAny(err, badRequest):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, service.ErrDBUnavailable):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return huma.Error500InternalServerError("internal error", err)
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
