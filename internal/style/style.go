// Package style builds declarative paint values for a MapLibre-style
// renderer: step and match expressions, paint dictionaries and legends.
// Values are built here and evaluated by the frontend.
package style

import (
	"fmt"
	"strconv"
)

// Expression is a renderer expression such as ["step", ["get", "pop"], ...].
type Expression []any

// Get returns the ["get", field] property accessor.
func Get(field string) Expression {
	return Expression{"get", field}
}

// BuildStepExpression maps a numeric field to colors with a left-closed
// step function: colors[0] below breaks[1], colors[i] from breaks[i] on.
//
// Callers pass len(colors) == len(breaks)-1. Mismatched lengths do not
// panic: the expression stops at whichever list runs out first.
func BuildStepExpression(field string, breaks []float64, colors []string) Expression {
	expr := Expression{"step", Get(field)}
	if len(colors) == 0 {
		return expr
	}
	expr = append(expr, colors[0])
	for i := 1; i < len(colors) && i < len(breaks); i++ {
		expr = append(expr, breaks[i], colors[i])
	}
	return expr
}

// BuildMatchExpression maps categorical values to colors, cycling colors
// when there are more categories than colors. fallback colors anything else.
func BuildMatchExpression(field string, categories []string, colors []string, fallback string) Expression {
	expr := Expression{"match", Get(field)}
	if len(colors) > 0 {
		for i, cat := range categories {
			expr = append(expr, cat, colors[i%len(colors)])
		}
	}
	return append(expr, fallback)
}

// LegendItem is one legend entry.
type LegendItem struct {
	Label string `json:"label" doc:"Legend label"`
	Color string `json:"color" doc:"Legend color (CSS)"`
}

// BuildLegend labels each class "lo - hi" using precision decimals
// (negative precision uses the shortest representation).
func BuildLegend(breaks []float64, colors []string, precision int) []LegendItem {
	n := min(len(colors), len(breaks)-1)
	if n <= 0 {
		return nil
	}
	items := make([]LegendItem, n)
	for i := range items {
		items[i] = LegendItem{
			Label: fmt.Sprintf("%s - %s", formatNumber(breaks[i], precision), formatNumber(breaks[i+1], precision)),
			Color: colors[i],
		}
	}
	return items
}

// CategoryLegend labels each category with its color.
func CategoryLegend(categories []string, colors []string) []LegendItem {
	if len(colors) == 0 {
		return nil
	}
	items := make([]LegendItem, len(categories))
	for i, cat := range categories {
		items[i] = LegendItem{Label: cat, Color: colors[i%len(colors)]}
	}
	return items
}

func formatNumber(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
