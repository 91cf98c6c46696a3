package humastar

import (
	"fmt"
	"strings"
)

// Action is a state-dependent RFC 8288 link a response body offers, e.g.
//
//	</api/v1/maps/m1>; rel="delete"; method="DELETE"; title="Delete map"
type Action struct {
	Rel    string
	Href   string
	Method string
	Title  string
}

// Actor is implemented by response bodies that carry actions.
type Actor interface {
	Actions() []Action
}

// LinkHeader formats the action as a Link header value.
func (a Action) LinkHeader() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s>; rel="%s"`, a.Href, a.Rel)
	for _, p := range [][2]string{{"method", a.Method}, {"title", a.Title}} {
		if p[1] != "" {
			fmt.Fprintf(&b, `; %s="%s"`, p[0], p[1])
		}
	}
	return b.String()
}

// ActionDef is an action whose Pattern takes one %s per resource id,
// outermost first (e.g. "/api/v1/maps/%s/layers/%s").
type ActionDef struct {
	Rel     string
	Pattern string
	Method  string
	Title   string
}

// ActionsFor resolves defs against the given resource ids.
func ActionsFor(defs []ActionDef, ids ...any) []Action {
	actions := make([]Action, 0, len(defs))
	for _, d := range defs {
		actions = append(actions, Action{
			Rel:    d.Rel,
			Href:   fmt.Sprintf(d.Pattern, ids...),
			Method: d.Method,
			Title:  d.Title,
		})
	}
	return actions
}

// Pager is implemented by response bodies that emit first/prev/next/last
// links for basePath.
type Pager interface {
	PaginationLinks(basePath string) []string
}

// PageBody is an offset/limit page of items.
type PageBody[T any] struct {
	Total  int `json:"total" doc:"Total number of items"`
	Offset int `json:"offset" doc:"Current offset"`
	Limit  int `json:"limit" doc:"Page size"`
	Data   []T `json:"data" doc:"Items"`
}

// Page cuts one page out of all. Offsets past the end yield an empty page.
func Page[T any](all []T, offset, limit int) PageBody[T] {
	start := min(max(offset, 0), len(all))
	end := min(start+max(limit, 0), len(all))
	return PageBody[T]{Total: len(all), Offset: offset, Limit: limit, Data: all[start:end]}
}

// PaginationLinks implements Pager. A page without a positive limit has
// no links.
func (p PageBody[T]) PaginationLinks(basePath string) []string {
	if p.Limit <= 0 {
		return nil
	}
	link := func(offset int, rel string) string {
		return fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="%s"`, basePath, offset, p.Limit, rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	last := max((p.Total-1)/p.Limit*p.Limit, 0)
	return append(links, link(last, "last"))
}
