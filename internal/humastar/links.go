package humastar

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// linkMap holds the Link header values of each operation path. It is
// built once by AutoLinks and read by LinkTransformer.
var linkMap map[string][]string

// classifyPath is the stateless classification endpoint, linked as "search".
const classifyPath = "/api/v1/classify"

// entryPath is the API entry point; the root handler reuses its links.
const entryPath = "/health"

type linkSet map[string][]string

func (s linkSet) add(from, to, rel string) {
	v := fmt.Sprintf(`<%s>; rel="%s"`, to, rel)
	if !slices.Contains(s[from], v) {
		s[from] = append(s[from], v)
	}
}

// AutoLinks derives hypermedia links from the registered operations:
// collection/item/up between nested paths, create-form and edit for
// writable paths, discovery links from the entry point, describedby to the
// response schema and search to the classify endpoint. Editor (SSE) paths
// are skipped. Call it after every route is registered.
func AutoLinks(api huma.API) {
	oapi := api.OpenAPI()
	links := linkSet{}

	var collections, items []string
	for p, pi := range oapi.Paths {
		if slices.Contains(tagsOf(pi), "editor") {
			continue
		}
		if strings.Contains(p, "{") {
			items = append(items, p)
		} else {
			collections = append(collections, p)
		}
	}
	slices.Sort(collections)
	slices.Sort(items)

	for _, item := range items {
		parent := path.Dir(item)
		if _, ok := oapi.Paths[parent]; ok {
			links.add(item, parent, "collection")
			links.add(parent, item, "item")
		}
		links.add(item, parent, "up")
		if pi := oapi.Paths[item]; pi.Put != nil || pi.Patch != nil {
			links.add(item, item, "edit")
		}
	}

	_, hasClassify := oapi.Paths[classifyPath]
	for _, coll := range collections {
		if oapi.Paths[coll].Post != nil {
			links.add(coll, coll, "create-form")
		}
		if coll == entryPath {
			continue
		}
		links.add(coll, entryPath, "up")
		links.add(entryPath, coll, lastSegment(coll))
		if hasClassify && coll != classifyPath {
			links.add(coll, classifyPath, "search")
		}
	}

	links.add(entryPath, "/openapi.json", "describedby")
	links.add(entryPath, "/openapi.json", "service-desc")
	links.add(entryPath, "/docs", "service-doc")

	for _, p := range append(collections, items...) {
		if ref := responseSchema(oapi.Paths[p]); ref != "" {
			links.add(p, "/openapi.json#/components/schemas/"+ref, "describedby")
		}
	}

	for p, values := range links {
		if pi, ok := oapi.Paths[p]; ok {
			for _, op := range operationsOf(pi) {
				documentLinks(op, values)
			}
		}
	}
	linkMap = links
}

// LinkTransformer returns a Huma Transformer that writes the derived links,
// a self link for item paths, and any Pager or Actor links of the body.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range linkMap[op.Path] {
			ctx.AppendHeader("Link", link)
		}
		if strings.Contains(op.Path, "{") {
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, ctx.URL().Path))
		}
		if p, ok := v.(Pager); ok {
			for _, link := range p.PaginationLinks(ctx.URL().Path) {
				ctx.AppendHeader("Link", link)
			}
		}
		if a, ok := v.(Actor); ok {
			for _, action := range a.Actions() {
				ctx.AppendHeader("Link", action.LinkHeader())
			}
		}
		return v, nil
	}
}

// RootLinks returns the entry point links for non-Huma handlers.
func RootLinks() []string {
	return linkMap[entryPath]
}

func tagsOf(pi *huma.PathItem) []string {
	for _, op := range operationsOf(pi) {
		if len(op.Tags) > 0 {
			return op.Tags
		}
	}
	return nil
}

// operationsOf returns the non-nil operations of pi.
func operationsOf(pi *huma.PathItem) []*huma.Operation {
	var ops []*huma.Operation
	for _, op := range []*huma.Operation{pi.Get, pi.Post, pi.Put, pi.Patch, pi.Delete} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

func lastSegment(p string) string {
	return path.Base(strings.TrimRight(p, "/"))
}

// documentLinks records links on the operation's 2xx response in the
// OpenAPI document.
func documentLinks(op *huma.Operation, values []string) {
	resp := successResponse(op)
	if resp == nil {
		return
	}
	if resp.Links == nil {
		resp.Links = map[string]*huma.Link{}
	}
	for _, v := range values {
		if rel, href := parseLink(v); rel != "" {
			resp.Links[rel] = &huma.Link{OperationRef: href, Description: "Related: " + rel}
		}
	}
}

func successResponse(op *huma.Operation) *huma.Response {
	for code, r := range op.Responses {
		if strings.HasPrefix(code, "2") {
			return r
		}
	}
	return nil
}

// responseSchema returns the schema name of the GET success response.
func responseSchema(pi *huma.PathItem) string {
	if pi.Get == nil {
		return ""
	}
	resp := successResponse(pi.Get)
	if resp == nil {
		return ""
	}
	for _, mt := range resp.Content {
		if mt.Schema != nil && mt.Schema.Ref != "" {
			return path.Base(mt.Schema.Ref)
		}
	}
	return ""
}

// parseLink splits `<href>; rel="name"`.
func parseLink(v string) (rel, href string) {
	target, params, ok := strings.Cut(v, ";")
	if !ok {
		return "", ""
	}
	href = strings.Trim(strings.TrimSpace(target), "<>")
	if r, ok := strings.CutPrefix(strings.TrimSpace(params), "rel="); ok {
		rel = strings.Trim(r, `"`)
	}
	return rel, href
}
