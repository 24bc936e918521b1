// Package search aggregates place text searches for a location into a
// filtered, de-duplicated, image-resolved result set, and keeps the per-client
// session state (seen ids, continuation token, display cursor) that paging and
// supersession need.
package search

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/maple-planner/internal/domain"
)

//go:embed queries.yaml
var queriesYAML []byte

var templates = mustParseTemplates(queriesYAML)

func mustParseTemplates(b []byte) map[domain.Category][]string {
	var raw map[string][]string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		panic(fmt.Sprintf("search: parse queries.yaml: %v", err))
	}
	out := make(map[domain.Category][]string, len(raw))
	for k, v := range raw {
		out[domain.Category(k)] = v
	}
	if len(out[domain.CategoryAll]) == 0 {
		panic("search: queries.yaml has no \"all\" category")
	}
	return out
}

// Queries returns the ordered text queries for category with location
// interpolated. Unknown categories use the "all" set.
func Queries(category domain.Category, location string) []string {
	tpl, ok := templates[category]
	if !ok {
		tpl = templates[domain.CategoryAll]
	}
	out := make([]string, len(tpl))
	for i, t := range tpl {
		out[i] = strings.ReplaceAll(t, "{location}", location)
	}
	return out
}
