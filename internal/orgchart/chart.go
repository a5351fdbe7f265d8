package orgchart

import (
	"strings"

	"orgchart/internal/debug"
	"orgchart/internal/directory"
)

type chartSettings struct {
	roles []string
}

// Option configures NewChart.
type Option func(*chartSettings)

// WithHighAuthorityRoles overrides the role substrings that sort roots first.
// An empty list keeps DefaultHighAuthorityRoles.
func WithHighAuthorityRoles(roles []string) Option {
	return func(cfg *chartSettings) {
		if len(roles) == 0 {
			return
		}
		cfg.roles = append([]string(nil), roles...)
	}
}

// Chart is the ordered forest for one fetch. It is never mutated after
// NewChart returns; every Apply starts from the same original forest.
type Chart struct {
	forest       []*Node
	placeholders []directory.Record
	views        []directory.OrgView
	roles        []string
	builder      Builder
	stats        BuildStats
	total        int
}

// Filters are the user-controlled inputs to Apply.
type Filters struct {
	View   string
	Search string
	Count  int
}

// Display is the forest to render for one set of Filters.
type Display struct {
	Roots []*Node
	// Expanded holds every id in Roots; all nodes start expanded.
	Expanded map[int]bool
	// Total is the number of people in the chart before filtering.
	Total int
}

// NewChart builds and orders the people forest from snap. Records without a
// person are kept aside as placeholders for view navigation.
func NewChart(snap directory.Snapshot, opts ...Option) *Chart {
	settings := chartSettings{roles: DefaultHighAuthorityRoles}
	for _, opt := range opts {
		opt(&settings)
	}

	var people []directory.Record
	var placeholders []directory.Record
	for _, rec := range snap.Records {
		if rec.IsPlaceholder() {
			placeholders = append(placeholders, rec)
			continue
		}
		people = append(people, rec)
	}

	var builder Builder
	forest, stats := builder.BuildWithStats(people)
	AssignDisplayOrder(forest, settings.roles)

	c := &Chart{
		forest:       forest,
		placeholders: placeholders,
		views:        append([]directory.OrgView(nil), snap.Views...),
		roles:        settings.roles,
		builder:      builder,
		stats:        stats,
		total:        Count(forest),
	}
	debug.Logw("chart ready",
		"people", c.total,
		"placeholders", len(placeholders),
		"views", len(c.views),
		"roots", len(forest),
	)
	return c
}

// Forest returns a clone of the ordered forest.
func (c *Chart) Forest() []*Node {
	return Clone(c.forest)
}

// Views returns the org views offered for navigation.
func (c *Chart) Views() []directory.OrgView {
	return append([]directory.OrgView(nil), c.views...)
}

// Placeholders returns records that carry no person.
func (c *Chart) Placeholders() []directory.Record {
	return append([]directory.Record(nil), c.placeholders...)
}

// Roles returns the high-authority roles the chart was ordered with.
func (c *Chart) Roles() []string {
	return append([]string(nil), c.roles...)
}

// Stats returns the repairs applied while building the forest.
func (c *Chart) Stats() BuildStats {
	return c.stats
}

// Total returns the number of people in the chart.
func (c *Chart) Total() int {
	return c.total
}

// Apply derives the display forest. With a search term the view-filtered
// forest is searched and the count is ignored; otherwise the view-filtered
// forest is bounded to Count nodes.
func (c *Chart) Apply(f Filters) Display {
	viewed := FilterByView(c.forest, f.View)

	var roots []*Node
	if strings.TrimSpace(f.Search) != "" {
		roots = Search(viewed, f.Search)
	} else {
		roots = FilterByCount(viewed, f.Count)
	}

	return Display{
		Roots:    roots,
		Expanded: CollectIDs(roots),
		Total:    c.total,
	}
}

// Flattened returns the people in pre-order followed by the placeholders.
func (c *Chart) Flattened() []Entry {
	out := FlattenAll(c.forest)
	for _, rec := range c.placeholders {
		out = append(out, Entry{Node: Node{Record: rec}})
	}
	return out
}
