package orgchart

import (
	"strings"

	"orgchart/internal/directory"
)

// Screen identifies which view the navigator should show next.
type Screen int

const (
	// ScreenOrgViews lists the top-level org views.
	ScreenOrgViews Screen = iota
	// ScreenSubViews lists the sub-views of one org view.
	ScreenSubViews
	// ScreenManagerTree shows the managers anchoring an org view above its
	// sub-views.
	ScreenManagerTree
	// ScreenChart shows the filtered chart.
	ScreenChart
)

func (s Screen) String() string {
	switch s {
	case ScreenOrgViews:
		return "org-views"
	case ScreenSubViews:
		return "sub-views"
	case ScreenManagerTree:
		return "manager-tree"
	case ScreenChart:
		return "chart"
	default:
		return "unknown"
	}
}

// Selection is the outcome of picking an org view.
type Selection struct {
	Screen  Screen
	OrgView string
	// View is the label to filter the chart by when the org view itself is
	// shown. It is empty when Screen is ScreenSubViews.
	View     string
	SubViews []string
	// Managers are the resolved managers of the org view's placeholders.
	Managers []int
}

// SubViewNames collects the sub-view names of placeholders tagged with
// orgView, trimmed, deduplicated and in first-seen order.
func SubViewNames(placeholders []directory.Record, orgView string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range placeholders {
		if !rec.HasView(orgView) {
			continue
		}
		for _, name := range rec.ViewNames {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// SubViews returns the sub-view names for orgView.
func (c *Chart) SubViews(orgView string) []string {
	return SubViewNames(c.placeholders, orgView)
}

// Navigate decides what picking orgView shows. A placeholder that names a
// manager and carries sub-views opens the manager tree, which lists the
// managers above the sub-views. Other org views with sub-views open the
// sub-view list and the rest filter the chart by the org view title.
func (c *Chart) Navigate(orgView string) Selection {
	subViews := c.SubViews(orgView)
	sel := Selection{OrgView: orgView, SubViews: subViews}
	if len(subViews) == 0 {
		sel.Screen = ScreenChart
		sel.View = orgView
		return sel
	}

	resolver := NewResolver(c.peopleRecords())
	seen := make(map[int]bool)
	for _, rec := range c.placeholders {
		if !rec.HasView(orgView) {
			continue
		}
		ref, ok := rec.PrimaryManager()
		if !ok {
			continue
		}
		if id, found := resolver.Resolve(ref); found && !seen[id] {
			seen[id] = true
			sel.Managers = append(sel.Managers, id)
		}
	}
	if hasDirectManager(c.placeholders, orgView) {
		sel.Screen = ScreenManagerTree
		sel.View = orgView
		return sel
	}
	sel.Screen = ScreenSubViews
	return sel
}

func hasDirectManager(placeholders []directory.Record, orgView string) bool {
	for _, rec := range placeholders {
		if rec.Person == nil && rec.HasManager() && rec.HasView(orgView) {
			return true
		}
	}
	return false
}

func (c *Chart) peopleRecords() []directory.Record {
	var out []directory.Record
	for e := range Flatten(c.forest) {
		out = append(out, e.Node.Record)
	}
	return out
}
