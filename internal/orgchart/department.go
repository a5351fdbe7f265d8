package orgchart

import (
	"strings"

	"orgchart/internal/directory"
)

// Department is one department with its own local forest.
type Department struct {
	Name  string
	Roots []*Node
}

// Departments groups a chart by department.
type Departments struct {
	// Executives have no department and no manager.
	Executives []*Node
	Groups     []Department
}

// GroupByDepartment buckets the nodes of forest by department in first-seen
// order and rebuilds a forest inside each department. A member whose primary
// manager is outside the department becomes a department root.
func GroupByDepartment(forest []*Node, b Builder, roles []string) Departments {
	var result Departments
	buckets := make(map[string][]directory.Record)
	var names []string

	for e := range Flatten(forest) {
		rec := e.Node.Record
		dept := strings.TrimSpace(rec.Department)
		switch {
		case dept != "":
			if _, ok := buckets[dept]; !ok {
				names = append(names, dept)
			}
			buckets[dept] = append(buckets[dept], rec)
		case !rec.HasManager():
			node := e.Node
			node.Level = 0
			result.Executives = append(result.Executives, &node)
		}
	}

	for _, name := range names {
		roots := b.Build(buckets[name])
		AssignDisplayOrder(roots, roles)
		result.Groups = append(result.Groups, Department{Name: name, Roots: roots})
	}
	return result
}

// Departments applies f and groups the result by department.
func (c *Chart) Departments(f Filters) Departments {
	return GroupByDepartment(c.Apply(f).Roots, c.builder, c.roles)
}
