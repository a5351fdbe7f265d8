package orgchart

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"orgchart/internal/directory"
)

// shape is the id-only structure of a forest, used for diffs.
type shape struct {
	ID       int
	Children []shape
}

func shapeOf(forest []*Node) []shape {
	out := []shape{}
	for _, n := range forest {
		out = append(out, shape{ID: n.ID(), Children: shapeOf(n.Children)})
	}
	return out
}

func leaf(id int) shape {
	return shape{ID: id, Children: []shape{}}
}

func person(id int, name, title, manager string) directory.Record {
	rec := directory.Record{ID: id, Title: title, Person: &directory.Person{Name: name}}
	if manager != "" {
		rec.Managers = []directory.ManagerRef{{Name: manager}}
	}
	return rec
}

func chainRecords() []directory.Record {
	return []directory.Record{
		person(1, "CEO", "CEO", ""),
		person(2, "Manager", "Manager", "CEO"),
		person(3, "Engineer", "Engineer", "Manager"),
	}
}

func TestBuildLinearChain(t *testing.T) {
	forest := AssignDisplayOrder(NewBuilder().Build(chainRecords()), nil)

	want := []shape{{ID: 1, Children: []shape{{ID: 2, Children: []shape{leaf(3)}}}}}
	if diff := cmp.Diff(want, shapeOf(forest)); diff != "" {
		t.Fatalf("forest mismatch (-want +got):\n%s", diff)
	}

	orders := map[int]int{}
	for e := range Flatten(forest) {
		orders[e.ID()] = e.Node.DisplayOrder
	}
	if diff := cmp.Diff(map[int]int{1: 0, 2: 1, 3: 2}, orders); diff != "" {
		t.Fatalf("display order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	forest := NewBuilder().Build(nil)
	if forest == nil || len(forest) != 0 {
		t.Fatalf("expected empty non-nil forest, got %#v", forest)
	}
	if got := FlattenAll(forest); len(got) != 0 {
		t.Fatalf("expected empty flatten, got %d entries", len(got))
	}
}

func TestBuildPromotesDanglingManager(t *testing.T) {
	records := []directory.Record{
		person(1, "Ada", "CEO", ""),
		person(2, "Orphan", "Analyst", "NonExistent"),
	}
	forest, stats := NewBuilder().BuildWithStats(records)

	if diff := cmp.Diff([]shape{leaf(1), leaf(2)}, shapeOf(forest)); diff != "" {
		t.Fatalf("forest mismatch (-want +got):\n%s", diff)
	}
	if stats.Dangling != 1 {
		t.Fatalf("expected 1 dangling reference, got %d", stats.Dangling)
	}
}

func TestBuildLaterDuplicateWins(t *testing.T) {
	records := []directory.Record{
		person(5, "Old Name", "Analyst", ""),
		person(7, "Other", "Analyst", ""),
		person(5, "New Name", "Director", ""),
	}
	forest, stats := NewBuilder().BuildWithStats(records)

	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(forest))
	}
	if forest[0].ID() != 5 {
		t.Fatalf("expected id 5 to keep its first-seen position, got %d", forest[0].ID())
	}
	if got := forest[0].DisplayName(); got != "New Name" {
		t.Fatalf("expected later duplicate to win, got %q", got)
	}
	if stats.Duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %d", stats.Duplicates)
	}
}

func TestBuildBreaksCycles(t *testing.T) {
	tests := []struct {
		name    string
		records []directory.Record
		want    []shape
	}{
		{
			name: "two member cycle",
			records: []directory.Record{
				person(1, "A", "Lead", "B"),
				person(2, "B", "Lead", "A"),
				person(3, "C", "Engineer", "A"),
			},
			want: []shape{{ID: 1, Children: []shape{leaf(2), leaf(3)}}},
		},
		{
			name: "cycle reached through a tail",
			records: []directory.Record{
				person(1, "D", "Engineer", "X"),
				person(2, "X", "Lead", "Y"),
				person(3, "Y", "Lead", "X"),
			},
			want: []shape{{ID: 2, Children: []shape{leaf(1), leaf(3)}}},
		},
		{
			name: "self reference",
			records: []directory.Record{
				person(1, "Solo", "Founder", "Solo"),
			},
			want: []shape{leaf(1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := AssignDisplayOrder(NewBuilder().Build(tt.records), nil)
			if diff := cmp.Diff(tt.want, shapeOf(forest)); diff != "" {
				t.Fatalf("forest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildResolvesByIDThenEmailThenName(t *testing.T) {
	ada := person(1, "Ada", "CEO", "")
	ada.Person.Email = "ada@example.com"
	grace := person(2, "Grace", "CTO", "")

	byID := person(3, "ById", "Engineer", "")
	byID.Managers = []directory.ManagerRef{{ID: 2, Name: "Ada"}}

	byEmail := person(4, "ByEmail", "Engineer", "")
	byEmail.Managers = []directory.ManagerRef{{Name: "Somebody", Email: " ADA@example.com "}}

	byName := person(5, "ByName", "Engineer", "grace")

	forest := AssignDisplayOrder(NewBuilder().Build([]directory.Record{ada, grace, byID, byEmail, byName}), nil)

	want := []shape{
		{ID: 1, Children: []shape{leaf(4)}},
		{ID: 2, Children: []shape{leaf(3), leaf(5)}},
	}
	if diff := cmp.Diff(want, shapeOf(forest)); diff != "" {
		t.Fatalf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAmbiguousNameUsesFirstRecord(t *testing.T) {
	records := []directory.Record{
		person(11, "Sam", "Director", ""),
		person(10, "Sam", "Director", ""),
		person(12, "Report", "Engineer", "Sam"),
	}
	forest := NewBuilder().Build(records)

	parent := FindParent(forest, 12)
	if parent == nil || parent.ID() != 11 {
		t.Fatalf("expected first Sam (11) to be the manager, got %+v", parent)
	}
}

func TestBuildMarksImmediateChildrenOfRoots(t *testing.T) {
	forest := NewBuilder().Build(chainRecords())

	if forest[0].ImmediateChildOfTopLevel {
		t.Fatalf("root must not be flagged")
	}
	mgr := FindByID(forest, 2)
	eng := FindByID(forest, 3)
	if !mgr.ImmediateChildOfTopLevel {
		t.Fatalf("expected direct child of root to be flagged")
	}
	if eng.ImmediateChildOfTopLevel {
		t.Fatalf("grandchild must not be flagged")
	}
}

func TestBuildUsesCustomResolver(t *testing.T) {
	b := Builder{NewResolver: func([]directory.Record) Resolver {
		return resolverFunc(func(directory.ManagerRef) (int, bool) { return 0, false })
	}}
	forest := b.Build(chainRecords())
	if diff := cmp.Diff([]shape{leaf(1), leaf(2), leaf(3)}, shapeOf(forest)); diff != "" {
		t.Fatalf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIgnoresSecondaryManagers(t *testing.T) {
	records := chainRecords()
	records[2].Managers = append(records[2].Managers, directory.ManagerRef{Name: "CEO"})

	forest := NewBuilder().Build(records)
	if parent := FindParent(forest, 3); parent == nil || parent.ID() != 2 {
		t.Fatalf("expected primary manager 2, got %+v", parent)
	}
}

type resolverFunc func(directory.ManagerRef) (int, bool)

func (f resolverFunc) Resolve(ref directory.ManagerRef) (int, bool) {
	return f(ref)
}
