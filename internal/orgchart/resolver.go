package orgchart

import (
	"strings"

	"orgchart/internal/directory"
)

// Resolver maps a manager reference to the id of the record it names.
type Resolver interface {
	Resolve(ref directory.ManagerRef) (int, bool)
}

// ResolverFactory builds a Resolver over a deduplicated record set.
type ResolverFactory func(records []directory.Record) Resolver

// indexResolver resolves by id, then by email, then by display name. Name
// collisions resolve to the first record in input order.
type indexResolver struct {
	ids     map[int]bool
	byEmail map[string]int
	byName  map[string]int
}

// NewResolver indexes records for manager lookups.
func NewResolver(records []directory.Record) Resolver {
	r := &indexResolver{
		ids:     make(map[int]bool, len(records)),
		byEmail: make(map[string]int),
		byName:  make(map[string]int),
	}
	for _, rec := range records {
		r.ids[rec.ID] = true
		if rec.Person != nil {
			if email := foldKey(rec.Person.Email); email != "" {
				if _, taken := r.byEmail[email]; !taken {
					r.byEmail[email] = rec.ID
				}
			}
		}
		if name := foldKey(rec.DisplayName()); name != "" {
			if _, taken := r.byName[name]; !taken {
				r.byName[name] = rec.ID
			}
		}
	}
	return r
}

func (r *indexResolver) Resolve(ref directory.ManagerRef) (int, bool) {
	if ref.ID != 0 && r.ids[ref.ID] {
		return ref.ID, true
	}
	if email := foldKey(ref.Email); email != "" {
		if id, ok := r.byEmail[email]; ok {
			return id, true
		}
	}
	if name := foldKey(ref.Name); name != "" {
		if id, ok := r.byName[name]; ok {
			return id, true
		}
	}
	return 0, false
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
