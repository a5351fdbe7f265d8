package directory

import (
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	DefaultColor     = "#dadbdc"
	DefaultFontColor = "#000000"
)

// Person is the employee a chart record points at.
type Person struct {
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	PictureURL string `json:"pictureUrl" yaml:"pictureUrl"`
}

// ManagerRef references a record's manager. ID is the manager's record id
// when the source knows it; Name and Email identify the manager otherwise.
type ManagerRef struct {
	ID    int    `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// ViewRef tags a record with a named view.
type ViewRef struct {
	Title string `json:"title" yaml:"title"`
}

// ViewNames holds sub-view names. Sources deliver either a list or a single
// string delimited by commas or semicolons; both decode into the same list.
type ViewNames []string

// OrgView is a top-level view offered to the user.
type OrgView struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Record is one flat row of the org chart list.
type Record struct {
	ID            int          `json:"id" yaml:"id"`
	Title         string       `json:"title" yaml:"title"`
	Person        *Person      `json:"person,omitempty" yaml:"person,omitempty"`
	Managers      []ManagerRef `json:"managers,omitempty" yaml:"managers,omitempty"`
	Department    string       `json:"department,omitempty" yaml:"department,omitempty"`
	Location      string       `json:"location,omitempty" yaml:"location,omitempty"`
	Phone         int64        `json:"phone,omitempty" yaml:"phone,omitempty"`
	Views         []ViewRef    `json:"views,omitempty" yaml:"views,omitempty"`
	ViewNames     ViewNames    `json:"viewNames,omitempty" yaml:"viewNames,omitempty"`
	Color         string       `json:"color,omitempty" yaml:"color,omitempty"`
	FontColor     string       `json:"fontColor,omitempty" yaml:"fontColor,omitempty"`
	ParentOrder   int          `json:"parentOrder,omitempty" yaml:"parentOrder,omitempty"`
	ChildOrder    int          `json:"childOrder,omitempty" yaml:"childOrder,omitempty"`
	SubChildOrder int          `json:"subChildOrder,omitempty" yaml:"subChildOrder,omitempty"`
}

// Snapshot is the result of one fetch from a Source.
type Snapshot struct {
	Records []Record  `json:"records" yaml:"records"`
	Views   []OrgView `json:"views" yaml:"views"`
}

// IsPlaceholder reports whether the record stands for a manager slot or view
// anchor rather than a person.
func (r Record) IsPlaceholder() bool {
	return r.Person == nil
}

// HasManager reports whether the record names at least one manager.
func (r Record) HasManager() bool {
	return len(r.Managers) > 0
}

// PrimaryManager returns the first manager reference. Secondary managers are
// carried but never used structurally.
func (r Record) PrimaryManager() (ManagerRef, bool) {
	if len(r.Managers) == 0 {
		return ManagerRef{}, false
	}
	return r.Managers[0], true
}

// DisplayName is the person's name, or the record title for placeholders.
func (r Record) DisplayName() string {
	if r.Person != nil && strings.TrimSpace(r.Person.Name) != "" {
		return r.Person.Name
	}
	return r.Title
}

// HasView reports whether the record carries a view tag with this exact title.
func (r Record) HasView(title string) bool {
	for _, v := range r.Views {
		if v.Title == title {
			return true
		}
	}
	return false
}

// normalize fills presentation defaults the list leaves blank.
func (r *Record) normalize() {
	if strings.TrimSpace(r.Color) == "" {
		r.Color = DefaultColor
	}
	if strings.TrimSpace(r.FontColor) == "" {
		r.FontColor = DefaultFontColor
	}
	if r.Person != nil {
		r.Person.Name = strings.TrimSpace(r.Person.Name)
		r.Person.Email = strings.TrimSpace(r.Person.Email)
	}
}

// SplitViewNames splits a delimited view name string on commas and
// semicolons, trimming whitespace and dropping empty parts.
func SplitViewNames(raw string) ViewNames {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make(ViewNames, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UnmarshalJSON accepts a string, a list of strings, or null.
func (v *ViewNames) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = SplitViewNames(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*v = ViewNames(list)
	return nil
}

// UnmarshalYAML accepts a scalar string or a sequence of strings.
func (v *ViewNames) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = SplitViewNames(node.Value)
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*v = ViewNames(list)
	return nil
}
