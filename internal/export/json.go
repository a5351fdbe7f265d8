package export

import (
	"io"

	json "github.com/goccy/go-json"

	"orgchart/internal/orgchart"
)

// JSONNode is the exported shape of one chart node.
type JSONNode struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Title        string      `json:"title,omitempty"`
	Email        string      `json:"email,omitempty"`
	Department   string      `json:"department,omitempty"`
	Location     string      `json:"location,omitempty"`
	Phone        int64       `json:"phone,omitempty"`
	Level        int         `json:"level"`
	DisplayOrder int         `json:"displayOrder"`
	Placeholder  bool        `json:"placeholder,omitempty"`
	Children     []*JSONNode `json:"children,omitempty"`
}

// ToJSONNodes converts a forest into its exported shape.
func ToJSONNodes(roots []*orgchart.Node) []*JSONNode {
	out := make([]*JSONNode, 0, len(roots))
	for _, n := range roots {
		out = append(out, toJSONNode(n))
	}
	return out
}

func toJSONNode(n *orgchart.Node) *JSONNode {
	jn := &JSONNode{
		ID:           n.ID(),
		Name:         n.DisplayName(),
		Title:        n.Record.Title,
		Department:   n.Record.Department,
		Location:     n.Record.Location,
		Phone:        n.Record.Phone,
		Level:        n.Level,
		DisplayOrder: n.DisplayOrder,
		Placeholder:  n.Record.IsPlaceholder(),
	}
	if n.Record.Person != nil {
		jn.Email = n.Record.Person.Email
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, toJSONNode(child))
	}
	return jn
}

// WriteJSON writes the forest as an indented JSON array.
func WriteJSON(w io.Writer, roots []*orgchart.Node) error {
	return writeIndented(w, ToJSONNodes(roots))
}

// WriteFlatJSON writes entries as one JSON array without nesting, keeping
// each entry's level.
func WriteFlatJSON(w io.Writer, entries []orgchart.Entry) error {
	out := make([]*JSONNode, 0, len(entries))
	for _, e := range entries {
		n := e.Node
		n.Children = nil
		jn := toJSONNode(&n)
		jn.Level = e.Level
		out = append(out, jn)
	}
	return writeIndented(w, out)
}

func writeIndented(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
