package accounts

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledger/internal/model"
)

// DefaultRootName names the root account of charts that do not name one.
const DefaultRootName = "root"

// ChartNode is one node of a chart-of-accounts definition: either a leaf
// (a postable account) or a group (a non-postable account with children).
type ChartNode struct {
	Name     string
	Children []ChartNode
	group    bool
}

// Leaf returns a postable chart node.
func Leaf(name string) ChartNode {
	return ChartNode{Name: name}
}

// Group returns a group chart node.
func Group(name string, children ...ChartNode) ChartNode {
	return ChartNode{Name: name, Children: children, group: true}
}

// IsGroup reports whether n is a group node.
func (n ChartNode) IsGroup() bool {
	return n.group
}

// Account returns the account n materializes to under parentID.
func (n ChartNode) Account(parentID int64) model.Account {
	return model.Account{Name: n.Name, Postable: !n.group, ParentID: parentID, Active: true}
}

// Walk visits n and its descendants depth-first in source order. visit
// receives each node with the ID returned for its parent and returns the
// ID of the node itself.
func Walk(n ChartNode, parentID int64, visit func(n ChartNode, parentID int64) (int64, error)) error {
	id, err := visit(n, parentID)
	if err != nil {
		return err
	}
	if !n.group {
		return nil
	}
	for _, child := range n.Children {
		if err := Walk(child, id, visit); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that names are non-blank and unique and that every group
// has at least one postable descendant.
func (n ChartNode) Validate() error {
	seen := make(map[string]bool)
	var check func(c ChartNode) (bool, error)
	check = func(c ChartNode) (bool, error) {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return false, model.ValidationError{Field: "name", Reason: "account name is required"}
		}
		if seen[name] {
			return false, model.ValidationError{Field: "name", Reason: fmt.Sprintf("duplicate account name %q", name)}
		}
		seen[name] = true
		if !c.group {
			return true, nil
		}
		hasLeaf := false
		for _, child := range c.Children {
			leaf, err := check(child)
			if err != nil {
				return false, err
			}
			hasLeaf = hasLeaf || leaf
		}
		if !hasLeaf {
			return false, model.ValidationError{Field: "chart", Reason: fmt.Sprintf("group %q has no postable account", name)}
		}
		return true, nil
	}
	if !n.group {
		return model.ValidationError{Field: "chart", Reason: "chart root must be a group"}
	}
	_, err := check(n)
	return err
}

// ParseChart decodes a YAML chart of accounts. Leaves are scalars; groups
// are mappings from a name to a list of children:
//
//	root:
//	  - Assets:
//	      - Cash
//	  - Liabilities:
//	      - Payables
//
// A single top-level key named DefaultRootName is the root. Any other
// top-level keys become groups under an implicit root of that name.
func ParseChart(data []byte) (ChartNode, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ChartNode{}, fmt.Errorf("parsing chart: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return ChartNode{}, fmt.Errorf("parsing chart: empty document")
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return ChartNode{}, fmt.Errorf("parsing chart: line %d: top level must be a mapping", top.Line)
	}

	groups, err := decodeGroups(top)
	if err != nil {
		return ChartNode{}, fmt.Errorf("parsing chart: %w", err)
	}
	if len(groups) == 1 && groups[0].Name == DefaultRootName {
		return groups[0], nil
	}
	return Group(DefaultRootName, groups...), nil
}

func decodeGroups(m *yaml.Node) ([]ChartNode, error) {
	var groups []ChartNode
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: group name must be a string", key.Line)
		}
		children, err := decodeChildren(value)
		if err != nil {
			return nil, err
		}
		groups = append(groups, Group(key.Value, children...))
	}
	return groups, nil
}

func decodeChildren(n *yaml.Node) ([]ChartNode, error) {
	switch {
	case n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		return nil, nil
	case n.Kind == yaml.MappingNode:
		return decodeGroups(n)
	case n.Kind != yaml.SequenceNode:
		return nil, fmt.Errorf("line %d: group children must be a list", n.Line)
	}

	var children []ChartNode
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			children = append(children, Leaf(item.Value))
		case yaml.MappingNode:
			groups, err := decodeGroups(item)
			if err != nil {
				return nil, err
			}
			children = append(children, groups...)
		default:
			return nil, fmt.Errorf("line %d: expected an account name or a group", item.Line)
		}
	}
	return children, nil
}
