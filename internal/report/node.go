// Package report defines the hierarchical report tree and its plain-text
// rendering.
//
// A report is a tree of Nodes. A Node is either a leaf (one named fact with
// an optional value) or a group (a named, ordered list of child nodes). The
// tree is built fresh for every refresh and thrown away after rendering.
//
// Usage:
//
//	root := report.NewGroup("")
//	bat := report.NewGroup("Battery",
//		report.Leaf("Level", " 50%"),
//		report.Unknown("Voltage"),
//	)
//	root.Add(bat)
//	fmt.Print(report.Render(root, report.RenderOptions{}))
package report

import (
	"fmt"
	"strings"
)

// PlaceholderMarker prefixes the name of an entry that is known to exist
// but is not collected yet. Such entries are only shown in verbose output.
const PlaceholderMarker = "*"

// Kind tags the variant held by a Node.
type Kind uint8

const (
	// KindLeaf is a single fact: name, optional value and hint.
	KindLeaf Kind = iota + 1
	// KindGroup is an ordered list of child nodes.
	KindGroup
)

// String returns the kind name for logs and test failures.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is one element of the report tree.
//
// Leaves are immutable once constructed. Groups own their children
// exclusively; children are only ever appended, so the tree is acyclic.
type Node struct {
	kind Kind
	name string
	hint string

	// Leaf only. known is false when the value is absent, which is
	// distinct from an empty value.
	value string
	known bool

	// Group only.
	children []*Node
}

// Leaf returns a leaf holding a known value. The value may be empty.
func Leaf(name, value string) *Node {
	return &Node{kind: KindLeaf, name: name, value: value, known: true}
}

// Unknown returns a leaf whose value is absent.
func Unknown(name string) *Node {
	return &Node{kind: KindLeaf, name: name}
}

// Maybe returns Leaf(name, value) when ok is true and Unknown(name) otherwise.
// It matches the (value, ok) results returned by the probe layer.
func Maybe(name, value string, ok bool) *Node {
	if !ok {
		return Unknown(name)
	}
	return Leaf(name, value)
}

// NewGroup returns a group with the given children in order.
func NewGroup(name string, children ...*Node) *Node {
	g := &Node{kind: KindGroup, name: name}
	g.Add(children...)
	return g
}

// WithHint returns a copy of n carrying the given explanation.
// The receiver is left untouched.
func (n *Node) WithHint(hint string) *Node {
	c := *n
	c.hint = hint
	if n.children != nil {
		c.children = append([]*Node(nil), n.children...)
	}
	return &c
}

// Add appends children to a group, keeping insertion order. Duplicate names
// are allowed.
//
// Add panics when called on a leaf or when a child is nil; both are
// programming errors in the caller, not runtime conditions.
func (n *Node) Add(children ...*Node) {
	if n.kind != KindGroup {
		panic(fmt.Sprintf("report: Add called on %s %q", n.kind, n.name))
	}
	for i, c := range children {
		if c == nil {
			panic(fmt.Sprintf("report: nil child %d added to group %q", i, n.name))
		}
		n.children = append(n.children, c)
	}
}

// Kind returns the variant of the node.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the node name. Only the synthetic root has an empty name.
func (n *Node) Name() string { return n.name }

// Hint returns the human-readable explanation, or "".
func (n *Node) Hint() string { return n.hint }

// Value returns the leaf value and whether it is known.
// Groups always report ("", false).
func (n *Node) Value() (string, bool) {
	if n == nil {
		return "", false
	}
	return n.value, n.known
}

// Children returns a copy of the group's children in insertion order.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of direct children of a group.
func (n *Node) Len() int { return len(n.children) }

// IsPlaceholder reports whether the node name carries PlaceholderMarker.
func (n *Node) IsPlaceholder() bool {
	return strings.HasPrefix(n.name, PlaceholderMarker)
}

// Find returns the first direct child with the given name, or nil. Finds on
// a nil node return nil, so lookups can be chained.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}
