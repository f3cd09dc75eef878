package report

import (
	"bufio"
	"io"
	"strings"
)

// NoneValue is printed in place of an absent leaf value.
const NoneValue = "<None>"

// RenderOptions controls the plain-text renderer.
type RenderOptions struct {
	// HidePlaceholders drops leaves whose name starts with PlaceholderMarker.
	HidePlaceholders bool
}

// Render returns the report as indented plain text.
//
// Grammar: every line is either a section header "# NAME #" or a field line
// "NAME: VALUE" / "NAME: <None>", prefixed with one space per nesting level.
// The root's direct children sit at level 0. Every child group is preceded
// by a blank line once any output exists.
func Render(root *Node, opts RenderOptions) string {
	var sb strings.Builder
	t := textWriter{w: &sb, opts: opts}
	t.root(root)
	return sb.String()
}

// WriteText renders root to w. It returns the first write error.
func WriteText(w io.Writer, root *Node, opts RenderOptions) error {
	bw := bufio.NewWriter(w)
	t := textWriter{w: bw, opts: opts}
	t.root(root)
	if t.err != nil {
		return t.err
	}
	return bw.Flush()
}

type textWriter struct {
	w       io.StringWriter
	opts    RenderOptions
	written bool
	err     error
}

func (t *textWriter) root(n *Node) {
	if n == nil {
		return
	}
	switch n.kind {
	case KindLeaf:
		t.leaf(n, 0)
	case KindGroup:
		if n.name != "" {
			t.header(n, 0)
			t.children(n, 1)
			return
		}
		t.children(n, 0)
	}
}

// group renders a nested group whose header sits at level.
func (t *textWriter) group(n *Node, level int) {
	if n.name != "" {
		t.header(n, level)
	}
	t.children(n, level+1)
}

func (t *textWriter) children(n *Node, level int) {
	for _, c := range n.children {
		switch c.kind {
		case KindLeaf:
			t.leaf(c, level)
		case KindGroup:
			if t.written {
				t.line("")
			}
			t.group(c, level)
		}
	}
}

func (t *textWriter) header(n *Node, level int) {
	t.line(indent(level) + "# " + n.name + " #")
}

func (t *textWriter) leaf(n *Node, level int) {
	if t.opts.HidePlaceholders && n.IsPlaceholder() {
		return
	}
	v := NoneValue
	if n.known {
		v = n.value
	}
	t.line(indent(level) + n.name + ": " + v)
}

func (t *textWriter) line(s string) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(s + "\n"); err != nil {
		t.err = err
		return
	}
	t.written = true
}

func indent(level int) string {
	return strings.Repeat(" ", level)
}
