package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func sampleTree() *Node {
	root := NewGroup("")
	root.Add(
		NewGroup("OS",
			Unknown("*Browser UserAgent"),
			Leaf("Hostname", "phone"),
		),
		NewGroup("Battery",
			Leaf("Level", " 50%"),
			Unknown("Voltage"),
			Leaf("Technology", ""),
		),
		NewGroup("CPU",
			Unknown("*Frequency Stats (time)"),
			NewGroup("core0", Leaf("MHz", "1800")),
		),
	)
	return root
}

func TestRenderShowsPlaceholders(t *testing.T) {
	got := Render(sampleTree(), RenderOptions{})
	want := strings.Join([]string{
		"# OS #",
		" *Browser UserAgent: <None>",
		" Hostname: phone",
		"",
		"# Battery #",
		" Level:  50%",
		" Voltage: <None>",
		" Technology: ",
		"",
		"# CPU #",
		" *Frequency Stats (time): <None>",
		"",
		" # core0 #",
		"  MHz: 1800",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderHidesPlaceholders(t *testing.T) {
	got := Render(sampleTree(), RenderOptions{HidePlaceholders: true})
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " "), PlaceholderMarker) {
			t.Errorf("placeholder line rendered: %q", line)
		}
	}
	if !strings.Contains(got, " Hostname: phone\n") {
		t.Errorf("non-placeholder leaf missing:\n%s", got)
	}
}

func TestRenderLineCount(t *testing.T) {
	// One line per leaf and per named group, plus separators between groups.
	tree := sampleTree()
	var leaves, headers, groups int
	var walk func(n *Node, top bool)
	walk = func(n *Node, top bool) {
		switch n.Kind() {
		case KindLeaf:
			leaves++
		case KindGroup:
			if !top {
				groups++
			}
			if n.Name() != "" {
				headers++
			}
			for _, c := range n.Children() {
				walk(c, false)
			}
		}
	}
	walk(tree, true)

	out := Render(tree, RenderOptions{})
	var nonBlank, blank int
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if line == "" {
			blank++
		} else {
			nonBlank++
		}
	}
	if nonBlank != leaves+headers {
		t.Errorf("non-blank lines = %d, want %d", nonBlank, leaves+headers)
	}
	// The first group starts the output, so it gets no separator.
	if blank != groups-1 {
		t.Errorf("blank lines = %d, want %d", blank, groups-1)
	}
}

func TestRenderNamedRoot(t *testing.T) {
	root := NewGroup("Report", Leaf("a", "1"), NewGroup("Sub", Leaf("b", "2")))
	got := Render(root, RenderOptions{})
	want := "# Report #\n a: 1\n\n # Sub #\n  b: 2\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tree := sampleTree()
	first := Render(tree, RenderOptions{})
	for i := 0; i < 3; i++ {
		if got := Render(tree, RenderOptions{}); got != first {
			t.Fatalf("render %d differs from first render", i)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(NewGroup(""), RenderOptions{}); got != "" {
		t.Errorf("empty root rendered %q", got)
	}
	if got := Render(nil, RenderOptions{}); got != "" {
		t.Errorf("nil root rendered %q", got)
	}
}

func TestWriteTextMatchesRender(t *testing.T) {
	var buf bytes.Buffer
	opts := RenderOptions{HidePlaceholders: true}
	if err := WriteText(&buf, sampleTree(), opts); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if buf.String() != Render(sampleTree(), opts) {
		t.Error("WriteText output differs from Render")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTextReturnsError(t *testing.T) {
	if err := WriteText(failingWriter{}, sampleTree(), RenderOptions{}); err == nil {
		t.Error("expected write error")
	}
}
