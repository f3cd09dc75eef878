package report

import "testing"

func TestLeafValues(t *testing.T) {
	tests := []struct {
		name      string
		node      *Node
		wantValue string
		wantKnown bool
	}{
		{"known value", Leaf("Model", "Pixel"), "Pixel", true},
		{"empty value is known", Leaf("Tags", ""), "", true},
		{"unknown", Unknown("Radio"), "", false},
		{"maybe ok", Maybe("Board", "sdm845", true), "sdm845", true},
		{"maybe not ok", Maybe("Board", "ignored", false), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.Kind() != KindLeaf {
				t.Fatalf("kind = %s, want leaf", tt.node.Kind())
			}
			v, ok := tt.node.Value()
			if v != tt.wantValue || ok != tt.wantKnown {
				t.Errorf("Value() = (%q, %v), want (%q, %v)", v, ok, tt.wantValue, tt.wantKnown)
			}
		})
	}
}

func TestWithHintCopies(t *testing.T) {
	orig := Leaf("ID", "abc")
	hinted := orig.WithHint("build id")

	if orig.Hint() != "" {
		t.Errorf("original hint changed to %q", orig.Hint())
	}
	if hinted.Hint() != "build id" {
		t.Errorf("hint = %q, want %q", hinted.Hint(), "build id")
	}
	if v, _ := hinted.Value(); v != "abc" {
		t.Errorf("hinted value = %q, want abc", v)
	}
}

func TestGroupKeepsOrderAndDuplicates(t *testing.T) {
	g := NewGroup("CPU", Leaf("processor", "0"), Leaf("processor", "1"))
	g.Add(Leaf("Hardware", "Qualcomm"))

	children := g.Children()
	if len(children) != 3 {
		t.Fatalf("len = %d, want 3", len(children))
	}
	want := []string{"processor", "processor", "Hardware"}
	for i, c := range children {
		if c.Name() != want[i] {
			t.Errorf("child %d = %q, want %q", i, c.Name(), want[i])
		}
	}

	// Mutating the returned slice must not touch the group.
	children[0] = Leaf("x", "y")
	if g.Children()[0].Name() != "processor" {
		t.Error("Children() exposed internal storage")
	}
}

func TestAddPanics(t *testing.T) {
	t.Run("nil child", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for nil child")
			}
		}()
		NewGroup("g").Add(nil)
	})

	t.Run("add to leaf", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic when adding to a leaf")
			}
		}()
		Leaf("a", "b").Add(Leaf("c", "d"))
	})
}

func TestIsPlaceholder(t *testing.T) {
	if !Unknown("*Uptime").IsPlaceholder() {
		t.Error("*Uptime should be a placeholder")
	}
	if Unknown("Uptime").IsPlaceholder() {
		t.Error("Uptime should not be a placeholder")
	}
}

func TestFind(t *testing.T) {
	g := NewGroup("OS", Leaf("Hostname", "a"), Leaf("Hostname", "b"))
	if got := g.Find("Hostname"); got == nil {
		t.Fatal("Find returned nil")
	} else if v, _ := got.Value(); v != "a" {
		t.Errorf("Find returned %q, want first match", v)
	}
	if g.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
}

func TestFindChainsThroughMissing(t *testing.T) {
	root := NewGroup("", NewGroup("OS"))
	if n := root.Find("Battery").Find("Level"); n != nil {
		t.Errorf("chained Find = %v, want nil", n)
	}
	if _, ok := root.Find("Battery").Value(); ok {
		t.Error("Value on a missing node should be unknown")
	}
}
