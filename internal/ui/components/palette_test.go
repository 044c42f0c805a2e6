package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func submit(t *testing.T, p Palette, line string) Palette {
	t.Helper()
	p.Open()
	p.input.SetValue(line)
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != line {
		t.Fatalf("unexpected submit %#v", msg)
	}
	return p
}

func TestCompleteUniqueVerb(t *testing.T) {
	t.Parallel()
	cases := map[string]string{"fin": "finalize", "ST": "stats", "ex": "export", "re": "", "": "", "stats x": ""}
	for prefix, want := range cases {
		got, ok := complete(prefix)
		if got != want || ok != (want != "") {
			t.Fatalf("complete(%q) = %q, %t; want %q", prefix, got, ok, want)
		}
	}
}

func TestPaletteHistory(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p = submit(t, p, "stats 2024-05-01")
	p = submit(t, p, "reindex")
	p = submit(t, p, "reindex")
	if len(p.history) != 2 {
		t.Fatalf("unexpected history %v", p.history)
	}

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := p.input.Value(); got != "stats 2024-05-01" {
		t.Fatalf("history recall = %q", got)
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := p.input.Value(); got != "" {
		t.Fatalf("expected empty prompt past newest entry, got %q", got)
	}
}

func TestPaletteTabCompletes(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p.input.SetValue("fi")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := p.input.Value(); got != "finalize " {
		t.Fatalf("tab completion = %q", got)
	}
}
