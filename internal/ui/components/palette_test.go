package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(p Palette, text string) Palette {
	for _, r := range text {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func submit(t *testing.T, p Palette) (Palette, string) {
	t.Helper()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
	return p, msg.Input
}

func TestPaletteSubmitAndHistory(t *testing.T) {
	p := NewPalette()
	p.Open()
	p = typeInto(p, "  move e2e4 ")
	p, got := submit(t, p)
	if got != "move e2e4" || p.Visible() {
		t.Fatalf("submit = %q visible=%v", got, p.Visible())
	}

	p.Open()
	p = typeInto(p, "next")
	p, _ = submit(t, p)

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.Value() != "next" {
		t.Fatalf("first recall = %q", p.Value())
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.Value() != "move e2e4" {
		t.Fatalf("oldest recall = %q", p.Value())
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.Value() != "" {
		t.Fatalf("stepping past newest should clear, got %q", p.Value())
	}
}

func TestPaletteTabCompletesCommandWord(t *testing.T) {
	p := NewPalette()
	p.Open()
	p = typeInto(p, "ta")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if p.Value() != "targets " {
		t.Fatalf("completion = %q", p.Value())
	}

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(PaletteCancelMsg); !ok || p.Visible() {
		t.Fatal("esc should cancel and hide")
	}
}

func TestPaletteIgnoresInputWhileHidden(t *testing.T) {
	p := NewPalette()
	p = typeInto(p, "next")
	if p.Value() != "" {
		t.Fatalf("hidden palette took input %q", p.Value())
	}
}
