package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/dotwiki/internal/build"
	"github.com/gerunddev/dotwiki/internal/dispatch"
)

func TestBuildModelProgress(t *testing.T) {
	var model tea.Model = InitBuildModel()

	model, _ = model.Update(FileProgressMsg{Source: "/wiki/index.wiki"})
	model, _ = model.Update(FileProgressMsg{Source: "/wiki/bad.wiki", Err: errors.New("boom")})

	view := model.View()
	if !strings.Contains(view, "bad.wiki") || !strings.Contains(view, "1 rendered, 1 failed") {
		t.Errorf("Unexpected progress view: %q", view)
	}

	start := time.Now()
	result := &build.BuildResult{
		Rendered:    []string{"/wiki/index.wiki"},
		Diagnostics: 2,
		StartTime:   start,
		EndTime:     start.Add(time.Second),
	}
	model, cmd := model.Update(BuildDoneMsg{Result: result})
	if cmd == nil {
		t.Error("Expected a quit command once the build is done")
	}
	view = model.View()
	if !strings.Contains(view, "Rendered 1 file(s)") || !strings.Contains(view, "2 diagnostic(s)") {
		t.Errorf("Unexpected summary: %q", view)
	}
}

func TestBuildModelInterrupted(t *testing.T) {
	var model tea.Model = InitBuildModel()

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if m := model.(buildModel); !errors.Is(m.err, ErrInterrupted) {
		t.Errorf("Expected ErrInterrupted, got %v", m.err)
	}
}

func TestPreviewModelPanes(t *testing.T) {
	data := &PreviewData{
		Path:   "page.wiki",
		Source: "''a''",
		Output: "<p><em>a</em></p>",
		Diagnostics: []dispatch.Diagnostic{
			{Kind: "img", Start: 0, End: 5, Message: "unknown alignment"},
		},
	}
	var model tea.Model = InitPreviewModel(data)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if view := model.View(); !strings.Contains(view, "<em>a</em>") || !strings.Contains(view, "output") {
		t.Errorf("Expected the output pane first, got %q", view)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if view := model.View(); !strings.Contains(view, "''a''") {
		t.Errorf("Expected the source pane, got %q", view)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if view := model.View(); !strings.Contains(view, "unknown alignment") {
		t.Errorf("Expected the diagnostics pane, got %q", view)
	}

	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("Expected q to quit")
	}
}
