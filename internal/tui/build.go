package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/dotwiki/internal/build"
	"github.com/gerunddev/dotwiki/internal/styles"
)

// ErrInterrupted is returned when the user quits a build before it ends
var ErrInterrupted = errors.New("build interrupted")

// FileProgressMsg is sent each time a file has been rendered
type FileProgressMsg build.FileResult

// BuildDoneMsg is sent when the build completes
type BuildDoneMsg struct {
	Result *build.BuildResult
	Err    error
}

// buildModel is the Bubble Tea model for the build progress display
type buildModel struct {
	spinner  spinner.Model
	status   string
	rendered int
	failed   int
	complete bool
	result   *build.BuildResult
	err      error
}

// InitBuildModel creates a new build progress model
func InitBuildModel() buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return buildModel{
		spinner: s,
		status:  "Scanning sources...",
	}
}

func (m buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.err = ErrInterrupted
			return m, tea.Quit
		}

	case FileProgressMsg:
		if msg.Err != nil {
			m.failed++
		} else {
			m.rendered++
		}
		m.status = "Rendered " + filepath.Base(msg.Source)
		return m, nil

	case BuildDoneMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m buildModel) View() string {
	if m.complete {
		if m.err != nil {
			return styles.ErrorStyle.Render("✗ Build failed: "+m.err.Error()) + "\n"
		}

		duration := m.result.EndTime.Sub(m.result.StartTime).Round(time.Millisecond)
		if len(m.result.Rendered) == 0 && len(m.result.Errors) == 0 {
			return styles.SuccessStyle.Render("✓ Nothing to render") + "\n" +
				styles.HelpStyle.Render(fmt.Sprintf("%d file(s) up to date, completed in %v", len(m.result.Skipped), duration)) + "\n"
		}

		msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Rendered %d file(s)", len(m.result.Rendered)))
		if m.result.Diagnostics > 0 {
			msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d diagnostic(s)", m.result.Diagnostics))
		}
		if len(m.result.Errors) > 0 {
			msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(m.result.Errors)))
		}
		msg += "\n" + styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", duration)) + "\n"
		return msg
	}

	counts := styles.DimStyle.Render(fmt.Sprintf("(%d rendered, %d failed)", m.rendered, m.failed))
	return fmt.Sprintf("\n%s %s %s\n\n", m.spinner.View(), m.status, counts)
}

// RunBuild runs build under a spinner. Quitting cancels the build context.
func RunBuild(ctx context.Context, run func(ctx context.Context, progress func(build.FileResult)) (*build.BuildResult, error)) (*build.BuildResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(InitBuildModel(), tea.WithInput(os.Stdin), tea.WithContext(ctx))

	go func() {
		result, err := run(ctx, func(r build.FileResult) {
			p.Send(FileProgressMsg(r))
		})
		p.Send(BuildDoneMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(buildModel)
	return m.result, m.err
}
