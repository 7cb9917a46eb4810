package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/dotwiki/internal/dispatch"
	"github.com/gerunddev/dotwiki/internal/styles"
)

// PreviewData is a rendered document with its source
type PreviewData struct {
	Path        string
	Source      string
	Output      string
	Diagnostics []dispatch.Diagnostic
}

type pane int

const (
	paneOutput pane = iota
	paneSource
	paneDiagnostics
)

func (p pane) String() string {
	switch p {
	case paneSource:
		return "source"
	case paneDiagnostics:
		return "diagnostics"
	default:
		return "output"
	}
}

type previewModel struct {
	viewport viewport.Model
	table    table.Model
	data     *PreviewData
	pane     pane
	width    int
	height   int
}

// InitPreviewModel creates a new preview model
func InitPreviewModel(data *PreviewData) previewModel {
	columns := []table.Column{
		{Title: "Kind", Width: 12},
		{Title: "Start", Width: 8},
		{Title: "End", Width: 8},
		{Title: "Message", Width: 60},
	}
	rows := make([]table.Row, len(data.Diagnostics))
	for i, d := range data.Diagnostics {
		rows[i] = table.Row{string(d.Kind), strconv.Itoa(d.Start), strconv.Itoa(d.End), d.Message}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.SetContent(data.Output)

	return previewModel{
		viewport: vp,
		table:    t,
		data:     data,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()), 1)
		m.viewport.Width = msg.Width
		m.viewport.Height = bodyHeight
		m.table.SetHeight(bodyHeight)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.pane = (m.pane + 1) % 3
			m.showPane()
			return m, nil
		}
	}

	if m.pane == paneDiagnostics {
		m.table, cmd = m.table.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *previewModel) showPane() {
	switch m.pane {
	case paneOutput:
		m.viewport.SetContent(m.data.Output)
	case paneSource:
		m.viewport.SetContent(m.data.Source)
	}
	m.viewport.GotoTop()
}

func (m previewModel) header() string {
	return styles.HeaderStyle.Render(fmt.Sprintf("%s · %s", m.data.Path, m.pane))
}

func (m previewModel) footer() string {
	status := fmt.Sprintf("%d diagnostic(s)", len(m.data.Diagnostics))
	if m.pane != paneDiagnostics {
		status += fmt.Sprintf(" · %3.f%%", m.viewport.ScrollPercent()*100)
	}
	return styles.FooterStyle.Render(strings.Join([]string{status, "tab: switch pane", "q: quit"}, " · "))
}

func (m previewModel) View() string {
	body := m.viewport.View()
	if m.pane == paneDiagnostics {
		body = m.table.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

// RunPreview shows data full screen until the user quits
func RunPreview(data *PreviewData) error {
	p := tea.NewProgram(InitPreviewModel(data), tea.WithAltScreen(), tea.WithInput(os.Stdin))
	_, err := p.Run()
	return err
}
