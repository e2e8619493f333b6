package termview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/giygas/disease-dashboard/dashboard"
	"github.com/giygas/disease-dashboard/export"
	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/report"
)

// lookupMsg carries the result of one pipeline run back to Update
type lookupMsg struct {
	disease string
	report  *report.Report
	view    *dashboard.View
	err     error
}

// exportMsg reports where the CSV was written
type exportMsg struct {
	path string
	err  error
}

// Model is the interactive lookup program: a text field, a spinner while
// the completion call runs, then the rendered report or the error.
type Model struct {
	input   textinput.Model
	spinner spinner.Model

	ctx       context.Context
	pipeline  interfaces.Pipeline
	exportDir string

	loading bool
	disease string
	report  *report.Report
	view    *dashboard.View
	err     error
	status  string

	width int
}

// NewModel creates the program model. CSV exports are written to exportDir.
func NewModel(ctx context.Context, pipeline interfaces.Pipeline, exportDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter the name of the disease"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{
		input:     ti,
		spinner:   sp,
		ctx:       ctx,
		pipeline:  pipeline,
		exportDir: exportDir,
	}
}

// Init starts the cursor blinking
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.loading {
				return m, nil
			}
			disease := m.input.Value()
			if strings.TrimSpace(disease) == "" {
				return m, nil
			}
			m.loading = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.lookup(disease))
		case "ctrl+s":
			if m.report == nil || m.loading {
				return m, nil
			}
			return m, m.export(m.report)
		}

	case lookupMsg:
		m.loading = false
		m.disease = msg.disease
		m.report, m.view, m.err = msg.report, msg.view, msg.err
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = "Saved " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the program.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Enhanced Disease Information Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Looking up " + strings.TrimSpace(m.input.Value()) + "...")
	case m.err != nil:
		b.WriteString(RenderError(m.err))
	case m.view != nil:
		b.WriteString(Render(m.view, m.width))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	help := "enter: look up • esc: quit"
	if m.report != nil {
		help = "enter: look up • ctrl+s: save CSV • esc: quit"
	}
	b.WriteString("\n" + helpStyle.Render(help))

	return b.String()
}

// lookup runs the pipeline once in the background
func (m Model) lookup(disease string) tea.Cmd {
	ctx, pipeline := m.ctx, m.pipeline
	return func() tea.Msg {
		rep, err := pipeline.Run(ctx, disease)
		if err != nil {
			return lookupMsg{disease: disease, err: err}
		}
		view, err := dashboard.Build(rep)
		if err != nil {
			return lookupMsg{disease: disease, err: err}
		}
		return lookupMsg{disease: disease, report: rep, view: view}
	}
}

// export writes the current report as CSV
func (m Model) export(rep *report.Report) tea.Cmd {
	path := filepath.Join(m.exportDir, export.FileName)
	return func() tea.Msg {
		out, err := export.CSV(rep)
		if err != nil {
			return exportMsg{err: err}
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return exportMsg{err: err}
		}
		return exportMsg{path: path}
	}
}
