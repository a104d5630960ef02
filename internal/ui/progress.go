// Package ui renders pipeline progress in the terminal.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"esgate/internal/buildpipeline"
)

const labelWidth = 10

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyles = map[buildpipeline.Status]lipgloss.Style{
		buildpipeline.StatusQueued:  lipgloss.NewStyle().Faint(true),
		buildpipeline.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		buildpipeline.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		buildpipeline.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
	// share of an entry's work finished once a stage starts
	stageShare = map[buildpipeline.Stage]float64{
		buildpipeline.StageScan:   0.3,
		buildpipeline.StageBundle: 0.5,
		buildpipeline.StageWrite:  0.9,
	}
	verbs = map[buildpipeline.Stage]string{
		buildpipeline.StageScan:   "scanning",
		buildpipeline.StageBundle: "bundling",
		buildpipeline.StageWrite:  "writing",
	}
)

// row is one entry point as last reported by the pipeline.
type row struct {
	file  string
	event buildpipeline.Event
}

type progressModel struct {
	title   string
	baseDir string
	events  <-chan buildpipeline.Event
	rows    []row
	byFile  map[string]int
	spin    spinner.Model
	bar     progress.Model
	width   int
	closed  bool
}

type (
	eventMsg  buildpipeline.Event
	closedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model that lists every entry point
// the pipeline reports on events, shown relative to baseDir when inside it.
// The program quits once events is closed.
func NewProgressModel(title, baseDir string, events <-chan buildpipeline.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	spin.Style = labelStyles[buildpipeline.StatusWorking]
	return &progressModel{
		title:   title,
		baseDir: baseDir,
		events:  events,
		byFile:  make(map[string]int),
		spin:    spin,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.record(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 24)
		m.bar.Width = m.width - 4
	case spinner.TickMsg:
		if !m.closed {
			m.spin, cmd = m.spin.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) View() string {
	var b strings.Builder
	if m.closed {
		b.WriteString(headerStyle.Render(m.title + ": finished"))
	} else {
		b.WriteString(m.spin.View() + " " + headerStyle.Render(m.title))
	}
	b.WriteString("\n\n")
	for _, r := range m.rows {
		label := fmt.Sprintf("%*s", labelWidth, describe(r.event))
		name := runewidth.Truncate(r.file, m.width-labelWidth-4, "...")
		fmt.Fprintf(&b, "  %s %s\n", labelStyles[r.event.Status].Render(label), name)
	}
	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// next waits for the following pipeline event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// record stores ev on its entry's row and moves the bar.
func (m *progressModel) record(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	i, ok := m.byFile[ev.File]
	if !ok {
		i = len(m.rows)
		m.byFile[ev.File] = i
		m.rows = append(m.rows, row{file: relativeTo(m.baseDir, ev.File)})
	}
	m.rows[i].event = ev

	var sum float64
	for _, r := range m.rows {
		switch r.event.Status {
		case buildpipeline.StatusDone, buildpipeline.StatusError:
			sum++
		case buildpipeline.StatusWorking:
			sum += stageShare[r.event.Stage]
		}
	}
	return m.bar.SetPercent(sum / float64(len(m.rows)))
}

func describe(ev buildpipeline.Event) string {
	if ev.Status == buildpipeline.StatusWorking {
		if verb, ok := verbs[ev.Stage]; ok {
			return verb
		}
	}
	return string(ev.Status)
}

func relativeTo(base, file string) string {
	if base == "" {
		return file
	}
	rel, err := filepath.Rel(base, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return filepath.ToSlash(rel)
}
