package playback

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

const defaultWidth = 100

// advanceMsg moves auto-play forward one frame. Messages from a timer started before the most
// recent pause carry an old generation and are dropped.
type advanceMsg struct {
	generation int
}

// Model is the interactive player. It steps through the frames of a run, forwards or backwards,
// and can advance on its own.
type Model struct {
	runID      string
	memorySize int
	frames     []Frame
	index      int
	playing    bool
	generation int
	interval   time.Duration
	keys       KeyMap
	help       help.Model
	width      int
}

// NewModel creates a player for results. If autoPlay is set, playback starts advancing as soon as
// the program starts.
func NewModel(results *sim.Results, interval time.Duration, autoPlay bool) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return Model{
		runID:      results.RunID.String(),
		memorySize: results.MemorySize,
		frames:     BuildFrames(results),
		playing:    autoPlay,
		interval:   interval,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		width:      defaultWidth,
	}
}

// Index is the position of the frame currently shown
func (m Model) Index() int {
	return m.index
}

// Playing returns true while auto-play is on
func (m Model) Playing() bool {
	return m.playing
}

func (m Model) Init() tea.Cmd {
	if m.playing {
		return m.scheduleAdvance()
	}
	return nil
}

func (m Model) scheduleAdvance() tea.Cmd {
	generation := m.generation
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return advanceMsg{generation: generation}
	})
}

func (m Model) lastIndex() int {
	return max(0, len(m.frames)-1)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case advanceMsg:
		if !m.playing || msg.generation != m.generation {
			return m, nil
		}
		if m.index >= m.lastIndex() {
			m.playing = false
			return m, nil
		}
		m.index++
		return m, m.scheduleAdvance()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Play):
		m.playing = !m.playing
		m.generation++
		if m.playing {
			if m.index >= m.lastIndex() {
				m.index = 0
			}
			return m, m.scheduleAdvance()
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.index = min(m.index+1, m.lastIndex())

	case key.Matches(msg, m.keys.Prev):
		m.index = max(m.index-1, 0)

	case key.Matches(msg, m.keys.First):
		m.index = 0

	case key.Matches(msg, m.keys.Last):
		m.index = m.lastIndex()
	}

	return m, nil
}

func (m Model) View() string {
	if len(m.frames) == 0 {
		return headerStyle.Render("Run "+m.runID) + "\nNothing to play back: the workload was empty.\n" +
			statusStyle.Render(m.help.View(m.keys))
	}

	frame := m.frames[m.index]
	status := "paused"
	if m.playing {
		status = "playing"
	}

	header := headerStyle.Render(fmt.Sprintf("Run %s  |  %dKB  |  frame %d/%d  |  %s",
		m.runID, m.memorySize, m.index+1, len(m.frames), status))

	paneWidth := max(20, m.width-4)
	panes := make([]string, 0, len(frame.Panes))
	for _, pane := range frame.Panes {
		panes = append(panes, m.viewPane(pane, paneWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinVertical(lipgloss.Left, panes...),
		statusStyle.Render(m.help.View(m.keys)),
	)
}

func (m Model) viewPane(pane Pane, width int) string {
	style := paneStyle
	if pane.Finished {
		style = finishedPaneStyle
	}
	style = style.Width(width)

	title := paneTitleStyle.Render(Title(pane.Strategy))
	if !pane.Present {
		return style.Render(title + "\n(no snapshots)")
	}
	if pane.Finished {
		title += freeStyle.Render(fmt.Sprintf("  finished after tick %d", pane.Snapshot.Tick))
	} else {
		title += freeStyle.Render(fmt.Sprintf("  tick %d", pane.Snapshot.Tick))
	}

	stats := pane.Snapshot.Statistics()
	lines := []string{
		title,
		renderBar(pane.Snapshot.Spans(), width-4),
		RenderLayout(pane.Snapshot),
		fmt.Sprintf("Total Free: %d, Percentage Free: %d, Hole(s): %d", stats.FreeSize(), stats.PercentFree(), stats.HoleCount),
		pendingStyle.Render("REMAINING REQUESTS: " + RenderPending(pane.Snapshot)),
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderBar draws the address space as a bar of width cells, each span taking a share proportional
// to its size. Every span gets at least one cell so small processes stay visible.
func renderBar(spans []region.Span, width int) string {
	if len(spans) == 0 || width <= 0 {
		return ""
	}

	var total int
	for _, span := range spans {
		total += span.Size
	}

	var sb strings.Builder
	used := 0
	for i, span := range spans {
		cells := max(1, span.Size*width/total)
		if i == len(spans)-1 {
			cells = max(1, width-used)
		}
		used += cells

		if span.Owner.IsFree() {
			sb.WriteString(freeStyle.Render(strings.Repeat("░", cells)))
		} else {
			sb.WriteString(processStyle(span.Owner.Process).Render(strings.Repeat("█", cells)))
		}
	}
	return sb.String()
}

// RunTUI plays results back in an interactive terminal program
func RunTUI(results *sim.Results, interval time.Duration, autoPlay bool) error {
	program := tea.NewProgram(NewModel(results, interval, autoPlay), tea.WithAltScreen())
	_, err := program.Run()
	if err != nil {
		return errors.Wrap(err, "interactive playback failed")
	}
	return nil
}
