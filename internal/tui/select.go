package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/evmpages/picker"
)

// ErrCancelled is returned when the user leaves the prompt with Esc or Ctrl+C.
var ErrCancelled = picker.ErrCancelled

var errNoOptions = errors.New("no options to select from")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// ExitState indicates how the prompt is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Esc, Ctrl+C
	ExitStateConfirm                  // Enter on an option
)

// Prompt is a single-choice terminal prompt. It satisfies picker.Prompter.
type Prompt struct {
	Output io.Writer
	Input  io.Reader
}

// NewPrompt returns a Prompt that renders on stderr, so stdout stays free
// for results.
func NewPrompt() *Prompt {
	return &Prompt{Output: os.Stderr}
}

// Select shows options under title and returns the index of the chosen one.
func (p *Prompt) Select(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errNoOptions
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(p.Output)}
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	}

	finalModel, err := tea.NewProgram(newSelectModel(title, options), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ErrCancelled
		}
		return 0, err
	}

	m, ok := finalModel.(selectModel)
	if !ok {
		return 0, fmt.Errorf("could not get final model state")
	}
	if m.exitState != ExitStateConfirm {
		return 0, ErrCancelled
	}
	return m.chosen, nil
}

// selectModel is the Bubble Tea model behind Prompt.
type selectModel struct {
	title   string
	options []string

	textInput  textinput.Model
	searchTerm string

	// indexes into options, in display order
	filtered []int

	cursor    int
	viewport  viewport.Model
	chosen    int
	exitState ExitState
}

// list size used until the terminal reports its own
const (
	defaultWidth  = 80
	defaultHeight = 10
)

func newSelectModel(title string, options []string) selectModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	filtered := make([]int, len(options))
	for i := range options {
		filtered[i] = i
	}

	m := selectModel{
		title:     title,
		options:   options,
		textInput: ti,
		filtered:  filtered,
		viewport:  viewport.New(defaultWidth, defaultHeight),
		chosen:    -1,
	}
	m.updateViewport()
	return m
}

func (m selectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.exitState != ExitStateNone {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, input, blank line above and below the list, hint
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-5, 1)
		m.updateViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.exitState = ExitStateAbort
			return m, tea.Quit

		case "enter":
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.chosen = m.filtered[m.cursor]
			m.exitState = ExitStateConfirm
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
				m.updateViewport()
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.updateViewport()
			}
			return m, nil

		case "home":
			m.cursor = 0
			m.updateViewport()
			return m, nil

		case "end":
			m.cursor = max(len(m.filtered)-1, 0)
			m.updateViewport()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	if term := m.textInput.Value(); term != m.searchTerm {
		m.searchTerm = term
		m.refilter()
	}

	return m, cmd
}

// refilter rebuilds the visible options from the search term. Matches are
// ordered by fuzzy score.
func (m *selectModel) refilter() {
	m.cursor = 0
	m.viewport.GotoTop()
	defer m.updateViewport()

	if m.searchTerm == "" {
		m.filtered = make([]int, 0, len(m.options))
		for i := range m.options {
			m.filtered = append(m.filtered, i)
		}
		return
	}

	matches := fuzzy.Find(m.searchTerm, m.options)
	m.filtered = make([]int, 0, len(matches))
	for _, match := range matches {
		m.filtered = append(m.filtered, match.Index)
	}
}

// updateViewport renders the filtered options into the viewport and scrolls
// it so the cursor line is visible.
func (m *selectModel) updateViewport() {
	lines := make([]string, len(m.filtered))
	for i, idx := range m.filtered {
		if i == m.cursor {
			lines[i] = cursorStyle.Render("> " + m.options[idx])
		} else {
			lines[i] = "  " + m.options[idx]
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m selectModel) View() string {
	if m.exitState != ExitStateNone {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")
	sb.WriteString(m.textInput.View())
	sb.WriteString("\n\n")

	if len(m.filtered) == 0 {
		sb.WriteString("  (no matches)\n")
	} else {
		sb.WriteString(m.viewport.View())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render(fmt.Sprintf(
		"%d/%d  (↑/↓ to navigate, type to filter, Enter to select, Esc/Ctrl+C to abort)",
		len(m.filtered), len(m.options),
	)))
	return sb.String()
}
