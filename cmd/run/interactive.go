package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/parse-bridge/standoff"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	coordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	openMarker  = "["
	closeMarker = "]"
)

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
)

// constituent is one non-leaf node of the current sentence, flattened in
// pre-order for display.
type constituent struct {
	label string
	coord standoff.Coordinate
	text  string
	depth int
}

type exploreModel struct {
	err      error
	parse    func(ctx context.Context) (standoff.ParsedText, error)
	marked   map[string]bool
	filter   textinput.Model
	parsed   standoff.ParsedText
	nodes    []constituent
	rendered string
	sentence int
	selected int
	state    modelState
	loaded   bool
}

type parsedMsg struct {
	err    error
	parsed standoff.ParsedText
}

func newExploreModel(parse func(ctx context.Context) (standoff.ParsedText, error)) *exploreModel {
	ti := textinput.New()
	ti.Placeholder = "NP"
	ti.Prompt = "label: "
	ti.Width = 20
	return &exploreModel{
		parse:  parse,
		marked: make(map[string]bool),
		filter: ti,
		state:  stateBrowse,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return func() tea.Msg {
		parsed, err := m.parse(context.Background())
		return parsedMsg{parsed: parsed, err: err}
	}
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case parsedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.parsed = msg.parsed
		if len(m.parsed) > 0 {
			m.showSentence(0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.nodes)-1 {
				m.selected++
			}

		case " ", "enter":
			if len(m.nodes) > 0 {
				key := m.nodes[m.selected].coord.String()
				m.marked[key] = !m.marked[key]
				m.render()
			}

		case "tab", "n":
			if len(m.parsed) > 0 {
				m.showSentence((m.sentence + 1) % len(m.parsed))
			}

		case "shift+tab", "p":
			if len(m.parsed) > 0 {
				m.showSentence((m.sentence + len(m.parsed) - 1) % len(m.parsed))
			}

		case "c":
			m.marked = make(map[string]bool)
			m.render()

		case "/":
			m.state = stateFilter
			m.filter.SetValue("")
			return m, m.filter.Focus()
		}
	}
	return m, nil
}

func (m *exploreModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateBrowse
		m.filter.Blur()
		return m, nil
	case "enter":
		label := strings.TrimSpace(m.filter.Value())
		for _, c := range m.parsed[m.sentence].Find(label) {
			m.marked[c.String()] = true
		}
		m.state = stateBrowse
		m.filter.Blur()
		m.render()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *exploreModel) showSentence(i int) {
	m.sentence = i
	m.selected = 0
	m.marked = make(map[string]bool)
	m.nodes = m.nodes[:0]

	root := m.parsed[i].Root()
	for n := range root.Walk() {
		if n.IsLeaf() {
			continue
		}
		coord := n.Coordinate()
		m.nodes = append(m.nodes, constituent{
			label: n.Label(),
			coord: coord,
			text:  strings.TrimSpace(n.OriginalString()),
			depth: len(coord),
		})
	}
	m.render()
}

func (m *exploreModel) render() {
	var targets []standoff.Coordinate
	for _, c := range m.nodes {
		if m.marked[c.coord.String()] {
			targets = append(targets, c.coord)
		}
	}
	got, err := m.parsed[m.sentence].Root().Bracketed(targets, openMarker, closeMarker)
	m.rendered, m.err = got, err
}

func (m *exploreModel) View() string {
	if !m.loaded {
		return "Parsing..."
	}
	if m.err != nil && len(m.parsed) == 0 {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if len(m.parsed) == 0 {
		return "No sentences.\n\nPress q to quit."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Standoff Explorer"))
	b.WriteString(fmt.Sprintf(" sentence %d/%d\n\n", m.sentence+1, len(m.parsed)))

	for i, c := range m.nodes {
		box := "[ ] "
		if m.marked[c.coord.String()] {
			box = "[x] "
		}
		line := strings.Repeat("  ", c.depth) + box + c.label + " " + c.text
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + strings.Repeat("  ", c.depth) + box +
				labelStyle.Render(c.label) + " " + c.text)
		}
		b.WriteString(" ")
		b.WriteString(coordStyle.Render(c.coord.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(resultStyle.Render(m.rendered))
	}
	b.WriteString("\n\n")

	if m.state == stateFilter {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter mark all • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • space toggle • / mark label • c clear • n/p sentence • q quit"))
	}
	return b.String()
}

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [text...]",
		Short: "Toggle constituents interactively and watch the bracketed text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			model := newExploreModel(func(ctx context.Context) (standoff.ParsedText, error) {
				return standoff.Parse(ctx, text, s.pre, s.parser)
			})
			opts := []tea.ProgramOption{tea.WithAltScreen()}
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				opts = append(opts, tea.WithInputTTY())
			}
			p := tea.NewProgram(model, opts...)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running program: %w", err)
			}
			return nil
		},
	}
}
