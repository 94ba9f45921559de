package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/akhenakh/orbitsim"
)

const (
	canvasWidth     = 72
	canvasHeight    = 24
	historyCapacity = 240
)

var (
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statsStyle  = lipgloss.NewStyle().Padding(0, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type tickMsg time.Time

// model renders the simulation on a character canvas scaled from display
// coordinates, next to a theta history graph of body 0.
type model struct {
	mech     *orbitsim.Mechanics
	frame    orbitsim.Frame
	display  orbitsim.Display
	interval time.Duration
	paused   bool
	history  []float64
	err      error
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
		case "d":
			if len(m.mech.Bodies) > 0 {
				_ = m.mech.Apply(orbitsim.Advance(0))
			}
		case "a":
			if len(m.mech.Bodies) > 0 {
				_ = m.mech.Apply(orbitsim.Rewind(0))
			}
		}
		return m, nil

	case tickMsg:
		if m.err != nil {
			return m, nil
		}
		if !m.paused {
			frame, err := m.mech.Step()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.frame = frame
			if len(m.mech.Bodies) > 0 {
				m.history = append(m.history, m.mech.Bodies[0].Theta)
				if len(m.history) > historyCapacity {
					m.history = m.history[len(m.history)-historyCapacity:]
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) canvas() string {
	grid := make([][]rune, canvasHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", canvasWidth))
	}
	plot := func(x, y int, r rune) {
		cx := x * canvasWidth / m.display.Width
		cy := y * canvasHeight / m.display.Height
		if cx >= 0 && cx < canvasWidth && cy >= 0 && cy < canvasHeight {
			grid[cy][cx] = r
		}
	}
	plot(m.frame.Central.X, m.frame.Central.Y, '@')
	for i, b := range m.frame.Bodies {
		r := 'o'
		if i < 10 {
			r = rune('0' + i)
		}
		plot(b.X, b.Y, r)
	}

	lines := make([]string, canvasHeight)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return canvasStyle.Render(strings.Join(lines, "\n"))
}

func (m model) stats() string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	rows := []string{
		headerStyle.Render("Orbit Simulation"),
		row("tick", fmt.Sprintf("%d", m.frame.Tick)),
		row("bodies", fmt.Sprintf("%d", len(m.frame.Bodies))),
	}
	if len(m.mech.Bodies) > 0 {
		b := m.mech.Bodies[0]
		rows = append(rows,
			row("theta", fmt.Sprintf("%.4f", b.Theta)),
			row("phi", fmt.Sprintf("%.4f", b.Phi)),
			row("omega", fmt.Sprintf("%.3e", b.Omega)),
			row("e", fmt.Sprintf("%.3f", b.Eccentricity)),
		)
	}
	if len(m.history) > 1 {
		rows = append(rows, graphStyle.Render(asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(36),
			asciigraph.Caption("body 0 theta"))))
	}
	if m.paused {
		rows = append(rows, valueStyle.Render("paused"))
	}
	if m.err != nil {
		rows = append(rows, errStyle.Render(m.err.Error()))
	}
	rows = append(rows, helpStyle.Render("d advance  a rewind  p pause  q quit"))
	return statsStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m model) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas(), m.stats())
}

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults to the built-in scene)")
	seed := flag.Uint64("seed", 0, "random seed, overrides the config seed when non-zero")
	flag.Parse()

	cfg := orbitsim.DefaultConfig()
	if *configPath != "" {
		loaded, err := orbitsim.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	mech, err := orbitsim.NewFromConfig(cfg, orbitsim.NewRand(cfg.Seed))
	if err != nil {
		log.Fatalf("Failed to build simulation: %v", err)
	}

	interval := time.Second / 30
	if cfg.TickRate > 0 {
		interval = time.Duration(float64(time.Second) / cfg.TickRate)
	}

	m := model{mech: mech, frame: mech.Frame(), display: cfg.Display, interval: interval}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "orbittui: %v\n", err)
		os.Exit(1)
	}
}
