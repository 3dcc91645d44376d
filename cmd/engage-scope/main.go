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

	"github.com/skyshield-sim/skyshield/pkg/config"
	"github.com/skyshield-sim/skyshield/pkg/engagement"
	"github.com/skyshield-sim/skyshield/pkg/geometry"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	stepRate   = flag.Float64("rate", 10, "Simulation steps per second")
)

type model struct {
	cfg      *config.Config
	run      *engagement.Scenario
	snap     engagement.Snapshot
	selected int
	paused   bool
	finished bool
	err      error
	width    int
	height   int

	// Scope display
	scopeRadius float64 // Kilometers from center to edge
	centerX     float64
	centerY     float64
}

type tickMsg time.Time

func tick(rate float64) tea.Cmd {
	if rate <= 0 {
		rate = 10
	}
	interval := time.Duration(float64(time.Second) / rate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick(*stepRate)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			// Rebuild the scenario from scratch
			run, err := m.cfg.Scenario.Build()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.run = run
			m.snap = run.Snapshot()
			m.finished = false
			m.paused = false
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.snap.Fighters)-1 {
				m.selected++
			}
		case "+", "=":
			if m.scopeRadius > 10 {
				m.scopeRadius /= 1.5
			}
		case "-", "_":
			if m.scopeRadius < 2000 {
				m.scopeRadius *= 1.5
			}
		case "0":
			m.scopeRadius = defaultScopeRadius(m.cfg)
		}

	case tickMsg:
		if !m.paused && !m.finished {
			m.run.Advance()
			m.snap = m.run.Snapshot()
			if m.snap.Complete {
				m.finished = true
			}
		}
		return m, tick(*stepRate)
	}

	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	title := "SKYSHIELD ENGAGEMENT SCOPE"
	if m.paused {
		title += " [PAUSED]"
	}
	if m.finished {
		title += " [COMPLETE]"
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		s.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
		return s.String()
	}

	scope := m.renderScope()
	info := m.renderInfo()

	scopeLines := strings.Split(scope, "\n")
	infoLines := strings.Split(info, "\n")

	maxLines := len(scopeLines)
	if len(infoLines) > maxLines {
		maxLines = len(infoLines)
	}

	for i := 0; i < maxLines; i++ {
		if i < len(scopeLines) {
			s.WriteString(scopeLines[i])
		} else {
			s.WriteString(strings.Repeat(" ", m.scopeWidth()))
		}
		s.WriteString("  ")
		if i < len(infoLines) {
			s.WriteString(infoLines[i])
		}
		s.WriteString("\n")
	}

	s.WriteString(m.renderFighterList())
	s.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	s.WriteString(helpStyle.Render("SPACE: Pause  R: Restart  ↑/↓: Select  +/-: Range  0: Reset  Q: Quit"))
	s.WriteString("\n")

	return s.String()
}

// renderInfo renders the side panel with engagement state.
func (m model) renderInfo() string {
	var info strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	info.WriteString(headerStyle.Render("ENGAGEMENT"))
	info.WriteString("\n\n")

	info.WriteString(fmt.Sprintf("Scenario: %s\n", m.cfg.Scenario.Name))
	info.WriteString(fmt.Sprintf("T+%.1f s\n", m.snap.TimeS))
	info.WriteString(fmt.Sprintf("Scope: %.0f km\n", m.scopeRadius))
	info.WriteString("\n")

	info.WriteString(headerStyle.Render("Sites"))
	info.WriteString("\n")
	for _, site := range m.snap.Sites {
		status := "OK"
		if site.Destroyed {
			status = "DESTROYED"
		}
		if site.Degraded {
			status += " [WX]"
		}
		info.WriteString(fmt.Sprintf("%-10s %s  %d msl  %d trk\n",
			site.Name, status, site.Remaining, len(site.Tracks)))
	}
	info.WriteString("\n")

	active, resolved := 0, 0
	for _, msl := range m.snap.Missiles {
		if msl.Status == "active" {
			active++
		} else {
			resolved++
		}
	}
	info.WriteString(fmt.Sprintf("Missiles: %d active, %d resolved\n", active, resolved))

	if m.finished {
		info.WriteString("\n")
		result := m.run.Result()
		resultStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
		verdict := "DEFENSE HOLDS"
		if result.Success {
			resultStyle = resultStyle.Foreground(lipgloss.Color("46"))
			verdict = "STRIKE SUCCESS"
		}
		info.WriteString(resultStyle.Render(verdict))
		info.WriteString(fmt.Sprintf("\nElapsed: %.1f s\n", result.ElapsedS))
	}

	return info.String()
}

func (m model) renderFighterList() string {
	var list strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	list.WriteString(headerStyle.Render("Fighters:"))
	list.WriteString(fmt.Sprintf(" (%d)", len(m.snap.Fighters)))
	list.WriteString("\n\n")

	if len(m.snap.Fighters) == 0 {
		list.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  No fighters in scenario"))
		return list.String()
	}

	for i, f := range m.snap.Fighters {
		prefix := "  "
		if i == m.selected {
			prefix = "→ "
		}

		status := ""
		if f.Destroyed {
			status = " [DOWN]"
		} else if f.Evasive {
			status = " [EVADING]"
		}
		if f.InLaunchWindow {
			status += " [IN RANGE]"
		}

		line := fmt.Sprintf("%s%-10s  (%7.1f, %7.1f) km  hdg %5.1f°  %d wpn%s",
			prefix,
			f.Name,
			f.Position.X,
			f.Position.Y,
			geometry.HeadingToAzimuth(f.HeadingRad),
			f.WeaponsRemaining,
			status,
		)

		if i == m.selected {
			line = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Render(line)
		}

		list.WriteString(line)
		list.WriteString("\n")
	}

	return list.String()
}

// defaultScopeRadius picks a display range that fits the scenario grid.
func defaultScopeRadius(cfg *config.Config) float64 {
	if cfg.Scenario.GridKm > 0 {
		return cfg.Scenario.GridKm / 2
	}
	return 150
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	run, err := cfg.Scenario.Build()
	if err != nil {
		log.Fatalf("Failed to build scenario: %v", err)
	}

	// Center the scope on the first site
	var cx, cy float64
	if len(cfg.Scenario.Sites) > 0 {
		cx = cfg.Scenario.Sites[0].X
		cy = cfg.Scenario.Sites[0].Y
	}

	m := model{
		cfg:         cfg,
		run:         run,
		snap:        run.Snapshot(),
		scopeRadius: defaultScopeRadius(cfg),
		centerX:     cx,
		centerY:     cy,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
