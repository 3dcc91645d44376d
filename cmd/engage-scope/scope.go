package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal characters are roughly 2:1 (height:width), so X distances are
// scaled by this factor to make range rings look round.
const aspectRatio = 0.5

// scopeWidth returns the PPI display width in characters, adapting to the
// terminal while reserving room for the info panel.
func (m model) scopeWidth() int {
	w := m.width - 40
	if w < 80 {
		w = 80
	}
	return w
}

func (m model) scopeHeight() int {
	h := m.height - 14
	if h < 30 {
		h = 30
	}
	return h
}

// worldToScreen converts world kilometers to scope screen X/Y.
// Returns -1,-1 when the point falls outside the display.
func (m model) worldToScreen(wx, wy float64) (int, int) {
	dxKm := wx - m.centerX
	dyKm := wy - m.centerY

	dist := math.Hypot(dxKm, dyKm)
	if dist > m.scopeRadius {
		return -1, -1
	}

	scopeWidth := m.scopeWidth()
	scopeHeight := m.scopeHeight()
	centerX := (scopeWidth - 2) / 2
	centerY := scopeHeight / 2

	scale := m.screenScale()

	// World +Y is north = up = negative screen Y
	x := centerX + int(dxKm*scale/aspectRatio)
	y := centerY - int(dyKm*scale)

	if x < 0 || x >= scopeWidth-2 || y < 0 || y >= scopeHeight {
		return -1, -1
	}

	return x, y
}

// screenScale returns screen units per kilometer, fitting the scope
// radius within the smaller display dimension.
func (m model) screenScale() float64 {
	maxScreenRadiusY := float64(m.scopeHeight()/2 - 2)
	maxScreenRadiusX := float64(m.scopeWidth()/2-2) * aspectRatio
	maxScreenRadius := maxScreenRadiusY
	if maxScreenRadiusX < maxScreenRadiusY {
		maxScreenRadius = maxScreenRadiusX
	}
	return maxScreenRadius / m.scopeRadius
}

// renderScope renders the plan position indicator view of the engagement.
func (m model) renderScope() string {
	var scope strings.Builder

	scopeWidth := m.scopeWidth()
	scopeHeight := m.scopeHeight()

	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	scope.WriteString(borderStyle.Render("┌" + strings.Repeat("─", scopeWidth-2) + "┐"))
	scope.WriteString("\n")

	grid := make([][]rune, scopeHeight)
	for i := range grid {
		grid[i] = make([]rune, scopeWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	centerX := (scopeWidth - 2) / 2
	centerY := scopeHeight / 2
	scale := m.screenScale()

	// Range rings at round kilometer intervals
	ringIntervals := []float64{10, 25, 50, 100, 250, 500}
	var ringDistances []float64
	var ringLabels []string

	for _, interval := range ringIntervals {
		for dist := interval; dist < m.scopeRadius; dist += interval {
			ringDistances = append(ringDistances, dist)
			ringLabels = append(ringLabels, fmt.Sprintf("%.0f", dist))
		}
		if len(ringDistances) >= 4 {
			break
		}
	}

	for i, ringDist := range ringDistances {
		screenRadius := int(ringDist * scale)
		drawCircle(grid, centerX, centerY, screenRadius, '─')

		label := ringLabels[i]
		labelY := centerY - screenRadius
		labelX := centerX - len(label)/2
		if labelY >= 0 && labelY < scopeHeight && labelX >= 0 && labelX+len(label) < scopeWidth-2 {
			for j, ch := range label {
				grid[labelY][labelX+j] = ch
			}
		}
	}

	// Cardinal directions at the scope edge
	maxScreenRadiusY := float64(scopeHeight/2 - 2)
	maxScreenRadiusX := float64(scopeWidth/2-2) * aspectRatio
	maxScreenRadius := maxScreenRadiusY
	if maxScreenRadiusX < maxScreenRadiusY {
		maxScreenRadius = maxScreenRadiusX
	}
	if centerY-int(maxScreenRadius) >= 0 {
		grid[centerY-int(maxScreenRadius)][centerX] = 'N'
	}
	eastX := centerX + int(maxScreenRadius/aspectRatio)
	if eastX < scopeWidth-2 {
		grid[centerY][eastX] = 'E'
	}
	if centerY+int(maxScreenRadius) < scopeHeight {
		grid[centerY+int(maxScreenRadius)][centerX] = 'S'
	}
	westX := centerX - int(maxScreenRadius/aspectRatio)
	if westX >= 0 {
		grid[centerY][westX] = 'W'
	}

	// Sites, each with its engagement-envelope contour
	for i, site := range m.snap.Sites {
		if !site.Destroyed && i < len(m.cfg.Scenario.Sites) {
			envelope := m.cfg.Scenario.Sites[i].MaxEffectiveRangeKm
			if envelope > 0 && envelope <= m.scopeRadius {
				sx, sy := m.worldToScreen(site.Position.X, site.Position.Y)
				if sx >= 0 && sy >= 0 {
					drawCircle(grid, sx, sy, int(envelope*scale), '·')
				}
			}
		}

		x, y := m.worldToScreen(site.Position.X, site.Position.Y)
		if x < 0 || y < 0 {
			continue
		}
		if site.Destroyed {
			grid[y][x] = '✗'
		} else {
			grid[y][x] = '▲'
		}
	}

	// Missiles
	for _, msl := range m.snap.Missiles {
		if msl.Status != "active" {
			continue
		}
		x, y := m.worldToScreen(msl.Position.X, msl.Position.Y)
		if x < 0 || y < 0 {
			continue
		}
		if grid[y][x] == ' ' || grid[y][x] == '─' {
			if msl.Side == "site" {
				grid[y][x] = '^'
			} else {
				grid[y][x] = '*'
			}
		}
	}

	// Fighters and their velocity vectors, with labels
	type fighterLabel struct {
		x, y  int
		label string
	}
	var labels []fighterLabel

	for i, f := range m.snap.Fighters {
		x, y := m.worldToScreen(f.Position.X, f.Position.Y)
		if x < 0 || y < 0 {
			continue
		}

		symbol := '○'
		isSpecial := false
		if i == m.selected {
			symbol = '●'
			isSpecial = true
		}
		if f.Destroyed {
			symbol = '✗'
		}
		grid[y][x] = symbol

		if isSpecial && !f.Destroyed {
			labels = append(labels, fighterLabel{x: x + 2, y: y, label: f.Name})
		}

		if !f.Destroyed {
			drawVelocityVector(grid, x, y, f.HeadingRad)
		}
	}

	for _, label := range labels {
		for i, ch := range label.label {
			lx := label.x + i
			if label.y >= 0 && label.y < scopeHeight && lx >= 0 && lx < scopeWidth-2 {
				if grid[label.y][lx] == ' ' || grid[label.y][lx] == '─' {
					grid[label.y][lx] = ch
				}
			}
		}
	}

	// Render grid with colors
	for y := 0; y < scopeHeight; y++ {
		scope.WriteString(borderStyle.Render("│"))
		for x := 0; x < scopeWidth-2; x++ {
			char := grid[y][x]
			switch char {
			case '▲':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true).Render(string(char)))
			case '✗':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render(string(char)))
			case '●':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render(string(char)))
			case '○':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Render(string(char)))
			case '^':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(string(char)))
			case '*':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Render(string(char)))
			case 'N', 'E', 'S', 'W':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true).Render(string(char)))
			case '─':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("237")).Render(string(char)))
			case '·':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("94")).Render(string(char)))
			case '→', '-':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render(string(char)))
			case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
				scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Render(string(char)))
			default:
				if (char >= 'A' && char <= 'Z') || (char >= 'a' && char <= 'z') {
					scope.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render(string(char)))
				} else {
					scope.WriteRune(char)
				}
			}
		}
		scope.WriteString(borderStyle.Render("│"))
		scope.WriteString("\n")
	}

	scope.WriteString(borderStyle.Render("└" + strings.Repeat("─", scopeWidth-2) + "┘"))

	return scope.String()
}

// drawCircle draws a circle on the grid using Bresenham's circle
// algorithm, with aspect ratio correction on the X coordinates.
func drawCircle(grid [][]rune, cx, cy, radius int, char rune) {
	x := radius
	y := 0
	err := 0

	for x >= y {
		xScaled := int(float64(x) / aspectRatio)
		yScaled := int(float64(y) / aspectRatio)

		setPixel(grid, cx+xScaled, cy+y, char)
		setPixel(grid, cx+yScaled, cy+x, char)
		setPixel(grid, cx-yScaled, cy+x, char)
		setPixel(grid, cx-xScaled, cy+y, char)
		setPixel(grid, cx-xScaled, cy-y, char)
		setPixel(grid, cx-yScaled, cy-x, char)
		setPixel(grid, cx+yScaled, cy-x, char)
		setPixel(grid, cx+xScaled, cy-y, char)

		y++
		err += 1 + 2*y
		if 2*(err-x)+1 > 0 {
			x--
			err += 1 - 2*x
		}
	}
}

// setPixel sets a grid cell if it is in bounds, only overwriting empty
// space or range ring pixels.
func setPixel(grid [][]rune, x, y int, char rune) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[0]) {
		if grid[y][x] == ' ' || grid[y][x] == '─' {
			grid[y][x] = char
		}
	}
}

// drawVelocityVector draws a short arrow along the fighter's heading.
// The heading is math convention: radians counterclockwise from +X, with
// +Y pointing up on the scope.
func drawVelocityVector(grid [][]rune, x, y int, headingRad float64) {
	const length = 3

	for i := 1; i <= length; i++ {
		dx := int(float64(i) * math.Cos(headingRad) / aspectRatio)
		dy := -int(float64(i) * math.Sin(headingRad))

		nx, ny := x+dx, y+dy
		if ny >= 0 && ny < len(grid) && nx >= 0 && nx < len(grid[0]) {
			if grid[ny][nx] == ' ' || grid[ny][nx] == '─' {
				if i == length {
					grid[ny][nx] = '→'
				} else {
					grid[ny][nx] = '-'
				}
			}
		}
	}
}
