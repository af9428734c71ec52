// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package lampviz is a terminal visualizer for a running lamp. It
// implements lamp/output.Output so a Controller can drive it directly,
// rendering the current Strength as a progress bar via bubbletea.
package lampviz

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/purpleidea/lampd/lamp"
)

// strengthMsg carries a new Strength into the bubbletea event loop.
type strengthMsg lamp.Strength

// enabledMsg carries an Enable/Disable transition into the event loop.
type enabledMsg bool

// Output is a lamp/output.Output adapter backed by a running
// tea.Program. Prepare starts the program in a background goroutine;
// Set/Enable/Disable forward into it via Program.Send, which is safe to
// call from any goroutine.
type Output struct {
	program *tea.Program
	done    chan struct{}
}

// New builds an Output. Call Prepare to actually start the terminal
// program.
func New() *Output {
	m := newModel()
	return &Output{
		program: tea.NewProgram(m, tea.WithAltScreen()),
		done:    make(chan struct{}),
	}
}

// Prepare starts the bubbletea program in a goroutine. It returns once
// the program has been launched; the program itself runs until the
// user quits or the process exits.
func (o *Output) Prepare() error {
	go func() {
		defer close(o.done)
		_, _ = o.program.Run()
	}()
	return nil
}

// Enable marks the lamp as on in the display.
func (o *Output) Enable() error {
	o.program.Send(enabledMsg(true))
	return nil
}

// Disable marks the lamp as off in the display.
func (o *Output) Disable() error {
	o.program.Send(enabledMsg(false))
	return nil
}

// Set pushes a new Strength into the display.
func (o *Output) Set(s lamp.Strength) error {
	o.program.Send(strengthMsg(s))
	return nil
}

// Wait blocks until the bubbletea program has exited.
func (o *Output) Wait() {
	<-o.done
}

// Done returns a channel that closes once the bubbletea program has
// exited, so a caller can tie the daemon's own shutdown to the user
// quitting the visualizer (e.g. via util.ContextWithCloser).
func (o *Output) Done() <-chan struct{} {
	return o.done
}

// model is the bubbletea model driving the display, grounded on
// GoPomodoro's progress-bar TUI.
type model struct {
	bar      progress.Model
	strength lamp.Strength
	enabled  bool
	width    int
	height   int
}

func newModel() *model {
	return &model{bar: progress.New(progress.WithDefaultGradient())}
}

func (m *model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case strengthMsg:
		m.strength = lamp.Strength(msg)
	case enabledMsg:
		m.enabled = bool(msg)
	}
	return m, nil
}

func (m *model) View() string {
	title := lipgloss.NewStyle().Bold(true).Underline(true).Render("lampviz")

	status := "off"
	if m.enabled {
		status = "on"
	}
	statusStyle := lipgloss.NewStyle().Faint(!m.enabled).Bold(m.enabled)

	info := fmt.Sprintf("Status: %s\nStrength: %s", statusStyle.Render(status), m.strength.String())

	bar := m.bar.ViewAs(m.strength.Float64())

	help := lipgloss.NewStyle().Faint(true).Render("[q] quit")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(maxInt(32, m.width-4)).
		Render(fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", title, info, bar, help))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
