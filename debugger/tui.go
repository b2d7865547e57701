// Interactive step/step-back REPL on top of Debugger, modeled on the
// bubbletea model in hejops/gone's cpu/debugger.go: a model type
// carrying the domain state plus the last error, Update() dispatching on
// tea.KeyMsg, View() composing the dump via lipgloss.
package debugger

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type model struct {
	dbg     *Debugger
	err     error
	quitMsg string
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

const helpText = "space/n: step  b: step back  c: run to halt  q: quit"

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "n":
		m.dbg.RecordCommand("step")
		if m.dbg.Engine.Halted() {
			m.quitMsg = "halted"
			return m, nil
		}
		if err := m.dbg.Engine.Step(); err != nil {
			m.err = err
		}
		return m, nil

	case "b":
		m.dbg.RecordCommand("stepback")
		m.dbg.Engine.StepBack()
		return m, nil

	case "c":
		m.dbg.RecordCommand("continue")
		for !m.dbg.Engine.Halted() {
			if err := m.dbg.Engine.Step(); err != nil {
				m.err = err
				break
			}
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	rows := []string{m.dbg.Dump()}
	if m.err != nil {
		rows = append(rows, "", haltStyle.Render(fmt.Sprintf("error: %v", m.err)))
	}
	rows = append(rows, "", helpStyle.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RunTUI drives dbg interactively until the user quits. It returns the last
// execution error observed during stepping, if any.
func RunTUI(dbg *Debugger) error {
	m, err := tea.NewProgram(model{dbg: dbg}).Run()
	if err != nil {
		return err
	}
	if final, ok := m.(model); ok {
		return final.err
	}
	return nil
}
