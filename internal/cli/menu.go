// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package cli

import (
	"fmt"

	"github.com/arrowarc/pqbridge/internal/ui"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const quitAction = "Quit"

// action is one entry of the menu; its title is the command name handed to
// Runner.ExecuteCommand.
type action struct {
	title, desc string
}

func (a action) Title() string       { return a.title }
func (a action) Description() string { return a.desc }
func (a action) FilterValue() string { return a.title }

var menuItems = []list.Item{
	action{title: "List Columns", desc: "Show the columns of a Parquet file and their storage kinds"},
	action{title: "Read Column", desc: "Print one column batch by batch"},
	action{title: "Export to JSON", desc: "Write every row of a Parquet file as JSON lines"},
	action{title: "Export to CSV", desc: "Write every row of a Parquet file as CSV"},
	action{title: "Generate Parquet", desc: "Generate a sample file covering every storage kind"},
	action{title: quitAction, desc: "Exit the application"},
}

// status is the outcome of the last command, shown under the menu.
type status struct {
	text   string
	failed bool
}

func (s status) render() string {
	if s.text == "" {
		return ""
	}
	if s.failed {
		return ui.ErrorStyle.Render(s.text)
	}
	return ui.HeaderStyle.Render(s.text)
}

// outcome summarises a finished command together with the handles the
// bridge still holds open.
func outcome(r *Runner, choice string, err error) status {
	if err != nil {
		return status{text: fmt.Sprintf("%s failed: %v", choice, err), failed: true}
	}
	readers, columns, writers := r.Bridge.Live()
	return status{text: fmt.Sprintf("%s done (open handles: %d readers, %d columns, %d writers)", choice, readers, columns, writers)}
}

// menu picks one command per run of the program. picked is empty when the
// user left without choosing.
type menu struct {
	list   list.Model
	last   status
	picked string
	done   bool
}

func newMenu(last status) menu {
	l := list.New(menuItems, list.NewDefaultDelegate(), 0, 0)
	l.Title = "pqbridge"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = ui.TitleStyle
	l.Styles.PaginationStyle = ui.PaginationStyle
	l.Styles.HelpStyle = ui.HelpStyle
	return menu{list: l, last: last}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := ui.DocStyle.GetFrameSize()
		// one line below the list for the status
		m.list.SetSize(msg.Width-h, msg.Height-v-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		case "enter":
			a, ok := m.list.SelectedItem().(action)
			if !ok {
				return m, nil
			}
			if a.title == quitAction {
				m.done = true
			} else {
				m.picked = a.title
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m menu) View() string {
	if m.done {
		return "Goodbye!\n"
	}
	view := m.list.View()
	if line := m.last.render(); line != "" {
		view += "\n" + line
	}
	return ui.DocStyle.Render(view)
}

// RunMenu shows the menu until the user quits, running each chosen command
// through r and reporting its outcome on the next menu.
func RunMenu(r *Runner) error {
	var last status
	for {
		res, err := tea.NewProgram(newMenu(last)).Run()
		if err != nil {
			return fmt.Errorf("error running menu: %w", err)
		}
		m, ok := res.(menu)
		if !ok || m.done || m.picked == "" {
			fmt.Fprintln(r.Out, "Goodbye!")
			return nil
		}
		last = outcome(r, m.picked, r.ExecuteCommand(m.picked))
	}
}
