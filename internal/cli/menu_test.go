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
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) (menu, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	got, ok := m.(menu)
	require.True(t, ok)
	return got, cmd
}

func TestMenuSelection(t *testing.T) {
	got, cmd := press(t, newMenu(status{}), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Read Column", got.picked)
	assert.False(t, got.done)
	assert.NotNil(t, cmd, "choosing an entry quits the program")
}

func TestMenuQuit(t *testing.T) {
	got, _ := press(t, newMenu(status{}), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, got.done)
	assert.Equal(t, "Goodbye!\n", got.View())

	down := tea.KeyMsg{Type: tea.KeyDown}
	got, cmd := press(t, newMenu(status{}), down, down, down, down, down, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, got.done, "the Quit entry ends the menu")
	assert.Empty(t, got.picked)
	assert.NotNil(t, cmd)
}

func TestMenuShowsLastOutcome(t *testing.T) {
	r, _ := newTestRunner(t, "")

	failed := outcome(r, "Read Column", errors.New("column \"x\" not found"))
	assert.True(t, failed.failed)
	got, _ := press(t, newMenu(failed))
	assert.Contains(t, got.View(), `Read Column failed: column "x" not found`)

	path := filepath.Join(t.TempDir(), "sample.parquet")
	require.NoError(t, r.Generate(path, 10, 10))
	done := outcome(r, "Generate Parquet", nil)
	assert.False(t, done.failed)
	assert.Equal(t, "Generate Parquet done (open handles: 0 readers, 0 columns, 0 writers)", done.text)

	got, _ = press(t, newMenu(status{}))
	assert.NotContains(t, got.View(), "failed")
}
