package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func press(t *testing.T, m selectModel, msgs ...tea.Msg) selectModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(selectModel)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestSelectModelNavigateAndConfirm(t *testing.T) {
	assert := assert.New(t)

	m := newSelectModel("pick", []string{"alpha", "beta", "gamma"})
	m = press(t, m, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyUp))

	assert.Equal(1, m.cursor)

	m = press(t, m, key(tea.KeyEnter))
	assert.Equal(ExitStateConfirm, m.exitState)
	assert.Equal(1, m.chosen)
}

func TestSelectModelAbort(t *testing.T) {
	assert := assert.New(t)

	m := press(t, newSelectModel("pick", []string{"alpha"}), key(tea.KeyEsc))
	assert.Equal(ExitStateAbort, m.exitState)

	m = press(t, newSelectModel("pick", []string{"alpha"}), key(tea.KeyCtrlC))
	assert.Equal(ExitStateAbort, m.exitState)
}

func TestSelectModelFilter(t *testing.T) {
	assert := assert.New(t)

	options := []string{"/site/index.html", "/site/about.html", "/site/blog"}
	m := newSelectModel("pick", options)

	m = press(t, m, typed("abt"))
	assert.Equal("abt", m.searchTerm)
	assert.Equal([]int{1}, m.filtered)

	// the chosen index refers to the unfiltered options
	m = press(t, m, key(tea.KeyEnter))
	assert.Equal(1, m.chosen)
}

func TestSelectModelNoMatchesIgnoresEnter(t *testing.T) {
	assert := assert.New(t)

	m := press(t, newSelectModel("pick", []string{"alpha", "beta"}), typed("zzz"))
	assert.Empty(m.filtered)
	assert.Contains(m.View(), "no matches")

	m = press(t, m, key(tea.KeyEnter))
	assert.Equal(ExitStateNone, m.exitState)
}

func TestSelectModelScroll(t *testing.T) {
	assert := assert.New(t)

	m := newSelectModel("pick", []string{"a", "b", "c", "d", "e", "f"})
	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 8})
	assert.Equal(3, m.viewport.Height)

	m = press(t, m, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown))
	assert.Equal(4, m.cursor)
	assert.Equal(2, m.viewport.YOffset)
	assert.Contains(m.viewport.View(), "> e")
	assert.NotContains(m.viewport.View(), "  a")

	m = press(t, m, key(tea.KeyHome))
	assert.Equal(0, m.viewport.YOffset)

	m = press(t, m, key(tea.KeyEnd))
	assert.Equal(5, m.cursor)
	assert.Equal(3, m.viewport.YOffset)
}

func TestPromptRejectsEmptyOptions(t *testing.T) {
	_, err := NewPrompt().Select(context.Background(), "pick", nil)
	assert.ErrorIs(t, err, errNoOptions)
}
