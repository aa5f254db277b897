package tui

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matview/explorer"
	mt "matview/matfile/matfiletest"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	path := mt.WriteFile(t, "tui.mat", mt.Options{},
		mt.Record("data", []string{"id", "name"},
			mt.Row("", 1, 2, 3),
			mt.Strings("", "a", "b", "c"),
		),
		mt.Double("m", []int{2, 2}, 1, 3, 2, 4),
		mt.Record("cfg", []string{"x"}, mt.Row("", 7, 8)),
	)
	session := explorer.NewSession(explorer.DefaultLimits(), slog.New(slog.DiscardHandler))
	t.Cleanup(session.Close)
	require.NoError(t, session.Open(path))

	m := New(session, slog.New(slog.DiscardHandler))
	m.resize(100, 40)
	return m
}

// settle runs posted detail results on the test goroutine.
func settle(t *testing.T, m *Model) {
	t.Helper()
	for m.expander.State() == explorer.DetailLoading {
		select {
		case fn := <-m.dispatch:
			m.Update(dispatchMsg{fn: fn})
		case <-time.After(5 * time.Second):
			t.Fatal("detail never arrived")
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelShowsFirstVariable(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, []string{"data", "data.id", "data.name", "m", "cfg", "cfg.x"}, m.vars)
	assert.Len(t, m.table.Rows(), 3)
	assert.Equal(t, "id", m.table.Columns()[0].Title)

	settle(t, m)
	assert.Equal(t, "id: 1\nname: a", m.expander.Text())
	assert.Contains(t, m.View(), "data")
}

func TestModelRowSelectionRequestsDetail(t *testing.T) {
	m := newTestModel(t)
	settle(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, explorer.DetailLoading, m.expander.State())
	settle(t, m)
	assert.Equal(t, "id: 2\nname: b", m.expander.Text())
	assert.Equal(t, 1, m.session.SelectedRow())
}

func TestModelSwitchVariables(t *testing.T) {
	m := newTestModel(t)

	m.Update(runes("]"))
	assert.Equal(t, "data.id", m.session.Current())
	m.Update(runes("]"))
	m.Update(runes("]"))
	assert.Equal(t, "m", m.session.Current())
	assert.Equal(t, "0", m.table.Columns()[0].Title)
	assert.Len(t, m.table.Rows(), 2)

	m.Update(runes("["))
	m.Update(runes("["))
	m.Update(runes("["))
	m.Update(runes("["))
	assert.Equal(t, "cfg.x", m.session.Current(), "wraps around")
	settle(t, m)
	assert.Equal(t, "0: 7\n1: 8", m.expander.Text())
}

func TestModelFilter(t *testing.T) {
	m := newTestModel(t)

	m.Update(runes("/"))
	require.True(t, m.filtering)
	for _, r := range "id > 1" {
		m.Update(runes(string(r)))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filtering)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "2", m.table.Rows()[0][0])

	m.Update(runes("/"))
	m.filter.SetValue("nope = 1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.isError)
	assert.Len(t, m.table.Rows(), 2)
}

func TestModelCopyDetails(t *testing.T) {
	m := newTestModel(t)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	settle(t, m)
	m.Update(runes("y"))
	assert.Equal(t, "id: 1\nname: a", copied)
	assert.Equal(t, "Details copied to clipboard", m.status)

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(runes("y"))
	assert.True(t, m.isError)
	assert.Contains(t, m.status, "no clipboard")
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelDispatchAfterClose(t *testing.T) {
	m := newTestModel(t)
	m.Close()
	m.Close()

	posted := make(chan struct{})
	go func() {
		defer close(posted)
		for i := 0; i < cap(m.dispatch)+4; i++ {
			m.post(func() {})
		}
	}()
	select {
	case <-posted:
	case <-time.After(5 * time.Second):
		t.Fatal("posting blocked after close")
	}

	assert.Nil(t, waitForDispatch(make(chan func()), m.done)())
}
