// Package tui is the terminal front end. It drives the same explorer
// session as the desktop window.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"matview/config"
	"matview/explorer"
)

const (
	maxColumnWidth = 40
	minColumnWidth = 3
)

// dispatchMsg carries a function posted by a detail worker.
type dispatchMsg struct {
	fn func()
}

func waitForDispatch(ch <-chan func(), done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-ch:
			return dispatchMsg{fn: fn}
		case <-done:
			return nil
		}
	}
}

// Model is the bubbletea model of the terminal view.
type Model struct {
	session  *explorer.Session
	expander *explorer.Expander
	dispatch chan func()
	done     chan struct{}
	stop     sync.Once
	logger   *slog.Logger

	keys   keyMap
	styles styles

	vars      []string
	table     table.Model
	detail    viewport.Model
	filter    textinput.Model
	filtering bool
	status    string
	isError   bool
	row       int

	width, height int

	copy func(string) error
}

// New returns a model over a session that may already have a file loaded.
func New(session *explorer.Session, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	dispatch := make(chan func(), 16)

	filter := textinput.New()
	filter.Placeholder = "id > 2 AND name ~ a"
	filter.Prompt = "/ "

	m := &Model{
		session:  session,
		dispatch: dispatch,
		done:     make(chan struct{}),
		logger:   logger,
		keys:     newKeyMap(),
		styles:   newStyles(),
		table:    table.New(table.WithFocused(true), table.WithHeight(10)),
		detail:   viewport.New(80, 8),
		filter:   filter,
		row:      -1,
		copy:     clipboard.WriteAll,
	}
	m.expander = explorer.NewExpander(m.post, session.Limits(), logger)
	m.vars = selectablePaths(session.Contents())
	m.refreshTable()
	return m
}

// post hands fn to the update loop. Once the model is closed, results are
// dropped so detail workers can exit.
func (m *Model) post(fn func()) {
	select {
	case m.dispatch <- fn:
	case <-m.done:
	}
}

// Close stops accepting detail results. It is safe to call more than once.
func (m *Model) Close() {
	m.stop.Do(func() { close(m.done) })
}

// selectablePaths lists every variable and, below 1x1 structs, every field.
func selectablePaths(c *explorer.Contents) []string {
	if c == nil {
		return nil
	}
	var out []string
	var walk func(names []string)
	walk = func(names []string) {
		for _, name := range names {
			out = append(out, name)
			walk(c.Children(name))
		}
	}
	walk(c.Names())
	return out
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForDispatch(m.dispatch, m.done)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg.fn()
		return m, waitForDispatch(m.dispatch, m.done)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.nextVar):
			m.stepVariable(1)
			return m, nil
		case key.Matches(msg, m.keys.prevVar):
			m.stepVariable(-1)
			return m, nil
		case key.Matches(msg, m.keys.filter):
			m.filtering = true
			if t := m.session.Table(); t != nil {
				m.filter.SetValue(t.Query())
			}
			m.filter.CursorEnd()
			return m, m.filter.Focus()
		case key.Matches(msg, m.keys.copyDetails):
			m.copyDetails()
			return m, nil
		case key.Matches(msg, m.keys.scrollDown):
			m.detail.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keys.scrollUp):
			m.detail.HalfPageUp()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if cursor := m.table.Cursor(); cursor != m.row && len(m.table.Rows()) > 0 {
		m.requestDetail(cursor)
	}
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.apply):
		m.filtering = false
		m.filter.Blur()
		if err := m.session.Filter(m.filter.Value()); err != nil {
			m.setError(err)
			return nil
		}
		m.setStatus(m.rowStatus())
		m.refreshTable()
		return nil
	case key.Matches(msg, m.keys.cancel):
		m.filtering = false
		m.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return cmd
}

func (m *Model) stepVariable(delta int) {
	if len(m.vars) == 0 {
		return
	}
	idx := 0
	for i, name := range m.vars {
		if name == m.session.Current() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.vars)) % len(m.vars)
	if err := m.session.Select(m.vars[idx]); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(m.rowStatus())
	m.refreshTable()
}

func (m *Model) copyDetails() {
	text := m.expander.Text()
	if text == "" || m.expander.State() == explorer.DetailLoading {
		m.setStatus("Nothing to copy")
		return
	}
	if err := m.copy(text); err != nil {
		m.setError(fmt.Errorf("copy failed: %w", err))
		return
	}
	m.setStatus("Details copied to clipboard")
}

// refreshTable rebuilds the table widget from the session table.
func (m *Model) refreshTable() {
	m.row = -1
	m.expander.Reset()
	m.detail.SetContent("")

	// Rows must match the column count at all times.
	m.table.SetRows(nil)
	t := m.session.Table()
	if t == nil {
		m.table.SetColumns(nil)
		return
	}

	headers := t.Columns()
	widths := make([]int, len(headers))
	for c, h := range headers {
		widths[c] = runewidth.StringWidth(h)
	}
	rows := make([]table.Row, t.RowCount())
	for r := range rows {
		row := make(table.Row, len(headers))
		for c := range headers {
			row[c] = t.Summary(r, c)
			if w := runewidth.StringWidth(row[c]); w > widths[c] {
				widths[c] = w
			}
		}
		rows[r] = row
	}

	cols := make([]table.Column, len(headers))
	for c, h := range headers {
		w := widths[c]
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		if w < minColumnWidth {
			w = minColumnWidth
		}
		cols[c] = table.Column{Title: h, Width: w}
	}
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetCursor(0)
	if len(rows) > 0 {
		m.requestDetail(0)
	}
}

func (m *Model) requestDetail(row int) {
	values, err := m.session.SelectRow(row)
	if err != nil {
		m.setError(err)
		return
	}
	m.row = row
	m.expander.Request(m.session.Table().Columns(), values, func(text string) {
		m.detail.SetContent(text)
		m.detail.GotoTop()
	})
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	// top bar, help line, filter line and the two panel borders
	avail := height - 6
	if avail < 4 {
		avail = 4
	}
	tableHeight := avail / 2
	m.table.SetHeight(tableHeight)
	m.table.SetWidth(width)
	m.detail.Width = width - 2
	m.detail.Height = avail - tableHeight
	m.filter.Width = width - 4
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) setError(err error) {
	var e *explorer.Error
	if errors.As(err, &e) {
		m.status = e.Title() + ": " + e.Error()
	} else {
		m.status = err.Error()
	}
	m.isError = true
	m.logger.Debug("tui error", "error", err)
}

func (m *Model) rowStatus() string {
	t := m.session.Table()
	if t == nil {
		return ""
	}
	if t.Truncated() {
		return fmt.Sprintf("%d of %d rows", t.RowCount(), t.Matched())
	}
	return fmt.Sprintf("%d rows", t.RowCount())
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	title := "matview"
	if p := m.session.Path(); p != "" {
		title += " · " + p
	}
	if cur := m.session.Current(); cur != "" {
		title += " · " + cur
	}
	status := m.styles.status.Render(m.status)
	if m.isError {
		status = m.styles.errorText.Render(m.status)
	}
	b.WriteString(m.styles.topBar.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.title.Render(title), "  ", status)))
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	detailTitle := "Details"
	if m.expander.State() == explorer.DetailLoading {
		detailTitle += " (loading)"
	}
	b.WriteString(m.styles.panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.panelTitle.Render(detailTitle), m.detail.View())))
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.filter.View())
	} else if t := m.session.Table(); t != nil && t.Query() != "" {
		b.WriteString(m.styles.hint.Render("filter: " + t.Query()))
	}
	b.WriteString("\n")

	var help []string
	for _, k := range m.keys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(m.styles.hint.Render(strings.Join(help, " · ")))
	return b.String()
}

// Run opens path and runs the terminal view until the user quits.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) error {
	session := explorer.NewSession(cfg.Limits(), logger)
	defer session.Close()

	openErr := session.Open(path)
	if kind, _ := explorer.KindOf(openErr); openErr != nil && kind != explorer.DisplayError {
		return openErr
	}

	m := New(session, logger)
	defer m.Close()
	if openErr != nil {
		m.setError(openErr)
	} else {
		m.setStatus(m.rowStatus())
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
