// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"matview/explorer"
)

const (
	minColumnWidth  = 60
	maxColumnWidth  = 320
	charWidth       = 8
	sampleRowsWidth = 50
)

// DataBrowser shows the current variable as a grid of cell summaries with a
// detail pane for the selected row.
type DataBrowser struct {
	w         fyne.Window
	session   *explorer.Session
	expander  *explorer.Expander
	logger    *slog.Logger
	clipboard fyne.Clipboard

	table        *widget.Table
	detail       *widget.Label
	detailScroll *container.Scroll
	filter       *widget.Entry
	content      fyne.CanvasObject

	statusCallback func(string)
}

// NewDataBrowser builds the grid, filter entry and detail pane. dispatch
// must run functions on the Fyne goroutine. Messages for the status bar
// go to statusCallback.
func NewDataBrowser(w fyne.Window, session *explorer.Session, dispatch explorer.Dispatcher,
	clipboard fyne.Clipboard, logger *slog.Logger, statusCallback func(string)) *DataBrowser {
	if logger == nil {
		logger = slog.Default()
	}
	t := &DataBrowser{
		w:              w,
		session:        session,
		expander:       explorer.NewExpander(dispatch, session.Limits(), logger),
		logger:         logger,
		clipboard:      clipboard,
		statusCallback: statusCallback,
	}

	t.table = widget.NewTableWithHeaders(t.tableSize, t.createCell, t.updateCell)
	t.table.ShowHeaderColumn = true
	t.table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("header")
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.Truncation = fyne.TextTruncateEllipsis
		return label
	}
	t.table.UpdateHeader = t.updateHeader
	t.table.OnSelected = func(id widget.TableCellID) {
		t.SelectRow(id.Row)
	}

	t.detail = widget.NewLabel("")
	t.detail.TextStyle = fyne.TextStyle{Monospace: true}
	t.detail.Wrapping = fyne.TextWrapBreak
	t.detail.Selectable = true
	t.detailScroll = container.NewScroll(t.detail)

	t.filter = widget.NewEntry()
	t.filter.SetPlaceHolder("Filter rows, e.g. id > 2 AND name ~ a")
	t.filter.OnSubmitted = t.ApplyFilter
	clearButton := widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		t.filter.SetText("")
		t.ApplyFilter("")
	})
	filterBar := container.NewBorder(nil, nil, widget.NewIcon(theme.SearchIcon()), clearButton, t.filter)

	split := container.NewVSplit(
		container.NewBorder(filterBar, nil, nil, nil, t.table),
		widget.NewCard("", "Details", t.detailScroll),
	)
	split.Offset = 0.65
	t.content = split
	return t
}

// Content returns the root object of the browser.
func (t *DataBrowser) Content() fyne.CanvasObject { return t.content }

// Expander returns the detail expander driving the detail pane.
func (t *DataBrowser) Expander() *explorer.Expander { return t.expander }

// DetailText returns the text shown in the detail pane.
func (t *DataBrowser) DetailText() string { return t.detail.Text }

func (t *DataBrowser) tableSize() (rows int, cols int) {
	tbl := t.session.Table()
	if tbl == nil {
		return 0, 0
	}
	return tbl.RowCount(), len(tbl.Columns())
}

func (t *DataBrowser) createCell() fyne.CanvasObject {
	return newTappableCell(t.onCellTapped, t.showCellContextMenu)
}

func (t *DataBrowser) updateCell(id widget.TableCellID, obj fyne.CanvasObject) {
	cell := obj.(*TappableCell)
	cell.SetCellID(id)
	tbl := t.session.Table()
	if tbl == nil {
		cell.SetText("")
		return
	}
	cell.SetText(tbl.Summary(id.Row, id.Col))
}

func (t *DataBrowser) updateHeader(id widget.TableCellID, obj fyne.CanvasObject) {
	label := obj.(*widget.Label)
	tbl := t.session.Table()
	switch {
	case tbl == nil:
		label.SetText("")
	case id.Row < 0 && id.Col >= 0 && id.Col < len(tbl.Columns()):
		label.SetText(tbl.Columns()[id.Col])
	case id.Col < 0 && id.Row >= 0:
		label.SetText(fmt.Sprintf("%d", id.Row))
	default:
		label.SetText("")
	}
}

func (t *DataBrowser) onCellTapped(id widget.TableCellID) {
	t.table.Select(id)
}

// showCellContextMenu selects the row under the pointer and offers to copy
// its details.
func (t *DataBrowser) showCellContextMenu(id widget.TableCellID, e *fyne.PointEvent) {
	t.table.Select(id)
	menu := fyne.NewMenu("",
		fyne.NewMenuItem("Copy details", t.CopyDetails),
	)
	widget.ShowPopUpMenuAtPosition(menu, t.w.Canvas(), e.AbsolutePosition)
}

// Refresh rebuilds the grid after the session switched tables.
func (t *DataBrowser) Refresh() {
	t.expander.Reset()
	t.detail.SetText("")

	tbl := t.session.Table()
	query := ""
	if tbl != nil {
		query = tbl.Query()
	}
	t.filter.SetText(query)
	t.resizeColumns()
	t.table.UnselectAll()
	t.table.Refresh()
	t.table.ScrollToTop()
	t.setStatus(t.RowStatus())
}

// resizeColumns sizes each column from its header and the first rows.
func (t *DataBrowser) resizeColumns() {
	tbl := t.session.Table()
	if tbl == nil {
		return
	}
	sample := min(tbl.RowCount(), sampleRowsWidth)
	for c, name := range tbl.Columns() {
		chars := len([]rune(name))
		for r := range sample {
			chars = max(chars, len([]rune(tbl.Summary(r, c))))
		}
		width := float32(chars*charWidth) + 2*theme.Padding()
		t.table.SetColumnWidth(c, min(max(width, minColumnWidth), maxColumnWidth))
	}
}

// SelectRow shows the details of row, rendering them in the background.
func (t *DataBrowser) SelectRow(row int) {
	values, err := t.session.SelectRow(row)
	if err != nil {
		t.logger.Debug("row selection failed", "row", row, "error", err)
		t.setStatus(err.Error())
		return
	}
	t.expander.Request(t.session.Table().Columns(), values, func(text string) {
		t.detail.SetText(text)
		t.detailScroll.ScrollToTop()
	})
}

// ApplyFilter narrows the grid to the rows matching query. On a parse error
// the previous filter stays in effect.
func (t *DataBrowser) ApplyFilter(query string) {
	if t.session.Table() == nil {
		return
	}
	if err := t.session.Filter(query); err != nil {
		t.setStatus(err.Error())
		return
	}
	t.Refresh()
}

// CopyDetails writes the current detail text to the clipboard.
func (t *DataBrowser) CopyDetails() {
	text := t.expander.Text()
	if text == "" || t.expander.State() == explorer.DetailLoading {
		t.setStatus("Nothing to copy")
		return
	}
	t.clipboard.SetContent(text)
	t.setStatus("Details copied to clipboard")
}

// RowStatus describes the rows currently in the grid.
func (t *DataBrowser) RowStatus() string {
	tbl := t.session.Table()
	if tbl == nil {
		return "No variable selected"
	}
	if tbl.Truncated() {
		return fmt.Sprintf("%s: showing %d of %d rows", tbl.Variable, tbl.RowCount(), tbl.Matched())
	}
	if tbl.Query() != "" {
		return fmt.Sprintf("%s: %d of %d rows match", tbl.Variable, tbl.Matched(), tbl.TotalRows())
	}
	return fmt.Sprintf("%s: %d rows", tbl.Variable, tbl.RowCount())
}

func (t *DataBrowser) setStatus(message string) {
	if t.statusCallback != nil {
		t.statusCallback(message)
	}
}

// Close invalidates any running detail request.
func (t *DataBrowser) Close() {
	t.expander.Reset()
}
