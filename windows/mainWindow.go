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

// Package windows is the Fyne desktop front end: the main window, the
// variable tree, the grid with its detail pane and the file dialog.
package windows

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"matview/config"
	"matview/explorer"
)

// AppID identifies the application to Fyne preferences and storage.
const AppID = "io.github.matview"

// TappableCell is a grid label that supports both regular click and right-click
type TappableCell struct {
	widget.Label
	onRightClick func(widget.TableCellID, *fyne.PointEvent)
	onTap        func(widget.TableCellID)
	cellID       widget.TableCellID
	bound        bool
}

func newTappableCell(onTap func(widget.TableCellID), onRightClick func(widget.TableCellID, *fyne.PointEvent)) *TappableCell {
	cell := &TappableCell{
		onTap:        onTap,
		onRightClick: onRightClick,
	}
	cell.Truncation = fyne.TextTruncateEllipsis
	cell.ExtendBaseWidget(cell)
	return cell
}

func (t *TappableCell) SetCellID(id widget.TableCellID) {
	t.cellID = id
	t.bound = true
}

// Tapped handles regular left-click
func (t *TappableCell) Tapped(e *fyne.PointEvent) {
	if t.onTap != nil && t.bound {
		t.onTap(t.cellID)
	}
}

// TappedSecondary handles right-click
func (t *TappableCell) TappedSecondary(e *fyne.PointEvent) {
	if t.onRightClick != nil && t.bound {
		t.onRightClick(t.cellID, e)
	}
}

type MainWindow struct {
	a                        fyne.App
	w                        fyne.Window
	top, left, right, bottom fyne.CanvasObject
	session                  *explorer.Session
	logger                   *slog.Logger
	tree                     *VariableTree
	dataBrowser              *DataBrowser
	statusBar                *widget.Label
	lastDir                  string
}

// NewMainWindow builds the window on a and returns it without showing it.
// dispatch runs detail results on the Fyne goroutine.
func NewMainWindow(a fyne.App, session *explorer.Session, dispatch explorer.Dispatcher, logger *slog.Logger) *MainWindow {
	if logger == nil {
		logger = slog.Default()
	}
	t := &MainWindow{a: a, session: session, logger: logger}
	t.a.Settings().SetTheme(&ViewerTheme{})
	t.w = t.a.NewWindow("MATLAB File Viewer")
	t.w.Resize(fyne.NewSize(1100, 720))

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}
	t.statusBar.Truncation = fyne.TextTruncateEllipsis
	t.bottom = container.NewStack(t.statusBar)

	t.dataBrowser = NewDataBrowser(t.w, session, dispatch, t.a.Clipboard(), logger, t.SetStatus)
	t.tree = NewVariableTree(t.SelectVariable)
	t.left = container.NewGridWrap(fyne.NewSize(260, 680), widget.NewCard("", "Variables", t.tree.Widget()))
	t.right = container.NewVBox()

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MenuIcon(), func() {
			if !t.left.Visible() {
				t.left.Show()
			} else {
				t.left.Hide()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.ShowOpenDialog),
		widget.NewToolbarAction(theme.ContentCopyIcon(), t.dataBrowser.CopyDetails),
		widget.NewToolbarSpacer(),
	)
	t.top = toolbar

	openShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	openItem := fyne.NewMenuItem("Open...", t.ShowOpenDialog)
	openItem.Shortcut = openShortcut
	t.w.Canvas().AddShortcut(openShortcut, func(fyne.Shortcut) { t.ShowOpenDialog() })
	quitItem := fyne.NewMenuItem("Quit", t.a.Quit)
	quitItem.IsQuit = true
	t.w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", openItem, fyne.NewMenuItemSeparator(), quitItem),
		fyne.NewMenu("Edit", fyne.NewMenuItem("Copy details", t.dataBrowser.CopyDetails)),
	))
	t.w.SetOnDropped(t.handleDrop)
	t.w.SetOnClosed(t.dataBrowser.Close)

	c := container.NewBorder(t.top, t.bottom, t.left, t.right, widget.NewCard("", "", t.dataBrowser.Content()))
	t.w.SetContent(c)
	return t
}

// Window returns the Fyne window.
func (t *MainWindow) Window() fyne.Window { return t.w }

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

// SelectVariable tabulates the variable at path. On failure the previous
// table stays on screen.
func (t *MainWindow) SelectVariable(path string) {
	if path == t.session.Current() {
		return
	}
	if err := t.session.Select(path); err != nil {
		t.logger.Warn("variable not displayable", "variable", path, "error", err)
		t.tree.Highlight(t.session.Current())
		t.showError(err)
		return
	}
	t.logger.Debug("variable selected", "variable", path)
	t.dataBrowser.Refresh()
}

// Run shows the desktop window and blocks until it is closed. path, when not
// empty, is opened at startup.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) error {
	a := app.NewWithID(AppID)
	session := explorer.NewSession(cfg.Limits(), logger)
	defer session.Close()

	dispatch := func(fn func()) { fyne.Do(fn) }
	t := NewMainWindow(a, session, dispatch, logger)

	stop := context.AfterFunc(ctx, func() {
		fyne.Do(a.Quit)
	})
	defer stop()

	if path != "" {
		t.OpenFile(path)
	} else {
		t.SetStatus("Open a .mat file to begin")
	}
	t.w.ShowAndRun()
	return nil
}
