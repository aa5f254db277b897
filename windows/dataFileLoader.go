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
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"matview/explorer"
)

// IsMATFile reports whether name has the .mat extension.
func IsMATFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".mat")
}

// errorPresentation picks the dialog for err. Read failures are blocking
// error dialogs, everything else is an informational dialog with a title
// naming the kind of problem.
func errorPresentation(err error) (title, message string, blocking bool) {
	var e *explorer.Error
	if !errors.As(err, &e) {
		return "Error", err.Error(), true
	}
	return e.Title(), e.Error(), e.Kind == explorer.ReadError
}

func (t *MainWindow) showError(err error) {
	title, message, blocking := errorPresentation(err)
	if blocking {
		dialog.ShowError(err, t.w)
		return
	}
	dialog.ShowInformation(title, message, t.w)
}

// ShowOpenDialog lets the user choose a .mat file and opens it.
func (t *MainWindow) ShowOpenDialog() {
	fd := NewMATFileDialog(t.w, t.lastDir, t.OpenFile)
	fd.Show()
}

// OpenFile loads path into the session and shows its first variable. A
// failed load leaves the current file on screen.
func (t *MainWindow) OpenFile(path string) {
	t.SetStatus("Loading " + filepath.Base(path) + "...")
	err := t.session.Open(path)
	if kind, ok := explorer.KindOf(err); err != nil && (!ok || kind != explorer.DisplayError) {
		t.logger.Warn("open failed", "path", path, "error", err)
		t.SetStatus(fmt.Sprintf("Could not open %s", filepath.Base(path)))
		t.showError(err)
		return
	}

	t.lastDir = filepath.Dir(path)
	t.w.SetTitle("MATLAB File Viewer - " + filepath.Base(path))
	t.tree.SetContents(t.session.Contents(), t.session.Current())
	t.dataBrowser.Refresh()
	t.logger.Info("file loaded", "path", path, "variables", t.session.Contents().Len())

	if err != nil {
		// The file is loaded but its first variable cannot be tabulated.
		t.showError(err)
		return
	}
	t.SetStatus(fmt.Sprintf("Loaded %s (%d variables) | %s",
		filepath.Base(path), t.session.Contents().Len(), t.dataBrowser.RowStatus()))
}

// handleDrop opens the first .mat file dropped onto the window.
func (t *MainWindow) handleDrop(_ fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		if u.Scheme() == "file" && IsMATFile(u.Path()) {
			t.OpenFile(u.Path())
			return
		}
	}
	t.SetStatus("Only .mat files can be opened")
}
