package windows

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// dirEntry is one row of the file dialog.
type dirEntry struct {
	Name  string
	IsDir bool
}

// listDirectory returns the visible subdirectories of dir followed by its
// .mat files, each group sorted by name.
func listDirectory(dir string) ([]dirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []dirEntry
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, dirEntry{Name: name, IsDir: true})
		} else if IsMATFile(name) {
			files = append(files, dirEntry{Name: name})
		}
	}
	byName := func(list []dirEntry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)
	return append(dirs, files...), nil
}

// MATFileDialog lets the user pick a .mat file from the local file system.
type MATFileDialog struct {
	dialog      dialog.Dialog
	window      fyne.Window
	callback    func(path string)
	fileList    *widget.List
	files       []dirEntry
	homeDir     string
	currentPath string
	pathLabel   *widget.Label
}

// NewMATFileDialog returns a dialog starting in startDir, or the home
// directory when startDir is empty. callback runs with the chosen path.
func NewMATFileDialog(w fyne.Window, startDir string, callback func(path string)) *MATFileDialog {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	if startDir == "" {
		startDir = homeDir
	}
	return &MATFileDialog{
		window:      w,
		callback:    callback,
		homeDir:     homeDir,
		currentPath: startDir,
	}
}

func (fd *MATFileDialog) Show() {
	fd.pathLabel = widget.NewLabel(fd.currentPath)
	fd.pathLabel.Truncation = fyne.TextTruncateEllipsis
	fd.pathLabel.TextStyle = fyne.TextStyle{Bold: true}

	fd.fileList = widget.NewList(
		func() int {
			return len(fd.files)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.FileIcon()), widget.NewLabel("template"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			icon := row.Objects[0].(*widget.Icon)
			label := row.Objects[1].(*widget.Label)

			entry := fd.files[id]
			label.SetText(entry.Name)
			if entry.IsDir {
				icon.SetResource(theme.FolderIcon())
			} else {
				icon.SetResource(theme.FileIcon())
			}
		},
	)

	fd.fileList.OnSelected = func(id widget.ListItemID) {
		entry := fd.files[id]
		fullPath := filepath.Join(fd.currentPath, entry.Name)
		if entry.IsDir {
			fd.currentPath = fullPath
			fd.loadDirectory()
			fd.fileList.UnselectAll()
			return
		}
		fd.dialog.Hide()
		fd.callback(fullPath)
	}

	homeButton := widget.NewButtonWithIcon("Home", theme.HomeIcon(), func() {
		fd.currentPath = fd.homeDir
		fd.loadDirectory()
	})
	upButton := widget.NewButtonWithIcon("Up", theme.NavigateBackIcon(), func() {
		parent := filepath.Dir(fd.currentPath)
		if parent != fd.currentPath {
			fd.currentPath = parent
			fd.loadDirectory()
		}
	})
	refreshButton := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		fd.loadDirectory()
	})

	filterInfo := widget.NewLabel("Showing: directories and .mat files")
	filterInfo.TextStyle = fyne.TextStyle{Italic: true}

	navToolbar := container.NewBorder(
		nil, nil,
		container.NewHBox(homeButton, upButton, refreshButton),
		nil,
		fd.pathLabel,
	)

	content := container.NewBorder(
		container.NewVBox(navToolbar, widget.NewSeparator(), filterInfo),
		nil, nil, nil,
		fd.fileList,
	)

	fd.dialog = dialog.NewCustom("Open MATLAB File", "Cancel", content, fd.window)
	fd.dialog.Resize(fyne.NewSize(700, 500))
	fd.loadDirectory()
	fd.dialog.Show()
}

func (fd *MATFileDialog) loadDirectory() {
	files, err := listDirectory(fd.currentPath)
	if err != nil {
		dialog.ShowError(err, fd.window)
		return
	}
	fd.files = files
	fd.pathLabel.SetText(fd.currentPath)
	fd.fileList.Refresh()
}
