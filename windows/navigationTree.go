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
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"matview/explorer"
	"matview/matfile"
)

// VariableTree lists the variables of the loaded file. Node IDs are dotted
// variable paths; 1x1 structs are branches whose children are their fields.
type VariableTree struct {
	contents *explorer.Contents
	tree     *widget.Tree
	onSelect func(path string)

	// syncing suppresses onSelect while the tree is updated from the session.
	syncing bool
}

// NewVariableTree creates an empty tree. onSelect runs when the user picks a
// node.
func NewVariableTree(onSelect func(path string)) *VariableTree {
	vt := &VariableTree{onSelect: onSelect}
	vt.tree = widget.NewTree(
		vt.Children,
		vt.IsBranch,
		func(branch bool) fyne.CanvasObject {
			label := widget.NewLabel("template")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, widget.NewIcon(theme.DocumentIcon()), nil, label)
		},
		vt.UpdateNodeDisplay,
	)
	vt.tree.OnSelected = func(uid widget.TreeNodeID) {
		if vt.syncing || vt.onSelect == nil {
			return
		}
		vt.onSelect(uid)
	}
	return vt
}

// Widget returns the tree widget.
func (vt *VariableTree) Widget() *widget.Tree { return vt.tree }

// SetContents replaces the listed variables and highlights current.
func (vt *VariableTree) SetContents(c *explorer.Contents, current string) {
	vt.contents = c
	vt.syncing = true
	defer func() { vt.syncing = false }()

	vt.tree.UnselectAll()
	vt.tree.CloseAllBranches()
	vt.tree.Refresh()
	if current != "" {
		vt.openParents(current)
		vt.tree.Select(current)
	}
}

// Highlight selects path without notifying the owner.
func (vt *VariableTree) Highlight(path string) {
	vt.syncing = true
	defer func() { vt.syncing = false }()
	if path == "" {
		vt.tree.UnselectAll()
		return
	}
	vt.openParents(path)
	vt.tree.Select(path)
}

func (vt *VariableTree) openParents(path string) {
	for i := range len(path) {
		if path[i] == '.' {
			vt.tree.OpenBranch(path[:i])
		}
	}
}

// Children returns the child node IDs of uid; the root lists the variables.
func (vt *VariableTree) Children(uid widget.TreeNodeID) []widget.TreeNodeID {
	if vt.contents == nil {
		return nil
	}
	return vt.contents.Children(uid)
}

// IsBranch reports whether uid can be expanded.
func (vt *VariableTree) IsBranch(uid widget.TreeNodeID) bool {
	if uid == "" {
		return true
	}
	a := vt.lookup(uid)
	return a != nil && explorer.Expandable(a)
}

func (vt *VariableTree) lookup(uid widget.TreeNodeID) *matfile.Array {
	if vt.contents == nil {
		return nil
	}
	a, ok := vt.contents.Lookup(uid)
	if !ok {
		return nil
	}
	return a
}

// NodeLabel is the text shown for uid: its last path element and a shape
// summary such as "<3x1 double>".
func (vt *VariableTree) NodeLabel(uid widget.TreeNodeID) string {
	name := uid
	if i := strings.LastIndexByte(uid, '.'); i >= 0 {
		name = uid[i+1:]
	}
	a := vt.lookup(uid)
	if a == nil {
		return name
	}
	return name + " " + explorer.ShapeSummary(a)
}

// UpdateNodeDisplay fills a node template created by the tree.
func (vt *VariableTree) UpdateNodeDisplay(uid widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
	box, ok := obj.(*fyne.Container)
	if !ok || len(box.Objects) < 2 {
		return
	}
	for _, o := range box.Objects {
		switch w := o.(type) {
		case *widget.Label:
			w.SetText(vt.NodeLabel(uid))
		case *widget.Icon:
			if branch {
				w.SetResource(theme.FolderIcon())
			} else {
				w.SetResource(theme.DocumentIcon())
			}
		}
	}
}
