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

package explorer

import (
	"fmt"
	"log/slog"

	"matview/datatable"
)

// Session is the state of one viewer window: the loaded file, the selected
// variable and its table. It is owned by the UI goroutine and is not safe
// for concurrent use.
type Session struct {
	limits Limits
	logger *slog.Logger

	path     string
	contents *Contents
	current  string
	table    *Table
	row      int
}

// NewSession returns a session with no file loaded.
func NewSession(lim Limits, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{limits: lim, logger: logger, row: -1}
}

// Open loads path and selects its first variable. When the file cannot be
// read or holds no variables the session is left as it was. When the file
// loads but its first variable cannot be tabulated, the file stays loaded
// with nothing selected and the DisplayError is returned.
func (s *Session) Open(path string) error {
	s.logger.Info("opening file", "path", path)
	contents, err := Load(path)
	if err != nil {
		s.logger.Warn("open failed", "path", path, "error", err)
		return err
	}

	s.path = path
	s.contents = contents
	s.current = ""
	s.row = -1
	s.replaceTable(nil)
	s.logger.Info("file loaded", "path", path, "variables", contents.Len())

	return s.Select(contents.names[0])
}

// Select tabulates the variable at name, which may be a dotted path into
// 1x1 structs. On error the current table is kept.
func (s *Session) Select(name string) error {
	if s.contents == nil {
		return &Error{Kind: DisplayError, Path: s.path, Variable: name, Err: ErrUnknownVariable}
	}
	a, ok := s.contents.Lookup(name)
	if !ok {
		return &Error{Kind: DisplayError, Path: s.path, Variable: name, Err: ErrUnknownVariable}
	}
	src, err := Flatten(a, s.limits)
	if err != nil {
		s.logger.Warn("cannot tabulate variable", "variable", name, "error", err)
		return &Error{Kind: DisplayError, Path: s.path, Variable: name, Err: err}
	}

	s.current = name
	s.row = -1
	s.replaceTable(NewTable(name, src, s.limits.RowLimit))
	s.logger.Debug("variable selected", "variable", name,
		"rows", s.table.TotalRows(), "columns", len(s.table.Columns()))
	return nil
}

func (s *Session) replaceTable(t *Table) {
	if s.table != nil {
		s.table.Release()
	}
	s.table = t
}

// SelectRow marks a shown row as selected and returns its values.
func (s *Session) SelectRow(row int) ([]datatable.Value, error) {
	if s.table == nil {
		return nil, datatable.ErrNoDataSource
	}
	values, err := s.table.Row(row)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row, err)
	}
	s.row = row
	return values, nil
}

// Filter applies a row filter to the current table. The selected row is
// cleared because row indices change.
func (s *Session) Filter(query string) error {
	if s.table == nil {
		return datatable.ErrNoDataSource
	}
	if err := s.table.SetFilter(query); err != nil {
		return err
	}
	s.row = -1
	return nil
}

// Close releases the current table.
func (s *Session) Close() {
	s.replaceTable(nil)
}

// Path returns the loaded file, or "" when none is loaded.
func (s *Session) Path() string { return s.path }

// Contents returns the loaded variables, or nil.
func (s *Session) Contents() *Contents { return s.contents }

// Variables returns the top-level variable names of the loaded file.
func (s *Session) Variables() []string {
	if s.contents == nil {
		return nil
	}
	return s.contents.Names()
}

// Current returns the selected variable path.
func (s *Session) Current() string { return s.current }

// Table returns the table of the selected variable, or nil.
func (s *Session) Table() *Table { return s.table }

// SelectedRow returns the selected row or -1.
func (s *Session) SelectedRow() int { return s.row }

// Limits returns the limits the session was created with.
func (s *Session) Limits() Limits { return s.limits }
