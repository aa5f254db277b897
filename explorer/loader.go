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
	"strings"

	"matview/matfile"
)

// Contents holds the user variables of one file in file order.
type Contents struct {
	Description string
	names       []string
	vars        map[string]*matfile.Array
}

// Load reads path and returns its user variables. Failures are returned as
// *Error with Kind ReadError or EmptyError.
func Load(path string) (*Contents, error) {
	f, err := matfile.Open(path)
	if err != nil {
		return nil, &Error{Kind: ReadError, Path: path, Err: err}
	}
	c := NewContents(f)
	if c.Len() == 0 {
		return nil, &Error{Kind: EmptyError, Path: path, Err: ErrEmptyFile}
	}
	return c, nil
}

// NewContents keeps the user variables of f. Unnamed elements and names
// starting with "__" are file bookkeeping and are skipped.
func NewContents(f *matfile.File) *Contents {
	c := &Contents{
		Description: f.Description,
		vars:        make(map[string]*matfile.Array, len(f.Variables)),
	}
	for _, v := range f.Variables {
		if v.Name == "" || strings.HasPrefix(v.Name, "__") {
			continue
		}
		if _, dup := c.vars[v.Name]; !dup {
			c.names = append(c.names, v.Name)
		}
		c.vars[v.Name] = v
	}
	return c
}

// Len returns the number of variables.
func (c *Contents) Len() int { return len(c.names) }

// Names returns the variable names in file order.
func (c *Contents) Names() []string {
	return append([]string(nil), c.names...)
}

// Lookup resolves a variable name or a dotted path into fields of 1x1
// structs, such as "s.inner.x".
func (c *Contents) Lookup(path string) (*matfile.Array, bool) {
	parts := strings.Split(path, ".")
	a, ok := c.vars[parts[0]]
	if !ok {
		return nil, false
	}
	for _, field := range parts[1:] {
		if !Expandable(a) {
			return nil, false
		}
		a = a.Field(0, field)
		if a == nil {
			return nil, false
		}
	}
	return a, true
}

// Children returns the dotted paths of the fields below path, or nil when
// the value there does not expand.
func (c *Contents) Children(path string) []string {
	if path == "" {
		return c.Names()
	}
	a, ok := c.Lookup(path)
	if !ok || !Expandable(a) {
		return nil
	}
	out := make([]string, len(a.Fields))
	for i, f := range a.Fields {
		out[i] = path + "." + f
	}
	return out
}

// Expandable reports whether a is a 1x1 struct or object whose fields can
// be browsed individually.
func Expandable(a *matfile.Array) bool {
	return a != nil && a.Class.IsRecord() && a.Numel() == 1 && len(a.Elements) == 1
}
