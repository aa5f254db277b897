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
	"unicode/utf8"

	"matview/matfile"
)

// Ellipsis marks text cut short in the table.
const Ellipsis = "…"

// Summarize returns the short text shown for c in the table. It never
// looks at array elements, only at shape and class.
func Summarize(c Cell, textLimit int) string {
	if c.IsEmpty() {
		return ""
	}
	if c.Kind == KindScalar {
		return Truncate(c.Scalar.String(), textLimit)
	}
	return ShapeSummary(c.Array)
}

// ShapeSummary describes an array as "<RxC class>".
func ShapeSummary(a *matfile.Array) string {
	return "<" + a.Shape() + " " + a.TypeName() + ">"
}

// Truncate shortens s to limit characters followed by an ellipsis.
// A limit of zero or less leaves s untouched.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + Ellipsis
		}
		n++
	}
	return s
}
