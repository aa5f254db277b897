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

// LoadingText is shown while a detail render is running.
const LoadingText = "Loading details..."

// Dispatcher runs fn on the goroutine that owns the UI. Calls must be
// executed one at a time in the order they were made.
type Dispatcher func(fn func())

// DetailState is the state of the detail pane.
type DetailState int

const (
	DetailIdle DetailState = iota
	DetailLoading
)

func (s DetailState) String() string {
	if s == DetailLoading {
		return "loading"
	}
	return "idle"
}

// Expander renders row details off the UI goroutine.
//
// Request and every method are called on the UI goroutine only. Each
// request starts a worker and bumps the generation; a finished worker
// posts its text through the Dispatcher and the text is applied only if no
// newer request was made in the meantime.
type Expander struct {
	dispatch Dispatcher
	logger   *slog.Logger
	render   func(columns []string, row []datatable.Value) string

	generation uint64
	state      DetailState
	text       string
}

// NewExpander returns an idle expander.
func NewExpander(dispatch Dispatcher, lim Limits, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{
		dispatch: dispatch,
		logger:   logger,
		render: func(columns []string, row []datatable.Value) string {
			return DetailText(columns, row, lim)
		},
	}
}

// Request shows LoadingText and starts rendering row. show receives the
// loading text immediately and the rendered text later, both on the UI
// goroutine. It returns the generation of the request.
func (e *Expander) Request(columns []string, row []datatable.Value, show func(string)) uint64 {
	e.generation++
	gen := e.generation
	e.state = DetailLoading
	e.text = LoadingText
	show(LoadingText)

	cols := append([]string(nil), columns...)
	snapshot := append([]datatable.Value(nil), row...)
	render := e.render

	go func() {
		text := safeRender(render, cols, snapshot)
		e.dispatch(func() {
			if gen != e.generation {
				e.logger.Debug("discarding stale detail", "generation", gen, "current", e.generation)
				return
			}
			e.state = DetailIdle
			e.text = text
			show(text)
		})
	}()
	return gen
}

// Reset invalidates any running request and clears the text.
func (e *Expander) Reset() {
	e.generation++
	e.state = DetailIdle
	e.text = ""
}

// State returns the current state.
func (e *Expander) State() DetailState { return e.state }

// Text returns the text last shown.
func (e *Expander) Text() string { return e.text }

// Generation returns the generation of the latest request.
func (e *Expander) Generation() uint64 { return e.generation }

func safeRender(render func([]string, []datatable.Value) string, cols []string, row []datatable.Value) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = (&Error{Kind: RenderError, Err: fmt.Errorf("%v", r)}).Error()
		}
	}()
	return render(cols, row)
}
