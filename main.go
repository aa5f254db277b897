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

// Command matview browses the variables of MATLAB .mat files.
package main

import (
	"os"

	"matview/cli"
	"matview/tui"
	"matview/windows"
)

func main() {
	if err := cli.Execute(cli.Frontends{GUI: windows.Run, TUI: tui.Run}); err != nil {
		os.Exit(1)
	}
}
