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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Palette used by ViewerTheme. Index 0 is the light variant.
var (
	viewerBackground = [2]color.NRGBA{{R: 0xf7, G: 0xf7, B: 0xf4, A: 0xff}, {R: 0x1c, G: 0x1f, B: 0x22, A: 0xff}}
	viewerPrimary    = [2]color.NRGBA{{R: 0x00, G: 0x76, B: 0xa8, A: 0xff}, {R: 0x3a, G: 0xa8, B: 0xd8, A: 0xff}}
	viewerHover      = [2]color.NRGBA{{R: 0x4f, G: 0xa3, B: 0xc7, A: 0xff}, {R: 0x5c, G: 0xb8, B: 0xe0, A: 0xff}}
	viewerForeground = [2]color.NRGBA{{R: 0x22, G: 0x22, B: 0x22, A: 0xff}, {R: 0xe4, G: 0xe4, B: 0xe4, A: 0xff}}
	viewerInput      = [2]color.NRGBA{{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, {R: 0x2a, G: 0x2e, B: 0x32, A: 0xff}}
	viewerSelection  = [2]color.NRGBA{{R: 0xc4, G: 0xe3, B: 0xf0, A: 0xff}, {R: 0x17, G: 0x5c, B: 0x7a, A: 0xff}}
	viewerHeader     = [2]color.NRGBA{{R: 0xe6, G: 0xe9, B: 0xea, A: 0xff}, {R: 0x26, G: 0x2b, B: 0x30, A: 0xff}}
)

// ViewerTheme is the application theme. Grid rows are tighter than the
// default so that more of a table fits on screen.
type ViewerTheme struct{}

var _ fyne.Theme = (*ViewerTheme)(nil)

func variantIndex(variant fyne.ThemeVariant) int {
	if variant == theme.VariantLight {
		return 0
	}
	return 1
}

func (ViewerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	v := variantIndex(variant)
	switch name {
	case theme.ColorNameBackground:
		return viewerBackground[v]
	case theme.ColorNamePrimary, theme.ColorNameButton:
		return viewerPrimary[v]
	case theme.ColorNameHover:
		return viewerHover[v]
	case theme.ColorNameForeground:
		return viewerForeground[v]
	case theme.ColorNameInputBackground:
		return viewerInput[v]
	case theme.ColorNameSelection:
		return viewerSelection[v]
	case theme.ColorNameHeaderBackground:
		return viewerHeader[v]
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (ViewerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (ViewerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (ViewerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
