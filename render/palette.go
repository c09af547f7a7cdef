// Package render rasterizes grid sequences into looping GIFs and static
// PNGs using the GitHub contribution-graph palette.
package render

import (
	"image/color"

	"github.com/pkg/errors"

	"github.com/ghlife/ghlife/model"
)

// Color is an opaque RGB triple.
type Color struct {
	R, G, B uint8
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// Palette assigns one color to each of the five cell states.
type Palette struct {
	Dead   Color
	Green1 Color
	Green2 Color
	Green3 Color
	Green4 Color
}

// GitHubPalette returns the contribution-graph colors
// (#eff2f5, #aceebb, #4ac26b, #2ea44e, #126329).
func GitHubPalette() Palette {
	return Palette{
		Dead:   Color{R: 239, G: 242, B: 245},
		Green1: Color{R: 172, G: 238, B: 187},
		Green2: Color{R: 74, G: 194, B: 107},
		Green3: Color{R: 46, G: 164, B: 78},
		Green4: Color{R: 18, G: 99, B: 41},
	}
}

// ColorFor returns the palette entry for a cell state.
func (p Palette) ColorFor(state model.CellState) (Color, error) {
	switch state {
	case model.Dead:
		return p.Dead, nil
	case model.Green1:
		return p.Green1, nil
	case model.Green2:
		return p.Green2, nil
	case model.Green3:
		return p.Green3, nil
	case model.Green4:
		return p.Green4, nil
	default:
		return Color{}, errors.Wrapf(model.ErrCellState, "[ColorFor] got %d", state)
	}
}
