package render

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ghlife/ghlife/model"
)

// Defaults applied by NewGifRenderer when an option is left at zero.
const (
	DefaultCellSize     = 10
	DefaultFrameDelayMS = 500
)

// Options configures a GifRenderer. Zero values select the defaults.
type Options struct {
	// CellSize is the square pixel size of one cell.
	CellSize int
	// CellGap is the pixel gap between adjacent cells.
	CellGap int
	// FrameDelayMS is the delay between animation frames.
	FrameDelayMS int
	// Background fills the gaps between cells. Defaults to the palette's
	// dead-cell color.
	Background *Color
	// Palette defaults to GitHubPalette.
	Palette *Palette
}

// GifRenderer draws grid sequences as looping animated GIFs.
type GifRenderer struct {
	cellSize     int
	cellGap      int
	frameDelayMS int
	background   Color
	palette      Palette
}

// NewGifRenderer validates the options and returns a renderer.
func NewGifRenderer(opts Options) (*GifRenderer, error) {
	if opts.CellSize == 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.FrameDelayMS == 0 {
		opts.FrameDelayMS = DefaultFrameDelayMS
	}
	if opts.CellSize < 1 {
		return nil, errors.Errorf("[NewGifRenderer] cell size must be int >= 1, got %d", opts.CellSize)
	}
	if opts.FrameDelayMS < 1 {
		return nil, errors.Errorf("[NewGifRenderer] frame delay must be int >= 1, got %d", opts.FrameDelayMS)
	}
	if opts.CellGap < 0 {
		return nil, errors.Errorf("[NewGifRenderer] cell gap must be int >= 0, got %d", opts.CellGap)
	}
	palette := GitHubPalette()
	if opts.Palette != nil {
		palette = *opts.Palette
	}
	background := palette.Dead
	if opts.Background != nil {
		background = *opts.Background
	}
	return &GifRenderer{
		cellSize:     opts.CellSize,
		cellGap:      opts.CellGap,
		frameDelayMS: opts.FrameDelayMS,
		background:   background,
		palette:      palette,
	}, nil
}

// CellSize returns the configured cell size in pixels.
func (r *GifRenderer) CellSize() int { return r.cellSize }

// FrameDelayMS returns the configured inter-frame delay.
func (r *GifRenderer) FrameDelayMS() int { return r.frameDelayMS }

// Bounds returns the pixel dimensions of one rendered frame.
func (r *GifRenderer) Bounds() (width, height int) {
	width = model.Cols*r.cellSize + r.cellGap*(model.Cols-1)
	height = model.Rows*r.cellSize + r.cellGap*(model.Rows-1)
	return
}

// colorTable returns the frame palette: background first, then the five
// cell-state colors in ordinal order, so a state's palette index is its
// level plus one.
func (r *GifRenderer) colorTable() color.Palette {
	return color.Palette{
		r.background,
		r.palette.Dead,
		r.palette.Green1,
		r.palette.Green2,
		r.palette.Green3,
		r.palette.Green4,
	}
}

// Frame rasterizes a single grid into a paletted image.
func (r *GifRenderer) Frame(grid *model.Grid) *image.Paletted {
	width, height := r.Bounds()
	img := image.NewPaletted(image.Rect(0, 0, width, height), r.colorTable())
	// Palette index 0 is the background, which is the zero value of every
	// pixel, so only the cells themselves need drawing.
	cells := grid.Cells()
	for row := 0; row < model.Rows; row++ {
		for col := 0; col < model.Cols; col++ {
			idx := uint8(cells[row][col].Level() + 1)
			x0 := col * (r.cellSize + r.cellGap)
			y0 := row * (r.cellSize + r.cellGap)
			for y := y0; y < y0+r.cellSize; y++ {
				for x := x0; x < x0+r.cellSize; x++ {
					img.SetColorIndex(x, y, idx)
				}
			}
		}
	}
	return img
}

// EncodeGIF writes the grid sequence as a looping GIF. Frames are
// rasterized concurrently; encoding preserves sequence order.
func (r *GifRenderer) EncodeGIF(w io.Writer, grids []*model.Grid) error {
	if len(grids) == 0 {
		return errors.New("[EncodeGIF] grid sequence must contain at least 1 grid")
	}
	for i, grid := range grids {
		if grid == nil {
			return errors.Errorf("[EncodeGIF] frame %d must be a Grid, got nil", i)
		}
	}

	frames := make([]*image.Paletted, len(grids))
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, grid := range grids {
		i, grid := i, grid
		eg.Go(func() error {
			frames[i] = r.Frame(grid)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.Wrap(err, "[EncodeGIF] frame rendering failed")
	}

	delay := r.frameDelayMS / 10 // GIF delays are in 100ths of a second
	anim := &gif.GIF{
		Image:     frames,
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}
	return errors.Wrap(gif.EncodeAll(w, anim), "[EncodeGIF] failed to encode gif")
}

// WriteGIF renders the sequence to a GIF file at path.
func (r *GifRenderer) WriteGIF(path string, grids []*model.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[WriteGIF] failed to create %+v", path)
	}
	defer f.Close()
	return r.EncodeGIF(f, grids)
}

// WritePNG renders a single grid to a static PNG file at path.
func (r *GifRenderer) WritePNG(path string, grid *model.Grid) error {
	if grid == nil {
		return errors.New("[WritePNG] grid must not be nil")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[WritePNG] failed to create %+v", path)
	}
	defer f.Close()
	return errors.Wrapf(png.Encode(f, r.Frame(grid)), "[WritePNG] failed to encode %+v", path)
}
