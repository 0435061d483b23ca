package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
)

var (
	pieceFontOnce sync.Once
	pieceFont     *opentype.Font
	pieceFontErr  error
)

// loadPieceFont parses the embedded Go Bold font once.
func loadPieceFont() (*opentype.Font, error) {
	pieceFontOnce.Do(func() {
		pieceFont, pieceFontErr = opentype.Parse(gobold.TTF)
	})
	return pieceFont, pieceFontErr
}

// Image renders grid into an RGBA image. The squares are drawn as SVG and
// rasterized; pieces are drawn on top as letters.
func Image(grid [8][8]int8, opts Options) (*image.RGBA, error) {
	size := opts.squareSize()
	side := size * 8
	cells := layout(grid, opts)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(side, side, 0, 0, side, side)
	drawSquares(canvas, cells, size)
	canvas.End()

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(side), float64(side))

	rgba := image.NewRGBA(image.Rect(0, 0, side, side))
	scanner := rasterx.NewScannerGV(side, side, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(side, side, scanner)
	icon.Draw(raster, 1.0)

	if err := drawPieces(rgba, cells, size); err != nil {
		return nil, err
	}
	if opts.Coordinates {
		drawCoordinates(rgba, cells, size)
	}
	return rgba, nil
}

// PNG writes grid as a PNG image.
func PNG(w io.Writer, grid [8][8]int8, opts Options) error {
	img, err := Image(grid, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawPieces writes each piece as its capital letter, white pieces outlined
// in black so they stay readable on light squares.
func drawPieces(dst *image.RGBA, cells []cell, size int) error {
	f, err := loadPieceFont()
	if err != nil {
		return fmt.Errorf("load piece font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size) * 0.6,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("piece font face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	for _, c := range cells {
		if c.piece == board.NoPiece {
			continue
		}
		letter := strings.ToUpper(c.piece.String())

		d := &font.Drawer{Dst: dst, Face: face}
		width := d.MeasureString(letter)
		x := fixed.I(c.x+size/2) - width/2
		y := fixed.I(c.y+size/2) + metrics.CapHeight/2

		if c.piece > 0 {
			d.Src = image.NewUniform(blackInk)
			for _, off := range outline {
				d.Dot = fixed.Point26_6{X: x + fixed.I(off.X), Y: y + fixed.I(off.Y)}
				d.DrawString(letter)
			}
			d.Src = image.NewUniform(whiteInk)
		} else {
			d.Src = image.NewUniform(blackInk)
		}
		d.Dot = fixed.Point26_6{X: x, Y: y}
		d.DrawString(letter)
	}
	return nil
}

var outline = []image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, 1}, {-1, 1}, {1, -1}}

// drawCoordinates writes the edge captions in the fixed 7x13 face.
func drawCoordinates(dst *image.RGBA, cells []cell, size int) {
	face := basicfont.Face7x13
	for _, l := range coordinates(cells, size) {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(l.ink),
			Face: face,
		}
		x := fixed.I(l.x)
		if l.file {
			x -= d.MeasureString(l.text)
		}
		d.Dot = fixed.Point26_6{X: x, Y: fixed.I(l.y)}
		d.DrawString(l.text)
	}
}
