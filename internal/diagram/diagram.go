// Package diagram renders board snapshots as SVG and PNG images.
package diagram

import (
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chesscore/internal/board"
)

// Options controls how a diagram is drawn.
type Options struct {
	SquareSize  int            // pixels per square; zero means 64
	Flipped     bool           // draw with rank 1 at the top
	Coordinates bool           // file letters and rank numbers along the edges
	Highlights  []board.Square // squares tinted, e.g. the destinations of a piece
}

const defaultSquareSize = 64

// Board colors
var (
	lightColor     = color.RGBA{240, 217, 181, 255}
	darkColor      = color.RGBA{181, 136, 99, 255}
	lightHighlight = color.RGBA{205, 210, 106, 255}
	darkHighlight  = color.RGBA{170, 162, 58, 255}
	whiteInk       = color.RGBA{255, 255, 255, 255}
	blackInk       = color.RGBA{20, 20, 20, 255}
)

// cell is one square of the diagram at its drawing position.
type cell struct {
	x, y        int
	sq          board.Square
	piece       board.Piece
	light       bool
	highlighted bool
}

// fill returns the square's background color.
func (c cell) fill() color.RGBA {
	switch {
	case c.highlighted && c.light:
		return lightHighlight
	case c.highlighted:
		return darkHighlight
	case c.light:
		return lightColor
	default:
		return darkColor
	}
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return defaultSquareSize
	}
	return o.SquareSize
}

// layout places the 64 squares of grid (row 0 = rank 8) on the canvas.
func layout(grid [8][8]int8, opts Options) []cell {
	size := opts.squareSize()

	lit := make(map[board.Square]bool, len(opts.Highlights))
	for _, sq := range opts.Highlights {
		lit[sq] = true
	}

	cells := make([]cell, 0, 64)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := board.NewSquare(col, 7-row)
			x, y := col, row
			if opts.Flipped {
				x, y = 7-col, 7-row
			}
			cells = append(cells, cell{
				x:           x * size,
				y:           y * size,
				sq:          sq,
				piece:       board.Piece(grid[row][col]),
				light:       (col+row)%2 == 0,
				highlighted: lit[sq],
			})
		}
	}
	return cells
}

// drawSquares writes the board background. It emits only shapes, so the
// output can also be fed to the rasterizer.
func drawSquares(canvas *svg.SVG, cells []cell, size int) {
	for _, c := range cells {
		canvas.Rect(c.x, c.y, size, size, "fill:"+hex(c.fill()))
	}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// glyphs maps pieces to their Unicode chess symbols.
var glyphs = map[board.Piece]string{
	board.WhiteKing:   "♔",
	board.WhiteQueen:  "♕",
	board.WhiteRook:   "♖",
	board.WhiteBishop: "♗",
	board.WhiteKnight: "♘",
	board.WhitePawn:   "♙",
	board.BlackKing:   "♚",
	board.BlackQueen:  "♛",
	board.BlackRook:   "♜",
	board.BlackBishop: "♝",
	board.BlackKnight: "♞",
	board.BlackPawn:   "♟",
}

// SVG writes grid as an SVG document.
func SVG(w io.Writer, grid [8][8]int8, opts Options) error {
	size := opts.squareSize()
	side := size * 8

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(side, side, 0, 0, side, side)

	cells := layout(grid, opts)
	drawSquares(canvas, cells, size)

	pieceStyle := fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:%s", size*4/5, hex(blackInk))
	for _, c := range cells {
		glyph, ok := glyphs[c.piece]
		if !ok {
			continue
		}
		canvas.Text(c.x+size/2, c.y+size*4/5, glyph, pieceStyle)
	}

	if opts.Coordinates {
		for _, label := range coordinates(cells, size) {
			style := fmt.Sprintf("font-size:%dpx;font-family:sans-serif;fill:%s", label.size, hex(label.ink))
			if label.file {
				style += ";text-anchor:end"
			}
			canvas.Text(label.x, label.y, label.text, style)
		}
	}

	canvas.End()
	return ew.err
}

// label is a coordinate caption drawn inside an edge square.
type label struct {
	x, y int
	text string
	ink  color.RGBA
	size int
	file bool
}

// coordinates returns file letters along the bottom edge and rank numbers
// along the left edge, inked in the opposite square color.
func coordinates(cells []cell, size int) []label {
	fontSize := size / 5
	if fontSize < 8 {
		fontSize = 8
	}
	pad := size / 16

	var labels []label
	for _, c := range cells {
		ink := lightColor
		if c.light {
			ink = darkColor
		}
		if c.y == 7*size {
			labels = append(labels, label{
				x:    c.x + size - pad,
				y:    c.y + size - pad,
				text: string(rune('a' + c.sq.File())),
				ink:  ink,
				size: fontSize,
				file: true,
			})
		}
		if c.x == 0 {
			labels = append(labels, label{
				x:    c.x + pad,
				y:    c.y + pad + fontSize,
				text: string(rune('1' + c.sq.Rank())),
				ink:  ink,
				size: fontSize,
			})
		}
	}
	return labels
}

// errWriter keeps the first write error, since the SVG writer drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
