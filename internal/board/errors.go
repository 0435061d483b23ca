package board

import "errors"

// Malformed-input errors. Parsers wrap these with context, so match them
// with errors.Is.
var (
	ErrInvalidFEN        = errors.New("invalid FEN")
	ErrInvalidPlacement  = errors.New("invalid piece placement")
	ErrInvalidSideToMove = errors.New("invalid side to move")
	ErrInvalidCastling   = errors.New("invalid castling rights")
	ErrInvalidEnPassant  = errors.New("invalid en passant square")
	ErrInvalidClock      = errors.New("invalid move clock")
	ErrInvalidSquare     = errors.New("square out of range")
	ErrInvalidMoveText   = errors.New("invalid move text")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrNoMatchingMove    = errors.New("no matching legal move")
	ErrAmbiguousMove     = errors.New("ambiguous move")
)
