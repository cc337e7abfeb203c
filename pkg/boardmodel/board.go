// Package boardmodel implements a minimal 8x8 mailbox chess board: enough
// geometry to resolve SAN disambiguation and execute moves, but no legality
// checking beyond "some piece of this kind can reach this square".
package boardmodel

import "fmt"

// Piece identifies a piece kind, independent of color.
type Piece int

const (
	Empty Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String renders the piece kind's single uppercase SAN letter, or "." for
// an empty square.
func (p Piece) String() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return "."
	}
}

// PieceFromLetter maps a SAN piece letter (N, B, R, Q, K) to a Piece. Pawn
// is never spelled out in SAN and is not matched here.
func PieceFromLetter(c byte) (Piece, bool) {
	switch c {
	case 'N':
		return Knight, true
	case 'B':
		return Bishop, true
	case 'R':
		return Rook, true
	case 'Q':
		return Queen, true
	case 'K':
		return King, true
	default:
		return Empty, false
	}
}

// Color is the side a piece belongs to.
type Color int

const (
	White Color = iota
	Black
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Occupant is a square's contents: either empty, or a piece with a color.
type Occupant struct {
	Piece Piece
	Color Color
}

// IsEmpty reports whether the square holds no piece.
func (o Occupant) IsEmpty() bool {
	return o.Piece == Empty
}

// Square is a board coordinate. File and Rank are both 0-indexed: file 0 is
// 'a', rank 0 is '1'.
type Square struct {
	File int
	Rank int
}

// InBounds reports whether the square lies on the board.
func (s Square) InBounds() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// Algebraic renders the square as "e4"-style algebraic notation.
func (s Square) Algebraic() string {
	return fmt.Sprintf("%c%c", 'a'+s.File, '1'+s.Rank)
}

// ParseSquare parses a two-character algebraic square ("e4") into a Square.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return Square{}, false
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	sq := Square{File: file, Rank: rank}
	if !sq.InBounds() {
		return Square{}, false
	}
	return sq, true
}

// Board is an 8x8 mailbox plus a side-to-move flag.
type Board struct {
	Squares   [8][8]Occupant
	SideToMove Color
}

// New returns a board set up at the FIDE starting position with white to
// move.
func New() *Board {
	b := &Board{}
	b.Reset()
	return b
}

var backRank = [8]Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Reset restores the starting position and sets the side to move to white.
func (b *Board) Reset() {
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			b.Squares[f][r] = Occupant{}
		}
	}
	for f := 0; f < 8; f++ {
		b.Squares[f][0] = Occupant{Piece: backRank[f], Color: White}
		b.Squares[f][1] = Occupant{Piece: Pawn, Color: White}
		b.Squares[f][6] = Occupant{Piece: Pawn, Color: Black}
		b.Squares[f][7] = Occupant{Piece: backRank[f], Color: Black}
	}
	b.SideToMove = White
}

// At returns the occupant of sq.
func (b *Board) At(sq Square) Occupant {
	return b.Squares[sq.File][sq.Rank]
}

func (b *Board) set(sq Square, o Occupant) {
	b.Squares[sq.File][sq.Rank] = o
}

// Candidates returns every square holding a piece of the given kind and
// color, in rank-ascending, file-ascending scan order.
func (b *Board) Candidates(kind Piece, color Color) []Square {
	var out []Square
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := Square{File: f, Rank: r}
			occ := b.At(sq)
			if occ.Piece == kind && occ.Color == color {
				out = append(out, sq)
			}
		}
	}
	return out
}
