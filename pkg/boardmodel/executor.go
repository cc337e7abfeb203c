package boardmodel

// MoveSpec describes one move to execute: the source and destination
// squares and, for a pawn reaching the back rank, the promotion kind.
type MoveSpec struct {
	From      Square
	To        Square
	Promotion Piece // Empty if not a promotion
}

// Execute moves the occupant of From to To, clearing From, applying a
// promotion if Promotion is set, and flips the side to move. It performs no
// legality checking: the caller (the SAN→LAN converter) is responsible for
// having already resolved a geometrically valid source square.
func (b *Board) Execute(m MoveSpec) {
	occ := b.At(m.From)
	if m.Promotion != Empty {
		occ.Piece = m.Promotion
	}
	b.set(m.To, occ)
	b.set(m.From, Occupant{})
	b.SideToMove = b.SideToMove.Opposite()
}

// CastleSide distinguishes kingside from queenside castling.
type CastleSide int

const (
	Kingside CastleSide = iota
	Queenside
)

// Castle moves the king and rook atomically along color's back rank and
// flips the side to move. No through-check checking is performed (spec.md
// §4.5: "no through-check checking").
func (b *Board) Castle(color Color, side CastleSide) {
	rank := 0
	if color == Black {
		rank = 7
	}

	kingFrom := Square{File: 4, Rank: rank}
	var kingTo, rookFrom, rookTo Square
	if side == Kingside {
		kingTo = Square{File: 6, Rank: rank}
		rookFrom = Square{File: 7, Rank: rank}
		rookTo = Square{File: 5, Rank: rank}
	} else {
		kingTo = Square{File: 2, Rank: rank}
		rookFrom = Square{File: 0, Rank: rank}
		rookTo = Square{File: 3, Rank: rank}
	}

	king := b.At(kingFrom)
	rook := b.At(rookFrom)

	b.set(kingFrom, Occupant{})
	b.set(rookFrom, Occupant{})
	b.set(kingTo, king)
	b.set(rookTo, rook)

	b.SideToMove = b.SideToMove.Opposite()
}
