package boardmodel

// abs is a tiny local helper; the standard library has no generic integer
// abs before Go 1.21's math helpers, and importing math for one int isn't
// worth it here.
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// clearPath reports whether every square strictly between from and to is
// empty, for a move known to be a straight line (orthogonal or diagonal).
func (b *Board) clearPath(from, to Square) bool {
	df := sign(to.File - from.File)
	dr := sign(to.Rank - from.Rank)

	f, r := from.File+df, from.Rank+dr
	for f != to.File || r != to.Rank {
		if !b.Squares[f][r].IsEmpty() {
			return false
		}
		f += df
		r += dr
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// CanReach reports whether the piece of the given kind and color occupying
// from can geometrically reach to, ignoring check and pin legality. This is
// the single dispatch point SAN disambiguation filters candidates through.
func (b *Board) CanReach(kind Piece, color Color, from, to Square) bool {
	switch kind {
	case Pawn:
		return b.pawnCanReach(color, from, to)
	case Knight:
		return knightCanReach(from, to)
	case Bishop:
		return b.bishopCanReach(from, to)
	case Rook:
		return b.rookCanReach(from, to)
	case Queen:
		return b.bishopCanReach(from, to) || b.rookCanReach(from, to)
	case King:
		return kingCanReach(from, to)
	default:
		return false
	}
}

func (b *Board) pawnCanReach(color Color, from, to Square) bool {
	dir := 1
	startRank := 1
	if color == Black {
		dir = -1
		startRank = 6
	}

	df := to.File - from.File
	dr := to.Rank - from.Rank

	// Single push: same file, one step forward, destination empty.
	if df == 0 && dr == dir && b.At(to).IsEmpty() {
		return true
	}

	// Double push from the starting rank: both intermediate and
	// destination squares empty.
	if df == 0 && dr == 2*dir && from.Rank == startRank {
		mid := Square{File: from.File, Rank: from.Rank + dir}
		return b.At(mid).IsEmpty() && b.At(to).IsEmpty()
	}

	// Diagonal capture: adjacent file, one step forward, destination
	// occupied by any piece (en-passant is out of scope per spec.md §1).
	if abs(df) == 1 && dr == dir && !b.At(to).IsEmpty() {
		return true
	}

	return false
}

func knightCanReach(from, to Square) bool {
	df := abs(to.File - from.File)
	dr := abs(to.Rank - from.Rank)
	return (df == 1 && dr == 2) || (df == 2 && dr == 1)
}

func (b *Board) bishopCanReach(from, to Square) bool {
	df := to.File - from.File
	dr := to.Rank - from.Rank
	if abs(df) != abs(dr) || df == 0 {
		return false
	}
	return b.clearPath(from, to)
}

func (b *Board) rookCanReach(from, to Square) bool {
	df := to.File - from.File
	dr := to.Rank - from.Rank
	if df != 0 && dr != 0 {
		return false
	}
	if df == 0 && dr == 0 {
		return false
	}
	return b.clearPath(from, to)
}

func kingCanReach(from, to Square) bool {
	df := abs(to.File - from.File)
	dr := abs(to.Rank - from.Rank)
	if df == 0 && dr == 0 {
		return false
	}
	return df <= 1 && dr <= 1
}
