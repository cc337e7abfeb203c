package boardmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartingPosition(t *testing.T) {
	b := New()
	assert.Equal(t, White, b.SideToMove)

	e2, _ := ParseSquare("e2")
	occ := b.At(e2)
	assert.Equal(t, Pawn, occ.Piece)
	assert.Equal(t, White, occ.Color)

	e7, _ := ParseSquare("e7")
	occ = b.At(e7)
	assert.Equal(t, Pawn, occ.Piece)
	assert.Equal(t, Black, occ.Color)

	e4, _ := ParseSquare("e4")
	assert.True(t, b.At(e4).IsEmpty())
}

func TestResetIsIdempotent(t *testing.T) {
	b := New()
	e2, _ := ParseSquare("e2")
	e4, _ := ParseSquare("e4")
	b.Execute(MoveSpec{From: e2, To: e4})

	b.Reset()
	first := b.Squares
	b.Reset()
	assert.Equal(t, first, b.Squares)
	assert.Equal(t, White, b.SideToMove)
}

func TestPawnDoublePushBlocked(t *testing.T) {
	b := New()
	e2, _ := ParseSquare("e2")
	e3, _ := ParseSquare("e3")
	e4, _ := ParseSquare("e4")

	assert.True(t, b.pawnCanReach(White, e2, e4))

	b.Execute(MoveSpec{From: Square{File: 4, Rank: 1}, To: e3})
	assert.False(t, b.pawnCanReach(White, e2, e4))
}

func TestKnightCanReach(t *testing.T) {
	from, _ := ParseSquare("g1")
	to, _ := ParseSquare("f3")
	assert.True(t, knightCanReach(from, to))

	bad, _ := ParseSquare("g3")
	assert.False(t, knightCanReach(from, bad))
}

func TestCastleKingside(t *testing.T) {
	b := New()
	b.Castle(White, Kingside)

	g1, _ := ParseSquare("g1")
	f1, _ := ParseSquare("f1")
	e1, _ := ParseSquare("e1")
	h1, _ := ParseSquare("h1")

	require.Equal(t, King, b.At(g1).Piece)
	require.Equal(t, Rook, b.At(f1).Piece)
	assert.True(t, b.At(e1).IsEmpty())
	assert.True(t, b.At(h1).IsEmpty())
	assert.Equal(t, Black, b.SideToMove)
}
