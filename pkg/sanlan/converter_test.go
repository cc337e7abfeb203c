package sanlan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xalluna/EngineUCI/pkg/boardmodel"
	"github.com/xalluna/EngineUCI/pkg/ucierr"
)

func TestItalianGame(t *testing.T) {
	c := New()
	moves := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O", "Nf6", "d3", "d6"}
	want := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "e1g1", "g8f6", "d2d3", "d7d6"}

	for i, san := range moves {
		lan, err := c.Convert(san)
		require.NoError(t, err)
		assert.Equal(t, want[i], lan)
	}
}

func TestPromotion(t *testing.T) {
	c := New()
	c.Reset()
	// Put a lone white pawn on e7 with nothing in its way, by hand.
	b := c.Board()
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			b.Squares[f][r] = boardmodel.Occupant{}
		}
	}
	e7, _ := boardmodel.ParseSquare("e7")
	b.Squares[e7.File][e7.Rank] = boardmodel.Occupant{Piece: boardmodel.Pawn, Color: boardmodel.White}
	b.SideToMove = boardmodel.White

	lan, err := c.Convert("e8=Q")
	require.NoError(t, err)
	assert.Equal(t, "e7e8=Q", lan)
	assert.Equal(t, "e7e8q", NormalizeUCI(lan))
}

func TestRejectsKingPromotion(t *testing.T) {
	c := New()
	b := c.Board()
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			b.Squares[f][r] = boardmodel.Occupant{}
		}
	}
	e7, _ := boardmodel.ParseSquare("e7")
	b.Squares[e7.File][e7.Rank] = boardmodel.Occupant{Piece: boardmodel.Pawn, Color: boardmodel.White}
	b.SideToMove = boardmodel.White

	_, err := c.Convert("e8=K")
	assert.ErrorIs(t, err, ucierr.ErrInvalidInput)
}

func TestCastlingSquares(t *testing.T) {
	cases := []struct {
		san  string
		want string
	}{
		{"O-O", "e1g1"},
		{"O-O-O", "e1c1"},
		{"0-0", "e1g1"},
	}
	for _, tc := range cases {
		c := New()
		lan, err := c.Convert(tc.san)
		require.NoError(t, err)
		assert.Equal(t, tc.want, lan)
	}
}

func TestRejectsEmptyInput(t *testing.T) {
	c := New()
	_, err := c.Convert("   ")
	assert.Error(t, err)
}

func TestDisambiguationTieBreakFirstScanOrder(t *testing.T) {
	c := New()
	b := c.Board()
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			b.Squares[f][r] = boardmodel.Occupant{}
		}
	}
	// Two white rooks that can both reach d4: a4 and d1.
	a4, _ := boardmodel.ParseSquare("a4")
	d1, _ := boardmodel.ParseSquare("d1")
	b.Squares[a4.File][a4.Rank] = boardmodel.Occupant{Piece: boardmodel.Rook, Color: boardmodel.White}
	b.Squares[d1.File][d1.Rank] = boardmodel.Occupant{Piece: boardmodel.Rook, Color: boardmodel.White}
	b.SideToMove = boardmodel.White

	lan, err := c.Convert("Rd4")
	require.NoError(t, err)
	// Scan order is rank ascending then file ascending: d1 (rank 0) comes
	// before a4 (rank 3).
	assert.Equal(t, "d1d4", lan)
}

func TestResetIdempotent(t *testing.T) {
	c := New()
	_, err := c.Convert("e4")
	require.NoError(t, err)
	c.Reset()
	c.Reset()
	assert.Equal(t, boardmodel.White, c.Board().SideToMove)
}
