// Package sanlan converts Standard Algebraic Notation moves into the Long
// Algebraic Notation form UCI engines consume, resolving the source square
// against a stateful board model.
package sanlan

import (
	"fmt"
	"strings"

	"github.com/xalluna/EngineUCI/pkg/boardmodel"
	"github.com/xalluna/EngineUCI/pkg/ucierr"
)

// Converter drives a board through a sequence of SAN moves, emitting each
// move's LAN form and mutating board state as it goes.
type Converter struct {
	board *boardmodel.Board
}

// New returns a Converter over a freshly reset board.
func New() *Converter {
	return &Converter{board: boardmodel.New()}
}

// Board exposes the underlying board, e.g. for inspecting the final
// position after a sequence of conversions.
func (c *Converter) Board() *boardmodel.Board {
	return c.board
}

// Reset returns the board to the starting position; idempotent.
func (c *Converter) Reset() {
	c.board.Reset()
}

// Convert resolves one SAN token against the current board, executes it,
// and returns its LAN form ("<from><to>" with an optional "=X" promotion
// suffix).
func (c *Converter) Convert(san string) (string, error) {
	trimmed := strings.TrimSpace(san)
	if trimmed == "" {
		return "", fmt.Errorf("sanlan: empty move: %w", ucierr.ErrInvalidInput)
	}

	cleaned := stripSuffixAnnotations(trimmed)

	if lan, ok := c.convertCastle(cleaned); ok {
		return lan, nil
	}

	return c.convertOrdinary(cleaned)
}

// promotionPieceFromLetter maps a promotion suffix letter to a Piece,
// restricted to spec.md §3's promotion set {Q,R,B,N}: unlike the leading
// piece-kind letter, a king is never a legal promotion target.
func promotionPieceFromLetter(c byte) (boardmodel.Piece, bool) {
	if c == 'K' {
		return boardmodel.Empty, false
	}
	return boardmodel.PieceFromLetter(c)
}

func stripSuffixAnnotations(s string) string {
	for len(s) > 0 {
		last := s[len(s)-1]
		if last == '+' || last == '#' || last == '!' || last == '?' {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}

func (c *Converter) convertCastle(s string) (string, bool) {
	white := c.board.SideToMove == boardmodel.White

	switch s {
	case "O-O", "0-0":
		side := boardmodel.Kingside
		c.board.Castle(c.board.SideToMove, side)
		if white {
			return "e1g1", true
		}
		return "e8g8", true
	case "O-O-O", "0-0-0":
		side := boardmodel.Queenside
		c.board.Castle(c.board.SideToMove, side)
		if white {
			return "e1c1", true
		}
		return "e8c8", true
	}
	return "", false
}

func (c *Converter) convertOrdinary(s string) (string, error) {
	var promotion boardmodel.Piece
	if idx := strings.Index(s, "="); idx != -1 && idx+1 < len(s) {
		p, ok := promotionPieceFromLetter(s[idx+1])
		if !ok {
			return "", fmt.Errorf("sanlan: bad promotion suffix in %q: %w", s, ucierr.ErrInvalidInput)
		}
		promotion = p
		s = s[:idx]
	}

	s = strings.ReplaceAll(s, "x", "")

	kind := boardmodel.Pawn
	if len(s) > 0 && s[0] != 'O' {
		if p, ok := boardmodel.PieceFromLetter(s[0]); ok {
			kind = p
			s = s[1:]
		}
	}

	if len(s) < 2 {
		return "", fmt.Errorf("sanlan: malformed move %q: %w", s, ucierr.ErrInvalidInput)
	}

	dest := s[len(s)-2:]
	to, ok := boardmodel.ParseSquare(dest)
	if !ok {
		return "", fmt.Errorf("sanlan: bad destination square %q: %w", dest, ucierr.ErrInvalidInput)
	}

	disambig := s[:len(s)-2]
	var wantFile = -1
	var wantRank = -1
	for _, r := range disambig {
		switch {
		case r >= 'a' && r <= 'h':
			wantFile = int(r - 'a')
		case r >= '1' && r <= '8':
			wantRank = int(r - '1')
		}
	}

	from, err := c.resolveSource(kind, to, wantFile, wantRank)
	if err != nil {
		return "", err
	}

	c.board.Execute(boardmodel.MoveSpec{From: from, To: to, Promotion: promotion})

	lan := from.Algebraic() + to.Algebraic()
	if promotion != boardmodel.Empty {
		lan += "=" + promotion.String()
	}
	return lan, nil
}

// resolveSource scans candidates of kind/side-to-move's color, filtered by
// disambiguation constraints, and retains those whose geometry satisfies
// the move predicate. Multiple matches resolve to the first in scan order
// (rank ascending, file ascending): a deliberate, documented limitation.
func (c *Converter) resolveSource(kind boardmodel.Piece, to boardmodel.Square, wantFile, wantRank int) (boardmodel.Square, error) {
	color := c.board.SideToMove
	for _, from := range c.board.Candidates(kind, color) {
		if wantFile != -1 && from.File != wantFile {
			continue
		}
		if wantRank != -1 && from.Rank != wantRank {
			continue
		}
		if c.board.CanReach(kind, color, from, to) {
			return from, nil
		}
	}
	return boardmodel.Square{}, fmt.Errorf("sanlan: no %s can reach %s: %w", kind, to.Algebraic(), ucierr.ErrInvalidMove)
}
