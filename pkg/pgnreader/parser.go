package pgnreader

import (
	"regexp"
	"strings"
)

// PgnGame is one parsed game: headers in tag-pair insertion order, the SAN
// move list with check/mate/annotation symbols stripped, and the game
// result (empty if absent).
type PgnGame struct {
	HeaderOrder []string
	Headers     map[string]string
	Moves       []string
	Result      string
}

type parserState int

const (
	stateInitial parserState = iota
	stateHeaderTagName
	stateHeaderTagValue
	stateHeaderClose
	stateMoveText
	stateTerminal
)

var moveNumberRe = regexp.MustCompile(`^\d+\.+$`)

// moveRe matches a cleaned SAN token: castling is checked separately before
// this regexp runs.
var moveRe = regexp.MustCompile(`^[NBRQK]?[a-h]?[1-8]?x?[a-h][1-8](=[NBRQ])?$`)

var resultTokens = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// ParseGame runs the header/move-text state machine over a single game's
// tokens (as produced by Tokenize).
func ParseGame(tokens []Token) PgnGame {
	g := PgnGame{Headers: map[string]string{}}

	state := stateInitial
	var pendingTag, pendingValue string

	for _, tok := range tokens {
		text := tok.Text

		switch state {
		case stateInitial:
			if text == "[" {
				state = stateHeaderTagName
				continue
			}
			state = stateMoveText
			consumeMoveToken(&g, text, &state)

		case stateHeaderTagName:
			pendingTag = text
			state = stateHeaderTagValue

		case stateHeaderTagValue:
			pendingValue = unquote(text)
			state = stateHeaderClose

		case stateHeaderClose:
			if text == "]" {
				if _, exists := g.Headers[pendingTag]; !exists {
					g.HeaderOrder = append(g.HeaderOrder, pendingTag)
				}
				g.Headers[pendingTag] = pendingValue
				state = stateInitial
				continue
			}
			// Missing "]": the pair is silently omitted, and this token
			// starts whatever comes next.
			if text == "[" {
				state = stateHeaderTagName
				continue
			}
			state = stateMoveText
			consumeMoveToken(&g, text, &state)

		case stateMoveText:
			consumeMoveToken(&g, text, &state)

		case stateTerminal:
			// Nothing more to do for this game's tokens.
		}
	}

	return g
}

// consumeMoveToken applies the move-text rules to a single token, possibly
// transitioning state to Terminal on a result token.
func consumeMoveToken(g *PgnGame, text string, state *parserState) {
	if text == "]" {
		// Stray close bracket outside a pending header pair: ignore.
		*state = stateMoveText
		return
	}

	*state = stateMoveText

	if moveNumberRe.MatchString(text) {
		return
	}

	if resultTokens[text] {
		g.Result = text
		*state = stateTerminal
		return
	}

	cleaned := stripCheckMate(stripAnnotations(text))

	if isCastling(cleaned) {
		g.Moves = append(g.Moves, cleaned)
		return
	}

	if moveRe.MatchString(cleaned) {
		g.Moves = append(g.Moves, cleaned)
		return
	}

	// Everything else (NAG remnants that survived tokenization, stray
	// annotation-only tokens, en-passant-suffixed tokens like "e4 e.p.")
	// is discarded.
}

func stripAnnotations(s string) string {
	for strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		s = s[:len(s)-1]
	}
	return s
}

func stripCheckMate(s string) string {
	return strings.TrimRight(s, "+#")
}

func isCastling(s string) bool {
	switch s {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		return true
	}
	return false
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// ParseMultipleGames splits text into games on lines beginning with
// "[Event ", ignoring any content before the first such line, and parses
// each segment independently.
func ParseMultipleGames(text string) []PgnGame {
	lines := strings.Split(text, "\n")

	var segments []string
	var cur strings.Builder
	started := false

	for _, line := range lines {
		if strings.HasPrefix(line, "[Event ") {
			if started {
				segments = append(segments, cur.String())
				cur.Reset()
			}
			started = true
		}
		if !started {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	if started {
		segments = append(segments, cur.String())
	}

	games := make([]PgnGame, 0, len(segments))
	for _, seg := range segments {
		games = append(games, ParseGame(Tokenize(seg)))
	}
	return games
}
