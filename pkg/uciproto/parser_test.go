package uciproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBestMoveValid(t *testing.T) {
	move, ok := ParseBestMove("bestmove e2e4 ponder e7e5")
	require.True(t, ok)
	assert.Equal(t, "e2e4", move)
}

func TestParseBestMoveNoPonder(t *testing.T) {
	move, ok := ParseBestMove("bestmove e7e8q")
	require.True(t, ok)
	assert.Equal(t, "e7e8q", move)
}

func TestParseBestMoveInvalid(t *testing.T) {
	_, ok := ParseBestMove("bestmove")
	assert.False(t, ok)

	_, ok = ParseBestMove("info depth 1")
	assert.False(t, ok)
}

func TestParseInfoScoreCp(t *testing.T) {
	info, ok := ParseInfo("info depth 12 seldepth 18 multipv 1 score cp 34 nodes 123456 nps 987654 time 210 pv e2e4 e7e5 g1f3")
	require.True(t, ok)
	assert.Equal(t, 12, info.Depth)
	require.NotNil(t, info.SelDepth)
	assert.Equal(t, 18, *info.SelDepth)
	assert.Equal(t, 1, info.MultiPV)
	require.NotNil(t, info.ScoreCP)
	assert.Equal(t, 34, *info.ScoreCP)
	assert.Nil(t, info.ScoreMate)
	require.NotNil(t, info.PV)
	assert.Equal(t, "e2e4 e7e5 g1f3", *info.PV)
}

func TestParseInfoScoreMate(t *testing.T) {
	info, ok := ParseInfo("info depth 5 score mate 3 pv h5f7")
	require.True(t, ok)
	require.NotNil(t, info.ScoreMate)
	assert.Equal(t, 3, *info.ScoreMate)
	assert.Nil(t, info.ScoreCP)
}

func TestParseInfoNoScoreLeavesUnset(t *testing.T) {
	info, ok := ParseInfo("info depth 4 currmove e2e4 currmovenumber 1")
	require.True(t, ok)
	assert.Nil(t, info.ScoreCP)
	assert.Nil(t, info.ScoreMate)
}

func TestParseInfoSelDepthGEDepth(t *testing.T) {
	lines := []string{
		"info depth 10 seldepth 14 score cp 12 pv a2a3",
		"info depth 1 seldepth 1 score cp 0 pv e2e4",
		"info depth 20 score cp 50 pv d2d4",
	}
	for _, l := range lines {
		info, ok := ParseInfo(l)
		require.True(t, ok)
		if info.SelDepth != nil {
			assert.GreaterOrEqual(t, *info.SelDepth, info.Depth)
		}
	}
}

func TestParseInfoUnknownKeywordIgnored(t *testing.T) {
	info, ok := ParseInfo("info depth 3 currline 1 e2e4 e7e5 score cp 5 pv e2e4")
	require.True(t, ok)
	assert.Equal(t, 3, info.Depth)
	require.NotNil(t, info.ScoreCP)
	assert.Equal(t, 5, *info.ScoreCP)
}

func TestParseInfoNotAnInfoLine(t *testing.T) {
	_, ok := ParseInfo("bestmove e2e4")
	assert.False(t, ok)
}
