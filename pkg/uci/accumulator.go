package uci

import (
	"sort"
	"strconv"
	"sync"

	"github.com/xalluna/EngineUCI/pkg/uciproto"
)

// rankEntry is the deepest-seen (depth, score) pair for one multi-PV rank.
type rankEntry struct {
	depth int
	score string
}

// accumulator folds successive info lines into a per-rank best-depth
// record while a search is active, and snapshots them into an
// EvaluationCollection when the terminating bestmove arrives.
type accumulator struct {
	mu     sync.Mutex
	active bool
	byRank map[int]rankEntry
}

func newAccumulator() *accumulator {
	return &accumulator{byRank: map[int]rankEntry{}}
}

// start clears prior state and marks the accumulator active for a new
// search.
func (a *accumulator) start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = true
	a.byRank = map[int]rankEntry{}
}

// fold applies one parsed info line's (depth, rank, score) to the
// accumulator, keeping only the deepest score observed per rank. Lines with
// no score are ignored for evaluation purposes.
func (a *accumulator) fold(info uciproto.InfoLine) {
	score, ok := scoreString(info)
	if !ok {
		return
	}

	rank := info.MultiPV
	if rank <= 0 {
		rank = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return
	}
	existing, seen := a.byRank[rank]
	if !seen || info.Depth > existing.depth {
		a.byRank[rank] = rankEntry{depth: info.Depth, score: score}
	}
}

func scoreString(info uciproto.InfoLine) (string, bool) {
	switch {
	case info.ScoreMate != nil:
		return "mate " + strconv.Itoa(*info.ScoreMate), true
	case info.ScoreCP != nil:
		return strconv.Itoa(*info.ScoreCP), true
	default:
		return "", false
	}
}

// snapshot freezes the accumulator's current contents into an ordered
// EvaluationCollection and marks the accumulator inactive. ok is false if
// no info lines of interest were observed.
func (a *accumulator) snapshot() (EvaluationCollection, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false

	if len(a.byRank) == 0 {
		return EvaluationCollection{}, false
	}

	evals := make([]Evaluation, 0, len(a.byRank))
	for rank, entry := range a.byRank {
		evals = append(evals, Evaluation{Depth: entry.depth, Rank: rank, Score: entry.score})
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].Rank < evals[j].Rank })

	return EvaluationCollection{Evaluations: evals}, true
}
