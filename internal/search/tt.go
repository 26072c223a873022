package search

import (
	"github.com/Robotino04/Thera-Engine/internal/board"
	"github.com/Robotino04/Thera-Engine/internal/eval"
)

// Entry is one transposition-table slot.
type Entry struct {
	Hash     uint64
	Eval     eval.Evaluation
	Depth    int
	Kind     EvalKind
	BestMove board.Move
	Subnodes uint64
	valid    bool
}

// Table is a fixed-size transposition table indexed by plain
// hash-modulo-capacity — not a power-of-two mask — matching the engine
// this one is descended from exactly (spec §9 calls this out explicitly:
// "do not round the table size up to a power of two and mask").
type Table struct {
	entries   []Entry
	usedSlots int
}

// NewTable allocates a table with room for `slots` entries.
func NewTable(slots int) *Table {
	if slots <= 0 {
		slots = 1
	}
	return &Table{entries: make([]Entry, slots)}
}

// Get looks up hash, requiring the stored entry's depth to be at least
// depth. plies is the probing node's distance from the search root, used
// to convert a stored mate score back into this node's frame of
// reference. Returns ok=false on a miss (wrong hash, insufficient depth,
// or an empty slot).
func (t *Table) Get(hash uint64, depth int, plies uint32) (Entry, bool) {
	idx := hash % uint64(len(t.entries))
	e := t.entries[idx]
	if !e.valid || e.Hash != hash || e.Depth < depth {
		return Entry{}, false
	}
	e.Eval = denormalizeMate(e.Eval, plies)
	return e, true
}

// Insert stores a search result for hash. plies is the storing node's
// distance from the search root; mate scores are normalized to be
// independent of it before being written, and re-applied in Get.
// Replacement keeps the existing entry unless the new one searched at
// least as deep, or the slot held a different position entirely. A write
// for the same position without a best move keeps the stored best move.
func (t *Table) Insert(hash uint64, depth int, e eval.Evaluation, kind EvalKind, bestMove board.Move, subnodes uint64, plies uint32) {
	idx := hash % uint64(len(t.entries))
	existing := &t.entries[idx]
	replace := !existing.valid || depth >= existing.Depth || existing.Hash != hash
	if !replace {
		return
	}
	if !existing.valid {
		t.usedSlots++
	}
	if bestMove == nil && existing.valid && existing.Hash == hash {
		bestMove = existing.BestMove
	}
	*existing = Entry{
		Hash:     hash,
		Eval:     normalizeMate(e, plies),
		Depth:    depth,
		Kind:     kind,
		BestMove: bestMove,
		Subnodes: subnodes,
		valid:    true,
	}
}

// Capacity returns the number of slots in the table.
func (t *Table) Capacity() int { return len(t.entries) }

// UsedSlots returns how many slots have ever held an entry (for the UCI
// "hashfull" permille stat).
func (t *Table) UsedSlots() int { return t.usedSlots }

func normalizeMate(e eval.Evaluation, plies uint32) eval.Evaluation {
	switch {
	case e.IsWin():
		return eval.Win(e.Plies() - plies)
	case e.IsLoss():
		return eval.Loss(e.Plies() - plies)
	default:
		return e
	}
}

func denormalizeMate(e eval.Evaluation, plies uint32) eval.Evaluation {
	switch {
	case e.IsWin():
		return eval.Win(e.Plies() + plies)
	case e.IsLoss():
		return eval.Loss(e.Plies() + plies)
	default:
		return e
	}
}
