package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Robotino04/Thera-Engine/internal/board"
	"github.com/Robotino04/Thera-Engine/internal/search"
)

// key layout: one key per completed depth plus one for the final bestmove,
// both prefixed by the session id so a whole session can be range-scanned
// and depths sort in completion order under badger's byte-lexicographic
// iteration.
const (
	depthKeyFormat = "session:%s:depth:%04d"
	bestKeyFormat  = "session:%s:best"
)

// DepthRecord is the persisted shape of one search.DepthSummary: the score
// and PV are stored as UCI strings rather than the engine's internal types,
// so a session can be read back without importing this engine's packages.
type DepthRecord struct {
	Depth     int       `json:"depth"`
	Score     string    `json:"score"`
	PV        []string  `json:"pv"`
	Nodes     uint64    `json:"nodes"`
	ElapsedMS int64     `json:"elapsed_ms"`
	Recorded  time.Time `json:"recorded"`
}

// Session is every record journaled for one search, in depth order, plus
// the final bestmove if the session completed.
type Session struct {
	ID     string
	Depths []DepthRecord
	Best   string
}

// Journal wraps a BadgerDB instance as a durable record of completed search
// sessions, repurposing the teacher's preferences/stats store for search
// diagnostics instead of UI state.
type Journal struct {
	db *badger.DB
}

// Open opens (creating if necessary) the journal database at dir.
func Open(dir string) (*Journal, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

// OpenDefault opens the journal at the platform's standard data directory.
func OpenDefault() (*Journal, error) {
	dir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// RecordDepth persists one completed depth of sessionID's search.
func (j *Journal) RecordDepth(sessionID string, ds search.DepthSummary) error {
	rec := DepthRecord{
		Depth:     ds.Depth,
		Score:     ds.Eval.UCI(),
		PV:        uciMoves(ds.PV),
		Nodes:     ds.Nodes,
		ElapsedMS: ds.Elapsed.Milliseconds(),
		Recorded:  time.Now(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := fmt.Sprintf(depthKeyFormat, sessionID, ds.Depth)
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// RecordBestMove persists sessionID's final chosen move in long algebraic
// notation.
func (j *Journal) RecordBestMove(sessionID, uciMove string) error {
	key := fmt.Sprintf(bestKeyFormat, sessionID)
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(uciMove))
	})
}

// LoadSession reconstructs everything journaled for sessionID: every
// recorded depth, in ascending order, plus the bestmove if one was
// recorded.
func (j *Journal) LoadSession(sessionID string) (*Session, error) {
	sess := &Session{ID: sessionID}

	err := j.db.View(func(txn *badger.Txn) error {
		depthPrefix := []byte(fmt.Sprintf("session:%s:depth:", sessionID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(depthPrefix); it.ValidForPrefix(depthPrefix); it.Next() {
			var rec DepthRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			sess.Depths = append(sess.Depths, rec)
		}

		bestKey := []byte(fmt.Sprintf(bestKeyFormat, sessionID))
		item, err := txn.Get(bestKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sess.Best = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func uciMoves(pv []board.Move) []string {
	if len(pv) == 0 {
		return nil
	}
	moves := make([]string, len(pv))
	for i, m := range pv {
		moves[i] = m.UCI()
	}
	return moves
}
