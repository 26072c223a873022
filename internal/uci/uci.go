// Package uci implements the Universal Chess Interface protocol surface
// (spec §6): a line-based stdin/stdout command loop wired to an iterative
// deepening search.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Robotino04/Thera-Engine/internal/board"
	"github.com/Robotino04/Thera-Engine/internal/journal"
	"github.com/Robotino04/Thera-Engine/internal/search"
)

const (
	defaultHashMB = 256
	minHashMB     = 1
	maxHashMB     = 1 << 20
	bytesPerSlot  = 64 // rough per-entry footprint, close enough for Hash sizing
)

// task is one unit of work handed from the input thread to the worker
// thread over the 0-capacity channel spec §5 describes: a send only
// succeeds once the worker is ready to receive it. A task submitted while
// another is running is rejected by handleGo's running check before any
// send is attempted.
type task struct {
	limits    search.Limits
	position  *board.Position
	sessionID string
}

// Engine is the UCI protocol handler: it owns the position, the
// transposition table, and the three-thread worker architecture of spec
// §5. The zero value is not usable; build one with New.
type Engine struct {
	out io.Writer

	position *board.Position

	tt           *search.Table
	hashMB       int
	depthCeiling int

	journal    *journal.Journal // optional; nil means sessions aren't journaled
	sessionSeq atomic.Int64

	tasks   chan task
	outputs chan string
	running atomic.Bool
	cancel  atomic.Bool
	done    chan struct{}
}

// New builds an Engine that writes UCI output to out; Run supplies the
// command input.
func New(out io.Writer) *Engine {
	e := &Engine{
		out:          out,
		hashMB:       defaultHashMB,
		depthCeiling: search.DefaultDepthCeiling,
		tasks:        make(chan task),
		outputs:      make(chan string, 64),
	}
	e.resetPosition()
	e.tt = search.NewTable(slotsForHashMB(e.hashMB))
	return e
}

// SetJournal wires a search-session journal into the engine: every "go"
// task from this point on records its completed depths and final bestmove
// under a new session id. Passing nil disables journaling again.
func (e *Engine) SetJournal(j *journal.Journal) {
	e.journal = j
}

// SetHashMB sets the transposition table size and reallocates the table
// at that size right away; later ucinewgame commands reallocate at it too
// (for use by config-file startup before any UCI input has arrived).
func (e *Engine) SetHashMB(mb int) {
	if mb < minHashMB || mb > maxHashMB {
		return
	}
	e.hashMB = mb
	e.tt = search.NewTable(slotsForHashMB(e.hashMB))
}

// SetDepthCeiling overrides the default depth iterative deepening searches
// to when a "go" command carries no explicit depth.
func (e *Engine) SetDepthCeiling(depth int) {
	if depth <= 0 {
		return
	}
	e.depthCeiling = depth
}

// send queues a line for the output thread, the only goroutine that ever
// writes to e.out (spec §5: "Output thread drains a results channel and
// writes to standard output"). Both the input thread (immediate replies)
// and the worker thread (info/bestmove) call this instead of writing
// directly, so concurrent output never races on the underlying writer.
func (e *Engine) send(line string) {
	e.outputs <- line
}

func slotsForHashMB(mb int) int {
	slots := (mb * 1024 * 1024) / bytesPerSlot
	if slots <= 0 {
		slots = 1
	}
	return slots
}

func (e *Engine) resetPosition() {
	e.position = board.NewPosition()
}

// Run drives the input thread: it reads one line at a time from in,
// dispatches each to a handler, and blocks until in is exhausted or
// "quit" is received. The worker and output threads are supervised by an
// errgroup so a panic in either tears down the whole session (spec §5's
// "three logical threads").
func (e *Engine) Run(ctx context.Context, in io.Reader) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return e.runWorker(ctx)
	})
	g.Go(func() error {
		return e.runOutput(ctx)
	})

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := e.dispatch(line); quit {
			break
		}
	}

	close(e.tasks)
	if err := g.Wait(); err != nil {
		return err
	}
	return scanner.Err()
}

// runOutput is the output thread (spec §5): it drains e.outputs in order
// and writes each line to e.out, the only goroutine that touches the
// writer.
func (e *Engine) runOutput(ctx context.Context) error {
	for {
		select {
		case line, ok := <-e.outputs:
			if !ok {
				return nil
			}
			fmt.Fprintln(e.out, line)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch handles one input line and reports whether the session should
// exit (the "quit" command).
func (e *Engine) dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "uci":
		e.handleUCI()
	case "isready":
		e.send("readyok")
	case "ucinewgame":
		e.handleNewGame()
	case "position":
		e.handlePosition(args)
	case "go":
		e.handleGo(args)
	case "stop":
		e.handleStop()
	case "setoption":
		e.handleSetOption(args)
	case "quit":
		e.handleStop()
		return true
	default:
		e.send(fmt.Sprintf("info string error: unknown command %q", cmd))
	}
	return false
}

func (e *Engine) handleUCI() {
	e.send("id name TheraUCI")
	e.send("id author Thera Engine")
	e.send(fmt.Sprintf("option name Hash type spin default %d min %d max %d", defaultHashMB, minHashMB, maxHashMB))
	e.send("uciok")
}

func (e *Engine) handleNewGame() {
	e.handleStop()
	e.resetPosition()
	e.tt = search.NewTable(slotsForHashMB(e.hashMB))
}

// handlePosition implements "position startpos|fen <fen> [moves ...]"
// (spec §6).
func (e *Engine) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	var moveStart int

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
		moveStart = findMoves(args, 1)
	case "fen":
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		fenStr := strings.Join(args[1:end], " ")
		p, err := board.ParseFEN(fenStr)
		if err != nil {
			e.send(fmt.Sprintf("info string error: invalid FEN: %v", err))
			return
		}
		pos = p
		moveStart = findMoves(args, end)
	default:
		e.send(fmt.Sprintf("info string error: unrecognized position subcommand %q", args[0]))
		return
	}

	for _, moveStr := range args[moveStart:] {
		m, err := board.ParseMove(moveStr, pos)
		if err != nil {
			e.send(fmt.Sprintf("info string error: invalid move %q: %v", moveStr, err))
			return
		}
		legal := board.NewMoveGenerator(pos).GenerateLegalMoves()
		if !legal.Contains(m) {
			e.send(fmt.Sprintf("info string error: illegal move %q", moveStr))
			return
		}
		board.Make(pos, m)
	}

	e.position = pos
}

func findMoves(args []string, from int) int {
	for i := from; i < len(args); i++ {
		if args[i] == "moves" {
			return i + 1
		}
	}
	return len(args)
}

// handleGo parses "go" arguments into search.Limits and hands a task to
// the worker thread over the 0-capacity channel. If a task is already
// running, it reports already-running and sends nothing, per spec §5/§7.
func (e *Engine) handleGo(args []string) {
	if e.running.Load() {
		e.send("info string A task is already running.")
		return
	}

	limits := parseGoLimits(args)
	if limits.Depth == 0 {
		limits.Depth = e.depthCeiling
	}
	e.cancel.Store(false)
	e.running.Store(true)
	e.done = make(chan struct{})
	e.tasks <- task{
		limits:    limits,
		position:  e.position.Copy(),
		sessionID: strconv.FormatInt(e.sessionSeq.Add(1), 10),
	}
}

func parseGoLimits(args []string) search.Limits {
	var limits search.Limits
	for i := 0; i < len(args); i++ {
		next := func() (string, bool) {
			if i+1 < len(args) {
				i++
				return args[i], true
			}
			return "", false
		}
		switch args[i] {
		case "depth":
			if v, ok := next(); ok {
				limits.Depth, _ = strconv.Atoi(v)
			}
		case "nodes":
			if v, ok := next(); ok {
				limits.Nodes, _ = strconv.ParseUint(v, 10, 64)
			}
		case "movetime":
			if v, ok := next(); ok {
				ms, _ := strconv.Atoi(v)
				limits.MoveTime = time.Duration(ms) * time.Millisecond
			}
		case "wtime":
			if v, ok := next(); ok {
				ms, _ := strconv.Atoi(v)
				limits.Time[board.White] = time.Duration(ms) * time.Millisecond
			}
		case "btime":
			if v, ok := next(); ok {
				ms, _ := strconv.Atoi(v)
				limits.Time[board.Black] = time.Duration(ms) * time.Millisecond
			}
		case "winc":
			if v, ok := next(); ok {
				ms, _ := strconv.Atoi(v)
				limits.Inc[board.White] = time.Duration(ms) * time.Millisecond
			}
		case "binc":
			if v, ok := next(); ok {
				ms, _ := strconv.Atoi(v)
				limits.Inc[board.Black] = time.Duration(ms) * time.Millisecond
			}
		case "infinite":
			limits.Infinite = true
		case "movestogo":
			next() // not modeled (spec §4.10 has no moves-to-go term); consume and ignore
		}
	}
	return limits
}

func (e *Engine) handleStop() {
	if e.running.Load() {
		e.cancel.Store(true)
		<-e.done
	}
}

func (e *Engine) handleSetOption(args []string) {
	name, value := parseSetOption(args)
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < minHashMB || mb > maxHashMB {
			e.send(fmt.Sprintf("info string error: invalid Hash value %q", value))
			return
		}
		e.hashMB = mb // takes effect on the next ucinewgame, per spec §6
	default:
		e.send(fmt.Sprintf("info string error: unrecognized option %q", name))
	}
}

func parseSetOption(args []string) (name, value string) {
	var readingName, readingValue bool
	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				name = appendWord(name, arg)
			} else if readingValue {
				value = appendWord(value, arg)
			}
		}
	}
	return name, value
}

func appendWord(s, word string) string {
	if s == "" {
		return word
	}
	return s + " " + word
}

// runWorker is the worker thread (spec §5): it pulls one task at a time
// off the hand-off channel and the output thread drains its progress
// as it runs. There is exactly one worker goroutine for the whole
// session's lifetime, matching "single background task at a time."
func (e *Engine) runWorker(ctx context.Context) error {
	// Closing outputs here, rather than in Run, guarantees every send from
	// a task this goroutine started has already happened: the input
	// thread only closes e.tasks after its own loop (and thus every
	// "go" it could still dispatch) has ended, and this loop only reaches
	// its close once the last accepted task's runTask has returned.
	defer close(e.outputs)
	for {
		select {
		case t, ok := <-e.tasks:
			if !ok {
				return nil
			}
			e.runTask(ctx, t)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runTask executes one "go" task to completion, queuing an info line via
// send as each depth finishes (the output thread writes it) and finally
// queuing bestmove.
func (e *Engine) runTask(ctx context.Context, t task) {
	defer func() {
		e.running.Store(false)
		close(e.done)
	}()

	budget := search.NewBudget(t.limits, t.position.SideToMove, time.Now())
	shouldExit := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
		}
		return e.cancel.Load()
	}

	onDepth := func(ds search.DepthSummary) {
		e.sendInfo(ds)
		if e.journal != nil {
			if err := e.journal.RecordDepth(t.sessionID, ds); err != nil {
				e.send(fmt.Sprintf("info string error: journal write failed: %v", err))
			}
		}
	}

	best := search.IterativeDeepen(t.position, e.tt, t.limits, budget, shouldExit, onDepth)

	bestUCI := "0000"
	if best != nil {
		bestUCI = best.UCI()
	}
	if e.journal != nil {
		if err := e.journal.RecordBestMove(t.sessionID, bestUCI); err != nil {
			e.send(fmt.Sprintf("info string error: journal write failed: %v", err))
		}
	}
	e.send(fmt.Sprintf("bestmove %s", bestUCI))
}

func (e *Engine) sendInfo(ds search.DepthSummary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d score %s nodes %d", ds.Depth, ds.Eval.UCI(), ds.Nodes)

	ms := ds.Elapsed.Milliseconds()
	if ms > 0 {
		nps := uint64(float64(ds.Nodes) / ds.Elapsed.Seconds())
		fmt.Fprintf(&sb, " nps %d", nps)
	}

	hashfull := 0
	if capacity := e.tt.Capacity(); capacity > 0 {
		hashfull = e.tt.UsedSlots() * 1000 / capacity
	}
	fmt.Fprintf(&sb, " hashfull %d time %d", hashfull, ms)

	if len(ds.PV) > 0 {
		uciMoves := make([]string, len(ds.PV))
		for i, m := range ds.PV {
			uciMoves[i] = m.UCI()
		}
		fmt.Fprintf(&sb, " pv %s", strings.Join(uciMoves, " "))
	}

	e.send(sb.String())
}
