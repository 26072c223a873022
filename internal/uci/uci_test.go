package uci

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, script string, timeout time.Duration) string {
	t.Helper()
	e := New(&syncBuffer{})
	out := e.out.(*syncBuffer)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, strings.NewReader(script)) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("session did not finish before timeout")
	}
	return out.String()
}

// syncBuffer lets the worker goroutine and the test both safely read/write
// the captured output after Run returns (Run's errgroup already joins the
// worker before returning, so no lock is strictly required, but a plain
// bytes.Buffer makes that assumption explicit to a reader).
type syncBuffer struct {
	bytes.Buffer
}

func TestUCIHandshake(t *testing.T) {
	output := runSession(t, "uci\nisready\nquit\n", time.Second)
	require.Contains(t, output, "id name")
	require.Contains(t, output, "uciok")
	require.Contains(t, output, "readyok")
}

func TestUCIGoDepthReturnsBestMove(t *testing.T) {
	// No trailing "quit": letting EOF end the input thread instead lets the
	// worker finish the depth-3 search undisturbed, rather than racing a
	// "stop"-equivalent cancellation against a search that might finish
	// first.
	output := runSession(t, "position startpos\ngo depth 3\n", 5*time.Second)
	require.Contains(t, output, "bestmove")
	require.Contains(t, output, "info depth 1")
	require.Contains(t, output, "info depth 2")
	require.Contains(t, output, "info depth 3")
}

func TestUCIPositionWithMoves(t *testing.T) {
	output := runSession(t, "position startpos moves e2e4 e7e5\ngo depth 2\n", 5*time.Second)
	require.Contains(t, output, "bestmove")
	require.NotContains(t, output, "error")
}

func TestUCIRejectsUnknownCommand(t *testing.T) {
	output := runSession(t, "bogus\nquit\n", time.Second)
	require.Contains(t, output, "info string error: unknown command")
}

func TestUCISetOptionHash(t *testing.T) {
	output := runSession(t, "setoption name Hash value 16\nucinewgame\nisready\nquit\n", time.Second)
	require.Contains(t, output, "readyok")
	require.NotContains(t, output, "error")
}

func TestParseGoLimitsDepthAndTime(t *testing.T) {
	limits := parseGoLimits(strings.Fields("depth 6 wtime 5000 btime 6000 winc 100"))
	require.Equal(t, 6, limits.Depth)
	require.Equal(t, 5000*time.Millisecond, limits.Time[0])
	require.Equal(t, 6000*time.Millisecond, limits.Time[1])
	require.Equal(t, 100*time.Millisecond, limits.Inc[0])
}

func TestParseSetOptionNameValue(t *testing.T) {
	name, value := parseSetOption(strings.Fields("name Hash value 128"))
	require.Equal(t, "Hash", name)
	require.Equal(t, "128", value)
}
