// Package tuitest drives a compiled TUI binary through a pseudo terminal and
// records what it draws, so integration tests can assert on rendered screens
// without a real terminal attached.
package tuitest

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/pkg/errors"
)

const (
	defaultCols    = 120
	defaultRows    = 32
	defaultTimeout = 10 * time.Second
)

// Common key byte sequences for scripting input.
var (
	KeyEnter = []byte{'\r'}
	KeyEsc   = []byte{27}
	KeyCtrlC = []byte{3}
)

// Step is one scripted input: wait Delay, then write Input to the terminal.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Script configures one harness run.
type Script struct {
	Command []string
	Dir     string
	Env     []string
	Cols    int
	Rows    int
	Steps   []Step
	Timeout time.Duration
	// AllowInterrupt accepts SIGINT-triggered exits, for scripts that end
	// with ctrl+c.
	AllowInterrupt bool
}

// Recording holds everything the program wrote to the terminal.
type Recording struct {
	Raw []byte
}

// Screen returns the recorded output with escape sequences stripped, suitable
// for substring assertions.
func (r *Recording) Screen() string {
	return stripEscapes(string(r.Raw))
}

// Contains reports whether the stripped output contains s.
func (r *Recording) Contains(s string) bool {
	return strings.Contains(r.Screen(), s)
}

// Run starts the command on a PTY, replays the script, waits for exit, and
// returns the recording.
func Run(ctx context.Context, script Script) (*Recording, error) {
	if len(script.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cols, rows := script.Cols, script.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	timeout := script.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, script.Command[0], script.Command[1:]...)
	cmd.Dir = script.Dir
	cmd.Env = append(os.Environ(), append([]string{"TERM=xterm-256color"}, script.Env...)...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, errors.Wrap(err, "tuitest: start program")
	}
	defer ptmx.Close()

	var captured bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				answerQueries(ptmx, chunk)
				captured.Write(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	for _, step := range script.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "tuitest: canceled mid-script")
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, errors.Wrap(err, "tuitest: write input")
			}
		}
	}

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()
	select {
	case err := <-waited:
		if err != nil && !(script.AllowInterrupt && strings.Contains(err.Error(), "interrupt")) {
			return nil, errors.Wrap(err, "tuitest: program exited with error")
		}
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "tuitest: timeout waiting for exit")
	}

	ptmx.Close()
	<-drained
	return &Recording{Raw: captured.Bytes()}, nil
}

// answerQueries replies to terminal capability probes (cursor position,
// foreground and background color) that bubbletea sends on startup. Without a
// reply the program stalls waiting on a real terminal.
func answerQueries(w io.Writer, chunk []byte) {
	for _, probe := range []struct {
		query, reply []byte
	}{
		{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
		{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
		{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
		{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
		{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
	} {
		if bytes.Contains(chunk, probe.query) {
			_, _ = w.Write(probe.reply)
		}
	}
}
