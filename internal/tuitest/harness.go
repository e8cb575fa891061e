package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 80
	defaultHeight  = 24
	defaultTimeout = 10 * time.Second
)

// Step is one scripted write to the terminal, made after Delay has passed.
// A step with no Input only waits.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Type writes text as if typed.
func Type(text string) Step {
	return Step{Input: []byte(text)}
}

// Key writes a raw key sequence such as KeyEnter.
func Key(seq []byte) Step {
	return Step{Input: seq}
}

// After returns s delayed by d.
func (s Step) After(d time.Duration) Step {
	s.Delay = d
	return s
}

// Config describes the program to spawn and the script to replay against it.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

func (c Config) size() *pty.Winsize {
	width, height := c.Width, c.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}
}

func (c Config) exitAllowed(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range c.AllowedExitCodes {
			if exitErr.ExitCode() == code {
				return true
			}
		}
	}
	return c.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// session is one running program attached to a PTY.
type session struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	output bytes.Buffer
	done   chan struct{}
}

// capture copies terminal output into the buffer, answering startup queries
// on the way, until the PTY closes.
func (s *session) capture() {
	defer close(s.done)
	responder := newTerminalResponder(s.ptmx)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			responder.Process(buf[:n])
			_, _ = s.output.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (s *session) replay(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := s.ptmx.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: write input: %w", err)
		}
	}
	return nil
}

func (s *session) wait(ctx context.Context) error {
	exited := make(chan error, 1)
	go func() { exited <- s.cmd.Wait() }()
	select {
	case err := <-exited:
		return err
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
}

// Run starts cfg.Command inside a PTY, replays cfg.Steps and records every
// byte the program draws.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)
	ptmx, err := pty.StartWithSize(cmd, cfg.size())
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	s := &session{cmd: cmd, ptmx: ptmx, done: make(chan struct{})}
	go s.capture()

	start := time.Now()
	if err := s.replay(ctx, cfg.Steps); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if !cfg.exitAllowed(err) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	}

	_ = ptmx.Close()
	<-s.done

	raw := s.output.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

// buildEnv inherits the parent environment minus any IMOJI_ or OTEL_ settings,
// so a developer's local config cannot leak into a scripted run.
func buildEnv(extra []string) []string {
	env := make([]string, 0, len(extra)+8)
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "IMOJI_") || strings.HasPrefix(entry, "OTEL_") {
			continue
		}
		env = append(env, entry)
	}
	env = append(env, extra...)
	termSet := false
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			termSet = true
			break
		}
	}
	if !termSet {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyCtrlR resets the generation screen.
	KeyCtrlR = []byte{18}
	// KeyEsc backs out of the current screen.
	KeyEsc = []byte{27}
	// KeyTab toggles input focus.
	KeyTab   = []byte{'\t'}
	KeyUp    = []byte("\x1b[A")
	KeyDown  = []byte("\x1b[B")
	KeyRight = []byte("\x1b[C")
	KeyLeft  = []byte("\x1b[D")
)

// BuildBinary compiles the main package in dir into a temp directory and
// returns the binary path.
func BuildBinary(t testing.TB, dir, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build %s: %v\n%s", name, err, output)
	}
	return binPath
}
