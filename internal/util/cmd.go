package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path string   // Binary path
	Args []string // Arguments
	Env  []string // Optional environment variables (KEY=VALUE). If nil, inherit.
	Dir  string   // Working directory; empty = inherit.

	StdoutLine func(string) // Called for each stdout line (if non-nil)
	StderrLine func(string) // Called for each stderr line (if non-nil)
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error
}

// StderrTail returns the last n non-empty stderr lines joined by newlines.
func (r CmdResult) StderrTail(n int) string {
	return tailLines(r.Stderr, n)
}

// CmdRunner runs subprocesses. Tests substitute a fake.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

// DefaultRunner runs real processes via Run.
type DefaultRunner struct{}

// NewDefaultRunner returns the runner backed by os/exec.
func NewDefaultRunner() CmdRunner {
	return DefaultRunner{}
}

func (DefaultRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	return Run(ctx, spec)
}

// waitDelay bounds how long Wait blocks on output pipes after the process
// group has been killed.
const waitDelay = 5 * time.Second

// Run executes the command and captures stdout and stderr.
// The child runs in its own process group, which is killed as a whole when
// ctx is cancelled. On non-zero exit it returns an error describing the exit
// code, while also populating CmdResult.Code and captured buffers.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	var stdoutBuf, stderrBuf bytes.Buffer
	log := zerolog.Ctx(ctx)

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	configureProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}

	log.Debug().Str("cmd", shellQuote(spec.Path, spec.Args)).Msg("exec")

	if err := cmd.Start(); err != nil {
		return CmdResult{Code: -1, Err: err}, fmt.Errorf("%s: start: %w", filepath.Base(spec.Path), err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanInto(stdoutPipe, &stdoutBuf, spec.StdoutLine)
	}()
	go func() {
		defer wg.Done()
		scanInto(stderrPipe, &stderrBuf, spec.StderrLine)
	}()

	// Readers must drain before Wait closes the pipes.
	wg.Wait()
	waitErr := cmd.Wait()

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	res := CmdResult{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
		Code:   code,
		Err:    waitErr,
	}

	name := filepath.Base(spec.Path)
	if ctxErr := ctx.Err(); ctxErr != nil && waitErr != nil {
		res.Err = ctxErr
		return res, fmt.Errorf("%s canceled: %w", name, ctxErr)
	}
	if waitErr != nil {
		log.Debug().Str("cmd", name).Int("exit", code).Msg("command failed")
		return res, fmt.Errorf("%s failed (exit %d): %w", name, code, waitErr)
	}
	return res, nil
}

func scanInto(r io.Reader, buf *bytes.Buffer, onLine func(string)) {
	sc := bufio.NewScanner(r)
	// ffprobe prints one line per stream and metadata tag; chapter-heavy
	// files can exceed the default 64KB token limit.
	const maxCapacity = 1024 * 1024
	sc.Buffer(make([]byte, 0, 64*1024), maxCapacity)
	for sc.Scan() {
		line := sc.Text()
		if onLine != nil {
			onLine(line)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func tailLines(b []byte, n int) string {
	if n <= 0 || len(b) == 0 {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}

// shellQuote returns a printable shell-like command string for logging.
func shellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
