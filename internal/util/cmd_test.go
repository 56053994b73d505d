package util

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found in PATH")
	}
	return sh
}

func TestRun_CapturesStreams(t *testing.T) {
	sh := requireShell(t)

	var errLines []string
	res, err := Run(context.Background(), CmdSpec{
		Path:       sh,
		Args:       []string{"-c", "echo out; echo 'Stream #0:1(jpn): Audio' >&2"},
		StderrLine: func(l string) { errLines = append(errLines, l) },
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Code)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "Stream #0:1(jpn): Audio\n", string(res.Stderr))
	assert.Equal(t, []string{"Stream #0:1(jpn): Audio"}, errLines)
}

func TestRun_NonZeroExit(t *testing.T) {
	sh := requireShell(t)

	res, err := Run(context.Background(), CmdSpec{
		Path: sh,
		Args: []string{"-c", "echo 'Invalid data found when processing input' >&2; exit 3"},
	})
	require.Error(t, err)
	assert.Equal(t, 3, res.Code)
	assert.Contains(t, err.Error(), "exit 3")
	assert.Equal(t, "Invalid data found when processing input", res.StderrTail(2))
}

func TestRun_MissingBinary(t *testing.T) {
	res, err := Run(context.Background(), CmdSpec{
		Path: filepath.Join(t.TempDir(), "no-such-tool"),
	})
	require.Error(t, err)
	assert.Equal(t, -1, res.Code)
}

func TestRun_ContextTimeoutKillsProcess(t *testing.T) {
	sh := requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Run(ctx, CmdSpec{
		Path: sh,
		Args: []string{"-c", "sleep 30 & wait"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestStderrTail(t *testing.T) {
	r := CmdResult{Stderr: []byte("a\n\nb\nc\n\n")}
	assert.Equal(t, "b\nc", r.StderrTail(2))
	assert.Equal(t, "a\nb\nc", r.StderrTail(10))
	assert.Equal(t, "", r.StderrTail(0))
	assert.Equal(t, "", CmdResult{}.StderrTail(3))
}

func TestShellQuote(t *testing.T) {
	got := shellQuote("/usr/bin/ffmpeg", []string{"-i", "My Show [01].mkv", "-map", "0:2", ""})
	assert.Equal(t, `/usr/bin/ffmpeg -i 'My Show [01].mkv' -map 0:2 ''`, got)
}
