package deps

import (
	"os"
	"os/exec"

	"github.com/ansel1/merry/v2"
)

// ErrMissingBinary is returned when a required external tool cannot be found.
var ErrMissingBinary = merry.Sentinel("required binary not found")

// Status reports where a tool was found, or why it was not.
type Status struct {
	Name      string
	Path      string
	Available bool
	Err       error
}

// find returns customPath when it exists or resolves in PATH, otherwise the
// PATH lookup of name.
func find(name, customPath string) (string, error) {
	if customPath != "" {
		if fi, err := os.Stat(customPath); err == nil && !fi.IsDir() {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", merry.Wrap(ErrMissingBinary, merry.AppendMessagef("could not find %s at %q", name, customPath))
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", merry.Wrap(ErrMissingBinary, merry.AppendMessagef("could not find %s in PATH. Please install ffmpeg", name))
}

// FindFFmpeg returns the path to the ffmpeg binary.
func FindFFmpeg(customPath string) (string, error) {
	return find("ffmpeg", customPath)
}

// FindFFprobe returns the path to the ffprobe binary.
func FindFFprobe(customPath string) (string, error) {
	return find("ffprobe", customPath)
}

// Check resolves both tools and reports each one, for the doctor command.
func Check(ffprobePath, ffmpegPath string) []Status {
	probe, perr := FindFFprobe(ffprobePath)
	ff, ferr := FindFFmpeg(ffmpegPath)
	return []Status{
		{Name: "ffprobe", Path: probe, Available: perr == nil, Err: perr},
		{Name: "ffmpeg", Path: ff, Available: ferr == nil, Err: ferr},
	}
}
