// Package media derives file names for extracted audio.
package media

import (
	"path/filepath"
	"strings"
)

// DefaultAudioExt is the output extension used when none is configured.
const DefaultAudioExt = ".mp3"

// NormalizeExt lowercases ext and ensures a leading dot. Empty stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// OutputPath replaces the extension of inputPath with audioExt, keeping the
// file in the same directory. Only the final extension is replaced, so
// "Show.S01E01.mkv" becomes "Show.S01E01.mp3".
func OutputPath(inputPath, audioExt string) string {
	ext := NormalizeExt(audioExt)
	if ext == "" {
		ext = DefaultAudioExt
	}
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), stem+ext)
}
