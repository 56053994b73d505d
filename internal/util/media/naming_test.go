package media

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		audioExt string
		want     string
	}{
		{name: "mkv to mp3", input: filepath.Join("anime", "ep01.mkv"), audioExt: ".mp3", want: filepath.Join("anime", "ep01.mp3")},
		{name: "upper case video ext", input: filepath.Join("anime", "ep02.MP4"), audioExt: ".mp3", want: filepath.Join("anime", "ep02.mp3")},
		{name: "dots in stem", input: filepath.Join("/media", "Dragon.Ball.KAI.-.90.-.1080p.mkv"), audioExt: ".mp3", want: filepath.Join("/media", "Dragon.Ball.KAI.-.90.-.1080p.mp3")},
		{name: "ext without dot", input: "ep03.mkv", audioExt: "m4a", want: "ep03.m4a"},
		{name: "empty ext falls back", input: "ep04.mkv", audioExt: "", want: "ep04.mp3"},
		{name: "no input extension", input: filepath.Join("dir", "raw"), audioExt: ".flac", want: filepath.Join("dir", "raw.flac")},
		{name: "spaces preserved", input: filepath.Join("d", "My Show 01.mkv"), audioExt: ".mp3", want: filepath.Join("d", "My Show 01.mp3")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.input, tt.audioExt))
		})
	}
}

func TestOutputPath_IndependentOfExtension(t *testing.T) {
	dir := filepath.Join("lib", "season1")
	for _, ext := range []string{".mkv", ".mp4", ".MKV", ".avi", ""} {
		assert.Equal(t, filepath.Join(dir, "S.mp3"), OutputPath(filepath.Join(dir, "S"+ext), ".mp3"), ext)
	}
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".mkv", NormalizeExt("MKV"))
	assert.Equal(t, ".mp4", NormalizeExt(" .Mp4 "))
	assert.Equal(t, "", NormalizeExt(""))
}
