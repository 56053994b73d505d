package selector

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpaudio/internal/model"
)

const probeHeader = `Input #0, matroska,webm, from 'Dragon.Ball.KAI.-.90.mkv':
  Metadata:
    encoder         : libebml v1.2.3 + libmatroska v1.3.0
  Duration: 00:23:02.17, start: 0.000000, bitrate: 4555 kb/s
    Stream #0:0: Video: h264 (High), yuv420p(progressive), 1440x1080 [SAR 1:1 DAR 4:3], 23.98 fps (default)
`

func probe(lines ...string) string {
	return probeHeader + strings.Join(lines, "\n") + "\n    Stream #0:9(eng): Subtitle: subrip (default)\n"
}

func TestParseAudioStreams(t *testing.T) {
	text := probe(
		"    Stream #0:1(eng): Audio: aac (LC), 48000 Hz, 5.1, fltp (default)",
		"    Stream #0:2(jpn): Audio: aac (LC), 48000 Hz, stereo, fltp",
		"    Stream #0:3: Audio: flac, 48000 Hz, stereo",
		"    Stream #0:11[0x1101](JPN): Audio: ac3, 48000 Hz, stereo",
	)
	got := ParseAudioStreams(text)
	assert.Equal(t, []model.StreamDescriptor{
		{Label: "0:1", Language: "eng"},
		{Label: "0:2", Language: "jpn"},
		{Label: "0:3", Language: ""},
		{Label: "0:11", Language: "JPN"},
	}, got)
}

func TestParseAudioStreams_IgnoresOtherStreamTypes(t *testing.T) {
	assert.Empty(t, ParseAudioStreams(probe()))
	assert.Empty(t, ParseAudioStreams(""))
}

func TestSelectJapaneseTrack(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    string
		wantErr bool
	}{
		{
			name:  "single stream tagged eng is still chosen",
			lines: []string{"    Stream #0:1(eng): Audio: aac"},
			want:  "0:1",
		},
		{
			name:  "single untagged stream",
			lines: []string{"    Stream #0:1: Audio: aac"},
			want:  "0:1",
		},
		{
			name:  "single jpn stream",
			lines: []string{"    Stream #0:3(jpn): Audio: aac"},
			want:  "0:3",
		},
		{
			name:    "no audio streams",
			lines:   nil,
			wantErr: true,
		},
		{
			name: "japanese second",
			lines: []string{
				"    Stream #0:1(eng): Audio: aac (LC), 48000 Hz, 5.1, fltp (default)",
				"    Stream #0:2(jpn): Audio: aac (LC), 48000 Hz, stereo, fltp",
			},
			want: "0:2",
		},
		{
			name: "japanese first",
			lines: []string{
				"    Stream #0:1(jpn): Audio: aac",
				"    Stream #0:2(eng): Audio: aac",
			},
			want: "0:1",
		},
		{
			name: "tag match is case-insensitive",
			lines: []string{
				"    Stream #0:1(eng): Audio: aac",
				"    Stream #0:2(eng): Audio: aac",
				"    Stream #0:3(Jpn): Audio: aac",
			},
			want: "0:3",
		},
		{
			name: "first of several jpn wins",
			lines: []string{
				"    Stream #0:1(eng): Audio: aac",
				"    Stream #0:2(jpn): Audio: aac",
				"    Stream #0:3(jpn): Audio: ac3",
			},
			want: "0:2",
		},
		{
			name: "two english streams",
			lines: []string{
				"    Stream #0:1(eng): Audio: aac",
				"    Stream #0:2(eng): Audio: aac",
			},
			wantErr: true,
		},
		{
			name: "untagged stream is not chosen without jpn",
			lines: []string{
				"    Stream #0:1(eng): Audio: aac",
				"    Stream #0:2: Audio: aac",
			},
			wantErr: true,
		},
		{
			name: "untagged stream does not beat jpn",
			lines: []string{
				"    Stream #0:1: Audio: aac",
				"    Stream #0:2(jpn): Audio: aac",
			},
			want: "0:2",
		},
		{
			name: "double digit stream index",
			lines: []string{
				"    Stream #0:10(eng): Audio: aac",
				"    Stream #0:12(jpn): Audio: aac",
			},
			want: "0:12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectJapaneseTrack(probe(tt.lines...))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNotFound), "want ErrNotFound, got %v", err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_IsDeterministic(t *testing.T) {
	streams := []model.StreamDescriptor{
		{Label: "0:1", Language: "eng"},
		{Label: "0:2", Language: "jpn"},
	}
	for i := 0; i < 5; i++ {
		got, err := Select(streams)
		require.NoError(t, err)
		assert.Equal(t, "0:2", got)
	}
}
