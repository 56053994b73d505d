// Package selector picks the Japanese audio stream out of ffprobe's
// human-readable stream listing.
package selector

import (
	"regexp"
	"strings"

	"github.com/ansel1/merry/v2"

	"jpaudio/internal/model"
)

// ErrNotFound is returned when no Japanese audio stream can be identified.
var ErrNotFound = merry.Sentinel("no japanese audio track found")

// JapaneseTag is the ISO 639-2 code ffprobe prints for Japanese streams.
const JapaneseTag = "jpn"

// audioStreamRE matches lines such as
//
//	Stream #0:2(jpn): Audio: aac (LC), 48000 Hz, stereo, fltp
//	Stream #0:1[0x1100](eng): Audio: ac3
//	Stream #0:1: Audio: flac
var audioStreamRE = regexp.MustCompile(`Stream #(\d+:\d+)(?:\[0x[0-9a-fA-F]+\])?(?:\(([a-zA-Z]+)\))?: Audio`)

// ParseAudioStreams returns the audio streams listed in probe output, in the
// order they appear.
func ParseAudioStreams(probeText string) []model.StreamDescriptor {
	matches := audioStreamRE.FindAllStringSubmatch(probeText, -1)
	if len(matches) == 0 {
		return nil
	}
	streams := make([]model.StreamDescriptor, 0, len(matches))
	for _, m := range matches {
		streams = append(streams, model.StreamDescriptor{
			Label:    m[1],
			Language: m[2],
		})
	}
	return streams
}

// SelectJapaneseTrack returns the stream label to hand to ffmpeg's -map.
//
// A file with a single audio stream is assumed to be Japanese regardless of
// its tag. With several streams the first one tagged "jpn" wins; untagged
// streams are never chosen.
func SelectJapaneseTrack(probeText string) (string, error) {
	return Select(ParseAudioStreams(probeText))
}

// Select applies the selection rules to already parsed streams.
func Select(streams []model.StreamDescriptor) (string, error) {
	switch len(streams) {
	case 0:
		return "", merry.Wrap(ErrNotFound, merry.AppendMessage("no audio streams"))
	case 1:
		return streams[0].Label, nil
	}
	for _, s := range streams {
		if strings.EqualFold(s.Language, JapaneseTag) {
			return s.Label, nil
		}
	}
	return "", merry.Wrap(ErrNotFound, merry.AppendMessagef("%d audio streams, none tagged %s", len(streams), JapaneseTag))
}
