package extractor

import (
	"strconv"
	"strings"

	"jpaudio/internal/progress"
)

// ProgressState tracks ffmpeg -progress output across lines.
type ProgressState struct {
	OutTimeUs int64
	SpeedStr  string
	TotalSize int64
}

// UpdateFromLine folds one "key=value" progress line into the state and
// returns an update whenever a "progress=" marker closes a block.
// durationSec comes from the probe report; when unknown, Percent is -1.
func (ps *ProgressState) UpdateFromLine(line, jobID string, durationSec float64) (progress.Update, bool) {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return progress.Update{}, false
	}
	key = strings.TrimSpace(key)
	val = strings.TrimSpace(val)

	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.OutTimeUs = v
		}
	case "speed":
		ps.SpeedStr = val
	case "total_size":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.TotalSize = v
		}
	case "progress":
		percent := -1.0
		if durationSec > 0 {
			percent = float64(ps.OutTimeUs) / (durationSec * 1_000_000) * 100
			if percent > 100 {
				percent = 100
			}
			if percent < 0 {
				percent = 0
			}
		}
		if val == "end" {
			percent = 100
		}

		var speedPtr *string
		if ps.SpeedStr != "" && ps.SpeedStr != "N/A" {
			s := ps.SpeedStr
			speedPtr = &s
		}
		var bytesPtr *int64
		if ps.TotalSize > 0 {
			b := ps.TotalSize
			bytesPtr = &b
		}
		return progress.Update{
			JobID:   jobID,
			Stage:   progress.StageExtracting,
			Percent: percent,
			Speed:   speedPtr,
			Bytes:   bytesPtr,
			Message: "Extracting",
		}, true
	}
	return progress.Update{}, false
}
