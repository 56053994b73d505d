package extractor

// DefaultQuality asks the encoder for its best variable-bitrate quality.
const DefaultQuality = "0"

// BuildArgs constructs the ffmpeg arguments that copy stream track out of
// inputPath into outputPath. The output codec follows from the output
// extension. When includeProgress is set, ffmpeg reports key=value progress
// on stdout.
func BuildArgs(inputPath, track, outputPath, quality string, overwrite, includeProgress bool) []string {
	if quality == "" {
		quality = DefaultQuality
	}
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-i", inputPath,
		"-q:a", quality,
		"-map", track,
	}
	if overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	if includeProgress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return append(args, outputPath)
}
