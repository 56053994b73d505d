// Package scan lists the video files in a folder and pairs each with the
// audio file it will produce.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ansel1/merry/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"

	"jpaudio/internal/model"
	"jpaudio/internal/util/media"
)

// ErrDirectory is returned when the input folder cannot be listed.
var ErrDirectory = merry.Sentinel("cannot read input directory")

// DefaultVideoExts are the extensions scanned when none are configured.
var DefaultVideoExts = []string{".mkv", ".mp4"}

// Collision is a file whose output path is already claimed by an earlier file.
type Collision struct {
	File    model.VideoFile
	Claimer string // input path that owns the output
}

// Result is the outcome of scanning a directory.
type Result struct {
	Files      []model.VideoFile
	Collisions []Collision
}

// ExtSet builds a normalized extension set. An empty input yields the defaults.
func ExtSet(exts []string) mapset.Set[string] {
	normalized := lo.Compact(lo.Map(exts, func(e string, _ int) string {
		return media.NormalizeExt(e)
	}))
	if len(normalized) == 0 {
		normalized = DefaultVideoExts
	}
	return mapset.NewSet(normalized...)
}

// Directory lists the immediate regular files of dir whose extension, compared
// case-insensitively, is one of videoExts. Files are returned sorted by name.
// When two inputs map to the same output path, the first by name keeps it and
// the others are reported as collisions.
func Directory(dir string, videoExts []string, audioExt string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, merry.Wrap(ErrDirectory, merry.AppendMessagef("%s: %v", dir, err))
	}
	exts := ExtSet(videoExts)

	var names []string
	for _, e := range entries {
		if !isRegular(dir, e) {
			continue
		}
		if exts.Contains(strings.ToLower(filepath.Ext(e.Name()))) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var res Result
	claimed := make(map[string]string, len(names))
	for _, name := range names {
		in := filepath.Join(dir, name)
		f := model.VideoFile{InputPath: in, OutputPath: media.OutputPath(in, audioExt)}
		if owner, ok := claimed[f.OutputPath]; ok {
			res.Collisions = append(res.Collisions, Collision{File: f, Claimer: owner})
			continue
		}
		claimed[f.OutputPath] = in
		res.Files = append(res.Files, f)
	}
	return res, nil
}

// isRegular follows symlinks so that linked video files are processed.
func isRegular(dir string, e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}
