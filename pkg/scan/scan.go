package scan

import (
	"io/fs"
	"path"
	"strings"

	"github.com/quidome/exif-trackr-go/pkg/geotag"
)

// ProgressInterval is how many processed entries separate two progress reports.
const ProgressInterval = 100

// Progress holds the walk counters.
//
// Total grows as each directory is listed, so nested directories enlarge it as
// they are discovered rather than up front.
type Progress struct {
	Total     int
	Processed int
}

// Reporter receives side-channel events from a walk.
type Reporter interface {
	// Progress is called every time Processed reaches a multiple of ProgressInterval.
	Progress(p Progress)
	// Skipped is called for a file or directory that could not be read.
	Skipped(path string, err error)
}

// Options configures Walk.
type Options struct {
	// Recursive enables descending into subdirectories.
	Recursive bool

	// Extractor reads each file. If nil, geotag.ExifExtractor{} is used.
	Extractor geotag.Extractor

	// Reporter receives progress and skip events. If nil, events are dropped.
	Reporter Reporter

	// Extensions optionally restricts extraction to files with these
	// extensions (case-insensitive, leading dot optional). Empty means every file.
	Extensions []string
}

// Walk visits root in fsys depth-first and returns the complete geotag records
// in discovery order.
//
// Only a failure to list root itself is returned as an error. Files the
// extractor cannot read, and nested directories that cannot be listed, are
// reported through opts.Reporter and skipped.
func Walk(fsys fs.FS, root string, opts Options) ([]geotag.Record, error) {
	w := &walker{
		fsys:      fsys,
		opts:      opts,
		extractor: opts.Extractor,
		reporter:  opts.Reporter,
		exts:      normalizeExts(opts.Extensions),
	}
	if w.extractor == nil {
		w.extractor = geotag.ExifExtractor{}
	}
	if w.reporter == nil {
		w.reporter = discard{}
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}
	w.walkEntries(root, entries)
	return w.records, nil
}

type walker struct {
	fsys      fs.FS
	opts      Options
	extractor geotag.Extractor
	reporter  Reporter
	exts      map[string]bool

	progress Progress
	records  []geotag.Record
}

func (w *walker) walkDir(dir string) {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		w.reporter.Skipped(dir, err)
		return
	}
	w.walkEntries(dir, entries)
}

func (w *walker) walkEntries(dir string, entries []fs.DirEntry) {
	w.progress.Total += len(entries)

	for _, d := range entries {
		w.visit(path.Join(dir, d.Name()), d)

		w.progress.Processed++
		if w.progress.Processed%ProgressInterval == 0 {
			w.reporter.Progress(w.progress)
		}
	}
}

func (w *walker) visit(name string, d fs.DirEntry) {
	isDir := d.IsDir()
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := fs.Stat(w.fsys, name)
		if err != nil {
			w.reporter.Skipped(name, err)
			return
		}
		if info.IsDir() {
			// Symlinked directories are never followed, so a link back up
			// the tree cannot loop.
			return
		}
		isDir = false
	}

	if isDir {
		if w.opts.Recursive {
			w.walkDir(name)
		}
		return
	}

	if len(w.exts) > 0 && !w.exts[strings.ToLower(path.Ext(name))] {
		return
	}

	rec, err := w.extractor.Extract(w.fsys, name)
	if err != nil {
		w.reporter.Skipped(name, err)
		return
	}
	rec.Path = name
	if rec.Complete() {
		w.records = append(w.records, rec)
	}
}

func normalizeExts(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		e := strings.TrimSpace(strings.ToLower(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return m
}

type discard struct{}

func (discard) Progress(Progress)     {}
func (discard) Skipped(string, error) {}
