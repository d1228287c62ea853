package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/quidome/exif-trackr-go/pkg/geotag"
	"github.com/quidome/exif-trackr-go/pkg/scan"
)

// Reporter logs walk events, one line each.
type Reporter struct {
	logger *slog.Logger
	root   string
}

// NewReporter returns a scan.Reporter that logs to logger. Paths reported by
// the walk are relative to root and are joined with it for display.
func NewReporter(logger *slog.Logger, root string) *Reporter {
	return &Reporter{logger: logger, root: root}
}

var _ scan.Reporter = (*Reporter)(nil)

// Progress logs the processed/total counters.
func (r *Reporter) Progress(p scan.Progress) {
	r.logger.Info("progress", slog.String("progress", fmt.Sprintf("%d/%d", p.Processed, p.Total)))
}

// Skipped logs a file that could not be read.
func (r *Reporter) Skipped(path string, err error) {
	var extractErr *geotag.ExtractError
	if errors.As(err, &extractErr) {
		err = extractErr.Err
	}
	r.logger.Warn("skipping file",
		slog.String("path", filepath.Join(r.root, filepath.FromSlash(path))),
		slog.Any("error", err),
	)
}
