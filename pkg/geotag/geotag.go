package geotag

import (
	"fmt"
	"io/fs"
	"time"
)

// Record is a single, possibly partial, geotag observation.
type Record struct {
	// Path is the file the record was read from, relative to the walk root.
	Path string

	// CapturedAt is the EXIF DateTimeOriginal. The zero value means absent.
	CapturedAt time.Time

	// Latitude and Longitude are decimal degrees. nil means absent.
	Latitude  *float64
	Longitude *float64

	// Altitude is in metres above sea level. nil means absent, which is
	// legitimate even on a complete record.
	Altitude *float64
}

// Complete reports whether the record has a capture time and both coordinates.
func (r Record) Complete() bool {
	return !r.CapturedAt.IsZero() && r.Latitude != nil && r.Longitude != nil
}

// Extractor reads a geotag record from a single file.
//
// Implementations return a *ExtractError when the file cannot be decoded.
// A decodable file with missing fields is not an error: the missing fields
// are simply left absent on the returned Record.
type Extractor interface {
	Extract(fsys fs.FS, name string) (Record, error)
}

// ExtractError reports a file the metadata decoder could not parse.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// present converts a decoder value into an optional field. Zero is treated as
// missing, matching how the decoder reports tags it could not resolve.
func present(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
