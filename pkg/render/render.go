// Package render serializes a track into GPX or GeoJSON.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quidome/exif-trackr-go/pkg/track"
)

// Format selects the output document type.
type Format string

const (
	FormatGPX     Format = "gpx"
	FormatGeoJSON Format = "geojson"
)

// Formats lists the supported formats. The first entry is the default.
var Formats = []Format{FormatGPX, FormatGeoJSON}

var (
	// ErrUnsupportedFormat is returned for a format that is not in Formats.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// timeLayout renders instants as UTC ISO-8601 with milliseconds.
const timeLayout = "2006-01-02T15:04:05.000Z"

// ParseFormat validates s as a Format. Only the exact lowercase names match.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnsupportedFormat, s, formatList())
}

// Render returns the document for t in format f. The document always ends
// with exactly one newline.
func Render(t track.Track, f Format) ([]byte, error) {
	var (
		doc []byte
		err error
	)
	switch f {
	case FormatGPX:
		doc, err = renderGPX(t)
	case FormatGeoJSON:
		doc, err = renderGeoJSON(t)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", f, err)
	}

	doc = bytes.TrimRight(doc, "\n")
	return append(doc, '\n'), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatList() string {
	names := make([]string, 0, len(Formats))
	for _, f := range Formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
