// Package track orders complete geotag records into a single time-ordered track.
package track

import (
	"errors"
	"fmt"
	"sort"

	"github.com/quidome/exif-trackr-go/pkg/geotag"
)

var (
	// ErrIncompleteRecord is returned when a record without a capture time or
	// position reaches Finalize. Incomplete records are dropped during the walk.
	ErrIncompleteRecord = errors.New("incomplete geotag record")
)

// Track is a sequence of complete records, non-decreasing by capture time.
type Track []geotag.Record

// Finalize sorts a copy of records by capture time. Records sharing a capture
// time keep their relative discovery order.
func Finalize(records []geotag.Record) (Track, error) {
	t := make(Track, 0, len(records))
	for _, r := range records {
		if !r.Complete() {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteRecord, r.Path)
		}
		t = append(t, r)
	}

	sort.SliceStable(t, func(i, j int) bool {
		return t[i].CapturedAt.Before(t[j].CapturedAt)
	})
	return t, nil
}
