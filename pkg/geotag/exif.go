package geotag

import (
	"io/fs"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the EXIF DateTime format. It carries no timezone.
const exifTimeLayout = "2006:01:02 15:04:05"

// ExifExtractor reads geotags from EXIF data using goexif.
type ExifExtractor struct {
	// Location is used to interpret DateTimeOriginal, which has no timezone.
	// If nil, time.Local is used.
	Location *time.Location
}

// Extract decodes name once and resolves the capture time, altitude and
// position from the decoded tags.
func (e ExifExtractor) Extract(fsys fs.FS, name string) (Record, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Record{}, &ExtractError{Path: name, Err: err}
	}
	defer f.Close()

	// Non-critical errors come back alongside a usable, partially populated *Exif.
	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return Record{}, &ExtractError{Path: name, Err: err}
	}

	loc := e.Location
	if loc == nil {
		loc = time.Local
	}

	rec := Record{Path: name}
	rec.CapturedAt, rec.Altitude = captureAndAltitude(x, loc)
	rec.Latitude, rec.Longitude = position(x)
	return rec, nil
}

func captureAndAltitude(x *exif.Exif, loc *time.Location) (time.Time, *float64) {
	var capturedAt time.Time
	if tm, ok := exifTimeFromTag(x, exif.DateTimeOriginal, loc); ok {
		capturedAt = tm
	}
	return capturedAt, altitude(x)
}

func position(x *exif.Exif) (*float64, *float64) {
	lat, lng, err := x.LatLong()
	if err != nil {
		return nil, nil
	}
	return present(lat), present(lng)
}

func altitude(x *exif.Exif) *float64 {
	tag, err := x.Get(exif.GPSAltitude)
	if err != nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}
	alt := float64(num) / float64(den)

	// GPSAltitudeRef 1 means below sea level.
	if ref, err := x.Get(exif.GPSAltitudeRef); err == nil {
		if v, err := ref.Int(0); err == nil && v == 1 {
			alt = -alt
		}
	}
	return present(alt)
}

func exifTimeFromTag(x *exif.Exif, tag exif.FieldName, loc *time.Location) (time.Time, bool) {
	f, err := x.Get(tag)
	if err != nil {
		return time.Time{}, false
	}
	s, err := f.StringVal()
	if err != nil {
		return time.Time{}, false
	}
	tm, err := time.ParseInLocation(exifTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}
