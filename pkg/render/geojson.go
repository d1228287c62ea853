package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/pretty"

	"github.com/quidome/exif-trackr-go/pkg/track"
)

// prettyOptions fixes the indentation so identical tracks diff cleanly.
var prettyOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// renderGeoJSON writes one LineString feature. Coordinates are
// [longitude, latitude]; the times and altitudes properties are index-aligned
// with them, with null for a missing altitude.
func renderGeoJSON(t track.Track) ([]byte, error) {
	line := make(orb.LineString, 0, len(t))
	times := make([]string, 0, len(t))
	altitudes := make([]*float64, 0, len(t))
	for _, r := range t {
		line = append(line, orb.Point{*r.Longitude, *r.Latitude})
		times = append(times, formatTime(r.CapturedAt))
		altitudes = append(altitudes, r.Altitude)
	}

	f := geojson.NewFeature(line)
	f.Properties["times"] = times
	f.Properties["altitudes"] = altitudes

	fc := geojson.NewFeatureCollection()
	fc.Append(f)

	raw, err := fc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(raw, prettyOptions), nil
}
