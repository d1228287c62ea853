package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/quidome/exif-trackr-go/pkg/track"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "gpx", want: FormatGPX},
		{in: "geojson", want: FormatGeoJSON},
		{in: "GPX", wantErr: true},
		{in: " geojson ", wantErr: true},
		{in: "kml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := Render(sampleTrack(), Format("kml")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRender_GPX(t *testing.T) {
	got, err := Render(sampleTrack(), FormatGPX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="exif-trackr" xmlns="http://www.topografix.com/GPX/1/1">
  <metadata>
    <link href="https://github.com/quidome/exif-trackr-go">
      <text>Exif Trackr</text>
    </link>
  </metadata>
  <trk>
    <trkseg>
      <trkpt lat="35.681236" lon="139.767125">
        <ele>40.5</ele>
        <time>2024-01-01T01:00:00.000Z</time>
      </trkpt>
      <trkpt lat="35.6895" lon="139.6917">
        <time>2024-01-01T01:30:00.250Z</time>
      </trkpt>
    </trkseg>
  </trk>
</gpx>
`
	if string(got) != want {
		t.Fatalf("unexpected GPX\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_GPXEmptyTrack(t *testing.T) {
	got, err := Render(track.Track{}, FormatGPX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(string(got), "<trkseg>") != 1 {
		t.Fatalf("expected a single trkseg, got:\n%s", got)
	}
	if strings.Contains(string(got), "<trkpt") {
		t.Fatalf("expected no points, got:\n%s", got)
	}
}

func TestRender_GeoJSON(t *testing.T) {
	got, err := Render(sampleTrack(), FormatGeoJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !gjson.ValidBytes(got) {
		t.Fatalf("invalid JSON:\n%s", got)
	}

	doc := gjson.ParseBytes(got)
	if v := doc.Get("type").String(); v != "FeatureCollection" {
		t.Fatalf("unexpected type %q", v)
	}
	if n := doc.Get("features.#").Int(); n != 1 {
		t.Fatalf("expected 1 feature, got %d", n)
	}

	feature := doc.Get("features.0")
	if v := feature.Get("geometry.type").String(); v != "LineString" {
		t.Fatalf("unexpected geometry type %q", v)
	}

	coords := feature.Get("geometry.coordinates").Array()
	times := feature.Get("properties.times").Array()
	altitudes := feature.Get("properties.altitudes").Array()
	if len(coords) != 2 || len(times) != 2 || len(altitudes) != 2 {
		t.Fatalf("expected aligned arrays of length 2, got %d/%d/%d", len(coords), len(times), len(altitudes))
	}

	// Longitude first.
	if lon, lat := coords[0].Get("0").Float(), coords[0].Get("1").Float(); lon != 139.767125 || lat != 35.681236 {
		t.Fatalf("unexpected first coordinate [%v, %v]", lon, lat)
	}
	if times[1].String() != "2024-01-01T01:30:00.250Z" {
		t.Fatalf("unexpected second time %q", times[1].String())
	}
	if altitudes[0].Float() != 40.5 {
		t.Fatalf("unexpected first altitude %v", altitudes[0].Raw)
	}
	if altitudes[1].Type != gjson.Null {
		t.Fatalf("expected null altitude, got %s", altitudes[1].Raw)
	}
}

func TestRender_GeoJSONEmptyTrack(t *testing.T) {
	got, err := Render(track.Track{}, FormatGeoJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feature := gjson.GetBytes(got, "features.0")
	for _, p := range []string{"geometry.coordinates", "properties.times", "properties.altitudes"} {
		v := feature.Get(p)
		if !v.IsArray() || len(v.Array()) != 0 {
			t.Fatalf("expected empty array at %s, got %s", p, v.Raw)
		}
	}
}

func TestRender_GeoJSONIsIndented(t *testing.T) {
	got, err := Render(sampleTrack(), FormatGeoJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(got, []byte("{\n  \"")) {
		t.Fatalf("expected two-space indented document, got:\n%s", got)
	}
}

func TestRender_IsDeterministicAndEndsWithOneNewline(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			first, err := Render(sampleTrack(), f)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			second, err := Render(sampleTrack(), f)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !bytes.Equal(first, second) {
				t.Fatalf("output differs between runs\nfirst:\n%s\nsecond:\n%s", first, second)
			}
			if !bytes.HasSuffix(first, []byte("\n")) || bytes.HasSuffix(first, []byte("\n\n")) {
				t.Fatalf("expected exactly one trailing newline, got %q", first[len(first)-3:])
			}
		})
	}
}

func sampleTrack() track.Track {
	lat1, lng1, alt1 := 35.681236, 139.767125, 40.5
	lat2, lng2 := 35.6895, 139.6917
	jst := time.FixedZone("JST", 9*60*60)

	return track.Track{
		{
			Path:       "a.jpg",
			CapturedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, jst),
			Latitude:   &lat1,
			Longitude:  &lng1,
			Altitude:   &alt1,
		},
		{
			Path:       "b.jpg",
			CapturedAt: time.Date(2024, 1, 1, 1, 30, 0, 250*int(time.Millisecond), time.UTC),
			Latitude:   &lat2,
			Longitude:  &lng2,
		},
	}
}
