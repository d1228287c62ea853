package render

import (
	"encoding/xml"
	"strconv"

	"github.com/quidome/exif-trackr-go/pkg/track"
)

const (
	gpxVersion   = "1.1"
	gpxNamespace = "http://www.topografix.com/GPX/1/1"
	gpxCreator   = "exif-trackr"
	gpxLinkHref  = "https://github.com/quidome/exif-trackr-go"
	gpxLinkText  = "Exif Trackr"
)

type gpxDocument struct {
	XMLName  xml.Name    `xml:"gpx"`
	Version  string      `xml:"version,attr"`
	Creator  string      `xml:"creator,attr"`
	Xmlns    string      `xml:"xmlns,attr"`
	Metadata gpxMetadata `xml:"metadata"`
	Track    gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Link gpxLink `xml:"link"`
}

type gpxLink struct {
	Href string `xml:"href,attr"`
	Text string `xml:"text"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  string  `xml:"lat,attr"`
	Lon  string  `xml:"lon,attr"`
	Ele  *string `xml:"ele,omitempty"`
	Time string  `xml:"time"`
}

// renderGPX writes the whole track as a single trkseg.
func renderGPX(t track.Track) ([]byte, error) {
	seg := gpxSegment{Points: make([]gpxPoint, 0, len(t))}
	for _, r := range t {
		p := gpxPoint{
			Lat:  formatFloat(*r.Latitude),
			Lon:  formatFloat(*r.Longitude),
			Time: formatTime(r.CapturedAt),
		}
		if r.Altitude != nil {
			ele := formatFloat(*r.Altitude)
			p.Ele = &ele
		}
		seg.Points = append(seg.Points, p)
	}

	doc := gpxDocument{
		Version:  gpxVersion,
		Creator:  gpxCreator,
		Xmlns:    gpxNamespace,
		Metadata: gpxMetadata{Link: gpxLink{Href: gpxLinkHref, Text: gpxLinkText}},
		Track:    gpxTrack{Segments: []gpxSegment{seg}},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
