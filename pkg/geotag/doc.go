// Package geotag extracts a capture timestamp and GPS position from an image file.
//
// Values the decoder reports as zero or missing are normalized to "absent" so a
// file without a GPS fix never turns into a point at (0, 0).
package geotag
