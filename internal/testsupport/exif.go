// Package testsupport builds synthetic image metadata for tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TIFF field types used by the fixtures.
const (
	typeByte     uint16 = 1
	typeASCII    uint16 = 2
	typeShort    uint16 = 3
	typeLong     uint16 = 4
	typeRational uint16 = 5
)

// Tag IDs from the TIFF/EXIF/GPS specifications.
const (
	tagOrientation      uint16 = 0x0112
	tagExifIFDPointer   uint16 = 0x8769
	tagGPSIFDPointer    uint16 = 0x8825
	tagDateTimeOriginal uint16 = 0x9003
	tagGPSLatitudeRef   uint16 = 0x0001
	tagGPSLatitude      uint16 = 0x0002
	tagGPSLongitudeRef  uint16 = 0x0003
	tagGPSLongitude     uint16 = 0x0004
	tagGPSAltitudeRef   uint16 = 0x0005
	tagGPSAltitude      uint16 = 0x0006
)

// Geotag describes the EXIF fields written into a fixture. Nil or zero fields
// are left out of the file entirely.
type Geotag struct {
	CapturedAt time.Time
	Latitude   *float64
	Longitude  *float64
	Altitude   *float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// TIFF returns a little-endian TIFF blob carrying g in its EXIF and GPS
// directories. goexif accepts raw TIFF input the same way it accepts JPEG.
func TIFF(g Geotag) []byte {
	var exifEntries, gpsEntries []entry

	if !g.CapturedAt.IsZero() {
		exifEntries = append(exifEntries, ascii(tagDateTimeOriginal, g.CapturedAt.Format("2006:01:02 15:04:05")))
	}
	if g.Latitude != nil {
		ref := "N"
		if *g.Latitude < 0 {
			ref = "S"
		}
		gpsEntries = append(gpsEntries, ascii(tagGPSLatitudeRef, ref), degrees(tagGPSLatitude, math.Abs(*g.Latitude)))
	}
	if g.Longitude != nil {
		ref := "E"
		if *g.Longitude < 0 {
			ref = "W"
		}
		gpsEntries = append(gpsEntries, ascii(tagGPSLongitudeRef, ref), degrees(tagGPSLongitude, math.Abs(*g.Longitude)))
	}
	if g.Altitude != nil {
		var ref byte
		if *g.Altitude < 0 {
			ref = 1
		}
		gpsEntries = append(gpsEntries,
			entry{tag: tagGPSAltitudeRef, typ: typeByte, count: 1, data: []byte{ref}},
			rational(tagGPSAltitude, uint32(math.Round(math.Abs(*g.Altitude)*100)), 100),
		)
	}

	return build(exifEntries, gpsEntries)
}

// WriteTIFF writes TIFF(g) to dir/rel, creating parent directories.
func WriteTIFF(t testing.TB, dir, rel string, g Geotag) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, TIFF(g), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func ascii(tag uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func rational(tag uint16, num, den uint32) entry {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:], num)
	binary.LittleEndian.PutUint32(b[4:], den)
	return entry{tag: tag, typ: typeRational, count: 1, data: b}
}

// degrees encodes v as degrees, minutes and seconds with the seconds kept to
// 1/10000 precision.
func degrees(tag uint16, v float64) entry {
	deg := math.Floor(v)
	minutes := math.Floor((v - deg) * 60)
	seconds := ((v-deg)*60 - minutes) * 60

	b := make([]byte, 24)
	binary.LittleEndian.PutUint32(b[0:], uint32(deg))
	binary.LittleEndian.PutUint32(b[4:], 1)
	binary.LittleEndian.PutUint32(b[8:], uint32(minutes))
	binary.LittleEndian.PutUint32(b[12:], 1)
	binary.LittleEndian.PutUint32(b[16:], uint32(math.Round(seconds*10000)))
	binary.LittleEndian.PutUint32(b[20:], 10000)
	return entry{tag: tag, typ: typeRational, count: 3, data: b}
}

func ifdSize(n int) uint32 {
	return uint32(2 + 12*n + 4)
}

func build(exifEntries, gpsEntries []entry) []byte {
	short := make([]byte, 2)
	binary.LittleEndian.PutUint16(short, 1)
	ifd0 := []entry{{tag: tagOrientation, typ: typeShort, count: 1, data: short}}

	// Pointer entries are patched once the sub-directory offsets are known.
	if len(exifEntries) > 0 {
		ifd0 = append(ifd0, entry{tag: tagExifIFDPointer, typ: typeLong, count: 1, data: make([]byte, 4)})
	}
	if len(gpsEntries) > 0 {
		ifd0 = append(ifd0, entry{tag: tagGPSIFDPointer, typ: typeLong, count: 1, data: make([]byte, 4)})
	}

	offset := uint32(8)
	ifd0Off := offset
	offset += ifdSize(len(ifd0))
	exifOff := offset
	if len(exifEntries) > 0 {
		offset += ifdSize(len(exifEntries))
	}
	gpsOff := offset
	if len(gpsEntries) > 0 {
		offset += ifdSize(len(gpsEntries))
	}
	dataOff := offset

	for i := range ifd0 {
		switch ifd0[i].tag {
		case tagExifIFDPointer:
			binary.LittleEndian.PutUint32(ifd0[i].data, exifOff)
		case tagGPSIFDPointer:
			binary.LittleEndian.PutUint32(ifd0[i].data, gpsOff)
		}
	}

	var dirs, data bytes.Buffer
	writeIFD(&dirs, &data, dataOff, ifd0)
	if len(exifEntries) > 0 {
		writeIFD(&dirs, &data, dataOff, exifEntries)
	}
	if len(gpsEntries) > 0 {
		writeIFD(&dirs, &data, dataOff, gpsEntries)
	}

	var out bytes.Buffer
	out.WriteString("II")
	_ = binary.Write(&out, binary.LittleEndian, uint16(42))
	_ = binary.Write(&out, binary.LittleEndian, ifd0Off)
	out.Write(dirs.Bytes())
	out.Write(data.Bytes())
	return out.Bytes()
}

// writeIFD appends one directory to dirs. Values longer than four bytes go to
// data, whose first byte sits at dataOff in the final file.
func writeIFD(dirs, data *bytes.Buffer, dataOff uint32, entries []entry) {
	_ = binary.Write(dirs, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(dirs, binary.LittleEndian, e.tag)
		_ = binary.Write(dirs, binary.LittleEndian, e.typ)
		_ = binary.Write(dirs, binary.LittleEndian, e.count)
		if len(e.data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.data)
			dirs.Write(v)
			continue
		}
		_ = binary.Write(dirs, binary.LittleEndian, dataOff+uint32(data.Len()))
		data.Write(e.data)
		if data.Len()%2 != 0 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(dirs, binary.LittleEndian, uint32(0))
}
