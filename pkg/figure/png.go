package figure

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"math"
)

const (
	metersPerInch = 0.0254

	// ihdrEnd is the offset just past the IHDR chunk: signature, then
	// length, type, 13 data bytes and CRC.
	ihdrEnd = 8 + 4 + 4 + 13 + 4
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// EncodePNG writes img as PNG and records dpi in a pHYs chunk, which
// image/png does not emit on its own.
func EncodePNG(w io.Writer, img image.Image, dpi float64) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	data := buf.Bytes()
	if len(data) < ihdrEnd || !bytes.Equal(data[:8], pngSignature) || string(data[12:16]) != "IHDR" {
		return errors.New("encoding png: unexpected encoder output")
	}

	for _, part := range [][]byte{data[:ihdrEnd], physChunk(dpi), data[ihdrEnd:]} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("writing png: %w", err)
		}
	}
	return nil
}

func physChunk(dpi float64) []byte {
	ppm := uint32(math.Round(dpi / metersPerInch))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit is the meter
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}

// ReadDPI returns the horizontal resolution recorded in a PNG's pHYs chunk.
func ReadDPI(r io.Reader) (float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if len(data) < 8 || !bytes.Equal(data[:8], pngSignature) {
		return 0, errors.New("not a png")
	}

	for off := 8; off+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		kind := string(data[off+4 : off+8])
		body := off + 8
		if body+length+4 > len(data) {
			break
		}
		if kind == "pHYs" && length == 9 && data[body+8] == 1 {
			ppm := binary.BigEndian.Uint32(data[body : body+4])
			return math.Round(float64(ppm) * metersPerInch), nil
		}
		if kind == "IDAT" {
			break
		}
		off = body + length + 4
	}
	return 0, errors.New("no pHYs chunk")
}
